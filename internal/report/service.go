package report

import (
	"github.com/SpiceSniper/port-explorer/internal/logger"
)

// ReportService represents our report.Service implementation
type ReportService struct {
	log  logger.Logger
	repo Repo
}

// NewService returns a new instance of ReportService
func NewService(repo Repo) *ReportService {
	return &ReportService{
		log:  logger.New(),
		repo: repo,
	}
}

// Save persists a completed scan report
func (s *ReportService) Save(report *Report) (*Report, error) {
	saved, err := s.repo.Create(report)

	if err != nil {
		return nil, err
	}

	s.log.Info().
		Str("id", saved.ID).
		Str("target", saved.Target).
		Int("openPorts", saved.OpenPortCount()).
		Msg("saved scan report")

	return saved, nil
}

// List returns all stored reports, newest first
func (s *ReportService) List() ([]*Report, error) {
	return s.repo.GetAll()
}

// Latest returns the most recently stored report
func (s *ReportService) Latest() (*Report, error) {
	return s.repo.Latest()
}

// Delete removes a stored report
func (s *ReportService) Delete(id string) error {
	return s.repo.Delete(id)
}
