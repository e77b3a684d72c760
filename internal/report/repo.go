package report

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/SpiceSniper/port-explorer/internal/exception"
	"github.com/SpiceSniper/port-explorer/internal/scanner"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SqliteRepo is our report repo implementation for sqlite
type SqliteRepo struct {
	db *gorm.DB
}

// NewSqliteRepo returns a new report sqlite repo
func NewSqliteRepo(db *gorm.DB) *SqliteRepo {
	return &SqliteRepo{
		db: db,
	}
}

// Create stores a new scan report, assigning an id when missing
func (r *SqliteRepo) Create(report *Report) (*Report, error) {
	if report.Target == "" {
		return nil, errors.New("report target cannot be empty")
	}

	if report.ID == "" {
		report.ID = uuid.NewString()
	}

	model, err := reportToModel(report)

	if err != nil {
		return nil, err
	}

	if result := r.db.Create(model); result.Error != nil {
		return nil, result.Error
	}

	return modelToReport(model)
}

// Get returns a single stored report by id
func (r *SqliteRepo) Get(id string) (*Report, error) {
	if id == "" {
		return nil, errors.New("report id cannot be empty")
	}

	model := ReportModel{ID: id}

	if result := r.db.First(&model); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, exception.ErrRecordNotFound
		}

		return nil, result.Error
	}

	return modelToReport(&model)
}

// GetAll returns all stored reports, newest first
func (r *SqliteRepo) GetAll() ([]*Report, error) {
	models := []ReportModel{}

	if result := r.db.Order("created_at desc").Find(&models); result.Error != nil {
		return nil, result.Error
	}

	reports := []*Report{}

	for _, m := range models {
		m := m
		report, err := modelToReport(&m)

		if err != nil {
			return nil, err
		}

		reports = append(reports, report)
	}

	return reports, nil
}

// Latest returns the most recently stored report
func (r *SqliteRepo) Latest() (*Report, error) {
	model := ReportModel{}

	if result := r.db.Order("created_at desc").First(&model); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, exception.ErrRecordNotFound
		}

		return nil, result.Error
	}

	return modelToReport(&model)
}

// Delete removes a stored report by id
func (r *SqliteRepo) Delete(id string) error {
	if id == "" {
		return errors.New("report id cannot be empty")
	}

	return r.db.Delete(&ReportModel{ID: id}).Error
}

func modelToReport(model *ReportModel) (*Report, error) {
	results := []scanner.Result{}

	if len(model.Results) > 0 {
		if err := json.Unmarshal(model.Results, &results); err != nil {
			return nil, err
		}
	}

	return &Report{
		ID:        model.ID,
		Target:    model.Target,
		StartPort: model.StartPort,
		EndPort:   model.EndPort,
		Duration:  time.Duration(model.DurationNs),
		Results:   results,
		CreatedAt: model.CreatedAt,
	}, nil
}

func reportToModel(report *Report) (*ReportModel, error) {
	resultBytes, err := json.Marshal(report.Results)

	if err != nil {
		return nil, err
	}

	return &ReportModel{
		ID:         report.ID,
		Target:     report.Target,
		StartPort:  report.StartPort,
		EndPort:    report.EndPort,
		DurationNs: int64(report.Duration),
		Results:    datatypes.JSON(resultBytes),
		CreatedAt:  report.CreatedAt,
	}, nil
}
