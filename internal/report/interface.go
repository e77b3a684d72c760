package report

//go:generate mockgen -destination=../mock/report/mock_report.go -package=mock_report . Repo,Service

// Repo interface representing access to stored scan reports
type Repo interface {
	Create(report *Report) (*Report, error)
	Get(id string) (*Report, error)
	GetAll() ([]*Report, error)
	Latest() (*Report, error)
	Delete(id string) error
}

// Service interface for saving and retrieving scan reports
type Service interface {
	Save(report *Report) (*Report, error)
	List() ([]*Report, error)
	Latest() (*Report, error)
	Delete(id string) error
}
