package util

import (
	"errors"
	"io/fs"

	"github.com/SpiceSniper/port-explorer/internal/config"
	"github.com/SpiceSniper/port-explorer/internal/event"
	"github.com/SpiceSniper/port-explorer/internal/locale"
	"github.com/SpiceSniper/port-explorer/internal/logger"
	"github.com/SpiceSniper/port-explorer/internal/report"
	"github.com/SpiceSniper/port-explorer/internal/scanner"
	"github.com/SpiceSniper/port-explorer/internal/signature"
	"github.com/spf13/viper"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// App bundles the wired services consumed by the cli commands
type App struct {
	Conf    *config.Config
	Locale  *locale.Locale
	Scanner scanner.Scanner
	Reports report.Service
	Events  event.Manager
}

// getSqliteDbConnection creates and returns a sqlite database connection
func getSqliteDbConnection(dbFile string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dbFile), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})

	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(&report.ReportModel{})

	if err != nil {
		return nil, err
	}

	return db, nil
}

// CreateApp wires configuration, signatures, localisation, storage,
// and the scan engine into a runnable application
func CreateApp() (*App, error) {
	log := logger.New()

	configFile := viper.Get("config-file").(string)

	conf, err := config.New(configFile)

	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}

		log.Warn().
			Str("configFile", configFile).
			Msg("config file not found, using defaults")

		conf = config.Default()
	}

	signaturesDir := viper.Get("signatures-dir").(string)

	signatures, err := signature.Load(signaturesDir)

	if err != nil {
		return nil, err
	}

	log.Debug().
		Int("count", len(signatures)).
		Msg("loaded service signatures")

	loc := locale.New(viper.Get("locale-dir").(string), conf.Language)

	dbFile := viper.Get("database-file").(string)

	db, err := getSqliteDbConnection(dbFile)

	if err != nil {
		return nil, err
	}

	reportRepo := report.NewSqliteRepo(db)
	reportService := report.NewService(reportRepo)

	events := event.NewEventManager()

	portScanner := scanner.NewPortScanner(
		conf.Addr(),
		signatures,
		conf.MaxThreads,
		events,
	)

	return &App{
		Conf:    conf,
		Locale:  loc,
		Scanner: portScanner,
		Reports: reportService,
		Events:  events,
	}, nil
}
