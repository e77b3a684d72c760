package commands

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/SpiceSniper/port-explorer/internal/event"
	"github.com/SpiceSniper/port-explorer/internal/logger"
	"github.com/SpiceSniper/port-explorer/internal/report"
	"github.com/SpiceSniper/port-explorer/internal/util"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// CommandProps injected props that can be made available to all commands
type CommandProps struct {
	App *util.App
}

// Root builds and returns our root command
func Root(props *CommandProps) *cobra.Command {
	var verbose bool
	var silent bool

	cmd := &cobra.Command{
		Use:   "port-explorer",
		Short: "Scans a target's ports and identifies listening services",
		// This runs before all commands and all sub-commands
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// set logging verbosity for all loggers
			zerolog.SetGlobalLevel(zerolog.InfoLevel)

			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			if silent {
				zerolog.SetGlobalLevel(zerolog.Disabled)
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(props.App)
		},
	}

	// Persistent flags available to all commands
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")
	cmd.PersistentFlags().BoolVar(&silent, "silent", false, "disables all logging")

	cmd.AddCommand(history(props))
	cmd.AddCommand(clean())
	cmd.AddCommand(version())

	return cmd
}

// runScan executes one full scan: probe the configured range, render
// the report, write the scan log, and store the report in history
func runScan(app *util.App) error {
	log := logger.New()

	// send log output to the app log file for the duration of the
	// scan so it cannot garble the progress line
	if zerolog.GlobalLevel() != zerolog.Disabled {
		logFile, ok := viper.Get("log-file").(string)

		if !ok || logFile == "" {
			log.Info().Msg("disabling logs")
			zerolog.SetGlobalLevel(zerolog.Disabled)
		} else if err := logger.GlobalSetLogFile(logFile); err != nil {
			log.Error().Err(err)
			log.Info().Msg("disabling logs")
			zerolog.SetGlobalLevel(zerolog.Disabled)
		}
	}

	fatalChan := make(chan event.Event, 1)

	fatalID := app.Events.RegisterListener(event.FatalErrorEventType, fatalChan)

	defer app.Events.RemoveListener(fatalID)

	go func() {
		for evt := range fatalChan {
			if err, ok := evt.Payload.(error); ok {
				log.Error().Err(err).Msg("scan worker reported fatal error")
			}
		}
	}()

	conf := app.Conf
	ports := conf.Ports()

	// big enough that fire-and-forget sends are never dropped
	progressChan := make(chan event.Event, len(ports)+1)

	listenerID := app.Events.RegisterListener(event.ScanProgressEventType, progressChan)

	defer app.Events.RemoveListener(listenerID)

	rendered := make(chan struct{})

	go renderProgress(progressChan, rendered)

	start := time.Now()

	results, err := app.Scanner.Scan(ports)

	if err != nil {
		return err
	}

	duration := time.Since(start)

	if len(ports) > 0 {
		<-rendered
		fmt.Fprintf(os.Stderr, "\n%s\n", app.Locale.Get("scan_complete"))
	}

	rep := &report.Report{
		Target:    conf.IP,
		StartPort: conf.StartPort,
		EndPort:   conf.EndPort,
		Duration:  duration,
		Results:   results,
		CreatedAt: start,
	}

	if err := report.Render(os.Stdout, rep, app.Locale); err != nil {
		return err
	}

	writeScanLog(rep, app)

	if _, err := app.Reports.Save(rep); err != nil {
		log.Error().Err(err).Msg("failed to save scan report")
	}

	return nil
}

// renderProgress draws a single updating counter line on stderr until
// the final probe reports in
func renderProgress(progressChan chan event.Event, rendered chan struct{}) {
	defer close(rendered)

	for evt := range progressChan {
		progress, ok := evt.Payload.(event.Progress)

		if !ok || progress.Total == 0 {
			continue
		}

		fmt.Fprintf(
			os.Stderr,
			"\r%d/%d (%d%%)",
			progress.Completed,
			progress.Total,
			progress.Completed*100/progress.Total,
		)

		if progress.Completed == progress.Total {
			return
		}
	}
}

// writeScanLog mirrors the rendered report into a timestamped file
// under the log directory. Failure to write the log never fails the
// scan.
func writeScanLog(rep *report.Report, app *util.App) {
	log := logger.New()

	logDir, ok := viper.Get("log-dir").(string)

	if !ok || logDir == "" {
		return
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Error().Err(err).Msg("failed to create log directory")
		return
	}

	logPath := path.Join(logDir, report.LogFileName(rep.CreatedAt))

	f, err := os.Create(logPath)

	if err != nil {
		log.Error().Err(err).Str("path", logPath).Msg("failed to create scan log")
		return
	}

	defer f.Close()

	if err := report.Render(f, rep, app.Locale); err != nil {
		log.Error().Err(err).Str("path", logPath).Msg("failed to write scan log")
		return
	}

	log.Info().Str("path", logPath).Msg("wrote scan log")
}
