package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/SpiceSniper/port-explorer/internal/exception"
	"github.com/SpiceSniper/port-explorer/internal/report"
	"github.com/spf13/cobra"
)

// creates and returns the "history" command
func history(props *CommandProps) *cobra.Command {
	var last bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Lists stored scan reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			if last {
				latest, err := props.App.Reports.Latest()

				if err != nil {
					if errors.Is(err, exception.ErrRecordNotFound) {
						fmt.Println("no stored reports")
						return nil
					}

					return err
				}

				return report.Render(os.Stdout, latest, props.App.Locale)
			}

			reports, err := props.App.Reports.List()

			if err != nil {
				return err
			}

			if len(reports) == 0 {
				fmt.Println("no stored reports")
				return nil
			}

			for _, rep := range reports {
				fmt.Printf(
					"%s  %s  %d-%d  open: %d  duration: %s\n",
					rep.CreatedAt.Format("2006-01-02 15:04:05"),
					rep.Target,
					rep.StartPort,
					rep.EndPort,
					rep.OpenPortCount(),
					report.FormatDuration(rep.Duration),
				)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&last, "last", false, "render the most recent report in full")

	return cmd
}
