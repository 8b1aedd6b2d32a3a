package cmd

import (
	"fmt"
	"io"

	"hikvision-sync/feature/hikvision"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// rosterCmd prints what every reader currently holds.
var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Show the identity count of every reader",
	Long: `Lists the users of every configured reader and prints per-reader counts together with
the number of identities present on all readers (the set drift detection compares against).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadRuntime(false)
		if err != nil {
			return err
		}
		defer l.Sync()

		fleet, err := hikvision.NewFleet(cfg.Hikvision, l)
		if err != nil {
			return err
		}

		reports, common := fleet.Inspect(cmd.Context())
		return printRoster(cmd.OutOrStdout(), reports, len(common))
	},
}

func init() {
	RootCmd.AddCommand(rosterCmd)
}

func printRoster(w io.Writer, reports []hikvision.RosterReport, common int) error {
	table := tablewriter.NewTable(w)
	table.Header("Reader", "Users", "Status")

	failed := 0
	for _, r := range reports {
		status := "ok"
		count := fmt.Sprintf("%d", r.Count)
		if r.Err != nil {
			failed++
			status = r.Err.Error()
			count = "-"
		}
		if err := table.Append(r.Reader, count, status); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	color.New(color.Bold).Fprintf(w, "On every readable reader: %d\n", common)
	if failed > 0 {
		color.New(color.FgRed).Fprintf(w, "%d reader(s) unreadable: the next cycle will push every member\n", failed)
	}
	return nil
}
