package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"hikvision-sync/core/state"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var yesConfirm bool

// stateCmd is the parent command for sync state maintenance.
var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "Inspect or edit the recorded sync state",
	Long: `The sync state maps every identity key to the fingerprint last pushed to the readers.
Forgetting a key forces that member to be pushed again on the next cycle.`,
}

var stateListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded fingerprints",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := openState(cmd.Context())
		if err != nil {
			return err
		}
		return printStateTable(cmd.OutOrStdout(), store.Snapshot())
	},
}

var stateForgetCmd = &cobra.Command{
	Use:   "forget <key>...",
	Short: "Forget members so the next cycle pushes them again",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, l, err := openState(ctx)
		if err != nil {
			return err
		}

		removed := 0
		for _, key := range args {
			if store.Forget(key) {
				removed++
			} else {
				l.Warn("Key not found in sync state", zap.String("key", key))
			}
		}
		if removed == 0 {
			return nil
		}

		if err := store.Save(ctx); err != nil {
			return fmt.Errorf("failed to save sync state: %w", err)
		}
		l.Info("Forgot members", zap.Int("count", removed))
		return nil
	},
}

var stateClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop every fingerprint, forcing a full re-sync",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		store, l, err := openState(ctx)
		if err != nil {
			return err
		}

		count := store.Len()
		if count == 0 {
			l.Info("Sync state is already empty")
			return nil
		}

		if !confirmDestructiveAction(cmd.InOrStdin(), cmd.OutOrStdout(), fmt.Sprintf("forget all %d members", count)) {
			l.Warn("Operation cancelled by user. No changes were made.")
			return nil
		}

		store.Clear()
		if err := store.Save(ctx); err != nil {
			return fmt.Errorf("failed to save sync state: %w", err)
		}
		l.Info("Cleared sync state", zap.Int("count", count))
		return nil
	},
}

func init() {
	stateClearCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm (non-interactive)")

	stateCmd.AddCommand(stateListCmd, stateForgetCmd, stateClearCmd)
	RootCmd.AddCommand(stateCmd)
}

// openState loads the configured state store. It must be loaded before edits,
// otherwise Save would merge the persisted entries back.
func openState(ctx context.Context) (*state.Store, *zap.Logger, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, l, err := loadRuntime(false)
	if err != nil {
		return nil, nil, err
	}
	store, err := newStateStore(ctx, cfg, l)
	if err != nil {
		return nil, nil, err
	}
	if err := store.Load(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to load sync state: %w", err)
	}
	return store, l, nil
}

// printStateTable renders the fingerprints sorted by key.
func printStateTable(w io.Writer, entries map[string]string) error {
	if len(entries) == 0 {
		fmt.Fprintln(w, "No recorded members.")
		return nil
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	table := tablewriter.NewTable(w)
	table.Header("Key", "Fingerprint")
	for _, k := range keys {
		if err := table.Append(k, entries[k]); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d members\n", len(entries))
	return nil
}

// confirmDestructiveAction prompts the user for confirmation or uses --yes flag.
func confirmDestructiveAction(in io.Reader, out io.Writer, action string) bool {
	if yesConfirm {
		color.New(color.FgGreen).Fprintln(out, "Auto-confirmed via --yes flag")
		return true
	}

	if in == nil {
		in = os.Stdin
	}
	color.New(color.FgYellow).Fprintf(out, "Type 'yes' to %s: ", action)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
