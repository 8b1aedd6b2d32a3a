package cmd

import (
	"fmt"
	"os"

	"hikvision-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "hiksync",
	Short: "Membership to Hikvision reader sync",
	Long: `hiksync keeps Hikvision access-control readers in line with the gym membership directory.
It pushes only members whose record changed or that went missing from a reader.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var configDir string

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the development config gives readable timestamps on a terminal.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			fmt.Println(err)
		}
		os.Exit(1)
	}
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory holding the .env file")
}
