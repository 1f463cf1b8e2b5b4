package cmd

import (
	"fmt"
	"os"

	"binserve/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// configDir is the directory holding .env and binserve.yaml.
var configDir string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "binserve",
	Short: "Static site server",
	Long: `binserve serves the static build output of site generators (Astro, Eleventy,
Gatsby, Next.js export, Vite) with directory indexes, trailing-slash redirects,
base paths and 404 pages, while rejecting traversal and symlink escapes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Console format with the development config gives readable
		// timestamps for CLI users.
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
	RootCmd.PersistentFlags().StringVar(&configDir, "config-dir", ".", "Directory containing .env and binserve.yaml")
}
