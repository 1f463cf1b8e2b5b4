package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// resolveCmd prints the resolver's decision for request paths.
var resolveCmd = &cobra.Command{
	Use:   "resolve <path>...",
	Short: "Show how request paths resolve against the serve root",
	Long: `Runs the resolver on each raw request path (percent-encoded, without query)
and prints the outcome as JSON, one line per path. Nothing is served or recorded.

Examples:
  binserve resolve / /about /about/ /missing
  binserve resolve '/%2e%2e/etc/passwd'`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadConfig()
		if err != nil {
			return err
		}
		defer logg.Sync()
		// A one-shot lookup gains nothing from the cache.
		cfg.Cache.Enabled = false

		r, _, err := newResolver(cfg)
		if err != nil {
			return err
		}

		logg.Debug("Resolving paths", zap.String("root", r.Root()), zap.Int("count", len(args)))
		enc := json.NewEncoder(cmd.OutOrStdout())
		for _, p := range args {
			t, err := r.Resolve(p)
			if err != nil {
				return fmt.Errorf("failed to resolve %s: %w", p, err)
			}
			if err := enc.Encode(map[string]any{"path": p, "target": t}); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(resolveCmd)
}
