package cmd

import (
	"encoding/json"
	"fmt"

	"binserve/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check the serve root for problems",
	Long: `Checks that the serve root has an index and a 404 document, has no symlinks
escaping it, and lists directories that can only answer 404. With flat URLs it
also lists pages colliding with a directory. When miss recording is enabled the
database schema is checked too. Exits non-zero when the site is unhealthy.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Cache.Enabled = false

		r, _, err := newResolver(cfg)
		if err != nil {
			return err
		}

		var db *gorm.DB
		if store := connectMisses(cmd.Context(), cfg.Database, logg); store != nil {
			db = store.DB()
		}

		svc := integrity.NewService(r, db, logg)
		report := svc.Run(cmd.Context())

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
		} else {
			logReport(logg, report)
		}

		if !report.Healthy {
			return fmt.Errorf("integrity check failed for %s", r.Root())
		}
		return nil
	},
}

func logReport(logg *zap.Logger, report *integrity.Report) {
	if s := report.Structure; s != nil {
		if len(s.Missing) == 0 {
			logg.Info("Structure is intact.")
		} else {
			logg.Warn("Missing documents detected", zap.Strings("missing", s.Missing))
		}
	}
	for _, l := range report.Symlinks {
		logg.Warn("Unsafe symlink", zap.String("path", l.Path), zap.String("problem", l.Problem), zap.String("target", l.Target))
	}
	if len(report.Directories) > 0 {
		logg.Warn("Directories without index", zap.Strings("directories", report.Directories))
	}
	if len(report.FlatPages) > 0 {
		logg.Warn("Flat pages colliding with a directory", zap.Strings("pages", report.FlatPages))
	}
	if db := report.Database; db != nil {
		if db.Matched {
			logg.Info("Database schema matches.", zap.String("table", db.Table))
		} else {
			logg.Warn("Missing columns", zap.String("table", db.Table), zap.Strings("columns", db.MissingColumns))
		}
	}
	for _, e := range report.Errors {
		logg.Error("Check error", zap.String("error", e))
	}
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.Flags().Bool("json", false, "Print the report as JSON")
}
