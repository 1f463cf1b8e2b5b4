package cmd

import (
	"fmt"

	"binserve/core/config"
	"binserve/core/storage"
	"binserve/feature/deploy"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var pruneFlag bool

// deployCmd is the parent command for bucket sync.
var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Sync the build output with an S3-compatible bucket",
	Long: `Publishes the serve root to the configured bucket, or fetches it back.
Objects are stored under storage.prefix.`,
}

// pushCmd uploads the serve root.
var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the serve root to the bucket",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, svc, err := deployService()
		if err != nil {
			return err
		}
		logg.Info("Pushing site", zap.String("root", cfg.Site.Root), zap.Bool("prune", pruneFlag))

		result, err := svc.Push(cmd.Context(), cfg.Site.Root, deploy.PushOptions{Prune: pruneFlag})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "uploaded %d, unchanged %d, removed %d\n", result.Uploaded, result.Skipped, result.Removed)
		return nil
	},
}

// pullCmd downloads the site into the serve root.
var pullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Download the site from the bucket into the serve root",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg, svc, err := deployService()
		if err != nil {
			return err
		}
		logg.Info("Pulling site", zap.String("root", cfg.Site.Root))

		result, err := svc.Pull(cmd.Context(), cfg.Site.Root)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "downloaded %d\n", result.Downloaded)
		return nil
	},
}

func deployService() (*config.Config, *zap.Logger, *deploy.Service, error) {
	cfg, logg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	return cfg, logg, deploy.NewService(client, cfg.Storage, logg), nil
}

func init() {
	RootCmd.AddCommand(deployCmd)
	deployCmd.AddCommand(pushCmd, pullCmd)
	pushCmd.Flags().BoolVar(&pruneFlag, "prune", false, "Remove objects that no longer exist locally")
}
