package main

import (
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ayushprasai11/Valorant/internal/export"
)

var (
	runSpecsPath string
	runPreset    bool
	runExport    string
	runDryRun    bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Extract every target in a spec file and store the records",
	Long:  "Runs each target sequentially with its own retry budget, then writes all extracted records to the configured store in a single batch.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("run"); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sf, err := loadSpecs(runSpecsPath, runPreset)
		if err != nil {
			return err
		}
		if len(sf.Targets) == 0 {
			return errNoTargets
		}

		env, err := initEnv(sf, runDryRun)
		if err != nil {
			return err
		}
		defer env.Close()

		report, runErr := env.Runner.Run(ctx, sf.Targets)
		if report != nil {
			printReport(cmd.OutOrStdout(), report)

			if runExport != "" {
				if err := export.Write(runExport, report.Fields, report.Records); err != nil {
					zap.L().Error("export failed", zap.String("path", runExport), zap.Error(err))
					if runErr == nil {
						runErr = err
					}
				} else {
					zap.L().Info("exported records", zap.String("path", runExport), zap.Int("count", report.RecordCount()))
				}
			}
		}
		if runErr != nil {
			return eris.Wrap(runErr, "run")
		}
		return nil
	},
}

func init() {
	runCmd.Flags().StringVar(&runSpecsPath, "specs", "", "spec file (default run.specs_file, then built-in presets)")
	runCmd.Flags().BoolVar(&runPreset, "preset", false, "include the built-in presets alongside --specs")
	runCmd.Flags().StringVar(&runExport, "export", "", "also write records to a .json or .xlsx file")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "extract without writing to the store")
	rootCmd.AddCommand(runCmd)
}
