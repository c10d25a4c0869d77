package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Ayushprasai11/Valorant/internal/extract"
	"github.com/Ayushprasai11/Valorant/internal/render"
)

var (
	previewSpecsPath string
	previewSpec      string
	previewURL       string
	previewLabel     string
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Extract one page and print the records without storing them",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("preview"); err != nil {
			return err
		}

		sf, err := loadSpecs(previewSpecsPath, true)
		if err != nil {
			return err
		}
		spec, err := buildRegistry(sf).Lookup(previewSpec)
		if err != nil {
			return err
		}

		rc := renderConfig()
		renderer, err := render.New(rc)
		if err != nil {
			return err
		}
		defer renderer.Close() //nolint:errcheck

		ctx, cancel := withTimeout(cmd.Context(), rc.NavTimeoutSecs+rc.WaitTimeoutSecs)
		defer cancel()

		sess, err := renderer.NewSession(ctx)
		if err != nil {
			return eris.Wrap(err, "preview: open session")
		}
		defer sess.Close() //nolint:errcheck

		if err := sess.Navigate(ctx, previewURL); err != nil {
			return err
		}
		records, err := extract.Extract(ctx, sess, spec, previewLabel)
		if err != nil {
			return err
		}

		zap.L().Info("preview extracted", zap.String("url", previewURL), zap.Int("rows", len(records)))
		printRecords(cmd.OutOrStdout(), spec.Fields(), records)
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVar(&previewSpecsPath, "specs", "", "spec file (built-in presets are always available)")
	previewCmd.Flags().StringVar(&previewSpec, "spec", extract.LiquipediaValorantStats, "spec name")
	previewCmd.Flags().StringVar(&previewURL, "url", "", "page to extract")
	previewCmd.Flags().StringVar(&previewLabel, "label", "preview", "label stamped on every record")
	_ = previewCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(previewCmd)
}
