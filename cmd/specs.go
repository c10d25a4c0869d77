package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Ayushprasai11/Valorant/internal/extract"
)

var specsPath string

var specsCmd = &cobra.Command{
	Use:   "specs",
	Short: "Inspect extraction specs",
}

var specsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered specs",
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := loadSpecs(specsPath, false)
		if err != nil {
			return err
		}
		reg := buildRegistry(sf)

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Name", "Table", "Label Field", "Fields"})
		for _, name := range reg.Names() {
			spec, _ := reg.Lookup(name)
			t.AppendRow(table.Row{name, spec.TableSelector, spec.Label(), strings.Join(spec.Columns.Fields(), ", ")})
		}
		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}

var specsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check every spec and every target reference in a spec file",
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := loadSpecs(specsPath, false)
		if err != nil {
			return err
		}
		return validateSpecFile(cmd, sf)
	},
}

func validateSpecFile(cmd *cobra.Command, sf *extract.SpecFile) error {
	reg := extract.NewRegistry()
	var problems []string
	if err := sf.RegisterValid(reg); err != nil {
		problems = append(problems, err.Error())
	}
	for _, tg := range sf.UnknownSpecs(reg) {
		problems = append(problems, fmt.Sprintf("target %s (%s): unknown or invalid spec %q", tg.Label, tg.URL, tg.Spec))
	}

	out := cmd.OutOrStdout()
	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Fprintln(out, "✗", p)
		}
		return eris.Errorf("specs: %d problem(s) found", len(problems))
	}
	fmt.Fprintf(out, "✓ %d spec(s), %d target(s) valid\n", reg.Len(), len(sf.Targets))
	return nil
}

func init() {
	specsCmd.PersistentFlags().StringVar(&specsPath, "specs", "", "spec file (default run.specs_file, then built-in presets)")
	specsCmd.AddCommand(specsListCmd, specsValidateCmd)
	rootCmd.AddCommand(specsCmd)
}
