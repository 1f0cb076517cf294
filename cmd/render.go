package cmd

import (
	"fmt"

	"github.com/siftlabs/sift/pkg/models"
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra flags are typically global
var (
	renderSample  string
	renderDialect string
	renderStrict  bool
)

// renderCmd renders models to executable SQL
//
//nolint:gochecknoglobals // Cobra commands are typically global
var renderCmd = &cobra.Command{
	Use:   "render [model...]",
	Short: "Render models to executable SQL",
	Long: `Render templated SQL models, resolving ref and source calls against
the dataset catalog. With --sample, references to datasets with a
declared event-time column are filtered to the trailing window.`,
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVar(&renderSample, "sample", "", `sample window, e.g. "3 day" or "12h"`)
	renderCmd.Flags().StringVar(&renderDialect, "dialect", "", "SQL dialect (defaults to the configured dialect)")
	renderCmd.Flags().BoolVar(&renderStrict, "strict", false, "fail when sampling hits a dataset with no event-time column")
}

func runRender(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return validationErr
	}

	dialectName := cfg.Dialect
	if renderDialect != "" {
		dialectName = renderDialect
	}

	cat, modelsSvc, err := loadProject(cfg)
	if err != nil {
		return err
	}

	comp, err := buildCompiler(cat, renderSample, dialectName)
	if err != nil {
		return err
	}

	policy := samplePolicy(renderStrict)

	var rendered []models.RenderedModel

	if len(args) == 0 {
		rendered, err = modelsSvc.RenderAll(comp, policy)
		if err != nil {
			return err
		}
	} else {
		for _, name := range args {
			sql, renderErr := modelsSvc.Render(name, comp, policy)
			if renderErr != nil {
				return renderErr
			}

			model, getErr := modelsSvc.GetModel(name)
			if getErr != nil {
				return getErr
			}

			rendered = append(rendered, models.RenderedModel{Model: model, SQL: sql})
		}
	}

	out := cmd.OutOrStdout()
	for i, r := range rendered {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}

		_, _ = fmt.Fprintf(out, "-- model: %s (%s)\n%s\n", r.Model.GetID(), r.Model.PhysicalIdentifier(), r.SQL)
	}

	return nil
}
