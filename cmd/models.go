package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// modelsCmd represents the models command group
//
//nolint:gochecknoglobals // Cobra commands are typically global
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Manage and inspect model configurations",
	Long:  `Commands for listing, validating, and visualizing model configurations.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Default to error level for models commands unless explicitly set
		if !cmd.Flags().Changed("log-level") {
			logger.SetLevel(logrus.ErrorLevel)
		}
		return nil
	},
}

// listCmd lists all discovered models
//
//nolint:gochecknoglobals // Cobra commands are typically global
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all discovered models",
	Long:  `List all discovered models with their target table, event-time column, schedule, and references.`,
	RunE:  runModelsList,
}

// validateCmd validates model and dataset configurations
//
//nolint:gochecknoglobals // Cobra commands are typically global
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate model and dataset configurations",
	Long:  `Validate frontmatter, dataset definitions, references, and the dependency graph.`,
	RunE:  runModelsValidate,
}

// dagCmd visualizes the dependency DAG
//
//nolint:gochecknoglobals // Cobra commands are typically global
var dagCmd = &cobra.Command{
	Use:   "dag",
	Short: "Visualize the model dependency DAG",
	Long:  `Visualize the dependency graph between models and catalog datasets.`,
	RunE:  runModelsDAG,
}

func init() {
	rootCmd.AddCommand(modelsCmd)
	modelsCmd.AddCommand(listCmd)
	modelsCmd.AddCommand(validateCmd)
	modelsCmd.AddCommand(dagCmd)

	dagCmd.Flags().Bool("dot", false, "Output in DOT format for graphviz")
}

func runModelsList(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return validationErr
	}

	_, modelsSvc, err := loadProject(cfg)
	if err != nil {
		return err
	}

	dag := modelsSvc.GetDAG()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "MODEL\tTABLE\tEVENT TIME\tSCHEDULE\tREFS")
	for _, m := range modelsSvc.Models() {
		eventTime := m.EventTime
		if eventTime == "" {
			eventTime = "-"
		}

		schedule := m.Schedule
		if schedule == "" {
			schedule = "-"
		}

		refs := strings.Join(dag.GetReferences(m.GetID()), ",")
		if refs == "" {
			refs = "-"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			m.GetID(), m.PhysicalIdentifier(), eventTime, schedule, refs)
	}
	_ = w.Flush()

	return nil
}

func runModelsValidate(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return validationErr
	}

	// loadProject parses every dataset and model, scans references, and
	// builds the graph; any configuration problem surfaces here
	cat, modelsSvc, err := loadProject(cfg)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "OK: %d datasets, %d models\n",
		len(cat.Datasets()), len(modelsSvc.Models()))

	return nil
}

func runModelsDAG(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return validationErr
	}

	cat, modelsSvc, err := loadProject(cfg)
	if err != nil {
		return err
	}

	dag := modelsSvc.GetDAG()
	out := cmd.OutOrStdout()

	dot, err := cmd.Flags().GetBool("dot")
	if err != nil {
		return err
	}

	if dot {
		_, _ = fmt.Fprintln(out, "digraph models {")
		for _, d := range cat.Datasets() {
			_, _ = fmt.Fprintf(out, "  %q [shape=box];\n", d.GetID())
		}
		for _, m := range modelsSvc.Models() {
			for _, ref := range dag.GetReferences(m.GetID()) {
				_, _ = fmt.Fprintf(out, "  %q -> %q;\n", ref, m.GetID())
			}
		}
		_, _ = fmt.Fprintln(out, "}")

		return nil
	}

	for _, m := range modelsSvc.Models() {
		refs := dag.GetReferences(m.GetID())
		if len(refs) == 0 {
			_, _ = fmt.Fprintf(out, "%s\n", m.GetID())
			continue
		}

		_, _ = fmt.Fprintf(out, "%s <- %s\n", m.GetID(), strings.Join(refs, ", "))
	}

	return nil
}
