package cmd

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/siftlabs/sift/pkg/catalog"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// datasetsCmd represents the datasets command group
//
//nolint:gochecknoglobals // Cobra commands are typically global
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "Manage and inspect dataset definitions",
	Long:  `Commands for listing catalog datasets and emitting their table DDL.`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if !cmd.Flags().Changed("log-level") {
			logger.SetLevel(logrus.ErrorLevel)
		}
		return nil
	},
}

// datasetsListCmd lists all catalog datasets
//
//nolint:gochecknoglobals // Cobra commands are typically global
var datasetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all catalog datasets",
	Long:  `List all catalog datasets with their physical table, event-time column, and catalog type.`,
	RunE:  runDatasetsList,
}

// datasetsDDLCmd emits CREATE TABLE statements for datasets
//
//nolint:gochecknoglobals // Cobra commands are typically global
var datasetsDDLCmd = &cobra.Command{
	Use:   "ddl [dataset...]",
	Short: "Emit CREATE TABLE DDL for datasets",
	Long: `Emit the CREATE TABLE statement for each named dataset (or every
dataset declaring columns when none are named). The DDL variant follows
the dataset's catalog type.`,
	RunE: runDatasetsDDL,
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
	datasetsCmd.AddCommand(datasetsListCmd)
	datasetsCmd.AddCommand(datasetsDDLCmd)
}

func runDatasetsList(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return validationErr
	}

	cat, err := catalog.NewService(logger, &cfg.Catalog)
	if err != nil {
		return err
	}
	if startErr := cat.Start(); startErr != nil {
		return startErr
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DATASET\tTABLE\tEVENT TIME\tTYPE")
	for _, d := range cat.Datasets() {
		eventTime := d.EventTime
		if eventTime == "" {
			eventTime = "-"
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			d.GetID(), d.PhysicalIdentifier(), eventTime, d.CatalogType)
	}
	_ = w.Flush()

	return nil
}

func runDatasetsDDL(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	cfg, err := LoadCLIConfig(cfgFile)
	if err != nil {
		return err
	}
	if validationErr := cfg.Validate(); validationErr != nil {
		return validationErr
	}

	cat, err := catalog.NewService(logger, &cfg.Catalog)
	if err != nil {
		return err
	}
	if startErr := cat.Start(); startErr != nil {
		return startErr
	}

	out := cmd.OutOrStdout()

	if len(args) > 0 {
		for _, name := range args {
			dataset, getErr := cat.Get(name)
			if getErr != nil {
				return getErr
			}

			sql, ddlErr := catalog.CreateTableSQL(dataset)
			if ddlErr != nil {
				return ddlErr
			}

			_, _ = fmt.Fprintf(out, "%s;\n", sql)
		}

		return nil
	}

	for _, dataset := range cat.Datasets() {
		sql, ddlErr := catalog.CreateTableSQL(dataset)
		if ddlErr != nil {
			// Datasets without columns are resolvable references only
			if errors.Is(ddlErr, catalog.ErrColumnsRequired) {
				continue
			}

			return ddlErr
		}

		_, _ = fmt.Fprintf(out, "%s;\n", sql)
	}

	return nil
}
