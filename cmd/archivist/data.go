package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the export envelope to a file or stdout",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		exported, err := toolkit.Service.ExportData()
		if err != nil {
			return err
		}
		if exportOutput == "-" {
			fmt.Fprintln(cmd.OutOrStdout(), exported.Data)
			return nil
		}
		path := exportOutput
		if path == "" {
			path = exported.Filename
		}
		if err := os.WriteFile(path, []byte(exported.Data), 0644); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Append the prompts of an export file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}
		result, err := toolkit.Service.ImportData(raw)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Successfully imported %d prompts (%d total)\n", result.Imported, result.Total)
		return nil
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Back up, then return prompts, settings and stats to defaults",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := toolkit.Service.ResetData(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Data reset successfully")
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report structural problems in the stored prompts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report := toolkit.Service.ValidateData()
		if err := printJSON(cmd.OutOrStdout(), report); err != nil {
			return err
		}
		if !report.Valid {
			return fmt.Errorf("%d issues found", len(report.Issues))
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print usage statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := toolkit.Service.GetStats()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), stats)
	},
}

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance",
	Short: "Apply backup retention, validate data and record a session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := toolkit.Service.PerformMaintenance()
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), report)
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, - for stdout (default: dated file name)")
}
