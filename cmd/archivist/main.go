// Command archivist runs the prompt archive store manager: a local HTTP
// service for the desktop UI, plus one-shot maintenance commands.
package main

import (
	"archivist/internal"
	"archivist/internal/di"
	"archivist/internal/structures"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

var flags structures.CliFlags

// toolkit is opened by PersistentPreRunE for every command except serve
// and closed by main.
var toolkit *internal.Toolkit

func main() {
	err := rootCmd.Execute()
	if toolkit != nil {
		if cerr := toolkit.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "archivist",
	Short:         "Prompt archive store manager",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// serve wires its own lifecycle
		switch cmd.Name() {
		case "serve", "help", "completion":
			return nil
		}
		tk, err := di.InitToolkit(&flags)
		if err != nil {
			return fmt.Errorf("init: %w", err)
		}
		if err := tk.Open(); err != nil {
			tk.Logger.Close()
			return fmt.Errorf("open stores: %w", err)
		}
		toolkit = tk
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to the console")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(maintenanceCmd)
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
