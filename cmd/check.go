package main

import (
	"fmt"

	"github.com/plugopt/worhpgo/internal/config"
	"github.com/plugopt/worhpgo/internal/worhp"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify that the WORHP library can be loaded",
	Long: `Loads the configured WORHP shared library, binds every required
symbol, and reports the result without running a solve.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("library", config.DefaultLibrary, "Path to the WORHP shared library")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	if _, err := worhp.Load(cfg.Library); err != nil {
		return err
	}

	fmt.Printf("Loaded %s\n", cfg.Library)
	fmt.Println("Bound symbols:")
	for _, symbol := range worhp.RequiredSymbols() {
		fmt.Printf("  %s\n", symbol)
	}
	return nil
}
