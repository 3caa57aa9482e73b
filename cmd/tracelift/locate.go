package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var locateCmd = &cobra.Command{
	Use:   "locate [flags] <file>",
	Short: "Compile a file and resolve program counters to source locations",
	Args:  cobra.ExactArgs(1),
	RunE:  runLocate,
}

func init() {
	addPassFlags(locateCmd)
	locateCmd.Flags().Int64Slice("pc", nil, "program counter to resolve (repeatable)")
}

func runLocate(cmd *cobra.Command, args []string) error {
	pcs, err := cmd.Flags().GetInt64Slice("pc")
	if err != nil {
		return fmt.Errorf("failed to get pc flag: %w", err)
	}
	if len(pcs) == 0 {
		return fmt.Errorf("at least one --pc is required")
	}

	result, err := compilePass(cmd, args[0])
	if err != nil {
		return err
	}

	correlator := result.Correlator()
	out := cmd.OutOrStdout()
	for _, pc := range pcs {
		renderLocate(out, pc, correlator.Locate(pc))
	}
	return nil
}
