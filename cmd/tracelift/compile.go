package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tracelift/internal/flatcode"
	"tracelift/internal/pipeline"
	"tracelift/internal/toolchain/demo"
)

var compileCmd = &cobra.Command{
	Use:   "compile [flags] <file>",
	Short: "Compile a file and print its correlation tables",
	Args:  cobra.ExactArgs(1),
	RunE:  runCompile,
}

func init() {
	addPassFlags(compileCmd)
	compileCmd.Flags().Bool("json", false, "emit the tables as JSON instead of text")
	compileCmd.Flags().Bool("words", false, "include the encoded word listing")
}

func addPassFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("gas", true, "compute gas metadata")
	cmd.Flags().Int("max-instructions", 0, "fail when the stream exceeds this many instructions (0 = unlimited)")
	cmd.Flags().Int("max-words", 0, "fail when the stream exceeds this many words (0 = unlimited)")
}

func runCompile(cmd *cobra.Command, args []string) error {
	result, err := compilePass(cmd, args[0])
	if err != nil {
		return err
	}

	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to get json flag: %w", err)
	}
	out := cmd.OutOrStdout()
	if asJSON {
		payload := struct {
			Contract         string      `json:"contract"`
			SourceTable      interface{} `json:"source_table"`
			InstructionTable interface{} `json:"instruction_table"`
			Words            interface{} `json:"words"`
		}{
			Contract:         result.ContractSource,
			SourceTable:      result.Source.Entries(),
			InstructionTable: result.Instructions.Entries(),
			Words:            result.Words,
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	quiet, _ := rootCmd.PersistentFlags().GetBool("quiet")
	if !quiet {
		renderSummary(out, result)
	}
	renderSourceTable(out, result)
	renderInstructionTable(out, result)

	showWords, err := cmd.Flags().GetBool("words")
	if err != nil {
		return fmt.Errorf("failed to get words flag: %w", err)
	}
	if showWords {
		renderWords(out, result.Words)
	}
	return nil
}

// compilePass reads the input file and runs one full pass with the demo
// front end and the limits configured on the command.
func compilePass(cmd *cobra.Command, path string) (*pipeline.Result, error) {
	// #nosec G304 -- path is provided by the caller
	code, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	gas, err := cmd.Flags().GetBool("gas")
	if err != nil {
		return nil, fmt.Errorf("failed to get gas flag: %w", err)
	}
	maxInstructions, err := cmd.Flags().GetInt("max-instructions")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-instructions flag: %w", err)
	}
	maxWords, err := cmd.Flags().GetInt("max-words")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-words flag: %w", err)
	}

	return pipeline.Run(cmd.Context(), &pipeline.Request{
		FileName: path,
		Code:     string(code),
		Frontend: demo.New(),
		Config: flatcode.Config{
			GasCheck:        gas,
			MaxInstructions: maxInstructions,
			MaxWords:        maxWords,
		},
	})
}
