package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/outils-citoyens/outils-api/internal/pipeline"
	"github.com/outils-citoyens/outils-api/internal/sanitize"
	"github.com/outils-citoyens/outils-api/internal/types"
)

var (
	generateTool   string
	generateFields string
	generateOut    string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a letter for one tool",
	Long:  "Run the generation pipeline for a tool with form fields read from a JSON file (or - for stdin) and print the result as JSON.",
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVarP(&generateTool, "tool", "t", "", "Tool identifier (required)")
	generateCmd.Flags().StringVarP(&generateFields, "fields", "f", "", "Path to a JSON object of form fields, - for stdin")
	generateCmd.Flags().StringVarP(&generateOut, "out", "o", "", "Output file (default stdout)")

	_ = generateCmd.MarkFlagRequired("tool")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	fields, err := readFields(generateFields, cmd.InOrStdin())
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), configPath, false)
	if err != nil {
		return err
	}
	defer a.close()

	out := cmd.OutOrStdout()
	if generateOut != "" {
		f, err := os.Create(generateOut)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return generate(cmd.Context(), a.pipeline, generateTool, fields, out)
}

// readFields decodes the fields file. An empty path yields no fields.
func readFields(path string, stdin io.Reader) (types.Fields, error) {
	var data []byte
	var err error
	switch path {
	case "":
		return types.Fields{}, nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read fields: %w", err)
	}

	var fields types.Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("failed to parse fields: %w", err)
	}
	return fields, nil
}

// generate runs the pipeline and writes the indented result to w.
func generate(ctx context.Context, p *pipeline.Pipeline, rawTool string, fields types.Fields, w io.Writer) error {
	toolID, err := types.ParseToolID(rawTool)
	if err != nil {
		return err
	}

	outcome, err := p.Generate(ctx, toolID, sanitize.Fields(fields))
	if err != nil {
		return err
	}
	if outcome.Failure != nil {
		fmt.Fprintf(os.Stderr, "generation failed, fallback used: %v\n", outcome.Failure)
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome.Result); err != nil {
		return fmt.Errorf("failed to write result: %w", err)
	}
	return nil
}
