package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/panyam/minsc/loader"
)

var compileJSON bool

var compileCmd = &cobra.Command{
	Use:   "compile <file.minsc...>",
	Short: "Compile policy files to miniscript",
	Long: `The compile command evaluates one or more policy programs and prints the
resulting miniscript policy for each. A single '-' reads the program from
standard input.

All files are processed even when some fail; every error is reported and a
failing run exits non-zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLoader()
		if err != nil {
			return err
		}

		if len(args) == 1 && args[0] == "-" {
			src, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			result, err := l.LoadString(string(src))
			if err != nil {
				return err
			}
			return printResult(result, false)
		}

		results, collector := l.LoadFiles(args...)
		showPaths := len(args) > 1
		for _, result := range results {
			if err := printResult(result, showPaths); err != nil {
				return err
			}
		}
		if collector.HasErrors() {
			errColor := color.New(color.FgRed)
			for _, err := range collector.Errors {
				errColor.Fprintln(os.Stderr, err)
			}
			return fmt.Errorf("%d of %d files failed", len(collector.Errors), len(args))
		}
		return nil
	},
}

func printResult(result *loader.LoadResult, showPath bool) error {
	if compileJSON {
		out := struct {
			Path   string `json:"path,omitempty"`
			Policy string `json:"policy"`
			Tree   any    `json:"tree"`
		}{Path: result.Path, Policy: result.Compiled, Tree: result.Policy}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}
	if showPath {
		fmt.Printf("%s: %s\n", result.Path, result.Compiled)
	} else {
		fmt.Println(result.Compiled)
	}
	return nil
}

func init() {
	compileCmd.Flags().BoolVar(&compileJSON, "json", false, "Emit the compiled policy and its tree as JSON")
	AddCommand(compileCmd)
}
