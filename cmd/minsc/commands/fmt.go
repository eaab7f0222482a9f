package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/panyam/minsc/ast"
	"github.com/panyam/minsc/loader"
	"github.com/panyam/minsc/parser"
)

var fmtCheck bool

var fmtCmd = &cobra.Command{
	Use:   "fmt [file.minsc...]",
	Short: "Format policy files",
	Long: `The fmt command rewrites policy files into canonical form and prints the
names of the files it changed. Directories expand to the .minsc files
inside them. With no arguments or '-', the program is read from standard
input and the formatted form printed.

The rewrite reprints the parse tree, so comments do not survive it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 || (len(args) == 1 && args[0] == "-") {
			src, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			formatted, err := formatSource(string(src))
			if err != nil {
				return err
			}
			fmt.Print(formatted)
			return nil
		}

		fs := loader.NewLocalFS("")
		paths, err := expandPaths(fs, args)
		if err != nil {
			return err
		}

		collector := &loader.ErrorCollector{}
		var changed []string
		for _, path := range paths {
			didChange, err := formatFile(fs, path)
			if err != nil {
				collector.AddErrors(&loader.FileError{Path: path, Err: err})
				continue
			}
			if didChange {
				changed = append(changed, path)
			}
		}

		for _, path := range changed {
			fmt.Println(path)
		}
		if collector.HasErrors() {
			collector.PrintErrors()
			return fmt.Errorf("%d files failed", len(collector.Errors))
		}
		if fmtCheck && len(changed) > 0 {
			return fmt.Errorf("%d files need formatting", len(changed))
		}
		return nil
	},
}

// expandPaths resolves directory arguments to the .minsc files they hold.
func expandPaths(fs loader.FileSystem, args []string) ([]string, error) {
	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}
		files, err := fs.ListFiles(arg)
		if err != nil {
			return nil, err
		}
		for _, file := range files {
			if strings.HasSuffix(file, ".minsc") {
				paths = append(paths, file)
			}
		}
	}
	return paths, nil
}

// formatFile rewrites path in place, reporting whether it changed. In
// --check mode the file is left untouched.
func formatFile(fs loader.FileSystem, path string) (bool, error) {
	data, err := fs.ReadFile(path)
	if err != nil {
		return false, err
	}
	formatted, err := formatSource(string(data))
	if err != nil {
		return false, err
	}
	if formatted == string(data) {
		return false, nil
	}
	if fmtCheck {
		return true, nil
	}
	return true, fs.WriteFile(path, []byte(formatted))
}

func formatSource(src string) (string, error) {
	block, err := parser.ParseString(src)
	if err != nil {
		return "", err
	}
	return ast.SprintProgram(block), nil
}

func init() {
	fmtCmd.Flags().BoolVar(&fmtCheck, "check", false, "Report files that would change without rewriting them")
	AddCommand(fmtCmd)
}
