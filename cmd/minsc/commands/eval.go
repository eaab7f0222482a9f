package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var evalExpr string

var evalCmd = &cobra.Command{
	Use:   "eval [file.minsc]",
	Short: "Evaluate a policy program and print the raw result",
	Long: `The eval command runs a program and prints whatever value it produced: a
policy tree or a function. Unlike compile, the result is not checked
against the miniscript fragment rules, which makes eval handy for
inspecting intermediate values.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLoader()
		if err != nil {
			return err
		}

		var src string
		switch {
		case evalExpr != "":
			src = evalExpr
		case len(args) == 1 && args[0] != "-":
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			src = string(data)
		default:
			data, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			src = string(data)
		}

		value, err := l.EvalString(src)
		if err != nil {
			return err
		}
		fmt.Println(value.String())
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVarP(&evalExpr, "expr", "e", "", "Evaluate the given snippet instead of a file")
	AddCommand(evalCmd)
}
