package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/panyam/minsc/ast"
	"github.com/panyam/minsc/loader"
	"github.com/panyam/minsc/parser"
	"github.com/panyam/minsc/runtime"
)

const (
	promptMain = "minsc> "
	promptCont = "   ... "
	replBanner = "Minsc REPL. Ctrl+C cancels the current input, Ctrl+D exits. Type :help for commands."
	replHelp   = `
REPL commands:
  :help            Show this help
  :quit / :exit    Exit the REPL
  :env             List the names bound in this session
  :load <file>     Run a file in the current session
  :fmt <code>      Pretty print a snippet
  :reset           Start over with a fresh scope
`
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Interactive policy shell",
	Long: `The repl command starts an interactive session. Statements persist across
entries, a trailing expression prints its value, and input that stops mid
construct continues on the next line.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLoader()
		if err != nil {
			return err
		}
		return runREPL(l)
	},
}

func runREPL(l *loader.Loader) error {
	fmt.Println(replBanner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	histPath := historyPath()
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	session := &replSession{loader: l, scope: l.NewScope()}

	for {
		entry, ok := readEntry(ln)
		if !ok {
			fmt.Println()
			break
		}
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(entry, "\n", " "))
		if strings.HasPrefix(trimmed, ":") {
			if session.command(trimmed) {
				break
			}
			continue
		}
		session.run(entry)
	}

	// Persist history (best-effort)
	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}
	return nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".minsc")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}

// readEntry accumulates lines until the parser accepts the buffer or
// rejects it with a real error. Incomplete input keeps the prompt open on a
// continuation line.
func readEntry(ln *liner.State) (string, bool) {
	var b strings.Builder
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the current input and starts over.
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if strings.HasPrefix(strings.TrimSpace(src), ":") {
			return src, true
		}
		if _, err := parser.ParseString(src); parser.IsIncomplete(err) {
			continue
		}
		return src, true
	}
}

type replSession struct {
	loader *loader.Loader
	scope  *runtime.Scope
}

// run executes one entry against the session scope. Statements persist; a
// trailing expression prints its value.
func (s *replSession) run(src string) {
	block, err := parser.ParseString(src)
	if err != nil {
		printError(err)
		return
	}
	if err := runtime.RunAll(block.Stmts, s.scope); err != nil {
		printError(err)
		return
	}
	if block.Return == nil {
		return
	}
	value, err := runtime.Evaluate(block.Return, s.scope)
	if err != nil {
		printError(err)
		return
	}
	s.print(value)
}

func (s *replSession) print(value runtime.Value) {
	switch v := value.(type) {
	case *runtime.Policy:
		color.Green("%s", v)
		if err := v.Policy.Validate(); err != nil {
			color.Yellow("not yet valid miniscript: %v", err)
		}
	default:
		color.Cyan("%s", value)
	}
}

func (s *replSession) command(line string) (exit bool) {
	fields := strings.Fields(line)
	switch fields[0] {
	case ":help":
		fmt.Print(replHelp)

	case ":quit", ":exit":
		return true

	case ":env":
		s.printEnv()

	case ":reset":
		s.scope = s.loader.NewScope()
		fmt.Println("scope reset.")

	case ":load":
		if len(fields) < 2 {
			fmt.Println("usage: :load <file>")
			return false
		}
		data, err := os.ReadFile(fields[1])
		if err != nil {
			printError(err)
			return false
		}
		s.run(string(data))

	case ":fmt":
		snippet := strings.TrimSpace(strings.TrimPrefix(line, ":fmt"))
		if snippet == "" {
			fmt.Println("usage: :fmt <code>")
			return false
		}
		block, err := parser.ParseString(snippet)
		if err != nil {
			printError(err)
			return false
		}
		fmt.Print(ast.SprintProgram(block))

	default:
		fmt.Println("unknown command. Type :help for help.")
	}
	return false
}

func (s *replSession) printEnv() {
	bindings := s.scope.All()
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("%s = %s\n", name, bindings[name])
	}
}

func printError(err error) {
	color.New(color.FgRed).Fprintln(os.Stderr, err)
}

func init() {
	AddCommand(replCmd)
}
