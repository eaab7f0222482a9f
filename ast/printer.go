package ast

import (
	"fmt"
	"strings"
)

// CodePrinter receives pretty printed source fragments.
type CodePrinter interface {
	Indent(n int)
	Unindent(n int)
	Print(str string)
	Printf(format string, args ...any)
	Println(str string)
}

// WithIndent runs block with the printer indented by n stops.
func WithIndent(n int, cp CodePrinter, block func(cp CodePrinter)) {
	cp.Indent(n)
	defer cp.Unindent(n)
	block(cp)
}

type codePrinter struct {
	indent  int
	col     int
	builder strings.Builder
}

func (c *codePrinter) Indent(n int) {
	c.indent += n
}

func (c *codePrinter) Unindent(n int) {
	c.indent -= n
	if c.indent < 0 {
		c.indent = 0
	}
}

func (c *codePrinter) Print(str string) {
	for idx, line := range strings.Split(str, "\n") {
		if idx > 0 {
			c.builder.WriteByte('\n')
			c.col = 0
		}
		if line == "" {
			continue
		}
		if c.col == 0 {
			// new line has started so add the indent string
			pad := strings.Repeat("  ", c.indent)
			c.builder.WriteString(pad)
			c.col += len(pad)
		}
		c.builder.WriteString(line)
		c.col += len(line)
	}
}

func (c *codePrinter) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

func (c *codePrinter) Println(str string) {
	c.Print(str + "\n")
}

func (c *codePrinter) Output() string { return c.builder.String() }

// NewCodePrinter returns the default string building printer.
func NewCodePrinter() CodePrinter {
	return &codePrinter{}
}

// PrettyPrintable is satisfied by every expression and statement node.
type PrettyPrintable interface {
	PrettyPrint(cp CodePrinter)
}

// Sprint renders node as formatted source.
func Sprint(node PrettyPrintable) string {
	cp := &codePrinter{}
	node.PrettyPrint(cp)
	return cp.Output()
}

// PPrint prints node to stdout, mainly for debugging.
func PPrint(node PrettyPrintable) {
	fmt.Println(Sprint(node))
}

// SprintProgram renders a top level program: statements and the final
// expression at column zero, no surrounding braces.
func SprintProgram(b *Block) string {
	cp := &codePrinter{}
	for _, stmt := range b.Stmts {
		stmt.PrettyPrint(cp)
	}
	if b.Return != nil {
		b.Return.PrettyPrint(cp)
		cp.Println("")
	}
	return cp.Output()
}
