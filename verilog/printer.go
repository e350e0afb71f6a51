package verilog

import (
	"fmt"
	"io"
	"strings"
)

const tabWidth = 2

// Printer writes indented RTL text. Write errors are sticky and
// reported by Err, so callers can emit a whole file and check once.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Err returns the first write error encountered.
func (p *Printer) Err() error {
	return p.err
}

func (p *Printer) write(s string) {
	if p.err != nil {
		return
	}
	_, p.err = io.WriteString(p.w, s)
}

func (p *Printer) pad() string {
	return strings.Repeat(" ", p.indent*tabWidth)
}

// Println writes one indented line.
func (p *Printer) Println(format string, a ...interface{}) {
	p.write(p.pad() + fmt.Sprintf(format, a...) + "\n")
}

// Indent increases the indentation by one level.
func (p *Printer) Indent() {
	p.indent++
}

// Unindent decreases the indentation by one level.
func (p *Printer) Unindent() {
	p.indent--
}

// Module opens a module declaration listing `args` as its ports.
func (p *Printer) Module(name string, args []string) {
	p.Println("module %s (", name)
	p.Indent()
	p.write(p.pad() + strings.Join(args, ",\n"+p.pad()) + "\n")
	p.Unindent()
	p.Println(");")
}

// EndModule closes a module declaration. A non-empty name is echoed in
// a trailing comment.
func (p *Printer) EndModule(name string) {
	if name == "" {
		p.Println("endmodule")
	} else {
		p.Println("endmodule // %s", name)
	}
}

// Parameter writes a module parameter.
func (p *Printer) Parameter(key, value string) {
	p.Println("parameter %s = %s;", key, value)
}

// Begin opens a begin/end block, closed with End.
func (p *Printer) Begin() {
	p.Println("begin")
	p.Indent()
}

// End closes a begin/end block.
func (p *Printer) End() {
	p.Unindent()
	p.Println("end")
}

// Initial opens an initial block, closed with End.
func (p *Printer) Initial() {
	p.Println("initial begin")
	p.Indent()
}

// Always opens an always block with the given sensitivity list, closed
// with End.
func (p *Printer) Always(condition string) {
	p.Println("always @ (%s) begin", condition)
	p.Indent()
}

// If opens a conditional block, closed with End or continued with Else.
func (p *Printer) If(condition string) {
	p.Println("if (%s) begin", condition)
	p.Indent()
}

// Else continues a conditional block.
func (p *Printer) Else() {
	p.Unindent()
	p.Println("end else begin")
	p.Indent()
}

// Connection binds one port of a module instance to a signal.
type Connection struct {
	Port   string
	Signal string
}

// ModuleInstance writes an instantiation of `module` named `instance`
// with the given port connections, in order.
func (p *Printer) ModuleInstance(module, instance string, connections []Connection) {
	p.Println("%s %s(", module, instance)
	p.Indent()
	lines := make([]string, 0, len(connections))
	for _, connection := range connections {
		lines = append(lines, fmt.Sprintf("%s.%s(%s)", p.pad(), connection.Port, connection.Signal))
	}
	p.write(strings.Join(lines, ",\n") + "\n")
	p.Unindent()
	p.Println(");")
}

// Fifo writes the FIFO module described by `spec` at the current
// position. The module text is flush left, not re-indented.
func (p *Printer) Fifo(spec FifoSpec) error {
	if p.err != nil {
		return p.err
	}
	return Fifo(p.w, spec)
}
