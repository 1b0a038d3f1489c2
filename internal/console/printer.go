package console

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Printer writes user facing output.
type Printer struct {
	out    io.Writer
	banner lipgloss.Style
}

// NewPrinter styles output for whatever terminal out is attached to.
func NewPrinter(out io.Writer) *Printer {
	renderer := lipgloss.NewRenderer(out)

	return &Printer{
		out:    out,
		banner: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
	}
}

// Writer exposes the underlying stream for subprocess output.
func (p *Printer) Writer() io.Writer {
	return p.out
}

// Println writes a plain line.
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

// Printf writes formatted text.
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// Banner writes a highlighted "> message" line.
func (p *Printer) Banner(message string) {
	fmt.Fprintln(p.out, p.banner.Render("> "+message))
}

// Table writes rows under headers with a plain border.
func (p *Printer) Table(headers []string, rows [][]string) {
	fmt.Fprintln(p.out, RenderTable(headers, rows))
}

// RenderTable formats rows under headers with a plain border.
func RenderTable(headers []string, rows [][]string) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		String()
}
