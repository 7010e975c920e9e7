package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	groupStyle  = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	// ErrorStyle renders the notice of a failed command.
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// printer writes styled screens to out.
type printer struct {
	out io.Writer
}

func (p printer) header(title string) {
	fmt.Fprintln(p.out, headerStyle.Render(title))
}

func (p printer) group(title string) {
	fmt.Fprintln(p.out, groupStyle.Render(title))
}

func (p printer) muted(format string, args ...any) {
	fmt.Fprintln(p.out, mutedStyle.Render(fmt.Sprintf(format, args...)))
}

func (p printer) ok(format string, args ...any) {
	fmt.Fprintln(p.out, okStyle.Render(fmt.Sprintf(format, args...)))
}

func (p printer) line(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// table prints rows aligned in columns under an optional heading row.
func (p printer) table(heading []string, rows [][]string) {
	tw := tabwriter.NewWriter(p.out, 2, 0, 2, ' ', 0)
	if len(heading) > 0 {
		fmt.Fprintln(tw, mutedStyle.Render(strings.Join(heading, "\t")))
	}
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	tw.Flush()
}

func (p printer) empty(what string) {
	p.muted("no %s", what)
}
