package report

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"grantlint/internal/engine/grants"
)

var (
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBBF24")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	locStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B"))
)

// ConsolePrinter renders a check report as human-readable diagnostic
// lines: one error per missing grant, one warning per unused grant,
// one summary line.
type ConsolePrinter struct {
	out    io.Writer
	styled bool
}

// NewConsolePrinter builds a printer. colorMode is auto/always/never;
// auto styles only when out is a terminal.
func NewConsolePrinter(out io.Writer, colorMode string) *ConsolePrinter {
	styled := false
	switch colorMode {
	case "always":
		styled = true
	case "never":
		styled = false
	default:
		if f, ok := out.(*os.File); ok {
			styled = isatty.IsTerminal(f.Fd())
		}
	}
	return &ConsolePrinter{out: out, styled: styled}
}

func (p *ConsolePrinter) Print(report *grants.Report) {
	for _, ident := range report.Missing {
		line := fmt.Sprintf("ERROR: %s is used but not declared in the manifest", ident)
		if p.styled {
			line = errorStyle.Render("ERROR") + fmt.Sprintf(": %s is used but not declared in the manifest", ident)
		}
		if loc, ok := report.FirstLocation(ident); ok {
			where := fmt.Sprintf(" (%s:%d:%d)", loc.File, loc.Line, loc.Column)
			if p.styled {
				where = locStyle.Render(where)
			}
			line += where
		}
		fmt.Fprintln(p.out, line)
	}

	for _, ident := range report.Unused {
		line := fmt.Sprintf("WARN: %s is declared but never used", ident)
		if p.styled {
			line = warnStyle.Render("WARN") + fmt.Sprintf(": %s is declared but never used", ident)
		}
		fmt.Fprintln(p.out, line)
	}

	p.printSummary(report)
}

func (p *ConsolePrinter) printSummary(report *grants.Report) {
	if report.Failed() {
		msg := fmt.Sprintf("grant check failed: %d missing grant(s) across %d file(s); add them to the manifest",
			len(report.Missing), report.FilesScanned)
		if p.styled {
			msg = errorStyle.Render(msg)
		}
		fmt.Fprintln(p.out, msg)
		return
	}

	msg := fmt.Sprintf("grant check passed: %d identifier(s) across %d file(s)",
		report.IdentifierCount(), report.FilesScanned)
	if len(report.Unused) > 0 {
		msg += fmt.Sprintf(" (%d unused grant(s) to clean up)", len(report.Unused))
	}
	if p.styled {
		msg = successStyle.Render(msg)
	}
	fmt.Fprintln(p.out, msg)
}
