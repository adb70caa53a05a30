package report

import (
	"fmt"
	"strings"
	"time"

	"grantlint/internal/engine/grants"
)

type MarkdownReportOptions struct {
	ProjectName string
	GeneratedAt time.Time
	Version     string
}

type MarkdownGenerator struct{}

func NewMarkdownGenerator() *MarkdownGenerator {
	return &MarkdownGenerator{}
}

func (m *MarkdownGenerator) Generate(checkReport *grants.Report, opts MarkdownReportOptions) (string, error) {
	if checkReport == nil {
		return "", fmt.Errorf("check report is required")
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now().UTC()
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("title: Grant Check Report\n")
	b.WriteString("project: " + nonEmpty(opts.ProjectName, "unknown") + "\n")
	b.WriteString("generated_at: " + opts.GeneratedAt.UTC().Format(time.RFC3339) + "\n")
	b.WriteString("version: " + nonEmpty(opts.Version, "unknown") + "\n")
	b.WriteString("---\n\n")

	b.WriteString("# Grant Check Report\n\n")

	b.WriteString("## Summary\n\n")
	status := "✅ passed"
	if checkReport.Failed() {
		status = "❌ failed"
	}
	fmt.Fprintf(&b, "- Status: %s\n", status)
	fmt.Fprintf(&b, "- Files scanned: %d\n", checkReport.FilesScanned)
	fmt.Fprintf(&b, "- Gated identifiers found: %d\n", checkReport.IdentifierCount())
	fmt.Fprintf(&b, "- Missing grants: %d\n", len(checkReport.Missing))
	fmt.Fprintf(&b, "- Unused grants: %d\n\n", len(checkReport.Unused))

	b.WriteString("## Missing Grants\n\n")
	if len(checkReport.Missing) == 0 {
		b.WriteString("None.\n\n")
	} else {
		b.WriteString("| Identifier | First seen |\n")
		b.WriteString("|---|---|\n")
		for _, ident := range checkReport.Missing {
			where := "-"
			if loc, ok := checkReport.FirstLocation(ident); ok {
				where = fmt.Sprintf("`%s:%d:%d`", loc.File, loc.Line, loc.Column)
			}
			fmt.Fprintf(&b, "| `%s` | %s |\n", ident, where)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Unused Grants\n\n")
	if len(checkReport.Unused) == 0 {
		b.WriteString("None.\n")
	} else {
		for _, ident := range checkReport.Unused {
			fmt.Fprintf(&b, "- `%s`\n", ident)
		}
	}

	return b.String(), nil
}

func nonEmpty(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
