package formatter

import (
	"fmt"
	"io"
	"strings"

	"github.com/tordrt/pumlsql/internal/schema"
)

// MarkdownFormatter formats schema as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the schema in markdown format
func (f *MarkdownFormatter) Format(s *schema.Schema) error {
	_, _ = fmt.Fprintln(f.writer, "# Database Schema")
	_, _ = fmt.Fprintln(f.writer)

	for _, table := range s.Tables {
		f.FormatTable(table)
	}

	if len(s.Problems) > 0 {
		_, _ = fmt.Fprintln(f.writer, "## Problems")
		_, _ = fmt.Fprintln(f.writer)
		for _, p := range s.Problems {
			_, _ = fmt.Fprintf(f.writer, "- %s\n", p)
		}
		_, _ = fmt.Fprintln(f.writer)
	}
	return nil
}

// FormatTable writes a single table section (also used by the multi-file formatter)
func (f *MarkdownFormatter) FormatTable(table schema.Table) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)
	f.formatColumns(table)
	f.formatRelations(table.Relations)
}

func (f *MarkdownFormatter) formatColumns(table schema.Table) {
	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)

	for _, col := range table.Columns {
		constraintStr := formatConstraints(col, &table)
		if constraintStr != "" {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, %s\n", col.Name, col.Type, constraintStr)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col.Name, col.Type)
		}
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatRelations(relations []schema.Relation) {
	if len(relations) == 0 {
		return
	}

	_, _ = fmt.Fprintln(f.writer, "### References")
	_, _ = fmt.Fprintln(f.writer)
	for _, rel := range relations {
		_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s (%s)\n",
			rel.SourceColumn,
			rel.TargetTable,
			rel.TargetColumn,
			rel.Cardinality)
	}
	_, _ = fmt.Fprintln(f.writer)
}

func formatConstraints(col schema.Column, table *schema.Table) string {
	var constraints []string

	if table.IsPrimaryKey(col.Name) {
		constraints = append(constraints, "PK")
	}

	for _, rel := range table.Relations {
		if rel.SourceColumn == col.Name {
			constraints = append(constraints, "FK")
			break
		}
	}

	if !col.Nullable {
		constraints = append(constraints, "NOT NULL")
	}

	return strings.Join(constraints, ", ")
}
