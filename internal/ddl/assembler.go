// Package ddl assembles parsed classes and inferred foreign keys into CREATE TABLE statements.
package ddl

import (
	"strings"

	"github.com/tordrt/pumlsql/internal/diagram"
)

// DefaultForeignKeyType is the column type used for an added foreign-key column when the
// referenced class does not declare the field itself
const DefaultForeignKeyType = "INTEGER"

// ClassSchema is one class ready to be emitted as a table
type ClassSchema struct {
	Name        string
	Attributes  []diagram.Attribute
	ForeignKeys []diagram.ForeignKeyEntry
}

// ClassResult holds either an assembled class or the reason it could not be parsed
type ClassResult struct {
	Block  diagram.ClassBlock
	Schema *ClassSchema
	Err    error
}

// Options controls rendering
type Options struct {
	// ForeignKeyColumns adds every foreign-key field that is not already a column
	ForeignKeyColumns bool
}

// Assemble parses each block and attaches the foreign keys owned by its class.
// Results keep the order of blocks.
func Assemble(blocks []diagram.ClassBlock, fks diagram.ForeignKeyMap) []ClassResult {
	results := make([]ClassResult, 0, len(blocks))

	for _, block := range blocks {
		class, err := diagram.ParseClass(block)
		if err != nil {
			results = append(results, ClassResult{Block: block, Err: err})
			continue
		}

		results = append(results, ClassResult{
			Block: block,
			Schema: &ClassSchema{
				Name:        class.Name,
				Attributes:  class.Attributes,
				ForeignKeys: fks[class.Name],
			},
		})
	}

	return results
}

// Render emits the DDL for every result, in order. A failed class becomes an inline
// `Parse error in class definition: ...` line.
func Render(results []ClassResult, opts Options) string {
	var classes map[string]*ClassSchema
	if opts.ForeignKeyColumns {
		classes = index(results)
	}

	var out strings.Builder
	for _, result := range results {
		if result.Err != nil {
			out.WriteString("Parse error in class definition: ")
			out.WriteString(result.Err.Error())
			out.WriteString("\n\n")
			continue
		}
		out.WriteString(renderTable(result.Schema, columns(result.Schema, classes)))
	}
	return out.String()
}

// Statements returns one CREATE TABLE statement per successfully parsed class, without the
// terminating semicolon
func Statements(results []ClassResult, opts Options) []string {
	var classes map[string]*ClassSchema
	if opts.ForeignKeyColumns {
		classes = index(results)
	}

	var stmts []string
	for _, result := range results {
		if result.Err != nil {
			continue
		}
		stmt := renderTable(result.Schema, columns(result.Schema, classes))
		stmts = append(stmts, strings.TrimSuffix(stmt, ";\n\n"))
	}
	return stmts
}

// Failures returns the errors of the classes that did not parse, in order
func Failures(results []ClassResult) []error {
	var errs []error
	for _, result := range results {
		if result.Err != nil {
			errs = append(errs, result.Err)
		}
	}
	return errs
}

func renderTable(cs *ClassSchema, cols []diagram.Attribute) string {
	var b strings.Builder

	b.WriteString("CREATE TABLE " + cs.Name + " (\n")
	for _, col := range cols {
		b.WriteString("  " + col.Name + " " + col.Type + ",\n")
	}
	out := strings.TrimRight(b.String(), ",\n")

	if keys := cs.PrimaryKey(); len(keys) > 0 {
		out += ",\n  PRIMARY KEY (" + strings.Join(keys, ", ") + ")"
	}

	for _, fk := range cs.ForeignKeys {
		out += ",\n  FOREIGN KEY (" + fk.FieldName + ") REFERENCES " + fk.ReferencedTable + "(" + fk.FieldName + ")"
	}

	return out + "\n);\n\n"
}

// PrimaryKey returns the primary-key attribute names in declaration order
func (cs *ClassSchema) PrimaryKey() []string {
	var keys []string
	for _, attr := range cs.Attributes {
		if attr.IsPrimaryKey {
			keys = append(keys, attr.Name)
		}
	}
	return keys
}

// columns returns the declared attributes, followed by missing foreign-key fields when
// classes is non-nil
func columns(cs *ClassSchema, classes map[string]*ClassSchema) []diagram.Attribute {
	if classes == nil {
		return cs.Attributes
	}

	cols := append([]diagram.Attribute(nil), cs.Attributes...)
	seen := make(map[string]bool, len(cols))
	for _, col := range cols {
		seen[col.Name] = true
	}

	for _, fk := range cs.ForeignKeys {
		if seen[fk.FieldName] {
			continue
		}
		seen[fk.FieldName] = true
		cols = append(cols, diagram.Attribute{
			Name: fk.FieldName,
			Type: referencedType(fk, classes),
		})
	}
	return cols
}

func referencedType(fk diagram.ForeignKeyEntry, classes map[string]*ClassSchema) string {
	if ref, ok := classes[fk.ReferencedTable]; ok {
		for _, attr := range ref.Attributes {
			if attr.Name == fk.FieldName {
				return attr.Type
			}
		}
	}
	return DefaultForeignKeyType
}

// index maps class names to schemas; the first class wins on duplicate names
func index(results []ClassResult) map[string]*ClassSchema {
	classes := make(map[string]*ClassSchema)
	for _, result := range results {
		if result.Schema == nil {
			continue
		}
		if _, ok := classes[result.Schema.Name]; !ok {
			classes[result.Schema.Name] = result.Schema
		}
	}
	return classes
}
