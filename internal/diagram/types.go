// Package diagram reads the class-diagram subset of PlantUML that pumlsql understands:
// `class Name { ... }` blocks and two-entity association lines.
package diagram

import "fmt"

// ClassBlock is the source text of one closed `class Name { ... }` definition
type ClassBlock struct {
	Name string
	Text string // lines of the block, trimmed and space-joined
	Line int    // 1-based line where the block starts
}

// Attribute is one declared class attribute
type Attribute struct {
	Name         string
	Type         string // upper-cased type text
	IsPrimaryKey bool
}

// Class is a parsed class block
type Class struct {
	Name       string
	Attributes []Attribute
}

// Association is a parsed line of the form
//
//	Left "1" -dir- "*" Right : "label"
type Association struct {
	Left              string
	LeftMultiplicity  string
	Direction         string // empty for a plain "--" link
	RightMultiplicity string
	Right             string
	Label             string
	Line              int
}

// ForeignKeyEntry is a foreign key inferred from an association
type ForeignKeyEntry struct {
	OwningTable     string
	FieldName       string
	ReferencedTable string
	Cardinality     string // "<owning multiplicity>:<referenced multiplicity>"
}

// ForeignKeyMap groups foreign keys by owning table, in source order
type ForeignKeyMap map[string][]ForeignKeyEntry

// ParseError reports a class block that does not match the attribute grammar
type ParseError struct {
	Class  string
	Text   string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s in %q", e.Detail, e.Text)
}
