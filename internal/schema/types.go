package schema

// Schema represents the tables of a translated diagram, or of a database after the DDL
// was applied
type Schema struct {
	Tables []Table
	// Problems lists classes that could not be translated, in source order
	Problems []string
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Relations  []Relation
	PrimaryKey []string
}

// Column represents a table column
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// Relation represents a foreign key relationship
type Relation struct {
	TargetTable  string
	TargetColumn string
	SourceColumn string
	Cardinality  string // multiplicities from the diagram, e.g. 1:*
}

// FindTable returns the table with the given name, or nil
func (s *Schema) FindTable(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// IsPrimaryKey reports whether column is part of the table's primary key
func (t *Table) IsPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}
