//go:build integration
// +build integration

package integration

import (
	"testing"

	"github.com/tordrt/pumlsql/internal/schema"
)

// libraryDiagram is applied to every database. Book declares no author_id, so the
// foreign-key column is added during translation.
const libraryDiagram = `@startuml
class Author {
  + author_id : int
  - name : text
}

class Book {
  + book_id : int
  - title : text
}

Book "*" -- "1" Author : written by
@enduml
`

// verifyTablesExist checks that all expected tables are present in the schema
func verifyTablesExist(t *testing.T, s *schema.Schema, expectedTables []string) {
	t.Helper()

	if len(s.Tables) != len(expectedTables) {
		t.Errorf("Expected %d tables, got %d", len(expectedTables), len(s.Tables))
	}

	tableMap := make(map[string]bool)
	for _, table := range s.Tables {
		tableMap[table.Name] = true
	}

	for _, tableName := range expectedTables {
		if !tableMap[tableName] {
			t.Errorf("Expected table %s not found in schema", tableName)
		}
	}
}

// verifyColumns checks that the table has exactly the expected columns, in order
func verifyColumns(t *testing.T, table *schema.Table, expectedColumns []string) {
	t.Helper()

	if len(table.Columns) != len(expectedColumns) {
		t.Errorf("Expected columns %v in %s table, got %d columns", expectedColumns, table.Name, len(table.Columns))
		return
	}

	for i, colName := range expectedColumns {
		if table.Columns[i].Name != colName {
			t.Errorf("Expected column %s at position %d in %s table, got %s", colName, i, table.Name, table.Columns[i].Name)
		}
	}
}

// verifyPrimaryKey checks that a table has the expected primary key
func verifyPrimaryKey(t *testing.T, table *schema.Table, expectedPK []string) {
	t.Helper()

	if len(table.PrimaryKey) != len(expectedPK) {
		t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
		return
	}

	for i, pk := range expectedPK {
		if table.PrimaryKey[i] != pk {
			t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
			return
		}
	}
}

// verifyForeignKey checks that a foreign key relationship exists
func verifyForeignKey(t *testing.T, s *schema.Schema, tableName, sourceColumn, targetTable string) {
	t.Helper()

	table := s.FindTable(tableName)
	if table == nil {
		t.Fatalf("Table %s not found", tableName)
		return
	}

	for _, rel := range table.Relations {
		if rel.TargetTable == targetTable && rel.SourceColumn == sourceColumn {
			return
		}
	}

	t.Errorf("Expected foreign key relationship from %s.%s to %s not found", tableName, sourceColumn, targetTable)
}

// verifyLibrary checks the tables created from libraryDiagram; names are the ones the
// database reports
func verifyLibrary(t *testing.T, s *schema.Schema, author, book string) {
	t.Helper()

	verifyTablesExist(t, s, []string{author, book})

	authorTable := s.FindTable(author)
	if authorTable == nil {
		t.Fatalf("Table %s not found", author)
	}
	verifyPrimaryKey(t, authorTable, []string{"author_id"})
	verifyColumns(t, authorTable, []string{"author_id", "name"})

	bookTable := s.FindTable(book)
	if bookTable == nil {
		t.Fatalf("Table %s not found", book)
	}
	verifyPrimaryKey(t, bookTable, []string{"book_id"})
	verifyColumns(t, bookTable, []string{"book_id", "title", "author_id"})

	verifyForeignKey(t, s, book, "author_id", author)
}
