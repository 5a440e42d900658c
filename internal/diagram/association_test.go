package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAssociation(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		want   Association
		wantOK bool
	}{
		{
			name: "directed link",
			line: `Department "1" -up- "*" Employee : "< employs"`,
			want: Association{
				Left:              "Department",
				LeftMultiplicity:  "1",
				Direction:         "up",
				RightMultiplicity: "*",
				Right:             "Employee",
				Label:             "< employs",
			},
			wantOK: true,
		},
		{
			name: "plain link and bare label",
			line: `Order "0..*" -- "1" Customer : places >`,
			want: Association{
				Left:              "Order",
				LeftMultiplicity:  "0..*",
				RightMultiplicity: "1",
				Right:             "Customer",
				Label:             "places >",
			},
			wantOK: true,
		},
		{
			name: "empty label",
			line: `A "1" -right- "1" B :`,
			want: Association{
				Left:              "A",
				LeftMultiplicity:  "1",
				Direction:         "right",
				RightMultiplicity: "1",
				Right:             "B",
			},
			wantOK: true,
		},
		{
			name: "label with unpaired quote",
			line: `Order "1" -- "*" Item : 5" screws`,
			want: Association{
				Left:              "Order",
				LeftMultiplicity:  "1",
				RightMultiplicity: "*",
				Right:             "Item",
				Label:             `5" screws`,
			},
			wantOK: true,
		},
		{
			name: "label with open quote and colon",
			line: `User "1" -- "*" Post : says "hi: there`,
			want: Association{
				Left:              "User",
				LeftMultiplicity:  "1",
				RightMultiplicity: "*",
				Right:             "Post",
				Label:             `says "hi: there`,
			},
			wantOK: true,
		},
		{name: "inheritance", line: "Employee <|-- Manager"},
		{name: "missing multiplicities", line: "A -- B : owns"},
		{name: "missing label", line: `A "1" -- "*" B`},
		{name: "arrow head", line: `A "1" --> "*" B : x`},
		{name: "directive", line: "@startuml"},
		{name: "class line", line: "class Foo {"},
		{name: "unterminated string", line: `A "1 -- "*" B : x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAssociation(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestExtractAssociations(t *testing.T) {
	text := `
class Employee {
  + employee_id : int
}
Department "1" -up- "*" Employee : "< employs"
Project "*" -right- "*" Employee : "< works on"
Employee <|-- Manager
Manager "1" -down- "*" Department : "< manages"
`
	assocs := ExtractAssociations(text)
	require.Len(t, assocs, 3)

	assert.Equal(t, "Department", assocs[0].Left)
	assert.Equal(t, 5, assocs[0].Line)
	assert.Equal(t, "Project", assocs[1].Left)
	assert.Equal(t, "Manager", assocs[2].Left)
	assert.Equal(t, "Department", assocs[2].Right)
}

func TestForeignKeys(t *testing.T) {
	assocs := ExtractAssociations(`
Department "1" -up- "*" Employee : "< employs"
Department "1" -- "*" Project : "< runs"
Project "*" -right- "*" Employee : "< works on"
`)

	t.Run("left owns by default", func(t *testing.T) {
		fks := ForeignKeys(assocs, nil)

		require.Len(t, fks["Department"], 2)
		assert.Equal(t, ForeignKeyEntry{
			OwningTable:     "Department",
			FieldName:       "employee_id",
			ReferencedTable: "Employee",
			Cardinality:     "1:*",
		}, fks["Department"][0])
		assert.Equal(t, "project_id", fks["Department"][1].FieldName)

		require.Len(t, fks["Project"], 1)
		assert.Equal(t, "employee_id", fks["Project"][0].FieldName)
		assert.Empty(t, fks["Employee"])
	})

	t.Run("many side owns", func(t *testing.T) {
		fks := ForeignKeys(assocs, ManySideOwns)

		require.Len(t, fks["Employee"], 1)
		assert.Equal(t, ForeignKeyEntry{
			OwningTable:     "Employee",
			FieldName:       "department_id",
			ReferencedTable: "Department",
			Cardinality:     "*:1",
		}, fks["Employee"][0])
		assert.Len(t, fks["Project"], 2)
		assert.Empty(t, fks["Department"])
	})
}

func TestForeignKeyFieldKeepsEntityName(t *testing.T) {
	entry := LeftOwns(Association{Left: "Screen", Right: "Grid", LeftMultiplicity: "1", RightMultiplicity: "*"})
	assert.Equal(t, "grid_id", entry.FieldName)
	assert.Equal(t, "Grid", entry.ReferencedTable)
}

func TestPolicyByName(t *testing.T) {
	for _, name := range []string{"", "left", "LEFT", "many"} {
		_, ok := PolicyByName(name)
		assert.True(t, ok, name)
	}
	_, ok := PolicyByName("right")
	assert.False(t, ok)
}
