package diagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const employeeDiagram = `
@startuml
hide methods
hide stereotypes

'Top-level entities
class Employee {
  + employee_id : int
  - first_name : varchar
}

class Department {
  + department_id : int
  - department_name : varchar
}

Employee <|-- Manager
Department "1" -up- "*" Employee : "< employs"
@enduml
`

func TestExtractBlocks(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantNames []string
		wantTexts []string
	}{
		{
			name:      "empty input",
			input:     "",
			wantNames: nil,
		},
		{
			name:      "diagram with directives and relations",
			input:     employeeDiagram,
			wantNames: []string{"Employee", "Department"},
			wantTexts: []string{
				"class Employee { + employee_id : int - first_name : varchar }",
				"class Department { + department_id : int - department_name : varchar }",
			},
		},
		{
			name:      "single line class",
			input:     "class Tag { + id : int }",
			wantNames: []string{"Tag"},
			wantTexts: []string{"class Tag { + id : int }"},
		},
		{
			name:      "unterminated class at end of input",
			input:     "class A {\n + id : int\n}\nclass B {\n + id : int\n",
			wantNames: []string{"A"},
		},
		{
			name:      "unterminated class interrupted by another class",
			input:     "class A {\n + id : int\nclass B {\n + id : int\n}\n",
			wantNames: []string{"B"},
			wantTexts: []string{"class B { + id : int }"},
		},
		{
			name:      "comment after closing brace",
			input:     "class A {\n  + id : int\n} ' end of A\n",
			wantNames: []string{"A"},
			wantTexts: []string{"class A { + id : int }"},
		},
		{
			name:      "comment after single line class",
			input:     "class Tag { + id : int } ' tags",
			wantNames: []string{"Tag"},
			wantTexts: []string{"class Tag { + id : int }"},
		},
		{
			name:      "keyword must stand alone",
			input:     "classroom {\n}\nclass Room{\n}\n",
			wantNames: []string{"Room"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks := ExtractBlocks(tt.input)

			var names []string
			for _, b := range blocks {
				names = append(names, b.Name)
			}
			assert.Equal(t, tt.wantNames, names)

			if tt.wantTexts != nil {
				require.Len(t, blocks, len(tt.wantTexts))
				for i, want := range tt.wantTexts {
					assert.Equal(t, want, blocks[i].Text)
				}
			}
		})
	}
}

func TestExtractBlocksRecordsStartLine(t *testing.T) {
	blocks := ExtractBlocks(employeeDiagram)
	require.Len(t, blocks, 2)
	assert.Equal(t, 7, blocks[0].Line)
	assert.Equal(t, 12, blocks[1].Line)
}
