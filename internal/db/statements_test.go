package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitStatements(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   []string
	}{
		{
			name:   "empty script",
			script: "",
			want:   nil,
		},
		{
			name:   "translator output",
			script: "CREATE TABLE A (\n  id INT\n);\n\nCREATE TABLE B (\n  id INT\n);\n\n",
			want:   []string{"CREATE TABLE A (\n  id INT\n)", "CREATE TABLE B (\n  id INT\n)"},
		},
		{
			name:   "stray separators",
			script: ";; CREATE TABLE A (id INT) ;",
			want:   []string{"CREATE TABLE A (id INT)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitStatements(tt.script))
		})
	}
}

func TestTableName(t *testing.T) {
	tests := []struct {
		stmt string
		want string
	}{
		{stmt: "CREATE TABLE Employee (\n  id INT\n)", want: "Employee"},
		{stmt: "create table Tag(id INT)", want: "Tag"},
		{stmt: "DROP TABLE Employee", want: ""},
		{stmt: "CREATE TABLE", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.stmt, func(t *testing.T) {
			assert.Equal(t, tt.want, TableName(tt.stmt))
		})
	}
}

func TestParseDatabaseName(t *testing.T) {
	name, err := ParseDatabaseName("user:pass@tcp(localhost:3306)/shop?parseTime=true")
	assert.NoError(t, err)
	assert.Equal(t, "shop", name)

	_, err = ParseDatabaseName("user:pass@tcp(localhost:3306)/")
	assert.Error(t, err)
}

func TestOrderByDependency(t *testing.T) {
	department := "CREATE TABLE Department (\n  employee_id INT,\n  FOREIGN KEY (employee_id) REFERENCES Employee(employee_id)\n)"
	employee := "CREATE TABLE Employee (\n  employee_id INT,\n  PRIMARY KEY (employee_id)\n)"
	node := "CREATE TABLE Node (\n  node_id INT,\n  FOREIGN KEY (node_id) REFERENCES Node(node_id)\n)"
	a := "CREATE TABLE A (\n  b_id INT,\n  FOREIGN KEY (b_id) REFERENCES B(b_id)\n)"
	b := "CREATE TABLE B (\n  a_id INT,\n  FOREIGN KEY (a_id) REFERENCES A(a_id)\n)"
	external := "CREATE TABLE Order (\n  customer_id INT,\n  FOREIGN KEY (customer_id) REFERENCES Customer(customer_id)\n)"

	tests := []struct {
		name       string
		statements []string
		want       []string
	}{
		{
			name:       "referenced table moves first",
			statements: []string{department, employee},
			want:       []string{employee, department},
		},
		{
			name:       "self reference",
			statements: []string{node},
			want:       []string{node},
		},
		{
			name:       "cycle keeps source order",
			statements: []string{employee, a, b},
			want:       []string{employee, a, b},
		},
		{
			name:       "undeclared target is ignored",
			statements: []string{external, employee},
			want:       []string{external, employee},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OrderByDependency(tt.statements))
		})
	}
}

func TestReferencedTables(t *testing.T) {
	stmt := "CREATE TABLE Shift (\n  FOREIGN KEY (employee_id) REFERENCES Employee(employee_id),\n" +
		"  FOREIGN KEY (site_id) REFERENCES Site(site_id)\n)"
	assert.Equal(t, []string{"Employee", "Site"}, ReferencedTables(stmt))
	assert.Nil(t, ReferencedTables("CREATE TABLE Log (\n  line TEXT\n)"))
}
