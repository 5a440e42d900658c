package db

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteClient {
	t.Helper()

	client, err := NewSQLiteClient(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestSQLiteApplyAndExtract(t *testing.T) {
	ctx := context.Background()
	client := newTestSQLite(t)

	statements := []string{
		"CREATE TABLE Employee (\n  employee_id INT,\n  name VARCHAR,\n  PRIMARY KEY (employee_id)\n)",
		"CREATE TABLE Department (\n  department_id INT,\n  employee_id INT,\n  PRIMARY KEY (department_id),\n" +
			"  FOREIGN KEY (employee_id) REFERENCES Employee(employee_id)\n)",
		"CREATE TABLE Pair (\n  b INT,\n  a INT,\n  PRIMARY KEY (b, a)\n)",
	}
	require.NoError(t, client.Apply(ctx, statements))

	s, err := NewSQLiteExtractor(client).ExtractSchema(ctx, []string{"Employee", "Department", "Pair"})
	require.NoError(t, err)
	require.Len(t, s.Tables, 3)

	employee := s.FindTable("Employee")
	require.NotNil(t, employee)
	assert.Equal(t, []string{"employee_id"}, employee.PrimaryKey)
	require.Len(t, employee.Columns, 2)
	assert.Equal(t, "name", employee.Columns[1].Name)
	assert.Equal(t, "VARCHAR", employee.Columns[1].Type)
	assert.True(t, employee.Columns[1].Nullable)

	department := s.FindTable("Department")
	require.NotNil(t, department)
	require.Len(t, department.Relations, 1)
	assert.Equal(t, "employee_id", department.Relations[0].SourceColumn)
	assert.Equal(t, "Employee", department.Relations[0].TargetTable)
	assert.Equal(t, "employee_id", department.Relations[0].TargetColumn)

	pair := s.FindTable("Pair")
	require.NotNil(t, pair)
	assert.Equal(t, []string{"b", "a"}, pair.PrimaryKey)
}

func TestSQLiteApplyRollsBack(t *testing.T) {
	ctx := context.Background()
	client := newTestSQLite(t)

	err := client.Apply(ctx, []string{
		"CREATE TABLE Good (id INT)",
		"CREATE TABLE Bad (,)",
	})
	require.Error(t, err)

	var stmtErr *StatementError
	require.True(t, errors.As(err, &stmtErr))
	assert.Equal(t, 1, stmtErr.Index)
	assert.Contains(t, err.Error(), "statement 2 (CREATE TABLE Bad (,))")

	_, err = NewSQLiteExtractor(client).ExtractSchema(ctx, []string{"Good"})
	assert.Error(t, err)
}
