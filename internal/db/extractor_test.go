package db

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/pumlsql/internal/schema"
)

// stubReader serves table definitions from memory
type stubReader struct {
	tables    map[string][]schema.Column
	lookupErr error
}

func (r *stubReader) tableExists(_ context.Context, tableName string) (bool, error) {
	if r.lookupErr != nil {
		return false, r.lookupErr
	}
	_, ok := r.tables[tableName]
	return ok, nil
}

func (r *stubReader) extractColumns(_ context.Context, tableName string) ([]schema.Column, error) {
	return r.tables[tableName], nil
}

func (r *stubReader) extractPrimaryKey(context.Context, string) ([]string, error) {
	return nil, nil
}

func (r *stubReader) extractRelations(context.Context, string) ([]schema.Relation, error) {
	return nil, nil
}

func TestExtractTables(t *testing.T) {
	reader := &stubReader{tables: map[string][]schema.Column{
		"tag":   {{Name: "tag_id", Type: "integer"}},
		"empty": nil,
	}}

	tests := []struct {
		name    string
		tables  []string
		wantErr string
	}{
		{name: "table with columns", tables: []string{"tag"}},
		{name: "table without columns", tables: []string{"tag", "empty"}},
		{name: "missing table", tables: []string{"tag", "ghost"}, wantErr: "failed to extract table ghost: table not found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := extractTables(context.Background(), reader, tt.tables)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			require.Len(t, s.Tables, len(tt.tables))
			for i, name := range tt.tables {
				assert.Equal(t, name, s.Tables[i].Name)
				assert.Len(t, s.Tables[i].Columns, len(reader.tables[name]))
			}
		})
	}
}

func TestExtractTablesLookupError(t *testing.T) {
	lookupErr := errors.New("connection reset")
	reader := &stubReader{lookupErr: lookupErr}

	_, err := extractTables(context.Background(), reader, []string{"tag"})
	require.Error(t, err)
	assert.ErrorIs(t, err, lookupErr)
}
