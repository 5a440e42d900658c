package db

import (
	"context"
	"fmt"

	"github.com/tordrt/pumlsql/internal/schema"
)

// tableReader reads the definition of one table back from a database
type tableReader interface {
	tableExists(ctx context.Context, tableName string) (bool, error)
	extractColumns(ctx context.Context, tableName string) ([]schema.Column, error)
	extractPrimaryKey(ctx context.Context, tableName string) ([]string, error)
	extractRelations(ctx context.Context, tableName string) ([]schema.Relation, error)
}

// extractTables reads each named table in order. A table the database does not know is an
// error, since callers only ask for tables they just created.
func extractTables(ctx context.Context, r tableReader, tables []string) (*schema.Schema, error) {
	extracted := make([]schema.Table, 0, len(tables))

	for _, tableName := range tables {
		table, err := extractTable(ctx, r, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		extracted = append(extracted, *table)
	}

	return &schema.Schema{Tables: extracted}, nil
}

func extractTable(ctx context.Context, r tableReader, tableName string) (*schema.Table, error) {
	table := &schema.Table{Name: tableName}

	exists, err := r.tableExists(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up table: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("table not found")
	}

	// A table without attributes has no columns
	columns, err := r.extractColumns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	table.Columns = columns

	pk, err := r.extractPrimaryKey(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	table.PrimaryKey = pk

	relations, err := r.extractRelations(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	table.Relations = relations

	return table, nil
}
