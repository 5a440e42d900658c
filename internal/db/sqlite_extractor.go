package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tordrt/pumlsql/internal/schema"
)

// SQLiteExtractor reads applied tables back from SQLite
type SQLiteExtractor struct {
	client *SQLiteClient
}

// NewSQLiteExtractor creates a new SQLite schema extractor
func NewSQLiteExtractor(client *SQLiteClient) *SQLiteExtractor {
	return &SQLiteExtractor{
		client: client,
	}
}

// ExtractSchema extracts the named tables
func (e *SQLiteExtractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	return extractTables(ctx, e, tables)
}

type sqliteColumn struct {
	schema.Column
	pkOrder int
}

func (e *SQLiteExtractor) tableInfo(ctx context.Context, tableName string) ([]sqliteColumn, error) {
	query := fmt.Sprintf("PRAGMA table_info(%q)", tableName)

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []sqliteColumn
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, err
		}

		columns = append(columns, sqliteColumn{
			Column: schema.Column{
				Name:     name,
				Type:     colType,
				Nullable: notNull == 0,
			},
			pkOrder: pk,
		})
	}

	return columns, rows.Err()
}

// tableExists matches names case-insensitively, as SQLite resolves them
func (e *SQLiteExtractor) tableExists(ctx context.Context, tableName string) (bool, error) {
	query := "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE"

	var count int
	if err := e.client.GetDB().QueryRowContext(ctx, query, tableName).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (e *SQLiteExtractor) extractColumns(ctx context.Context, tableName string) ([]schema.Column, error) {
	info, err := e.tableInfo(ctx, tableName)
	if err != nil {
		return nil, err
	}

	columns := make([]schema.Column, 0, len(info))
	for _, col := range info {
		columns = append(columns, col.Column)
	}
	return columns, nil
}

// extractPrimaryKey orders key columns by their position in the PRIMARY KEY clause
func (e *SQLiteExtractor) extractPrimaryKey(ctx context.Context, tableName string) ([]string, error) {
	info, err := e.tableInfo(ctx, tableName)
	if err != nil {
		return nil, err
	}

	byOrder := make(map[int]string)
	for _, col := range info {
		if col.pkOrder > 0 {
			byOrder[col.pkOrder] = col.Name
		}
	}

	pk := make([]string, 0, len(byOrder))
	for i := 1; i <= len(byOrder); i++ {
		pk = append(pk, byOrder[i])
	}
	return pk, nil
}

func (e *SQLiteExtractor) extractRelations(ctx context.Context, tableName string) ([]schema.Relation, error) {
	query := fmt.Sprintf("PRAGMA foreign_key_list(%q)", tableName)

	rows, err := e.client.GetDB().QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}

		relations = append(relations, schema.Relation{
			SourceColumn: fromCol,
			TargetTable:  targetTable,
			TargetColumn: toCol.String,
			Cardinality:  "N:1",
		})
	}

	return relations, rows.Err()
}
