package ddl

import (
	"github.com/tordrt/pumlsql/internal/schema"
)

// ToSchema converts assembled results into the relational model used by the formatters.
// Failed classes are reported in Problems.
func ToSchema(results []ClassResult, opts Options) *schema.Schema {
	var classes map[string]*ClassSchema
	if opts.ForeignKeyColumns {
		classes = index(results)
	}

	s := &schema.Schema{}
	for _, result := range results {
		if result.Err != nil {
			s.Problems = append(s.Problems, result.Err.Error())
			continue
		}

		cs := result.Schema
		table := schema.Table{
			Name:       cs.Name,
			PrimaryKey: cs.PrimaryKey(),
		}
		for _, col := range columns(cs, classes) {
			table.Columns = append(table.Columns, schema.Column{
				Name:     col.Name,
				Type:     col.Type,
				Nullable: !col.IsPrimaryKey,
			})
		}
		for _, fk := range cs.ForeignKeys {
			table.Relations = append(table.Relations, schema.Relation{
				SourceColumn: fk.FieldName,
				TargetTable:  fk.ReferencedTable,
				TargetColumn: fk.FieldName,
				Cardinality:  fk.Cardinality,
			})
		}
		s.Tables = append(s.Tables, table)
	}

	return s
}
