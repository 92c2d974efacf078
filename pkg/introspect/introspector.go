package introspect

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Column is a single column with its declared type.
type Column struct {
	Name string
	Type string
}

// ForeignKey is one outgoing FK edge of a table.
type ForeignKey struct {
	ConstrainedColumns []string
	ReferredTable      string
	ReferredColumns    []string
}

// TableSchema is the live catalog snapshot for one table. It is built
// fresh per question and never cached, so it always reflects the current
// database state.
type TableSchema struct {
	Table       string
	Schema      string
	Columns     []Column
	PrimaryKey  []string
	ForeignKeys []ForeignKey
}

// Introspector reads column, primary-key and foreign-key metadata from
// the live PostgreSQL catalog.
type Introspector struct {
	db *gorm.DB
}

func NewIntrospector(db *gorm.DB) *Introspector {
	return &Introspector{db: db}
}

// Describe fetches the schema of a single table. A table that does not
// exist (or is not visible to the current credentials) is an error; the
// caller decides whether that aborts the batch.
func (i *Introspector) Describe(ctx context.Context, tableName string, schema string) (*TableSchema, error) {
	type columnRow struct {
		ColumnName string
		DataType   string
	}
	var cols []columnRow
	err := i.db.WithContext(ctx).Raw(`
		SELECT column_name, data_type
		FROM information_schema.columns
		WHERE table_name = ?
		  AND table_schema = COALESCE(NULLIF(?, ''), current_schema())
		ORDER BY ordinal_position`,
		tableName, schema,
	).Scan(&cols).Error
	if err != nil {
		return nil, fmt.Errorf("introspect columns for %s: %w", tableName, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q not found in catalog", tableName)
	}

	ts := &TableSchema{
		Table:  tableName,
		Schema: schema,
	}
	for _, c := range cols {
		ts.Columns = append(ts.Columns, Column{Name: c.ColumnName, Type: c.DataType})
	}

	pk, err := i.primaryKey(ctx, tableName, schema)
	if err != nil {
		return nil, err
	}
	ts.PrimaryKey = pk

	fks, err := i.foreignKeys(ctx, tableName, schema)
	if err != nil {
		return nil, err
	}
	ts.ForeignKeys = fks

	return ts, nil
}

func (i *Introspector) primaryKey(ctx context.Context, tableName string, schema string) ([]string, error) {
	var pkCols []string
	err := i.db.WithContext(ctx).Raw(`
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name
		 AND kcu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'PRIMARY KEY'
		  AND tc.table_name = ?
		  AND tc.table_schema = COALESCE(NULLIF(?, ''), current_schema())
		ORDER BY kcu.ordinal_position`,
		tableName, schema,
	).Scan(&pkCols).Error
	if err != nil {
		return nil, fmt.Errorf("introspect primary key for %s: %w", tableName, err)
	}
	return pkCols, nil
}

func (i *Introspector) foreignKeys(ctx context.Context, tableName string, schema string) ([]ForeignKey, error) {
	type fkRow struct {
		ConstraintName string
		ColumnName     string
		ReferredTable  string
		ReferredColumn string
	}
	var rows []fkRow
	err := i.db.WithContext(ctx).Raw(`
		SELECT tc.constraint_name,
		       kcu.column_name,
		       ccu.table_name  AS referred_table,
		       ccu.column_name AS referred_column
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
		  ON kcu.constraint_name = tc.constraint_name
		 AND kcu.table_schema = tc.table_schema
		JOIN information_schema.constraint_column_usage ccu
		  ON ccu.constraint_name = tc.constraint_name
		 AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
		  AND tc.table_name = ?
		  AND tc.table_schema = COALESCE(NULLIF(?, ''), current_schema())
		ORDER BY tc.constraint_name, kcu.ordinal_position`,
		tableName, schema,
	).Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("introspect foreign keys for %s: %w", tableName, err)
	}

	// Group per constraint, keeping catalog order
	var fks []ForeignKey
	index := make(map[string]int)
	for _, r := range rows {
		if at, ok := index[r.ConstraintName]; ok {
			fks[at].ConstrainedColumns = append(fks[at].ConstrainedColumns, r.ColumnName)
			fks[at].ReferredColumns = append(fks[at].ReferredColumns, r.ReferredColumn)
			continue
		}
		index[r.ConstraintName] = len(fks)
		fks = append(fks, ForeignKey{
			ConstrainedColumns: []string{r.ColumnName},
			ReferredTable:      r.ReferredTable,
			ReferredColumns:    []string{r.ReferredColumn},
		})
	}
	return fks, nil
}

// BuildMinimalContext renders table schemas as a compact text block for
// the SQL-generation prompt.
func BuildMinimalContext(tables []*TableSchema) string {
	parts := make([]string, 0, len(tables))
	for _, t := range tables {
		cols := make([]string, 0, len(t.Columns))
		for _, c := range t.Columns {
			cols = append(cols, fmt.Sprintf("%s %s", c.Name, c.Type))
		}

		fkParts := make([]string, 0, len(t.ForeignKeys))
		for _, fk := range t.ForeignKeys {
			fkParts = append(fkParts, fmt.Sprintf("FK(%s) -> %s(%s)",
				strings.Join(fk.ConstrainedColumns, ","),
				fk.ReferredTable,
				strings.Join(fk.ReferredColumns, ","),
			))
		}

		parts = append(parts, fmt.Sprintf("Table %s: %s\nPK: %s\n%s",
			t.Table,
			strings.Join(cols, ", "),
			strings.Join(t.PrimaryKey, ", "),
			strings.Join(fkParts, "; "),
		))
	}
	return strings.Join(parts, "\n\n")
}
