package introspect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildMinimalContext(t *testing.T) {
	tables := []*TableSchema{
		{
			Table: "sc_orders",
			Columns: []Column{
				{Name: "id", Type: "bigint"},
				{Name: "ordered_at", Type: "timestamp without time zone"},
				{Name: "catalog_id", Type: "bigint"},
			},
			PrimaryKey: []string{"id"},
			ForeignKeys: []ForeignKey{
				{
					ConstrainedColumns: []string{"catalog_id"},
					ReferredTable:      "sc_catalog",
					ReferredColumns:    []string{"id"},
				},
			},
		},
		{
			Table: "sc_catalog",
			Columns: []Column{
				{Name: "id", Type: "bigint"},
				{Name: "sku", Type: "text"},
			},
			PrimaryKey: []string{"id"},
		},
	}

	out := BuildMinimalContext(tables)

	assert.Contains(t, out, "Table sc_orders: id bigint, ordered_at timestamp without time zone, catalog_id bigint")
	assert.Contains(t, out, "PK: id")
	assert.Contains(t, out, "FK(catalog_id) -> sc_catalog(id)")
	assert.Contains(t, out, "Table sc_catalog: id bigint, sku text")

	// Tables separated by a blank line
	assert.Contains(t, out, "\n\nTable sc_catalog")
}

func TestBuildMinimalContextCompositeForeignKey(t *testing.T) {
	tables := []*TableSchema{
		{
			Table:   "sc_order_items",
			Columns: []Column{{Name: "order_id", Type: "bigint"}, {Name: "line", Type: "integer"}},
			ForeignKeys: []ForeignKey{
				{
					ConstrainedColumns: []string{"order_id", "line"},
					ReferredTable:      "sc_orders",
					ReferredColumns:    []string{"id", "line"},
				},
			},
		},
	}

	out := BuildMinimalContext(tables)

	assert.Contains(t, out, "FK(order_id,line) -> sc_orders(id,line)")
}

func TestBuildMinimalContextEmpty(t *testing.T) {
	assert.Equal(t, "", BuildMinimalContext(nil))
}
