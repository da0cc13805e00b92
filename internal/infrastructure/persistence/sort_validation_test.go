package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
)

func TestValidateSortOrder(t *testing.T) {
	for in, want := range map[string]string{
		"":                          "DESC",
		"asc":                       "ASC",
		"  Asc ":                    "ASC",
		"desc":                      "DESC",
		"ascending":                 "DESC",
		"ASC; DROP TABLE orders;--": "DESC",
	} {
		assert.Equal(t, want, ValidateSortOrder(in), "%q", in)
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "order_date"},
		{"total_amount", "total_amount"},
		{" status ", "status"},
		{"STATUS", "order_date"},
		{"retailer_id", "order_date"},
		{"status; DROP TABLE orders;--", "order_date"},
		{"id' OR '1'='1", "order_date"},
		{"(SELECT password_hash FROM users)", "order_date"},
		{"status\n;DELETE FROM invoices", "order_date"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ValidateSortField(tt.in, OrderSortFields, "order_date"), "%q", tt.in)
	}
}

func TestSortable_AddsCommonColumns(t *testing.T) {
	for name, fields := range map[string]map[string]bool{
		"companies": CompanySortFields,
		"retailers": RetailerSortFields,
		"products":  ProductSortFields,
		"invoices":  InvoiceSortFields,
		"trucks":    TruckSortFields,
	} {
		for _, col := range []string{"id", "created_at", "updated_at"} {
			assert.True(t, fields[col], "%s: %s", name, col)
		}
	}
	assert.Len(t, sortable(), 3)
}

func TestFilterSpec_OrdersByWhitelistedColumn(t *testing.T) {
	db := newTestDB(t)
	spec := filterSpec{sortFields: ProductSortFields, defaultSort: "created_at"}

	stmt := func(f shared.Filter) string {
		return db.ToSQL(func(tx *gorm.DB) *gorm.DB {
			var rows []map[string]any
			return spec.apply(tx.Table("products"), f).Find(&rows)
		})
	}

	assert.Contains(t, stmt(shared.Filter{OrderBy: "price", OrderDir: "asc"}), "ORDER BY price ASC")
	assert.Contains(t, stmt(shared.Filter{OrderBy: "price desc, (select 1)"}), "ORDER BY created_at DESC")
}
