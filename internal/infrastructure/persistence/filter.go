package persistence

import (
	"reflect"
	"strings"

	"github.com/supplychain/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// filterSpec describes how a repository maps shared.Filter onto its table.
// Filter keys not listed in columns are ignored.
type filterSpec struct {
	// columns maps filter keys to column names
	columns map[string]string
	// search lists the columns matched by Filter.Search
	search      []string
	sortFields  map[string]bool
	defaultSort string
}

// where applies filter values and search without ordering or pagination
func (s filterSpec) where(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if term := strings.TrimSpace(filter.Search); term != "" && len(s.search) > 0 {
		pattern := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(s.search))
		args := make([]interface{}, len(s.search))
		for i, col := range s.search {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		query = query.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}

	for key, value := range filter.Filters {
		column, ok := s.columns[key]
		if !ok {
			continue
		}
		query = whereValue(query, column, value)
	}
	return query
}

// apply adds ordering and pagination to where. A PageSize of 0 returns every row.
func (s filterSpec) apply(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = s.where(query, filter)

	sortField := ValidateSortField(filter.OrderBy, s.sortFields, s.defaultSort)
	query = query.Order(sortField + " " + ValidateSortOrder(filter.OrderDir))

	if filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// whereValue matches a single value with = and a slice with IN.
// A nil value matches NULL.
func whereValue(query *gorm.DB, column string, value interface{}) *gorm.DB {
	if value == nil {
		return query.Where(column + " IS NULL")
	}
	rv := reflect.ValueOf(value)
	if rv.Kind() == reflect.Slice {
		if rv.Len() == 0 {
			return query.Where("1 = 0")
		}
		return query.Where(column+" IN ?", value)
	}
	return query.Where(column+" = ?", value)
}
