package persistence

import (
	"fmt"
	"strings"

	"github.com/fieldworks/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// applyFilter applies search, field filters, ordering and pagination to a query.
// searchColumns are matched with ILIKE against the filter's Search term.
func applyFilter(query *gorm.DB, filter shared.Filter, sortFields map[string]bool, searchColumns ...string) *gorm.DB {
	query = applyFilterWithoutPagination(query, filter, sortFields, searchColumns...)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 100 {
		filter.PageSize = 100
	}
	offset := (filter.Page - 1) * filter.PageSize
	return query.Offset(offset).Limit(filter.PageSize)
}

// applyFilterWithoutPagination applies search, field filters and ordering only.
// Used by count queries which must see the same predicate as the list query.
func applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter, sortFields map[string]bool, searchColumns ...string) *gorm.DB {
	if filter.Search != "" && len(searchColumns) > 0 {
		pattern := "%" + filter.Search + "%"
		clauses := make([]string, 0, len(searchColumns))
		args := make([]interface{}, 0, len(searchColumns))
		for _, col := range searchColumns {
			clauses = append(clauses, col+" ILIKE ?")
			args = append(args, pattern)
		}
		query = query.Where(strings.Join(clauses, " OR "), args...)
	}

	for key, value := range filter.Filters {
		if value == nil || !filterableColumn(key, sortFields) {
			continue
		}
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	orderBy := ValidateSortField(filter.OrderBy, sortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))
}

// filterableColumn reports whether a filter key may appear in a WHERE clause.
// Filter keys originate in handler code, not raw client input, but only
// whitelisted columns are ever interpolated.
func filterableColumn(key string, sortFields map[string]bool) bool {
	if sortFields[key] {
		return true
	}
	switch key {
	case "customer_id", "job_id", "staff_id", "user_id", "kind", "plan":
		return true
	}
	return false
}
