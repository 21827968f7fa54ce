package todo

import (
	"errors"
	"strings"

	"github.com/amonks/tasklist/internal/validation"
)

// Field length limits, counted in characters.
const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
	MaxCategoryLength    = 50
)

var (
	// ErrTodoNotFound is returned when a todo with the given ID is not in the current page.
	ErrTodoNotFound = errors.New("todo not found")

	// ErrInvalidPriority is returned when a priority is not low, medium or high.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidFilter is returned when a filter key is unknown.
	ErrInvalidFilter = errors.New("invalid filter")

	// ErrInvalidSort is returned when a sort key is unknown.
	ErrInvalidSort = errors.New("invalid sort")

	// ErrInvalidDate is returned when a date value cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")
)

// ParsePriority parses a priority name (case-insensitive). Empty input
// yields the default medium priority.
func ParsePriority(value string) (Priority, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return PriorityMedium, nil
	}
	priority := Priority(normalized)
	if !priority.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidPriority, Priority(value), ValidPriorities())
	}
	return priority, nil
}

// ParseFilter parses a filter key. Empty input yields FilterAll.
func ParseFilter(value string) (Filter, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return FilterAll, nil
	}
	filter := Filter(normalized)
	if !filter.IsValid() {
		return "", validation.FormatInvalidValueError(ErrInvalidFilter, Filter(value), ValidFilters())
	}
	return filter, nil
}

// ParseSort parses a sort key. Sort keys are case-sensitive on the wire, so
// matching is exact after trimming, with a case-insensitive fallback.
// Empty input yields SortNewest.
func ParseSort(value string) (Sort, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return SortNewest, nil
	}
	for _, candidate := range ValidSorts() {
		if trimmed == string(candidate) || strings.EqualFold(trimmed, string(candidate)) {
			return candidate, nil
		}
	}
	return "", validation.FormatInvalidValueError(ErrInvalidSort, Sort(value), ValidSorts())
}

// Normalize fills defaults for unset query fields.
func (q ListQuery) Normalize() ListQuery {
	if !q.Filter.IsValid() {
		q.Filter = FilterAll
	}
	if !q.Sort.IsValid() {
		q.Sort = SortNewest
	}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultLimit
	}
	return q
}
