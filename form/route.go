package form

import (
	"strings"

	"github.com/amonks/tasklist/api"
	internalstrings "github.com/amonks/tasklist/internal/strings"
)

// fieldKeywords are matched against server messages, in order, when the
// server reports no structured field errors.
var fieldKeywords = []struct {
	field    Field
	keywords []string
}{
	{FieldTitle, []string{"title", "제목"}},
	{FieldDescription, []string{"description", "설명"}},
	{FieldCategory, []string{"category", "카테고리"}},
	{FieldDueDate, []string{"due date", "duedate", "due_date", "마감일"}},
}

// RouteError maps a failed submission onto form fields. Structured field errors
// from the server win; otherwise the message is matched by keyword, falling
// back to the general slot.
func RouteError(err error) Errors {
	errs := Errors{}
	if err == nil {
		return errs
	}
	message := api.Message(err)

	if apiErr, ok := api.AsError(err); ok && len(apiErr.Fields) > 0 {
		for _, name := range apiErr.FieldNames() {
			field, ok := fieldForName(name)
			if !ok {
				field = FieldGeneral
			}
			if _, exists := errs[field]; !exists {
				errs[field] = apiErr.Fields[name]
			}
		}
		return errs
	}

	errs[fieldForMessage(message)] = message
	return errs
}

func fieldForName(name string) (Field, bool) {
	normalized := internalstrings.NormalizeKey(name)
	for _, field := range Fields() {
		if normalized == internalstrings.NormalizeKey(string(field)) {
			return field, true
		}
	}
	return "", false
}

func fieldForMessage(message string) Field {
	lowered := strings.ToLower(message)
	for _, entry := range fieldKeywords {
		for _, keyword := range entry.keywords {
			if strings.Contains(lowered, keyword) {
				return entry.field
			}
		}
	}
	return FieldGeneral
}
