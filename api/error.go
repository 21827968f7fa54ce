package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// DefaultErrorMessage is used when a failed response carries no message.
const DefaultErrorMessage = "API request failed"

// Error is returned for non-2xx responses.
type Error struct {
	// Status is the HTTP status code.
	Status int
	// Message is the server's message, or DefaultErrorMessage.
	Message string
	// Fields maps field names to messages when the server reports them.
	Fields map[string]string
}

func (e *Error) Error() string {
	return e.Message
}

// FieldMessage returns the server message reported for field, if any.
func (e *Error) FieldMessage(field string) (string, bool) {
	if e == nil || len(e.Fields) == 0 {
		return "", false
	}
	for key, message := range e.Fields {
		if strings.EqualFold(key, field) {
			return message, true
		}
	}
	return "", false
}

// FieldNames returns the reported field names in sorted order.
func (e *Error) FieldNames() []string {
	names := make([]string, 0, len(e.Fields))
	for key := range e.Fields {
		names = append(names, key)
	}
	sort.Strings(names)
	return names
}

// AsError unwraps err to an *Error.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	if apiErr, ok := AsError(err); ok {
		return apiErr.Message
	}
	return err.Error()
}

type errorBody struct {
	Message string          `json:"message"`
	Errors  json.RawMessage `json:"errors"`
}

type fieldError struct {
	Field   string `json:"field"`
	Path    any    `json:"path"`
	Param   string `json:"param"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

// readErrorResponse builds the *Error for a failed response. A body that is
// not JSON is reported as a decode error instead.
func readErrorResponse(status int, raw []byte) error {
	apiErr := &Error{Status: status, Message: DefaultErrorMessage}

	var value json.RawMessage
	if err := json.Unmarshal(raw, &value); err != nil {
		return fmt.Errorf("decode error response (status %d): %w", status, err)
	}
	var body errorBody
	if err := json.Unmarshal(value, &body); err != nil {
		return apiErr
	}
	if message := strings.TrimSpace(body.Message); message != "" {
		apiErr.Message = message
	}
	apiErr.Fields = parseFieldErrors(body.Errors)
	return apiErr
}

func parseFieldErrors(raw json.RawMessage) map[string]string {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	fields := map[string]string{}

	var object map[string]json.RawMessage
	if err := json.Unmarshal(raw, &object); err == nil {
		for key, value := range object {
			if message := fieldMessage(value); message != "" {
				fields[key] = message
			}
		}
	}

	var list []fieldError
	if err := json.Unmarshal(raw, &list); err == nil {
		for _, entry := range list {
			name := entry.Field
			if name == "" {
				name = pathName(entry.Path)
			}
			if name == "" {
				name = entry.Param
			}
			message := entry.Message
			if message == "" {
				message = entry.Msg
			}
			if name != "" && message != "" {
				fields[name] = message
			}
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return fields
}

// fieldMessage reads a string, an object with a message, or the first
// string of an array.
func fieldMessage(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	var entry fieldError
	if err := json.Unmarshal(raw, &entry); err == nil {
		if entry.Message != "" {
			return entry.Message
		}
		return entry.Msg
	}
	var texts []string
	if err := json.Unmarshal(raw, &texts); err == nil && len(texts) > 0 {
		return texts[0]
	}
	return ""
}

func pathName(path any) string {
	switch value := path.(type) {
	case string:
		return value
	case []any:
		parts := make([]string, 0, len(value))
		for _, part := range value {
			parts = append(parts, fmt.Sprint(part))
		}
		return strings.Join(parts, ".")
	default:
		return ""
	}
}
