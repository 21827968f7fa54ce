package form

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	internalstrings "github.com/amonks/tasklist/internal/strings"
	"github.com/amonks/tasklist/todo"
	"github.com/go-playground/validator/v10"
)

type nowKey struct{}

// rules mirrors Values with validation tags. Lengths are counted in runes.
type rules struct {
	Title       string `field:"title" validate:"notblank,max=100"`
	Description string `field:"description" validate:"max=500"`
	Priority    string `field:"priority" validate:"oneof=low medium high"`
	Category    string `field:"category" validate:"max=50"`
	DueDate     string `field:"dueDate" validate:"omitempty,dateinput,aftertoday"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(sf reflect.StructField) string {
		return sf.Tag.Get("field")
	})
	mustRegister(v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return !internalstrings.IsBlank(fl.Field().String())
	}))
	mustRegister(v.RegisterValidation("dateinput", func(fl validator.FieldLevel) bool {
		_, err := todo.ParseDateInput(fl.Field().String(), time.Local)
		return err == nil
	}))
	mustRegister(v.RegisterValidationCtx("aftertoday", func(ctx context.Context, fl validator.FieldLevel) bool {
		now, ok := ctx.Value(nowKey{}).(time.Time)
		if !ok {
			now = time.Now()
		}
		due, err := todo.ParseDateInput(fl.Field().String(), now.Location())
		if err != nil {
			return false
		}
		return todo.IsAfterToday(due, now)
	}))
	return v
}

func mustRegister(err error) {
	if err != nil {
		panic(err)
	}
}

func validateValues(values Values, now time.Time) Errors {
	errs := Errors{}
	ctx := context.WithValue(context.Background(), nowKey{}, now)
	err := validate.StructCtx(ctx, rules{
		Title:       values.Title,
		Description: values.Description,
		Priority:    string(values.Priority),
		Category:    values.Category,
		DueDate:     strings.TrimSpace(values.DueDate),
	})
	if err == nil {
		return errs
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		errs[FieldGeneral] = err.Error()
		return errs
	}
	for _, fe := range fieldErrs {
		field := Field(fe.Field())
		if _, exists := errs[field]; exists {
			continue
		}
		errs[field] = messageFor(field, fe.Tag(), fe.Param())
	}
	return errs
}

func messageFor(field Field, tag, param string) string {
	switch field {
	case FieldTitle:
		if tag == "notblank" {
			return "Title is required"
		}
		return fmt.Sprintf("Title must be %s characters or fewer", param)
	case FieldDescription:
		return fmt.Sprintf("Description must be %s characters or fewer", param)
	case FieldCategory:
		return fmt.Sprintf("Category must be %s characters or fewer", param)
	case FieldPriority:
		return "Priority must be low, medium, or high"
	case FieldDueDate:
		if tag == "dateinput" {
			return "Due date must be a valid date (YYYY-MM-DD)"
		}
		return "Due date must be after today"
	default:
		return "Invalid value"
	}
}
