package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator"
)

// ErrValidation is returned when data fails the entry form rules
// (missing name, unparseable date, unknown category).
var ErrValidation = errors.New("validation error")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = validate.RegisterValidation("calendardate", func(fl validator.FieldLevel) bool {
			return IsCalendarDate(fl.Field().String())
		})
	})
	return validate
}

// Validate checks v (a RelationshipData, CalendarEvent, Trip or AppData) against its rules.
// The returned error wraps ErrValidation and names every failing field.
func Validate(v interface{}) error {
	return describe(validatorInstance().Struct(v))
}

// ValidateImported checks an envelope read from a backup. Backups from older versions may
// carry empty names, event titles or trip destinations, so only the fields the app
// computes with are checked: ids, dates and categories.
func ValidateImported(data *AppData) error {
	except := []string{"Relationship.MyName", "Relationship.PartnerName"}
	for i := range data.Events {
		except = append(except, fmt.Sprintf("Events[%d].Title", i))
	}
	for i := range data.Trips {
		except = append(except, fmt.Sprintf("Trips[%d].Destination", i))
	}
	return describe(validatorInstance().StructExcept(data, except...))
}

// describe converts a validator error into an ErrValidation listing every failing field.
func describe(err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describeFieldError(fe))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(problems, "; "))
}

func describeFieldError(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "calendardate":
		return fmt.Sprintf("%s is not a valid date: %q", field, fe.Value())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
