package validator

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// DateLayout is the only accepted wire format for calendar dates.
const DateLayout = "2006-01-02"

var phonePattern = regexp.MustCompile(`^\+?1?\d{9,15}$`)

var (
	mu      sync.RWMutex
	choices = map[string]struct{}{}
)

// Engine returns gin's validator so tags registered here apply to
// ShouldBindJSON and ShouldBindQuery.
func Engine() (*validator.Validate, error) {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil, fmt.Errorf("unexpected binding engine %T", binding.Validator.Engine())
	}
	return v, nil
}

// Setup registers JSON field naming and the built-in phone and isodate tags.
func Setup() error {
	v, err := Engine()
	if err != nil {
		return err
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}

	return v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
}

// RegisterChoices registers tag as an enumeration check over values.
func RegisterChoices(tag string, values ...string) error {
	v, err := Engine()
	if err != nil {
		return err
	}

	allowed := make(map[string]struct{}, len(values))
	for _, val := range values {
		allowed[val] = struct{}{}
	}

	mu.Lock()
	choices[tag] = struct{}{}
	mu.Unlock()

	return v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
		_, ok := allowed[fl.Field().String()]
		return ok
	})
}

// ValidateStruct runs the binding validator on obj.
func ValidateStruct(obj interface{}) error {
	return binding.Validator.ValidateStruct(obj)
}

// IsEmptyBody reports whether a bind failed only because the body was empty.
func IsEmptyBody(err error) bool {
	return stderrors.Is(err, io.EOF)
}

// Translate converts binding errors into a field -> messages map.
func Translate(err error) map[string][]string {
	fields := map[string][]string{}

	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[fe.Field()] = append(fields[fe.Field()], message(fe))
		}
		return fields
	}

	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		field := typeErr.Field
		if field == "" {
			field = "non_field_errors"
		}
		fields[field] = []string{typeMessage(typeErr.Type)}
		return fields
	}

	fields["non_field_errors"] = []string{fmt.Sprintf("Invalid data. %s", err.Error())}
	return fields
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is less than or equal to %s.", fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
		}
		return fmt.Sprintf("Ensure this value is greater than or equal to %s.", fe.Param())
	case "gt":
		return fmt.Sprintf("Ensure this value is greater than %s.", fe.Param())
	case "phone":
		return "Phone number must be entered in the format: '+999999999'. Up to 15 digits allowed."
	case "isodate":
		return "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	}

	mu.RLock()
	_, isChoice := choices[fe.Tag()]
	mu.RUnlock()
	if isChoice {
		return fmt.Sprintf("%q is not a valid choice.", fmt.Sprint(fe.Value()))
	}

	return fmt.Sprintf("Failed on the '%s' rule.", fe.Tag())
}

func typeMessage(t reflect.Type) string {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "A valid integer is required."
	case reflect.Bool:
		return "Must be a valid boolean."
	case reflect.String:
		return "Not a valid string."
	case reflect.Float32, reflect.Float64:
		return "A valid number is required."
	default:
		return "Invalid value."
	}
}
