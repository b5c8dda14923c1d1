package patient

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"patient-registry/internal/domain"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report violations under the json field names clients actually sent.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct runs validator tags over in and records every violation on ve.
func checkStruct(in interface{}, ve *domain.ValidationError) {
	err := validate.Struct(in)
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		ve.Add("", err.Error())
		return
	}
	for _, fe := range verrs {
		ve.Add(fieldPath(fe), fieldMessage(fe))
	}
}

// fieldPath strips the root struct name from the namespace, leaving
// e.g. "address.city" or "firstName".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

var dateLayouts = []string{"2006-01-02", time.RFC3339}

// parseDate accepts a date-only or an RFC 3339 string and normalizes the
// result to UTC.
func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}
