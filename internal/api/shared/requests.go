package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// ErrUnsupportedBody is returned for bodies that are neither form-encoded
// nor a flat JSON object.
var ErrUnsupportedBody = errors.New("unsupported request body")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their form name rather than the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// ReadValues returns the submitted fields of r. Anything that is not JSON is
// parsed as a URL-encoded form; a JSON object is flattened so that
// strings, numbers and booleans become their text form and null becomes
// the empty string. Keys absent from the body are absent from the result.
func ReadValues(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	if r.Body != nil {
		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "application/json" {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return r.PostForm, nil
	}

	var raw map[string]any
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedBody, err)
	}

	values := url.Values{}
	for key, v := range raw {
		switch v := v.(type) {
		case nil:
			values.Set(key, "")
		case string:
			values.Set(key, v)
		case json.Number:
			values.Set(key, v.String())
		case bool:
			values.Set(key, strconv.FormatBool(v))
		default:
			return nil, fmt.Errorf("%w: field %q is not a scalar", ErrUnsupportedBody, key)
		}
	}
	return values, nil
}

// ValidateRequest runs struct validation on v and returns the failures as a
// field -> message map, or nil when v is valid.
func ValidateRequest(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"__all__": "invalid request"}
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		if _, seen := fields[fe.Field()]; !seen {
			fields[fe.Field()] = tagMessage(fe)
		}
	}
	return fields
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "max":
		return fmt.Sprintf("ensure this value has at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("ensure this value has at least %s characters", fe.Param())
	case "oneof":
		return "select a valid choice"
	case "eqfield":
		return "the two password fields didn't match"
	case "number", "uuid":
		return "select a valid choice"
	default:
		return "is invalid"
	}
}
