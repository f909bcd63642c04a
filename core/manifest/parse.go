package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrStructural matches every StructuralError via errors.Is.
var ErrStructural = errors.New("structurally invalid manifest")

// StructuralError reports a manifest that does not have the required shape.
// Such a manifest is routed to the failed state and never retried.
type StructuralError struct {
	// Problems lists each violation, using JSON field paths.
	Problems []string
	// Err is the underlying decode or validation error, if any.
	Err error
}

// Error implements the error interface.
func (e *StructuralError) Error() string {
	return "invalid manifest: " + strings.Join(e.Problems, "; ")
}

// Is implements errors.Is support.
func (e *StructuralError) Is(target error) bool {
	return target == ErrStructural
}

// Unwrap returns the underlying error.
func (e *StructuralError) Unwrap() error {
	return e.Err
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON names (run_id) rather than Go names (RunID).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse decodes and validates a manifest file.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, &StructuralError{
			Problems: []string{fmt.Sprintf("malformed JSON: %v", err)},
			Err:      err,
		}
	}

	if err := Validate(&m); err != nil {
		return nil, err
	}

	return &m, nil
}

// Validate checks an already decoded manifest.
func Validate(m *Manifest) error {
	if m == nil {
		return &StructuralError{Problems: []string{"manifest is nil"}}
	}

	err := validate.Struct(m)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &StructuralError{Problems: []string{err.Error()}, Err: err}
	}

	problems := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		problems = append(problems, describe(fe))
	}
	return &StructuralError{Problems: problems, Err: err}
}

// describe renders one validation failure as "campaigns[0].name is required".
func describe(fe validator.FieldError) string {
	path := fe.Namespace()
	// Drop the root type name ("Manifest.").
	if i := strings.Index(path, "."); i >= 0 {
		path = path[i+1:]
	}

	switch fe.Tag() {
	case "required":
		return path + " is required"
	default:
		return fmt.Sprintf("%s failed %q validation", path, fe.Tag())
	}
}
