package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the structure of a document: a supported version, and
// an ID and kind on every node, a known status where one is given, and an
// ID on every edge. Every failure is reported, joined.
func Validate(doc Document) error {
	if doc.Version > Version {
		return fmt.Errorf("%w: %d (newest supported is %d)", ErrUnsupportedVersion, doc.Version, Version)
	}
	if doc.Version < 0 {
		return fmt.Errorf("%w: negative version %d", ErrInvalidDocument, doc.Version)
	}

	var errs []error
	for i, n := range doc.Nodes {
		if err := validate.Struct(n); err != nil {
			errs = append(errs, fmt.Errorf("%w: node %d: %s", ErrInvalidDocument, i, describe(err)))
		}
	}
	for i, e := range doc.Edges {
		if err := validate.Struct(e); err != nil {
			errs = append(errs, fmt.Errorf("%w: edge %d: %s", ErrInvalidDocument, i, describe(err)))
		}
	}
	return errors.Join(errs...)
}

func describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s %q must be one of %s", field, e.Value(), e.Param()))
		default:
			msgs = append(msgs, field+" is invalid")
		}
	}
	return strings.Join(msgs, "; ")
}
