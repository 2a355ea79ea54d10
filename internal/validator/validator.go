package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kkanellis/cloudlab-nfs-client/internal/models"
)

var ErrValidation = errors.New("validation failed")

// ParameterError is a validation failure keyed to the offending parameters.
type ParameterError struct {
	Message string
	Fields  []string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("%s: %s", strings.Join(e.Fields, ", "), e.Message)
}

func (e *ParameterError) Unwrap() error {
	return ErrValidation
}

func NewParameterError(message string, fields ...string) *ParameterError {
	return &ParameterError{
		Message: message,
		Fields:  fields,
	}
}

// Reporter collects parameter errors until Verify is called.
type Reporter struct {
	errs []error
}

func (r *Reporter) Report(err *ParameterError) {
	r.errs = append(r.errs, err)
}

func (r *Reporter) Verify() error {
	return errors.Join(r.errs...)
}

func Validate(params models.Parameters) error {
	reporter := &Reporter{}

	if params.PhysType != "" {
		tokens := strings.Split(params.PhysType, ",")
		if len(tokens) != 1 {
			reporter.Report(NewParameterError("Only a single type is allowed", "phystype"))
		}
	}

	if err := reporter.Verify(); err != nil {
		return fmt.Errorf("failed to verify parameters: %w", err)
	}

	return nil
}
