package similarity

import "fmt"

// InvalidInputError reports a dependency name that cannot be evaluated.
// It affects a single input; batch callers record it and move on.
type InvalidInputError struct {
	Input string
	Err   error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid dependency name %q: %v", e.Input, e.Err)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// InvalidConfigError reports a configuration value outside its valid range.
type InvalidConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}
