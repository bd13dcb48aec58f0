package catalog

import "fmt"

// InvalidCatalogError reports a catalog that cannot be built. No partial
// catalog is ever returned alongside it.
type InvalidCatalogError struct {
	Reason string
	Err    error
}

func (e *InvalidCatalogError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid catalog: %s: %v", e.Reason, e.Err)
	}
	return "invalid catalog: " + e.Reason
}

func (e *InvalidCatalogError) Unwrap() error {
	return e.Err
}
