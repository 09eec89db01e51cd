package provision

import "fmt"

// ProvisioningError wraps a platform refusal to create a resource. The
// platform's own message is preserved verbatim.
type ProvisioningError struct {
	error
}

func NewProvisioningError(resourceType, name string, cause error) *ProvisioningError {
	return &ProvisioningError{fmt.Errorf("creating %s %s: %w", resourceType, name, cause)}
}

func (e *ProvisioningError) Unwrap() error {
	return e.error
}
