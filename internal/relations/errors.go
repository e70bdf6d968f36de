package relations

import "fmt"

// ConfigurationError reports a structurally invalid relationship declaration. It is
// a programming error in the declaring module and is not recoverable at runtime.
type ConfigurationError struct {
	Key    Key
	Kind   Kind
	Module string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s relationship %s declared by %q: %s", e.Kind, e.Key, e.Module, e.Reason)
}

// ApplicationError reports a relationship that could not be pushed onto the live
// entity descriptors.
type ApplicationError struct {
	Key    Key
	Kind   Kind
	Module string
	Err    error
}

func (e *ApplicationError) Error() string {
	return fmt.Sprintf("failed to apply %s relationship %s declared by %q: %v", e.Kind, e.Key, e.Module, e.Err)
}

func (e *ApplicationError) Unwrap() error {
	return e.Err
}
