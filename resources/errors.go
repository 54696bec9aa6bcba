package resources

import (
	"errors"
	"fmt"
)

// ErrLayout indicates an unusable layout document.
var ErrLayout = errors.New("resources: invalid layout")

// ResourceError ties a codec failure to the resource it stopped.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

func resourceErr(name string, err error) error {
	if err == nil {
		return nil
	}
	return &ResourceError{Resource: name, Err: err}
}
