package index

// componentNotFoundError indicates a queried component is absent from the index.
type componentNotFoundError struct{ name string }

func (e componentNotFoundError) Error() string { return "component not found: " + e.name }

// ErrComponentNotFound constructs a componentNotFoundError.
func ErrComponentNotFound(name string) error { return componentNotFoundError{name: name} }

// IsComponentNotFound reports whether err indicates a missing component name.
func IsComponentNotFound(err error) bool {
	_, ok := err.(componentNotFoundError)
	return ok
}
