package supply

// accountNotFoundError signals an unknown account name for 404 mapping.
type accountNotFoundError struct{ name string }

func (e accountNotFoundError) Error() string { return "account not found: " + e.name }

// NewAccountNotFound builds the error returned for an unknown account name.
func NewAccountNotFound(name string) error { return accountNotFoundError{name: name} }

// IsAccountNotFound reports whether err indicates an unknown account name.
func IsAccountNotFound(err error) bool {
	_, ok := err.(accountNotFoundError)
	return ok
}
