package permission

import "errors"

var (
	// ErrNotAuthenticated is returned when a permission check runs without
	// a verified identity in the request context.
	ErrNotAuthenticated = errors.New("permission: not authenticated")

	// ErrPermissionDenied is returned by the guard when the identity and
	// tenant are valid but the required permission is not granted. The
	// caller never learns whether the module exists or the action is
	// simply not granted.
	ErrPermissionDenied = errors.New("permission: denied")
)
