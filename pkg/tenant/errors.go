package tenant

import "errors"

var (
	// ErrTenantNotSpecified is returned when a request requires a tenant
	// identifier and neither the header nor the token claim carries one.
	ErrTenantNotSpecified = errors.New("tenant: identifier not specified")

	// ErrTenantNotFound is returned when the identifier matches no active
	// directory record. Inactive tenants are reported identically to
	// unknown ones.
	ErrTenantNotFound = errors.New("tenant: not found")

	// ErrContextNotInitialized is returned when the tenant handle is read
	// before the resolver middleware has bound one. This is an ordering bug
	// in the pipeline, not a runtime condition.
	ErrContextNotInitialized = errors.New("tenant: context not initialized")

	// ErrHandleAlreadyBound is returned on a second Bind within the same
	// request scope.
	ErrHandleAlreadyBound = errors.New("tenant: handle already bound")

	// ErrHandleConstruction is returned when the directory record is valid
	// but a handle to the tenant store could not be opened.
	ErrHandleConstruction = errors.New("tenant: failed to open tenant handle")
)
