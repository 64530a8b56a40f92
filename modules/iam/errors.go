package iam

import "errors"

var (
	ErrUserNotFound       = errors.New("iam: user not found")
	ErrRoleNotFound       = errors.New("iam: role not found")
	ErrEmailTaken         = errors.New("iam: email already registered")
	ErrInvalidCredentials = errors.New("iam: invalid credentials")
	ErrUserInactive       = errors.New("iam: user is inactive")
)
