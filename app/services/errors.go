// Package services holds the business logic between HTTP handlers and the
// data access layer.
package services

import "errors"

var (
	// ErrDuplicateUser reports a signup against an email (or derived
	// username) that already has an account.
	ErrDuplicateUser = errors.New("services: user already exists")

	// ErrInvalidCredentials reports a failed login. Callers must render it
	// identically for unknown emails and wrong passwords so the response
	// does not reveal which one occurred.
	ErrInvalidCredentials = errors.New("services: invalid credentials")

	// ErrNotFound reports an order that does not exist or is not owned by
	// the caller. The two cases are deliberately indistinguishable.
	ErrNotFound = errors.New("services: not found")
)
