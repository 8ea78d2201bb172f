package userrepo

import "errors"

var (
	ErrNotFound      = errors.New("user not found")
	ErrAlreadyExists = errors.New("user already exists")

	ErrEmailExists    error = duplicateError{field: "email"}
	ErrUsernameExists error = duplicateError{field: "username"}
)

// duplicateError names the unique column that was violated and matches
// ErrAlreadyExists.
type duplicateError struct {
	field string
}

func (e duplicateError) Error() string {
	return e.field + " already taken"
}

func (e duplicateError) Is(target error) bool {
	return target == ErrAlreadyExists //nolint:errorlint
}

type ListUsersRequest struct {
	Search string
	Offset int
	Limit  int
}
