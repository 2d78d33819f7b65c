package sentinel

import "errors"

// Sentinel errors for storage facts. Stores return these (optionally wrapped)
// and services translate them into domain error codes:
//   - ErrNotFound: the row does not exist
//   - ErrConflict: a unique key is already taken
//   - ErrInvalidState: a referenced row is missing or the data breaks a schema rule
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)
