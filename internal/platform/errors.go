package platform

import "errors"

var (
	ErrNotFound  = errors.New("resource not found")
	ErrDuplicate = errors.New("already exists")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
