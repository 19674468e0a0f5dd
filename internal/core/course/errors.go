package course

import "errors"

var (
	ErrInvalidID           = errors.New("course: invalid id")
	ErrInvalidTitle        = errors.New("course: invalid title")
	ErrCourseNotFound      = errors.New("course: not found")
	ErrCourseAlreadyExists = errors.New("course: already exists")
)
