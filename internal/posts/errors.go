package posts

import (
	"errors"
	"fmt"
)

var (
	ErrTitleRequired = errors.New("posts: title is required")
	ErrBodyRequired  = errors.New("posts: body is required")
	ErrSlugRequired  = errors.New("posts: slug is required")
	ErrSlugInvalid   = errors.New("posts: slug contains invalid characters")
	ErrSlugExists    = errors.New("posts: slug already exists")
	ErrIDRequired    = errors.New("posts: post id required")
	ErrDateInvalid   = errors.New("posts: publish date is invalid")
)

// NotFoundError reports a missing post lookup.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e == nil {
		return "posts: not found"
	}
	return fmt.Sprintf("posts: %s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}
