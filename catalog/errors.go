package catalog

import (
	"errors"
	"fmt"
)

var (
	ErrItemIDRequired     = errors.New("catalog: item id required")
	ErrItemTypeInvalid    = errors.New("catalog: item type is invalid")
	ErrStateUnknown       = errors.New("catalog: unknown state")
	ErrActorRequired      = errors.New("catalog: actor is required")
	ErrTitleRequired      = errors.New("catalog: title is required")
	ErrSlugRequired       = errors.New("catalog: slug is required")
	ErrSlugInvalid        = errors.New("catalog: slug contains invalid characters")
	ErrSlugExists         = errors.New("catalog: slug already exists")
	ErrSchedulingDisabled = errors.New("catalog: scheduling feature disabled")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
