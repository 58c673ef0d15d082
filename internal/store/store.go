// Package store defines lesson persistence.
package store

import (
	"context"
	"errors"

	"github.com/hyperifyio/tinyteacher/internal/lesson"
)

// ErrNotFound is returned when no lesson has the requested id.
var ErrNotFound = errors.New("lesson not found")

// Store persists lessons. List returns the newest lesson first.
type Store interface {
	Add(ctx context.Context, l lesson.Lesson) error
	List(ctx context.Context) ([]lesson.Lesson, error)
	Get(ctx context.Context, id string) (lesson.Lesson, error)
	Update(ctx context.Context, l lesson.Lesson) error
	Delete(ctx context.Context, id string) error
	Close() error
}
