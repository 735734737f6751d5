package snapshot

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no snapshot matches.
	ErrNotFound = errors.New("snapshot not found")
	// ErrUnchanged is returned by Capture when the document matches the
	// latest snapshot.
	ErrUnchanged = errors.New("document unchanged since latest snapshot")
)

// Repository stores snapshots. List returns newest first without document
// bodies, along with the total count.
type Repository interface {
	Create(ctx context.Context, s *Snapshot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Snapshot, error)
	Latest(ctx context.Context) (*Snapshot, error)
	List(ctx context.Context, limit, offset int) ([]*Snapshot, int, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
