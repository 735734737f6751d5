package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carebridge/apidocs/internal/platform/openapi"
)

// Observer is notified of capture outcomes. telemetry.Provider implements it.
type Observer interface {
	SnapshotCaptured(unchanged bool)
}

type Service struct {
	repo     Repository
	observer Observer
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// WithObserver sets the capture observer and returns s.
func (s *Service) WithObserver(o Observer) *Service {
	s.observer = o
	return s
}

// Capture stores doc as a new snapshot. When its checksum equals the latest
// snapshot's, nothing is stored and the latest snapshot is returned together
// with ErrUnchanged.
func (s *Service) Capture(ctx context.Context, doc *openapi.Document, note string) (*Snapshot, error) {
	if doc == nil {
		return nil, errors.New("document is required")
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	checksum := Checksum(data)

	latest, err := s.repo.Latest(ctx)
	switch {
	case err == nil && latest.Checksum == checksum:
		s.observe(true)
		return latest.withoutDocument(), ErrUnchanged
	case err != nil && !errors.Is(err, ErrNotFound):
		return nil, fmt.Errorf("load latest snapshot: %w", err)
	}

	snap := &Snapshot{
		Version:       doc.Info.Version,
		Checksum:      checksum,
		EndpointCount: doc.OperationCount(),
		TagCount:      len(doc.Tags),
		Document:      data,
		Note:          strings.TrimSpace(note),
	}
	if err := s.repo.Create(ctx, snap); err != nil {
		return nil, fmt.Errorf("store snapshot: %w", err)
	}
	s.observe(false)
	return snap, nil
}

func (s *Service) observe(unchanged bool) {
	if s.observer != nil {
		s.observer.SnapshotCaptured(unchanged)
	}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Latest(ctx context.Context) (*Snapshot, error) {
	return s.repo.Latest(ctx)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Snapshot, int, error) {
	return s.repo.List(ctx, limit, offset)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// Document decodes the stored document of a snapshot.
func (s *Service) Document(ctx context.Context, id uuid.UUID) (*openapi.Document, error) {
	snap, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return decode(snap)
}

// Compare diffs the snapshot with id against current.
func (s *Service) Compare(ctx context.Context, id uuid.UUID, current *openapi.Document) (*openapi.Changes, error) {
	old, err := s.Document(ctx, id)
	if err != nil {
		return nil, err
	}
	return openapi.Diff(old, current), nil
}

// CompareSnapshots diffs two stored snapshots.
func (s *Service) CompareSnapshots(ctx context.Context, from, to uuid.UUID) (*openapi.Changes, error) {
	before, err := s.Document(ctx, from)
	if err != nil {
		return nil, err
	}
	after, err := s.Document(ctx, to)
	if err != nil {
		return nil, err
	}
	return openapi.Diff(before, after), nil
}

func decode(snap *Snapshot) (*openapi.Document, error) {
	var doc openapi.Document
	if err := json.Unmarshal(snap.Document, &doc); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", snap.ID, err)
	}
	return &doc, nil
}
