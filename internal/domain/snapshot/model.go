package snapshot

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Snapshot is an immutable copy of a published OpenAPI document.
type Snapshot struct {
	ID            uuid.UUID       `json:"id"`
	Version       string          `json:"version"`
	Checksum      string          `json:"checksum"`
	EndpointCount int             `json:"endpointCount"`
	TagCount      int             `json:"tagCount"`
	Document      json.RawMessage `json:"document,omitempty"`
	Note          string          `json:"note,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// Checksum returns the hex SHA-256 of a document encoding.
func Checksum(document []byte) string {
	sum := sha256.Sum256(document)
	return hex.EncodeToString(sum[:])
}

// withoutDocument returns a copy carrying metadata only, as list views do.
func (s *Snapshot) withoutDocument() *Snapshot {
	cp := *s
	cp.Document = nil
	return &cp
}
