package openapi

import (
	"bytes"
	"encoding/json"
)

// Changes lists the operations that differ between two documents.
type Changes struct {
	Added   []OperationRef `json:"added"`
	Removed []OperationRef `json:"removed"`
	Changed []OperationRef `json:"changed"`
}

// Empty reports whether the two documents declare the same operations.
func (c *Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares two documents operation by operation, keyed by method and
// path. An operation is changed when its JSON encoding differs.
func Diff(from, to *Document) *Changes {
	changes := &Changes{
		Added:   []OperationRef{},
		Removed: []OperationRef{},
		Changed: []OperationRef{},
	}

	before := indexOperations(from)
	after := indexOperations(to)

	to.EachOperation(func(ref OperationRef, op *Operation) {
		prev, ok := before[ref.Key()]
		if !ok {
			changes.Added = append(changes.Added, ref)
			return
		}
		if !sameOperation(prev, op) {
			changes.Changed = append(changes.Changed, ref)
		}
	})
	from.EachOperation(func(ref OperationRef, _ *Operation) {
		if _, ok := after[ref.Key()]; !ok {
			changes.Removed = append(changes.Removed, ref)
		}
	})
	return changes
}

func indexOperations(doc *Document) map[string]*Operation {
	idx := make(map[string]*Operation)
	doc.EachOperation(func(ref OperationRef, op *Operation) {
		idx[ref.Key()] = op
	})
	return idx
}

func sameOperation(a, b *Operation) bool {
	ja, errA := json.Marshal(a)
	jb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ja, jb)
}
