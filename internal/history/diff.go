package history

import (
	"context"
	"slices"
	"sort"
)

// ChangeType names how a muxer differs between two runs.
type ChangeType string

const (
	ChangeAdded        ChangeType = "added"
	ChangeRemoved      ChangeType = "removed"
	ChangeReclassified ChangeType = "reclassified"
	ChangeExtensions   ChangeType = "extensions"
)

// Change is one muxer-level difference between two runs. Kind and extension
// fields are empty on the side where the muxer is absent.
type Change struct {
	Muxer          string     `json:"muxer"`
	Type           ChangeType `json:"type"`
	FromKind       string     `json:"from_kind,omitempty"`
	ToKind         string     `json:"to_kind,omitempty"`
	FromExtensions []string   `json:"from_extensions,omitempty"`
	ToExtensions   []string   `json:"to_extensions,omitempty"`
}

// Diff compares the entries of two runs. Changes are ordered by muxer name.
// A reclassified muxer is reported once even if its extensions changed too.
func (s *Store) Diff(ctx context.Context, fromRunID, toRunID string) ([]Change, error) {
	from, err := s.Entries(ctx, fromRunID)
	if err != nil {
		return nil, err
	}
	to, err := s.Entries(ctx, toRunID)
	if err != nil {
		return nil, err
	}
	return DiffEntries(from, to), nil
}

// DiffEntries compares two entry sets without touching the database.
func DiffEntries(from, to []Entry) []Change {
	before := indexEntries(from)
	after := indexEntries(to)

	var changes []Change
	for name, old := range before {
		cur, ok := after[name]
		switch {
		case !ok:
			changes = append(changes, Change{
				Muxer:          name,
				Type:           ChangeRemoved,
				FromKind:       old.Kind.String(),
				FromExtensions: old.Extensions,
			})
		case old.Kind != cur.Kind:
			changes = append(changes, change(ChangeReclassified, old, cur))
		case !slices.Equal(old.Extensions, cur.Extensions):
			changes = append(changes, change(ChangeExtensions, old, cur))
		}
	}
	for name, cur := range after {
		if _, ok := before[name]; ok {
			continue
		}
		changes = append(changes, Change{
			Muxer:        name,
			Type:         ChangeAdded,
			ToKind:       cur.Kind.String(),
			ToExtensions: cur.Extensions,
		})
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Muxer < changes[j].Muxer })
	return changes
}

func change(kind ChangeType, old, cur Entry) Change {
	return Change{
		Muxer:          old.Muxer,
		Type:           kind,
		FromKind:       old.Kind.String(),
		ToKind:         cur.Kind.String(),
		FromExtensions: old.Extensions,
		ToExtensions:   cur.Extensions,
	}
}

func indexEntries(entries []Entry) map[string]Entry {
	out := make(map[string]Entry, len(entries))
	for _, e := range entries {
		out[e.Muxer] = e
	}
	return out
}
