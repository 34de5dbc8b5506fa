package models

import (
	json "github.com/goccy/go-json"
)

// SequenceTable maps each collection to the next identifier to allocate.
// It is the identifier allocator of the store; callers serialize access.
type SequenceTable map[Collection]int64

// Next returns the current sequence value for the collection and advances it.
// A missing entry starts at 1.
func (s SequenceTable) Next(c Collection) int64 {
	id := s[c]
	if id < 1 {
		id = 1
	}
	s[c] = id + 1
	return id
}

// Reseed sets the sequence to one past the highest identifier in records,
// or 1 for an empty collection.
func (s SequenceTable) Reseed(c Collection, records []Record) {
	s[c] = MaxID(records) + 1
}

// Heal raises a missing or stale sequence so it is strictly greater than
// every identifier in records. It never lowers a sequence and reports
// whether the entry changed.
func (s SequenceTable) Heal(c Collection, records []Record) bool {
	floor := MaxID(records) + 1
	cur, ok := s[c]
	if ok && cur >= floor {
		return false
	}
	s[c] = floor
	return true
}

func (s SequenceTable) Clone() SequenceTable {
	out := make(SequenceTable, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// UnmarshalJSON drops entries that are not positive integers so the
// migrator can recompute them from data.
func (s *SequenceTable) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(SequenceTable, len(raw))
	for name, v := range raw {
		if n, ok := parseID(v); ok {
			out[Collection(name)] = n
		}
	}
	*s = out
	return nil
}
