package models

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
)

const seqField = "seq"

// Snapshot is the whole store: every collection plus the sequence table.
// On disk it is one JSON object with a "seq" map and one array per collection.
type Snapshot struct {
	Seq         SequenceTable
	Collections map[Collection][]Record
}

// NewSnapshot returns an empty snapshot seeded with sequence 1 everywhere.
func NewSnapshot() *Snapshot {
	s := &Snapshot{
		Seq:         make(SequenceTable, len(Collections)),
		Collections: make(map[Collection][]Record, len(Collections)),
	}
	for _, c := range Collections {
		s.Seq[c] = 1
		s.Collections[c] = []Record{}
	}
	return s
}

// Clone copies the sequence table and the collection slices. Records are
// shared: the store replaces records instead of mutating them.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Seq:         s.Seq.Clone(),
		Collections: make(map[Collection][]Record, len(s.Collections)),
	}
	for c, records := range s.Collections {
		cp := make([]Record, len(records))
		copy(cp, records)
		out.Collections[c] = cp
	}
	return out
}

func (s *Snapshot) MarshalJSON() ([]byte, error) {
	doc := make(map[string]any, len(s.Collections)+1)
	doc[seqField] = s.Seq
	for c, records := range s.Collections {
		if records == nil {
			records = []Record{}
		}
		doc[string(c)] = records
	}
	return json.Marshal(doc)
}

// UnmarshalJSON is lenient about vintage: unknown keys are ignored, a
// malformed sequence table and null collections read as absent, and array
// entries that are not objects are kept as opaque records. A collection that
// is present but not an array is an error, so the file is never rewritten
// without it.
func (s *Snapshot) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	s.Seq = SequenceTable{}
	s.Collections = make(map[Collection][]Record, len(Collections))

	if raw, ok := doc[seqField]; ok {
		var seq SequenceTable
		if err := json.Unmarshal(raw, &seq); err == nil {
			s.Seq = seq
		}
	}
	for _, c := range Collections {
		raw, ok := doc[string(c)]
		if !ok || isNull(raw) {
			continue
		}
		records, err := decodeRecords(raw)
		if err != nil {
			return fmt.Errorf("collection %s: %w", c, err)
		}
		s.Collections[c] = records
	}
	return nil
}

func decodeRecords(raw json.RawMessage) ([]Record, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("not an array: %w", err)
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil || rec == nil {
			rec = OpaqueRecord(item)
		}
		records = append(records, rec)
	}
	return records, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
