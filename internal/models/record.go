package models

import (
	"bytes"
	"math"
	"strconv"

	json "github.com/goccy/go-json"
)

const IDField = "id"

// opaqueKey holds a stored array entry that is not a JSON object. It is not
// valid UTF-8, so no decoded object carries it.
const opaqueKey = "\xff"

// Record is one stored entry. Values stay raw JSON so fields the server does
// not know about round-trip untouched, byte for byte.
type Record map[string]json.RawMessage

// OpaqueRecord wraps a stored entry that is not an object. It has no
// identifier, so lookups skip it, and it marshals back to raw unchanged.
func OpaqueRecord(raw json.RawMessage) Record {
	return Record{opaqueKey: raw}
}

// Opaque returns the raw entry wrapped by OpaqueRecord.
func (r Record) Opaque() (json.RawMessage, bool) {
	if len(r) != 1 {
		return nil, false
	}
	raw, ok := r[opaqueKey]
	return raw, ok
}

func (r Record) MarshalJSON() ([]byte, error) {
	if raw, ok := r.Opaque(); ok {
		return raw, nil
	}
	return json.Marshal(map[string]json.RawMessage(r))
}

// ID returns the record identifier. Missing, non-integral, or non-positive
// identifiers report false.
func (r Record) ID() (int64, bool) {
	raw, ok := r[IDField]
	if !ok {
		return 0, false
	}
	return parseID(raw)
}

func parseID(raw json.RawMessage) (int64, bool) {
	s := string(bytes.TrimSpace(raw))
	if id, err := strconv.ParseInt(s, 10, 64); err == nil {
		if id <= 0 {
			return 0, false
		}
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || f <= 0 || f >= math.MaxInt64 {
		return 0, false
	}
	return int64(f), true
}

func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// WithID returns a copy of the record carrying the given identifier.
func (r Record) WithID(id int64) Record {
	out := r.Clone()
	out[IDField] = json.RawMessage(strconv.FormatInt(id, 10))
	return out
}

// Merge returns a copy of r with every field of patch laid over it. The
// identifier of r is never replaced.
func (r Record) Merge(patch Record) Record {
	out := r.Clone()
	for k, v := range patch {
		if k == IDField {
			continue
		}
		out[k] = v
	}
	return out
}

// GetString decodes a string field. Absent or non-string values report false.
func (r Record) GetString(field string) (string, bool) {
	raw, ok := r[field]
	if !ok {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func (r Record) SetString(field, value string) {
	b, _ := json.Marshal(value)
	r[field] = b
}

// MaxID returns the highest valid identifier among records, 0 when none.
func MaxID(records []Record) int64 {
	var maxID int64
	for _, rec := range records {
		if id, ok := rec.ID(); ok && id > maxID {
			maxID = id
		}
	}
	return maxID
}

// IndexOf returns the position of the record with the given identifier, or -1.
func IndexOf(records []Record, id int64) int {
	for i, rec := range records {
		if rid, ok := rec.ID(); ok && rid == id {
			return i
		}
	}
	return -1
}
