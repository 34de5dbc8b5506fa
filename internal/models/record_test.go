package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, s string) Record {
	t.Helper()
	var rec Record
	require.NoError(t, json.Unmarshal([]byte(s), &rec))
	return rec
}

func TestRecord_ID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID int64
		wantOK bool
	}{
		{"integer", `{"id": 7}`, 7, true},
		{"integral float", `{"id": 50.0}`, 50, true},
		{"exponent", `{"id": 5e1}`, 50, true},
		{"missing", `{"notes": "x"}`, 0, false},
		{"string", `{"id": "7"}`, 0, false},
		{"fraction", `{"id": 1.5}`, 0, false},
		{"zero", `{"id": 0}`, 0, false},
		{"negative", `{"id": -3}`, 0, false},
		{"null", `{"id": null}`, 0, false},
		{"largest int64", `{"id": 9223372036854775807}`, 9223372036854775807, true},
		{"just past int64", `{"id": 9223372036854775808}`, 0, false},
		{"huge exponent", `{"id": 1e19}`, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := mustRecord(t, tt.input).ID()
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestRecord_WithIDDoesNotMutate(t *testing.T) {
	rec := mustRecord(t, `{"method": "breast"}`)
	withID := rec.WithID(3)

	id, ok := withID.ID()
	require.True(t, ok)
	assert.Equal(t, int64(3), id)
	_, has := rec[IDField]
	assert.False(t, has)
}

func TestRecord_MergeKeepsUntouchedFieldsAndID(t *testing.T) {
	orig := mustRecord(t, `{"id": 4, "method": "formula", "amountMl": 90, "notes": "  spaced  "}`)
	patch := mustRecord(t, `{"id": 99, "amountMl": 120}`)

	merged := orig.Merge(patch)

	assert.Equal(t, json.RawMessage(`4`), merged[IDField])
	assert.Equal(t, json.RawMessage(`120`), merged["amountMl"])
	assert.Equal(t, orig["method"], merged["method"])
	assert.Equal(t, orig["notes"], merged["notes"])
	assert.Equal(t, json.RawMessage(`90`), orig["amountMl"])
}

func TestRecord_GetSetString(t *testing.T) {
	rec := mustRecord(t, `{"type": "poop", "n": 1}`)
	v, ok := rec.GetString("type")
	require.True(t, ok)
	assert.Equal(t, "poop", v)

	_, ok = rec.GetString("n")
	assert.False(t, ok)

	rec.SetString("type", "dirty")
	assert.Equal(t, json.RawMessage(`"dirty"`), rec["type"])
}

func TestOpaqueRecord(t *testing.T) {
	rec := OpaqueRecord(json.RawMessage(`"loose note"`))

	_, hasID := rec.ID()
	assert.False(t, hasID)
	_, isString := rec.GetString("type")
	assert.False(t, isString)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Equal(t, `"loose note"`, string(data))

	_, ok := mustRecord(t, `{"id": 1}`).Opaque()
	assert.False(t, ok)
}

func TestMaxIDAndIndexOf(t *testing.T) {
	records := []Record{
		mustRecord(t, `{"id": 2}`),
		mustRecord(t, `{"id": "junk"}`),
		mustRecord(t, `{"id": 9}`),
		mustRecord(t, `{}`),
	}
	assert.Equal(t, int64(9), MaxID(records))
	assert.Equal(t, int64(0), MaxID(nil))
	assert.Equal(t, 2, IndexOf(records, 9))
	assert.Equal(t, -1, IndexOf(records, 5))
}

func TestParseCollection(t *testing.T) {
	for _, c := range Collections {
		got, ok := ParseCollection(string(c))
		assert.True(t, ok)
		assert.Equal(t, c, got)
	}
	_, ok := ParseCollection("export")
	assert.False(t, ok)
	assert.Len(t, Collections, 6)
}
