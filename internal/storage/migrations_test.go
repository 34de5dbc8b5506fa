package storage

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"babylog/internal/models"
)

func decodeSnapshot(t *testing.T, doc string) *models.Snapshot {
	t.Helper()
	s := &models.Snapshot{}
	require.NoError(t, json.Unmarshal([]byte(doc), s))
	return s
}

func encode(t *testing.T, s *models.Snapshot) string {
	t.Helper()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return string(data)
}

func TestMigrate_EmptyDocument(t *testing.T) {
	s := decodeSnapshot(t, `{}`)

	applied := Migrate(s)
	assert.Equal(t, []string{"ensure-sequences", "ensure-collections"}, applied)
	for _, c := range models.Collections {
		assert.Equal(t, int64(1), s.Seq[c])
		assert.NotNil(t, s.Collections[c])
		assert.Empty(t, s.Collections[c])
	}
}

func TestMigrate_FreshSnapshotIsConverged(t *testing.T) {
	assert.Empty(t, Migrate(models.NewSnapshot()))
}

func TestMigrate_Idempotent(t *testing.T) {
	docs := map[string]string{
		"legacy diapers": `{"diapers":[{"id":2,"type":"poop"},{"id":5,"type":"stool"},{"id":7,"type":"wet"}]}`,
		"stale seq":      `{"seq":{"feedings":1},"feedings":[{"id":9}]}`,
		"bad ids":        `{"growth":[{"id":"x"},{"notes":"no id"},{"id":4}]}`,
		"broken seq":     `{"seq":"nope","sleeps":[{"id":2}]}`,
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			once := decodeSnapshot(t, doc)
			Migrate(once)
			first := encode(t, once)

			assert.Empty(t, Migrate(once))
			assert.JSONEq(t, first, encode(t, once))

			twice := decodeSnapshot(t, first)
			assert.Empty(t, Migrate(twice))
			assert.JSONEq(t, first, encode(t, twice))
		})
	}
}

func TestEnsureSequences_HealsWithoutLowering(t *testing.T) {
	s := decodeSnapshot(t, `{"seq":{"feedings":1,"sleeps":10},"feedings":[{"id":9}],"sleeps":[{"id":2}]}`)

	assert.True(t, EnsureSequences(s))
	assert.Equal(t, int64(10), s.Seq[models.Feedings])
	assert.Equal(t, int64(10), s.Seq[models.Sleeps])
	assert.Equal(t, int64(1), s.Seq[models.Baby])
}

func TestEnsureSequences_IgnoresMalformedIDs(t *testing.T) {
	s := decodeSnapshot(t, `{"growth":[{"id":"x"},{"notes":"no id"},{"id":4}]}`)

	EnsureSequences(s)
	assert.Equal(t, int64(5), s.Seq[models.Growth])
	assert.Len(t, s.Collections[models.Growth], 3)
}

func TestEnsureCollections_KeepsExisting(t *testing.T) {
	s := decodeSnapshot(t, `{"feedings":[{"id":1}]}`)

	assert.True(t, EnsureCollections(s))
	assert.Len(t, s.Collections[models.Feedings], 1)
	assert.NotNil(t, s.Collections[models.Medications])
	assert.False(t, EnsureCollections(s))
}

func TestNormalizeDiaperTypes(t *testing.T) {
	s := decodeSnapshot(t, `{"diapers":[{"id":1,"type":"poop"},{"id":2,"type":"stool","color":"green"},{"id":3,"type":"wet"},{"id":4}]}`)
	original := s.Collections[models.Diapers][0]

	assert.True(t, NormalizeDiaperTypes(s))

	want := []string{"dirty", "dirty", "wet"}
	for i, w := range want {
		typ, _ := s.Collections[models.Diapers][i].GetString("type")
		assert.Equal(t, w, typ)
	}
	_, ok := s.Collections[models.Diapers][3].GetString("type")
	assert.False(t, ok)
	assert.Equal(t, json.RawMessage(`"green"`), s.Collections[models.Diapers][1]["color"])

	typ, _ := original.GetString("type")
	assert.Equal(t, "poop", typ)

	assert.False(t, NormalizeDiaperTypes(s))
}
