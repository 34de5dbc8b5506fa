package models

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// ExportDocument is the backup shape: every collection, no sequence table.
type ExportDocument struct {
	Baby        []Record `json:"baby"`
	Feedings    []Record `json:"feedings"`
	Diapers     []Record `json:"diapers"`
	Sleeps      []Record `json:"sleeps"`
	Growth      []Record `json:"growth"`
	Medications []Record `json:"medications"`
}

func NewExportDocument(s *Snapshot) *ExportDocument {
	get := func(c Collection) []Record {
		records := s.Collections[c]
		if records == nil {
			return []Record{}
		}
		return records
	}
	return &ExportDocument{
		Baby:        get(Baby),
		Feedings:    get(Feedings),
		Diapers:     get(Diapers),
		Sleeps:      get(Sleeps),
		Growth:      get(Growth),
		Medications: get(Medications),
	}
}

// ImportDocument holds the collections present in an import body. A
// collection that is absent or null is left out and stays untouched.
type ImportDocument struct {
	Collections map[Collection][]Record
}

func (d *ImportDocument) Has(c Collection) bool {
	_, ok := d.Collections[c]
	return ok
}

func (d *ImportDocument) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	d.Collections = make(map[Collection][]Record)
	for _, c := range Collections {
		raw, ok := doc[string(c)]
		if !ok || isNull(raw) {
			continue
		}
		var records []Record
		if err := json.Unmarshal(raw, &records); err != nil {
			return fmt.Errorf("collection %s: %w", c, err)
		}
		for i, rec := range records {
			if rec == nil {
				return fmt.Errorf("collection %s: entry %d is not an object", c, i)
			}
		}
		if records == nil {
			records = []Record{}
		}
		d.Collections[c] = records
	}
	return nil
}
