package models

import (
	"time"

	json "github.com/goccy/go-json"
	"github.com/gookit/validate"

	apperrors "babylog/internal/errors"
)

const (
	DiaperTypeField = "type"
	DiaperDirty     = "dirty"
)

// legacyDiaperTypes were written by older clients for dirty diapers.
var legacyDiaperTypes = map[string]struct{}{
	"poop":  {},
	"stool": {},
}

func IsLegacyDiaperType(v string) bool {
	_, ok := legacyDiaperTypes[v]
	return ok
}

// NormalizeDiaper rewrites a legacy diaper type to "dirty" in place and
// reports whether it changed the record.
func NormalizeDiaper(rec Record) bool {
	t, ok := rec.GetString(DiaperTypeField)
	if !ok || !IsLegacyDiaperType(t) {
		return false
	}
	rec.SetString(DiaperTypeField, DiaperDirty)
	return true
}

type FeedingEntry struct {
	Datetime    string  `json:"datetime" validate:"required|isoTime"`
	Method      string  `json:"method" validate:"required|in:breast,bottle-breastmilk,formula"`
	Side        string  `json:"side" validate:"in:left,right,both,na"`
	DurationMin float64 `json:"durationMin" validate:"nonNegative"`
	AmountMl    float64 `json:"amountMl" validate:"nonNegative"`
	Notes       string  `json:"notes"`
}

type DiaperEntry struct {
	Datetime string `json:"datetime" validate:"required|isoTime"`
	Type     string `json:"type" validate:"required|in:wet,dirty,mixed"`
	Color    string `json:"color"`
	Notes    string `json:"notes"`
}

type SleepEntry struct {
	Start string `json:"start" validate:"required|isoTime"`
	End   string `json:"end" validate:"isoTime"`
	Notes string `json:"notes"`
}

type GrowthEntry struct {
	Datetime    string  `json:"datetime" validate:"required|isoTime"`
	WeightGrams float64 `json:"weightGrams" validate:"nonNegative"`
	LengthCm    float64 `json:"lengthCm" validate:"nonNegative"`
	HeadCm      float64 `json:"headCm" validate:"nonNegative"`
	Notes       string  `json:"notes"`
}

type MedicationEntry struct {
	Datetime string  `json:"datetime" validate:"required|isoTime"`
	Name     string  `json:"name" validate:"required|in:ibuprofen,acetaminophen"`
	DoseMg   float64 `json:"doseMg" validate:"nonNegative"`
	Notes    string  `json:"notes"`
}

type BabyProfile struct {
	Name     string `json:"name" validate:"required"`
	BirthIso string `json:"birthIso" validate:"required|isoTime"`
	Timezone string `json:"timezone"`
}

func init() {
	validate.AddValidator("isoTime", func(val any) bool {
		s, ok := val.(string)
		if !ok {
			return false
		}
		_, err := time.Parse(time.RFC3339Nano, s)
		return err == nil
	})
	validate.AddValidator("nonNegative", func(val any) bool {
		switch v := val.(type) {
		case float64:
			return v >= 0
		case int:
			return v >= 0
		case int64:
			return v >= 0
		}
		return false
	})
}

func entryFor(c Collection) any {
	switch c {
	case Feedings:
		return &FeedingEntry{}
	case Diapers:
		return &DiaperEntry{}
	case Sleeps:
		return &SleepEntry{}
	case Growth:
		return &GrowthEntry{}
	case Medications:
		return &MedicationEntry{}
	case Baby:
		return &BabyProfile{}
	}
	return nil
}

// ValidateRecord checks a record against the typed view of its collection.
// Fields outside the view are not inspected.
func ValidateRecord(c Collection, rec Record) error {
	entry := entryFor(c)
	if entry == nil {
		return apperrors.NotFoundf("unknown collection %q", c)
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return apperrors.Malformed(err)
	}
	if err := json.Unmarshal(raw, entry); err != nil {
		return apperrors.ValidationWithDetails("validation failed", map[string]string{"record": err.Error()})
	}
	v := validate.Struct(entry)
	if !v.Validate() {
		return apperrors.ValidationWithDetails("validation failed", v.Errors.All())
	}
	return nil
}
