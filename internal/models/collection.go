package models

// Collection names one of the fixed record sets held by the store.
type Collection string

const (
	Baby        Collection = "baby"
	Feedings    Collection = "feedings"
	Diapers     Collection = "diapers"
	Sleeps      Collection = "sleeps"
	Growth      Collection = "growth"
	Medications Collection = "medications"
)

// Collections lists every known collection in snapshot order.
var Collections = []Collection{Feedings, Diapers, Sleeps, Growth, Baby, Medications}

func ParseCollection(name string) (Collection, bool) {
	for _, c := range Collections {
		if string(c) == name {
			return c, true
		}
	}
	return "", false
}

func (c Collection) String() string {
	return string(c)
}
