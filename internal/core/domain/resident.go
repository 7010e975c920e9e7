package domain

// Relationship is a resident's relationship to the head of the household.
type Relationship string

const (
	RelationshipOwner  Relationship = "owner"
	RelationshipSpouse Relationship = "wife/husband"
	RelationshipChild  Relationship = "child"
	RelationshipOther  Relationship = "other"
)

// UnrecognizedPriority orders unknown relationships after every known one.
const UnrecognizedPriority = 99

var relationshipPriority = map[Relationship]int{
	RelationshipOwner:  1,
	RelationshipSpouse: 2,
	RelationshipChild:  3,
	RelationshipOther:  4,
}

var relationshipLabels = map[Relationship]string{
	RelationshipOwner:  "Owner",
	RelationshipSpouse: "Wife/Husband",
	RelationshipChild:  "Child",
	RelationshipOther:  "Other",
}

// Priority returns the in-apartment sort rank; lower sorts first.
func (r Relationship) Priority() int {
	if p, ok := relationshipPriority[r]; ok {
		return p
	}
	return UnrecognizedPriority
}

// Label returns a display label.
func (r Relationship) Label() string {
	if l, ok := relationshipLabels[r]; ok {
		return l
	}
	return Unknown
}

// Valid reports whether r is one of the four relationships the backend accepts.
func (r Relationship) Valid() bool {
	_, ok := relationshipPriority[r]
	return ok
}

// Apartment is only used as a grouping and sort key on the client.
type Apartment struct {
	ID     int    `json:"id"`
	Number string `json:"number"`
}

type Resident struct {
	ID                 int          `json:"id"`
	Name               string       `json:"name"`
	RelationshipToHead Relationship `json:"relationship_to_head"`
	Apartment          *Apartment   `json:"apartment"`
}

// ApartmentNumber returns the apartment number or "" when unassigned.
func (r *Resident) ApartmentNumber() string {
	if r == nil || r.Apartment == nil {
		return ""
	}
	return r.Apartment.Number
}
