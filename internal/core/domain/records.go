package domain

import "time"

// Unknown is the placeholder shown wherever a joined record is missing.
const Unknown = "unknown"

type FeeType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Invoice struct {
	ID         int       `json:"id"`
	FeeType    FeeType   `json:"fee_type"`
	Amount     float64   `json:"amount"`
	IsPaid     bool      `json:"is_paid"`
	ResidentID int       `json:"resident"`
	CreateTime time.Time `json:"create_time"`
}

// ItemStatus is the delivery state of a parcel held in a locker.
type ItemStatus string

const (
	ItemWaiting  ItemStatus = "waiting"
	ItemReceived ItemStatus = "received"
)

type LockerItem struct {
	ID   int    `json:"id"`
	Name string `json:"name_item"`
}

// Locker is a parcel locker assigned to one resident.
type Locker struct {
	ID         int          `json:"id"`
	Number     string       `json:"locker_number"`
	ResidentID int          `json:"resident"`
	Items      []LockerItem `json:"items"`
}

// ItemNames lists the names of the parcels in the locker.
func (l Locker) ItemNames() []string {
	names := make([]string, 0, len(l.Items))
	for _, it := range l.Items {
		names = append(names, it.Name)
	}
	return names
}

type Complaint struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	ResidentID  int       `json:"resident"`
	IsResolved  bool      `json:"is_resolved"`
	CreateTime  time.Time `json:"create_time"`
}

type Survey struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	CreateTime  time.Time `json:"create_time"`
}
