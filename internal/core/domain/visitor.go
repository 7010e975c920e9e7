package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// VehicleType is what a parking card is issued for.
type VehicleType string

const (
	VehicleMotorbike VehicleType = "motorbike"
	VehicleCar       VehicleType = "car"
)

// Visitor is a guest registered by a resident.
type Visitor struct {
	ID                     int          `json:"id"`
	Name                   string       `json:"name"`
	RelationshipToResident string       `json:"relationship_to_resident"`
	Resident               Resident     `json:"resident"`
	ParkingCard            *ParkingCard `json:"parking_card"`
}

type ParkingCard struct {
	ID           int         `json:"id"`
	CardNumber   string      `json:"card_number"`
	VehicleType  VehicleType `json:"vehicle_type"`
	LicensePlate string      `json:"license_plate"`
	Color        string      `json:"color"`
	VisitorID    int         `json:"visitor"`
}

const cardPrefix = "N"

// NextCardNumber returns the card number following the highest one in use,
// formatted N001, N002, ... Every N is stripped before parsing, so a bare
// "123" also counts. Card numbers that do not parse are ignored.
func NextCardNumber(cards []ParkingCard) string {
	highest := 0
	for _, c := range cards {
		n, err := strconv.Atoi(strings.ReplaceAll(c.CardNumber, cardPrefix, ""))
		if err != nil {
			continue
		}
		highest = max(highest, n)
	}
	return fmt.Sprintf("%s%03d", cardPrefix, highest+1)
}
