package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PropertyType string

const (
	PropertyTypeHotel     PropertyType = "HOTEL"
	PropertyTypeApartment PropertyType = "APARTMENT"
	PropertyTypeHouse     PropertyType = "HOUSE"
	PropertyTypeRoom      PropertyType = "ROOM"
	PropertyTypeBungalow  PropertyType = "BUNGALOW"
	PropertyTypeVilla     PropertyType = "VILLA"
)

var propertyTypes = []PropertyType{
	PropertyTypeHotel,
	PropertyTypeApartment,
	PropertyTypeHouse,
	PropertyTypeRoom,
	PropertyTypeBungalow,
	PropertyTypeVilla,
}

func (t PropertyType) String() string {
	return string(t)
}

func (t PropertyType) IsValid() bool {
	for _, known := range propertyTypes {
		if t == known {
			return true
		}
	}

	return false
}

func ParsePropertyType(value string) (PropertyType, error) {
	t := PropertyType(value)

	if !t.IsValid() {
		return "", NewValidationError(map[string]string{
			"propertyType": fmt.Sprintf("failed to create property type from string: %s", value),
		})
	}

	return t, nil
}

// UnmarshalText rejects names outside the enumeration, so a bad propertyType
// fails while the request body is decoded.
func (t *PropertyType) UnmarshalText(text []byte) error {
	parsed, err := ParsePropertyType(strings.TrimSpace(string(text)))

	if err != nil {
		return err
	}

	*t = parsed
	return nil
}

func (t PropertyType) MarshalText() ([]byte, error) {
	return []byte(t), nil
}

type Property struct {
	ID            uuid.UUID
	Name          string
	Description   string
	Address       string
	City          string
	Country       string
	PropertyType  PropertyType
	PricePerNight decimal.Decimal
	MaxGuests     int
	OwnerID       uuid.UUID
	IsActive      bool
	CreatedAt     time.Time
}

func (p *Property) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"name":            p.Name,
		"description":     p.Description,
		"address":         p.Address,
		"city":            p.City,
		"country":         p.Country,
		"property_type":   p.PropertyType.String(),
		"price_per_night": p.PricePerNight.String(),
		"max_guests":      p.MaxGuests,
		"is_active":       p.IsActive,
	}
}
