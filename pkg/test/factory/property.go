package factory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bookingapp/internal/core/domain"
)

// NewProperty builds a valid property. decimal.Decimal has no exported fields
// for fabricator to fill, so the defaults are written out and overridden by key.
// PricePerNight may be given as a string.
func NewProperty(customData ...map[string]any) domain.Property {
	p := domain.Property{
		ID:            uuid.New(),
		Name:          fmt.Sprintf("Property %s", uuid.NewString()[:8]),
		Description:   "A quiet place near the center",
		Address:       "Main Street 1",
		City:          "Lisbon",
		Country:       "Portugal",
		PropertyType:  domain.PropertyTypeApartment,
		PricePerNight: decimal.RequireFromString("100.00"),
		MaxGuests:     2,
		OwnerID:       uuid.New(),
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
	}

	for _, data := range customData {
		for key, value := range data {
			switch key {
			case "ID":
				p.ID = value.(uuid.UUID)
			case "Name":
				p.Name = value.(string)
			case "Description":
				p.Description = value.(string)
			case "Address":
				p.Address = value.(string)
			case "City":
				p.City = value.(string)
			case "Country":
				p.Country = value.(string)
			case "PropertyType":
				p.PropertyType = value.(domain.PropertyType)
			case "PricePerNight":
				p.PricePerNight = decimal.RequireFromString(value.(string))
			case "MaxGuests":
				p.MaxGuests = value.(int)
			case "OwnerID":
				p.OwnerID = value.(uuid.UUID)
			case "IsActive":
				p.IsActive = value.(bool)
			case "CreatedAt":
				p.CreatedAt = value.(time.Time)
			default:
				panic("factory: unknown property field " + key)
			}
		}
	}

	return p
}
