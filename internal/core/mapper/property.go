package mapper

import (
	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/model/response"
)

func ToPropertyResponse(p domain.Property) response.PropertyResponse {
	return response.PropertyResponse{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Address:       p.Address,
		City:          p.City,
		Country:       p.Country,
		PropertyType:  p.PropertyType.String(),
		PricePerNight: p.PricePerNight,
		MaxGuests:     p.MaxGuests,
		OwnerID:       p.OwnerID,
		IsActive:      p.IsActive,
		CreatedAt:     FormatTimestamp(p.CreatedAt),
	}
}

func ToPropertyResponses(properties []domain.Property) []response.PropertyResponse {
	return mapAll(properties, ToPropertyResponse)
}

// PropertyFromCreation leaves ID, CreatedAt and IsActive for the service to assign.
func PropertyFromCreation(req request.PropertyCreationRequest) domain.Property {
	return domain.Property{
		Name:          req.Name,
		Description:   req.Description,
		Address:       req.Address,
		City:          req.City,
		Country:       req.Country,
		PropertyType:  req.PropertyType,
		PricePerNight: req.PricePerNight.Decimal,
		MaxGuests:     req.MaxGuests,
		OwnerID:       req.OwnerID,
	}
}

// ApplyPropertyPatch overwrites only the fields present in req.
func ApplyPropertyPatch(p *domain.Property, req request.PropertyPatchRequest) {
	if req.Name.Set {
		p.Name = req.Name.Value
	}

	if req.Description.Set {
		p.Description = req.Description.Value
	}

	if req.Address.Set {
		p.Address = req.Address.Value
	}

	if req.City.Set {
		p.City = req.City.Value
	}

	if req.Country.Set {
		p.Country = req.Country.Value
	}

	if req.PropertyType.Set {
		p.PropertyType = req.PropertyType.Value
	}

	if req.PricePerNight.Set {
		p.PricePerNight = req.PricePerNight.Value.Decimal
	}

	if req.MaxGuests.Set {
		p.MaxGuests = req.MaxGuests.Value
	}
}
