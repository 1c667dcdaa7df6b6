package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/mapper"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/model/response"
	"bookingapp/internal/core/port"
	tel "bookingapp/internal/core/telemetry"
)

const propertyServiceName = "PropertyService"

type PropertyService struct {
	repo      port.PropertyRepository
	users     port.UserDirectory
	telemetry port.Telemetry
}

func NewPropertyService(repo port.PropertyRepository, users port.UserDirectory, telemetry port.Telemetry) *PropertyService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &PropertyService{
		repo:      repo,
		users:     users,
		telemetry: telemetry,
	}
}

func (ps *PropertyService) Create(ctx context.Context, req request.PropertyCreationRequest) (response.PropertyResponse, error) {
	ctx, op := tel.StartServiceOperation(ps.telemetry, ctx, propertyServiceName, "Create", map[string]interface{}{
		"owner.id": req.OwnerID.String(),
	})

	if err := ps.validateOwner(ctx, req.OwnerID); err != nil {
		return response.PropertyResponse{}, op.End(err)
	}

	property := mapper.PropertyFromCreation(req)
	property.IsActive = true

	saved, err := ps.repo.Create(ctx, property)

	if err != nil {
		return response.PropertyResponse{}, op.End(err)
	}

	ps.telemetry.RecordBusinessEvent(ctx, "property_created", "property", saved.ID.String(), map[string]interface{}{
		"owner.id":      saved.OwnerID.String(),
		"property.type": saved.PropertyType.String(),
	})

	op.End(nil)
	return mapper.ToPropertyResponse(saved), nil
}

func (ps *PropertyService) GetByID(ctx context.Context, id uuid.UUID) (response.PropertyResponse, error) {
	ctx, op := tel.StartServiceOperation(ps.telemetry, ctx, propertyServiceName, "GetByID", map[string]interface{}{
		"property.id": id.String(),
	})

	property, err := ps.repo.GetByID(ctx, id)

	if err != nil {
		return response.PropertyResponse{}, op.End(err)
	}

	op.End(nil)
	return mapper.ToPropertyResponse(property), nil
}

// Patch overwrites only the fields present in req. Owner, id, creation time
// and the active flag cannot be changed here.
func (ps *PropertyService) Patch(ctx context.Context, id uuid.UUID, req request.PropertyPatchRequest) (response.PropertyResponse, error) {
	ctx, op := tel.StartServiceOperation(ps.telemetry, ctx, propertyServiceName, "Patch", map[string]interface{}{
		"property.id": id.String(),
	})

	updated, err := ps.repo.Update(ctx, id, func(p *domain.Property) error {
		mapper.ApplyPropertyPatch(p, req)
		return nil
	})

	if err != nil {
		return response.PropertyResponse{}, op.End(err)
	}

	ps.telemetry.RecordBusinessEvent(ctx, "property_updated", "property", id.String(), nil)

	op.End(nil)
	return mapper.ToPropertyResponse(updated), nil
}

func (ps *PropertyService) GetAll(ctx context.Context, page, size int) (response.PageResponse[response.PropertyResponse], error) {
	ctx, op := tel.StartServiceOperation(ps.telemetry, ctx, propertyServiceName, "GetAll", map[string]interface{}{
		"pagination.page": page,
		"pagination.size": size,
	})

	properties, total, err := ps.repo.GetPage(ctx, page, size)

	if err != nil {
		return response.PageResponse[response.PropertyResponse]{}, op.End(err)
	}

	op.End(nil)
	return mapper.ToPage(properties, page, size, total, mapper.ToPropertyResponse), nil
}

func (ps *PropertyService) GetByOwner(ctx context.Context, ownerID uuid.UUID) ([]response.PropertyResponse, error) {
	ctx, op := tel.StartServiceOperation(ps.telemetry, ctx, propertyServiceName, "GetByOwner", map[string]interface{}{
		"owner.id": ownerID.String(),
	})

	properties, err := ps.repo.GetAllByOwner(ctx, ownerID)

	if err != nil {
		return nil, op.End(err)
	}

	op.End(nil)
	return mapper.ToPropertyResponses(properties), nil
}

// GetByIDs returns the properties that exist. It fails only when none of the
// ids match.
func (ps *PropertyService) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]response.PropertyResponse, error) {
	ctx, op := tel.StartServiceOperation(ps.telemetry, ctx, propertyServiceName, "GetByIDs", map[string]interface{}{
		"batch.size": len(ids),
	})

	properties, err := ps.repo.GetAllByIDs(ctx, ids)

	if err != nil {
		return nil, op.End(err)
	}

	if len(properties) == 0 {
		return nil, op.End(domain.NewPropertiesNotFound(ids))
	}

	op.End(nil)
	return mapper.ToPropertyResponses(properties), nil
}

func (ps *PropertyService) SetActive(ctx context.Context, id uuid.UUID, active bool) (response.PropertyResponse, error) {
	ctx, op := tel.StartServiceOperation(ps.telemetry, ctx, propertyServiceName, "SetActive", map[string]interface{}{
		"property.id":     id.String(),
		"property.active": active,
	})

	updated, err := ps.repo.Update(ctx, id, func(p *domain.Property) error {
		p.IsActive = active
		return nil
	})

	if err != nil {
		return response.PropertyResponse{}, op.End(err)
	}

	event := "property_deactivated"

	if active {
		event = "property_activated"
	}

	ps.telemetry.RecordBusinessEvent(ctx, event, "property", id.String(), nil)

	op.End(nil)
	return mapper.ToPropertyResponse(updated), nil
}

// validateOwner asks the user service whether ownerID may own properties.
// The remote outcome is already classified by the client; only the mapping
// to service errors happens here.
func (ps *PropertyService) validateOwner(ctx context.Context, ownerID uuid.UUID) error {
	user, err := ps.users.GetUser(ctx, ownerID)

	if err != nil {
		var remote *port.RemoteError

		if !errors.As(err, &remote) {
			ps.telemetry.RecordOwnerValidation(ctx, ownerID.String(), "error")
			return domain.NewDependencyError(err)
		}

		switch remote.Kind {
		case port.RemoteNotFound:
			ps.telemetry.RecordOwnerValidation(ctx, ownerID.String(), "not_found")
			return domain.NewOwnerNotFound(ownerID)
		case port.RemoteUnavailable:
			ps.telemetry.RecordOwnerValidation(ctx, ownerID.String(), "unavailable")
			return domain.NewUserServiceUnavailable(err)
		default:
			ps.telemetry.RecordOwnerValidation(ctx, ownerID.String(), "error")
			return domain.NewDependencyError(err)
		}
	}

	if user.IsDeleted {
		ps.telemetry.RecordOwnerValidation(ctx, ownerID.String(), "deleted")
		return domain.NewOwnerNotFound(ownerID)
	}

	ps.telemetry.RecordOwnerValidation(ctx, ownerID.String(), "valid")
	return nil
}
