package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"bookingapp/internal/adapter/database/sqlite"
	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/port"
	tel "bookingapp/internal/core/telemetry"
)

const propertiesTable = "properties"

var propertyColumns = []string{
	"id", "name", "description", "address", "city", "country",
	"property_type", "price_per_night", "max_guests", "owner_id", "is_active", "created_at",
}

type PropertyRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewPropertyRepository(db *sqlite.DB, telemetry port.Telemetry) port.PropertyRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &PropertyRepository{
		db:        db,
		telemetry: telemetry,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (domain.Property, error) {
	var (
		p            domain.Property
		propertyType string
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Address,
		&p.City,
		&p.Country,
		&propertyType,
		&p.PricePerNight,
		&p.MaxGuests,
		&p.OwnerID,
		&p.IsActive,
		&p.CreatedAt,
	)

	if err != nil {
		return domain.Property{}, err
	}

	p.PropertyType, err = domain.ParsePropertyType(propertyType)
	p.CreatedAt = p.CreatedAt.UTC()

	return p, err
}

func (pr *PropertyRepository) Create(ctx context.Context, property domain.Property) (domain.Property, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "Create", "property", map[string]interface{}{
		"db.system": "sqlite",
		"db.table":  propertiesTable,
	})

	if property.ID == uuid.Nil {
		property.ID = uuid.New()
	}

	if property.CreatedAt.IsZero() {
		property.CreatedAt = time.Now()
	}

	property.CreatedAt = property.CreatedAt.UTC().Truncate(time.Microsecond)

	stmt, args, err := pr.db.QueryBuilder.Insert(propertiesTable).
		Columns(propertyColumns...).
		Values(
			property.ID.String(),
			property.Name,
			property.Description,
			property.Address,
			property.City,
			property.Country,
			property.PropertyType.String(),
			property.PricePerNight.String(),
			property.MaxGuests,
			property.OwnerID.String(),
			property.IsActive,
			property.CreatedAt,
		).
		ToSql()

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	pr.telemetry.RecordRepositoryQuery(ctx, "Create", "property", stmt, args)

	if _, err := pr.db.ExecContext(ctx, stmt, args...); err != nil {
		return domain.Property{}, op.End(err)
	}

	op.End(nil)
	return property, nil
}

func (pr *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "GetByID", "property", map[string]interface{}{
		"db.system":   "sqlite",
		"property.id": id.String(),
	})

	stmt, args, err := pr.db.QueryBuilder.Select(propertyColumns...).
		From(propertiesTable).
		Where(sq.Eq{"id": id.String()}).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	property, err := scanProperty(pr.db.QueryRowContext(ctx, stmt, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, op.End(domain.NewPropertyNotFound(id))
	}

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	op.End(nil)
	return property, nil
}

func (pr *PropertyRepository) GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.Property, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "GetAllByIDs", "property", map[string]interface{}{
		"db.system":  "sqlite",
		"batch.size": len(ids),
	})

	if len(ids) == 0 {
		op.End(nil)
		return []domain.Property{}, nil
	}

	keys := make([]string, 0, len(ids))

	for _, id := range ids {
		keys = append(keys, id.String())
	}

	query := pr.db.QueryBuilder.Select(propertyColumns...).
		From(propertiesTable).
		Where(sq.Eq{"id": keys}).
		OrderBy("created_at", "id")

	properties, err := pr.list(ctx, query)
	return properties, op.End(err)
}

func (pr *PropertyRepository) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "GetAllByOwner", "property", map[string]interface{}{
		"db.system": "sqlite",
		"owner.id":  ownerID.String(),
	})

	query := pr.db.QueryBuilder.Select(propertyColumns...).
		From(propertiesTable).
		Where(sq.Eq{"owner_id": ownerID.String()}).
		OrderBy("created_at", "id")

	properties, err := pr.list(ctx, query)
	return properties, op.End(err)
}

func (pr *PropertyRepository) GetPage(ctx context.Context, page, size int) ([]domain.Property, int, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "GetPage", "property", map[string]interface{}{
		"db.system":       "sqlite",
		"pagination.page": page,
		"pagination.size": size,
	})

	var total int

	countStmt, countArgs, err := pr.db.QueryBuilder.Select("COUNT(*)").From(propertiesTable).ToSql()

	if err != nil {
		return nil, 0, op.End(err)
	}

	if err := pr.db.QueryRowContext(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, op.End(err)
	}

	query := pr.db.QueryBuilder.Select(propertyColumns...).
		From(propertiesTable).
		OrderBy("created_at", "id").
		Limit(uint64(size)).
		Offset(domain.PageOffset(page, size))

	properties, err := pr.list(ctx, query)

	if err != nil {
		return nil, 0, op.End(err)
	}

	op.SetAttributes(map[string]interface{}{"db.rows_returned": len(properties)})
	op.End(nil)

	return properties, total, nil
}

func (pr *PropertyRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Property) error) (domain.Property, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "Update", "property", map[string]interface{}{
		"db.system":   "sqlite",
		"property.id": id.String(),
	})

	tx, err := pr.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	defer tx.Rollback()

	stmt, args, err := pr.db.QueryBuilder.Select(propertyColumns...).
		From(propertiesTable).
		Where(sq.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	property, err := scanProperty(tx.QueryRowContext(ctx, stmt, args...))

	if errors.Is(err, sql.ErrNoRows) {
		return domain.Property{}, op.End(domain.NewPropertyNotFound(id))
	}

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	if err := mutate(&property); err != nil {
		return domain.Property{}, op.End(err)
	}

	stmt, args, err = pr.db.QueryBuilder.Update(propertiesTable).
		SetMap(property.ToMap()).
		Where(sq.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	pr.telemetry.RecordRepositoryQuery(ctx, "Update", "property", stmt, args)

	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return domain.Property{}, op.End(err)
	}

	if err := tx.Commit(); err != nil {
		return domain.Property{}, op.End(err)
	}

	op.End(nil)
	return property, nil
}

func (pr *PropertyRepository) list(ctx context.Context, query sq.SelectBuilder) ([]domain.Property, error) {
	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := pr.db.QueryContext(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	properties := make([]domain.Property, 0)

	for rows.Next() {
		property, err := scanProperty(rows)

		if err != nil {
			return nil, err
		}

		properties = append(properties, property)
	}

	return properties, rows.Err()
}
