package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	database "bookingapp/internal/adapter/database/postgres"
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
	db        *database.DB
	telemetry port.Telemetry
}

func NewPropertyRepository(db *database.DB, telemetry port.Telemetry) port.PropertyRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &PropertyRepository{db: db, telemetry: telemetry}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProperty(row rowScanner) (domain.Property, error) {
	var (
		p            domain.Property
		propertyType string
		price        pgtype.Numeric
	)

	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Address,
		&p.City,
		&p.Country,
		&propertyType,
		&price,
		&p.MaxGuests,
		&p.OwnerID,
		&p.IsActive,
		&p.CreatedAt,
	)

	if err != nil {
		return domain.Property{}, err
	}

	p.PricePerNight = decimal.NewFromBigInt(price.Int, price.Exp)
	p.CreatedAt = p.CreatedAt.UTC()
	p.PropertyType, err = domain.ParsePropertyType(propertyType)

	return p, err
}

func (pr *PropertyRepository) Create(ctx context.Context, property domain.Property) (domain.Property, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "Create", "property", map[string]interface{}{
		"db.system": "postgresql",
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
		Suffix("RETURNING " + joinColumns(propertyColumns)).
		ToSql()

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	pr.telemetry.RecordRepositoryQuery(ctx, "Create", "property", stmt, args)

	saved, err := scanProperty(pr.db.QueryRow(ctx, stmt, args...))

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	op.End(nil)
	return saved, nil
}

func (pr *PropertyRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.Property, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "GetByID", "property", map[string]interface{}{
		"db.system":   "postgresql",
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

	property, err := scanProperty(pr.db.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
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
		"db.system":  "postgresql",
		"batch.size": len(ids),
	})

	if len(ids) == 0 {
		op.End(nil)
		return []domain.Property{}, nil
	}

	properties, err := pr.list(ctx, pr.db.QueryBuilder.Select(propertyColumns...).
		From(propertiesTable).
		Where(sq.Eq{"id": uuidStrings(ids)}).
		OrderBy("created_at", "id"))

	return properties, op.End(err)
}

func (pr *PropertyRepository) GetAllByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Property, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "GetAllByOwner", "property", map[string]interface{}{
		"db.system": "postgresql",
		"owner.id":  ownerID.String(),
	})

	properties, err := pr.list(ctx, pr.db.QueryBuilder.Select(propertyColumns...).
		From(propertiesTable).
		Where(sq.Eq{"owner_id": ownerID.String()}).
		OrderBy("created_at", "id"))

	return properties, op.End(err)
}

func (pr *PropertyRepository) GetPage(ctx context.Context, page, size int) ([]domain.Property, int, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "GetPage", "property", map[string]interface{}{
		"db.system":       "postgresql",
		"pagination.page": page,
		"pagination.size": size,
	})

	var total int

	countStmt, countArgs, err := pr.db.QueryBuilder.Select("COUNT(*)").From(propertiesTable).ToSql()

	if err != nil {
		return nil, 0, op.End(err)
	}

	if err := pr.db.QueryRow(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, op.End(err)
	}

	properties, err := pr.list(ctx, pr.db.QueryBuilder.Select(propertyColumns...).
		From(propertiesTable).
		OrderBy("created_at", "id").
		Limit(uint64(size)).
		Offset(domain.PageOffset(page, size)))

	if err != nil {
		return nil, 0, op.End(err)
	}

	op.SetAttributes(map[string]interface{}{"db.rows_returned": len(properties)})
	op.End(nil)

	return properties, total, nil
}

// Update locks the row with SELECT ... FOR UPDATE so concurrent patches and
// toggles on the same property apply one after another.
func (pr *PropertyRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.Property) error) (domain.Property, error) {
	ctx, op := tel.StartRepositoryOperation(pr.telemetry, ctx, "Update", "property", map[string]interface{}{
		"db.system":   "postgresql",
		"property.id": id.String(),
	})

	tx, err := pr.db.Begin(ctx)

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	defer tx.Rollback(ctx)

	stmt, args, err := pr.db.QueryBuilder.Select(propertyColumns...).
		From(propertiesTable).
		Where(sq.Eq{"id": id.String()}).
		Suffix("FOR UPDATE").
		ToSql()

	if err != nil {
		return domain.Property{}, op.End(err)
	}

	property, err := scanProperty(tx.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
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

	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		return domain.Property{}, op.End(err)
	}

	if err := tx.Commit(ctx); err != nil {
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

	rows, err := pr.db.Query(ctx, stmt, args...)

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
