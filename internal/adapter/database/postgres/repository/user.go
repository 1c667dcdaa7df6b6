package repository

import (
	"context"
	"errors"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	database "bookingapp/internal/adapter/database/postgres"
	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/port"
	tel "bookingapp/internal/core/telemetry"
)

const usersTable = "users"

var userColumns = []string{"id", "first_name", "last_name", "email", "is_deleted", "created_at"}

type UserRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *database.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{db: db, telemetry: telemetry}
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User

	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.IsDeleted, &u.CreatedAt)
	u.CreatedAt = u.CreatedAt.UTC()

	return u, err
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "Create", "user", map[string]interface{}{
		"db.system": "postgresql",
		"db.table":  usersTable,
	})

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}

	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	user.CreatedAt = user.CreatedAt.UTC().Truncate(time.Microsecond)

	stmt, args, err := ur.db.QueryBuilder.Insert(usersTable).
		Columns(userColumns...).
		Values(user.ID.String(), user.FirstName, user.LastName, user.Email, user.IsDeleted, user.CreatedAt).
		Suffix("RETURNING " + joinColumns(userColumns)).
		ToSql()

	if err != nil {
		return domain.User{}, op.End(err)
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "Create", "user", stmt, args)

	saved, err := scanUser(ur.db.QueryRow(ctx, stmt, args...))

	if database.IsUniqueViolation(err) {
		return domain.User{}, op.End(domain.NewEmailConflict(user.Email, err))
	}

	if err != nil {
		return domain.User{}, op.End(err)
	}

	op.End(nil)
	return saved, nil
}

func (ur *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "GetByID", "user", map[string]interface{}{
		"db.system": "postgresql",
		"user.id":   id.String(),
	})

	user, err := ur.getOne(ctx, sq.Eq{"id": id.String()})

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, op.End(domain.NewUserNotFound(id))
	}

	return user, op.End(err)
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "GetByEmail", "user", map[string]interface{}{
		"db.system": "postgresql",
	})

	user, err := ur.getOne(ctx, sq.Eq{"email": email})

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, op.End(domain.NewUserEmailNotFound(email))
	}

	return user, op.End(err)
}

func (ur *UserRepository) GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "GetAllByIDs", "user", map[string]interface{}{
		"db.system":  "postgresql",
		"batch.size": len(ids),
	})

	if len(ids) == 0 {
		op.End(nil)
		return []domain.User{}, nil
	}

	users, err := ur.list(ctx, ur.db.QueryBuilder.Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"id": uuidStrings(ids)}).
		OrderBy("created_at", "id"))

	return users, op.End(err)
}

func (ur *UserRepository) GetPage(ctx context.Context, page, size int) ([]domain.User, int, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "GetPage", "user", map[string]interface{}{
		"db.system":       "postgresql",
		"pagination.page": page,
		"pagination.size": size,
	})

	var total int

	countStmt, countArgs, err := ur.db.QueryBuilder.Select("COUNT(*)").From(usersTable).ToSql()

	if err != nil {
		return nil, 0, op.End(err)
	}

	if err := ur.db.QueryRow(ctx, countStmt, countArgs...).Scan(&total); err != nil {
		return nil, 0, op.End(err)
	}

	users, err := ur.list(ctx, ur.db.QueryBuilder.Select(userColumns...).
		From(usersTable).
		OrderBy("created_at", "id").
		Limit(uint64(size)).
		Offset(domain.PageOffset(page, size)))

	if err != nil {
		return nil, 0, op.End(err)
	}

	op.End(nil)
	return users, total, nil
}

func (ur *UserRepository) Update(ctx context.Context, id uuid.UUID, mutate func(*domain.User) error) (domain.User, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "Update", "user", map[string]interface{}{
		"db.system": "postgresql",
		"user.id":   id.String(),
	})

	tx, err := ur.db.Begin(ctx)

	if err != nil {
		return domain.User{}, op.End(err)
	}

	defer tx.Rollback(ctx)

	stmt, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"id": id.String()}).
		Suffix("FOR UPDATE").
		ToSql()

	if err != nil {
		return domain.User{}, op.End(err)
	}

	user, err := scanUser(tx.QueryRow(ctx, stmt, args...))

	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, op.End(domain.NewUserNotFound(id))
	}

	if err != nil {
		return domain.User{}, op.End(err)
	}

	if err := mutate(&user); err != nil {
		return domain.User{}, op.End(err)
	}

	stmt, args, err = ur.db.QueryBuilder.Update(usersTable).
		SetMap(user.ToMap()).
		Where(sq.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return domain.User{}, op.End(err)
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "Update", "user", stmt, args)

	if _, err := tx.Exec(ctx, stmt, args...); err != nil {
		if database.IsUniqueViolation(err) {
			return domain.User{}, op.End(domain.NewEmailConflict(user.Email, err))
		}

		return domain.User{}, op.End(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.User{}, op.End(err)
	}

	op.End(nil)
	return user, nil
}

func (ur *UserRepository) getOne(ctx context.Context, where sq.Eq) (domain.User, error) {
	stmt, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From(usersTable).
		Where(where).
		Limit(1).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return scanUser(ur.db.QueryRow(ctx, stmt, args...))
}

func (ur *UserRepository) list(ctx context.Context, query sq.SelectBuilder) ([]domain.User, error) {
	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.db.Query(ctx, stmt, args...)

	if err != nil {
		return nil, err
	}

	defer rows.Close()

	users := make([]domain.User, 0)

	for rows.Next() {
		user, err := scanUser(rows)

		if err != nil {
			return nil, err
		}

		users = append(users, user)
	}

	return users, rows.Err()
}
