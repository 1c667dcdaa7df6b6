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

const usersTable = "users"

var userColumns = []string{"id", "first_name", "last_name", "email", "is_deleted", "created_at"}

type UserRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User

	err := row.Scan(&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.IsDeleted, &u.CreatedAt)
	u.CreatedAt = u.CreatedAt.UTC()

	return u, err
}

func (ur *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "Create", "user", map[string]interface{}{
		"db.system": "sqlite",
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
		ToSql()

	if err != nil {
		return domain.User{}, op.End(err)
	}

	ur.telemetry.RecordRepositoryQuery(ctx, "Create", "user", stmt, args)

	if _, err := ur.db.ExecContext(ctx, stmt, args...); err != nil {
		if sqlite.IsUniqueViolation(err) {
			return domain.User{}, op.End(domain.NewEmailConflict(user.Email, err))
		}

		return domain.User{}, op.End(err)
	}

	op.End(nil)
	return user, nil
}

func (ur *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "GetByID", "user", map[string]interface{}{
		"db.system": "sqlite",
		"user.id":   id.String(),
	})

	user, err := ur.getOne(ctx, sq.Eq{"id": id.String()})

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, op.End(domain.NewUserNotFound(id))
	}

	return user, op.End(err)
}

func (ur *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "GetByEmail", "user", map[string]interface{}{
		"db.system": "sqlite",
	})

	user, err := ur.getOne(ctx, sq.Eq{"email": email})

	if errors.Is(err, sql.ErrNoRows) {
		return domain.User{}, op.End(domain.NewUserEmailNotFound(email))
	}

	return user, op.End(err)
}

func (ur *UserRepository) GetAllByIDs(ctx context.Context, ids []uuid.UUID) ([]domain.User, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "GetAllByIDs", "user", map[string]interface{}{
		"db.system":  "sqlite",
		"batch.size": len(ids),
	})

	if len(ids) == 0 {
		op.End(nil)
		return []domain.User{}, nil
	}

	keys := make([]string, 0, len(ids))

	for _, id := range ids {
		keys = append(keys, id.String())
	}

	users, err := ur.list(ctx, ur.db.QueryBuilder.Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"id": keys}).
		OrderBy("created_at", "id"))

	return users, op.End(err)
}

func (ur *UserRepository) GetPage(ctx context.Context, page, size int) ([]domain.User, int, error) {
	ctx, op := tel.StartRepositoryOperation(ur.telemetry, ctx, "GetPage", "user", map[string]interface{}{
		"db.system":       "sqlite",
		"pagination.page": page,
		"pagination.size": size,
	})

	var total int

	countStmt, countArgs, err := ur.db.QueryBuilder.Select("COUNT(*)").From(usersTable).ToSql()

	if err != nil {
		return nil, 0, op.End(err)
	}

	if err := ur.db.QueryRowContext(ctx, countStmt, countArgs...).Scan(&total); err != nil {
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
		"db.system": "sqlite",
		"user.id":   id.String(),
	})

	tx, err := ur.db.BeginTx(ctx, nil)

	if err != nil {
		return domain.User{}, op.End(err)
	}

	defer tx.Rollback()

	stmt, args, err := ur.db.QueryBuilder.Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return domain.User{}, op.End(err)
	}

	user, err := scanUser(tx.QueryRowContext(ctx, stmt, args...))

	if errors.Is(err, sql.ErrNoRows) {
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

	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		if sqlite.IsUniqueViolation(err) {
			return domain.User{}, op.End(domain.NewEmailConflict(user.Email, err))
		}

		return domain.User{}, op.End(err)
	}

	if err := tx.Commit(); err != nil {
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

	return scanUser(ur.db.QueryRowContext(ctx, stmt, args...))
}

func (ur *UserRepository) list(ctx context.Context, query sq.SelectBuilder) ([]domain.User, error) {
	stmt, args, err := query.ToSql()

	if err != nil {
		return nil, err
	}

	rows, err := ur.db.QueryContext(ctx, stmt, args...)

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
