package repository_test

import (
	"context"
	"errors"
	"testing"

	. "bookingapp/pkg/test"

	"bookingapp/internal/adapter/database/sqlite/repository"
	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/port"
	"bookingapp/internal/core/telemetry"
	"bookingapp/pkg/test/factory"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepositoryTestSuite struct {
	suite.Suite
	repo port.UserRepository
}

func (s *UserRepositoryTestSuite) SetupTest() {
	db := InitTestDB()
	s.T().Cleanup(func() { db.Close() })

	s.repo = repository.NewUserRepository(db, telemetry.NewNoOpProbe())
}

func TestUserRepositoryTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserRepositoryTestSuite))
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_Success() {
	user, err := s.repo.Create(context.Background(), domain.User{
		FirstName: "Ana",
		LastName:  "Silva",
		Email:     "ana@example.com",
	})

	assert.NoError(s.T(), err)
	assert.NotEqual(s.T(), uuid.Nil, user.ID)
	assert.False(s.T(), user.CreatedAt.IsZero())

	found, err := s.repo.GetByID(context.Background(), user.ID)

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Ana", found.FirstName)
	assert.Equal(s.T(), "ana@example.com", found.Email)
	assert.True(s.T(), found.CreatedAt.Equal(user.CreatedAt))
	assert.False(s.T(), found.IsDeleted)
}

func (s *UserRepositoryTestSuite) TestRepository_CreateUser_DuplicateEmail() {
	ctx := context.Background()

	_, err := s.repo.Create(ctx, factory.NewUser[domain.User](map[string]any{"Email": "dup@example.com"}))
	assert.NoError(s.T(), err)

	_, err = s.repo.Create(ctx, factory.NewUser[domain.User](map[string]any{"Email": "dup@example.com"}))

	Expect(err).To(HaveOccurred())
	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *UserRepositoryTestSuite) TestRepository_GetByID_NotFound() {
	id := uuid.New()

	_, err := s.repo.GetByID(context.Background(), id)

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
	Expect(err.Error()).To(ContainSubstring(id.String()))
}

func (s *UserRepositoryTestSuite) TestRepository_GetByEmail() {
	ctx := context.Background()
	created, _ := s.repo.Create(ctx, factory.NewUser[domain.User](map[string]any{"Email": "find@example.com"}))

	found, err := s.repo.GetByEmail(ctx, "find@example.com")

	assert.NoError(s.T(), err)
	assert.Equal(s.T(), created.ID, found.ID)

	_, err = s.repo.GetByEmail(ctx, "missing@example.com")
	assert.True(s.T(), errors.Is(err, domain.ErrNotFound))
}

func (s *UserRepositoryTestSuite) TestRepository_GetAllByIDs_DropsMissing() {
	ctx := context.Background()
	first, _ := s.repo.Create(ctx, factory.NewUser[domain.User]())
	second, _ := s.repo.Create(ctx, factory.NewUser[domain.User]())

	users, err := s.repo.GetAllByIDs(ctx, []uuid.UUID{first.ID, uuid.New(), second.ID})

	Expect(err).ToNot(HaveOccurred())
	Expect(users).To(HaveLen(2))
}

func (s *UserRepositoryTestSuite) TestRepository_GetPage() {
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.repo.Create(ctx, factory.NewUser[domain.User]())
		assert.NoError(s.T(), err)
	}

	users, total, err := s.repo.GetPage(ctx, 1, 2)

	Expect(err).ToNot(HaveOccurred())
	Expect(total).To(Equal(5))
	Expect(users).To(HaveLen(2))

	users, total, err = s.repo.GetPage(ctx, 3, 2)

	Expect(err).ToNot(HaveOccurred())
	Expect(total).To(Equal(5))
	Expect(users).To(BeEmpty())
}

func (s *UserRepositoryTestSuite) TestRepository_Update_KeepsImmutableFields() {
	ctx := context.Background()
	created, _ := s.repo.Create(ctx, factory.NewUser[domain.User]())

	updated, err := s.repo.Update(ctx, created.ID, func(u *domain.User) error {
		u.FirstName = "Changed"
		u.IsDeleted = true
		u.CreatedAt = u.CreatedAt.AddDate(-1, 0, 0)
		return nil
	})

	Expect(err).ToNot(HaveOccurred())
	Expect(updated.FirstName).To(Equal("Changed"))

	stored, _ := s.repo.GetByID(ctx, created.ID)

	Expect(stored.FirstName).To(Equal("Changed"))
	Expect(stored.IsDeleted).To(BeTrue())
	Expect(stored.CreatedAt.Equal(created.CreatedAt)).To(BeTrue())
}

func (s *UserRepositoryTestSuite) TestRepository_Update_EmailConflict() {
	ctx := context.Background()
	_, _ = s.repo.Create(ctx, factory.NewUser[domain.User](map[string]any{"Email": "taken@example.com"}))
	other, _ := s.repo.Create(ctx, factory.NewUser[domain.User]())

	_, err := s.repo.Update(ctx, other.ID, func(u *domain.User) error {
		u.Email = "taken@example.com"
		return nil
	})

	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *UserRepositoryTestSuite) TestRepository_Update_MutateErrorRollsBack() {
	ctx := context.Background()
	created, _ := s.repo.Create(ctx, factory.NewUser[domain.User]())
	boom := errors.New("boom")

	_, err := s.repo.Update(ctx, created.ID, func(u *domain.User) error {
		u.FirstName = "Never"
		return boom
	})

	Expect(err).To(MatchError(boom))

	stored, _ := s.repo.GetByID(ctx, created.ID)
	Expect(stored.FirstName).To(Equal(created.FirstName))
}

func (s *UserRepositoryTestSuite) TestRepository_Update_NotFound() {
	_, err := s.repo.Update(context.Background(), uuid.New(), func(u *domain.User) error { return nil })

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}
