package service_test

import (
	"context"
	"errors"
	"testing"

	. "bookingapp/pkg/test"

	"bookingapp/internal/adapter/database/sqlite/repository"
	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/service"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserServiceTestSuite struct {
	suite.Suite
	service *service.UserService
}

func (s *UserServiceTestSuite) SetupTest() {
	db := InitTestDB()
	s.T().Cleanup(func() { db.Close() })

	s.service = service.NewUserService(repository.NewUserRepository(db, nil), nil)
}

func TestUserServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(UserServiceTestSuite))
}

func (s *UserServiceTestSuite) create(email string) request.UserCreationRequest {
	return request.UserCreationRequest{FirstName: "Ana", LastName: "Silva", Email: email}
}

func (s *UserServiceTestSuite) TestCreate_StartsNotDeleted() {
	created, err := s.service.Create(context.Background(), s.create("ana@example.com"))

	Expect(err).ToNot(HaveOccurred())
	Expect(created.ID).ToNot(Equal(uuid.Nil))
	Expect(created.IsDeleted).To(BeFalse())
}

func (s *UserServiceTestSuite) TestCreate_DuplicateEmail() {
	ctx := context.Background()
	s.service.Create(ctx, s.create("ana@example.com"))

	_, err := s.service.Create(ctx, s.create("ana@example.com"))

	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *UserServiceTestSuite) TestGetByEmail() {
	ctx := context.Background()
	created, _ := s.service.Create(ctx, s.create("ana@example.com"))

	found, err := s.service.GetByEmail(ctx, "ana@example.com")
	Expect(err).ToNot(HaveOccurred())
	Expect(found.ID).To(Equal(created.ID))

	_, err = s.service.GetByEmail(ctx, "nobody@example.com")
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *UserServiceTestSuite) TestGetByIDs_IncludesDeletedAndDropsMissing() {
	ctx := context.Background()
	a, _ := s.service.Create(ctx, s.create("a@example.com"))
	b, _ := s.service.Create(ctx, s.create("b@example.com"))
	s.service.SetDeleted(ctx, b.ID, true)

	users, err := s.service.GetByIDs(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()})

	Expect(err).ToNot(HaveOccurred())
	Expect(users).To(HaveLen(2))

	_, err = s.service.GetByIDs(ctx, []uuid.UUID{uuid.New()})
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *UserServiceTestSuite) TestPatch_OnlyPresentFields() {
	ctx := context.Background()
	created, _ := s.service.Create(ctx, s.create("ana@example.com"))

	patched, err := s.service.Patch(ctx, created.ID, request.UserPatchRequest{LastName: request.Some("Costa")})

	Expect(err).ToNot(HaveOccurred())
	assert.Equal(s.T(), "Ana", patched.FirstName)
	assert.Equal(s.T(), "Costa", patched.LastName)
	assert.Equal(s.T(), created.Email, patched.Email)
	assert.Equal(s.T(), created.CreatedAt, patched.CreatedAt)
}

func (s *UserServiceTestSuite) TestPatch_EmailConflict() {
	ctx := context.Background()
	s.service.Create(ctx, s.create("taken@example.com"))
	other, _ := s.service.Create(ctx, s.create("free@example.com"))

	_, err := s.service.Patch(ctx, other.ID, request.UserPatchRequest{Email: request.Some("taken@example.com")})

	Expect(errors.Is(err, domain.ErrConflict)).To(BeTrue())
}

func (s *UserServiceTestSuite) TestSetDeleted_Reversible() {
	ctx := context.Background()
	created, _ := s.service.Create(ctx, s.create("ana@example.com"))

	deleted, err := s.service.SetDeleted(ctx, created.ID, true)
	Expect(err).ToNot(HaveOccurred())
	Expect(deleted.IsDeleted).To(BeTrue())

	restored, err := s.service.SetDeleted(ctx, created.ID, false)
	Expect(err).ToNot(HaveOccurred())
	assert.Equal(s.T(), created, restored)

	_, err = s.service.SetDeleted(ctx, uuid.New(), true)
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *UserServiceTestSuite) TestGetAll_Empty() {
	page, err := s.service.GetAll(context.Background(), 0, 20)

	Expect(err).ToNot(HaveOccurred())
	Expect(page.Content).To(BeEmpty())
	Expect(page.TotalElements).To(Equal(0))
	Expect(page.TotalPages).To(Equal(0))
}
