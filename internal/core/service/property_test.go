package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	. "bookingapp/pkg/test"

	"bookingapp/internal/adapter/database/sqlite/repository"
	"bookingapp/internal/core/domain"
	"bookingapp/internal/core/model/request"
	"bookingapp/internal/core/port"
	"bookingapp/internal/core/service"
	"bookingapp/internal/core/telemetry"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type fakeDirectory struct {
	users map[uuid.UUID]port.RemoteUser
	err   error
	calls int
}

func (f *fakeDirectory) GetUser(ctx context.Context, id uuid.UUID) (port.RemoteUser, error) {
	f.calls++

	if f.err != nil {
		return port.RemoteUser{}, f.err
	}

	user, ok := f.users[id]

	if !ok {
		return port.RemoteUser{}, &port.RemoteError{Kind: port.RemoteNotFound, Status: 404, Err: errors.New("404 Not Found")}
	}

	return user, nil
}

type PropertyServiceTestSuite struct {
	suite.Suite
	repo      port.PropertyRepository
	directory *fakeDirectory
	service   *service.PropertyService
	ownerID   uuid.UUID
}

func (s *PropertyServiceTestSuite) SetupTest() {
	db := InitTestDB()
	s.T().Cleanup(func() { db.Close() })

	s.ownerID = uuid.New()
	s.directory = &fakeDirectory{users: map[uuid.UUID]port.RemoteUser{
		s.ownerID: {ID: s.ownerID, Email: "owner@example.com"},
	}}

	s.repo = repository.NewPropertyRepository(db, nil)
	s.service = service.NewPropertyService(s.repo, s.directory, telemetry.NewNoOpProbe())
}

func TestPropertyServiceTestSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(PropertyServiceTestSuite))
}

func (s *PropertyServiceTestSuite) creation(ownerID uuid.UUID) request.PropertyCreationRequest {
	return request.PropertyCreationRequest{
		Name:          "Cozy",
		Description:   "Small flat with a view",
		Address:       "Rua Augusta 10",
		City:          "Lisbon",
		Country:       "Portugal",
		PropertyType:  domain.PropertyTypeApartment,
		PricePerNight: request.NewPrice("150"),
		MaxGuests:     2,
		OwnerID:       ownerID,
	}
}

func (s *PropertyServiceTestSuite) assertNothingStored() {
	_, total, err := s.repo.GetPage(context.Background(), 0, 10)

	Expect(err).ToNot(HaveOccurred())
	Expect(total).To(Equal(0))
}

func (s *PropertyServiceTestSuite) TestCreate_WithValidOwner() {
	start := time.Now().UTC().Truncate(time.Microsecond)

	created, err := s.service.Create(context.Background(), s.creation(s.ownerID))

	Expect(err).ToNot(HaveOccurred())
	Expect(created.ID).ToNot(Equal(uuid.Nil))
	Expect(created.IsActive).To(BeTrue())
	Expect(created.OwnerID).To(Equal(s.ownerID))
	Expect(created.PropertyType).To(Equal("APARTMENT"))

	createdAt, err := time.Parse("2006-01-02T15:04:05.000000", created.CreatedAt)
	Expect(err).ToNot(HaveOccurred())
	Expect(createdAt.Before(start)).To(BeFalse())
}

func (s *PropertyServiceTestSuite) TestCreate_UnknownOwner() {
	missing := uuid.New()

	_, err := s.service.Create(context.Background(), s.creation(missing))

	Expect(errors.Is(err, domain.ErrOwnerNotFound)).To(BeTrue())
	Expect(err.Error()).To(ContainSubstring(missing.String()))
	s.assertNothingStored()
}

func (s *PropertyServiceTestSuite) TestCreate_DeletedOwner() {
	deleted := uuid.New()
	s.directory.users[deleted] = port.RemoteUser{ID: deleted, IsDeleted: true}

	_, err := s.service.Create(context.Background(), s.creation(deleted))

	Expect(errors.Is(err, domain.ErrOwnerNotFound)).To(BeTrue())
	s.assertNothingStored()
}

func (s *PropertyServiceTestSuite) TestCreate_UserServiceUnavailable() {
	s.directory.err = &port.RemoteError{Kind: port.RemoteUnavailable, Status: 500, Err: errors.New("500 Internal Server Error")}

	_, err := s.service.Create(context.Background(), s.creation(s.ownerID))

	Expect(errors.Is(err, domain.ErrUnavailable)).To(BeTrue())
	Expect(errors.Is(err, domain.ErrOwnerNotFound)).To(BeFalse())
	s.assertNothingStored()
}

func (s *PropertyServiceTestSuite) TestCreate_UnclassifiedFailure() {
	s.directory.err = &port.RemoteError{Kind: port.RemoteUnknown, Err: errors.New("unexpected end of JSON input")}

	_, err := s.service.Create(context.Background(), s.creation(s.ownerID))

	Expect(errors.Is(err, domain.ErrDependency)).To(BeTrue())
	s.assertNothingStored()
}

func (s *PropertyServiceTestSuite) TestCozyScenario() {
	ctx := context.Background()

	created, err := s.service.Create(ctx, s.creation(s.ownerID))
	Expect(err).ToNot(HaveOccurred())

	fetched, err := s.service.GetByID(ctx, created.ID)
	Expect(err).ToNot(HaveOccurred())
	Expect(fetched.Name).To(Equal("Cozy"))
	Expect(fetched.PricePerNight.Equal(decimal.RequireFromString("150"))).To(BeTrue())

	patched, err := s.service.Patch(ctx, created.ID, request.PropertyPatchRequest{MaxGuests: request.Some(4)})
	Expect(err).ToNot(HaveOccurred())
	Expect(patched.MaxGuests).To(Equal(4))
	Expect(patched.Name).To(Equal("Cozy"))

	deactivated, err := s.service.SetActive(ctx, created.ID, false)
	Expect(err).ToNot(HaveOccurred())
	Expect(deactivated.IsActive).To(BeFalse())

	owned, err := s.service.GetByOwner(ctx, s.ownerID)
	Expect(err).ToNot(HaveOccurred())
	Expect(owned).To(HaveLen(1))
	Expect(owned[0].MaxGuests).To(Equal(4))
	Expect(owned[0].IsActive).To(BeFalse())
}

func (s *PropertyServiceTestSuite) TestPatch_IdempotentAndPreserving() {
	ctx := context.Background()
	created, _ := s.service.Create(ctx, s.creation(s.ownerID))

	patch := request.PropertyPatchRequest{
		City:          request.Some("Porto"),
		PricePerNight: request.Some(request.NewPrice("99.90")),
	}

	first, err := s.service.Patch(ctx, created.ID, patch)
	Expect(err).ToNot(HaveOccurred())

	second, err := s.service.Patch(ctx, created.ID, patch)
	Expect(err).ToNot(HaveOccurred())

	assert.Equal(s.T(), first, second)
	assert.Equal(s.T(), "Porto", second.City)
	assert.Equal(s.T(), created.Name, second.Name)
	assert.Equal(s.T(), created.OwnerID, second.OwnerID)
	assert.Equal(s.T(), created.CreatedAt, second.CreatedAt)
	assert.True(s.T(), second.IsActive)
}

func (s *PropertyServiceTestSuite) TestPatch_NotFound() {
	_, err := s.service.Patch(context.Background(), uuid.New(), request.PropertyPatchRequest{Name: request.Some("x")})

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *PropertyServiceTestSuite) TestSetActive_Reversible() {
	ctx := context.Background()
	created, _ := s.service.Create(ctx, s.creation(s.ownerID))

	s.service.SetActive(ctx, created.ID, false)
	restored, err := s.service.SetActive(ctx, created.ID, true)

	Expect(err).ToNot(HaveOccurred())

	assert.True(s.T(), restored.IsActive)
	assert.Equal(s.T(), created.Name, restored.Name)
	assert.Equal(s.T(), created.CreatedAt, restored.CreatedAt)
	assert.True(s.T(), created.PricePerNight.Equal(restored.PricePerNight))

	_, err = s.service.SetActive(ctx, uuid.New(), true)
	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
}

func (s *PropertyServiceTestSuite) TestGetByIDs_PartialAndNone() {
	ctx := context.Background()
	a, _ := s.service.Create(ctx, s.creation(s.ownerID))
	b, _ := s.service.Create(ctx, s.creation(s.ownerID))
	missing := uuid.New()

	found, err := s.service.GetByIDs(ctx, []uuid.UUID{a.ID, b.ID, missing})
	Expect(err).ToNot(HaveOccurred())
	Expect(found).To(HaveLen(2))

	first, second := uuid.New(), uuid.New()
	_, err = s.service.GetByIDs(ctx, []uuid.UUID{first, second})

	Expect(errors.Is(err, domain.ErrNotFound)).To(BeTrue())
	Expect(err.Error()).To(Equal("Property with ids: " + first.String() + ", " + second.String() + " not found"))
}

func (s *PropertyServiceTestSuite) TestGetByOwner_Empty() {
	owned, err := s.service.GetByOwner(context.Background(), uuid.New())

	Expect(err).ToNot(HaveOccurred())
	Expect(owned).To(BeEmpty())
	Expect(s.directory.calls).To(Equal(0))
}

func (s *PropertyServiceTestSuite) TestGetAll_PageEnvelope() {
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		s.service.Create(ctx, s.creation(s.ownerID))
	}

	page, err := s.service.GetAll(ctx, 1, 2)

	Expect(err).ToNot(HaveOccurred())
	Expect(page.Content).To(HaveLen(1))
	Expect(page.TotalElements).To(Equal(3))
	Expect(page.TotalPages).To(Equal(2))
	Expect(page.Page).To(Equal(1))
	Expect(page.Size).To(Equal(2))
}
