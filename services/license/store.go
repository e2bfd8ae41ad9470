package license

import (
	"context"
	"time"

	"optimagrowth-licensing/pkg/config"
	"optimagrowth-licensing/pkg/db/option"
	"optimagrowth-licensing/pkg/repository"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// Store is the narrow persistence contract the command and query services
// depend on. It is the only component that touches the database.
type Store interface {
	ExistsByLicenseID(ctx context.Context, licenseID string) (bool, error)
	ExistsByProductName(ctx context.Context, productName string) (bool, error)
	FindByLicenseIDAndOrganizationID(ctx context.Context, licenseID, organizationID string) (*License, error)
	FindAllByOrganizationID(ctx context.Context, organizationID string) ([]*License, error)
	Save(ctx context.Context, l *License) error
	DeleteByLicenseIDAndOrganizationID(ctx context.Context, licenseID, organizationID string) error
}

type gormStore struct {
	repo    repository.Repository[License]
	node    *snowflake.Node
	timeout time.Duration
	now     func() time.Time
}

type StoreParams struct {
	fx.In
	Config *config.Config
	DB     *gorm.DB
	Node   *snowflake.Node
}

func NewStore(p StoreParams) Store {
	timeout := p.Config.Database.QueryTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &gormStore{
		repo:    repository.ProvideStore[License](p.DB),
		node:    p.Node,
		timeout: timeout,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// queryContext bounds a single store call with the configured query timeout.
// An overrun fails as context.DeadlineExceeded and classifies as
// service-unavailable.
func (s *gormStore) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

func (s *gormStore) ExistsByLicenseID(ctx context.Context, licenseID string) (bool, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.repo.Exists(ctx, &License{LicenseID: licenseID})
}

func (s *gormStore) ExistsByProductName(ctx context.Context, productName string) (bool, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.repo.Exists(ctx, &License{ProductName: productName})
}

// FindByLicenseIDAndOrganizationID returns (nil, nil) when no license
// matches the composite key.
func (s *gormStore) FindByLicenseIDAndOrganizationID(ctx context.Context, licenseID, organizationID string) (*License, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.repo.FindOne(ctx, &License{LicenseID: licenseID, OrganizationID: organizationID})
}

func (s *gormStore) FindAllByOrganizationID(ctx context.Context, organizationID string) ([]*License, error) {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.repo.Find(ctx, &License{OrganizationID: organizationID}, option.WithOrder("license_id"))
}

// Save inserts or replaces. The store owns identity and timestamps: id and
// createdAt are assigned on first persistence, updatedAt on every write.
// A unique-index rejection surfaces as gorm.ErrDuplicatedKey to the caller.
func (s *gormStore) Save(ctx context.Context, l *License) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()

	now := s.now()
	if l.ID == "" {
		l.ID = s.node.Generate().String()
		l.CreatedAt = now
	}
	l.UpdatedAt = now
	return s.repo.Save(ctx, l)
}

// DeleteByLicenseIDAndOrganizationID is idempotent: deleting an absent
// composite key is a no-op, not an error.
func (s *gormStore) DeleteByLicenseIDAndOrganizationID(ctx context.Context, licenseID, organizationID string) error {
	ctx, cancel := s.queryContext(ctx)
	defer cancel()
	return s.repo.Delete(ctx, &License{LicenseID: licenseID, OrganizationID: organizationID})
}
