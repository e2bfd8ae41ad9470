package license

import (
	"context"

	"optimagrowth-licensing/pkg/catalog"
	"optimagrowth-licensing/pkg/errutil"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// QueryService serves read-only retrieval.
type QueryService struct {
	store   Store
	catalog *catalog.Catalog
}

type QueryServiceParams struct {
	fx.In
	Store   Store
	Catalog *catalog.Catalog
}

func NewQueryService(p QueryServiceParams) *QueryService {
	return &QueryService{store: p.Store, catalog: p.Catalog}
}

func (s *QueryService) RetrieveOne(ctx context.Context, licenseID, organizationID string) (*License, error) {
	zapLog := requestLogger(ctx)

	l, err := s.store.FindByLicenseIDAndOrganizationID(ctx, licenseID, organizationID)
	if err != nil {
		zapLog.Error("failed to load license", zap.Error(err))
		return nil, err
	}
	if l == nil {
		return nil, errutil.NotFound(
			s.catalog.Lookup("exception.license.not.found.with.id", licenseID, organizationID))
	}

	return l, nil
}

// RetrieveAll returns every license of the organization. An organization
// without licenses yields an empty list, never a failure.
func (s *QueryService) RetrieveAll(ctx context.Context, organizationID string) ([]*License, error) {
	zapLog := requestLogger(ctx)

	out, err := s.store.FindAllByOrganizationID(ctx, organizationID)
	if err != nil {
		zapLog.Error("failed to list licenses", zap.Error(err))
		return nil, err
	}
	if out == nil {
		out = []*License{}
	}

	return out, nil
}
