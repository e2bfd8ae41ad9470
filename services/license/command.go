package license

import (
	"context"

	"optimagrowth-licensing/pkg/catalog"
	"optimagrowth-licensing/pkg/errutil"
	"optimagrowth-licensing/pkg/jsonpatch"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// CommandService orchestrates license mutations. Every failure is returned as
// a typed error for the classifier; nothing is caught and swallowed here.
type CommandService struct {
	store   Store
	catalog *catalog.Catalog
}

type CommandServiceParams struct {
	fx.In
	Store   Store
	Catalog *catalog.Catalog
}

func NewCommandService(p CommandServiceParams) *CommandService {
	return &CommandService{store: p.Store, catalog: p.Catalog}
}

func requestLogger(ctx context.Context) *zap.Logger {
	span := trace.SpanFromContext(ctx)
	return zap.L().With(
		zap.String("trace_id", span.SpanContext().TraceID().String()),
		zap.String("span_id", span.SpanContext().SpanID().String()),
	)
}

// Create validates the request, enforces business-key uniqueness and persists
// a new license owned by organizationID. The organization always comes from
// the request path; any organizationId in the body is ignored by design.
func (s *CommandService) Create(ctx context.Context, req *CreateLicenseRequest, organizationID string) (*License, error) {
	zapLog := requestLogger(ctx)

	details := ValidateCreate(req, s.catalog)
	details = checkText(details, "organizationId",
		organizationID, "message.license.organization.id.blank", "message.license.organization.id.size.alert", true, s.catalog)
	if len(details) > 0 {
		return nil, errutil.ValidationFailed(
			s.catalog.Lookup("exception.method.argument.not.valid"),
			errutil.WithDetails(details...),
		)
	}

	exists, err := LicenseIDExists(ctx, s.store, req.LicenseID)
	if err != nil {
		zapLog.Error("failed to check license id uniqueness", zap.Error(err))
		return nil, err
	}
	if exists {
		zapLog.Warn("license id already exists", zap.String("license_id", req.LicenseID))
		return nil, errutil.Conflict(s.catalog.Lookup("exception.license.id.already.exists", req.LicenseID))
	}

	exists, err = ProductNameExists(ctx, s.store, req.ProductName)
	if err != nil {
		zapLog.Error("failed to check product name uniqueness", zap.Error(err))
		return nil, err
	}
	if exists {
		zapLog.Warn("product name already exists", zap.String("product_name", req.ProductName))
		return nil, errutil.Conflict(s.catalog.Lookup("exception.license.product.name.already.exists", req.ProductName))
	}

	l := &License{
		LicenseID:      req.LicenseID,
		Description:    req.Description,
		OrganizationID: organizationID,
		ProductName:    req.ProductName,
		LicenseType:    req.LicenseType,
		Comment:        req.Comment,
	}

	// The pre-checks above are racy by nature; the unique indexes are the
	// backstop and a losing writer surfaces here as a conflict.
	if err := s.store.Save(ctx, l); err != nil {
		zapLog.Error("failed to persist license", zap.Error(err))
		return nil, err
	}

	zapLog.Info("license created",
		zap.String("license_id", l.LicenseID),
		zap.String("organization_id", l.OrganizationID),
	)

	return l, nil
}

// Update loads the license by its composite key, applies the patch document
// atomically, re-validates the patched entity and persists it. The original
// entity is untouched unless the whole pipeline succeeds.
func (s *CommandService) Update(ctx context.Context, licenseID, organizationID string, doc []byte) (*License, error) {
	zapLog := requestLogger(ctx)

	current, err := s.store.FindByLicenseIDAndOrganizationID(ctx, licenseID, organizationID)
	if err != nil {
		zapLog.Error("failed to load license", zap.Error(err))
		return nil, err
	}
	if current == nil {
		return nil, errutil.NotFound(
			s.catalog.Lookup("exception.license.not.found.with.id", licenseID, organizationID))
	}

	patch, err := jsonpatch.Decode(doc)
	if err != nil {
		return nil, errutil.PatchFailed(
			s.catalog.Lookup("exception.patch.malformed"), errutil.WithErr(err))
	}

	next, err := applyPatch(patch, current)
	if err != nil {
		return nil, errutil.PatchFailed(
			s.catalog.Lookup("exception.patch.apply.failed"), errutil.WithErr(err))
	}

	// Identity, ownership and the store-owned timestamps are not patchable.
	if next.ID != current.ID || next.OrganizationID != current.OrganizationID ||
		!next.CreatedAt.Equal(current.CreatedAt) || !next.UpdatedAt.Equal(current.UpdatedAt) {
		return nil, errutil.PatchFailed(s.catalog.Lookup("exception.patch.immutable.field"))
	}

	if details := ValidateEntity(next, s.catalog); len(details) > 0 {
		return nil, errutil.PatchFailed(
			s.catalog.Lookup("exception.patch.apply.failed"),
			errutil.WithDetails(details...),
		)
	}

	if err := s.store.Save(ctx, next); err != nil {
		zapLog.Error("failed to persist patched license", zap.Error(err))
		return nil, err
	}

	zapLog.Info("license updated",
		zap.String("license_id", next.LicenseID),
		zap.String("organization_id", next.OrganizationID),
	)

	return next, nil
}

// Delete removes the license matching the composite key. Deleting a key that
// matches nothing succeeds and changes nothing.
func (s *CommandService) Delete(ctx context.Context, licenseID, organizationID string) error {
	zapLog := requestLogger(ctx)

	if err := s.store.DeleteByLicenseIDAndOrganizationID(ctx, licenseID, organizationID); err != nil {
		zapLog.Error("failed to delete license", zap.Error(err))
		return err
	}

	zapLog.Info("license deleted",
		zap.String("license_id", licenseID),
		zap.String("organization_id", organizationID),
	)

	return nil
}
