package license

import (
	"context"
	"strings"

	"optimagrowth-licensing/pkg/catalog"
	"optimagrowth-licensing/pkg/errutil"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const sizeRule = "min=3,max=50"

// checkText runs the fixed constraint order for a text field: required first,
// then size. At most one message per field per pass.
func checkText(details []errutil.Detail, field, value, blankKey, sizeKey string, required bool, cat *catalog.Catalog) []errutil.Detail {
	if strings.TrimSpace(value) == "" {
		if required {
			return append(details, errutil.Detail{Field: field, Message: cat.Lookup(blankKey)})
		}
		return details
	}
	if err := validate.Var(value, sizeRule); err != nil {
		return append(details, errutil.Detail{Field: field, Message: cat.Lookup(sizeKey)})
	}
	return details
}

func checkType(details []errutil.Detail, field string, value LicenseType, cat *catalog.Catalog) []errutil.Detail {
	if value == "" {
		return append(details, errutil.Detail{Field: field, Message: cat.Lookup("message.license.type.null")})
	}
	if !value.Valid() {
		return append(details, errutil.Detail{Field: field, Message: cat.Lookup("message.license.type.not.valid.alert")})
	}
	return details
}

// ValidateCreate checks the create request field constraints in declaration
// order so the resulting field-error map is deterministic.
func ValidateCreate(req *CreateLicenseRequest, cat *catalog.Catalog) []errutil.Detail {
	var details []errutil.Detail
	details = checkText(details, "licenseId", req.LicenseID, "message.license.id.blank", "message.license.id.size.alert", true, cat)
	details = checkText(details, "description", req.Description, "message.license.description.blank", "message.license.description.size.alert", true, cat)
	details = checkText(details, "productName", req.ProductName, "message.license.product.name.blank", "message.license.product.name.size.alert", true, cat)
	details = checkType(details, "licenseType", req.LicenseType, cat)
	details = checkText(details, "comment", req.Comment, "", "message.license.comment.size.alert", false, cat)
	return details
}

// ValidateEntity re-runs the creation constraints over a full entity. Used
// after a patch has been re-materialized into a typed License.
func ValidateEntity(l *License, cat *catalog.Catalog) []errutil.Detail {
	var details []errutil.Detail
	details = checkText(details, "licenseId", l.LicenseID, "message.license.id.blank", "message.license.id.size.alert", true, cat)
	details = checkText(details, "description", l.Description, "message.license.description.blank", "message.license.description.size.alert", true, cat)
	details = checkText(details, "organizationId", l.OrganizationID, "message.license.organization.id.blank", "message.license.organization.id.size.alert", true, cat)
	details = checkText(details, "productName", l.ProductName, "message.license.product.name.blank", "message.license.product.name.size.alert", true, cat)
	details = checkType(details, "licenseType", l.LicenseType, cat)
	details = checkText(details, "comment", l.Comment, "", "message.license.comment.size.alert", false, cat)
	return details
}

// LicenseIDExists reports whether any license carries the given business key.
// Blank input makes no uniqueness claim and is vacuously unique; required-ness
// is enforced separately.
func LicenseIDExists(ctx context.Context, store Store, licenseID string) (bool, error) {
	if strings.TrimSpace(licenseID) == "" {
		return false, nil
	}
	return store.ExistsByLicenseID(ctx, licenseID)
}

// ProductNameExists reports whether any license claims the given product name.
func ProductNameExists(ctx context.Context, store Store, productName string) (bool, error) {
	if strings.TrimSpace(productName) == "" {
		return false, nil
	}
	return store.ExistsByProductName(ctx, productName)
}
