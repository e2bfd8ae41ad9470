package license

import "time"

// LicenseType is the kind of product grant a license represents.
type LicenseType string

const (
	TypeFull    LicenseType = "FULL"
	TypePartial LicenseType = "PARTIAL"
)

func (t LicenseType) Valid() bool {
	return t == TypeFull || t == TypePartial
}

// License is a grant of product usage scoped to an organization.
//
// LicenseID and ProductName are globally unique across all organizations; the
// unique indexes are the authoritative backstop for the create-time race
// between the pre-check and the insert. (LicenseID, OrganizationID) is the
// lookup key for read/update/delete.
type License struct {
	ID             string      `gorm:"column:id;primaryKey" json:"id"`
	LicenseID      string      `gorm:"column:license_id;uniqueIndex" json:"licenseId"`
	Description    string      `gorm:"column:description" json:"description"`
	OrganizationID string      `gorm:"column:organization_id;index" json:"organizationId"`
	ProductName    string      `gorm:"column:product_name;uniqueIndex" json:"productName"`
	LicenseType    LicenseType `gorm:"column:license_type" json:"licenseType"`
	Comment        string      `gorm:"column:comment" json:"comment,omitempty"`
	CreatedAt      time.Time   `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt      time.Time   `gorm:"column:updated_at" json:"updatedAt"`
}

func (License) TableName() string {
	return "license"
}

// CreateLicenseRequest is the create payload. OrganizationID deliberately has
// no field here: ownership always comes from the request path.
type CreateLicenseRequest struct {
	LicenseID   string      `json:"licenseId"`
	Description string      `json:"description"`
	ProductName string      `json:"productName"`
	LicenseType LicenseType `json:"licenseType"`
	Comment     string      `json:"comment,omitempty"`
}
