package models

import "time"

const (
	CertificationLabelNoExpiry = "Sin vencimiento"
	CertificationLabelActive   = "Activa"
	CertificationLabelExpired  = "Expirada"
)

type Certification struct {
	ID                  uint       `json:"id" gorm:"primaryKey"`
	Name                string     `json:"name" gorm:"type:varchar(255);not null"`
	IssuingOrganization string     `json:"issuing_organization" gorm:"type:varchar(255);not null"`
	CredentialID        *string    `json:"credential_id,omitempty" gorm:"type:varchar(255)"`
	CredentialURL       *string    `json:"credential_url,omitempty" gorm:"type:varchar(255)"`
	BadgeImage          *string    `json:"badge_image,omitempty" gorm:"type:varchar(255)"`
	IssueDate           time.Time  `json:"issue_date" gorm:"type:date;not null"`
	ExpiryDate          *time.Time `json:"expiry_date,omitempty" gorm:"type:date"`
	DoesNotExpire       bool       `json:"does_not_expire" gorm:"not null;default:false"`
	DisplayOrder        int        `json:"order" gorm:"not null;default:0;index"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsExpired is recomputed on every call; the answer moves with now.
func (c *Certification) IsExpired(now time.Time) bool {
	if c.DoesNotExpire || c.ExpiryDate == nil {
		return false
	}
	return DateOf(*c.ExpiryDate).Before(DateOf(now))
}

func (c *Certification) IsActive(now time.Time) bool {
	return !c.IsExpired(now)
}

func (c *Certification) StatusLabel(now time.Time) string {
	switch {
	case c.DoesNotExpire:
		return CertificationLabelNoExpiry
	case c.ExpiryDate == nil:
		return CertificationLabelActive
	case c.IsExpired(now):
		return CertificationLabelExpired
	default:
		return CertificationLabelActive
	}
}

// DaysUntilExpiration is negative once the expiry date has passed and nil
// when the certification has no meaningful expiry.
func (c *Certification) DaysUntilExpiration(now time.Time) *int {
	if c.DoesNotExpire || c.ExpiryDate == nil {
		return nil
	}
	days := DaysBetween(now, *c.ExpiryDate)
	return &days
}

// CertificationView is a certification with its computed status at a given instant.
type CertificationView struct {
	*Certification
	IsExpired           bool   `json:"is_expired"`
	Status              string `json:"status"`
	DaysUntilExpiration *int   `json:"days_until_expiration"`
}

func (c *Certification) ViewAt(now time.Time) CertificationView {
	return CertificationView{
		Certification:       c,
		IsExpired:           c.IsExpired(now),
		Status:              c.StatusLabel(now),
		DaysUntilExpiration: c.DaysUntilExpiration(now),
	}
}
