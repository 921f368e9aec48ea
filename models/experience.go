package models

import (
	"time"

	"gorm.io/datatypes"
)

var EmploymentTypes = []string{"full_time", "part_time", "freelance", "contract", "internship"}

type Experience struct {
	ID               uint                        `json:"id" gorm:"primaryKey"`
	Title            string                      `json:"title" gorm:"type:varchar(255);not null"`
	Company          string                      `json:"company" gorm:"type:varchar(255);not null"`
	CompanyLogo      *string                     `json:"company_logo,omitempty" gorm:"type:varchar(255)"`
	CompanyURL       *string                     `json:"company_url,omitempty" gorm:"type:varchar(255)"`
	Location         *string                     `json:"location,omitempty" gorm:"type:varchar(255)"`
	EmploymentType   *string                     `json:"employment_type,omitempty" gorm:"type:varchar(30)"`
	Description      *string                     `json:"description,omitempty" gorm:"type:text"`
	Responsibilities datatypes.JSONSlice[string] `json:"responsibilities"`
	Achievements     datatypes.JSONSlice[string] `json:"achievements"`
	StartDate        time.Time                   `json:"start_date" gorm:"type:date;not null"`
	EndDate          *time.Time                  `json:"end_date,omitempty" gorm:"type:date"`
	IsCurrent        bool                        `json:"is_current" gorm:"not null;default:false"`
	DisplayOrder     int                         `json:"order" gorm:"not null;default:0;index"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
}

func (e *Experience) Range() DateRange {
	return DateRange{Start: e.StartDate, End: e.EndDate, Current: e.IsCurrent}
}

type Education struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Degree          string     `json:"degree" gorm:"type:varchar(255);not null"`
	Institution     string     `json:"institution" gorm:"type:varchar(255);not null"`
	InstitutionLogo *string    `json:"institution_logo,omitempty" gorm:"type:varchar(255)"`
	Location        *string    `json:"location,omitempty" gorm:"type:varchar(255)"`
	FieldOfStudy    *string    `json:"field_of_study,omitempty" gorm:"type:varchar(255)"`
	Description     *string    `json:"description,omitempty" gorm:"type:text"`
	StartDate       time.Time  `json:"start_date" gorm:"type:date;not null"`
	EndDate         *time.Time `json:"end_date,omitempty" gorm:"type:date"`
	IsCurrent       bool       `json:"is_current" gorm:"not null;default:false"`
	DisplayOrder    int        `json:"order" gorm:"not null;default:0;index"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// TableName keeps the plural used by the reorder collections.
func (Education) TableName() string { return "educations" }

func (e *Education) Range() DateRange {
	return DateRange{Start: e.StartDate, End: e.EndDate, Current: e.IsCurrent}
}
