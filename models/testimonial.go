package models

import "time"

type Testimonial struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ProjectID      *uint     `json:"project_id,omitempty" gorm:"index"`
	ClientName     string    `json:"client_name" gorm:"type:varchar(255);not null"`
	ClientPosition *string   `json:"client_position,omitempty" gorm:"type:varchar(255)"`
	ClientCompany  *string   `json:"client_company,omitempty" gorm:"type:varchar(255)"`
	ClientAvatar   *string   `json:"client_avatar,omitempty" gorm:"type:varchar(255)"`
	Content        string    `json:"content" gorm:"type:text;not null"`
	Rating         int       `json:"rating" gorm:"not null;default:5"`
	IsFeatured     bool      `json:"is_featured" gorm:"not null;default:false"`
	IsPublished    bool      `json:"is_published" gorm:"not null;default:false"`
	DisplayOrder   int       `json:"order" gorm:"not null;default:0;index"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	Project *Project `json:"project,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:SET NULL"`
}
