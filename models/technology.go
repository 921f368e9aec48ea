package models

import "time"

// Technology is a tool, language or framework that projects are tagged with
type Technology struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:varchar(100);not null"`
	Slug         string    `json:"slug" gorm:"type:varchar(120);not null;uniqueIndex"`
	Type         *string   `json:"type,omitempty" gorm:"type:varchar(50);index"`
	Icon         *string   `json:"icon,omitempty" gorm:"type:varchar(255)"`
	Color        *string   `json:"color,omitempty" gorm:"type:varchar(20)"`
	DisplayOrder int       `json:"order" gorm:"not null;default:0;index"`
	IsFeatured   bool      `json:"is_featured" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Feature is a highlighted capability of a single project
type Feature struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	ProjectID    uint      `json:"project_id" gorm:"not null;index"`
	Title        string    `json:"title" gorm:"type:varchar(255);not null"`
	Description  *string   `json:"description,omitempty" gorm:"type:text"`
	Icon         *string   `json:"icon,omitempty" gorm:"type:varchar(100)"`
	DisplayOrder int       `json:"order" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
