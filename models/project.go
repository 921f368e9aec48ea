package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectStatus string

const (
	ProjectStatusDraft      ProjectStatus = "draft"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusArchived   ProjectStatus = "archived"
)

var ProjectStatuses = []ProjectStatus{
	ProjectStatusDraft,
	ProjectStatusInProgress,
	ProjectStatusCompleted,
	ProjectStatusArchived,
}

func (s ProjectStatus) Valid() bool {
	for _, status := range ProjectStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Label is the Spanish display name used by the admin dashboard.
func (s ProjectStatus) Label() string {
	switch s {
	case ProjectStatusDraft:
		return "Borrador"
	case ProjectStatusInProgress:
		return "En progreso"
	case ProjectStatusCompleted:
		return "Completado"
	case ProjectStatusArchived:
		return "Archivado"
	}
	return string(s)
}

// Project represents a portfolio project with its media, links and publication state
type Project struct {
	ID               uint                        `json:"id" gorm:"primaryKey"`
	UserID           *uint                       `json:"user_id,omitempty" gorm:"index"`
	Title            string                      `json:"title" gorm:"type:varchar(255);not null"`
	Slug             string                      `json:"slug" gorm:"type:varchar(255);not null;uniqueIndex"`
	ShortDescription *string                     `json:"short_description,omitempty" gorm:"type:text"`
	Content          string                      `json:"content" gorm:"type:text;not null"`
	FeaturedImage    *string                     `json:"featured_image,omitempty" gorm:"type:varchar(255)"`
	Thumbnail        *string                     `json:"thumbnail,omitempty" gorm:"type:varchar(255)"`
	Gallery          datatypes.JSONSlice[string] `json:"gallery"`
	DemoURL          *string                     `json:"demo_url,omitempty" gorm:"type:varchar(255)"`
	RepositoryURL    *string                     `json:"repository_url,omitempty" gorm:"type:varchar(255)"`
	ClientName       *string                     `json:"client_name,omitempty" gorm:"type:varchar(255)"`
	ClientURL        *string                     `json:"client_url,omitempty" gorm:"type:varchar(255)"`
	StartDate        *time.Time                  `json:"start_date,omitempty" gorm:"type:date"`
	EndDate          *time.Time                  `json:"end_date,omitempty" gorm:"type:date"`
	Status           ProjectStatus               `json:"status" gorm:"type:varchar(20);not null;default:'draft';index"`
	IsFeatured       bool                        `json:"is_featured" gorm:"not null;default:false;index"`
	IsPublished      bool                        `json:"is_published" gorm:"not null;default:false;index"`
	ShowInPortfolio  bool                        `json:"show_in_portfolio" gorm:"not null;default:false"`
	ViewsCount       int64                       `json:"views_count" gorm:"not null;default:0"`
	LikesCount       int64                       `json:"likes_count" gorm:"not null;default:0"`
	DisplayOrder     int                         `json:"order" gorm:"not null;default:0;index"`
	PublishedAt      *time.Time                  `json:"published_at,omitempty"`
	CreatedAt        time.Time                   `json:"created_at"`
	UpdatedAt        time.Time                   `json:"updated_at"`
	DeletedAt        gorm.DeletedAt              `json:"deleted_at,omitempty" gorm:"index"`

	Features     []Feature           `json:"features,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Technologies []ProjectTechnology `json:"technologies,omitempty" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

// ProjectTechnology links a project to a technology with a per-project order
type ProjectTechnology struct {
	ProjectID    uint `json:"project_id" gorm:"primaryKey"`
	TechnologyID uint `json:"technology_id" gorm:"primaryKey;index"`
	DisplayOrder int  `json:"order" gorm:"not null;default:0"`

	Technology Technology `json:"technology" gorm:"foreignKey:TechnologyID;constraint:OnDelete:CASCADE"`
}

// IsPublic reports whether the project passes the publication gate at now.
func (p *Project) IsPublic(now time.Time) bool {
	return p.IsPublished && p.PublishedAt != nil && !p.PublishedAt.After(now)
}

// Publish marks the project published, stamping published_at only when it
// has never been set so scheduled dates are preserved.
func (p *Project) Publish(now time.Time) {
	p.IsPublished = true
	if p.PublishedAt == nil {
		stamp := now
		p.PublishedAt = &stamp
	}
}

// AssetPaths lists every stored file referenced by the project.
func (p *Project) AssetPaths() []string {
	var paths []string
	for _, ref := range []*string{p.FeaturedImage, p.Thumbnail} {
		if ref != nil && *ref != "" {
			paths = append(paths, *ref)
		}
	}
	for _, img := range p.Gallery {
		if img != "" {
			paths = append(paths, img)
		}
	}
	return paths
}

// TechnologyNames returns the linked technology names in per-project order.
// Technologies must already be sorted by the repository.
func (p *Project) TechnologyNames() []string {
	names := make([]string, 0, len(p.Technologies))
	for _, pt := range p.Technologies {
		if pt.Technology.Name != "" {
			names = append(names, pt.Technology.Name)
		}
	}
	return names
}
