package database

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

// Scope is a composable query filter. Scopes are plain functions so they can
// be combined freely and applied to any repository query.
type Scope = func(*gorm.DB) *gorm.DB

// Ordered sorts by the display order, oldest first on ties.
func Ordered() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC").Order("id ASC")
	}
}

func Latest() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at DESC").Order("id DESC")
	}
}

func Limit(n int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if n <= 0 {
			return db
		}
		return db.Limit(n)
	}
}

// Paginate applies a 1-based page window.
func Paginate(page, perPage int) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if perPage <= 0 {
			return db
		}
		return db.Offset((page - 1) * perPage).Limit(perPage)
	}
}

// Search matches term against any of the given columns.
func Search(term string, columns ...string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		like := "%" + strings.ToLower(term) + "%"
		clauses := make([]string, len(columns))
		args := make([]interface{}, len(columns))
		for i, col := range columns {
			clauses[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = like
		}
		return db.Where(strings.Join(clauses, " OR "), args...)
	}
}

// Published is the project publication gate: flagged published with a
// publication time that is not in the future.
func Published(now time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_published = ?", true).
			Where("published_at IS NOT NULL").
			Where("published_at <= ?", now)
	}
}

// PublishedFlag filters on the raw flag, ignoring the publication date.
func PublishedFlag(published bool) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_published = ?", published)
	}
}

func Featured() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_featured = ?", true)
	}
}

func InPortfolio() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("show_in_portfolio = ?", true)
	}
}

func WithProjectStatus(status models.ProjectStatus) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}
}

// WithTechnology keeps projects linked to the technology with the given slug.
func WithTechnology(slug string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(`EXISTS (
			SELECT 1 FROM project_technologies pt
			JOIN technologies t ON t.id = pt.technology_id
			WHERE pt.project_id = projects.id AND t.slug = ?)`, slug)
	}
}

func ExcludeID(id uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("id <> ?", id)
	}
}

// TestimonialsPublished filters testimonials by their own published flag.
func TestimonialsPublished() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_published = ?", true)
	}
}

func ForProject(projectID uint) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("project_id = ?", projectID)
	}
}

func Highlighted() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_highlighted = ?", true)
	}
}

func InCategory(category string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("category = ?", category)
	}
}

func OfType(technologyType string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("type = ?", technologyType)
	}
}

func Current() Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_current = ?", true)
	}
}

// ExpiredCertifications mirrors Certification.IsExpired at query time.
func ExpiredCertifications(now time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("does_not_expire = ?", false).
			Where("expiry_date IS NOT NULL").
			Where("expiry_date < ?", models.DateOf(now))
	}
}

// ActiveCertifications is the complement of ExpiredCertifications.
func ActiveCertifications(now time.Time) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("does_not_expire = ? OR expiry_date IS NULL OR expiry_date >= ?", true, models.DateOf(now))
	}
}

func WithMessageStatus(status models.MessageStatus) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("status = ?", status)
	}
}

func Unread() Scope {
	return WithMessageStatus(models.MessageStatusNew)
}
