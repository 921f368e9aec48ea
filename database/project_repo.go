package database

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// TechnologyLink is one entry of a project's technology set.
type TechnologyLink struct {
	TechnologyID uint
	Order        int
}

type ProjectRepo struct {
	*Repo[models.Project]
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{NewRepo[models.Project](db)}
}

func withProjectRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Features", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC").Order("id ASC")
		}).
		Preload("Technologies", func(db *gorm.DB) *gorm.DB {
			return db.Order("display_order ASC").Order("technology_id ASC")
		}).
		Preload("Technologies.Technology")
}

// FindAll returns the projects matching the scopes with features and
// technologies loaded
func (r *ProjectRepo) FindAll(scopes ...Scope) ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Scopes(withProjectRelations).Scopes(scopes...).Find(&projects).Error
	return projects, err
}

// FindByID returns a project by its ID with its relations loaded
func (r *ProjectRepo) FindByID(id uint, scopes ...Scope) (*models.Project, error) {
	var project models.Project
	err := r.db.Scopes(withProjectRelations).Scopes(scopes...).First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindBySlug returns a project by its slug with its relations loaded
func (r *ProjectRepo) FindBySlug(slug string, scopes ...Scope) (*models.Project, error) {
	var project models.Project
	err := r.db.Scopes(withProjectRelations).Scopes(scopes...).Where("slug = ?", slug).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// SlugExists checks trashed projects too since the unique index covers them.
func (r *ProjectRepo) SlugExists(slug string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.Unscoped().Model(&models.Project{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	return count > 0, err
}

// FindTrashed returns soft-deleted projects, most recently deleted first
func (r *ProjectRepo) FindTrashed() ([]*models.Project, error) {
	var projects []*models.Project
	err := r.db.Unscoped().
		Where("deleted_at IS NOT NULL").
		Order("deleted_at DESC").
		Find(&projects).Error
	return projects, err
}

// Restore brings a soft-deleted project back
func (r *ProjectRepo) Restore(id uint) (*models.Project, error) {
	res := r.db.Unscoped().Model(&models.Project{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		UpdateColumn("deleted_at", nil)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(id)
}

// ForceDelete permanently removes a project, trashed or not, together with
// its features and technology links. Testimonials pointing at it are
// detached. The removed project is returned so its files can be released.
func (r *ProjectRepo) ForceDelete(id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().First(&project, id).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Feature{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectTechnology{}).Error; err != nil {
			return err
		}
		err := tx.Model(&models.Testimonial{}).
			Where("project_id = ?", id).
			UpdateColumn("project_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.Project{}, id).Error
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// IncrementViews adds one view in the database without a read-modify-write
func (r *ProjectRepo) IncrementViews(id uint) error {
	return r.increment(id, "views_count")
}

// IncrementLikes adds one like in the database without a read-modify-write
func (r *ProjectRepo) IncrementLikes(id uint) error {
	return r.increment(id, "likes_count")
}

func (r *ProjectRepo) increment(id uint, column string) error {
	res := r.db.Model(&models.Project{}).
		Where("id = ?", id).
		UpdateColumn(column, gorm.Expr(column+" + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Related returns other public projects sharing at least one technology,
// in display order.
func (r *ProjectRepo) Related(project *models.Project, now time.Time, limit int) ([]*models.Project, error) {
	techIDs := make([]uint, 0, len(project.Technologies))
	for _, pt := range project.Technologies {
		techIDs = append(techIDs, pt.TechnologyID)
	}
	if len(techIDs) == 0 {
		return []*models.Project{}, nil
	}

	return r.FindAll(
		Published(now),
		InPortfolio(),
		ExcludeID(project.ID),
		func(db *gorm.DB) *gorm.DB {
			return db.Where("id IN (?)",
				r.db.Model(&models.ProjectTechnology{}).
					Select("project_id").
					Where("technology_id IN ?", techIDs))
		},
		Ordered(),
		Limit(limit),
	)
}

// CountByStatus returns the number of live projects per status
func (r *ProjectRepo) CountByStatus() (map[models.ProjectStatus]int64, error) {
	var rows []struct {
		Status models.ProjectStatus
		Total  int64
	}
	err := r.db.Model(&models.Project{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[models.ProjectStatus]int64, len(models.ProjectStatuses))
	for _, status := range models.ProjectStatuses {
		counts[status] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Total
	}
	return counts, nil
}

// SyncTechnologies replaces the project's technology set and the order of
// each pair. Unknown technology ids fail the whole call.
func (r *ProjectRepo) SyncTechnologies(projectID uint, links []TechnologyLink) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&models.Project{}, projectID).Error; err != nil {
			return err
		}

		ids := make([]uint, 0, len(links))
		for _, link := range links {
			ids = append(ids, link.TechnologyID)
		}
		exists := make(map[uint]bool, len(ids))
		if len(ids) > 0 {
			var found []uint
			if err := tx.Model(&models.Technology{}).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
				return err
			}
			for _, id := range found {
				exists[id] = true
			}
		}

		fields := make(map[string]string)
		seen := make(map[uint]bool, len(links))
		rows := make([]models.ProjectTechnology, 0, len(links))
		for i, link := range links {
			key := fmt.Sprintf("technologies.%d.technology_id", i)
			switch {
			case !exists[link.TechnologyID]:
				fields[key] = fmt.Sprintf("technology %d does not exist", link.TechnologyID)
			case seen[link.TechnologyID]:
				fields[key] = "technology is listed more than once"
			default:
				seen[link.TechnologyID] = true
				rows = append(rows, models.ProjectTechnology{
					ProjectID:    projectID,
					TechnologyID: link.TechnologyID,
					DisplayOrder: link.Order,
				})
			}
		}
		if len(fields) > 0 {
			return errs.NewValidationError(fields)
		}

		if err := tx.Where("project_id = ?", projectID).Delete(&models.ProjectTechnology{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Omit("Technology").Create(&rows).Error
	})
}

// WithTx runs fn against a project repo bound to one transaction
func (r *ProjectRepo) WithTx(fn func(repo *ProjectRepo) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewProjectRepo(tx))
	})
}
