package database

import (
	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

type TechnologyRepo struct {
	*Repo[models.Technology]
}

func NewTechnologyRepo(db *gorm.DB) *TechnologyRepo {
	return &TechnologyRepo{NewRepo[models.Technology](db)}
}

// FindBySlug returns a technology by its slug
func (r *TechnologyRepo) FindBySlug(slug string) (*models.Technology, error) {
	var tech models.Technology
	if err := r.db.Where("slug = ?", slug).First(&tech).Error; err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *TechnologyRepo) SlugExists(slug string, exceptID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Technology{}).
		Where("slug = ? AND id <> ?", slug, exceptID).
		Count(&count).Error
	return count > 0, err
}

// ProjectCounts returns how many live projects use each technology
func (r *TechnologyRepo) ProjectCounts() (map[uint]int64, error) {
	var rows []struct {
		TechnologyID uint
		Total        int64
	}
	err := r.db.Model(&models.ProjectTechnology{}).
		Select("project_technologies.technology_id, COUNT(*) AS total").
		Joins("JOIN projects ON projects.id = project_technologies.project_id AND projects.deleted_at IS NULL").
		Group("project_technologies.technology_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.TechnologyID] = row.Total
	}
	return counts, nil
}
