package database

import (
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// OrderItem assigns a display order to one record of a collection.
type OrderItem struct {
	ID    uint
	Order int
}

// reorderable maps the public collection name to the model owning its table.
var reorderable = map[string]func() interface{}{
	"projects":       func() interface{} { return &models.Project{} },
	"technologies":   func() interface{} { return &models.Technology{} },
	"features":       func() interface{} { return &models.Feature{} },
	"skills":         func() interface{} { return &models.Skill{} },
	"experiences":    func() interface{} { return &models.Experience{} },
	"educations":     func() interface{} { return &models.Education{} },
	"certifications": func() interface{} { return &models.Certification{} },
	"testimonials":   func() interface{} { return &models.Testimonial{} },
}

// Collections lists the names accepted by Reorder.
func Collections() []string {
	names := make([]string, 0, len(reorderable))
	for name := range reorderable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsReorderable reports whether collection is accepted by Reorder.
func IsReorderable(collection string) bool {
	_, ok := reorderable[collection]
	return ok
}

type Reorderer struct {
	db *gorm.DB
}

func NewReorderer(db *gorm.DB) *Reorderer {
	return &Reorderer{db}
}

// Reorder writes each item's order into the collection as one batch.
// Every id is checked before anything is written; records not listed keep
// their order and no timestamps are touched.
func (r *Reorderer) Reorder(collection string, items []OrderItem) error {
	newModel, ok := reorderable[collection]
	if !ok {
		return errs.NewUnknownCollectionError(collection)
	}
	if len(items) == 0 {
		return errs.NewFieldValidationError("items", "at least one item is required")
	}

	fields := make(map[string]string)
	ids := make([]uint, 0, len(items))
	for i, item := range items {
		if item.ID == 0 {
			fields[fmt.Sprintf("items.%d.id", i)] = "id is required"
			continue
		}
		ids = append(ids, item.ID)
	}
	if len(fields) > 0 {
		return errs.NewValidationError(fields)
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		var found []uint
		if err := tx.Model(newModel()).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
			return err
		}
		exists := make(map[uint]bool, len(found))
		for _, id := range found {
			exists[id] = true
		}
		for i, item := range items {
			if !exists[item.ID] {
				fields[fmt.Sprintf("items.%d.id", i)] = fmt.Sprintf("%s has no record with id %d", collection, item.ID)
			}
		}
		if len(fields) > 0 {
			return errs.NewValidationError(fields)
		}

		for _, item := range items {
			err := tx.Model(newModel()).
				Where("id = ?", item.ID).
				UpdateColumn("display_order", item.Order).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errs.NewDatabaseError("reorder", collection, err)
	}
	return nil
}
