package api

import (
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

type slugLookup func(slug string, exceptID uint) (bool, error)

// resolveSlug rejects an explicit slug that belongs to another record and
// derives a free one from source when none is set
func resolveSlug(slug *string, source string, id uint, exists slugLookup) error {
	if *slug != "" {
		taken, err := exists(*slug, id)
		if err != nil {
			return wrapDatabaseError("check", "slug", err)
		}
		if taken {
			return errs.NewFieldValidationError("slug", "This slug is already taken")
		}
		return nil
	}

	unique, err := services.UniqueSlug(services.Slugify(source), func(candidate string) (bool, error) {
		return exists(candidate, id)
	})
	if err != nil {
		return wrapDatabaseError("check", "slug", err)
	}
	*slug = unique
	return nil
}
