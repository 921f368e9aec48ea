package api

import (
	"errors"
	"net/http"
	"strconv"

	"gorm.io/gorm"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/validation"
)

// handlerDeps is what the handlers are built from
type handlerDeps struct {
	database    database.Database
	validator   *validation.Validator
	assets      *services.AssetManager
	contact     *services.ContactService
	seo         *services.SEO
	clock       models.Clock
	tokens      tokenIssuer
	credentials credentials
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps handlerDeps) *routeHandlers {
	db := deps.database
	v := deps.validator
	p := presenter{assets: deps.assets, clock: deps.clock}

	return &routeHandlers{
		authHandler:           newAuthHandler(v, deps.tokens, deps.credentials),
		dashboardHandler:      newDashboardHandler(db, deps.clock),
		projectHandler:        newProjectHandler(db.ProjectRepo(), v, deps.assets, p),
		technologyHandler:     newCrudHandler[models.Technology, technologyInput](v, deps.assets, technologyResource(db, p)),
		featureHandler:        newCrudHandler[models.Feature, featureInput](v, deps.assets, featureResource(db, p)),
		skillHandler:          newCrudHandler[models.Skill, skillInput](v, deps.assets, skillResource(db, p)),
		experienceHandler:     newCrudHandler[models.Experience, experienceInput](v, deps.assets, experienceResource(db, p)),
		educationHandler:      newCrudHandler[models.Education, educationInput](v, deps.assets, educationResource(db, p)),
		certificationHandler:  newCrudHandler[models.Certification, certificationInput](v, deps.assets, certificationResource(db, p)),
		testimonialHandler:    newCrudHandler[models.Testimonial, testimonialInput](v, deps.assets, testimonialResource(db, p)),
		contactMessageHandler: newContactMessageHandler(db.ContactMessageRepo(), deps.contact, v),
		reorderHandler:        newReorderHandler(db.Reorderer()),
		publicHandler:         newPublicHandler(db, deps.contact, deps.seo, v, p),
	}
}

func queryID(r *http.Request, key string) (uint, bool) {
	id, err := strconv.ParseUint(r.URL.Query().Get(key), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// projectMustExist reports a missing or trashed project as a field error
func projectMustExist(repo *database.ProjectRepo, projectID uint) error {
	if _, err := repo.FindByID(projectID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errs.NewFieldValidationError("project_id", "The selected project does not exist")
		}
		return wrapDatabaseError("find", "project", err)
	}
	return nil
}

func technologyResource(db database.Database, p presenter) resource[models.Technology] {
	repo := db.TechnologyRepo()
	return resource[models.Technology]{
		entity: "technology",
		repo:   repo.Repo,
		listScopes: func(r *http.Request) []database.Scope {
			if t := r.URL.Query().Get("type"); t != "" {
				return []database.Scope{database.OfType(t)}
			}
			return nil
		},
		setOrder: func(t *models.Technology, order int) { t.DisplayOrder = order },
		prepare: func(_ *http.Request, t *models.Technology, id uint) error {
			return resolveSlug(&t.Slug, t.Name, id, repo.SlugExists)
		},
		present: p.technology,
		toggles: map[string]string{"is_featured": "is_featured"},
	}
}

func featureResource(db database.Database, p presenter) resource[models.Feature] {
	return resource[models.Feature]{
		entity: "feature",
		repo:   db.FeatureRepo(),
		listScopes: func(r *http.Request) []database.Scope {
			if id, ok := queryID(r, "project_id"); ok {
				return []database.Scope{database.ForProject(id)}
			}
			return nil
		},
		orderScopes: func(f *models.Feature) []database.Scope {
			return []database.Scope{database.ForProject(f.ProjectID)}
		},
		setOrder: func(f *models.Feature, order int) { f.DisplayOrder = order },
		prepare: func(_ *http.Request, f *models.Feature, _ uint) error {
			return projectMustExist(db.ProjectRepo(), f.ProjectID)
		},
		present: p.feature,
	}
}

func skillResource(db database.Database, p presenter) resource[models.Skill] {
	return resource[models.Skill]{
		entity: "skill",
		repo:   db.SkillRepo(),
		listScopes: func(r *http.Request) []database.Scope {
			var scopes []database.Scope
			if category := r.URL.Query().Get("category"); category != "" {
				scopes = append(scopes, database.InCategory(category))
			}
			if highlighted, _ := queryBool(r, "highlighted"); highlighted {
				scopes = append(scopes, database.Highlighted())
			}
			return scopes
		},
		setOrder: func(s *models.Skill, order int) { s.DisplayOrder = order },
		present:  p.skill,
		toggles:  map[string]string{"is_highlighted": "is_highlighted"},
	}
}

func experienceResource(db database.Database, p presenter) resource[models.Experience] {
	return resource[models.Experience]{
		entity:   "experience",
		repo:     db.ExperienceRepo(),
		setOrder: func(e *models.Experience, order int) { e.DisplayOrder = order },
		present:  p.experience,
		media: map[string]mediaField[models.Experience]{
			"company_logo": {dir: "experiences", ref: func(e *models.Experience) **string { return &e.CompanyLogo }},
		},
	}
}

func educationResource(db database.Database, p presenter) resource[models.Education] {
	return resource[models.Education]{
		entity:   "education",
		repo:     db.EducationRepo(),
		setOrder: func(e *models.Education, order int) { e.DisplayOrder = order },
		present:  p.education,
		media: map[string]mediaField[models.Education]{
			"institution_logo": {dir: "educations", ref: func(e *models.Education) **string { return &e.InstitutionLogo }},
		},
	}
}

func certificationResource(db database.Database, p presenter) resource[models.Certification] {
	return resource[models.Certification]{
		entity: "certification",
		repo:   db.CertificationRepo(),
		listScopes: func(r *http.Request) []database.Scope {
			switch r.URL.Query().Get("status") {
			case "active":
				return []database.Scope{database.ActiveCertifications(p.clock.Now())}
			case "expired":
				return []database.Scope{database.ExpiredCertifications(p.clock.Now())}
			}
			return nil
		},
		setOrder: func(c *models.Certification, order int) { c.DisplayOrder = order },
		present:  p.certification,
		media: map[string]mediaField[models.Certification]{
			"badge_image": {dir: "certifications", ref: func(c *models.Certification) **string { return &c.BadgeImage }},
		},
	}
}

func testimonialResource(db database.Database, p presenter) resource[models.Testimonial] {
	return resource[models.Testimonial]{
		entity: "testimonial",
		repo:   db.TestimonialRepo(),
		listScopes: func(r *http.Request) []database.Scope {
			var scopes []database.Scope
			if id, ok := queryID(r, "project_id"); ok {
				scopes = append(scopes, database.ForProject(id))
			}
			if published, _ := queryBool(r, "published"); published {
				scopes = append(scopes, database.TestimonialsPublished())
			}
			return scopes
		},
		setOrder: func(t *models.Testimonial, order int) { t.DisplayOrder = order },
		prepare: func(_ *http.Request, t *models.Testimonial, _ uint) error {
			if t.ProjectID == nil {
				return nil
			}
			return projectMustExist(db.ProjectRepo(), *t.ProjectID)
		},
		present: p.testimonial,
		media: map[string]mediaField[models.Testimonial]{
			"client_avatar": {dir: "testimonials", ref: func(t *models.Testimonial) **string { return &t.ClientAvatar }},
		},
		toggles: map[string]string{"is_featured": "is_featured", "is_published": "is_published"},
	}
}
