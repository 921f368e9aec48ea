package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/metrics"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/validation"
)

const (
	homeFeaturedProjects = 6
	relatedProjects      = 3
	defaultPerPage       = 12
	maxPerPage           = 50
)

// publicHandler serves the read-only public surface and the contact form.
// Every project query goes through the publication gate.
type publicHandler struct {
	responder Responder
	logger    zerolog.Logger
	validator *validation.Validator
	db        database.Database
	contact   *services.ContactService
	seo       *services.SEO
	presenter presenter
}

func newPublicHandler(db database.Database, contact *services.ContactService, seo *services.SEO, v *validation.Validator, p presenter) publicHandler {
	logger := log.With().Str("handlerName", "publicHandler").Logger()

	return publicHandler{
		responder: NewResponder(logger),
		logger:    logger,
		validator: v,
		db:        db,
		contact:   contact,
		seo:       seo,
		presenter: p,
	}
}

func (h publicHandler) routes(r chi.Router, contactLimiter *ipRateLimiter) {
	r.Get("/home", h.home())
	r.Get("/projects", h.projects())
	r.Get("/projects/{slug}", h.project())
	r.Post("/projects/{slug}/like", h.likeProject())
	r.Get("/technologies", h.technologies())
	r.Get("/skills", h.skills())
	r.Get("/experiences", h.experiences())
	r.Get("/educations", h.educations())
	r.Get("/certifications", h.certifications())
	r.Get("/testimonials", h.testimonials())
	r.With(contactLimiter.middleware).Post("/contact", h.submitContact())
}

// publicProjects is the publication gate plus the portfolio flag
func (h publicHandler) publicProjects() []database.Scope {
	return []database.Scope{database.Published(h.presenter.clock.Now()), database.InPortfolio()}
}

// HomeResponse is everything the landing page shows
type HomeResponse struct {
	FeaturedProjects []ProjectView       `json:"featured_projects"`
	Skills           []models.SkillGroup `json:"skills"`
	Experiences      []ExperienceView    `json:"experiences"`
	Educations       []EducationView     `json:"educations"`
	Certifications   []CertificationView `json:"certifications"`
	Testimonials     []TestimonialView   `json:"testimonials"`
	SEO              *services.Metadata  `json:"seo"`
}

// home loads the landing page sections concurrently
// @Summary Home page
// @Tags Public
// @Produce json
// @Success 200 {object} HomeResponse
// @Router /public/home [get]
func (h publicHandler) home() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			projects       []*models.Project
			skills         []*models.Skill
			experiences    []*models.Experience
			educations     []*models.Education
			certifications []*models.Certification
			testimonials   []*models.Testimonial
		)

		g := new(errgroup.Group)
		g.Go(func() (err error) {
			scopes := append(h.publicProjects(), database.Featured(), database.Ordered(), database.Limit(homeFeaturedProjects))
			projects, err = h.db.ProjectRepo().FindAll(scopes...)
			return err
		})
		g.Go(func() (err error) {
			skills, err = h.db.SkillRepo().FindAll(database.Ordered())
			return err
		})
		g.Go(func() (err error) {
			experiences, err = h.db.ExperienceRepo().FindAll(database.Ordered())
			return err
		})
		g.Go(func() (err error) {
			educations, err = h.db.EducationRepo().FindAll(database.Ordered())
			return err
		})
		g.Go(func() (err error) {
			certifications, err = h.db.CertificationRepo().FindAll(database.Ordered())
			return err
		})
		g.Go(func() (err error) {
			testimonials, err = h.db.TestimonialRepo().FindAll(database.TestimonialsPublished(), database.Featured(), database.Ordered())
			return err
		})
		if err := g.Wait(); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("load", "home page", err))
			return
		}

		h.responder.WriteJSON(w, HomeResponse{
			FeaturedProjects: h.presenter.projects(projects),
			Skills:           skillGroups(skills),
			Experiences:      mapViews(experiences, h.presenter.experienceView),
			Educations:       mapViews(educations, h.presenter.educationView),
			Certifications:   mapViews(certifications, h.presenter.certificationView),
			Testimonials:     mapViews(testimonials, h.presenter.testimonialView),
			SEO:              h.seo.Home(),
		})
	}
}

// PortfolioResponse is one page of the public portfolio
type PortfolioResponse struct {
	Data    []ProjectView      `json:"data"`
	Total   int64              `json:"total"`
	Page    int                `json:"page"`
	PerPage int                `json:"per_page"`
	SEO     *services.Metadata `json:"seo"`
}

// projects lists published portfolio projects
// @Summary Portfolio
// @Tags Public
// @Produce json
// @Param technology query string false "Technology slug"
// @Param featured query bool false "Featured projects only"
// @Param page query int false "Page, starting at 1"
// @Param per_page query int false "Page size, at most 50"
// @Success 200 {object} PortfolioResponse
// @Router /public/projects [get]
func (h publicHandler) projects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scopes := h.publicProjects()
		if tech := strings.TrimSpace(r.URL.Query().Get("technology")); tech != "" {
			scopes = append(scopes, database.WithTechnology(tech))
		}
		if featured, _ := queryBool(r, "featured"); featured {
			scopes = append(scopes, database.Featured())
		}

		page := queryInt(r, "page", 1)
		if page < 1 {
			page = 1
		}
		perPage := queryInt(r, "per_page", defaultPerPage)
		if perPage < 1 || perPage > maxPerPage {
			perPage = defaultPerPage
		}

		repo := h.db.ProjectRepo()
		total, err := repo.Count(scopes...)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "projects", err))
			return
		}
		projects, err := repo.FindAll(append(scopes, database.Ordered(), database.Paginate(page, perPage))...)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}

		h.responder.WriteJSON(w, PortfolioResponse{
			Data:    h.presenter.projects(projects),
			Total:   total,
			Page:    page,
			PerPage: perPage,
			SEO:     h.seo.PortfolioIndex(projects),
		})
	}
}

// ProjectDetailResponse is a public project page
type ProjectDetailResponse struct {
	Project      ProjectView        `json:"project"`
	Related      []ProjectView      `json:"related"`
	Testimonials []TestimonialView  `json:"testimonials"`
	SEO          *services.Metadata `json:"seo"`
}

func (h publicHandler) findPublished(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	slug := chi.URLParam(r, "slug")
	project, err := h.db.ProjectRepo().FindBySlug(slug, h.publicProjects()...)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
		return nil, false
	}
	return project, true
}

// project shows one published project and counts the view
// @Summary Project detail
// @Tags Public
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} ProjectDetailResponse
// @Failure 404 {object} ErrorResponse "Not Found - No published project with this slug"
// @Router /public/projects/{slug} [get]
func (h publicHandler) project() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.findPublished(w, r)
		if !ok {
			return
		}

		repo := h.db.ProjectRepo()
		if err := repo.IncrementViews(project.ID); err != nil {
			h.logger.Warn().Err(err).Uint("projectId", project.ID).Msg("Failed to count project view")
		} else {
			project.ViewsCount++
			metrics.IncrementProjectView()
		}

		related, err := repo.Related(project, h.presenter.clock.Now(), relatedProjects)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find related", "projects", err))
			return
		}
		testimonials, err := h.db.TestimonialRepo().FindAll(database.ForProject(project.ID), database.TestimonialsPublished(), database.Ordered())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "testimonials", err))
			return
		}

		h.responder.WriteJSON(w, ProjectDetailResponse{
			Project:      h.presenter.project(project),
			Related:      h.presenter.projects(related),
			Testimonials: mapViews(testimonials, h.presenter.testimonialView),
			SEO:          h.seo.ProjectDetail(project),
		})
	}
}

// likeProject adds one like to a published project
// @Summary Like project
// @Tags Public
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} map[string]int64
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /public/projects/{slug}/like [post]
func (h publicHandler) likeProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.findPublished(w, r)
		if !ok {
			return
		}
		if err := h.db.ProjectRepo().IncrementLikes(project.ID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("like", "project", err))
			return
		}
		metrics.IncrementProjectLike()
		h.responder.WriteJSON(w, map[string]int64{"likes_count": project.LikesCount + 1})
	}
}

// technologies lists technologies with how many projects use them
// @Summary Technologies
// @Tags Public
// @Produce json
// @Param type query string false "Technology type"
// @Success 200 {object} CollectionResponse[TechnologyView]
// @Router /public/technologies [get]
func (h publicHandler) technologies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var scopes []database.Scope
		if t := strings.TrimSpace(r.URL.Query().Get("type")); t != "" {
			scopes = append(scopes, database.OfType(t))
		}
		repo := h.db.TechnologyRepo()
		technologies, err := repo.FindAll(append(scopes, database.Ordered())...)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "technologies", err))
			return
		}
		counts, err := repo.ProjectCounts()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("count", "technology projects", err))
			return
		}

		views := make([]TechnologyView, 0, len(technologies))
		for _, t := range technologies {
			count := counts[t.ID]
			views = append(views, TechnologyView{Technology: t, ProjectsCount: &count})
		}
		h.responder.WriteJSON(w, newCollection(views))
	}
}

// skills returns skills grouped by category, in display order
// @Summary Skills
// @Tags Public
// @Produce json
// @Param highlighted query bool false "Highlighted skills only"
// @Success 200 {object} CollectionResponse[models.SkillGroup]
// @Router /public/skills [get]
func (h publicHandler) skills() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var scopes []database.Scope
		if highlighted, _ := queryBool(r, "highlighted"); highlighted {
			scopes = append(scopes, database.Highlighted())
		}
		skills, err := h.db.SkillRepo().FindAll(append(scopes, database.Ordered())...)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "skills", err))
			return
		}
		h.responder.WriteJSON(w, newCollection(skillGroups(skills)))
	}
}

// experiences lists work experience with period labels and durations
// @Summary Experience
// @Tags Public
// @Produce json
// @Success 200 {object} CollectionResponse[ExperienceView]
// @Router /public/experiences [get]
func (h publicHandler) experiences() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.db.ExperienceRepo().FindAll(database.Ordered())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "experiences", err))
			return
		}
		h.responder.WriteJSON(w, newCollection(mapViews(items, h.presenter.experienceView)))
	}
}

// educations lists education entries with period labels and durations
// @Summary Education
// @Tags Public
// @Produce json
// @Success 200 {object} CollectionResponse[EducationView]
// @Router /public/educations [get]
func (h publicHandler) educations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := h.db.EducationRepo().FindAll(database.Ordered())
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "educations", err))
			return
		}
		h.responder.WriteJSON(w, newCollection(mapViews(items, h.presenter.educationView)))
	}
}

// certifications lists certifications with their status computed now
// @Summary Certifications
// @Tags Public
// @Produce json
// @Param status query string false "active or expired"
// @Success 200 {object} CollectionResponse[CertificationView]
// @Router /public/certifications [get]
func (h publicHandler) certifications() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var scopes []database.Scope
		switch status := r.URL.Query().Get("status"); status {
		case "":
		case "active":
			scopes = append(scopes, database.ActiveCertifications(h.presenter.clock.Now()))
		case "expired":
			scopes = append(scopes, database.ExpiredCertifications(h.presenter.clock.Now()))
		default:
			h.responder.WriteError(w, errs.NewFieldValidationError("status", "Must be one of: active, expired"))
			return
		}
		items, err := h.db.CertificationRepo().FindAll(append(scopes, database.Ordered())...)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "certifications", err))
			return
		}
		h.responder.WriteJSON(w, newCollection(mapViews(items, h.presenter.certificationView)))
	}
}

// testimonials lists published testimonials
// @Summary Testimonials
// @Tags Public
// @Produce json
// @Param featured query bool false "Featured testimonials only"
// @Success 200 {object} CollectionResponse[TestimonialView]
// @Router /public/testimonials [get]
func (h publicHandler) testimonials() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scopes := []database.Scope{database.TestimonialsPublished()}
		if featured, _ := queryBool(r, "featured"); featured {
			scopes = append(scopes, database.Featured())
		}
		items, err := h.db.TestimonialRepo().FindAll(append(scopes, database.Ordered())...)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "testimonials", err))
			return
		}
		h.responder.WriteJSON(w, newCollection(mapViews(items, h.presenter.testimonialView)))
	}
}

type contactInput struct {
	Name    string  `json:"name" validate:"required,max=255"`
	Email   string  `json:"email" validate:"required,email,max=255"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Company *string `json:"company" validate:"omitempty,max=255"`
	Subject string  `json:"subject" validate:"omitempty,max=255"`
	Message string  `json:"message" validate:"required,min=10,max=5000"`
}

// submitContact stores a message from the public contact form
// @Summary Contact form
// @Tags Public
// @Accept json
// @Produce json
// @Param message body contactInput true "Message"
// @Success 201 {object} map[string]string
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Validation failed"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /public/contact [post]
func (h publicHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in contactInput
		if err := decodeJSON(w, r, &in); err != nil {
			metrics.IncrementContactSubmission("rejected")
			h.responder.WriteError(w, err)
			return
		}
		if err := h.validator.Struct(&in); err != nil {
			metrics.IncrementContactSubmission("rejected")
			h.responder.WriteError(w, err)
			return
		}

		ip := clientIP(r)
		userAgent := r.UserAgent()
		if len(userAgent) > 512 {
			userAgent = userAgent[:512]
		}
		msg := &models.ContactMessage{
			Name:      strings.TrimSpace(in.Name),
			Email:     strings.TrimSpace(in.Email),
			Phone:     trimmed(in.Phone),
			Company:   trimmed(in.Company),
			Subject:   strings.TrimSpace(in.Subject),
			Message:   strings.TrimSpace(in.Message),
			IPAddress: &ip,
			UserAgent: trimmed(&userAgent),
		}
		if err := h.contact.Submit(r.Context(), msg); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		metrics.IncrementContactSubmission("accepted")
		h.responder.WriteCreated(w, map[string]string{
			"message": "Gracias por tu mensaje. Te responderé lo antes posible.",
		})
	}
}

func skillGroups(skills []*models.Skill) []models.SkillGroup {
	groups := models.GroupSkillsByCategory(skills)
	if groups == nil {
		groups = []models.SkillGroup{}
	}
	return groups
}

func mapViews[T any, V any](items []*T, view func(*T) V) []V {
	out := make([]V, 0, len(items))
	for _, item := range items {
		out = append(out, view(item))
	}
	return out
}
