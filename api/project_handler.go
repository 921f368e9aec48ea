package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/validation"
)

const (
	galleryDir   = "projects/gallery"
	galleryField = "images"
)

var projectMedia = map[string]mediaField[models.Project]{
	"featured_image": {dir: "projects/featured", ref: func(p *models.Project) **string { return &p.FeaturedImage }},
	"thumbnail":      {dir: "projects/thumbnails", ref: func(p *models.Project) **string { return &p.Thumbnail }},
}

type projectHandler struct {
	responder   Responder
	logger      zerolog.Logger
	validator   *validation.Validator
	assets      *services.AssetManager
	presenter   presenter
	projectRepo *database.ProjectRepo
}

func newProjectHandler(projectRepo *database.ProjectRepo, v *validation.Validator, assets *services.AssetManager, p presenter) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		validator:   v,
		assets:      assets,
		presenter:   p,
		projectRepo: projectRepo,
	}
}

func (h projectHandler) routes(r chi.Router) {
	r.Get("/", h.getAllProjects())
	r.Post("/", h.createProject())
	r.Get("/{id}", h.getProject())
	r.Put("/{id}", h.updateProject())
	r.Delete("/{id}", h.deleteProject())
	r.Post("/{id}/restore", h.restoreProject())
	r.Delete("/{id}/force", h.forceDeleteProject())
	r.Patch("/{id}/toggle/{field}", h.toggleProject())
	r.Put("/{id}/technologies", h.syncTechnologies())
	r.Post("/{id}/gallery", h.addGalleryImages())
	r.Put("/{id}/gallery", h.reorderGallery())
	r.Delete("/{id}/gallery/{index}", h.removeGalleryImage())
	r.Put("/{id}/media/{field}", h.updateMedia())
}

func (h projectHandler) find(w http.ResponseWriter, r *http.Request) (*models.Project, bool) {
	id, err := parseID(r, "id")
	if err != nil {
		h.responder.WriteError(w, err)
		return nil, false
	}
	project, err := h.projectRepo.FindByID(id)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
		return nil, false
	}
	return project, true
}

// reload reads the project back with its relations and writes it
func (h projectHandler) reload(w http.ResponseWriter, id uint, status int) {
	project, err := h.projectRepo.FindByID(id)
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "project", err))
		return
	}
	h.responder.WriteJSONStatus(w, status, h.presenter.project(project))
}

// getAllProjects lists projects for the admin, trashed ones on request
// @Summary List projects
// @Description Lists projects in display order. Filters: status, search, featured, published, trashed
// @Tags Projects
// @Produce json
// @Param status query string false "Project status"
// @Param search query string false "Search in title, slug and summary"
// @Param trashed query bool false "List soft-deleted projects instead"
// @Success 200 {object} CollectionResponse[ProjectView]
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if trashed, _ := queryBool(r, "trashed"); trashed {
			projects, err := h.projectRepo.FindTrashed()
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find trashed", "projects", err))
				return
			}
			h.responder.WriteJSON(w, newCollection(h.presenter.projects(projects)))
			return
		}

		var scopes []database.Scope
		if status := r.URL.Query().Get("status"); status != "" {
			if !models.ProjectStatus(status).Valid() {
				h.responder.WriteError(w, errs.NewFieldValidationError("status", "Must be one of: draft, in_progress, completed, archived"))
				return
			}
			scopes = append(scopes, database.WithProjectStatus(models.ProjectStatus(status)))
		}
		if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
			scopes = append(scopes, database.Search(search, "title", "slug", "short_description"))
		}
		if featured, ok := queryBool(r, "featured"); ok && featured {
			scopes = append(scopes, database.Featured())
		}
		if published, ok := queryBool(r, "published"); ok {
			scopes = append(scopes, database.PublishedFlag(published))
		}
		scopes = append(scopes, database.Ordered())

		projects, err := h.projectRepo.FindAll(scopes...)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "projects", err))
			return
		}
		h.responder.WriteJSON(w, newCollection(h.presenter.projects(projects)))
	}
}

// getProject retrieves a project with its features and technologies
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} ProjectView
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.find(w, r)
		if !ok {
			return
		}
		h.responder.WriteJSON(w, h.presenter.project(project))
	}
}

func (h projectHandler) decode(w http.ResponseWriter, r *http.Request) (projectInput, error) {
	var in projectInput
	if err := decodeJSON(w, r, &in); err != nil {
		return in, err
	}
	return in, h.validator.Struct(&in)
}

// save writes the project and, when the payload lists technologies, its
// technology set in the same transaction
func (h projectHandler) save(project *models.Project, in projectInput, create bool) error {
	return h.projectRepo.WithTx(func(repo *database.ProjectRepo) error {
		var err error
		if create {
			err = repo.Add(project)
		} else {
			err = repo.Update(project)
		}
		if err != nil {
			return err
		}
		if in.Technologies == nil {
			return nil
		}
		return repo.SyncTechnologies(project.ID, technologyLinks(in.Technologies))
	})
}

// createProject creates a new project
// @Summary Create project
// @Description Creates a project. A missing slug is derived from the title; publishing without published_at stamps the current time
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body projectInput true "Project data"
// @Success 201 {object} ProjectView "Created project"
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Validation failed"
// @Router /admin/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := h.decode(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		project := &models.Project{}
		in.apply(project, h.presenter.clock.Now())
		if in.Order == nil {
			next, err := h.projectRepo.NextOrder()
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("order", "project", err))
				return
			}
			project.DisplayOrder = next
		}
		if err := resolveSlug(&project.Slug, project.Title, 0, h.projectRepo.SlugExists); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.save(project, in, true); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "project", err))
			return
		}
		h.reload(w, project.ID, http.StatusCreated)
	}
}

// updateProject replaces the editable fields of a project
// @Summary Update project
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param project body projectInput true "Project data"
// @Success 200 {object} ProjectView "Updated project"
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Validation failed"
// @Router /admin/projects/{id} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.find(w, r)
		if !ok {
			return
		}
		in, err := h.decode(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		in.apply(project, h.presenter.clock.Now())
		if err := resolveSlug(&project.Slug, project.Title, project.ID, h.projectRepo.SlugExists); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.save(project, in, false); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}
		h.reload(w, project.ID, http.StatusOK)
	}
}

// deleteProject moves a project to the trash. Its files are kept until it is
// force-deleted.
// @Summary Delete project
// @Tags Projects
// @Param id path int true "Project ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.projectRepo.Delete(id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "project", err))
			return
		}
		h.responder.WriteNoContent(w)
	}
}

// restoreProject brings a trashed project back
// @Summary Restore project
// @Tags Projects
// @Param id path int true "Project ID"
// @Success 200 {object} ProjectView
// @Failure 404 {object} ErrorResponse "Not Found - No trashed project with this id"
// @Router /admin/projects/{id}/restore [post]
func (h projectHandler) restoreProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project, err := h.projectRepo.Restore(id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("restore", "project", err))
			return
		}
		h.responder.WriteJSON(w, h.presenter.project(project))
	}
}

// forceDeleteProject removes a project for good with its features and
// technology links, then releases every file it referenced
// @Summary Permanently delete project
// @Tags Projects
// @Param id path int true "Project ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /admin/projects/{id}/force [delete]
func (h projectHandler) forceDeleteProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		project, err := h.projectRepo.ForceDelete(id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("force delete", "project", err))
			return
		}

		removed := h.assets.DeleteAll(r.Context(), project.AssetPaths())
		h.logger.Info().Uint("projectId", id).Int("filesRemoved", removed).Msg("Project permanently deleted")
		h.responder.WriteNoContent(w)
	}
}

// toggleProject flips is_featured, is_published or show_in_portfolio.
// Publishing stamps published_at when it was never set.
// @Summary Toggle project flag
// @Tags Projects
// @Param id path int true "Project ID"
// @Param field path string true "is_featured, is_published or show_in_portfolio"
// @Success 200 {object} ProjectView
// @Router /admin/projects/{id}/toggle/{field} [patch]
func (h projectHandler) toggleProject() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.find(w, r)
		if !ok {
			return
		}

		switch field := chi.URLParam(r, "field"); field {
		case "is_featured":
			project.IsFeatured = !project.IsFeatured
		case "show_in_portfolio":
			project.ShowInPortfolio = !project.ShowInPortfolio
		case "is_published":
			if project.IsPublished {
				project.IsPublished = false
			} else {
				project.Publish(h.presenter.clock.Now())
			}
		default:
			h.responder.WriteError(w, errs.NewNotFoundError(fmt.Sprintf("project has no toggle %q", field)))
			return
		}

		if err := h.projectRepo.Update(project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}
		h.responder.WriteJSON(w, h.presenter.project(project))
	}
}

type syncTechnologiesInput struct {
	Technologies []technologyLinkInput `json:"technologies" validate:"dive"`
}

// syncTechnologies replaces the technology set of a project and the order of
// each technology within it
// @Summary Sync project technologies
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param technologies body syncTechnologiesInput true "Technology ids with their order"
// @Success 200 {object} ProjectView
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Unknown technology"
// @Router /admin/projects/{id}/technologies [put]
func (h projectHandler) syncTechnologies() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in syncTechnologiesInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.validator.Struct(&in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.projectRepo.SyncTechnologies(id, technologyLinks(in.Technologies)); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("sync technologies", "project", err))
			return
		}
		h.reload(w, id, http.StatusOK)
	}
}

// addGalleryImages appends uploaded images to the end of the gallery
// @Summary Add gallery images
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Project ID"
// @Param images formData file true "One or more images"
// @Success 200 {object} ProjectView
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Invalid file"
// @Router /admin/projects/{id}/gallery [post]
func (h projectHandler) addGalleryImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.find(w, r)
		if !ok {
			return
		}
		if err := parseMultipart(w, r); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		headers := r.MultipartForm.File[galleryField]
		if len(headers) == 0 {
			h.responder.WriteError(w, errs.NewFieldValidationError(galleryField, "At least one image is required"))
			return
		}

		stored := make([]string, 0, len(headers))
		for i, header := range headers {
			file, err := header.Open()
			if err != nil {
				h.assets.DeleteAll(r.Context(), stored)
				h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
				return
			}
			path, err := h.assets.Store(r.Context(), services.Upload{Name: header.Filename, Size: header.Size, Content: file}, galleryDir)
			closeQuietly(file)
			if err != nil {
				h.assets.DeleteAll(r.Context(), stored)
				var apiErr *errs.ApiErr
				if errors.As(err, &apiErr) && errs.IsValidationError(apiErr) {
					err = errs.NewFieldValidationError(fmt.Sprintf("%s.%d", galleryField, i), apiErr.Fields["file"])
				}
				h.responder.WriteError(w, err)
				return
			}
			stored = append(stored, path)
		}

		project.Gallery = append(project.Gallery, stored...)
		if err := h.projectRepo.Update(project); err != nil {
			h.assets.DeleteAll(r.Context(), stored)
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}
		h.responder.WriteJSON(w, h.presenter.project(project))
	}
}

type galleryOrderInput struct {
	Gallery []string `json:"gallery" validate:"required"`
}

// reorderGallery sets a new gallery order. The payload must list exactly the
// current images.
// @Summary Reorder gallery
// @Tags Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param gallery body galleryOrderInput true "Current gallery paths in the new order"
// @Success 200 {object} ProjectView
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Not a permutation of the gallery"
// @Router /admin/projects/{id}/gallery [put]
func (h projectHandler) reorderGallery() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.find(w, r)
		if !ok {
			return
		}
		var in galleryOrderInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if !samePaths(project.Gallery, in.Gallery) {
			h.responder.WriteError(w, errs.NewFieldValidationError("gallery", "Must list exactly the current gallery images"))
			return
		}

		project.Gallery = append(project.Gallery[:0], in.Gallery...)
		if err := h.projectRepo.Update(project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}
		h.responder.WriteJSON(w, h.presenter.project(project))
	}
}

// removeGalleryImage drops one gallery entry by position and releases its file
// @Summary Remove gallery image
// @Tags Projects
// @Param id path int true "Project ID"
// @Param index path int true "Zero-based gallery position"
// @Success 200 {object} ProjectView
// @Failure 404 {object} ErrorResponse "Not Found - No image at this position"
// @Router /admin/projects/{id}/gallery/{index} [delete]
func (h projectHandler) removeGalleryImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		project, ok := h.find(w, r)
		if !ok {
			return
		}
		index, err := strconv.Atoi(chi.URLParam(r, "index"))
		if err != nil || index < 0 || index >= len(project.Gallery) {
			h.responder.WriteError(w, errs.NewNotFoundError("gallery image not found"))
			return
		}

		removed := project.Gallery[index]
		project.Gallery = append(project.Gallery[:index:index], project.Gallery[index+1:]...)
		if err := h.projectRepo.Update(project); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "project", err))
			return
		}

		h.assets.Delete(r.Context(), &removed)
		h.responder.WriteJSON(w, h.presenter.project(project))
	}
}

// updateMedia replaces or removes the featured image or the thumbnail
// @Summary Update project image
// @Tags Projects
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Project ID"
// @Param field path string true "featured_image or thumbnail"
// @Param file formData file false "New image"
// @Param remove formData bool false "Remove the current image"
// @Success 200 {object} ProjectView
// @Router /admin/projects/{id}/media/{field} [put]
func (h projectHandler) updateMedia() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := chi.URLParam(r, "field")
		mf, ok := projectMedia[field]
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError(fmt.Sprintf("project has no image field %q", field)))
			return
		}
		project, ok := h.find(w, r)
		if !ok {
			return
		}

		err := reconcileMedia(r, w, h.assets, mf.ref(project), mf.dir, func() error {
			return h.projectRepo.Update(project)
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, h.presenter.project(project))
	}
}

// samePaths reports whether b is a permutation of a
func samePaths(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[string]int, len(a))
	for _, p := range a {
		counts[p]++
	}
	for _, p := range b {
		counts[p]--
		if counts[p] < 0 {
			return false
		}
	}
	return true
}
