package api

import (
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
	"github.com/rpupo63/portfolio-cms-backend/validation"
)

// mediaField is an image column managed through the media endpoint
type mediaField[T any] struct {
	dir string
	ref func(item *T) **string
}

// resource describes how one ordered entity is listed, saved and presented
type resource[T any] struct {
	entity string
	repo   *database.Repo[T]

	// listScopes builds the list filters from the query string
	listScopes func(r *http.Request) []database.Scope
	// orderScopes narrows the collection used to append new records
	orderScopes func(item *T) []database.Scope
	setOrder    func(item *T, order int)
	// prepare runs after the payload is applied and before the record is saved
	prepare func(r *http.Request, item *T, id uint) error
	present func(item *T) any

	media   map[string]mediaField[T]
	toggles map[string]string
}

// crudHandler serves the admin CRUD routes of one resource
type crudHandler[T any, I input[T]] struct {
	responder Responder
	logger    zerolog.Logger
	validator *validation.Validator
	assets    *services.AssetManager
	resource  resource[T]
}

func newCrudHandler[T any, I input[T]](v *validation.Validator, assets *services.AssetManager, res resource[T]) crudHandler[T, I] {
	logger := log.With().Str("handlerName", res.entity+"Handler").Logger()

	if res.listScopes == nil {
		res.listScopes = func(*http.Request) []database.Scope { return nil }
	}
	if res.present == nil {
		res.present = func(item *T) any { return item }
	}

	return crudHandler[T, I]{
		responder: NewResponder(logger),
		logger:    logger,
		validator: v,
		assets:    assets,
		resource:  res,
	}
}

func (h crudHandler[T, I]) routes(r chi.Router) {
	r.Get("/", h.list())
	r.Post("/", h.create())
	r.Get("/{id}", h.get())
	r.Put("/{id}", h.update())
	r.Delete("/{id}", h.remove())
	if len(h.resource.toggles) > 0 {
		r.Patch("/{id}/toggle/{field}", h.toggle())
	}
	if len(h.resource.media) > 0 {
		r.Put("/{id}/media/{field}", h.media())
	}
}

func (h crudHandler[T, I]) presentAll(items []*T) []any {
	views := make([]any, 0, len(items))
	for _, item := range items {
		views = append(views, h.resource.present(item))
	}
	return views
}

// list returns every record of the resource in display order
// @Summary List records
// @Tags Admin
// @Produce json
// @Success 200 {object} CollectionResponse[any]
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /admin/{resource} [get]
func (h crudHandler[T, I]) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scopes := append(h.resource.listScopes(r), database.Ordered())
		items, err := h.resource.repo.FindAll(scopes...)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.resource.entity, err))
			return
		}
		h.responder.WriteJSON(w, newCollection(h.presentAll(items)))
	}
}

// get returns a single record
// @Summary Get record
// @Tags Admin
// @Produce json
// @Param id path int true "Record ID"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /admin/{resource}/{id} [get]
func (h crudHandler[T, I]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := h.resource.repo.FindByID(id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.resource.entity, err))
			return
		}
		h.responder.WriteJSON(w, h.resource.present(item))
	}
}

func (h crudHandler[T, I]) decode(w http.ResponseWriter, r *http.Request) (I, error) {
	var in I
	if err := decodeJSON(w, r, &in); err != nil {
		return in, err
	}
	if err := h.validator.Struct(&in); err != nil {
		return in, err
	}
	return in, nil
}

// create validates the payload and stores a new record, appended to the end
// of its collection unless an order is given
// @Summary Create record
// @Tags Admin
// @Accept json
// @Produce json
// @Success 201 {object} any
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Validation failed"
// @Router /admin/{resource} [post]
func (h crudHandler[T, I]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in, err := h.decode(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		item := new(T)
		in.apply(item)

		if in.explicitOrder() == nil && h.resource.setOrder != nil {
			var scopes []database.Scope
			if h.resource.orderScopes != nil {
				scopes = h.resource.orderScopes(item)
			}
			next, err := h.resource.repo.NextOrder(scopes...)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("order", h.resource.entity, err))
				return
			}
			h.resource.setOrder(item, next)
		}

		if h.resource.prepare != nil {
			if err := h.resource.prepare(r, item, 0); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		if err := h.resource.repo.Add(item); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", h.resource.entity, err))
			return
		}
		h.responder.WriteCreated(w, h.resource.present(item))
	}
}

// update replaces the editable fields of a record
// @Summary Update record
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path int true "Record ID"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Validation failed"
// @Router /admin/{resource}/{id} [put]
func (h crudHandler[T, I]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := h.resource.repo.FindByID(id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.resource.entity, err))
			return
		}

		in, err := h.decode(w, r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		in.apply(item)

		if h.resource.prepare != nil {
			if err := h.resource.prepare(r, item, id); err != nil {
				h.responder.WriteError(w, err)
				return
			}
		}

		if err := h.resource.repo.Update(item); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", h.resource.entity, err))
			return
		}
		h.responder.WriteJSON(w, h.resource.present(item))
	}
}

// remove deletes a record and releases its image files
// @Summary Delete record
// @Tags Admin
// @Param id path int true "Record ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /admin/{resource}/{id} [delete]
func (h crudHandler[T, I]) remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		item, err := h.resource.repo.FindByID(id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.resource.entity, err))
			return
		}
		if err := h.resource.repo.Delete(id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", h.resource.entity, err))
			return
		}

		for _, field := range h.resource.media {
			h.assets.Delete(r.Context(), *field.ref(item))
		}
		h.responder.WriteNoContent(w)
	}
}

// toggle flips one of the resource's boolean flags
// @Summary Toggle flag
// @Tags Admin
// @Param id path int true "Record ID"
// @Param field path string true "Flag name"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /admin/{resource}/{id}/toggle/{field} [patch]
func (h crudHandler[T, I]) toggle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		field := chi.URLParam(r, "field")
		column, ok := h.resource.toggles[field]
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError(fmt.Sprintf("%s has no toggle %q", h.resource.entity, field)))
			return
		}

		item, err := h.resource.repo.Toggle(id, column)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("toggle", h.resource.entity, err))
			return
		}
		h.responder.WriteJSON(w, h.resource.present(item))
	}
}

// media replaces or removes an image field. The request is multipart with an
// optional "file" and an optional "remove" flag; removal wins.
// @Summary Update image
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "Record ID"
// @Param field path string true "Image field"
// @Failure 404 {object} ErrorResponse "Not Found"
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Invalid file"
// @Router /admin/{resource}/{id}/media/{field} [put]
func (h crudHandler[T, I]) media() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		field := chi.URLParam(r, "field")
		mf, ok := h.resource.media[field]
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError(fmt.Sprintf("%s has no image field %q", h.resource.entity, field)))
			return
		}

		item, err := h.resource.repo.FindByID(id)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", h.resource.entity, err))
			return
		}

		err = reconcileMedia(r, w, h.assets, mf.ref(item), mf.dir, func() error {
			return h.resource.repo.Update(item)
		})
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, h.resource.present(item))
	}
}

// reconcileMedia applies a multipart media request to ref and saves the
// record. When a replacement fails the old file is already gone, so the field
// is cleared before the error is returned.
func reconcileMedia(r *http.Request, w http.ResponseWriter, assets *services.AssetManager, ref **string, dir string, save func() error) error {
	if err := parseMultipart(w, r); err != nil {
		return err
	}
	upload, closer, err := formUpload(r, "file")
	if err != nil {
		return err
	}
	if closer != nil {
		defer closeQuietly(closer)
	}
	remove := formBool(r, "remove")
	if upload == nil && !remove {
		return errs.NewFieldValidationError("file", "A file is required unless remove is set")
	}

	updated, err := assets.Reconcile(r.Context(), *ref, upload, remove, dir)
	if err != nil {
		if *ref != nil {
			*ref = nil
			if saveErr := save(); saveErr != nil {
				log.Error().Err(saveErr).Msg("Failed to clear image reference after a failed upload")
			}
		}
		return err
	}

	*ref = updated
	if err := save(); err != nil {
		return wrapDatabaseError("update", "media", err)
	}
	return nil
}

func closeQuietly(c io.Closer) {
	_ = c.Close()
}
