package api

import (
	"net/http"
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

type contactMessageHandler struct {
	responder Responder
	logger    zerolog.Logger
	validator *validation.Validator
	repo      *database.Repo[models.ContactMessage]
	contact   *services.ContactService
}

func newContactMessageHandler(repo *database.Repo[models.ContactMessage], contact *services.ContactService, v *validation.Validator) contactMessageHandler {
	logger := log.With().Str("handlerName", "contactMessageHandler").Logger()

	return contactMessageHandler{
		responder: NewResponder(logger),
		logger:    logger,
		validator: v,
		repo:      repo,
		contact:   contact,
	}
}

func (h contactMessageHandler) routes(r chi.Router) {
	r.Get("/", h.getAllMessages())
	r.Get("/{id}", h.getMessage())
	r.Patch("/{id}/status", h.setStatus())
	r.Post("/{id}/read", h.transition(h.contact.MarkAsRead))
	r.Post("/{id}/replied", h.transition(h.contact.MarkAsReplied))
	r.Post("/{id}/archive", h.transition(h.contact.Archive))
	r.Post("/{id}/reply", h.reply())
	r.Delete("/{id}", h.deleteMessage())
}

// getAllMessages lists contact messages, newest first
// @Summary List contact messages
// @Tags Messages
// @Produce json
// @Param status query string false "new, read, replied or archived"
// @Param search query string false "Search in name, email and subject"
// @Success 200 {object} CollectionResponse[models.ContactMessage]
// @Router /admin/messages [get]
func (h contactMessageHandler) getAllMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var scopes []database.Scope
		if status := r.URL.Query().Get("status"); status != "" {
			if !models.MessageStatus(status).Valid() {
				h.responder.WriteError(w, errs.NewFieldValidationError("status", "Must be one of: new, read, replied, archived"))
				return
			}
			scopes = append(scopes, database.WithMessageStatus(models.MessageStatus(status)))
		}
		if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
			scopes = append(scopes, database.Search(search, "name", "email", "subject"))
		}
		scopes = append(scopes, database.Latest())

		messages, err := h.repo.FindAll(scopes...)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "contact messages", err))
			return
		}
		h.responder.WriteJSON(w, newCollection(messages))
	}
}

// getMessage returns one message. Opening a new message marks it read.
// @Summary Get contact message
// @Tags Messages
// @Produce json
// @Param id path int true "Message ID"
// @Success 200 {object} models.ContactMessage
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /admin/messages/{id} [get]
func (h contactMessageHandler) getMessage() http.HandlerFunc {
	return h.transition(h.contact.View)
}

// transition applies a lifecycle step to the message in the URL
func (h contactMessageHandler) transition(step func(id uint) (*models.ContactMessage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		msg, err := step(id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, msg)
	}
}

type messageStatusInput struct {
	Status     models.MessageStatus `json:"status" validate:"required,message_status"`
	AdminNotes *string              `json:"admin_notes" validate:"omitempty,max=5000"`
}

// setStatus applies an explicit status, optionally with admin notes
// @Summary Set message status
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Param status body messageStatusInput true "New status"
// @Success 200 {object} models.ContactMessage
// @Failure 422 {object} ErrorResponse "Unprocessable Entity - Unknown status"
// @Router /admin/messages/{id}/status [patch]
func (h contactMessageHandler) setStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in messageStatusInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.validator.Struct(&in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		msg, err := h.contact.SetStatus(id, in.Status, in.AdminNotes)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, msg)
	}
}

type replyInput struct {
	Subject string `json:"subject" validate:"omitempty,max=255"`
	Message string `json:"message" validate:"required,max=10000"`
}

// reply emails the sender and marks the message replied once the mail is out
// @Summary Reply to message
// @Tags Messages
// @Accept json
// @Produce json
// @Param id path int true "Message ID"
// @Param reply body replyInput true "Reply"
// @Success 200 {object} models.ContactMessage
// @Failure 502 {object} ErrorResponse "Bad Gateway - Email could not be delivered"
// @Router /admin/messages/{id}/reply [post]
func (h contactMessageHandler) reply() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var in replyInput
		if err := decodeJSON(w, r, &in); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.validator.Struct(&in); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		msg, err := h.contact.Reply(r.Context(), id, in.Subject, in.Message)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Uint("messageId", id).Str("to", msg.Email).Msg("Replied to contact message")
		h.responder.WriteJSON(w, msg)
	}
}

// deleteMessage removes a message whatever its status
// @Summary Delete message
// @Tags Messages
// @Param id path int true "Message ID"
// @Success 204
// @Failure 404 {object} ErrorResponse "Not Found"
// @Router /admin/messages/{id} [delete]
func (h contactMessageHandler) deleteMessage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseID(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.contact.Delete(id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteNoContent(w)
	}
}
