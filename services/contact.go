package services

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
)

// ContactService runs the contact message lifecycle. Every transition is
// persisted immediately.
type ContactService struct {
	repo     *database.Repo[models.ContactMessage]
	mailer   Mailer
	clock    models.Clock
	notifyTo string
	siteName string
	logger   zerolog.Logger
}

func NewContactService(repo *database.Repo[models.ContactMessage], mailer Mailer, clock models.Clock, notifyTo, siteName string, logger zerolog.Logger) *ContactService {
	return &ContactService{
		repo:     repo,
		mailer:   mailer,
		clock:    clock,
		notifyTo: notifyTo,
		siteName: siteName,
		logger:   logger.With().Str("service", "contact").Logger(),
	}
}

// Submit stores a new message from the public form and notifies the admin.
// A failed notification is logged; the message is kept either way.
func (s *ContactService) Submit(ctx context.Context, msg *models.ContactMessage) error {
	msg.ID = 0
	msg.Status = models.MessageStatusNew
	msg.ReadAt = nil
	msg.RepliedAt = nil
	msg.AdminNotes = nil

	if err := s.repo.Add(msg); err != nil {
		return errs.NewDatabaseError("create", "contact message", err)
	}

	if s.notifyTo != "" {
		err := s.mailer.Send(ctx, Email{
			To:      []string{s.notifyTo},
			ReplyTo: msg.Email,
			Subject: fmt.Sprintf("[%s] Nuevo mensaje de contacto: %s", s.siteName, subjectOrDefault(msg.Subject)),
			HTML:    notificationBody(msg),
		})
		if err != nil {
			s.logger.Warn().Err(err).Uint("messageId", msg.ID).Msg("Failed to notify admin of contact message")
		}
	}
	return nil
}

func (s *ContactService) find(id uint) (*models.ContactMessage, error) {
	msg, err := s.repo.FindByID(id)
	if err != nil {
		return nil, errs.NewDatabaseError("fetch", "contact message", err)
	}
	return msg, nil
}

func (s *ContactService) save(msg *models.ContactMessage) (*models.ContactMessage, error) {
	if err := s.repo.Update(msg); err != nil {
		return nil, errs.NewDatabaseError("update", "contact message", err)
	}
	return msg, nil
}

// View returns a message for the admin, marking it read when it is new.
func (s *ContactService) View(id uint) (*models.ContactMessage, error) {
	msg, err := s.find(id)
	if err != nil {
		return nil, err
	}
	if !msg.IsNew() {
		return msg, nil
	}
	msg.MarkAsRead(s.clock.Now())
	return s.save(msg)
}

func (s *ContactService) MarkAsRead(id uint) (*models.ContactMessage, error) {
	msg, err := s.find(id)
	if err != nil {
		return nil, err
	}
	msg.MarkAsRead(s.clock.Now())
	return s.save(msg)
}

func (s *ContactService) MarkAsReplied(id uint) (*models.ContactMessage, error) {
	msg, err := s.find(id)
	if err != nil {
		return nil, err
	}
	msg.MarkAsReplied(s.clock.Now())
	return s.save(msg)
}

func (s *ContactService) Archive(id uint) (*models.ContactMessage, error) {
	msg, err := s.find(id)
	if err != nil {
		return nil, err
	}
	msg.Archive()
	return s.save(msg)
}

// SetStatus applies an explicit status from the admin, with or without notes.
func (s *ContactService) SetStatus(id uint, status models.MessageStatus, notes *string) (*models.ContactMessage, error) {
	if !status.Valid() {
		return nil, errs.NewFieldValidationError("status", fmt.Sprintf("status must be one of %s", joinStatuses()))
	}
	msg, err := s.find(id)
	if err != nil {
		return nil, err
	}
	msg.SetStatus(status, s.clock.Now())
	if notes != nil {
		msg.AdminNotes = notes
	}
	return s.save(msg)
}

// Reply emails the sender and then marks the message replied. The status is
// left alone when delivery fails.
func (s *ContactService) Reply(ctx context.Context, id uint, subject, body string) (*models.ContactMessage, error) {
	msg, err := s.find(id)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(subject) == "" {
		subject = "Re: " + subjectOrDefault(msg.Subject)
	}
	err = s.mailer.Send(ctx, Email{
		To:      []string{msg.Email},
		Subject: subject,
		HTML:    replyBody(msg, body),
		Text:    body,
	})
	if err != nil {
		return nil, errs.NewMailDeliveryError(msg.Email, err)
	}

	msg.MarkAsReplied(s.clock.Now())
	return s.save(msg)
}

func (s *ContactService) Delete(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return errs.NewDatabaseError("delete", "contact message", err)
	}
	return nil
}

func subjectOrDefault(subject string) string {
	if strings.TrimSpace(subject) == "" {
		return "Sin asunto"
	}
	return subject
}

func joinStatuses() string {
	names := make([]string, len(models.MessageStatuses))
	for i, st := range models.MessageStatuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

func notificationBody(msg *models.ContactMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p><strong>Nombre:</strong> %s</p>", html.EscapeString(msg.Name))
	fmt.Fprintf(&b, "<p><strong>Email:</strong> %s</p>", html.EscapeString(msg.Email))
	if msg.Phone != nil && *msg.Phone != "" {
		fmt.Fprintf(&b, "<p><strong>Teléfono:</strong> %s</p>", html.EscapeString(*msg.Phone))
	}
	if msg.Company != nil && *msg.Company != "" {
		fmt.Fprintf(&b, "<p><strong>Empresa:</strong> %s</p>", html.EscapeString(*msg.Company))
	}
	fmt.Fprintf(&b, "<p><strong>Asunto:</strong> %s</p>", html.EscapeString(subjectOrDefault(msg.Subject)))
	fmt.Fprintf(&b, "<p>%s</p>", paragraphs(msg.Message))
	return b.String()
}

func replyBody(msg *models.ContactMessage, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s</p>", paragraphs(body))
	b.WriteString("<hr>")
	fmt.Fprintf(&b, "<blockquote>%s</blockquote>", paragraphs(msg.Message))
	return b.String()
}

func paragraphs(text string) string {
	return strings.ReplaceAll(html.EscapeString(strings.TrimSpace(text)), "\n", "<br>")
}
