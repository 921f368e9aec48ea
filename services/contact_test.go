package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/database"
	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/models"
	"github.com/rpupo63/portfolio-cms-backend/testutil"
)

type fakeMailer struct {
	sent []Email
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, email Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, email)
	return nil
}

var contactNow = time.Date(2025, time.May, 2, 10, 0, 0, 0, time.UTC)

func newContactService(t *testing.T, mailer Mailer) (*ContactService, *database.Repo[models.ContactMessage]) {
	t.Helper()
	repo := database.NewRepo[models.ContactMessage](testutil.NewDB(t))
	svc := NewContactService(repo, mailer, models.FixedClock{T: contactNow}, "admin@ana.dev", "Ana Pérez", zerolog.Nop())
	return svc, repo
}

func submit(t *testing.T, svc *ContactService) *models.ContactMessage {
	t.Helper()
	msg := &models.ContactMessage{Name: "Luis", Email: "luis@example.com", Subject: "Proyecto", Message: "Hola,\nme interesa."}
	require.NoError(t, svc.Submit(context.Background(), msg))
	return msg
}

func TestSubmitStoresNewMessageAndNotifies(t *testing.T) {
	mailer := &fakeMailer{}
	svc, repo := newContactService(t, mailer)

	msg := &models.ContactMessage{Name: "Luis", Email: "luis@example.com", Message: "<b>hola</b>", Status: models.MessageStatusReplied}
	require.NoError(t, svc.Submit(context.Background(), msg))

	stored, err := repo.FindByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusNew, stored.Status)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"admin@ana.dev"}, mailer.sent[0].To)
	assert.Equal(t, "luis@example.com", mailer.sent[0].ReplyTo)
	assert.Contains(t, mailer.sent[0].HTML, "&lt;b&gt;hola&lt;/b&gt;")
}

func TestSubmitKeepsMessageWhenNotificationFails(t *testing.T) {
	svc, repo := newContactService(t, &fakeMailer{err: errors.New("smtp down")})

	msg := submit(t, svc)
	_, err := repo.FindByID(msg.ID)
	assert.NoError(t, err)
}

func TestViewMarksNewMessageRead(t *testing.T) {
	svc, _ := newContactService(t, &fakeMailer{})
	msg := submit(t, svc)

	viewed, err := svc.View(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusRead, viewed.Status)
	require.NotNil(t, viewed.ReadAt)
	assert.True(t, viewed.ReadAt.Equal(contactNow))

	archived, err := svc.Archive(msg.ID)
	require.NoError(t, err)
	again, err := svc.View(archived.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusArchived, again.Status)
}

func TestReplySendsThenMarksReplied(t *testing.T) {
	mailer := &fakeMailer{}
	svc, _ := newContactService(t, mailer)
	msg := submit(t, svc)
	mailer.sent = nil

	replied, err := svc.Reply(context.Background(), msg.ID, "", "Gracias por escribir")
	require.NoError(t, err)

	assert.Equal(t, models.MessageStatusReplied, replied.Status)
	require.NotNil(t, replied.RepliedAt)
	assert.Nil(t, replied.ReadAt)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"luis@example.com"}, mailer.sent[0].To)
	assert.Equal(t, "Re: Proyecto", mailer.sent[0].Subject)
}

func TestReplyFailureLeavesStatus(t *testing.T) {
	mailer := &fakeMailer{}
	svc, repo := newContactService(t, mailer)
	msg := submit(t, svc)
	mailer.err = errors.New("rejected")

	_, err := svc.Reply(context.Background(), msg.ID, "Re", "texto")
	require.Error(t, err)
	assert.True(t, errs.IsMailDeliveryError(err))

	stored, err := repo.FindByID(msg.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusNew, stored.Status)
	assert.Nil(t, stored.RepliedAt)
}

func TestSetStatusValidatesAndStamps(t *testing.T) {
	svc, _ := newContactService(t, &fakeMailer{})
	msg := submit(t, svc)

	_, err := svc.SetStatus(msg.ID, models.MessageStatus("spam"), nil)
	require.Error(t, err)
	assert.True(t, errs.IsValidationError(err))

	notes := "Llamar el lunes"
	updated, err := svc.SetStatus(msg.ID, models.MessageStatusReplied, &notes)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusReplied, updated.Status)
	assert.NotNil(t, updated.RepliedAt)
	assert.Equal(t, &notes, updated.AdminNotes)

	// backward transitions are allowed
	back, err := svc.SetStatus(msg.ID, models.MessageStatusNew, nil)
	require.NoError(t, err)
	assert.Equal(t, models.MessageStatusNew, back.Status)
}

func TestDeleteMissingMessage(t *testing.T) {
	svc, _ := newContactService(t, &fakeMailer{})
	err := svc.Delete(404)
	require.Error(t, err)
	assert.True(t, errs.IsNotFound(err))
}
