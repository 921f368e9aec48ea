package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-cms-backend/models"
)

func seedMessage(t *testing.T, s *testServer) *models.ContactMessage {
	t.Helper()
	msg := &models.ContactMessage{Name: "Ana", Email: "ana@example.com", Subject: "Proyecto", Message: "Hola, tengo una idea.", Status: models.MessageStatusNew}
	require.NoError(t, s.db.Create(msg).Error)
	return msg
}

func messageStatus(t *testing.T, s *testServer, id uint) models.MessageStatus {
	t.Helper()
	var msg models.ContactMessage
	require.NoError(t, s.db.First(&msg, id).Error)
	return msg.Status
}

func TestViewingMessageMarksItRead(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()
	msg := seedMessage(t, s)

	rec := s.doJSON(http.MethodGet, "/admin/messages?status=new", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var list CollectionResponse[models.ContactMessage]
	decode(t, rec, &list)
	assert.Equal(t, 1, list.Total)

	rec = s.doJSON(http.MethodGet, fmt.Sprintf("/admin/messages/%d", msg.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.MessageStatusRead, messageStatus(t, s, msg.ID))

	rec = s.doJSON(http.MethodGet, "/admin/messages?status=lost", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestMessageTransitions(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()
	msg := seedMessage(t, s)
	base := fmt.Sprintf("/admin/messages/%d", msg.ID)

	require.Equal(t, http.StatusOK, s.doJSON(http.MethodPost, base+"/archive", nil).Code)
	assert.Equal(t, models.MessageStatusArchived, messageStatus(t, s, msg.ID))

	rec := s.doJSON(http.MethodPatch, base+"/status", map[string]any{"status": "new", "admin_notes": "follow up"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.MessageStatusNew, messageStatus(t, s, msg.ID))

	rec = s.doJSON(http.MethodPatch, base+"/status", map[string]any{"status": "spam"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	require.Equal(t, http.StatusNoContent, s.doJSON(http.MethodDelete, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.doJSON(http.MethodGet, base, nil).Code)
}

func TestReplyEmailsSender(t *testing.T) {
	s := newTestServer(t, nil)
	s.login()
	msg := seedMessage(t, s)

	rec := s.doJSON(http.MethodPost, fmt.Sprintf("/admin/messages/%d/reply", msg.ID), map[string]any{"message": "Gracias, hablemos."})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, models.MessageStatusReplied, messageStatus(t, s, msg.ID))

	require.Len(t, s.mailer.sent, 1)
	assert.Equal(t, []string{"ana@example.com"}, s.mailer.sent[0].To)
	assert.Equal(t, "Re: Proyecto", s.mailer.sent[0].Subject)

	rec = s.doJSON(http.MethodPost, fmt.Sprintf("/admin/messages/%d/reply", msg.ID), map[string]any{"subject": "x"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}
