package models

import "time"

type MessageStatus string

const (
	MessageStatusNew      MessageStatus = "new"
	MessageStatusRead     MessageStatus = "read"
	MessageStatusReplied  MessageStatus = "replied"
	MessageStatusArchived MessageStatus = "archived"
)

var MessageStatuses = []MessageStatus{
	MessageStatusNew,
	MessageStatusRead,
	MessageStatusReplied,
	MessageStatusArchived,
}

func (s MessageStatus) Valid() bool {
	for _, status := range MessageStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// ContactMessage is a message submitted through the public contact form.
//
// Status changes are deliberately unguarded: any state can move to any other
// (replied -> read included). Only the timestamps attached to read and replied
// are managed here.
type ContactMessage struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	Name       string        `json:"name" gorm:"type:varchar(255);not null"`
	Email      string        `json:"email" gorm:"type:varchar(255);not null;index"`
	Phone      *string       `json:"phone,omitempty" gorm:"type:varchar(50)"`
	Company    *string       `json:"company,omitempty" gorm:"type:varchar(255)"`
	Subject    string        `json:"subject" gorm:"type:varchar(255)"`
	Message    string        `json:"message" gorm:"type:text;not null"`
	Status     MessageStatus `json:"status" gorm:"type:varchar(20);not null;default:'new';index"`
	AdminNotes *string       `json:"admin_notes,omitempty" gorm:"type:text"`
	IPAddress  *string       `json:"ip_address,omitempty" gorm:"type:varchar(64)"`
	UserAgent  *string       `json:"user_agent,omitempty" gorm:"type:varchar(512)"`
	ReadAt     *time.Time    `json:"read_at,omitempty"`
	RepliedAt  *time.Time    `json:"replied_at,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// MarkAsRead moves the message to read and re-stamps read_at.
func (m *ContactMessage) MarkAsRead(now time.Time) {
	m.Status = MessageStatusRead
	m.ReadAt = &now
}

// MarkAsReplied moves the message to replied; read_at is left as it was.
func (m *ContactMessage) MarkAsReplied(now time.Time) {
	m.Status = MessageStatusReplied
	m.RepliedAt = &now
}

// Archive keeps both timestamps.
func (m *ContactMessage) Archive() {
	m.Status = MessageStatusArchived
}

// SetStatus applies an explicit status change coming from the admin UI.
func (m *ContactMessage) SetStatus(status MessageStatus, now time.Time) {
	switch status {
	case MessageStatusRead:
		m.MarkAsRead(now)
	case MessageStatusReplied:
		m.MarkAsReplied(now)
	case MessageStatusArchived:
		m.Archive()
	default:
		m.Status = status
	}
}

func (m *ContactMessage) IsNew() bool {
	return m.Status == MessageStatusNew
}
