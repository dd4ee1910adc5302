package platform

import (
	"strings"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ThreadStatus represents the status of a support thread
type ThreadStatus string

const (
	ThreadStatusOpen   ThreadStatus = "open"
	ThreadStatusClosed ThreadStatus = "closed"
)

// IsValid checks if the status is a valid ThreadStatus
func (s ThreadStatus) IsValid() bool {
	switch s {
	case ThreadStatusOpen, ThreadStatusClosed:
		return true
	}
	return false
}

// String returns the string representation of ThreadStatus
func (s ThreadStatus) String() string {
	return string(s)
}

// MessageAuthor distinguishes who wrote a support message
type MessageAuthor string

const (
	AuthorTenant   MessageAuthor = "tenant"
	AuthorPlatform MessageAuthor = "platform"
)

// SupportMessage is one message within a support thread
type SupportMessage struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey"`
	ThreadID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	Author    MessageAuthor `gorm:"type:varchar(20);not null"`
	AuthorID  uuid.UUID     `gorm:"type:uuid;not null"`
	Body      string        `gorm:"type:text;not null"`
	CreatedAt time.Time
}

// TableName returns the table name for GORM
func (SupportMessage) TableName() string {
	return "support_messages"
}

// SupportThread is a conversation between a tenant and platform staff.
// Messages are append-only; a closed thread can be reopened by a new
// tenant message.
type SupportThread struct {
	shared.TenantEntity
	Subject  string           `gorm:"type:varchar(200);not null"`
	Status   ThreadStatus     `gorm:"type:varchar(20);not null;default:'open'"`
	Messages []SupportMessage `gorm:"foreignKey:ThreadID"`
	ClosedAt *time.Time
}

// TableName returns the table name for GORM
func (SupportThread) TableName() string {
	return "support_threads"
}

// NewSupportThread opens a thread with its first tenant message
func NewSupportThread(tenantID, authorID uuid.UUID, subject, body string) (*SupportThread, error) {
	trimmed := strings.TrimSpace(subject)
	if trimmed == "" {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject cannot be empty")
	}
	if len(trimmed) > 200 {
		return nil, shared.NewDomainError("INVALID_SUBJECT", "Subject cannot exceed 200 characters")
	}

	thread := &SupportThread{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Subject:      trimmed,
		Status:       ThreadStatusOpen,
		Messages:     make([]SupportMessage, 0),
	}
	if err := thread.AddMessage(AuthorTenant, authorID, body); err != nil {
		return nil, err
	}
	return thread, nil
}

// AddMessage appends a message. A tenant message reopens a closed thread;
// platform staff cannot post to a closed thread.
func (t *SupportThread) AddMessage(author MessageAuthor, authorID uuid.UUID, body string) error {
	if strings.TrimSpace(body) == "" {
		return shared.NewDomainError("INVALID_BODY", "Message body cannot be empty")
	}
	if authorID == uuid.Nil {
		return shared.NewDomainError("INVALID_AUTHOR", "Author ID cannot be empty")
	}
	if t.Status == ThreadStatusClosed {
		if author != AuthorTenant {
			return shared.NewDomainError("THREAD_CLOSED", "Cannot reply to a closed thread")
		}
		t.Status = ThreadStatusOpen
		t.ClosedAt = nil
	}

	t.Messages = append(t.Messages, SupportMessage{
		ID:        uuid.New(),
		ThreadID:  t.ID,
		Author:    author,
		AuthorID:  authorID,
		Body:      body,
		CreatedAt: time.Now(),
	})
	t.Touch()
	return nil
}

// Close marks the thread as resolved
func (t *SupportThread) Close() error {
	if t.Status == ThreadStatusClosed {
		return shared.NewDomainError("ALREADY_CLOSED", "Thread is already closed")
	}
	now := time.Now()
	t.Status = ThreadStatusClosed
	t.ClosedAt = &now
	t.Touch()
	return nil
}

// IsOpen returns true if the thread accepts platform replies
func (t *SupportThread) IsOpen() bool {
	return t.Status == ThreadStatusOpen
}

// MessageCount returns the number of messages in the thread
func (t *SupportThread) MessageCount() int {
	return len(t.Messages)
}
