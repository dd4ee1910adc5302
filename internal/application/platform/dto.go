package platform

import (
	"time"

	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StartCheckoutRequest asks for a checkout session for a paid plan
type StartCheckoutRequest struct {
	Plan       string `json:"plan" binding:"required,oneof=solo crew"`
	SuccessURL string `json:"success_url" binding:"required,url"`
	CancelURL  string `json:"cancel_url" binding:"required,url"`
}

// CheckoutSessionResponse is the provider handle returned to the client
type CheckoutSessionResponse struct {
	ProviderRef string    `json:"provider_ref"`
	CheckoutURL string    `json:"checkout_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// SubscriptionResponse represents a subscription in API responses
type SubscriptionResponse struct {
	ID                uuid.UUID       `json:"id"`
	TenantID          uuid.UUID       `json:"tenant_id"`
	Plan              string          `json:"plan"`
	Status            string          `json:"status"`
	SeatLimit         int             `json:"seat_limit"`
	CurrentPeriodEnd  *time.Time      `json:"current_period_end,omitempty"`
	TrialEndsAt       *time.Time      `json:"trial_ends_at,omitempty"`
	CancelledAt       *time.Time      `json:"cancelled_at,omitempty"`
	LastPaymentAmount decimal.Decimal `json:"last_payment_amount"`
	LastPaymentAt     *time.Time      `json:"last_payment_at,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToSubscriptionResponse converts a domain subscription to a response DTO
func ToSubscriptionResponse(s *platform.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                s.ID,
		TenantID:          s.TenantID,
		Plan:              s.Plan.String(),
		Status:            s.Status.String(),
		SeatLimit:         s.Plan.SeatLimit(),
		CurrentPeriodEnd:  s.CurrentPeriodEnd,
		TrialEndsAt:       s.TrialEndsAt,
		CancelledAt:       s.CancelledAt,
		LastPaymentAmount: s.LastPaymentAmount,
		LastPaymentAt:     s.LastPaymentAt,
		CreatedAt:         s.CreatedAt,
		UpdatedAt:         s.UpdatedAt,
	}
}

// ToSubscriptionResponses converts domain subscriptions to response DTOs
func ToSubscriptionResponses(subscriptions []platform.Subscription) []SubscriptionResponse {
	responses := make([]SubscriptionResponse, len(subscriptions))
	for i := range subscriptions {
		responses[i] = ToSubscriptionResponse(&subscriptions[i])
	}
	return responses
}

// SubscriptionListFilter captures query parameters for listing subscriptions
type SubscriptionListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status" binding:"omitempty,oneof=trialing active past_due cancelled"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// OpenThreadRequest opens a support thread with its first message
type OpenThreadRequest struct {
	Subject string `json:"subject" binding:"required,min=1,max=200"`
	Body    string `json:"body" binding:"required,min=1"`
}

// ReplyRequest appends a message to a thread
type ReplyRequest struct {
	Body string `json:"body" binding:"required,min=1"`
}

// ThreadListFilter captures query parameters for listing support threads
type ThreadListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Status   string `form:"status" binding:"omitempty,oneof=open closed"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc ASC DESC"`
}

// SupportMessageResponse represents one message within a thread
type SupportMessageResponse struct {
	ID        uuid.UUID `json:"id"`
	Author    string    `json:"author"`
	AuthorID  uuid.UUID `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// ThreadResponse represents a support thread with its messages
type ThreadResponse struct {
	ID        uuid.UUID                `json:"id"`
	TenantID  uuid.UUID                `json:"tenant_id"`
	Subject   string                   `json:"subject"`
	Status    string                   `json:"status"`
	Messages  []SupportMessageResponse `json:"messages"`
	ClosedAt  *time.Time               `json:"closed_at,omitempty"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// ThreadListResponse is the compact thread representation for listings
type ThreadListResponse struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Subject      string    `json:"subject"`
	Status       string    `json:"status"`
	MessageCount int       `json:"message_count"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToThreadResponse converts a domain thread to a response DTO
func ToThreadResponse(t *platform.SupportThread) ThreadResponse {
	messages := make([]SupportMessageResponse, len(t.Messages))
	for i, msg := range t.Messages {
		messages[i] = SupportMessageResponse{
			ID:        msg.ID,
			Author:    string(msg.Author),
			AuthorID:  msg.AuthorID,
			Body:      msg.Body,
			CreatedAt: msg.CreatedAt,
		}
	}
	return ThreadResponse{
		ID:        t.ID,
		TenantID:  t.TenantID,
		Subject:   t.Subject,
		Status:    t.Status.String(),
		Messages:  messages,
		ClosedAt:  t.ClosedAt,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

// ToThreadListResponses converts domain threads to list response DTOs
func ToThreadListResponses(threads []platform.SupportThread) []ThreadListResponse {
	responses := make([]ThreadListResponse, len(threads))
	for i := range threads {
		t := &threads[i]
		responses[i] = ThreadListResponse{
			ID:           t.ID,
			TenantID:     t.TenantID,
			Subject:      t.Subject,
			Status:       t.Status.String(),
			MessageCount: t.MessageCount(),
			UpdatedAt:    t.UpdatedAt,
		}
	}
	return responses
}
