package platform

import (
	"fmt"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionPlan represents the billing plan of a tenant
type SubscriptionPlan string

const (
	PlanTrial SubscriptionPlan = "trial"
	PlanSolo  SubscriptionPlan = "solo"
	PlanCrew  SubscriptionPlan = "crew"
)

// IsValid checks if the plan is a known SubscriptionPlan
func (p SubscriptionPlan) IsValid() bool {
	switch p {
	case PlanTrial, PlanSolo, PlanCrew:
		return true
	}
	return false
}

// String returns the string representation of SubscriptionPlan
func (p SubscriptionPlan) String() string {
	return string(p)
}

// SeatLimit returns the maximum staff logins the plan allows
func (p SubscriptionPlan) SeatLimit() int {
	switch p {
	case PlanTrial:
		return 2
	case PlanSolo:
		return 1
	case PlanCrew:
		return 25
	}
	return 0
}

// SubscriptionStatus represents the lifecycle of a subscription
type SubscriptionStatus string

const (
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPastDue   SubscriptionStatus = "past_due"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
)

// IsValid checks if the status is a valid SubscriptionStatus
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusTrialing, SubscriptionStatusActive, SubscriptionStatusPastDue, SubscriptionStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SubscriptionStatus
func (s SubscriptionStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s SubscriptionStatus) CanTransitionTo(target SubscriptionStatus) bool {
	switch s {
	case SubscriptionStatusTrialing:
		return target == SubscriptionStatusActive || target == SubscriptionStatusCancelled
	case SubscriptionStatusActive:
		return target == SubscriptionStatusPastDue || target == SubscriptionStatusCancelled
	case SubscriptionStatusPastDue:
		return target == SubscriptionStatusActive || target == SubscriptionStatusCancelled
	case SubscriptionStatusCancelled:
		return false // Terminal state
	}
	return false
}

// Subscription is one tenant's billing relationship with the platform.
// Payment collection itself goes through an external provider; this
// aggregate only tracks the resulting state.
type Subscription struct {
	shared.TenantEntity
	Plan              SubscriptionPlan   `gorm:"type:varchar(20);not null"`
	Status            SubscriptionStatus `gorm:"type:varchar(20);not null"`
	ProviderRef       string             `gorm:"type:varchar(200)"` // Opaque provider-side identifier
	CurrentPeriodEnd  *time.Time
	TrialEndsAt       *time.Time
	CancelledAt       *time.Time
	LastPaymentAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastPaymentAt     *time.Time
}

// GetLastPaymentMoney returns the last successful charge as Money
func (s *Subscription) GetLastPaymentMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(s.LastPaymentAmount)
}

// TableName returns the table name for GORM
func (Subscription) TableName() string {
	return "subscriptions"
}

// NewTrialSubscription starts a tenant on the trial plan
func NewTrialSubscription(tenantID uuid.UUID, trialDays int) (*Subscription, error) {
	if trialDays <= 0 {
		return nil, shared.NewDomainError("INVALID_TRIAL", "Trial length must be positive")
	}
	trialEnd := time.Now().AddDate(0, 0, trialDays)
	return &Subscription{
		TenantEntity: shared.NewTenantEntity(tenantID),
		Plan:         PlanTrial,
		Status:       SubscriptionStatusTrialing,
		TrialEndsAt:  &trialEnd,
	}, nil
}

// AttachProviderRef records the provider-side reference issued at
// checkout, before any payment has settled
func (s *Subscription) AttachProviderRef(ref string) error {
	if ref == "" {
		return shared.NewDomainError("INVALID_REF", "Provider reference cannot be empty")
	}
	if s.Status == SubscriptionStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot start checkout on a cancelled subscription")
	}
	s.ProviderRef = ref
	s.Touch()
	return nil
}

// ActivatePlan converts the subscription to a paid plan
func (s *Subscription) ActivatePlan(plan SubscriptionPlan, providerRef string, periodEnd time.Time) error {
	if !plan.IsValid() || plan == PlanTrial {
		return shared.NewDomainError("INVALID_PLAN", "Unknown paid plan")
	}
	if s.Status != SubscriptionStatusTrialing && !s.Status.CanTransitionTo(SubscriptionStatusActive) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot activate subscription in %s status", s.Status))
	}
	s.Plan = plan
	s.Status = SubscriptionStatusActive
	s.ProviderRef = providerRef
	s.CurrentPeriodEnd = &periodEnd
	s.Touch()
	return nil
}

// RecordPayment records a successful charge and extends the period
func (s *Subscription) RecordPayment(amount valueobject.Money, paidAt, periodEnd time.Time) error {
	if s.Status == SubscriptionStatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot record payment on a cancelled subscription")
	}
	s.Status = SubscriptionStatusActive
	s.LastPaymentAmount = amount.Amount()
	s.LastPaymentAt = &paidAt
	s.CurrentPeriodEnd = &periodEnd
	s.Touch()
	return nil
}

// MarkPastDue flags a failed renewal charge
func (s *Subscription) MarkPastDue() error {
	if !s.Status.CanTransitionTo(SubscriptionStatusPastDue) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot mark subscription past due in %s status", s.Status))
	}
	s.Status = SubscriptionStatusPastDue
	s.Touch()
	return nil
}

// Cancel ends the subscription
func (s *Subscription) Cancel() error {
	if !s.Status.CanTransitionTo(SubscriptionStatusCancelled) {
		return shared.NewDomainError("INVALID_TRANSITION", fmt.Sprintf("Cannot cancel subscription in %s status", s.Status))
	}
	now := time.Now()
	s.Status = SubscriptionStatusCancelled
	s.CancelledAt = &now
	s.Touch()
	return nil
}

// IsTrialExpired returns true for a trialing subscription past its end
func (s *Subscription) IsTrialExpired() bool {
	return s.Status == SubscriptionStatusTrialing && s.TrialEndsAt != nil && time.Now().After(*s.TrialEndsAt)
}

// IsUsable returns true if the tenant should retain full access
func (s *Subscription) IsUsable() bool {
	switch s.Status {
	case SubscriptionStatusActive, SubscriptionStatusPastDue:
		return true
	case SubscriptionStatusTrialing:
		return !s.IsTrialExpired()
	}
	return false
}
