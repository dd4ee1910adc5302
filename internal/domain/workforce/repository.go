package workforce

import (
	"context"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StaffRepository defines the persistence interface for staff members
type StaffRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*StaffMember, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*StaffMember, error)
	FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*StaffMember, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StaffMember, error)
	Save(ctx context.Context, member *StaffMember) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
}

// TimeEntryRepository defines the persistence interface for time entries
type TimeEntryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*TimeEntry, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*TimeEntry, error)
	FindByJob(ctx context.Context, tenantID, jobID uuid.UUID, filter shared.Filter) ([]TimeEntry, error)
	FindByStaff(ctx context.Context, tenantID, staffID uuid.UUID, filter shared.Filter) ([]TimeEntry, error)
	FindRunningByStaff(ctx context.Context, tenantID, staffID uuid.UUID) (*TimeEntry, error)
	FindBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]TimeEntry, error)
	Save(ctx context.Context, entry *TimeEntry) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountByJob(ctx context.Context, tenantID, jobID uuid.UUID) (int64, error)
	CountByStaff(ctx context.Context, tenantID, staffID uuid.UUID) (int64, error)
}
