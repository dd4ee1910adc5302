package job

import (
	"context"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// JobRepository defines the persistence interface for jobs
type JobRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Job, error)
	FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*Job, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Job, error)
	FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]Job, error)
	FindByStaff(ctx context.Context, tenantID, staffID uuid.UUID, filter shared.Filter) ([]Job, error)
	FindScheduledBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]Job, error)
	Save(ctx context.Context, job *Job) error
	DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error
	CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error)
	CountOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error)
}
