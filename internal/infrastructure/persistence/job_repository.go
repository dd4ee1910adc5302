package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fieldworks/backend/internal/domain/job"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormJobRepository implements job.JobRepository
type GormJobRepository struct {
	db *gorm.DB
}

// NewGormJobRepository creates a new job repository
func NewGormJobRepository(db *gorm.DB) *GormJobRepository {
	return &GormJobRepository{db: db}
}

var _ job.JobRepository = (*GormJobRepository)(nil)

// FindByID finds a job by ID
func (r *GormJobRepository) FindByID(ctx context.Context, id uuid.UUID) (*job.Job, error) {
	var j job.Job
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("id = ?", id).
		First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// FindByIDForTenant finds a job by ID within a tenant
func (r *GormJobRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*job.Job, error) {
	var j job.Job
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&j).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &j, nil
}

// FindAllForTenant finds jobs for a tenant with filtering and pagination
func (r *GormJobRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]job.Job, error) {
	var jobs []job.Job
	query := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, JobSortFields, "title", "customer_name", "address")
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindByCustomer finds jobs for a customer
func (r *GormJobRepository) FindByCustomer(ctx context.Context, tenantID, customerID uuid.UUID, filter shared.Filter) ([]job.Job, error) {
	var jobs []job.Job
	query := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("tenant_id = ? AND customer_id = ?", tenantID, customerID)
	query = applyFilter(query, filter, JobSortFields, "title", "address")
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindByStaff finds jobs a staff member is assigned to
func (r *GormJobRepository) FindByStaff(ctx context.Context, tenantID, staffID uuid.UUID, filter shared.Filter) ([]job.Job, error) {
	var jobs []job.Job
	query := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("tenant_id = ? AND id IN (SELECT job_id FROM job_assignments WHERE staff_id = ?)", tenantID, staffID)
	query = applyFilter(query, filter, JobSortFields, "title", "customer_name")
	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

// FindScheduledBetween finds jobs whose scheduled start falls in the window
func (r *GormJobRepository) FindScheduledBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]job.Job, error) {
	var jobs []job.Job
	err := r.db.WithContext(ctx).
		Preload("Assignments").
		Where("tenant_id = ? AND scheduled_start >= ? AND scheduled_start < ?", tenantID, from, to).
		Order("scheduled_start ASC").
		Find(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// Save creates or updates a job together with its assignments.
// Assignments removed from the aggregate are deleted.
func (r *GormJobRepository) Save(ctx context.Context, j *job.Job) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignments").Save(j).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(j.Assignments))
		for i := range j.Assignments {
			keep = append(keep, j.Assignments[i].ID)
		}
		del := tx.Where("job_id = ?", j.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&job.JobAssignment{}).Error; err != nil {
			return err
		}

		for i := range j.Assignments {
			if err := tx.Save(&j.Assignments[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteForTenant deletes a job and its assignments
func (r *GormJobRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&job.Job{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return tx.Where("job_id = ?", id).Delete(&job.JobAssignment{}).Error
	})
}

// CountForTenant counts jobs matching the filter
func (r *GormJobRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&job.Job{}).
		Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, JobSortFields, "title", "customer_name", "address")
	err := query.Count(&count).Error
	return count, err
}

// CountOpenByCustomer counts scheduled or in-progress jobs for a customer
func (r *GormJobRepository) CountOpenByCustomer(ctx context.Context, tenantID, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&job.Job{}).
		Where("tenant_id = ? AND customer_id = ? AND status IN ?",
			tenantID, customerID, []job.JobStatus{job.JobStatusScheduled, job.JobStatusInProgress}).
		Count(&count).Error
	return count, err
}
