package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/fieldworks/backend/internal/domain/workforce"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStaffRepository implements workforce.StaffRepository
type GormStaffRepository struct {
	db *gorm.DB
}

// NewGormStaffRepository creates a new staff repository
func NewGormStaffRepository(db *gorm.DB) *GormStaffRepository {
	return &GormStaffRepository{db: db}
}

var _ workforce.StaffRepository = (*GormStaffRepository)(nil)

// FindByID finds a staff member by ID
func (r *GormStaffRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.StaffMember, error) {
	var member workforce.StaffMember
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindByIDForTenant finds a staff member by ID within a tenant
func (r *GormStaffRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workforce.StaffMember, error) {
	var member workforce.StaffMember
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindByUserID finds the staff member linked to a login account
func (r *GormStaffRepository) FindByUserID(ctx context.Context, tenantID, userID uuid.UUID) (*workforce.StaffMember, error) {
	var member workforce.StaffMember
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &member, nil
}

// FindAllForTenant finds staff members for a tenant with filtering
func (r *GormStaffRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]workforce.StaffMember, error) {
	var members []workforce.StaffMember
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	query = applyFilter(query, filter, StaffSortFields, "name", "email", "trade")
	if err := query.Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// Save creates or updates a staff member
func (r *GormStaffRepository) Save(ctx context.Context, member *workforce.StaffMember) error {
	return r.db.WithContext(ctx).Save(member).Error
}

// DeleteForTenant deletes a staff member for a tenant
func (r *GormStaffRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&workforce.StaffMember{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountForTenant counts staff members matching the filter
func (r *GormStaffRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&workforce.StaffMember{}).
		Where("tenant_id = ?", tenantID)
	query = applyFilterWithoutPagination(query, filter, StaffSortFields, "name", "email", "trade")
	err := query.Count(&count).Error
	return count, err
}

// GormTimeEntryRepository implements workforce.TimeEntryRepository
type GormTimeEntryRepository struct {
	db *gorm.DB
}

// NewGormTimeEntryRepository creates a new time entry repository
func NewGormTimeEntryRepository(db *gorm.DB) *GormTimeEntryRepository {
	return &GormTimeEntryRepository{db: db}
}

var _ workforce.TimeEntryRepository = (*GormTimeEntryRepository)(nil)

var timeEntrySortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"started_at": true,
	"ended_at":   true,
}

// FindByID finds a time entry by ID
func (r *GormTimeEntryRepository) FindByID(ctx context.Context, id uuid.UUID) (*workforce.TimeEntry, error) {
	var entry workforce.TimeEntry
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByIDForTenant finds a time entry by ID within a tenant
func (r *GormTimeEntryRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*workforce.TimeEntry, error) {
	var entry workforce.TimeEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindByJob finds time entries recorded against a job
func (r *GormTimeEntryRepository) FindByJob(ctx context.Context, tenantID, jobID uuid.UUID, filter shared.Filter) ([]workforce.TimeEntry, error) {
	var entries []workforce.TimeEntry
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND job_id = ?", tenantID, jobID)
	query = applyFilter(query, filter, timeEntrySortFields)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindByStaff finds time entries recorded by a staff member
func (r *GormTimeEntryRepository) FindByStaff(ctx context.Context, tenantID, staffID uuid.UUID, filter shared.Filter) ([]workforce.TimeEntry, error) {
	var entries []workforce.TimeEntry
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND staff_id = ?", tenantID, staffID)
	query = applyFilter(query, filter, timeEntrySortFields)
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// FindRunningByStaff finds the staff member's running entry, if any.
// At most one entry per staff member may be running at a time; the
// service layer enforces that before starting a new one.
func (r *GormTimeEntryRepository) FindRunningByStaff(ctx context.Context, tenantID, staffID uuid.UUID) (*workforce.TimeEntry, error) {
	var entry workforce.TimeEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND staff_id = ? AND ended_at IS NULL", tenantID, staffID).
		Order("started_at DESC").
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// FindBetween finds entries that started inside the window
func (r *GormTimeEntryRepository) FindBetween(ctx context.Context, tenantID uuid.UUID, from, to time.Time) ([]workforce.TimeEntry, error) {
	var entries []workforce.TimeEntry
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND started_at >= ? AND started_at < ?", tenantID, from, to).
		Order("started_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Save creates or updates a time entry
func (r *GormTimeEntryRepository) Save(ctx context.Context, entry *workforce.TimeEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// DeleteForTenant deletes a time entry for a tenant
func (r *GormTimeEntryRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&workforce.TimeEntry{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// CountByJob counts time entries recorded against a job
func (r *GormTimeEntryRepository) CountByJob(ctx context.Context, tenantID, jobID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&workforce.TimeEntry{}).
		Where("tenant_id = ? AND job_id = ?", tenantID, jobID).
		Count(&count).Error
	return count, err
}

// CountByStaff counts time entries recorded by a staff member
func (r *GormTimeEntryRepository) CountByStaff(ctx context.Context, tenantID, staffID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&workforce.TimeEntry{}).
		Where("tenant_id = ? AND staff_id = ?", tenantID, staffID).
		Count(&count).Error
	return count, err
}
