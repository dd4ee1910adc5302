package platform

import (
	"context"

	"github.com/fieldworks/backend/internal/domain/platform"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupportService handles support conversations between tenants and
// platform staff
type SupportService struct {
	threadRepo platform.SupportThreadRepository
}

// NewSupportService creates a new support service
func NewSupportService(threadRepo platform.SupportThreadRepository) *SupportService {
	return &SupportService{threadRepo: threadRepo}
}

// OpenThread opens a thread on behalf of a tenant user
func (s *SupportService) OpenThread(ctx context.Context, tenantID, authorID uuid.UUID, req OpenThreadRequest) (*ThreadResponse, error) {
	thread, err := platform.NewSupportThread(tenantID, authorID, req.Subject, req.Body)
	if err != nil {
		return nil, err
	}

	if err := s.threadRepo.Save(ctx, thread); err != nil {
		return nil, err
	}

	response := ToThreadResponse(thread)
	return &response, nil
}

// GetForTenant retrieves a thread scoped to its tenant
func (s *SupportService) GetForTenant(ctx context.Context, tenantID, threadID uuid.UUID) (*ThreadResponse, error) {
	thread, err := s.threadRepo.FindByIDForTenant(ctx, tenantID, threadID)
	if err != nil {
		return nil, err
	}

	response := ToThreadResponse(thread)
	return &response, nil
}

// Get retrieves any thread, for platform staff
func (s *SupportService) Get(ctx context.Context, threadID uuid.UUID) (*ThreadResponse, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	response := ToThreadResponse(thread)
	return &response, nil
}

// TenantReply appends a tenant message. Replying to a closed thread
// reopens it.
func (s *SupportService) TenantReply(ctx context.Context, tenantID, threadID, authorID uuid.UUID, req ReplyRequest) (*ThreadResponse, error) {
	thread, err := s.threadRepo.FindByIDForTenant(ctx, tenantID, threadID)
	if err != nil {
		return nil, err
	}

	if err := thread.AddMessage(platform.AuthorTenant, authorID, req.Body); err != nil {
		return nil, err
	}

	return s.save(ctx, thread)
}

// PlatformReply appends a reply from platform staff
func (s *SupportService) PlatformReply(ctx context.Context, threadID, authorID uuid.UUID, req ReplyRequest) (*ThreadResponse, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if err := thread.AddMessage(platform.AuthorPlatform, authorID, req.Body); err != nil {
		return nil, err
	}

	return s.save(ctx, thread)
}

// CloseForTenant closes a thread at the tenant's request
func (s *SupportService) CloseForTenant(ctx context.Context, tenantID, threadID uuid.UUID) (*ThreadResponse, error) {
	thread, err := s.threadRepo.FindByIDForTenant(ctx, tenantID, threadID)
	if err != nil {
		return nil, err
	}

	if err := thread.Close(); err != nil {
		return nil, err
	}

	return s.save(ctx, thread)
}

// Close closes a thread, for platform staff
func (s *SupportService) Close(ctx context.Context, threadID uuid.UUID) (*ThreadResponse, error) {
	thread, err := s.threadRepo.FindByID(ctx, threadID)
	if err != nil {
		return nil, err
	}

	if err := thread.Close(); err != nil {
		return nil, err
	}

	return s.save(ctx, thread)
}

// ListForTenant retrieves a tenant's threads with pagination
func (s *SupportService) ListForTenant(ctx context.Context, tenantID uuid.UUID, filter ThreadListFilter) ([]ThreadListResponse, int64, error) {
	domainFilter := buildThreadFilter(filter)

	threads, err := s.threadRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.threadRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToThreadListResponses(threads), total, nil
}

// ListAll retrieves threads across tenants, for the platform inbox
func (s *SupportService) ListAll(ctx context.Context, filter ThreadListFilter) ([]ThreadListResponse, int64, error) {
	domainFilter := buildThreadFilter(filter)

	threads, err := s.threadRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.threadRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToThreadListResponses(threads), total, nil
}

func (s *SupportService) save(ctx context.Context, thread *platform.SupportThread) (*ThreadResponse, error) {
	if err := s.threadRepo.Save(ctx, thread); err != nil {
		return nil, err
	}

	response := ToThreadResponse(thread)
	return &response, nil
}

func buildThreadFilter(filter ThreadListFilter) shared.Filter {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	orderBy := filter.OrderBy
	if orderBy == "" {
		orderBy = "updated_at"
	}
	orderDir := filter.OrderDir
	if orderDir == "" {
		orderDir = "desc"
	}

	filters := make(map[string]interface{})
	if filter.Status != "" {
		filters["status"] = filter.Status
	}

	return shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  orderBy,
		OrderDir: orderDir,
		Filters:  filters,
	}
}
