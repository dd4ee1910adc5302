package billing

import (
	"context"
	"errors"

	"github.com/fieldworks/backend/internal/domain/billing"
	"github.com/fieldworks/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// NumberingService exposes per-tenant document numbering settings
type NumberingService struct {
	sequenceRepo billing.DocumentSequenceRepository
}

// NewNumberingService creates a new NumberingService
func NewNumberingService(sequenceRepo billing.DocumentSequenceRepository) *NumberingService {
	return &NumberingService{sequenceRepo: sequenceRepo}
}

// Get returns the numbering state for a document kind. A sequence that
// has never issued a number reports the kind's default prefix.
func (s *NumberingService) Get(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind) (*SequenceResponse, error) {
	seq, err := s.sequenceRepo.Get(ctx, tenantID, kind)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			fresh, derr := billing.NewDocumentSequence(tenantID, kind)
			if derr != nil {
				return nil, derr
			}
			response := ToSequenceResponse(fresh)
			return &response, nil
		}
		return nil, err
	}

	response := ToSequenceResponse(seq)
	return &response, nil
}

// UpdatePrefix changes the prefix used for future document numbers.
// Already issued numbers keep their original prefix.
func (s *NumberingService) UpdatePrefix(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind, req UpdatePrefixRequest) (*SequenceResponse, error) {
	if err := s.sequenceRepo.UpdatePrefix(ctx, tenantID, kind, req.Prefix); err != nil {
		return nil, err
	}
	return s.Get(ctx, tenantID, kind)
}
