package contract

import (
	"context"

	"cooking-coach-be/internal/entity"

	"github.com/google/uuid"
)

type LearnerProfileRepository interface {
	// FindByUserID returns nil when the user has no profile yet.
	FindByUserID(ctx context.Context, userId uuid.UUID) (*entity.LearnerProfile, error)
	// FindByUserIDForUpdate is FindByUserID with a row lock. Callers must be
	// inside a transaction; the lock serializes concurrent read-modify-write
	// cycles on the same profile.
	FindByUserIDForUpdate(ctx context.Context, userId uuid.UUID) (*entity.LearnerProfile, error)
	Create(ctx context.Context, profile *entity.LearnerProfile) error
	// Save writes the full snapshot back.
	Save(ctx context.Context, profile *entity.LearnerProfile) error
}
