package implementation

import (
	"context"
	"errors"
	"time"

	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/mapper"
	"cooking-coach-be/internal/model"
	"cooking-coach-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.CookingSession) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*entity.CookingSession, error) {
	var m model.CookingSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRepositoryImpl) FindAllByUser(ctx context.Context, userId uuid.UUID) ([]*entity.CookingSession, error) {
	var models []*model.CookingSession
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userId).
		Order("created_at DESC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	sessions := make([]*entity.CookingSession, len(models))
	for i, m := range models {
		sessions[i] = r.mapper.ToEntity(m)
	}
	return sessions, nil
}

func (r *SessionRepositoryImpl) CountByUserAndDish(ctx context.Context, userId, dishId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.CookingSession{}).
		Where("user_id = ? AND dish_id = ?", userId, dishId).
		Count(&count).Error
	return count, err
}

// BeginProcessing is the single compare-and-swap that guards the whole
// pipeline run. Whoever gets RowsAffected == 1 owns the session.
func (r *SessionRepositoryImpl) BeginProcessing(ctx context.Context, id uuid.UUID, token uuid.UUID) (bool, error) {
	now := time.Now()
	res := r.db.WithContext(ctx).
		Model(&model.CookingSession{}).
		Where("id = ? AND status IN ?", id, []string{string(entity.StatusUploaded), string(entity.StatusFailed)}).
		Updates(map[string]interface{}{
			"status":              string(entity.StatusProcessing),
			"job_token":           token,
			"pipeline_started_at": now,
			"error_detail":        "",
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepositoryImpl) ResetForRetry(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CookingSession{}).
		Where("id = ? AND status = ?", id, string(entity.StatusFailed)).
		Update("status", string(entity.StatusUploaded))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepositoryImpl) ConfirmUpload(ctx context.Context, id uuid.UUID, rawVideoPath string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.CookingSession{}).
		Where("id = ? AND status = ?", id, string(entity.StatusPendingUpload)).
		Updates(map[string]interface{}{
			"status":         string(entity.StatusUploaded),
			"raw_video_path": rawVideoPath,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *SessionRepositoryImpl) Update(ctx context.Context, id uuid.UUID, update contract.SessionUpdate) error {
	fields := map[string]interface{}{}
	if update.Status != nil {
		fields["status"] = string(*update.Status)
	}
	if update.ErrorDetail != nil {
		fields["error_detail"] = *update.ErrorDetail
	}
	if update.VoiceTranscript != nil {
		fields["voice_transcript"] = *update.VoiceTranscript
	}
	if update.SelfAssessment != nil {
		fields["self_assessment"] = datatypes.NewJSONType(*update.SelfAssessment)
	}
	if update.VideoAnalysis != nil {
		fields["video_analysis"] = datatypes.NewJSONType(*update.VideoAnalysis)
	}
	if update.CoachingText != nil {
		fields["coaching_text"] = datatypes.NewJSONType(*update.CoachingText)
	}
	if update.CoachingTextDelivered != nil {
		fields["coaching_text_delivered"] = *update.CoachingTextDelivered
	}
	if update.NarrationScript != nil {
		fields["narration_script"] = datatypes.NewJSONType(*update.NarrationScript)
	}
	if update.CoachingVideoPath != nil {
		fields["coaching_video_path"] = *update.CoachingVideoPath
	}
	if len(fields) == 0 {
		return nil
	}

	res := r.db.WithContext(ctx).
		Model(&model.CookingSession{}).
		Where("id = ?", id).
		Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
