package service

import (
	"context"
	"fmt"
	"time"

	"cooking-coach-be/internal/dto"
	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/pkg/logger"
	"cooking-coach-be/internal/repository/unitofwork"
	pktNats "cooking-coach-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const uploadURLExpiry = time.Hour

type ISessionService interface {
	Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error)
	ConfirmUpload(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ConfirmUploadResponse, error)
	Retry(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.RetrySessionResponse, error)
	Show(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error)
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.LearnerProfileResponse, error)
}

// UploadURLSigner mints the pre-signed PUT URLs handed to the client at
// session creation.
type UploadURLSigner interface {
	SignedUploadURL(objectPath string, contentType string, expiry time.Duration) (string, error)
}

type sessionService struct {
	uowFactory     unitofwork.RepositoryFactory
	uploadSigner   UploadURLSigner
	signedURLs     ISignedURLService
	natsPub        *pktNats.Publisher
	triggerSubject string
	logger         logger.ILogger
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	uploadSigner UploadURLSigner,
	signedURLs ISignedURLService,
	natsPub *pktNats.Publisher,
	triggerSubject string,
	log logger.ILogger,
) ISessionService {
	return &sessionService{
		uowFactory:     uowFactory,
		uploadSigner:   uploadSigner,
		signedURLs:     signedURLs,
		natsPub:        natsPub,
		triggerSubject: triggerSubject,
		logger:         log,
	}
}

func rawVideoPath(sessionId uuid.UUID) string {
	return fmt.Sprintf("sessions/%s/raw.mp4", sessionId)
}

func voiceMemoPath(sessionId uuid.UUID) string {
	return fmt.Sprintf("sessions/%s/voice_memo.m4a", sessionId)
}

func (s *sessionService) Create(ctx context.Context, userId uuid.UUID, req *dto.CreateSessionRequest) (*dto.CreateSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	dish, err := uow.DishRepository().FindByID(ctx, req.DishId)
	if err != nil {
		return nil, err
	}
	if dish == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "dish not found")
	}

	// Attempt cap is a creation-time policy, not a pipeline concern: once a
	// session exists it always runs to coaching, even if it was the last
	// allowed attempt.
	attemptsUsed, err := uow.SessionRepository().CountByUserAndDish(ctx, userId, dish.Id)
	if err != nil {
		return nil, err
	}
	if !dish.Unlimited() && attemptsUsed >= int64(dish.MaxAttempts) {
		return nil, fiber.NewError(fiber.StatusConflict, "attempt limit for this dish reached")
	}

	session := entity.CookingSession{
		Id:                 uuid.New(),
		UserId:             userId,
		DishId:             dish.Id,
		AttemptNumber:      int(attemptsUsed) + 1,
		CustomDishName:     req.CustomDishName,
		SelfRatings:        req.SelfRatings,
		SelfAssessmentText: req.SelfAssessmentText,
		Status:             entity.StatusPendingUpload,
		CreatedAt:          time.Now(),
	}
	if req.WithVoiceMemo {
		session.VoiceMemoPath = voiceMemoPath(session.Id)
	}

	if err := uow.SessionRepository().Create(ctx, &session); err != nil {
		return nil, err
	}

	videoURL, err := s.uploadSigner.SignedUploadURL(rawVideoPath(session.Id), "video/mp4", uploadURLExpiry)
	if err != nil {
		return nil, err
	}

	res := &dto.CreateSessionResponse{
		Id:             session.Id,
		AttemptNumber:  session.AttemptNumber,
		Status:         string(session.Status),
		VideoUploadURL: videoURL,
	}
	if req.WithVoiceMemo {
		memoURL, err := s.uploadSigner.SignedUploadURL(session.VoiceMemoPath, "audio/mp4", uploadURLExpiry)
		if err != nil {
			return nil, err
		}
		res.VoiceMemoUploadURL = memoURL
	}

	return res, nil
}

func (s *sessionService) ConfirmUpload(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.ConfirmUploadResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	sessions := uow.SessionRepository()

	session, err := s.findOwned(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	confirmed, err := sessions.ConfirmUpload(ctx, sessionId, rawVideoPath(sessionId))
	if err != nil {
		return nil, err
	}
	if !confirmed {
		// Re-confirming an already uploaded session is harmless; anything
		// else is a state conflict.
		if session.Status == entity.StatusPendingUpload {
			return nil, fiber.NewError(fiber.StatusConflict, "session is not awaiting upload")
		}
		return &dto.ConfirmUploadResponse{Id: sessionId, Status: string(session.Status)}, nil
	}

	// Echo the raw video into the user's video feed.
	room, err := s.findOrCreateRoom(ctx, uow, userId, entity.RoomTypeCookingVideos)
	if err != nil {
		return nil, err
	}
	echo := &entity.ChatMessage{
		Id:          uuid.New(),
		ChatRoomId:  room.Id,
		Sender:      entity.SenderUser,
		SessionId:   &sessionId,
		MessageType: entity.MessageTypeCookingVideo,
		VideoPath:   rawVideoPath(sessionId),
	}
	if err := uow.ChatMessageRepository().Create(ctx, echo); err != nil {
		return nil, err
	}

	if err := s.publishTrigger(ctx, sessionId); err != nil {
		// The session stays in uploaded; the manual retry endpoint can
		// re-publish if this ever happens.
		s.logger.Error("SessionService", "failed to publish pipeline trigger", map[string]interface{}{
			"session_id": sessionId.String(),
			"error":      err.Error(),
		})
		return nil, err
	}

	return &dto.ConfirmUploadResponse{Id: sessionId, Status: string(entity.StatusUploaded)}, nil
}

func (s *sessionService) Retry(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.RetrySessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwned(ctx, uow, userId, sessionId); err != nil {
		return nil, err
	}

	reset, err := uow.SessionRepository().ResetForRetry(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if !reset {
		return nil, fiber.NewError(fiber.StatusConflict, "only failed sessions can be retried")
	}

	if err := s.publishTrigger(ctx, sessionId); err != nil {
		return nil, err
	}

	return &dto.RetrySessionResponse{Id: sessionId, Status: string(entity.StatusUploaded)}, nil
}

func (s *sessionService) Show(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := s.findOwned(ctx, uow, userId, sessionId)
	if err != nil {
		return nil, err
	}

	res := toSessionResponse(session)
	if session.RawVideoPath != "" {
		if url, err := s.signedURLs.SignedReadURL(ctx, session.RawVideoPath); err == nil {
			res.RawVideoURL = url
		}
	}
	if session.CoachingVideoPath != "" {
		if url, err := s.signedURLs.SignedReadURL(ctx, session.CoachingVideoPath); err == nil {
			res.CoachingVideoURL = url
		}
	}

	return res, nil
}

func (s *sessionService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAllByUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, toSessionResponse(session))
	}
	return result, nil
}

func (s *sessionService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.LearnerProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.LearnerProfileRepository().FindByUserID(ctx, userId)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return &dto.LearnerProfileResponse{
			SkillsAcquired:    []string{},
			SkillsDeveloping:  []string{},
			RecurringMistakes: []entity.RecurringMistake{},
			SessionSummaries:  []entity.SessionSummary{},
			LearningVelocity:  "steady",
		}, nil
	}

	return &dto.LearnerProfileResponse{
		SkillsAcquired:    profile.SkillsAcquired,
		SkillsDeveloping:  profile.SkillsDeveloping,
		RecurringMistakes: profile.RecurringMistakes,
		LearningVelocity:  profile.LearningVelocity,
		SessionSummaries:  profile.SessionSummaries,
		NextFocus:         profile.NextFocus,
		ReadyForNextDish:  profile.ReadyForNextDish,
		UpdatedAt:         profile.UpdatedAt,
	}, nil
}

func (s *sessionService) publishTrigger(ctx context.Context, sessionId uuid.UUID) error {
	return s.natsPub.PublishTrigger(ctx, s.triggerSubject, dto.PipelineTriggerMessage{SessionId: sessionId})
}

func (s *sessionService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, sessionId uuid.UUID) (*entity.CookingSession, error) {
	session, err := uow.SessionRepository().FindByID(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "session not found")
	}
	return session, nil
}

func (s *sessionService) findOrCreateRoom(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, roomType string) (*entity.ChatRoom, error) {
	rooms := uow.ChatRoomRepository()
	room, err := rooms.FindByUserAndType(ctx, userId, roomType)
	if err != nil {
		return nil, err
	}
	if room != nil {
		return room, nil
	}
	room = &entity.ChatRoom{
		Id:       uuid.New(),
		UserId:   userId,
		RoomType: roomType,
	}
	if err := rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

func toSessionResponse(session *entity.CookingSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:              session.Id,
		DishId:          session.DishId,
		CustomDishName:  session.CustomDishName,
		AttemptNumber:   session.AttemptNumber,
		Status:          string(session.Status),
		ErrorDetail:     session.ErrorDetail,
		SelfAssessment:  session.SelfAssessment,
		VideoAnalysis:   session.VideoAnalysis,
		CoachingText:    session.CoachingText,
		NarrationScript: session.NarrationScript,
		CreatedAt:       session.CreatedAt,
		UpdatedAt:       session.UpdatedAt,
	}
}
