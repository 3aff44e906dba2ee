package pipeline

import (
	"context"
	"fmt"
	"time"

	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/pkg/logger"
	"cooking-coach-be/internal/repository/contract"
	"cooking-coach-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// Notifier emits delivery events after the corresponding state is committed.
// Emission is best effort; the chat message is the durable delivery record.
type Notifier interface {
	NotifyTextReady(ctx context.Context, session *entity.CookingSession) error
	NotifyVideoReady(ctx context.Context, session *entity.CookingSession) error
	NotifyFailed(ctx context.Context, session *entity.CookingSession, detail string) error
}

// Orchestrator owns one pipeline run end to end. Run is idempotent per
// session: the job-token fence guarantees at most one live run, persisted
// stage outputs let a retry resume past completed stages, and the coaching
// text is always delivered before video production starts.
type Orchestrator struct {
	uowFactory unitofwork.RepositoryFactory

	selfAssessor  SelfAssessor
	videoAnalyzer VideoAnalyzer
	retriever     Retriever
	writer        CoachingWriter
	scriptWriter  ScriptWriter
	producer      VideoProducer

	notifier Notifier
	log      logger.ILogger
}

func NewOrchestrator(
	uowFactory unitofwork.RepositoryFactory,
	selfAssessor SelfAssessor,
	videoAnalyzer VideoAnalyzer,
	retriever Retriever,
	writer CoachingWriter,
	scriptWriter ScriptWriter,
	producer VideoProducer,
	notifier Notifier,
	log logger.ILogger,
) *Orchestrator {
	return &Orchestrator{
		uowFactory:    uowFactory,
		selfAssessor:  selfAssessor,
		videoAnalyzer: videoAnalyzer,
		retriever:     retriever,
		writer:        writer,
		scriptWriter:  scriptWriter,
		producer:      producer,
		notifier:      notifier,
		log:           log,
	}
}

// Run executes the pipeline for one session. Safe to call any number of
// times with the same id: runs on sessions that are already processing or
// past text_ready/completed are no-ops, and the conditional fence resolves
// concurrent triggers to a single winner.
func (o *Orchestrator) Run(ctx context.Context, sessionId uuid.UUID) error {
	uow := o.uowFactory.NewUnitOfWork(ctx)
	sessions := uow.SessionRepository()

	session, err := sessions.FindByID(ctx, sessionId)
	if err != nil {
		return err
	}
	if session == nil {
		// Nothing to retry; dropping beats poisoning the stream.
		o.log.Warn("pipeline", "trigger for unknown session, dropping", map[string]interface{}{
			"session_id": sessionId.String(),
		})
		return nil
	}

	if session.Status != entity.StatusUploaded && session.Status != entity.StatusFailed {
		o.log.Info("pipeline", "session not runnable, skipping", map[string]interface{}{
			"session_id": sessionId.String(),
			"status":     string(session.Status),
		})
		return nil
	}

	token := uuid.New()
	won, err := sessions.BeginProcessing(ctx, sessionId, token)
	if err != nil {
		return err
	}
	if !won {
		// Another worker holds the session.
		o.log.Info("pipeline", "lost processing race, skipping", map[string]interface{}{
			"session_id": sessionId.String(),
		})
		return nil
	}

	o.log.Info("pipeline", "run started", map[string]interface{}{
		"session_id": sessionId.String(),
		"job_token":  token.String(),
		"attempt":    session.AttemptNumber,
	})

	if err := o.process(ctx, uow, session); err != nil {
		o.markFailed(ctx, session, err)
		return err
	}

	o.log.Info("pipeline", "run completed", map[string]interface{}{
		"session_id": sessionId.String(),
	})
	return nil
}

func (o *Orchestrator) process(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.CookingSession) error {
	sessions := uow.SessionRepository()

	dish, err := uow.DishRepository().FindByID(ctx, session.DishId)
	if err != nil {
		return err
	}
	if dish == nil {
		return fmt.Errorf("dish %s not found", session.DishId)
	}
	dishName := dish.NameJa
	if session.CustomDishName != "" {
		dishName = session.CustomDishName
	}

	// Stage 0 + 1: self-assessment and video analysis. Skipped entirely on a
	// resume that already holds an analysis.
	analysis := session.VideoAnalysis
	if analysis == nil {
		selfRes, err := o.selfAssessor.Run(ctx, session)
		if err != nil {
			return err
		}
		if selfRes.Transcript != "" || selfRes.Extract != nil {
			update := contract.SessionUpdate{}
			if selfRes.Transcript != "" {
				update.VoiceTranscript = &selfRes.Transcript
				session.VoiceTranscript = selfRes.Transcript
			}
			if selfRes.Extract != nil {
				update.SelfAssessment = selfRes.Extract
				session.SelfAssessment = selfRes.Extract
			}
			if err := sessions.Update(ctx, session.Id, update); err != nil {
				return err
			}
		}

		analysis, err = o.videoAnalyzer.Run(ctx, session, dishName)
		if err != nil {
			return err
		}
		if err := sessions.Update(ctx, session.Id, contract.SessionUpdate{VideoAnalysis: analysis}); err != nil {
			return err
		}
		session.VideoAnalysis = analysis
	}

	// Stage 2 + 3: retrieval and coaching text, unless a previous run
	// already generated it.
	coaching := session.CoachingText
	if coaching == nil {
		profile, err := uow.LearnerProfileRepository().FindByUserID(ctx, session.UserId)
		if err != nil {
			return err
		}

		retrieval, err := o.retriever.Run(ctx, analysis.Diagnosis, dish, profile)
		if err != nil {
			return err
		}

		user, err := uow.UserRepository().FindByID(ctx, session.UserId)
		if err != nil {
			return err
		}
		learnerName := ""
		if user != nil {
			learnerName = user.FirstName
		}

		coaching, err = o.writer.Run(ctx, CoachingInput{
			DishName:       dishName,
			LearnerName:    learnerName,
			AttemptNumber:  session.AttemptNumber,
			Diagnosis:      analysis.Diagnosis,
			SelfAssessment: selfAssessmentText(session),
			Profile:        profile,
			Retrieval:      retrieval,
		})
		if err != nil {
			return err
		}
	}

	// Text delivery: one transaction covering the status transition, the
	// learner-profile snapshot, and the chat message. The event fires only
	// after commit.
	if session.CoachingTextDelivered == nil {
		if err := o.deliverText(ctx, session, dish, analysis, coaching); err != nil {
			return err
		}
		if err := o.notifier.NotifyTextReady(ctx, session); err != nil {
			o.log.Warn("pipeline", "text-ready notification failed", map[string]interface{}{
				"session_id": session.Id.String(),
				"error":      err.Error(),
			})
		}
	}

	// Stage 4: narration script.
	script := session.NarrationScript
	if script == nil {
		script, err = o.scriptWriter.Run(ctx, coaching, analysis)
		if err != nil {
			return err
		}
		if err := sessions.Update(ctx, session.Id, contract.SessionUpdate{NarrationScript: script}); err != nil {
			return err
		}
		session.NarrationScript = script
	}

	// Stage 5: video production and completion.
	videoPath, err := o.producer.Run(ctx, session, analysis, script)
	if err != nil {
		return err
	}

	if err := o.complete(ctx, session, videoPath); err != nil {
		return err
	}
	if err := o.notifier.NotifyVideoReady(ctx, session); err != nil {
		o.log.Warn("pipeline", "video-ready notification failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	}

	return nil
}

// deliverText commits the text_ready transition atomically with the profile
// update and the coaching chat message.
func (o *Orchestrator) deliverText(ctx context.Context, session *entity.CookingSession, dish *entity.Dish, analysis *entity.VideoAnalysis, coaching *entity.CoachingText) error {
	uow := o.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	now := time.Now()
	status := entity.StatusTextReady
	err := uow.SessionRepository().Update(ctx, session.Id, contract.SessionUpdate{
		Status:                &status,
		CoachingText:          coaching,
		CoachingTextDelivered: &now,
	})
	if err != nil {
		_ = uow.Rollback()
		return err
	}

	// Row-locked read: two sessions for the same user finishing close together
	// must serialize here, or the later Save would overwrite the earlier
	// session's summary and mistake counters.
	profiles := uow.LearnerProfileRepository()
	profile, err := profiles.FindByUserIDForUpdate(ctx, session.UserId)
	if err != nil {
		_ = uow.Rollback()
		return err
	}
	isNew := profile == nil
	if isNew {
		profile = &entity.LearnerProfile{
			Id:     uuid.New(),
			UserId: session.UserId,
		}
	}
	changed := ApplyCoachingResult(profile, session, dish, analysis, coaching, now)
	switch {
	case isNew:
		err = profiles.Create(ctx, profile)
	case changed:
		err = profiles.Save(ctx, profile)
	}
	if err != nil {
		_ = uow.Rollback()
		return err
	}

	room, err := findOrCreateRoom(ctx, uow, session.UserId, entity.RoomTypeCoaching)
	if err != nil {
		_ = uow.Rollback()
		return err
	}
	sessionId := session.Id
	message := &entity.ChatMessage{
		Id:          uuid.New(),
		ChatRoomId:  room.Id,
		Sender:      entity.SenderAi,
		SessionId:   &sessionId,
		MessageType: entity.MessageTypeCoachingReady,
		Text:        FormatCoachingMessage(coaching),
	}
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		_ = uow.Rollback()
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	session.Status = status
	session.CoachingText = coaching
	session.CoachingTextDelivered = &now
	return nil
}

// complete persists the video path with the completed transition and posts
// the coaching-video chat message in the same transaction.
func (o *Orchestrator) complete(ctx context.Context, session *entity.CookingSession, videoPath string) error {
	uow := o.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	status := entity.StatusCompleted
	err := uow.SessionRepository().Update(ctx, session.Id, contract.SessionUpdate{
		Status:            &status,
		CoachingVideoPath: &videoPath,
	})
	if err != nil {
		_ = uow.Rollback()
		return err
	}

	room, err := findOrCreateRoom(ctx, uow, session.UserId, entity.RoomTypeCoaching)
	if err != nil {
		_ = uow.Rollback()
		return err
	}
	sessionId := session.Id
	message := &entity.ChatMessage{
		Id:          uuid.New(),
		ChatRoomId:  room.Id,
		Sender:      entity.SenderAi,
		SessionId:   &sessionId,
		MessageType: entity.MessageTypeCoachingVideo,
		VideoPath:   videoPath,
	}
	if err := uow.ChatMessageRepository().Create(ctx, message); err != nil {
		_ = uow.Rollback()
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	session.Status = status
	session.CoachingVideoPath = videoPath
	return nil
}

// markFailed records the failure without touching any already-persisted
// stage output.
func (o *Orchestrator) markFailed(ctx context.Context, session *entity.CookingSession, cause error) {
	detail := cause.Error()
	status := entity.StatusFailed
	uow := o.uowFactory.NewUnitOfWork(ctx)
	err := uow.SessionRepository().Update(ctx, session.Id, contract.SessionUpdate{
		Status:      &status,
		ErrorDetail: &detail,
	})
	if err != nil {
		o.log.Error("pipeline", "failed to persist failure state", map[string]interface{}{
			"session_id": session.Id.String(),
			"cause":      detail,
			"error":      err.Error(),
		})
		return
	}

	o.log.Error("pipeline", "run failed", map[string]interface{}{
		"session_id": session.Id.String(),
		"error":      detail,
	})

	if err := o.notifier.NotifyFailed(ctx, session, detail); err != nil {
		o.log.Warn("pipeline", "failure notification failed", map[string]interface{}{
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	}
}

func findOrCreateRoom(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, roomType string) (*entity.ChatRoom, error) {
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

// selfAssessmentText picks the richest available account of the learner's
// own impression.
func selfAssessmentText(session *entity.CookingSession) string {
	if session.SelfAssessment != nil && session.SelfAssessment.SelfAssessment != "" {
		return session.SelfAssessment.SelfAssessment
	}
	return firstNonEmpty(session.VoiceTranscript, session.SelfAssessmentText)
}

// FormatCoachingMessage renders the four-part coaching text as the chat
// message body.
func FormatCoachingMessage(c *entity.CoachingText) string {
	return fmt.Sprintf("【今回の課題】\n%s\n\n【身につけたいスキル】\n%s\n\n【次にやること】\n%s\n\n【成功のサイン】\n%s",
		c.Problem, c.Skill, c.NextAction, c.SuccessSignal)
}
