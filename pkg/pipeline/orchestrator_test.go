package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"cooking-coach-be/internal/entity"
	"cooking-coach-be/internal/repository/contract"
	"cooking-coach-be/internal/repository/specification"
	"cooking-coach-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory repositories ---

type memSessionRepo struct {
	sessions map[uuid.UUID]*entity.CookingSession
}

func (r *memSessionRepo) Create(_ context.Context, s *entity.CookingSession) error {
	r.sessions[s.Id] = s
	return nil
}

func (r *memSessionRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.CookingSession, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, nil
	}
	snapshot := *s
	return &snapshot, nil
}

func (r *memSessionRepo) FindAllByUser(context.Context, uuid.UUID) ([]*entity.CookingSession, error) {
	return nil, nil
}

func (r *memSessionRepo) CountByUserAndDish(context.Context, uuid.UUID, uuid.UUID) (int64, error) {
	return 0, nil
}

func (r *memSessionRepo) BeginProcessing(_ context.Context, id uuid.UUID, token uuid.UUID) (bool, error) {
	s, ok := r.sessions[id]
	if !ok {
		return false, nil
	}
	if s.Status != entity.StatusUploaded && s.Status != entity.StatusFailed {
		return false, nil
	}
	now := time.Now()
	s.Status = entity.StatusProcessing
	s.JobToken = &token
	s.PipelineStartedAt = &now
	return true, nil
}

func (r *memSessionRepo) ResetForRetry(_ context.Context, id uuid.UUID) (bool, error) {
	s, ok := r.sessions[id]
	if !ok || s.Status != entity.StatusFailed {
		return false, nil
	}
	s.Status = entity.StatusUploaded
	s.ErrorDetail = ""
	return true, nil
}

func (r *memSessionRepo) ConfirmUpload(context.Context, uuid.UUID, string) (bool, error) {
	return false, nil
}

func (r *memSessionRepo) Update(_ context.Context, id uuid.UUID, u contract.SessionUpdate) error {
	s, ok := r.sessions[id]
	if !ok {
		return errors.New("session not found")
	}
	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.ErrorDetail != nil {
		s.ErrorDetail = *u.ErrorDetail
	}
	if u.VoiceTranscript != nil {
		s.VoiceTranscript = *u.VoiceTranscript
	}
	if u.SelfAssessment != nil {
		s.SelfAssessment = u.SelfAssessment
	}
	if u.VideoAnalysis != nil {
		s.VideoAnalysis = u.VideoAnalysis
	}
	if u.CoachingText != nil {
		s.CoachingText = u.CoachingText
	}
	if u.CoachingTextDelivered != nil {
		s.CoachingTextDelivered = u.CoachingTextDelivered
	}
	if u.NarrationScript != nil {
		s.NarrationScript = u.NarrationScript
	}
	if u.CoachingVideoPath != nil {
		s.CoachingVideoPath = *u.CoachingVideoPath
	}
	return nil
}

type memDishRepo struct {
	dishes map[uuid.UUID]*entity.Dish
}

func (r *memDishRepo) Create(_ context.Context, d *entity.Dish) error {
	r.dishes[d.Id] = d
	return nil
}

func (r *memDishRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.Dish, error) {
	return r.dishes[id], nil
}

func (r *memDishRepo) FindBySlug(context.Context, string) (*entity.Dish, error) {
	return nil, nil
}

func (r *memDishRepo) FindAll(context.Context) ([]*entity.Dish, error) {
	return nil, nil
}

type memProfileRepo struct {
	profiles    map[uuid.UUID]*entity.LearnerProfile // by user id
	saves       int
	lockedFinds int
}

func (r *memProfileRepo) FindByUserID(_ context.Context, userId uuid.UUID) (*entity.LearnerProfile, error) {
	return r.profiles[userId], nil
}

func (r *memProfileRepo) FindByUserIDForUpdate(_ context.Context, userId uuid.UUID) (*entity.LearnerProfile, error) {
	r.lockedFinds++
	return r.profiles[userId], nil
}

func (r *memProfileRepo) Create(_ context.Context, p *entity.LearnerProfile) error {
	r.profiles[p.UserId] = p
	return nil
}

func (r *memProfileRepo) Save(_ context.Context, p *entity.LearnerProfile) error {
	r.profiles[p.UserId] = p
	r.saves++
	return nil
}

type memChatRoomRepo struct {
	rooms []*entity.ChatRoom
}

func (r *memChatRoomRepo) Create(_ context.Context, room *entity.ChatRoom) error {
	r.rooms = append(r.rooms, room)
	return nil
}

func (r *memChatRoomRepo) FindByUserAndType(_ context.Context, userId uuid.UUID, roomType string) (*entity.ChatRoom, error) {
	for _, room := range r.rooms {
		if room.UserId == userId && room.RoomType == roomType {
			return room, nil
		}
	}
	return nil, nil
}

func (r *memChatRoomRepo) FindAllByUser(context.Context, uuid.UUID) ([]*entity.ChatRoom, error) {
	return nil, nil
}

type memChatMessageRepo struct {
	messages []*entity.ChatMessage
	calls    *[]string
}

func (r *memChatMessageRepo) Create(_ context.Context, m *entity.ChatMessage) error {
	r.messages = append(r.messages, m)
	if r.calls != nil {
		*r.calls = append(*r.calls, "message:"+m.MessageType)
	}
	return nil
}

func (r *memChatMessageRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.ChatMessage, error) {
	return r.messages, nil
}

type memUserRepo struct {
	user *entity.User
}

func (r *memUserRepo) FindByID(context.Context, uuid.UUID) (*entity.User, error) {
	return r.user, nil
}

func (r *memUserRepo) Create(context.Context, *entity.User) error {
	return nil
}

// --- unit of work fake ---

type memUow struct {
	sessions *memSessionRepo
	dishes   *memDishRepo
	profiles *memProfileRepo
	rooms    *memChatRoomRepo
	messages *memChatMessageRepo
	users    *memUserRepo
}

func (u *memUow) Begin(context.Context) error { return nil }
func (u *memUow) Commit() error               { return nil }
func (u *memUow) Rollback() error             { return nil }

func (u *memUow) UserRepository() contract.UserRepository {
	return u.users
}

func (u *memUow) DishRepository() contract.DishRepository {
	return u.dishes
}

func (u *memUow) SessionRepository() contract.SessionRepository {
	return u.sessions
}

func (u *memUow) LearnerProfileRepository() contract.LearnerProfileRepository {
	return u.profiles
}

func (u *memUow) KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository {
	return &fakeKnowledgeRepo{}
}

func (u *memUow) ChatRoomRepository() contract.ChatRoomRepository {
	return u.rooms
}

func (u *memUow) ChatMessageRepository() contract.ChatMessageRepository {
	return u.messages
}

type memUowFactory struct {
	uow *memUow
}

func (f *memUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

// --- stage and notifier fakes ---

type fakeStages struct {
	calls *[]string

	analysis *entity.VideoAnalysis
	coaching *entity.CoachingText
	script   *entity.NarrationScript

	analyzeErr error
	writeErr   error
	produceErr error
}

func (f *fakeStages) RunSelfAssessment(context.Context, *entity.CookingSession) (*SelfAssessmentResult, error) {
	*f.calls = append(*f.calls, "self_assessment")
	return &SelfAssessmentResult{}, nil
}

func (f *fakeStages) RunAnalysis(context.Context, *entity.CookingSession, string) (*entity.VideoAnalysis, error) {
	*f.calls = append(*f.calls, "video_analysis")
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	return f.analysis, nil
}

func (f *fakeStages) RunRetrieval(context.Context, string, *entity.Dish, *entity.LearnerProfile) (*RetrievalResult, error) {
	*f.calls = append(*f.calls, "retrieval")
	return &RetrievalResult{}, nil
}

func (f *fakeStages) RunWriter(context.Context, CoachingInput) (*entity.CoachingText, error) {
	*f.calls = append(*f.calls, "coaching_text")
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return f.coaching, nil
}

func (f *fakeStages) RunScript(context.Context, *entity.CoachingText, *entity.VideoAnalysis) (*entity.NarrationScript, error) {
	*f.calls = append(*f.calls, "narration_script")
	return f.script, nil
}

func (f *fakeStages) RunProducer(ctx context.Context, session *entity.CookingSession, _ *entity.VideoAnalysis, _ *entity.NarrationScript) (string, error) {
	*f.calls = append(*f.calls, "video_production")
	if f.produceErr != nil {
		return "", f.produceErr
	}
	return "sessions/" + session.Id.String() + "/coaching_video.mp4", nil
}

type selfAssessorFunc func(context.Context, *entity.CookingSession) (*SelfAssessmentResult, error)

func (f selfAssessorFunc) Run(ctx context.Context, s *entity.CookingSession) (*SelfAssessmentResult, error) {
	return f(ctx, s)
}

type analyzerFunc func(context.Context, *entity.CookingSession, string) (*entity.VideoAnalysis, error)

func (f analyzerFunc) Run(ctx context.Context, s *entity.CookingSession, dish string) (*entity.VideoAnalysis, error) {
	return f(ctx, s, dish)
}

type retrieverFunc func(context.Context, string, *entity.Dish, *entity.LearnerProfile) (*RetrievalResult, error)

func (f retrieverFunc) Run(ctx context.Context, d string, dish *entity.Dish, p *entity.LearnerProfile) (*RetrievalResult, error) {
	return f(ctx, d, dish, p)
}

type writerFunc func(context.Context, CoachingInput) (*entity.CoachingText, error)

func (f writerFunc) Run(ctx context.Context, in CoachingInput) (*entity.CoachingText, error) {
	return f(ctx, in)
}

type scriptWriterFunc func(context.Context, *entity.CoachingText, *entity.VideoAnalysis) (*entity.NarrationScript, error)

func (f scriptWriterFunc) Run(ctx context.Context, c *entity.CoachingText, a *entity.VideoAnalysis) (*entity.NarrationScript, error) {
	return f(ctx, c, a)
}

type producerFunc func(context.Context, *entity.CookingSession, *entity.VideoAnalysis, *entity.NarrationScript) (string, error)

func (f producerFunc) Run(ctx context.Context, s *entity.CookingSession, a *entity.VideoAnalysis, n *entity.NarrationScript) (string, error) {
	return f(ctx, s, a, n)
}

type recordingNotifier struct {
	calls *[]string
}

func (n *recordingNotifier) NotifyTextReady(context.Context, *entity.CookingSession) error {
	*n.calls = append(*n.calls, "notify:text_ready")
	return nil
}

func (n *recordingNotifier) NotifyVideoReady(context.Context, *entity.CookingSession) error {
	*n.calls = append(*n.calls, "notify:video_ready")
	return nil
}

func (n *recordingNotifier) NotifyFailed(_ context.Context, _ *entity.CookingSession, _ string) error {
	*n.calls = append(*n.calls, "notify:failed")
	return nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}

func (nopLogger) Sync() error { return nil }

// --- harness ---

type orchestratorHarness struct {
	orch    *Orchestrator
	uow     *memUow
	stages  *fakeStages
	calls   []string
	session *entity.CookingSession
	dish    *entity.Dish
}

func newOrchestratorHarness(t *testing.T) *orchestratorHarness {
	t.Helper()

	h := &orchestratorHarness{}

	h.dish = &entity.Dish{
		Id:          uuid.New(),
		Slug:        "tamagoyaki",
		NameJa:      "だし巻き卵",
		MaxAttempts: 3,
	}
	h.session = &entity.CookingSession{
		Id:            uuid.New(),
		UserId:        uuid.New(),
		DishId:        h.dish.Id,
		AttemptNumber: 1,
		RawVideoPath:  "sessions/x/raw.mp4",
		Status:        entity.StatusUploaded,
	}

	h.uow = &memUow{
		sessions: &memSessionRepo{sessions: map[uuid.UUID]*entity.CookingSession{h.session.Id: h.session}},
		dishes:   &memDishRepo{dishes: map[uuid.UUID]*entity.Dish{h.dish.Id: h.dish}},
		profiles: &memProfileRepo{profiles: map[uuid.UUID]*entity.LearnerProfile{}},
		rooms:    &memChatRoomRepo{},
		messages: &memChatMessageRepo{calls: &h.calls},
		users:    &memUserRepo{user: &entity.User{Id: h.session.UserId, FirstName: "はるか"}},
	}

	h.stages = &fakeStages{
		calls: &h.calls,
		analysis: &entity.VideoAnalysis{
			KeyMomentSeconds: 42,
			Diagnosis:        "火力が強すぎる",
		},
		coaching: &entity.CoachingText{
			Problem:       "表面が焦げている",
			Skill:         "弱めの中火を保つ",
			NextAction:    "煙が出る前に火を弱める",
			SuccessSignal: "縁がゆっくり固まること",
		},
		script: &entity.NarrationScript{
			Intro: "振り返ります",
			Pivot: "動画を使ってそのポイントを見てみましょう",
			Clip:  "縁がゆっくり固まることを確認",
		},
	}

	h.orch = NewOrchestrator(
		&memUowFactory{uow: h.uow},
		selfAssessorFunc(h.stages.RunSelfAssessment),
		analyzerFunc(h.stages.RunAnalysis),
		retrieverFunc(h.stages.RunRetrieval),
		writerFunc(h.stages.RunWriter),
		scriptWriterFunc(h.stages.RunScript),
		producerFunc(h.stages.RunProducer),
		&recordingNotifier{calls: &h.calls},
		nopLogger{},
	)

	return h
}

func (h *orchestratorHarness) stored() *entity.CookingSession {
	return h.uow.sessions.sessions[h.session.Id]
}

// --- tests ---

func TestOrchestratorHappyPath(t *testing.T) {
	h := newOrchestratorHarness(t)

	err := h.orch.Run(context.Background(), h.session.Id)
	require.NoError(t, err)

	stored := h.stored()
	assert.Equal(t, entity.StatusCompleted, stored.Status)
	assert.NotEmpty(t, stored.CoachingVideoPath)
	assert.NotNil(t, stored.CoachingText)
	assert.NotNil(t, stored.CoachingTextDelivered)
	assert.NotNil(t, stored.VideoAnalysis)
	assert.NotNil(t, stored.NarrationScript)
	assert.NotNil(t, stored.JobToken)

	// The coaching text message and its notification must land before video
	// production even starts.
	textAt := indexOf(h.calls, "message:coaching_ready")
	produceAt := indexOf(h.calls, "video_production")
	videoMsgAt := indexOf(h.calls, "message:coaching_video")
	require.GreaterOrEqual(t, textAt, 0)
	require.GreaterOrEqual(t, produceAt, 0)
	require.GreaterOrEqual(t, videoMsgAt, 0)
	assert.Less(t, textAt, produceAt)
	assert.Less(t, produceAt, videoMsgAt)

	textNotifyAt := indexOf(h.calls, "notify:text_ready")
	videoNotifyAt := indexOf(h.calls, "notify:video_ready")
	assert.Less(t, textNotifyAt, produceAt)
	assert.Less(t, produceAt, videoNotifyAt)

	// Profile snapshot was written alongside the text delivery.
	profile := h.uow.profiles.profiles[h.session.UserId]
	require.NotNil(t, profile)
	assert.True(t, profile.HasSummaryFor(h.session.Id))
}

func TestOrchestratorUnknownSessionIsDropped(t *testing.T) {
	h := newOrchestratorHarness(t)

	err := h.orch.Run(context.Background(), uuid.New())
	require.NoError(t, err, "unknown sessions are dropped, not redelivered")
	assert.Empty(t, h.calls)
}

func TestOrchestratorSkipsNonRunnableStatuses(t *testing.T) {
	for _, status := range []entity.SessionStatus{
		entity.StatusPendingUpload,
		entity.StatusProcessing,
		entity.StatusTextReady,
		entity.StatusCompleted,
	} {
		t.Run(string(status), func(t *testing.T) {
			h := newOrchestratorHarness(t)
			h.session.Status = status

			err := h.orch.Run(context.Background(), h.session.Id)
			require.NoError(t, err)
			assert.Empty(t, h.calls, "a duplicate trigger must be a no-op")
			assert.Equal(t, status, h.stored().Status)
		})
	}
}

func TestOrchestratorStageFailureMarksFailedAndKeepsOutputs(t *testing.T) {
	h := newOrchestratorHarness(t)
	h.stages.writeErr = stageErr("coaching_text", errors.New("model unavailable"))

	err := h.orch.Run(context.Background(), h.session.Id)
	require.Error(t, err, "the error must propagate so the trigger is redelivered")

	stored := h.stored()
	assert.Equal(t, entity.StatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorDetail, "coaching_text")
	assert.NotNil(t, stored.VideoAnalysis, "completed stage output survives the failure")
	assert.Nil(t, stored.CoachingText)
	assert.Contains(t, h.calls, "notify:failed")
	assert.NotContains(t, h.calls, "message:coaching_ready")
}

func TestOrchestratorResumeSkipsCompletedStages(t *testing.T) {
	h := newOrchestratorHarness(t)

	// First run dies in video production.
	h.stages.produceErr = stageErr("video_production", errors.New("ffmpeg crashed"))
	require.Error(t, h.orch.Run(context.Background(), h.session.Id))
	require.Equal(t, entity.StatusFailed, h.stored().Status)

	firstCalls := len(h.calls)
	require.Contains(t, h.calls, "message:coaching_ready")

	// Redelivery resumes from the persisted outputs.
	h.stages.produceErr = nil
	require.NoError(t, h.orch.Run(context.Background(), h.session.Id))

	resumed := h.calls[firstCalls:]
	assert.NotContains(t, resumed, "video_analysis", "analysis must not rerun")
	assert.NotContains(t, resumed, "coaching_text", "coaching text must not regenerate")
	assert.NotContains(t, resumed, "narration_script", "script must not regenerate")
	assert.NotContains(t, resumed, "message:coaching_ready", "text must not be delivered twice")
	assert.Contains(t, resumed, "video_production")
	assert.Contains(t, resumed, "message:coaching_video")

	stored := h.stored()
	assert.Equal(t, entity.StatusCompleted, stored.Status)

	// Exactly one coaching room, one text message, one video message.
	assert.Len(t, h.uow.rooms.rooms, 1)
	assert.Len(t, h.uow.messages.messages, 2)
}

func TestOrchestratorCustomDishNameReachesWriter(t *testing.T) {
	h := newOrchestratorHarness(t)
	h.session.CustomDishName = "チャーハン"

	var gotDishName string
	h.orch.writer = writerFunc(func(_ context.Context, in CoachingInput) (*entity.CoachingText, error) {
		gotDishName = in.DishName
		return h.stages.coaching, nil
	})

	require.NoError(t, h.orch.Run(context.Background(), h.session.Id))
	assert.Equal(t, "チャーハン", gotDishName)
}

func TestOrchestratorLearnerContextReachesWriter(t *testing.T) {
	h := newOrchestratorHarness(t)
	h.uow.profiles.profiles[h.session.UserId] = &entity.LearnerProfile{
		Id:               uuid.New(),
		UserId:           h.session.UserId,
		SkillsDeveloping: []string{"弱めの中火を保つ"},
		RecurringMistakes: []entity.RecurringMistake{
			{Text: "火力が強すぎる", Count: 2},
		},
	}

	var got CoachingInput
	h.orch.writer = writerFunc(func(_ context.Context, in CoachingInput) (*entity.CoachingText, error) {
		got = in
		return h.stages.coaching, nil
	})

	require.NoError(t, h.orch.Run(context.Background(), h.session.Id))

	assert.Equal(t, "はるか", got.LearnerName)
	require.NotNil(t, got.Profile)
	assert.Equal(t, []string{"弱めの中火を保つ"}, got.Profile.SkillsDeveloping)
	require.Len(t, got.Profile.RecurringMistakes, 1)
	assert.Equal(t, 2, got.Profile.RecurringMistakes[0].Count)
}

func TestOrchestratorDeliveryUsesLockedProfileRead(t *testing.T) {
	h := newOrchestratorHarness(t)

	require.NoError(t, h.orch.Run(context.Background(), h.session.Id))

	// The snapshot read inside the text-delivery transaction must take the
	// row lock so concurrent deliveries for the same user serialize.
	assert.GreaterOrEqual(t, h.uow.profiles.lockedFinds, 1)
}

func TestOrchestratorAnalysisFailureStopsBeforeCoaching(t *testing.T) {
	h := newOrchestratorHarness(t)
	h.stages.analyzeErr = stageErr("video_analysis", errors.New("schema violation: key_moment_seconds is required"))

	err := h.orch.Run(context.Background(), h.session.Id)
	require.Error(t, err)

	stored := h.stored()
	assert.Equal(t, entity.StatusFailed, stored.Status)
	assert.Contains(t, stored.ErrorDetail, "video_analysis")
	assert.Nil(t, stored.VideoAnalysis)
	assert.Nil(t, stored.CoachingText)

	assert.NotContains(t, h.calls, "coaching_text", "no coaching is generated without an analysis")
	assert.NotContains(t, h.calls, "message:coaching_ready")
	assert.Contains(t, h.calls, "notify:failed")
}

func TestFormatCoachingMessage(t *testing.T) {
	msg := FormatCoachingMessage(&entity.CoachingText{
		Problem:       "p",
		Skill:         "s",
		NextAction:    "n",
		SuccessSignal: "g",
	})

	for _, section := range []string{"【今回の課題】", "【身につけたいスキル】", "【次にやること】", "【成功のサイン】"} {
		assert.Contains(t, msg, section)
	}
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
