package service

import (
	"context"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/deeppurple/deeppurple/internal/llm"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockFileRepository mocks the FileRepository interface
type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, file *domain.File) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileRepository) Get(ctx context.Context, id uuid.UUID) (*domain.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.File), args.Error(1)
}

func (m *MockFileRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.File, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.File), args.Error(1)
}

func (m *MockFileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockFileRepository) CreateContent(ctx context.Context, content *domain.FileContent) error {
	args := m.Called(ctx, content)
	return args.Error(0)
}

func (m *MockFileRepository) GetContentByFile(ctx context.Context, fileID uuid.UUID) (*domain.FileContent, error) {
	args := m.Called(ctx, fileID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileContent), args.Error(1)
}

func (m *MockFileRepository) ListContentsBySession(ctx context.Context, sessionID uuid.UUID) ([]string, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockTurnRepository mocks the TurnRepository interface
type MockTurnRepository struct {
	mock.Mock
}

func (m *MockTurnRepository) Create(ctx context.Context, turn *domain.Turn) error {
	args := m.Called(ctx, turn)
	return args.Error(0)
}

func (m *MockTurnRepository) ListRecentAnswered(ctx context.Context, sessionID uuid.UUID, limit int) ([]domain.Turn, error) {
	args := m.Called(ctx, sessionID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Turn), args.Error(1)
}

func (m *MockTurnRepository) ListBySession(ctx context.Context, sessionID uuid.UUID, limit, offset int) ([]domain.Turn, error) {
	args := m.Called(ctx, sessionID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Turn), args.Error(1)
}

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, id, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionRepository) ListByUser(ctx context.Context, userID uuid.UUID, includeArchived bool, limit, offset int) ([]domain.Session, error) {
	args := m.Called(ctx, userID, includeArchived, limit, offset)
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockInsightRepository mocks the InsightRepository interface
type MockInsightRepository struct {
	mock.Mock
}

func (m *MockInsightRepository) Create(ctx context.Context, insight *domain.Insight) error {
	args := m.Called(ctx, insight)
	return args.Error(0)
}

func (m *MockInsightRepository) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]domain.Insight, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).([]domain.Insight), args.Error(1)
}

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	args := m.Called(ctx, limit, offset)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *MockUserRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	args := m.Called(ctx, id, active)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fakeProvider is a configurable llm.Provider for orchestrator tests
type fakeProvider struct {
	completeResp *llm.Response
	completeErr  error

	streamTokens []string
	streamErr    error

	lastRequest llm.Request
}

func (p *fakeProvider) Name() string              { return "mock" }
func (p *fakeProvider) AvailableModels() []string { return []string{"mock-v1"} }
func (p *fakeProvider) DefaultModel() string      { return "mock-v1" }
func (p *fakeProvider) IsConfigured() bool        { return true }

func (p *fakeProvider) Complete(ctx context.Context, req llm.Request, model string) (*llm.Response, error) {
	p.lastRequest = req
	if p.completeErr != nil {
		return nil, p.completeErr
	}
	return p.completeResp, nil
}

func (p *fakeProvider) Stream(ctx context.Context, req llm.Request, model string, onToken func(string) error) error {
	p.lastRequest = req
	for _, tok := range p.streamTokens {
		if err := onToken(tok); err != nil {
			return err
		}
	}
	return p.streamErr
}

func newFakeRouter(p llm.Provider) *llm.Router {
	router := llm.NewRouter("mock")
	router.RegisterProvider(p)
	return router
}
