package service

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func reportFixture(t *testing.T) (*ReportService, uuid.UUID, uuid.UUID) {
	t.Helper()

	sessionID := uuid.New()
	userID := uuid.New()
	now := time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("GetByIDAndUser", context.Background(), sessionID, userID).
		Return(&domain.Session{ID: sessionID, UserID: userID, Name: "Q3 reviews", CreatedAt: now}, nil)

	fileRepo := new(MockFileRepository)
	fileRepo.On("ListBySession", context.Background(), sessionID).Return([]domain.File{
		{Filename: "reviews.csv", FileType: domain.FileTypeCSV, Size: 2048, CreatedAt: now},
	}, nil)

	insightRepo := new(MockInsightRepository)
	insightRepo.On("ListBySession", context.Background(), sessionID).Return([]domain.Insight{
		{Type: domain.InsightSummary, Value: "Customers are mostly satisfied.", CreatedAt: now},
	}, nil)

	turnRepo := new(MockTurnRepository)
	turnRepo.On("ListBySession", context.Background(), sessionID, 1000, 0).Return([]domain.Turn{
		{QuestionText: "What stands out?", AnswerText: strPtr("Delivery complaints."), CreatedAt: now},
	}, nil)

	return NewReportService(sessionRepo, fileRepo, insightRepo, turnRepo), sessionID, userID
}

func TestReportService_Markdown(t *testing.T) {
	svc, sessionID, userID := reportFixture(t)

	report, err := svc.Generate(context.Background(), sessionID, userID, ReportMarkdown)
	require.NoError(t, err)

	text := string(report.Data)
	assert.Contains(t, report.ContentType, "text/markdown")
	assert.Contains(t, text, "# Session report: Q3 reviews")
	assert.Contains(t, text, "reviews.csv")
	assert.Contains(t, text, "Customers are mostly satisfied.")
	assert.Contains(t, text, "**Q:** What stands out?")
	assert.Contains(t, text, "Delivery complaints.")
}

func TestReportService_CSV(t *testing.T) {
	svc, sessionID, userID := reportFixture(t)

	report, err := svc.Generate(context.Background(), sessionID, userID, ReportCSV)
	require.NoError(t, err)

	text := string(report.Data)
	assert.Contains(t, text, "section,created_at,field,value")
	assert.Contains(t, text, "document")
	assert.Contains(t, text, "What stands out?")
}

func TestReportService_PDF(t *testing.T) {
	svc, sessionID, userID := reportFixture(t)

	report, err := svc.Generate(context.Background(), sessionID, userID, ReportPDF)
	require.NoError(t, err)

	assert.Equal(t, "application/pdf", report.ContentType)
	assert.True(t, bytes.HasPrefix(report.Data, []byte("%PDF")))
}

func TestReportService_UnknownFormat(t *testing.T) {
	svc, sessionID, userID := reportFixture(t)

	_, err := svc.Generate(context.Background(), sessionID, userID, ReportFormat("xlsx"))
	assert.Error(t, err)
}

func TestReportService_SessionNotOwned(t *testing.T) {
	sessionRepo := new(MockSessionRepository)
	sessionRepo.On("GetByIDAndUser", context.Background(), mock.Anything, mock.Anything).
		Return(nil, nil)

	svc := NewReportService(sessionRepo, new(MockFileRepository), new(MockInsightRepository), new(MockTurnRepository))

	_, err := svc.Generate(context.Background(), uuid.New(), uuid.New(), ReportMarkdown)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
