package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/deeppurple/deeppurple/internal/domain"
	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// ReportFormat selects a report rendering
type ReportFormat string

const (
	ReportMarkdown ReportFormat = "markdown"
	ReportCSV      ReportFormat = "csv"
	ReportPDF      ReportFormat = "pdf"
)

// Report is a rendered session export
type Report struct {
	ContentType string
	Filename    string
	Data        []byte
}

// reportData is everything a report renders
type reportData struct {
	session  *domain.Session
	files    []domain.File
	insights []domain.Insight
	turns    []domain.Turn
}

// ReportService exports a session's insights and transcript
type ReportService struct {
	sessionRepo domain.SessionRepository
	fileRepo    domain.FileRepository
	insightRepo domain.InsightRepository
	turnRepo    domain.TurnRepository
}

// NewReportService creates a new report service
func NewReportService(
	sessionRepo domain.SessionRepository,
	fileRepo domain.FileRepository,
	insightRepo domain.InsightRepository,
	turnRepo domain.TurnRepository,
) *ReportService {
	return &ReportService{
		sessionRepo: sessionRepo,
		fileRepo:    fileRepo,
		insightRepo: insightRepo,
		turnRepo:    turnRepo,
	}
}

// Generate renders the session as a downloadable report
func (s *ReportService) Generate(ctx context.Context, sessionID, userID uuid.UUID, format ReportFormat) (*Report, error) {
	data, err := s.gather(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}

	switch format {
	case ReportMarkdown, "":
		return &Report{
			ContentType: "text/markdown; charset=utf-8",
			Filename:    fmt.Sprintf("session-%s.md", sessionID),
			Data:        []byte(renderMarkdown(data)),
		}, nil
	case ReportCSV:
		out, err := renderCSV(data)
		if err != nil {
			return nil, err
		}
		return &Report{
			ContentType: "text/csv; charset=utf-8",
			Filename:    fmt.Sprintf("session-%s.csv", sessionID),
			Data:        out,
		}, nil
	case ReportPDF:
		out, err := renderPDF(data)
		if err != nil {
			return nil, err
		}
		return &Report{
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("session-%s.pdf", sessionID),
			Data:        out,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported report format %q", format)
	}
}

func (s *ReportService) gather(ctx context.Context, sessionID, userID uuid.UUID) (*reportData, error) {
	session, err := s.sessionRepo.GetByIDAndUser(ctx, sessionID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	files, err := s.fileRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	insights, err := s.insightRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	turns, err := s.turnRepo.ListBySession(ctx, sessionID, 1000, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list turns: %w", err)
	}

	return &reportData{session: session, files: files, insights: insights, turns: turns}, nil
}

func renderMarkdown(d *reportData) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Session report: %s\n\n", d.session.Name)
	fmt.Fprintf(&b, "Created %s\n\n", d.session.CreatedAt.Format("2006-01-02 15:04"))

	b.WriteString("## Documents\n\n")
	if len(d.files) == 0 {
		b.WriteString("No documents uploaded.\n\n")
	}
	for _, f := range d.files {
		fmt.Fprintf(&b, "- %s (%s, %d bytes, uploaded %s)\n",
			f.Filename, f.FileType, f.Size, f.CreatedAt.Format("2006-01-02"))
	}
	if len(d.files) > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Insights\n\n")
	if len(d.insights) == 0 {
		b.WriteString("No analyses run.\n\n")
	}
	for _, in := range d.insights {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", in.Type, insightValueText(in))
	}

	b.WriteString("## Conversation\n\n")
	if len(d.turns) == 0 {
		b.WriteString("No questions asked.\n")
	}
	for _, t := range d.turns {
		fmt.Fprintf(&b, "**Q:** %s\n\n", t.QuestionText)
		fmt.Fprintf(&b, "**A:** %s\n\n", turnAnswerText(t))
	}

	return b.String()
}

func renderCSV(d *reportData) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	records := [][]string{{"section", "created_at", "field", "value"}}
	for _, f := range d.files {
		records = append(records, []string{"document", f.CreatedAt.Format("2006-01-02 15:04:05"), f.Filename, string(f.FileType)})
	}
	for _, in := range d.insights {
		records = append(records, []string{"insight", in.CreatedAt.Format("2006-01-02 15:04:05"), string(in.Type), insightValueText(in)})
	}
	for _, t := range d.turns {
		records = append(records, []string{"question", t.CreatedAt.Format("2006-01-02 15:04:05"), t.QuestionText, turnAnswerText(t)})
	}

	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func renderPDF(d *reportData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(true, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.MultiCell(0, 8, fmt.Sprintf("Session report: %s", d.session.Name), "", "L", false)
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(0, 5, fmt.Sprintf("Created %s", d.session.CreatedAt.Format("2006-01-02 15:04")), "", "L", false)
	pdf.Ln(4)

	pdfSection(pdf, "Documents")
	if len(d.files) == 0 {
		pdfBody(pdf, "No documents uploaded.")
	}
	for _, f := range d.files {
		pdfBody(pdf, fmt.Sprintf("%s (%s, %d bytes)", f.Filename, f.FileType, f.Size))
	}

	pdfSection(pdf, "Insights")
	if len(d.insights) == 0 {
		pdfBody(pdf, "No analyses run.")
	}
	for _, in := range d.insights {
		pdf.SetFont("Arial", "B", 10)
		pdf.MultiCell(0, 5, string(in.Type), "", "L", false)
		pdfBody(pdf, insightValueText(in))
	}

	pdfSection(pdf, "Conversation")
	if len(d.turns) == 0 {
		pdfBody(pdf, "No questions asked.")
	}
	for _, t := range d.turns {
		pdf.SetFont("Arial", "B", 9)
		pdf.MultiCell(0, 5, "Q: "+t.QuestionText, "", "L", false)
		pdfBody(pdf, "A: "+turnAnswerText(t))
		pdf.Ln(2)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func pdfSection(pdf *fpdf.Fpdf, title string) {
	pdf.Ln(2)
	pdf.SetFont("Arial", "B", 12)
	pdf.MultiCell(0, 6, title, "", "L", false)
	pdf.SetFont("Arial", "", 9)
}

func pdfBody(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(0, 5, text, "", "L", false)
}

func insightValueText(in domain.Insight) string {
	if s, ok := in.Value.(string); ok {
		return s
	}
	payload, err := json.Marshal(in.Value)
	if err != nil {
		return fmt.Sprintf("%v", in.Value)
	}
	return string(payload)
}

func turnAnswerText(t domain.Turn) string {
	if t.AnswerText == nil {
		return "(unanswered)"
	}
	return *t.AnswerText
}
