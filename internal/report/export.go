package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"studyplanner-backend/internal/task/domain"
	"studyplanner-backend/internal/task/query"
	"studyplanner-backend/internal/task/usecase"

	"github.com/jung-kurt/gofpdf"
)

// Exporter renders the planner's data as a downloadable document.
type Exporter struct {
	uc usecase.TaskUsecase
}

func NewExporter(uc usecase.TaskUsecase) *Exporter {
	return &Exporter{uc: uc}
}

// Export renders the requested format. "json" is the round-trippable
// backup document; "csv" and "pdf" are read-only reports.
func (e *Exporter) Export(format string, now time.Time) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case "", "json":
		data, err := json.MarshalIndent(e.uc.Export(), "", "  ")
		return data, "application/json", err
	case "csv":
		data, err := e.exportCSV()
		return data, "text/csv", err
	case "pdf":
		data, err := e.exportPDF(now)
		return data, "application/pdf", err
	default:
		return nil, "", fmt.Errorf("unknown format %s", format)
	}
}

func (e *Exporter) exportCSV() ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write([]string{"id", "title", "description", "due_date", "priority", "subject", "estimated_hours", "tags", "status", "created_at", "completed_at"})
	for _, t := range e.uc.ListTasks() {
		completed := ""
		if t.CompletedAt != nil {
			completed = t.CompletedAt.Format(time.RFC3339)
		}
		_ = w.Write([]string{
			t.ID,
			t.Title,
			t.Description,
			t.DueDate.Format(time.RFC3339),
			string(t.Priority),
			t.Subject,
			fmt.Sprintf("%g", t.EstimatedTime),
			strings.Join(t.Tags, " "),
			string(t.Status),
			t.CreatedAt.Format(time.RFC3339),
			completed,
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func (e *Exporter) exportPDF(now time.Time) ([]byte, error) {
	tasks := e.uc.ListTasks()
	stats := query.Summarize(tasks, now)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, "Study Planner Report")
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 6, fmt.Sprintf("Generated %s", now.Format("Jan 2, 2006 15:04")), "0", "L", false)
	pdf.MultiCell(0, 6, fmt.Sprintf("Tasks: %d total, %d completed, %d pending, %d overdue (%d%% done)",
		stats.Total, stats.Completed, stats.Pending, stats.Overdue, stats.CompletionRate), "0", "L", false)
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(40, 8, "Tasks by due date")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 9)
	for _, t := range query.SortByDueDate(tasks) {
		mark := " "
		if t.Status == domain.TaskStatusCompleted {
			mark = "x"
		}
		line := fmt.Sprintf("[%s] %s  due %s  %s priority  %.1fh", mark, t.Title,
			t.DueDate.Format("2006-01-02 15:04"), t.Priority, t.EstimatedTime)
		if t.Subject != "" {
			line += "  (" + t.Subject + ")"
		}
		pdf.MultiCell(0, 5, line, "0", "L", false)
	}

	if subjects := query.SubjectStats(tasks); len(subjects) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 11)
		pdf.Cell(40, 8, "Per subject")
		pdf.Ln(10)
		pdf.SetFont("Arial", "", 9)
		for _, s := range subjects {
			pdf.MultiCell(0, 5, fmt.Sprintf("%s: %d/%d completed (%d%%)",
				s.Subject, s.Completed, s.Total, s.CompletionRate), "0", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
