package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/grievance-api/internal/dto"
	"github.com/noah-isme/grievance-api/internal/models"
	"github.com/noah-isme/grievance-api/pkg/clock"
	appErrors "github.com/noah-isme/grievance-api/pkg/errors"
	"github.com/noah-isme/grievance-api/pkg/export"
)

// Export formats.
const (
	ExportFormatCSV = "csv"
	ExportFormatPDF = "pdf"
)

// exportDateLayout renders dates as US short dates.
const exportDateLayout = "1/2/2006"

// ExportHeaders is the column layout of every grievance export.
var ExportHeaders = []string{"Reference ID", "Category", "Status", "Submitted Date", "Last Updated"}

type grievanceFilterer interface {
	Filter(ctx context.Context, session *models.SessionClaims, query dto.GrievanceQuery) ([]models.Grievance, error)
}

type institutionResolver interface {
	Institution(ctx context.Context, id string) (*models.Institution, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

// ExportService renders the admin's filtered grievance list for download.
type ExportService struct {
	grievances   grievanceFilterer
	institutions institutionResolver
	csv          csvRenderer
	pdf          pdfRenderer
	clock        clock.Clock
	logger       *zap.Logger
}

// NewExportService constructs an ExportService. Nil renderers fall back to the
// pkg/export implementations.
func NewExportService(grievances grievanceFilterer, institutions institutionResolver, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		grievances:   grievances,
		institutions: institutions,
		csv:          csv,
		pdf:          pdf,
		clock:        clock.Real(),
		logger:       logger,
	}
}

// WithClock overrides the time source used for filenames.
func (s *ExportService) WithClock(c clock.Clock) *ExportService {
	if c != nil {
		s.clock = c
	}
	return s
}

// Export renders the filtered grievances in the requested format.
func (s *ExportService) Export(ctx context.Context, session *models.SessionClaims, query dto.GrievanceQuery, format string) (*dto.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = ExportFormatCSV
	}
	if format != ExportFormatCSV && format != ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrUnsupportedFormat, fmt.Sprintf("unsupported export format %q", format))
	}

	grievances, err := s.grievances.Filter(ctx, session, query)
	if err != nil {
		return nil, err
	}
	dataset := BuildExportDataset(grievances)
	stamp := s.clock.Now().UTC().Format("2006-01-02")

	file := &dto.ExportFile{}
	switch format {
	case ExportFormatCSV:
		file.Data, err = s.csv.Render(dataset)
		file.ContentType = "text/csv"
	case ExportFormatPDF:
		title := "Grievances"
		if inst, lookupErr := s.institutions.Institution(ctx, session.InstitutionID); lookupErr == nil {
			title = "Grievances " + inst.Name
		}
		file.Data, err = s.pdf.Render(dataset, title)
		file.ContentType = "application/pdf"
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	file.Filename = fmt.Sprintf("grievances_%s.%s", stamp, format)

	s.logger.Info("grievances exported",
		zap.String("institution_id", session.InstitutionID),
		zap.String("format", format),
		zap.Int("rows", len(grievances)),
	)
	return file, nil
}

// BuildExportDataset lays grievances out in export column order.
func BuildExportDataset(grievances []models.Grievance) export.Dataset {
	rows := make([][]string, 0, len(grievances))
	for _, g := range grievances {
		rows = append(rows, []string{
			g.ReferenceCode,
			string(g.Category),
			string(g.Status),
			g.SubmittedAt.Format(exportDateLayout),
			g.LastUpdated.Format(exportDateLayout),
		})
	}
	return export.Dataset{Headers: append([]string(nil), ExportHeaders...), Rows: rows}
}
