package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/dto"
	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
	appErrors "github.com/nowoterra-oss/EducationPortal-sub004/pkg/errors"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/export"
)

// TimetableDocument is a rendered timetable ready for download.
type TimetableDocument struct {
	Filename    string
	ContentType string
	Body        []byte
}

// TimetableService expands lesson series into dated occurrences for a person.
type TimetableService struct {
	registry     *LessonRegistry
	maxRangeDays int
	validator    *validator.Validate
	logger       *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(registry *LessonRegistry, maxRangeDays int, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if maxRangeDays <= 0 {
		maxRangeDays = 92
	}
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{registry: registry, maxRangeDays: maxRangeDays, validator: validate, logger: logger}
}

// ListOccurrences returns the owner's occurrences between from and to
// inclusive. Deactivated series contribute the occurrences dated before their
// deactivation; cancelled dates are left out.
func (s *TimetableService) ListOccurrences(ctx context.Context, query dto.TimetableQuery) ([]models.LessonOccurrence, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, validationError(err, "invalid timetable query")
	}
	from, err := parseDateField("from", query.From)
	if err != nil {
		return nil, err
	}
	to, err := parseDateField("to", query.To)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "to must not be before from")
	}
	if days := clock.DaysBetween(from, to) + 1; days > s.maxRangeDays {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("timetable range is limited to %d days", s.maxRangeDays))
	}

	series, err := s.registry.ListSeriesFor(ctx, query.OwnerID, query.OwnerKind)
	if err != nil {
		return nil, err
	}

	occurrences := make([]models.LessonOccurrence, 0)
	for i := range series {
		occurrences = append(occurrences, expandSeries(&series[i], from, to)...)
	}
	models.SortLessonOccurrences(occurrences)
	return occurrences, nil
}

// Export renders the timetable as CSV or PDF.
func (s *TimetableService) Export(ctx context.Context, query dto.TimetableQuery) (*TimetableDocument, error) {
	format, err := export.ParseFormat(query.Format)
	if err != nil {
		return nil, validationError(err, "format must be csv or pdf")
	}
	occurrences, err := s.ListOccurrences(ctx, query)
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{
		Title:   fmt.Sprintf("Timetable %s %d, %s to %s", strings.ToLower(string(query.OwnerKind)), query.OwnerID, query.From, query.To),
		Headers: []string{"Date", "Day", "Start", "End", "Kind", "Series", "Teacher", "Participants"},
	}
	for _, o := range occurrences {
		participants := make([]string, len(o.ParticipantIDs))
		for i, id := range o.ParticipantIDs {
			participants[i] = strconv.FormatInt(id, 10)
		}
		dataset.AddRow(
			clock.FormatDate(o.Date),
			o.Date.Weekday().String(),
			o.Start.String(),
			o.End.String(),
			string(o.Kind),
			strconv.FormatInt(o.SeriesID, 10),
			strconv.FormatInt(o.TeacherID, 10),
			strings.Join(participants, " "),
		)
	}

	renderer, err := export.NewRenderer(format)
	if err != nil {
		return nil, validationError(err, "unsupported export format")
	}
	body, err := renderer.Render(dataset)
	if err != nil {
		return nil, internalError(err, "failed to render timetable")
	}
	s.logger.Info("timetable exported",
		zap.Int64("owner_id", query.OwnerID),
		zap.String("format", string(format)),
		zap.Int("occurrences", len(occurrences)),
	)
	return &TimetableDocument{
		Filename:    fmt.Sprintf("timetable-%s-%d-%s-%s.%s", strings.ToLower(string(query.OwnerKind)), query.OwnerID, query.From, query.To, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

func expandSeries(series *models.LessonSeries, from, to time.Time) []models.LessonOccurrence {
	start := clock.DateOf(series.SeriesStartDate)
	first := start
	if from.After(start) {
		weeks := (clock.DaysBetween(start, from) + 6) / 7
		first = start.AddDate(0, 0, 7*weeks)
	}
	var out []models.LessonOccurrence
	for date := first; !date.After(to); date = date.AddDate(0, 0, 7) {
		if series.SeriesEndDate != nil && date.After(clock.DateOf(*series.SeriesEndDate)) {
			break
		}
		if !series.OccurredOn(date) {
			continue
		}
		out = append(out, models.LessonOccurrence{
			SeriesID:       series.ID,
			Kind:           series.Kind,
			TeacherID:      series.TeacherID,
			ParticipantIDs: series.ParticipantIDs,
			Date:           date,
			Start:          series.Window.Start,
			End:            series.Window.End,
		})
	}
	return out
}
