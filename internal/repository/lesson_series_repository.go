package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
	"github.com/nowoterra-oss/EducationPortal-sub004/pkg/clock"
)

const lessonSeriesColumns = "id, kind, teacher_id, participant_ids, day_of_week, start_minute, end_minute, series_start_date, series_end_date, cancelled_dates, is_active, deactivated_on, created_at, updated_at"

type lessonSeriesRow struct {
	ID              int64          `db:"id"`
	Kind            string         `db:"kind"`
	TeacherID       int64          `db:"teacher_id"`
	ParticipantIDs  pq.Int64Array  `db:"participant_ids"`
	DayOfWeek       int            `db:"day_of_week"`
	StartMinute     int            `db:"start_minute"`
	EndMinute       int            `db:"end_minute"`
	SeriesStartDate time.Time      `db:"series_start_date"`
	SeriesEndDate   sql.NullTime   `db:"series_end_date"`
	CancelledDates  pq.StringArray `db:"cancelled_dates"`
	IsActive        bool           `db:"is_active"`
	DeactivatedOn   sql.NullTime   `db:"deactivated_on"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

func (r lessonSeriesRow) toModel() (models.LessonSeries, error) {
	series := models.LessonSeries{
		ID:             r.ID,
		Kind:           models.LessonKind(r.Kind),
		TeacherID:      r.TeacherID,
		ParticipantIDs: []int64(r.ParticipantIDs),
		Window: models.TimeWindow{
			DayOfWeek: time.Weekday(r.DayOfWeek),
			Start:     models.TimeOfDay(r.StartMinute),
			End:       models.TimeOfDay(r.EndMinute),
		},
		SeriesStartDate: clock.DateOf(r.SeriesStartDate),
		CancelledDates:  make([]time.Time, 0, len(r.CancelledDates)),
		IsActive:        r.IsActive,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
	if r.SeriesEndDate.Valid {
		end := clock.DateOf(r.SeriesEndDate.Time)
		series.SeriesEndDate = &end
	}
	if r.DeactivatedOn.Valid {
		on := clock.DateOf(r.DeactivatedOn.Time)
		series.DeactivatedOn = &on
	}
	for _, raw := range r.CancelledDates {
		date, err := clock.ParseDate(raw)
		if err != nil {
			return models.LessonSeries{}, fmt.Errorf("series %d cancelled date %q: %w", r.ID, raw, err)
		}
		series.CancelledDates = append(series.CancelledDates, date)
	}
	return series, nil
}

func nullDate(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: clock.DateOf(*t), Valid: true}
}

// LessonSeriesRepository persists lesson series. Series are never deleted.
type LessonSeriesRepository struct {
	db *sqlx.DB
}

// NewLessonSeriesRepository creates a new lesson series repository.
func NewLessonSeriesRepository(db *sqlx.DB) *LessonSeriesRepository {
	return &LessonSeriesRepository{db: db}
}

// Create inserts an active series with no exceptions and fills its id and timestamps.
func (r *LessonSeriesRepository) Create(ctx context.Context, series *models.LessonSeries) error {
	const query = `INSERT INTO lesson_series (kind, teacher_id, participant_ids, day_of_week, start_minute, end_minute, series_start_date, series_end_date, cancelled_dates, is_active) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, '{}', TRUE) RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query,
		string(series.Kind),
		series.TeacherID,
		pq.Int64Array(series.ParticipantIDs),
		int(series.Window.DayOfWeek),
		int(series.Window.Start),
		int(series.Window.End),
		clock.DateOf(series.SeriesStartDate),
		nullDate(series.SeriesEndDate),
	)
	if err := row.Scan(&series.ID, &series.CreatedAt, &series.UpdatedAt); err != nil {
		return fmt.Errorf("create lesson series: %w", err)
	}
	series.IsActive = true
	series.CancelledDates = []time.Time{}
	series.DeactivatedOn = nil
	return nil
}

// FindByID loads a series by id.
func (r *LessonSeriesRepository) FindByID(ctx context.Context, id int64) (*models.LessonSeries, error) {
	query := "SELECT " + lessonSeriesColumns + " FROM lesson_series WHERE id = $1"
	var row lessonSeriesRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	series, err := row.toModel()
	if err != nil {
		return nil, err
	}
	return &series, nil
}

// ListByOwner returns the series a person teaches (TEACHER) or attends
// (STUDENT), optionally restricted to active ones.
func (r *LessonSeriesRepository) ListByOwner(ctx context.Context, ownerID int64, kind models.OwnerKind, activeOnly bool) ([]models.LessonSeries, error) {
	var where string
	switch kind {
	case models.OwnerTeacher:
		where = "teacher_id = $1"
	case models.OwnerStudent:
		where = "$1 = ANY(participant_ids)"
	default:
		return nil, fmt.Errorf("list lesson series: unknown owner kind %q", kind)
	}
	if activeOnly {
		where += " AND is_active"
	}

	query := fmt.Sprintf("SELECT %s FROM lesson_series WHERE %s ORDER BY day_of_week ASC, start_minute ASC, id ASC", lessonSeriesColumns, where)
	var rows []lessonSeriesRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("list lesson series: %w", err)
	}
	result := make([]models.LessonSeries, 0, len(rows))
	for _, row := range rows {
		series, err := row.toModel()
		if err != nil {
			return nil, err
		}
		result = append(result, series)
	}
	return result, nil
}

// Deactivate marks an active series inactive as of the given date. It reports
// false when the series was already inactive or does not exist.
func (r *LessonSeriesRepository) Deactivate(ctx context.Context, id int64, on time.Time) (bool, error) {
	const query = `UPDATE lesson_series SET is_active = FALSE, deactivated_on = $2, updated_at = NOW() WHERE id = $1 AND is_active`
	res, err := r.db.ExecContext(ctx, query, id, clock.DateOf(on))
	if err != nil {
		return false, fmt.Errorf("deactivate lesson series: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deactivate lesson series: %w", err)
	}
	return affected > 0, nil
}

// AddCancelledDate appends an exception date. It reports false when the date
// was already present or the series does not exist.
func (r *LessonSeriesRepository) AddCancelledDate(ctx context.Context, id int64, date time.Time) (bool, error) {
	const query = `UPDATE lesson_series SET cancelled_dates = array_append(cancelled_dates, $2), updated_at = NOW() WHERE id = $1 AND NOT ($2 = ANY(cancelled_dates))`
	res, err := r.db.ExecContext(ctx, query, id, clock.FormatDate(date))
	if err != nil {
		return false, fmt.Errorf("add cancelled date: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add cancelled date: %w", err)
	}
	return affected > 0, nil
}
