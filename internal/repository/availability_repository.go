package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nowoterra-oss/EducationPortal-sub004/internal/models"
)

const availabilityColumns = "id, owner_id, owner_kind, day_of_week, start_minute, end_minute, created_at"

type availabilityRow struct {
	ID          int64     `db:"id"`
	OwnerID     int64     `db:"owner_id"`
	OwnerKind   string    `db:"owner_kind"`
	DayOfWeek   int       `db:"day_of_week"`
	StartMinute int       `db:"start_minute"`
	EndMinute   int       `db:"end_minute"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r availabilityRow) toModel() models.AvailabilitySlot {
	return models.AvailabilitySlot{
		ID:        r.ID,
		OwnerID:   r.OwnerID,
		OwnerKind: models.OwnerKind(r.OwnerKind),
		Window: models.TimeWindow{
			DayOfWeek: time.Weekday(r.DayOfWeek),
			Start:     models.TimeOfDay(r.StartMinute),
			End:       models.TimeOfDay(r.EndMinute),
		},
		CreatedAt: r.CreatedAt,
	}
}

// AvailabilityRepository persists weekly availability slots.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository creates a new availability repository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// Create inserts a slot and fills its id and creation time.
func (r *AvailabilityRepository) Create(ctx context.Context, slot *models.AvailabilitySlot) error {
	const query = `INSERT INTO availability_slots (owner_id, owner_kind, day_of_week, start_minute, end_minute) VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query,
		slot.OwnerID,
		string(slot.OwnerKind),
		int(slot.Window.DayOfWeek),
		int(slot.Window.Start),
		int(slot.Window.End),
	)
	if err := row.Scan(&slot.ID, &slot.CreatedAt); err != nil {
		return fmt.Errorf("create availability slot: %w", err)
	}
	return nil
}

// FindByID loads a slot by id.
func (r *AvailabilityRepository) FindByID(ctx context.Context, id int64) (*models.AvailabilitySlot, error) {
	query := "SELECT " + availabilityColumns + " FROM availability_slots WHERE id = $1"
	var row availabilityRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		return nil, err
	}
	slot := row.toModel()
	return &slot, nil
}

// Delete removes a slot and returns it, or nil when no slot had that id.
func (r *AvailabilityRepository) Delete(ctx context.Context, id int64) (*models.AvailabilitySlot, error) {
	query := "DELETE FROM availability_slots WHERE id = $1 RETURNING " + availabilityColumns
	var row availabilityRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete availability slot: %w", err)
	}
	slot := row.toModel()
	return &slot, nil
}

// ListByOwner returns an owner's slots ordered by day and start.
func (r *AvailabilityRepository) ListByOwner(ctx context.Context, ownerID int64, kind models.OwnerKind) ([]models.AvailabilitySlot, error) {
	query := "SELECT " + availabilityColumns + " FROM availability_slots WHERE owner_id = $1 AND owner_kind = $2 ORDER BY day_of_week ASC, start_minute ASC, end_minute ASC, id ASC"
	var rows []availabilityRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerID, string(kind)); err != nil {
		return nil, fmt.Errorf("list availability slots: %w", err)
	}
	slots := make([]models.AvailabilitySlot, 0, len(rows))
	for _, row := range rows {
		slots = append(slots, row.toModel())
	}
	return slots, nil
}
