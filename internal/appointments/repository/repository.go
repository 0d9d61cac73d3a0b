// Package repository implements visit scheduling persistence over
// PostgreSQL: per-weekday visiting windows and the booked appointments.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"portal_da_fe_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Status is the appointment lifecycle state.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// VisitWindow is one weekday's visiting hours for a venue. Times are
// minutes since midnight in the venue's local day.
type VisitWindow struct {
	VenueID     uuid.UUID
	Weekday     time.Weekday
	OpensAt     int
	ClosesAt    int
	SlotMinutes int
}

// Appointment is a scheduled visit.
type Appointment struct {
	ID          uuid.UUID
	VenueID     uuid.UUID
	UserID      uuid.UUID
	VisitorName string
	Phone       string
	ScheduledAt time.Time
	Status      Status
	Note        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const appointmentColumns = `id, venue_id, user_id, visitor_name, phone,
	scheduled_at, status, note, created_at, updated_at`

// Repo implements appointment persistence with PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// WindowsForWeekday retrieves a venue's visiting windows on one weekday.
func (r *Repo) WindowsForWeekday(ctx context.Context, venueID uuid.UUID, weekday time.Weekday) ([]VisitWindow, error) {
	query := `
		SELECT venue_id, weekday, opens_at, closes_at, slot_minutes
		FROM venue_hours
		WHERE venue_id = $1 AND weekday = $2
		ORDER BY opens_at`

	rows, err := r.pool.Query(ctx, query, venueID, int(weekday))
	if err != nil {
		return nil, fmt.Errorf("list visit windows: %w", err)
	}
	defer rows.Close()

	windows := make([]VisitWindow, 0)
	for rows.Next() {
		var w VisitWindow
		var weekdayInt int
		if err := rows.Scan(&w.VenueID, &weekdayInt, &w.OpensAt, &w.ClosesAt, &w.SlotMinutes); err != nil {
			return nil, fmt.Errorf("scan visit window: %w", err)
		}
		w.Weekday = time.Weekday(weekdayInt)
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate visit windows: %w", err)
	}

	return windows, nil
}

// ReplaceWindows swaps a venue's full weekly schedule in one transaction.
func (r *Repo) ReplaceWindows(ctx context.Context, venueID uuid.UUID, windows []VisitWindow) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin windows tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM venue_hours WHERE venue_id = $1`, venueID); err != nil {
		return fmt.Errorf("clear visit windows: %w", err)
	}

	for _, w := range windows {
		_, err := tx.Exec(ctx, `
			INSERT INTO venue_hours (venue_id, weekday, opens_at, closes_at, slot_minutes)
			VALUES ($1, $2, $3, $4, $5)`,
			venueID, int(w.Weekday), w.OpensAt, w.ClosesAt, w.SlotMinutes)
		if err != nil {
			return fmt.Errorf("insert visit window: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// BookedTimes retrieves the occupied slot starts for a venue on one day.
// Cancelled appointments do not block a slot.
func (r *Repo) BookedTimes(ctx context.Context, venueID uuid.UUID, dayStart, dayEnd time.Time) ([]time.Time, error) {
	query := `
		SELECT scheduled_at FROM appointments
		WHERE venue_id = $1 AND status <> $2
			AND scheduled_at >= $3 AND scheduled_at < $4`

	rows, err := r.pool.Query(ctx, query, venueID, string(StatusCancelled), dayStart, dayEnd)
	if err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}
	defer rows.Close()

	times := make([]time.Time, 0)
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan booked time: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booked times: %w", err)
	}

	return times, nil
}

// Create books a slot. The partial unique index on live appointments turns
// a double booking into a conflict error instead of a silent overwrite.
func (r *Repo) Create(ctx context.Context, venueID, userID uuid.UUID, visitorName, phone string, scheduledAt time.Time, note string) (Appointment, error) {
	query := `
		INSERT INTO appointments (id, venue_id, user_id, visitor_name, phone, scheduled_at, status, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + appointmentColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.New(), venueID, userID, visitorName, phone, scheduledAt, string(StatusPending), note)

	appt, err := scanAppointment(row)
	if err != nil {
		if isUniqueViolation(err) {
			return Appointment{}, apperr.Conflict("slot is already booked")
		}
		return Appointment{}, fmt.Errorf("create appointment: %w", err)
	}

	return appt, nil
}

// GetByID retrieves one appointment.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, apperr.NotFound("appointment not found")
		}
		return Appointment{}, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// ListByUser retrieves a user's appointments, soonest first.
func (r *Repo) ListByUser(ctx context.Context, userID uuid.UUID) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments WHERE user_id = $1 ORDER BY scheduled_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by user: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// ListByVenue retrieves a venue's appointments, soonest first.
func (r *Repo) ListByVenue(ctx context.Context, venueID uuid.UUID) ([]Appointment, error) {
	query := `SELECT ` + appointmentColumns + `
		FROM appointments WHERE venue_id = $1 ORDER BY scheduled_at ASC`

	rows, err := r.pool.Query(ctx, query, venueID)
	if err != nil {
		return nil, fmt.Errorf("list appointments by venue: %w", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// SetStatus moves an appointment through its lifecycle.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status Status) (Appointment, error) {
	query := `
		UPDATE appointments SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + appointmentColumns

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Appointment{}, apperr.NotFound("appointment not found")
		}
		return Appointment{}, fmt.Errorf("set appointment status: %w", err)
	}
	return appt, nil
}

func scanAppointment(row pgx.Row) (Appointment, error) {
	var a Appointment
	var status string
	err := row.Scan(&a.ID, &a.VenueID, &a.UserID, &a.VisitorName, &a.Phone,
		&a.ScheduledAt, &status, &a.Note, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return Appointment{}, err
	}
	a.Status = Status(status)
	return a, nil
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	appointments := make([]Appointment, 0)
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, appt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}
	return appointments, nil
}
