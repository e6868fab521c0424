package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/gimvic/schedule-sync/internal/models"
)

// SubstitutionRepository stores date-scoped schedule overrides.
type SubstitutionRepository struct {
	db *sqlx.DB
}

// NewSubstitutionRepository constructs a SubstitutionRepository.
func NewSubstitutionRepository(db *sqlx.DB) *SubstitutionRepository {
	return &SubstitutionRepository{db: db}
}

// ReplaceForDate swaps every substitution stored for a date with the given
// set. Must run inside the document's transaction so a failed parse never
// leaves the date half-written.
func (r *SubstitutionRepository) ReplaceForDate(ctx context.Context, ext sqlx.ExtContext, date time.Time, subs []models.Substitution) error {
	if _, err := ext.ExecContext(ctx, "DELETE FROM substitutions WHERE date = $1", date); err != nil {
		return fmt.Errorf("clear substitutions: %w", err)
	}
	const query = `INSERT INTO substitutions
		(date, day, time_slot, subject, notes, original_teacher_id, original_classroom_id, class_id, teacher_id, classroom_id)
		VALUES (:date, :day, :time_slot, :subject, :notes, :original_teacher_id, :original_classroom_id, :class_id, :teacher_id, :classroom_id)`
	for i := range subs {
		if _, err := sqlx.NamedExecContext(ctx, ext, query, &subs[i]); err != nil {
			return fmt.Errorf("insert substitution: %w", err)
		}
	}
	return nil
}

// ListForDate returns substitutions for a date ordered by slot.
func (r *SubstitutionRepository) ListForDate(ctx context.Context, date time.Time) ([]models.Substitution, error) {
	const query = `SELECT id, date, day, time_slot, subject, notes,
		original_teacher_id, original_classroom_id, class_id, teacher_id, classroom_id
		FROM substitutions WHERE date = $1 ORDER BY time_slot, id`
	var subs []models.Substitution
	if err := r.db.SelectContext(ctx, &subs, query, date); err != nil {
		return nil, fmt.Errorf("list substitutions: %w", err)
	}
	return subs, nil
}

// LunchScheduleRepository stores per-class lunch slots.
type LunchScheduleRepository struct {
	db *sqlx.DB
}

// NewLunchScheduleRepository constructs a LunchScheduleRepository.
func NewLunchScheduleRepository(db *sqlx.DB) *LunchScheduleRepository {
	return &LunchScheduleRepository{db: db}
}

// ReplaceForDate swaps every lunch slot stored for a date with the given set.
func (r *LunchScheduleRepository) ReplaceForDate(ctx context.Context, ext sqlx.ExtContext, date time.Time, slots []models.LunchSchedule) error {
	if _, err := ext.ExecContext(ctx, "DELETE FROM lunch_schedules WHERE date = $1", date); err != nil {
		return fmt.Errorf("clear lunch schedules: %w", err)
	}
	const query = `INSERT INTO lunch_schedules (class_id, date, time, location, notes)
		VALUES (:class_id, :date, :time, :location, :notes)`
	for i := range slots {
		if _, err := sqlx.NamedExecContext(ctx, ext, query, &slots[i]); err != nil {
			return fmt.Errorf("insert lunch schedule: %w", err)
		}
	}
	return nil
}

// LessonRepository stores the weekly timetable.
type LessonRepository struct {
	db *sqlx.DB
}

// NewLessonRepository constructs a LessonRepository.
func NewLessonRepository(db *sqlx.DB) *LessonRepository {
	return &LessonRepository{db: db}
}

// ReplaceAll swaps the whole timetable with the given lesson set. The dump
// always carries every class, so a partial merge would only preserve stale rows.
func (r *LessonRepository) ReplaceAll(ctx context.Context, ext sqlx.ExtContext, lessons []models.Lesson) error {
	if _, err := ext.ExecContext(ctx, "DELETE FROM lessons"); err != nil {
		return fmt.Errorf("clear lessons: %w", err)
	}
	const query = `INSERT INTO lessons (day, time_slot, subject, class_id, teacher_id, classroom_id)
		VALUES (:day, :time_slot, :subject, :class_id, :teacher_id, :classroom_id)`
	for i := range lessons {
		if _, err := sqlx.NamedExecContext(ctx, ext, query, &lessons[i]); err != nil {
			return fmt.Errorf("insert lesson: %w", err)
		}
	}
	return nil
}
