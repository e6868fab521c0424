package models

import "time"

// Lesson is one recurring weekly timetable slot. The whole lesson set is
// replaced on every successful timetable parse.
type Lesson struct {
	ID          int64   `db:"id" json:"id"`
	Day         int     `db:"day" json:"day"`
	TimeSlot    int     `db:"time_slot" json:"time_slot"`
	Subject     *string `db:"subject" json:"subject,omitempty"`
	ClassID     *int64  `db:"class_id" json:"class_id,omitempty"`
	TeacherID   *int64  `db:"teacher_id" json:"teacher_id,omitempty"`
	ClassroomID *int64  `db:"classroom_id" json:"classroom_id,omitempty"`
}

// Substitution is a date-scoped override of a lesson. All substitutions for a
// date are replaced together whenever that date's document is re-parsed.
type Substitution struct {
	ID                  int64     `db:"id" json:"id"`
	Date                time.Time `db:"date" json:"date"`
	Day                 int       `db:"day" json:"day"`
	TimeSlot            int       `db:"time_slot" json:"time_slot"`
	Subject             *string   `db:"subject" json:"subject,omitempty"`
	Notes               *string   `db:"notes" json:"notes,omitempty"`
	OriginalTeacherID   *int64    `db:"original_teacher_id" json:"original_teacher_id,omitempty"`
	OriginalClassroomID *int64    `db:"original_classroom_id" json:"original_classroom_id,omitempty"`
	ClassID             *int64    `db:"class_id" json:"class_id,omitempty"`
	TeacherID           *int64    `db:"teacher_id" json:"teacher_id,omitempty"`
	ClassroomID         *int64    `db:"classroom_id" json:"classroom_id,omitempty"`
}

// LunchSchedule is one class's lunch slot on a date.
type LunchSchedule struct {
	ID       int64     `db:"id" json:"id"`
	ClassID  int64     `db:"class_id" json:"class_id"`
	Date     time.Time `db:"date" json:"date"`
	Time     *string   `db:"time" json:"time,omitempty"`
	Location *string   `db:"location" json:"location,omitempty"`
	Notes    *string   `db:"notes" json:"notes,omitempty"`
}
