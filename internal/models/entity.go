package models

// EntityKind names a reference-entity table.
type EntityKind string

const (
	EntityClass     EntityKind = "classes"
	EntityTeacher   EntityKind = "teachers"
	EntityClassroom EntityKind = "classrooms"
)

// Class is a canonical school class (e.g. "1A").
type Class struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Teacher is a canonical teacher surname.
type Teacher struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Classroom is a canonical classroom code.
type Classroom struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
