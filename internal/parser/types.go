// Package parser extracts structured rows from source document formats. All
// parsers are pure: they consume already-extracted tables or raw bytes and
// return name-level rows, leaving entity resolution and persistence to the
// update service.
package parser

import "time"

// Substitution is one candidate substitution with canonical names. Empty
// strings mean the reference is absent.
type Substitution struct {
	Date              time.Time
	Day               int
	TimeSlot          int
	Subject           string
	Notes             string
	OriginalTeacher   string
	OriginalClassroom string
	Class             string
	NewTeacher        string
	NewClassroom      string
}

// LunchSlot is one class's lunch schedule entry before entity resolution.
type LunchSlot struct {
	Class    string
	Time     string
	Location string
	Notes    string
}

// MenuDay is one calendar day of a snack or lunch menu. Unused diet fields
// stay empty on lunch menus.
type MenuDay struct {
	Date           time.Time
	Normal         string
	Poultry        string
	Vegetarian     string
	FruitVegetable string
}

// Lesson is one weekly timetable slot with raw names as the timetable dump
// publishes them.
type Lesson struct {
	Day       int
	TimeSlot  int
	Subject   string
	Class     string
	Teacher   string
	Classroom string
}
