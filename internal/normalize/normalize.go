// Package normalize maps raw extracted strings to canonical subject, teacher
// and classroom names. All functions are total: any input yields either a
// canonical name or empty string meaning "absent".
package normalize

import "strings"

// EmptyMarkers are sentinel values that always normalize to absent.
var EmptyMarkers = map[string]struct{}{
	"":       {},
	"X":      {},
	"x":      {},
	"/":      {},
	"MANJKA": {},
}

// TeacherAbsentMarkers map to absent before any other teacher handling:
// cancelled lessons and the placeholder used when no teacher is assigned.
var TeacherAbsentMarkers = map[string]struct{}{
	"Po urniku ni pouka": {},
	"samozaposleni":      {},
}

// FirstNameOverrides disambiguate same-surname teachers by a first-name
// sub-match. Outer key is the surname substring, inner keys are first-name
// substrings yielding the canonical short name.
var FirstNameOverrides = map[string]map[string]string{
	"Krapež": {
		"Alenka":   "KrapežA",
		"Marjetka": "KrapežM",
	},
	"Šajn": {
		"Eva":   "ŠajnE",
		"Majda": "ŠajnM",
	},
}

// SurnameOverrides map legacy multi-surname teachers to one canonical surname.
var SurnameOverrides = map[string]string{
	"Crnoja":   "Legan",
	"Erbežnik": "Mihelič",
	"Gresl":    "Černe",
	"Jereb":    "Batagelj",
	"Merhar":   "Kariž",
	"Osole":    "Pikl",
	"Stjepić":  "ŠajnM",
	"Tehovnik": "Glaser",
	"Vahtar":   "Rudolf",
	"Potočnik": "Vičar",
	"Završnik": "Ražen",
	"Zelič":    "Ocvirk",
	"Žemva":    "Strmčnik",
}

// SubjectAliases map legacy subject codes to current ones.
var SubjectAliases = map[string]string{
	"ŠVZS": "ŠVZ",
	"ŠPVF": "ŠVM",
	"ŠPVD": "ŠVŽ",
}

// ClassroomAliases map legacy auditorium names to classroom codes.
var ClassroomAliases = map[string]string{
	"Velika dvorana":     "TV1",
	"Velika telovadnica": "TV1",
	"Mala dvorana":       "TV3",
	"Mala telovadnica":   "TV3",
}

// IsEmpty reports whether the raw name is one of the absent sentinels.
func IsEmpty(name string) bool {
	_, ok := EmptyMarkers[name]
	return ok
}

// Subject returns the canonical subject name, or "" when absent.
func Subject(name string) string {
	if IsEmpty(name) {
		return ""
	}
	if alias, ok := SubjectAliases[name]; ok {
		return alias
	}
	return name
}

// Teacher returns the canonical teacher name, or "" when absent. Canonical
// teacher names are surnames, with fixed overrides for ambiguous and
// multi-surname teachers.
func Teacher(name string) string {
	if _, ok := TeacherAbsentMarkers[name]; ok {
		return ""
	}
	if IsEmpty(name) {
		return ""
	}

	for surname, byFirstName := range FirstNameOverrides {
		if !strings.Contains(name, surname) {
			continue
		}
		for firstName, canonical := range byFirstName {
			if strings.Contains(name, firstName) {
				return canonical
			}
		}
	}

	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	if canonical, ok := SurnameOverrides[fields[0]]; ok {
		return canonical
	}
	return fields[0]
}

// Classroom returns the canonical classroom name, or "" when absent.
func Classroom(name string) string {
	if IsEmpty(name) {
		return ""
	}
	if alias, ok := ClassroomAliases[name]; ok {
		return alias
	}
	return name
}

// Other passes through any non-sentinel value, used for notes and titles.
func Other(name string) string {
	if IsEmpty(name) {
		return ""
	}
	return name
}
