// Package academic holds the department's grading and enrollment policy
// as pure functions. Nothing here touches the database.
package academic

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AllowedLevels are the academic levels a student can be enrolled at.
var AllowedLevels = map[int]bool{100: true, 200: true, 300: true, 400: true, 500: true}

var (
	matricStrict = regexp.MustCompile(`^\d{6}$`)
	// MatricPattern is the looser format accepted on payment forms. The
	// two patterns disagree on purpose: registration predates the
	// hyphenated matric series and was never updated.
	MatricPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

	emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)
	nonDigits    = regexp.MustCompile(`\D`)
)

// ValidateMatricNumber reports whether s is a six digit matric number,
// ignoring surrounding whitespace.
func ValidateMatricNumber(s string) bool {
	return matricStrict.MatchString(strings.TrimSpace(s))
}

// ValidateEmail applies the portal's basic address check.
func ValidateEmail(s string) bool {
	return emailPattern.MatchString(s)
}

// InferLevel derives a student's level for an academic session from the
// year prefix of their matric number. A four digit prefix between 2000
// and the current year is taken as the entry year; failing that, a two
// digit prefix offset by 2000; failing that, the session's start year.
// A matric with no usable digit prefix, or a malformed session name,
// yields 200 as a safe default rather than an error.
func InferLevel(matricNumber, sessionName string, now time.Time) int {
	digits := nonDigits.ReplaceAllString(strings.TrimSpace(matricNumber), "")
	if len(digits) < 2 {
		return 200
	}
	nowYear := now.Year()

	entryYear := 0
	if len(digits) >= 4 {
		if first4, err := strconv.Atoi(digits[:4]); err == nil && first4 >= 2000 && first4 <= nowYear {
			entryYear = first4
		}
	}
	if entryYear == 0 && len(digits) >= 2 {
		if first2, err := strconv.Atoi(digits[:2]); err == nil {
			if candidate := 2000 + first2; candidate >= 2000 && candidate <= nowYear {
				entryYear = candidate
			}
		}
	}

	startYear, err := sessionStartYear(sessionName)
	if err != nil {
		return 200
	}
	if entryYear == 0 {
		entryYear = startYear
	}

	level := 100 + (startYear-entryYear)*100
	if level < 100 {
		return 100
	}
	if level > 500 {
		return 500
	}
	return level
}

func sessionStartYear(sessionName string) (int, error) {
	start, _, _ := strings.Cut(strings.TrimSpace(sessionName), "/")
	return strconv.Atoi(start)
}

// GradePoint maps a score to grade points. 100 level runs one point
// higher per band than the upper levels (guiding-year policy).
func GradePoint(score, level int) float64 {
	if level == 100 {
		switch {
		case score >= 70:
			return 5.0
		case score >= 60:
			return 4.0
		case score >= 50:
			return 3.0
		case score >= 45:
			return 2.0
		case score >= 40:
			return 1.0
		default:
			return 0.0
		}
	}
	switch {
	case score >= 70:
		return 4.0
	case score >= 60:
		return 3.0
	case score >= 50:
		return 2.0
	case score >= 45:
		return 1.0
	default:
		return 0.0
	}
}

// LetterGrade maps a score to its letter grade.
func LetterGrade(score int) string {
	switch {
	case score >= 70:
		return "A"
	case score >= 60:
		return "B"
	case score >= 50:
		return "C"
	case score >= 45:
		return "D"
	case score >= 40:
		return "E"
	default:
		return "F"
	}
}

// GPA computes the unit-weighted mean of grade points rounded to two
// decimals. Zero total units yields 0.0 rather than a division error.
func GPA(totalPoints float64, totalUnits int) float64 {
	if totalUnits <= 0 {
		return 0.0
	}
	return math.Round(totalPoints/float64(totalUnits)*100) / 100
}
