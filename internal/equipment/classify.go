package equipment

import (
	"strconv"
	"strings"
)

// Type is the kind of equipment an incident refers to.
type Type string

const (
	Elevator  Type = "elevator"
	Escalator Type = "escalator"
)

// ElevatorPrefix marks elevator codes. The comparison is case-sensitive.
const ElevatorPrefix = "Asc"

// Classify returns Elevator when code starts with ElevatorPrefix and
// Escalator otherwise, including for an empty code.
func Classify(code string) Type {
	if strings.HasPrefix(code, ElevatorPrefix) {
		return Elevator
	}
	return Escalator
}

// ExtractID returns the integer value of the first maximal run of decimal
// digits in code. The boolean is false when no digits exist or the run does
// not fit in an int.
func ExtractID(code string) (int, bool) {
	start := strings.IndexFunc(code, isDigit)
	if start < 0 {
		return 0, false
	}
	end := start
	for end < len(code) && isDigit(rune(code[end])) {
		end++
	}
	id, err := strconv.Atoi(code[start:end])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Label returns the French label used in the source extracts.
func (t Type) Label() string {
	switch t {
	case Elevator:
		return "ascenseur"
	case Escalator:
		return "escalier"
	default:
		return string(t)
	}
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}
