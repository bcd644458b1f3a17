// Package studentid allocates student identifiers.
//
// The primary scheme is "{initials} {phone}". When that identifier is taken
// the sequence scheme numbers students per course: "{initials}{NNN}
// ({start})-({end}) ({date})".
package studentid

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/batchname"
)

const placeholder = "TBD"

var ErrInvalidCustomInitials = errors.New("Custom course initials must be 2-4 characters long!")

func Simple(initials, phone string) string {
	return initials + " " + phone
}

// Sequence returns the next sequence identifier for the given initials.
func Sequence(initials string, existing []string, sched batchname.Schedule) string {
	next := MaxSequence(initials, existing) + 1
	return fmt.Sprintf("%s%03d (%s)-(%s) (%s)",
		initials, next,
		orPlaceholder(sched.StartTime), orPlaceholder(sched.EndTime), orPlaceholder(sched.StartDate))
}

// MaxSequence is the highest number already used after the initials, or 0.
func MaxSequence(initials string, existing []string) int {
	max := 0
	for _, id := range existing {
		if n, ok := sequenceNumber(initials, id); ok && n > max {
			max = n
		}
	}
	return max
}

func sequenceNumber(initials, id string) (int, bool) {
	if initials == "" || !strings.HasPrefix(id, initials) {
		return 0, false
	}
	rest := strings.TrimPrefix(id, initials)
	rest, _, _ = strings.Cut(rest, " ")
	rest, _, _ = strings.Cut(rest, "(")
	if rest == "" {
		return 0, false
	}
	for _, r := range rest {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ResolveInitials returns the initials to use for a course selection. The
// CUSTOM option takes the custom value, trimmed and uppercased.
func ResolveInitials(selected, custom string) (string, error) {
	if selected != "CUSTOM" {
		return selected, nil
	}
	v := strings.ToUpper(strings.TrimSpace(custom))
	if n := len([]rune(v)); n < 2 || n > 4 {
		return "", ErrInvalidCustomInitials
	}
	return v, nil
}

func orPlaceholder(s string) string {
	if s == "" || s == batchname.Unknown {
		return placeholder
	}
	return s
}
