// Package batchname extracts schedule details from composite batch labels
// such as "Python (01-AUG-2025) (10:00-11:00)".
package batchname

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/TechzoneAdademy/TechzoneAcademyFrontDeskRender/internal/models"
)

const Unknown = "Unknown"

const isoDateLayout = "2006-01-02"

// Schedule holds what could be derived from a label. Missing parts are Unknown.
type Schedule struct {
	StartTime string
	EndTime   string
	StartDate string
}

// groups returns the contents of every balanced "(...)" group, left to right.
func groups(label string) []string {
	var out []string
	rest := label
	for {
		open := strings.IndexByte(rest, '(')
		if open < 0 {
			return out
		}
		end := strings.IndexByte(rest[open+1:], ')')
		if end < 0 {
			return out
		}
		out = append(out, rest[open+1:open+1+end])
		rest = rest[open+1+end+1:]
	}
}

// ParseTimes reads "start-end" between the last "(" and the last ")". A
// trailing "(" with no closing ")" after it yields Unknown.
func ParseTimes(label string) (start, end string) {
	open := strings.LastIndexByte(label, '(')
	closing := strings.LastIndexByte(label, ')')
	if open < 0 || closing < open {
		return Unknown, Unknown
	}

	section := label[open+1 : closing]
	parts := strings.Split(section, "-")
	if len(parts) != 2 {
		return Unknown, Unknown
	}

	start, end = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if start == "" || end == "" {
		return Unknown, Unknown
	}
	return start, end
}

// ParseStartDate reads the start date from the second-to-last parenthesised
// group. The group must contain a digit and a dash.
func ParseStartDate(label string) string {
	g := groups(label)
	if len(g) < 2 {
		return Unknown
	}

	section := strings.TrimSpace(g[len(g)-2])
	if !strings.Contains(section, "-") || !strings.ContainsFunc(section, unicode.IsDigit) {
		return Unknown
	}
	return strings.ToUpper(section)
}

// BaseName is the label text before the first " (".
func BaseName(label string) string {
	if i := strings.Index(label, " ("); i >= 0 {
		return label[:i]
	}
	return label
}

// FormatDate renders an ISO date as DD-MON-YYYY. Empty input is Unknown and
// anything that is not an ISO date is returned as is.
func FormatDate(date string) string {
	if date == "" {
		return Unknown
	}
	t, err := time.Parse(isoDateLayout, date)
	if err != nil {
		return date
	}
	return strings.ToUpper(t.Format("02-Jan-2006"))
}

// FindBatch returns the batch whose current or original name equals the
// label's base name.
func FindBatch(label string, batches []models.Batch) *models.Batch {
	base := BaseName(label)
	for i := range batches {
		if batches[i].BatchName == base || batches[i].OriginalBatchName == base {
			return &batches[i]
		}
	}
	return nil
}

// Resolve parses the label and falls back to the matching batch record for
// the start date.
func Resolve(label string, batches []models.Batch) Schedule {
	s := Schedule{StartTime: Unknown, EndTime: Unknown, StartDate: Unknown}
	if label == "" {
		return s
	}

	s.StartTime, s.EndTime = ParseTimes(label)
	s.StartDate = ParseStartDate(label)

	if s.StartDate == Unknown {
		if b := FindBatch(label, batches); b != nil && b.BatchStartDate != "" {
			s.StartDate = FormatDate(b.BatchStartDate)
		}
	}
	return s
}

// FillTimes replaces unknown times with those of the matching batch record.
func (s Schedule) FillTimes(label string, batches []models.Batch) Schedule {
	if s.StartTime != Unknown && s.EndTime != Unknown {
		return s
	}
	b := FindBatch(label, batches)
	if b == nil {
		return s
	}
	if s.StartTime == Unknown && b.StartTime != "" {
		s.StartTime = b.StartTime
	}
	if s.EndTime == Unknown && b.EndTime != "" {
		s.EndTime = b.EndTime
	}
	return s
}

// MatchLabel finds the batch whose label equals the given one.
func MatchLabel(label string, batches []models.Batch) *models.Batch {
	for i := range batches {
		if batches[i].Label() == label {
			return &batches[i]
		}
	}
	return nil
}

// DisplayName is the summary heading for a batch: formatted date and
// Unknown for anything missing.
func DisplayName(b models.Batch) string {
	name := b.Name()
	if name == "" {
		name = Unknown
	}
	return fmt.Sprintf("%s (%s)-(%s) (%s)",
		name, orUnknown(b.StartTime), orUnknown(b.EndTime), FormatDate(b.BatchStartDate))
}

func orUnknown(s string) string {
	if s == "" {
		return Unknown
	}
	return s
}
