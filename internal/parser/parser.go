// Package parser turns one line of free text into a structured appointment
// command. Parsing untrusted chat input must be total: malformed input yields
// a no-match result, never a panic.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Command is the ephemeral result of parsing one message. It is consumed
// immediately to create an appointment plus its reminder.
type Command struct {
	Title string
	Start time.Time
	End   time.Time
}

// grammar is one self-contained parse attempt. Grammars are tried in order;
// the first match wins.
type grammar func(text string, now time.Time) (Command, bool)

var grammars = []grammar{parseDelimited, parseNatural}

// Parse attempts each grammar against the message. The reference time "now"
// anchors relative dates (hoje, amanhã) and the year roll-forward; its
// location defines local midnight.
func Parse(text string, now time.Time) (Command, bool) {
	cleaned := strings.TrimSpace(text)
	if cleaned == "" {
		return Command{}, false
	}

	for _, g := range grammars {
		if cmd, ok := g(cleaned, now); ok {
			return cmd, true
		}
	}
	return Command{}, false
}

var timeRangeRe = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?:\s*-\s*(\d{1,2}):(\d{2}))?$`)

// parseDelimited handles "title | date | HH:MM[-HH:MM]".
// A missing end time defaults to one hour after the start, matching the
// natural grammar.
func parseDelimited(text string, now time.Time) (Command, bool) {
	parts := strings.Split(text, "|")
	if len(parts) < 3 {
		return Command{}, false
	}

	title := strings.TrimSpace(parts[0])
	if title == "" {
		return Command{}, false
	}

	day, ok := resolveDate(strings.TrimSpace(parts[1]), now)
	if !ok {
		return Command{}, false
	}

	m := timeRangeRe.FindStringSubmatch(strings.TrimSpace(parts[2]))
	if m == nil {
		return Command{}, false
	}

	return buildCommand(title, day, m[1], m[2], m[3], m[4])
}

var naturalRe = regexp.MustCompile(`(?i)^(.+?)\s+(?:dia\s+)?(\d{1,2}/\d{1,2}(?:/\d{2,4})?)\s+(?:às?\s+)?(\d{1,2}):(\d{2})\s*(?:-\s*(\d{1,2}):(\d{2}))?$`)

// parseNatural handles "title [dia] DD/MM[/YYYY] [às] HH:MM[-HH:MM]".
func parseNatural(text string, now time.Time) (Command, bool) {
	m := naturalRe.FindStringSubmatch(text)
	if m == nil {
		return Command{}, false
	}

	title := strings.TrimSpace(m[1])
	if title == "" {
		return Command{}, false
	}

	day, ok := resolveDate(m[2], now)
	if !ok {
		return Command{}, false
	}

	return buildCommand(title, day, m[3], m[4], m[5], m[6])
}

// buildCommand assembles start/end instants on the resolved day. An end at or
// before the start rolls one day forward: the appointment crosses midnight.
func buildCommand(title string, day time.Time, startHour, startMin, endHour, endMin string) (Command, bool) {
	sh, sm, ok := clockValues(startHour, startMin)
	if !ok {
		return Command{}, false
	}

	start := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, day.Location())

	end := start.Add(time.Hour)
	if endHour != "" {
		eh, em, ok := clockValues(endHour, endMin)
		if !ok {
			return Command{}, false
		}
		end = time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, day.Location())
		if !end.After(start) {
			end = end.AddDate(0, 0, 1)
		}
	}

	return Command{Title: title, Start: start, End: end}, true
}

func clockValues(hourStr, minStr string) (int, int, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour > 23 {
		return 0, 0, false
	}
	minute, err := strconv.Atoi(minStr)
	if err != nil || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}

var (
	fullDateRe  = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)
	shortDateRe = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
)

// resolveDate turns a date token into local midnight of the referenced day.
// Tokens: "hoje", "amanhã"/"amanha", DD/MM/YYYY, DD/MM/YY (2000+YY) and DD/MM
// (current year, rolled to next year when the date already passed).
func resolveDate(token string, now time.Time) (time.Time, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch strings.ToLower(strings.TrimSpace(token)) {
	case "hoje":
		return today, true
	case "amanhã", "amanha":
		return today.AddDate(0, 0, 1), true
	}

	if m := fullDateRe.FindStringSubmatch(token); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		return calendarDate(year, month, day, now.Location())
	}

	if m := shortDateRe.FindStringSubmatch(token); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		date, ok := calendarDate(now.Year(), month, day, now.Location())
		if !ok {
			return time.Time{}, false
		}
		if date.Before(today) {
			date = date.AddDate(1, 0, 0)
		}
		return date, true
	}

	return time.Time{}, false
}

// calendarDate rejects impossible dates such as 31/02, which time.Date would
// silently normalize into March.
func calendarDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if date.Day() != day || date.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return date, true
}
