// Package schedule decides which calendar days a recurring task occurs on.
// Rules are a small RRULE-style subset (FREQ, INTERVAL, BYDAY) evaluated
// on whole days; occurrence slots within a day are the rotation core's
// concern, not this package's.
package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Freq int

const (
	Daily Freq = iota
	Weekly
	Monthly
)

var freqFromName = map[string]Freq{
	"DAILY":   Daily,
	"WEEKLY":  Weekly,
	"MONTHLY": Monthly,
}

var dayFromName = map[string]time.Weekday{
	"SU": time.Sunday,
	"MO": time.Monday,
	"TU": time.Tuesday,
	"WE": time.Wednesday,
	"TH": time.Thursday,
	"FR": time.Friday,
	"SA": time.Saturday,
}

type Rule struct {
	Freq     Freq
	Interval int            // default 1; 2 = every other period
	ByDay    []time.Weekday // WEEKLY only; empty = same weekday as the anchor
}

// Parse reads a rule string like "FREQ=WEEKLY;INTERVAL=2;BYDAY=MO,TH".
func Parse(s string) (Rule, error) {
	rule := Rule{Interval: 1}
	if strings.TrimSpace(s) == "" {
		return rule, fmt.Errorf("empty rule")
	}

	seenFreq := false
	for _, part := range strings.Split(s, ";") {
		key, value, ok := strings.Cut(part, "=")
		if !ok {
			return rule, fmt.Errorf("malformed rule part %q", part)
		}
		key = strings.ToUpper(strings.TrimSpace(key))
		value = strings.ToUpper(strings.TrimSpace(value))

		switch key {
		case "FREQ":
			f, ok := freqFromName[value]
			if !ok {
				return rule, fmt.Errorf("unsupported FREQ %q", value)
			}
			rule.Freq = f
			seenFreq = true
		case "INTERVAL":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 {
				return rule, fmt.Errorf("invalid INTERVAL %q", value)
			}
			rule.Interval = n
		case "BYDAY":
			for _, name := range strings.Split(value, ",") {
				d, ok := dayFromName[strings.TrimSpace(name)]
				if !ok {
					return rule, fmt.Errorf("unknown BYDAY value %q", name)
				}
				rule.ByDay = append(rule.ByDay, d)
			}
		default:
			return rule, fmt.Errorf("unknown rule key %q", key)
		}
	}

	if !seenFreq {
		return rule, fmt.Errorf("rule missing FREQ")
	}
	return rule, nil
}

// OccursOn reports whether the rule, anchored at the task's creation day,
// produces an occurrence on the given date. Dates before the anchor never
// occur.
func OccursOn(rule Rule, anchor, date time.Time) bool {
	a := startOfDay(anchor)
	d := startOfDay(date)
	if d.Before(a) {
		return false
	}

	switch rule.Freq {
	case Daily:
		return daysBetween(a, d)%rule.Interval == 0

	case Weekly:
		weeks := daysBetween(weekStart(a), weekStart(d)) / 7
		if weeks%rule.Interval != 0 {
			return false
		}
		if len(rule.ByDay) == 0 {
			return d.Weekday() == a.Weekday()
		}
		for _, wd := range rule.ByDay {
			if d.Weekday() == wd {
				return true
			}
		}
		return false

	case Monthly:
		months := (d.Year()-a.Year())*12 + int(d.Month()) - int(a.Month())
		if months%rule.Interval != 0 {
			return false
		}
		// Anchor days past the month's end clamp to its last day.
		day := a.Day()
		if last := daysInMonth(d.Year(), d.Month()); day > last {
			day = last
		}
		return d.Day() == day
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days between two dates. Both are re-read
// as UTC midnights first so a DST-shortened or -lengthened day still
// counts as exactly one.
func daysBetween(a, b time.Time) int {
	au := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bu := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bu.Sub(au).Hours() / 24)
}

// weekStart is the Monday beginning the week containing t.
func weekStart(t time.Time) time.Time {
	offset := int(t.Weekday()) - int(time.Monday)
	if offset < 0 {
		offset += 7
	}
	return startOfDay(t.AddDate(0, 0, -offset))
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
