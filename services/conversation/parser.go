package conversation

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Accepted clock formats, matched in order: "10時", "10時30分", "10時30",
// "10", "10:30", "10：30", with an optional trailing "分" on colon forms.
var (
	reHourOnly   = regexp.MustCompile(`^(\d{1,2})時$`)
	reHourMinute = regexp.MustCompile(`^(\d{1,2})時(\d{1,2})分?$`)
	reBareHour   = regexp.MustCompile(`^(\d{1,2})$`)
	reColonTime  = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})分?$`)

	reISODate   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	reMonthDay  = regexp.MustCompile(`^(\d{1,2})月(\d{1,2})日$`)
	rangeMarker = strings.NewReplacer("〜", "~", "～", "~", "：", ":")
)

// ParseClockMinute converts a single clock expression to minutes from
// midnight. Returns false for anything outside the accepted formats or the
// 00:00-23:59 range.
func ParseClockMinute(input string) (int, bool) {
	t := rangeMarker.Replace(strings.TrimSpace(input))

	if m := reHourOnly.FindStringSubmatch(t); m != nil {
		return clockMinute(m[1], "0")
	}
	if m := reHourMinute.FindStringSubmatch(t); m != nil {
		return clockMinute(m[1], m[2])
	}
	if m := reBareHour.FindStringSubmatch(t); m != nil {
		return clockMinute(m[1], "0")
	}
	if m := reColonTime.FindStringSubmatch(t); m != nil {
		return clockMinute(m[1], m[2])
	}
	return 0, false
}

func clockMinute(hourStr, minuteStr string) (int, bool) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil || hour > 23 {
		return 0, false
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil || minute > 59 {
		return 0, false
	}
	return hour*60 + minute, true
}

// ParseTimeRange parses either a "start~end" pair or a bare start time.
// For a bare start, end is returned as bareEnd so the caller can derive it
// from the reservation's duration.
func ParseTimeRange(input string, bareEnd int) (start, end int, ok bool) {
	t := rangeMarker.Replace(strings.TrimSpace(input))

	if before, after, found := strings.Cut(t, "~"); found {
		s, okS := ParseClockMinute(before)
		e, okE := ParseClockMinute(after)
		if !okS || !okE || e <= s {
			return 0, 0, false
		}
		return s, e, true
	}
	s, okS := ParseClockMinute(t)
	if !okS {
		return 0, 0, false
	}
	return s, bareEnd, true
}

// ParseDate resolves a date expression to a "YYYY-MM-DD" string relative to
// now in the operating zone. Recognizes 明日, 明後日, the weekday words, an
// explicit ISO date, and "M月D日" (rolled into next year when already past).
func ParseDate(input string, now time.Time) (string, bool) {
	t := strings.TrimSpace(input)

	switch {
	case strings.Contains(t, "明後日"):
		return now.AddDate(0, 0, 2).Format("2006-01-02"), true
	case strings.Contains(t, "明日"):
		return now.AddDate(0, 0, 1).Format("2006-01-02"), true
	case strings.Contains(t, "今日"):
		return now.Format("2006-01-02"), true
	}

	for wd, word := range weekdayWords {
		if strings.Contains(t, word) {
			return nextWeekday(now, wd).Format("2006-01-02"), true
		}
	}

	if reISODate.MatchString(t) {
		if _, err := time.Parse("2006-01-02", t); err == nil {
			return t, true
		}
		return "", false
	}

	if m := reMonthDay.FindStringSubmatch(t); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month < 1 || month > 12 || day < 1 || day > 31 {
			return "", false
		}
		candidate := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
		if candidate.Month() != time.Month(month) || candidate.Day() != day {
			return "", false
		}
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if candidate.Before(today) {
			candidate = candidate.AddDate(1, 0, 0)
		}
		return candidate.Format("2006-01-02"), true
	}

	return "", false
}

var weekdayWords = map[time.Weekday]string{
	time.Monday:    "月曜",
	time.Tuesday:   "火曜",
	time.Wednesday: "水曜",
	time.Thursday:  "木曜",
	time.Friday:    "金曜",
	time.Saturday:  "土曜",
	time.Sunday:    "日曜",
}

// nextWeekday returns the next occurrence of wd strictly after today.
func nextWeekday(now time.Time, wd time.Weekday) time.Time {
	days := (int(wd) - int(now.Weekday()) + 7) % 7
	if days == 0 {
		days = 7
	}
	return now.AddDate(0, 0, days)
}
