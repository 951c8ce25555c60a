package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"salonai/config"
	"salonai/models"
)

// BusinessHours describes the salon's daily operating window in the fixed
// operating zone. Loaded once from config and treated as immutable.
type BusinessHours struct {
	OpenMinute  int
	CloseMinute int
	// Optional midday break, treated as a standing busy interval.
	BreakStart int
	BreakEnd   int
	HasBreak   bool
	// Weekdays the salon is closed on (time.Weekday values).
	ClosedWeekdays map[time.Weekday]bool
	Location       *time.Location
}

// HoursFromConfig builds BusinessHours from the loaded app configuration.
func HoursFromConfig() (*BusinessHours, error) {
	open, err := parseClock(config.AppConfig.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("invalid OPEN_TIME: %w", err)
	}
	close, err := parseClock(config.AppConfig.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("invalid CLOSE_TIME: %w", err)
	}
	if open >= close {
		return nil, fmt.Errorf("OPEN_TIME %s must precede CLOSE_TIME %s",
			config.AppConfig.OpenTime, config.AppConfig.CloseTime)
	}

	hours := &BusinessHours{
		OpenMinute:     open,
		CloseMinute:    close,
		ClosedWeekdays: map[time.Weekday]bool{},
		Location:       config.Location(),
	}
	for _, wd := range config.AppConfig.ClosedWeekdays {
		hours.ClosedWeekdays[time.Weekday(wd)] = true
	}

	if config.AppConfig.BreakStart != "" && config.AppConfig.BreakEnd != "" {
		bs, err := parseClock(config.AppConfig.BreakStart)
		if err != nil {
			return nil, fmt.Errorf("invalid BREAK_START: %w", err)
		}
		be, err := parseClock(config.AppConfig.BreakEnd)
		if err != nil {
			return nil, fmt.Errorf("invalid BREAK_END: %w", err)
		}
		if bs < be {
			hours.BreakStart, hours.BreakEnd, hours.HasBreak = bs, be, true
		}
	}
	return hours, nil
}

// DayBound returns the bookable window for a date, or false when the salon
// is closed that day. A closed day yields no slots, never an error.
func (h *BusinessHours) DayBound(date string) (models.Interval, bool) {
	day, err := time.ParseInLocation("2006-01-02", date, h.Location)
	if err != nil {
		return models.Interval{}, false
	}
	if h.ClosedWeekdays[day.Weekday()] {
		return models.Interval{}, false
	}
	return models.Interval{Start: h.OpenMinute, End: h.CloseMinute}, true
}

// StandingBusy returns fixed busy intervals that apply to every open day
// (currently just the midday break).
func (h *BusinessHours) StandingBusy() []models.Interval {
	if !h.HasBreak {
		return nil
	}
	return []models.Interval{{Start: h.BreakStart, End: h.BreakEnd}}
}

// parseClock converts "HH:MM" to minutes from midnight.
func parseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("expected HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("bad hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("bad minute in %q", s)
	}
	return hour*60 + minute, nil
}
