package calendar

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"salonai/models"
	"salonai/utils"

	"go.uber.org/zap"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

const reservationIDProp = "reservationId"
const userIDProp = "userId"

// summaryPattern matches event titles of the form
// "[予約] カット - 山本 (田中)".
var summaryPattern = regexp.MustCompile(`^\[予約\] (.+) - (.+) \((.+)\)$`)

// GoogleGateway implements Gateway against the Google Calendar API. All
// event times are localized into the operating zone before any interval is
// returned; callers never see a raw UTC timestamp.
type GoogleGateway struct {
	svc        *gcal.Service
	calendarID string
	loc        *time.Location
}

func NewGoogleGateway(ctx context.Context, credentialsJSON []byte, calendarID string, loc *time.Location) (*GoogleGateway, error) {
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsJSON(credentialsJSON),
		option.WithScopes(gcal.CalendarScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar service: %w", err)
	}
	return &GoogleGateway{svc: svc, calendarID: calendarID, loc: loc}, nil
}

// FetchBusyIntervals returns the day's busy intervals in minutes from
// midnight of the operating zone, clipped to the day, tagged with the owning
// reservation id when the event carries one.
func (g *GoogleGateway) FetchBusyIntervals(ctx context.Context, date string) ([]models.BusyInterval, error) {
	events, err := g.dayEvents(ctx, date)
	if err != nil {
		return nil, err
	}

	var busy []models.BusyInterval
	for _, ev := range events {
		iv, ok := g.eventInterval(ev, date)
		if !ok {
			continue
		}
		busy = append(busy, models.BusyInterval{
			Interval:      iv,
			ReservationID: eventProp(ev, reservationIDProp),
		})
	}
	return busy, nil
}

// CreateOrUpdateEvent upserts the reservation's calendar event, keyed by the
// reservation id stored in the event's private extended properties.
func (g *GoogleGateway) CreateOrUpdateEvent(ctx context.Context, res *models.Reservation) error {
	event := g.buildEvent(res)

	existing, err := g.findByReservationID(ctx, res.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		_, err = g.svc.Events.Update(g.calendarID, existing.Id, event).Context(ctx).Do()
		if err != nil {
			return fmt.Errorf("failed to update calendar event for reservation %s: %w", res.ID, err)
		}
		return nil
	}

	created, err := g.svc.Events.Insert(g.calendarID, event).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create calendar event for reservation %s: %w", res.ID, err)
	}
	utils.GetLogger().Info("calendar event created",
		zap.String("reservationID", res.ID), zap.String("eventLink", created.HtmlLink))
	return nil
}

func (g *GoogleGateway) DeleteEvent(ctx context.Context, reservationID string) error {
	existing, err := g.findByReservationID(ctx, reservationID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if err := g.svc.Events.Delete(g.calendarID, existing.Id).Context(ctx).Do(); err != nil {
		return fmt.Errorf("failed to delete calendar event for reservation %s: %w", reservationID, err)
	}
	return nil
}

// ListReservationsForDate reconstructs reservations from the day's tagged
// events; untagged events (manual calendar entries) are skipped.
func (g *GoogleGateway) ListReservationsForDate(ctx context.Context, date string) ([]models.Reservation, error) {
	events, err := g.dayEvents(ctx, date)
	if err != nil {
		return nil, err
	}

	var out []models.Reservation
	for _, ev := range events {
		id := eventProp(ev, reservationIDProp)
		if id == "" {
			continue
		}
		iv, ok := g.eventInterval(ev, date)
		if !ok {
			continue
		}
		res := models.Reservation{
			ID:     id,
			UserID: eventProp(ev, userIDProp),
			Date:   date,
			Start:  iv.Start,
			End:    iv.End,
		}
		if m := summaryPattern.FindStringSubmatch(ev.Summary); m != nil {
			res.ServiceName = m[1]
			res.ClientName = m[2]
			res.StaffName = m[3]
		}
		out = append(out, res)
	}
	return out, nil
}

func (g *GoogleGateway) dayEvents(ctx context.Context, date string) ([]*gcal.Event, error) {
	dayStart, err := time.ParseInLocation("2006-01-02", date, g.loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", date, err)
	}
	dayEnd := dayStart.AddDate(0, 0, 1)

	result, err := g.svc.Events.List(g.calendarID).
		TimeMin(dayStart.Format(time.RFC3339)).
		TimeMax(dayEnd.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendar events for %s: %w", date, err)
	}
	return result.Items, nil
}

// eventInterval converts a timed event into a same-day interval in the
// operating zone, clipped to the day bounds. All-day events are skipped;
// blocking a whole day is expressed through business hours, not events.
func (g *GoogleGateway) eventInterval(ev *gcal.Event, date string) (models.Interval, bool) {
	if ev.Start == nil || ev.End == nil || ev.Start.DateTime == "" || ev.End.DateTime == "" {
		return models.Interval{}, false
	}
	start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
	if err != nil {
		return models.Interval{}, false
	}
	end, err := time.Parse(time.RFC3339, ev.End.DateTime)
	if err != nil {
		return models.Interval{}, false
	}
	start = start.In(g.loc)
	end = end.In(g.loc)

	dayStart, _ := time.ParseInLocation("2006-01-02", date, g.loc)
	dayEnd := dayStart.AddDate(0, 0, 1)
	if !end.After(dayStart) || !start.Before(dayEnd) {
		return models.Interval{}, false
	}

	startMinute := 0
	if start.After(dayStart) {
		startMinute = start.Hour()*60 + start.Minute()
	}
	endMinute := 24 * 60
	if end.Before(dayEnd) {
		endMinute = end.Hour()*60 + end.Minute()
	}
	if endMinute <= startMinute {
		return models.Interval{}, false
	}
	return models.Interval{Start: startMinute, End: endMinute}, true
}

func (g *GoogleGateway) buildEvent(res *models.Reservation) *gcal.Event {
	dayStart, _ := time.ParseInLocation("2006-01-02", res.Date, g.loc)
	start := dayStart.Add(time.Duration(res.Start) * time.Minute)
	end := dayStart.Add(time.Duration(res.End) * time.Minute)

	description := fmt.Sprintf("サービス: %s\n担当者: %s\nお客様: %s\n所要時間: %d分\n予約ID: %s",
		res.ServiceName, res.StaffName, res.ClientName, res.End-res.Start, res.ID)

	return &gcal.Event{
		Summary:     fmt.Sprintf("[予約] %s - %s (%s)", res.ServiceName, res.ClientName, res.StaffName),
		Description: description,
		Start: &gcal.EventDateTime{
			DateTime: start.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
		End: &gcal.EventDateTime{
			DateTime: end.Format(time.RFC3339),
			TimeZone: g.loc.String(),
		},
		ExtendedProperties: &gcal.EventExtendedProperties{
			Private: map[string]string{
				reservationIDProp: res.ID,
				userIDProp:        res.UserID,
			},
		},
	}
}

func (g *GoogleGateway) findByReservationID(ctx context.Context, reservationID string) (*gcal.Event, error) {
	result, err := g.svc.Events.List(g.calendarID).
		PrivateExtendedProperty(reservationIDProp + "=" + reservationID).
		SingleEvents(true).
		MaxResults(1).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to look up calendar event for reservation %s: %w", reservationID, err)
	}
	if len(result.Items) == 0 {
		return nil, nil
	}
	return result.Items[0], nil
}

func eventProp(ev *gcal.Event, key string) string {
	if ev.ExtendedProperties == nil || ev.ExtendedProperties.Private == nil {
		return ""
	}
	return ev.ExtendedProperties.Private[key]
}
