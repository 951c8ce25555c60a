package models

import "time"

// Reservation is a confirmed salon appointment. Date is "2006-01-02" in the
// operating zone; Start/End are minutes from midnight of that date.
type Reservation struct {
	ID          string    `bson:"id" json:"id"`
	UserID      string    `bson:"userId" json:"userId"`
	ClientName  string    `bson:"clientName" json:"clientName"`
	Date        string    `bson:"date" json:"date"`
	Start       int       `bson:"start" json:"start"`
	End         int       `bson:"end" json:"end"`
	ServiceName string    `bson:"serviceName" json:"serviceName"`
	StaffName   string    `bson:"staffName" json:"staffName"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Window returns the occupied interval of the reservation.
func (r Reservation) Window() Interval {
	return Interval{Start: r.Start, End: r.End}
}

// Busy returns the reservation's interval tagged with its ID.
func (r Reservation) Busy() BusyInterval {
	return BusyInterval{Interval: r.Window(), ReservationID: r.ID}
}
