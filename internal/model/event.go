package model

import "time"

// RSVPStatus is a member's response to an event.
type RSVPStatus string

const (
	RSVPInterested RSVPStatus = "interested"
	RSVPGoing      RSVPStatus = "going"
	RSVPNone       RSVPStatus = "none"
)

// Valid reports whether s is one of the accepted statuses.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPInterested, RSVPGoing, RSVPNone:
		return true
	default:
		return false
	}
}

// Event carries aggregate membership counters that always equal the
// number of events_members rows with the matching flag set.
type Event struct {
	ID          uint      `json:"event_id" gorm:"column:event_id;primaryKey"`
	Admin       uint      `json:"event_admin" gorm:"column:event_admin;not null;index"`
	Title       string    `json:"event_title" gorm:"column:event_title;size:255;not null"`
	Location    string    `json:"event_location" gorm:"column:event_location;size:255"`
	Description string    `json:"event_description" gorm:"column:event_description;type:text"`
	StartDate   time.Time `json:"event_start_date" gorm:"column:event_start_date"`
	EndDate     time.Time `json:"event_end_date" gorm:"column:event_end_date"`
	Invited     int64     `json:"event_invited" gorm:"column:event_invited;not null;default:0"`
	Interested  int64     `json:"event_interested" gorm:"column:event_interested;not null;default:0"`
	Going       int64     `json:"event_going" gorm:"column:event_going;not null;default:0"`
	CreatedAt   time.Time `json:"event_date" gorm:"column:event_date;autoCreateTime"`
}

// TableName overrides the default table name.
func (Event) TableName() string {
	return "events"
}

// EventMember is the membership row keyed by (event, user).
type EventMember struct {
	ID           uint `json:"id" gorm:"column:id;primaryKey"`
	EventID      uint `json:"event_id" gorm:"column:event_id;not null;uniqueIndex:idx_event_user,priority:1"`
	UserID       uint `json:"user_id" gorm:"column:user_id;not null;uniqueIndex:idx_event_user,priority:2"`
	IsInvited    bool `json:"is_invited" gorm:"column:is_invited;not null;default:false"`
	IsInterested bool `json:"is_interested" gorm:"column:is_interested;not null;default:false"`
	IsGoing      bool `json:"is_going" gorm:"column:is_going;not null;default:false"`
}

// TableName overrides the default table name.
func (EventMember) TableName() string {
	return "events_members"
}

// EventCounters are the aggregate flag counts of an event.
type EventCounters struct {
	Invited    int64 `json:"invited"`
	Interested int64 `json:"interested"`
	Going      int64 `json:"going"`
}
