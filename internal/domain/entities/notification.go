package entities

import "encoding/json"

// FormatVersion is the only NotificationData layout this service understands.
const FormatVersion = 1

// Frequency is the recurrence rule attached to a notification. Its meaning
// (exact date or repeating interval) belongs to the dispatch service; it is
// stored as given.
type Frequency struct {
	Year  float64 `json:"year"`
	Month float64 `json:"month"`
	Day   float64 `json:"day"`
}

// Notification is one recurring reminder definition
type Notification struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Price     float64   `json:"price"`
	Currency  string    `json:"currency"`
	Start     string    `json:"start"`
	Frequency Frequency `json:"frequency"`
	Send      float64   `json:"send"`
}

// NotificationData is the complete per-identifier notification record.
// Notification IDs are expected to be unique but are not checked here.
//
// A record decoded from JSON remembers the document it came from and encodes
// back to it unchanged, members the typed fields do not know included.
type NotificationData struct {
	FormatVersion int            `json:"formatVersion"`
	Enabled       bool           `json:"enabled"`
	Notifications []Notification `json:"notifications"`

	raw json.RawMessage
}

type notificationDataFields NotificationData

// UnmarshalJSON decodes the typed fields and keeps a copy of data
func (d *NotificationData) UnmarshalJSON(data []byte) error {
	var fields notificationDataFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*d = NotificationData(fields)
	d.raw = append(json.RawMessage(nil), data...)
	return nil
}

// MarshalJSON returns the decoded document when there is one and encodes the
// typed fields otherwise
func (d NotificationData) MarshalJSON() ([]byte, error) {
	if len(d.raw) > 0 {
		return d.raw, nil
	}
	return json.Marshal(notificationDataFields(d))
}

// Fields returns a copy of d that encodes from its typed fields alone
func (d NotificationData) Fields() NotificationData {
	d.raw = nil
	return d
}

// EmptyNotificationData returns the shape served for identifiers with no
// stored record.
func EmptyNotificationData() NotificationData {
	return NotificationData{
		FormatVersion: FormatVersion,
		Enabled:       false,
		Notifications: []Notification{},
	}
}

// IsEmpty reports whether the record carries no notifications. Only the list
// length counts; Enabled is ignored.
func (d NotificationData) IsEmpty() bool {
	return len(d.Notifications) == 0
}
