package model

import (
	"encoding/json"
	"strings"
	"time"

	"telegram-profile-bridge/internal/domain"
)

// MaxNotifications bounds the activity log kept on a profile.
const MaxNotifications = 50

// Profile is the per-user record: identity, accumulated progress and the
// most recent notifications. Profiles only live in memory.
type Profile struct {
	ID        UserID    `json:"id"`
	Name      string    `json:"name"`
	Username  string    `json:"username,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`

	Score     int64 `json:"score"`
	Level     int64 `json:"level"`
	TotalTime int64 `json:"totalTime"`

	Notifications []Notification `json:"notifications"`
}

// Identity is what the Telegram login callback tells us about a user.
type Identity struct {
	FirstName string
	LastName  string
	Username  string
	Avatar    string
}

// DisplayName joins first and last name, absent parts count as empty.
func (i Identity) DisplayName() string {
	return strings.TrimSpace(i.FirstName + " " + i.LastName)
}

// Progress carries accumulator deltas. Nil fields were not sent by the client.
type Progress struct {
	Score *int64 `json:"score"`
	Level *int64 `json:"level"`
	Time  *int64 `json:"time"`
}

// Notification is an activity-log entry embedded in a profile.
type Notification struct {
	Message      string          `json:"message"`
	ActivityType string          `json:"activityType"`
	Timestamp    time.Time       `json:"timestamp"`
	Metadata     json.RawMessage `json:"metadata,omitempty"`
}

func NewProfile(id UserID, ident Identity, now time.Time) (*Profile, error) {
	if id.IsZero() {
		return nil, domain.ErrInvalidArgument
	}
	p := &Profile{
		ID:            id,
		Level:         1,
		Notifications: []Notification{},
	}
	p.ApplyIdentity(ident, now)
	return p, nil
}

// ApplyIdentity overwrites the identity fields. Accumulators and the
// notification history are left untouched.
func (p *Profile) ApplyIdentity(ident Identity, now time.Time) {
	p.Name = ident.DisplayName()
	p.Username = ident.Username
	p.Avatar = ident.Avatar
	p.UpdatedAt = now
}

// ApplyProgress adds score and time deltas and raises the level.
// Negative deltas are applied as sent.
func (p *Profile) ApplyProgress(in Progress) {
	if in.Score != nil {
		p.Score += *in.Score
	}
	if in.Time != nil {
		p.TotalTime += *in.Time
	}
	level := int64(1)
	if in.Level != nil && *in.Level != 0 {
		level = *in.Level
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if level > p.Level {
		p.Level = level
	}
}

// AppendNotification records n and evicts the oldest entries beyond MaxNotifications.
func (p *Profile) AppendNotification(n Notification) {
	p.Notifications = append(p.Notifications, n)
	if over := len(p.Notifications) - MaxNotifications; over > 0 {
		kept := make([]Notification, MaxNotifications)
		copy(kept, p.Notifications[over:])
		p.Notifications = kept
	}
}

// Clone returns a deep copy safe to hand out of a store.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Notifications = make([]Notification, len(p.Notifications))
	for i, n := range p.Notifications {
		if n.Metadata != nil {
			n.Metadata = append(json.RawMessage(nil), n.Metadata...)
		}
		cp.Notifications[i] = n
	}
	return &cp
}
