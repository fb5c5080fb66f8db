package models

import (
	"encoding/json"
	"strings"
	"time"
)

// DateTimeFormat is how task due dates travel over the wire.
const DateTimeFormat = "2006-01-02T15:04:05"

// DateTime marshals as DateTimeFormat instead of RFC3339.
type DateTime time.Time

func (d DateTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(d).Format(DateTimeFormat))
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := time.Parse(DateTimeFormat, s)
	if err != nil {
		return err
	}
	*d = DateTime(t)
	return nil
}

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Task struct {
	ID        int       `json:"id"`
	UserID    int       `json:"-"`
	Task      string    `json:"task"`
	Date      DateTime  `json:"date"`
	Priority  string    `json:"priority"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// PriorityRank orders priorities for task listing. Unknown priorities
// sort last.
func PriorityRank(priority string) int {
	switch strings.ToLower(priority) {
	case "urgent":
		return 1
	case "high":
		return 2
	case "medium":
		return 3
	case "low":
		return 4
	default:
		return 99
	}
}
