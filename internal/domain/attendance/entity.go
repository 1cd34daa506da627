package attendance

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusOnLeave Status = "on_leave"
	StatusHalfDay Status = "half_day"
)

// Session is one check-in/check-out cycle. CheckOut stays nil while the
// session is open.
type Session struct {
	CheckIn  time.Time  `json:"check_in"`
	CheckOut *time.Time `json:"check_out"`
}

// Sessions is stored as a JSONB column.
type Sessions []Session

// Value implements driver.Valuer for database storage
func (s Sessions) Value() (driver.Value, error) {
	if s == nil {
		return json.Marshal(Sessions{})
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for database retrieval
func (s *Sessions) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return errors.New("failed to scan Sessions: invalid type")
	}

	return json.Unmarshal(bytes, s)
}

// Attendance - one row per employee per calendar day. Date carries no time
// component. CheckIn/CheckOut denormalize the first check-in and most recent
// check-out for quick display; WorkingHours is the 2-decimal sum of closed
// sessions.
type Attendance struct {
	ID                 string
	EmployeeID         string
	CompanyID          string
	Date               time.Time
	Status             Status
	CurrentlyCheckedIn bool
	Sessions           Sessions
	CheckIn            *time.Time
	CheckOut           *time.Time
	WorkingHours       decimal.Decimal
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
