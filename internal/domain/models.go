package domain

import (
	"time"
)

// Role distinguishes patients from reviewing clinicians
type Role string

const (
	RolePatient Role = "patient"
	RoleAdmin   Role = "admin"
)

// User represents a telegram user in the system
type User struct {
	ID         uint
	CreatedAt  time.Time
	UpdatedAt  time.Time
	TelegramID int64
	Username   string
	FirstName  string
	LastName   string
	Role       Role
}

// DisplayName returns the best human readable name for reports
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.Username != "":
		return "@" + u.Username
	default:
		return "Patient"
	}
}

// IsAdmin reports whether the user reviews other users' reports
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Session is the caller identity passed explicitly to services
type Session struct {
	UserID uint
	Role   Role
}

// IsAdmin reports whether the session may review other users' data
func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// Answer is the yes/no reply to "did you do the activity today"
type Answer string

const (
	AnswerYes Answer = "Yes"
	AnswerNo  Answer = "No"
)

// Done reports whether the activity was performed
func (a Answer) Done() bool {
	return a == AnswerYes
}

// Valid reports whether a is one of the known answers
func (a Answer) Valid() bool {
	return a == AnswerYes || a == AnswerNo
}

// Duration buckets offered by the check-in form, shortest first
var (
	RelaxationDurations   = []string{"<5 min", "5-10 min", "10-20 min", ">20 min"}
	SoundTherapyDurations = []string{"<10 min", "10-30 min", "30-60 min", ">1 hour"}
)

// Level bounds for tinnitus and anxiety self ratings
const (
	MinLevel = 1
	MaxLevel = 10
)

// CheckIn is one user's self-report for a single calendar day
type CheckIn struct {
	UserID               uint
	Date                 string // "YYYY-MM-DD"
	RelaxationDone       Answer
	RelaxationDuration   string
	SoundTherapyDone     Answer
	SoundTherapyDuration string
	TinnitusLevel        *int // nil when skipped
	AnxietyLevel         *int // nil when skipped
}

// Level returns a pointer to v, for building check-ins in code
func Level(v int) *int {
	return &v
}
