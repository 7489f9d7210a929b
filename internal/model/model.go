package model

import "time"

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTeacher, RoleStudent:
		return true
	default:
		return false
	}
}

// ParseRole normalizes and validates a role string.
func ParseRole(value string) (Role, bool) {
	role := Role(value)
	return role, role.Valid()
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Phone        string
	Address      string

	// Teacher fields.
	Subject        string
	Qualifications []string
	Experience     int

	// Student fields.
	Class       string
	RollNo      string
	ParentName  string
	ParentPhone string

	IsActive  bool
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type VoicePayload struct {
	Data     string  `json:"data"`
	Duration float64 `json:"duration"`
}

type FilePayload struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
	Data string `json:"data"`
}

// ChatMessage is append-only: once stored it is never mutated or deleted.
type ChatMessage struct {
	ID        int           `json:"id"`
	Sender    string        `json:"sender"`
	Avatar    string        `json:"avatar,omitempty"`
	Text      string        `json:"text"`
	Voice     *VoicePayload `json:"voice,omitempty"`
	File      *FilePayload  `json:"file,omitempty"`
	Timestamp string        `json:"timestamp"`
	CreatedAt time.Time     `json:"createdAt"`
}

type ChatRoom struct {
	ID        string        `json:"id"`
	Messages  []ChatMessage `json:"messages"`
	CreatedAt time.Time     `json:"createdAt"`
}
