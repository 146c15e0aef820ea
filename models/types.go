package models

import "time"

// User roles
const (
	RoleAdmin  = "ADMIN"
	RoleMember = "MEMBER"
)

// Request types

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreatePollRequest struct {
	Question  string     `json:"question"`
	Options   []string   `json:"options"`
	PublishAt *time.Time `json:"publishAt,omitempty"`
}

// EditPollRequest uses pointers to distinguish "absent" from "zero value".
// Options, when present, replaces the entire option set (votes included).
type EditPollRequest struct {
	Question    *string    `json:"question,omitempty"`
	Options     []string   `json:"options,omitempty"`
	IsPublished *bool      `json:"isPublished,omitempty"`
	PublishAt   *time.Time `json:"publishAt,omitempty"`
}

type CastVoteRequest struct {
	OptionID string `json:"optionId"`
}

type UpdateOptionRequest struct {
	Text string `json:"text"`
}

// Response types

type AuthResponse struct {
	User  UserRef `json:"user"`
	Token string  `json:"token"`
}

type VoteResponse struct {
	PollID  string        `json:"pollId"`
	Results []OptionCount `json:"results"`
}

type ListPollsResponse struct {
	Total int           `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Polls []PollSummary `json:"polls"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}

// Domain types

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRef is the public shape of a user embedded in other payloads.
type UserRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

type Poll struct {
	ID          string     `json:"id"`
	Question    string     `json:"question"`
	IsPublished bool       `json:"isPublished"`
	IsClosed    bool       `json:"isClosed"`
	PublishAt   *time.Time `json:"publishAt,omitempty"`
	CreatorID   string     `json:"creatorId"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type Option struct {
	ID     string `json:"id"`
	PollID string `json:"pollId"`
	Text   string `json:"text"`
}

type Vote struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	PollID    string    `json:"pollId"`
	OptionID  string    `json:"optionId"`
	CreatedAt time.Time `json:"createdAt"`
}

// OptionCount is one entry of a result snapshot: an option and its live tally.
// A full snapshot is ordered by option id ascending with zero counts included.
type OptionCount struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// PollSummary is a poll with its creator and per-option counts, the shape
// returned by listing and detail endpoints.
type PollSummary struct {
	Poll
	Creator UserRef       `json:"creator"`
	Options []OptionCount `json:"options"`
}

// VoterEntry is one row of the admin voters listing.
type VoterEntry struct {
	ID        string    `json:"id"`
	User      UserRef   `json:"user"`
	Option    Option    `json:"option"`
	CreatedAt time.Time `json:"createdAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
