package domain

import "time"

// Event is a calendar entry shared within a family.
// PK: event_id. GSI: family_id-index for per-family listing.
type Event struct {
	EventID       string     `json:"id" dynamodbav:"event_id"`
	FamilyID      string     `json:"family_id" dynamodbav:"family_id"`
	UserID        string     `json:"user_id" dynamodbav:"user_id"` // creator
	Title         string     `json:"title" dynamodbav:"title"`
	Description   string     `json:"description,omitempty" dynamodbav:"description"`
	Location      string     `json:"location,omitempty" dynamodbav:"location"`
	Latitude      *float64   `json:"latitude,omitempty" dynamodbav:"latitude"`
	Longitude     *float64   `json:"longitude,omitempty" dynamodbav:"longitude"`
	StartsAt      time.Time  `json:"starts_at" dynamodbav:"starts_at"`
	EndsAt        time.Time  `json:"ends_at" dynamodbav:"ends_at"`
	AllDay        bool       `json:"all_day" dynamodbav:"all_day"`
	Attendees     []Attendee `json:"attendees,omitempty" dynamodbav:"attendees"`
	Color         string     `json:"color,omitempty" dynamodbav:"color"`
	AttachmentKey string     `json:"attachment_key,omitempty" dynamodbav:"attachment_key"`
	Enable        bool       `json:"enable" dynamodbav:"enable"`
	CreatedAt     time.Time  `json:"created" dynamodbav:"created_at"`
	UpdatedAt     time.Time  `json:"updated" dynamodbav:"updated_at"`
}

// Attendee is a person invited to an event. Email or Phone (or both) may be
// set; reminders go out on whichever channels are present.
type Attendee struct {
	Name  string `json:"name" dynamodbav:"name"`
	Email string `json:"email,omitempty" dynamodbav:"email"`
	Phone string `json:"phone,omitempty" dynamodbav:"phone"`
}

type CreateEventRequest struct {
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Latitude    *float64   `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64   `json:"longitude" validate:"omitempty,min=-180,max=180"`
	StartsAt    time.Time  `json:"starts_at" validate:"required"`
	EndsAt      time.Time  `json:"ends_at"`
	AllDay      bool       `json:"all_day"`
	Attendees   []Attendee `json:"attendees" validate:"dive"`
	Color       string     `json:"color"`
	Remind      bool       `json:"remind"` // send invites to attendees on creation
}

type UpdateEventRequest struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	Latitude    *float64   `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude   *float64   `json:"longitude" validate:"omitempty,min=-180,max=180"`
	StartsAt    *time.Time `json:"starts_at"`
	EndsAt      *time.Time `json:"ends_at"`
	AllDay      *bool      `json:"all_day"`
	Attendees   []Attendee `json:"attendees" validate:"dive"`
	Color       *string    `json:"color"`
}
