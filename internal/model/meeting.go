package model

import "time"

// Meeting はバックエンドが返すミーティングを表す。
type Meeting struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MeetingCreate はPOST /meetings のリクエストボディを表す。
type MeetingCreate struct {
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Location    *string   `json:"location,omitempty"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
}

// MeetingUpdate はPUT /meetings/{id} のリクエストボディを表す。
type MeetingUpdate struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Location    *string    `json:"location,omitempty"`
	StartTime   *time.Time `json:"start_time,omitempty"`
	EndTime     *time.Time `json:"end_time,omitempty"`
}
