package model

import "time"

// Task is a Simpro task. Its subject doubles as the business key used to
// detect an already-created task.
type Task struct {
	ID           string    `json:"id,omitempty"`
	Subject      string    `json:"subject"`
	Description  string    `json:"description,omitempty"`
	DueDate      time.Time `json:"due_date"`
	AssignedToID int       `json:"assigned_to_id,omitempty"`
}

// TaskRef identifies a created task and the endpoint that accepted it.
type TaskRef struct {
	ID       string `json:"id"`
	Endpoint string `json:"endpoint,omitempty"`
}

// Note is a job note. Automation notes embed a marker token.
type Note struct {
	ID   string `json:"id,omitempty"`
	Body string `json:"body"`
}

// Tag is a Simpro job tag.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name,omitempty"`
}
