package model

import "time"

// User is a community member. Authors elsewhere reference users by Username only.
type User struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Reputation  int       `json:"reputation"`
	JoinedDate  time.Time `json:"joined_date"`
	Location    string    `json:"location,omitempty"`
	Bio         string    `json:"bio,omitempty"`
}

// Viewer is the identity the current session writes answers as.
type Viewer struct {
	Username   string `json:"username" yaml:"username"`
	Reputation int    `json:"reputation" yaml:"reputation"`
}
