package model

import "time"

// Answer belongs to exactly one question.
type Answer struct {
	ID               int64      `json:"id"`
	QuestionID       int64      `json:"question_id"`
	Content          string     `json:"content"`
	Author           string     `json:"author"`
	AuthorReputation int        `json:"author_reputation"`
	CreatedAt        time.Time  `json:"created_at"`
	Votes            int        `json:"votes"`
	IsAccepted       bool       `json:"is_accepted"`
	EditedAt         *time.Time `json:"edited_at,omitempty"`
}

// Clone returns a copy that shares no pointers with a.
func (a Answer) Clone() Answer {
	out := a
	if a.EditedAt != nil {
		t := *a.EditedAt
		out.EditedAt = &t
	}
	return out
}
