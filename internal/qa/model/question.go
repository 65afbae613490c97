package model

import "time"

// Question is a dataset entry. The data store never mutates it.
type Question struct {
	ID               int64     `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	Author           string    `json:"author"`
	AuthorReputation int       `json:"author_reputation"`
	CreatedAt        time.Time `json:"created_at"`
	Tags             []string  `json:"tags"`
	Votes            int       `json:"votes"`
	Answers          int       `json:"answers"`
	Views            int       `json:"views"`
	IsAnswered       bool      `json:"is_answered"`
	Bounty           *int      `json:"bounty,omitempty"`
}

// HasAnyTag reports whether the question carries at least one of tags.
func (q Question) HasAnyTag(tags []string) bool {
	for _, own := range q.Tags {
		for _, want := range tags {
			if own == want {
				return true
			}
		}
	}
	return false
}

// Clone returns a copy that shares no slices or pointers with q.
func (q Question) Clone() Question {
	out := q
	out.Tags = append([]string(nil), q.Tags...)
	if q.Bounty != nil {
		b := *q.Bounty
		out.Bounty = &b
	}
	return out
}
