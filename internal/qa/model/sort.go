package model

// SortMode selects the listing order.
type SortMode string

const (
	SortNewest     SortMode = "newest"
	SortVotes      SortMode = "votes"
	SortAnswers    SortMode = "answers"
	SortViews      SortMode = "views"
	SortUnanswered SortMode = "unanswered"
)

// NormalizeSort maps unknown or empty modes to SortNewest.
func NormalizeSort(raw string) SortMode {
	switch mode := SortMode(raw); mode {
	case SortVotes, SortAnswers, SortViews, SortUnanswered, SortNewest:
		return mode
	}
	return SortNewest
}
