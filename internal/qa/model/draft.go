package model

// QuestionDraft is the payload a composition view hands to the backend.
type QuestionDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}
