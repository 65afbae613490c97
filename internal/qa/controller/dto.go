package controller

import "qaboard/internal/qa/service"

// SetQueryRequest replaces the listing search text.
type SetQueryRequest struct {
	Query string `json:"query"`
}

// SetSortRequest selects a sort mode. Unknown modes fall back to newest.
type SetSortRequest struct {
	Sort string `json:"sort"`
}

type TagRequest struct {
	Tag string `json:"tag"`
}

type VoteRequest struct {
	Direction string `json:"direction" binding:"required"`
}

type DraftRequest struct {
	Content string `json:"content"`
}

// SubmitAnswerRequest overrides the stored draft when Content is set.
type SubmitAnswerRequest struct {
	Content *string `json:"content"`
}

// UpdateComposeRequest sets the fields present in the body.
type UpdateComposeRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type AddTagResponse struct {
	service.ComposePage
	Added bool `json:"added"`
}

type RemoveTagResponse struct {
	service.ComposePage
	Removed bool `json:"removed"`
}

type TagsResponse struct {
	Tags []string `json:"tags"`
}
