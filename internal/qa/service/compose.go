package service

import (
	"strings"

	"qaboard/internal/qa/model"
)

const (
	// MaxDraftTags caps the tags a new question may carry.
	MaxDraftTags      = 5
	suggestedTagLimit = 8
)

var suggestedTagPool = []string{
	"React", "JavaScript", "TypeScript", "Node.js", "CSS",
	"HTML", "Python", "Java", "C++", "Database",
}

// ComposeState is the draft held by one composition view.
type ComposeState struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (s *ComposeState) SetTitle(title string) {
	s.Title = title
}

func (s *ComposeState) SetDescription(description string) {
	s.Description = description
}

// AddTag appends the trimmed tag. Empty, duplicate or overflow tags are
// ignored and reported as false.
func (s *ComposeState) AddTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	if tag == "" || len(s.Tags) >= MaxDraftTags || s.hasTag(tag) {
		return false
	}
	s.Tags = append(s.Tags, tag)
	return true
}

// RemoveTag drops an exact match.
func (s *ComposeState) RemoveTag(tag string) bool {
	for i, held := range s.Tags {
		if held == tag {
			s.Tags = append(s.Tags[:i:i], s.Tags[i+1:]...)
			return true
		}
	}
	return false
}

// SuggestedTags lists pool tags not yet held, at most eight.
func (s ComposeState) SuggestedTags() []string {
	out := make([]string, 0, suggestedTagLimit)
	for _, tag := range suggestedTagPool {
		if s.hasTag(tag) {
			continue
		}
		out = append(out, tag)
		if len(out) == suggestedTagLimit {
			break
		}
	}
	return out
}

// CanSubmit requires a title, a description and at least one tag.
func (s ComposeState) CanSubmit() bool {
	return strings.TrimSpace(s.Title) != "" &&
		strings.TrimSpace(s.Description) != "" &&
		len(s.Tags) > 0
}

// Draft returns the payload a submit hands over.
func (s ComposeState) Draft() model.QuestionDraft {
	return model.QuestionDraft{
		Title:       strings.TrimSpace(s.Title),
		Description: strings.TrimSpace(s.Description),
		Tags:        append([]string{}, s.Tags...),
	}
}

func (s ComposeState) hasTag(tag string) bool {
	for _, held := range s.Tags {
		if held == tag {
			return true
		}
	}
	return false
}

// ComposePage is a rendered composition view.
type ComposePage struct {
	ViewID        string   `json:"view_id,omitempty"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	MaxTags       int      `json:"max_tags"`
	SuggestedTags []string `json:"suggested_tags"`
	CanSubmit     bool     `json:"can_submit"`
}

func RenderCompose(state ComposeState) ComposePage {
	return ComposePage{
		Title:         state.Title,
		Description:   state.Description,
		Tags:          append([]string{}, state.Tags...),
		MaxTags:       MaxDraftTags,
		SuggestedTags: state.SuggestedTags(),
		CanSubmit:     state.CanSubmit(),
	}
}
