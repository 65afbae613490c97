package service

import (
	"sort"
	"strings"
	"time"

	"qaboard/internal/qa/model"
	"qaboard/internal/qa/repository"
)

const popularTagLimit = 12

// ListingState is the mutable state of one listing view.
type ListingState struct {
	Query        string         `json:"query"`
	SelectedTags []string       `json:"selected_tags"`
	Sort         model.SortMode `json:"sort"`
}

// NewListingState returns the state a freshly opened listing starts with.
func NewListingState() ListingState {
	return ListingState{Sort: model.SortNewest}
}

func (s *ListingState) SetQuery(query string) {
	s.Query = query
}

// SetSort stores the normalized mode.
func (s *ListingState) SetSort(raw string) {
	s.Sort = model.NormalizeSort(raw)
}

// ToggleTag adds tag to the selection when absent and removes it when present.
func (s *ListingState) ToggleTag(tag string) {
	for i, held := range s.SelectedTags {
		if held == tag {
			s.SelectedTags = append(s.SelectedTags[:i:i], s.SelectedTags[i+1:]...)
			return
		}
	}
	s.SelectedTags = append(s.SelectedTags, tag)
}

func (s ListingState) IsSelected(tag string) bool {
	for _, held := range s.SelectedTags {
		if held == tag {
			return true
		}
	}
	return false
}

// FilterQuestions keeps questions whose title or description contains query
// (case-insensitive) and, when selected is non-empty, that carry a selected tag.
func FilterQuestions(questions []model.Question, query string, selected []string) []model.Question {
	needle := strings.ToLower(query)
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		if needle != "" &&
			!strings.Contains(strings.ToLower(q.Title), needle) &&
			!strings.Contains(strings.ToLower(q.Description), needle) {
			continue
		}
		if len(selected) > 0 && !q.HasAnyTag(selected) {
			continue
		}
		out = append(out, q)
	}
	return out
}

// SortQuestions returns a sorted copy; the input is left untouched.
func SortQuestions(questions []model.Question, mode model.SortMode) []model.Question {
	out := append([]model.Question(nil), questions...)
	var less func(a, b model.Question) bool
	switch model.NormalizeSort(string(mode)) {
	case model.SortVotes:
		less = func(a, b model.Question) bool { return a.Votes > b.Votes }
	case model.SortAnswers:
		less = func(a, b model.Question) bool { return a.Answers > b.Answers }
	case model.SortViews:
		less = func(a, b model.Question) bool { return a.Views > b.Views }
	case model.SortUnanswered:
		less = func(a, b model.Question) bool { return a.Answers < b.Answers }
	default:
		less = func(a, b model.Question) bool { return a.CreatedAt.After(b.CreatedAt) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// QuestionCard is a question rendered for a list.
type QuestionCard struct {
	model.Question
	CreatedLabel string `json:"created_label"`
}

// TagChip is one entry of the popular tag bar.
type TagChip struct {
	Name     string `json:"name"`
	Selected bool   `json:"selected"`
}

// CommunityStats summarizes the dataset.
type CommunityStats struct {
	Questions int `json:"questions"`
	Answers   int `json:"answers"`
	Users     int `json:"users"`
}

// ListingPage is a rendered listing view.
type ListingPage struct {
	ViewID           string         `json:"view_id,omitempty"`
	Query            string         `json:"query"`
	SelectedTags     []string       `json:"selected_tags"`
	Sort             model.SortMode `json:"sort"`
	Questions        []QuestionCard `json:"questions"`
	Total            int            `json:"total"`
	PopularTags      []TagChip      `json:"popular_tags"`
	FeaturedBounties []QuestionCard `json:"featured_bounties"`
	Stats            CommunityStats `json:"stats"`
}

// RenderListing derives the page for state from the data store.
func RenderListing(repo repository.QuestionRepository, state ListingState, now time.Time) ListingPage {
	all := repo.ListQuestions()
	visible := SortQuestions(FilterQuestions(all, state.Query, state.SelectedTags), state.Sort)

	page := ListingPage{
		Query:        state.Query,
		SelectedTags: append([]string{}, state.SelectedTags...),
		Sort:         model.NormalizeSort(string(state.Sort)),
		Questions:    cards(visible, now),
		Total:        len(visible),
		Stats: CommunityStats{
			Questions: len(all),
			Answers:   repo.AnswerTotal(),
			Users:     len(repo.ListUsers()),
		},
	}

	popular := repo.PopularTags()
	if len(popular) > popularTagLimit {
		popular = popular[:popularTagLimit]
	}
	page.PopularTags = make([]TagChip, 0, len(popular))
	for _, tag := range popular {
		page.PopularTags = append(page.PopularTags, TagChip{Name: tag, Selected: state.IsSelected(tag)})
	}

	var bounties []model.Question
	for _, q := range all {
		if q.Bounty != nil {
			bounties = append(bounties, q)
		}
	}
	sort.SliceStable(bounties, func(i, j int) bool { return *bounties[i].Bounty > *bounties[j].Bounty })
	page.FeaturedBounties = cards(bounties, now)

	return page
}

func cards(questions []model.Question, now time.Time) []QuestionCard {
	out := make([]QuestionCard, 0, len(questions))
	for _, q := range questions {
		out = append(out, QuestionCard{Question: q, CreatedLabel: model.RelativeLabel(q.CreatedAt, now)})
	}
	return out
}
