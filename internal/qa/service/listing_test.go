package service

import (
	"sort"
	"testing"

	"qaboard/internal/qa/model"
)

func TestEmptyFilterReturnsEverySortedQuestion(t *testing.T) {
	ds := loadDataset(t)
	all := ds.ListQuestions()

	cases := []struct {
		mode model.SortMode
		want []int64
	}{
		{model.SortNewest, []int64{1, 2, 3, 4, 5, 6}},
		{model.SortVotes, []int64{4, 3, 1, 5, 2, 6}},
		{model.SortAnswers, []int64{4, 2, 6, 5, 1, 3}},
		{model.SortViews, []int64{4, 3, 5, 2, 6, 1}},
		{model.SortUnanswered, []int64{3, 1, 5, 6, 2, 4}},
		{"bogus", []int64{1, 2, 3, 4, 5, 6}},
	}
	for _, tc := range cases {
		t.Run(string(tc.mode), func(t *testing.T) {
			got := questionIDs(SortQuestions(FilterQuestions(all, "", nil), tc.mode))
			if !equalIDs(got, tc.want) {
				t.Fatalf("order = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestSortIsPermutation(t *testing.T) {
	ds := loadDataset(t)
	filtered := FilterQuestions(ds.ListQuestions(), "", []string{"React"})
	before := questionIDs(filtered)
	sort.Slice(before, func(i, j int) bool { return before[i] < before[j] })

	for _, mode := range []model.SortMode{model.SortNewest, model.SortVotes, model.SortAnswers, model.SortViews, model.SortUnanswered} {
		after := questionIDs(SortQuestions(filtered, mode))
		sort.Slice(after, func(i, j int) bool { return after[i] < after[j] })
		if !equalIDs(before, after) {
			t.Fatalf("mode %s changed membership: %v vs %v", mode, before, after)
		}
	}
	if got := questionIDs(filtered); !equalIDs(got, []int64{1, 2, 5, 6}) {
		t.Fatalf("sorting must not reorder its input, got %v", got)
	}
}

func TestVotesThenUnansweredOrderAnswersOppositely(t *testing.T) {
	ds := loadDataset(t)
	q3, _ := ds.GetQuestion(3) // 5 answers
	q4, _ := ds.GetQuestion(4) // 23 answers
	pair := []model.Question{q3, q4}

	byVotes := SortQuestions(pair, model.SortVotes)
	byUnanswered := SortQuestions(pair, model.SortUnanswered)
	if byVotes[0].Answers != 23 || byVotes[1].Answers != 5 {
		t.Fatalf("votes order answers = %d,%d", byVotes[0].Answers, byVotes[1].Answers)
	}
	if byUnanswered[0].Answers != 5 || byUnanswered[1].Answers != 23 {
		t.Fatalf("unanswered order answers = %d,%d", byUnanswered[0].Answers, byUnanswered[1].Answers)
	}
}

func TestFilterQuestions(t *testing.T) {
	ds := loadDataset(t)
	all := ds.ListQuestions()

	cases := []struct {
		name  string
		query string
		tags  []string
		want  []int64
	}{
		{name: "title match is case-insensitive", query: "DOCKER", want: []int64{5}},
		{name: "description match", query: "localstorage", want: []int64{1}},
		{name: "tag intersection", tags: []string{"Security"}, want: []int64{1, 5}},
		{name: "query and tag are and-ed", query: "jwt", tags: []string{"Security"}, want: []int64{1}},
		{name: "no overlap", query: "jwt", tags: []string{"Docker"}, want: []int64{}},
		{name: "tag match is exact", tags: []string{"react"}, want: []int64{}},
		{name: "any selected tag", tags: []string{"GraphQL", "Docker"}, want: []int64{4, 5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := questionIDs(FilterQuestions(all, tc.query, tc.tags))
			if !equalIDs(got, tc.want) {
				t.Fatalf("filter = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestToggleTagTwiceRestoresSelection(t *testing.T) {
	state := NewListingState()
	state.ToggleTag("React")
	before := append([]string(nil), state.SelectedTags...)

	state.ToggleTag("Docker")
	if !state.IsSelected("Docker") {
		t.Fatal("expected Docker selected")
	}
	state.ToggleTag("Docker")
	if len(state.SelectedTags) != len(before) || state.SelectedTags[0] != before[0] {
		t.Fatalf("selection = %v, want %v", state.SelectedTags, before)
	}
}

func TestToggleTagDoesNotAliasPreviousSlice(t *testing.T) {
	state := ListingState{SelectedTags: []string{"A", "B", "C"}}
	prev := state.SelectedTags
	state.ToggleTag("A")
	if prev[0] != "A" || prev[1] != "B" {
		t.Fatalf("removal rewrote the previous backing array: %v", prev)
	}
}

func TestSetSortNormalizes(t *testing.T) {
	state := NewListingState()
	state.SetSort("votes")
	if state.Sort != model.SortVotes {
		t.Fatalf("sort = %s", state.Sort)
	}
	state.SetSort("most-liked")
	if state.Sort != model.SortNewest {
		t.Fatalf("unknown sort should fall back to newest, got %s", state.Sort)
	}
}

func TestRenderListing(t *testing.T) {
	ds := loadDataset(t)
	state := NewListingState()
	state.ToggleTag("Authentication")

	page := RenderListing(ds, state, testNow)
	if page.Total != 1 || page.Questions[0].ID != 1 {
		t.Fatalf("unexpected questions: %v", cardIDs(page.Questions))
	}
	if page.Questions[0].CreatedLabel != "3 hours ago" {
		t.Fatalf("label = %q", page.Questions[0].CreatedLabel)
	}
	if len(page.PopularTags) != popularTagLimit {
		t.Fatalf("popular tags = %d", len(page.PopularTags))
	}
	var selected []string
	for _, chip := range page.PopularTags {
		if chip.Selected {
			selected = append(selected, chip.Name)
		}
	}
	if len(selected) != 1 || selected[0] != "Authentication" {
		t.Fatalf("selected chips = %v", selected)
	}
	if len(page.FeaturedBounties) != 1 || page.FeaturedBounties[0].ID != 1 {
		t.Fatalf("bounties = %v", cardIDs(page.FeaturedBounties))
	}
	if page.Stats != (CommunityStats{Questions: 6, Answers: 2, Users: 5}) {
		t.Fatalf("stats = %+v", page.Stats)
	}
}
