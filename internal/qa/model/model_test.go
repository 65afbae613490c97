package model

import (
	"testing"
	"time"
)

func TestRelativeLabel(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		age  time.Duration
		want string
	}{
		{0, "just now"},
		{-5 * time.Minute, "just now"},
		{3 * time.Hour, "3 hours ago"},
		{24 * time.Hour, "1 day ago"},
		{48 * time.Hour, "2 days ago"},
		{7 * 24 * time.Hour, "1 week ago"},
	}
	for _, tc := range cases {
		if got := RelativeLabel(now.Add(-tc.age), now); got != tc.want {
			t.Errorf("RelativeLabel(%s) = %q, want %q", tc.age, got, tc.want)
		}
	}
}

func TestParseDirection(t *testing.T) {
	if d, err := ParseDirection("up"); err != nil || d.Delta() != 1 {
		t.Fatalf("unexpected up: %v %v", d, err)
	}
	if d, err := ParseDirection("down"); err != nil || d.Delta() != -1 {
		t.Fatalf("unexpected down: %v %v", d, err)
	}
	if _, err := ParseDirection("sideways"); err == nil {
		t.Fatal("expected error for unknown direction")
	}
}

func TestNormalizeSort(t *testing.T) {
	cases := map[string]SortMode{
		"":           SortNewest,
		"votes":      SortVotes,
		"views":      SortViews,
		"unanswered": SortUnanswered,
		"VOTES":      SortNewest,
		"bogus":      SortNewest,
	}
	for raw, want := range cases {
		if got := NormalizeSort(raw); got != want {
			t.Errorf("NormalizeSort(%q) = %q, want %q", raw, got, want)
		}
	}
}

func TestQuestionTagsAndClone(t *testing.T) {
	bounty := 150
	q := Question{ID: 1, Tags: []string{"React", "JWT"}, Bounty: &bounty}
	if !q.HasAnyTag([]string{"Docker", "JWT"}) {
		t.Fatal("expected tag intersection")
	}
	if q.HasAnyTag([]string{"react"}) {
		t.Fatal("tag match must be exact")
	}
	if q.HasAnyTag(nil) {
		t.Fatal("empty selection intersects nothing")
	}

	c := q.Clone()
	c.Tags[0] = "Vue"
	*c.Bounty = 0
	if q.Tags[0] != "React" || *q.Bounty != 150 {
		t.Fatal("clone must not share state with the original")
	}
}
