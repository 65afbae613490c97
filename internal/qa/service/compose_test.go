package service

import (
	"reflect"
	"testing"
)

func TestAddTagRules(t *testing.T) {
	var s ComposeState
	cases := []struct {
		tag  string
		want bool
	}{
		{"React", true},
		{"  ", false},
		{"React", false},
		{" react ", true},
		{"Go", true},
		{"Redis", true},
		{"Kafka", true},
		{"Sixth", false},
	}
	for _, tc := range cases {
		if got := s.AddTag(tc.tag); got != tc.want {
			t.Fatalf("AddTag(%q) = %v, want %v (tags %v)", tc.tag, got, tc.want, s.Tags)
		}
	}
	want := []string{"React", "react", "Go", "Redis", "Kafka"}
	if !reflect.DeepEqual(s.Tags, want) {
		t.Fatalf("tags = %v, want %v", s.Tags, want)
	}
}

func TestSixthTagIsRejected(t *testing.T) {
	s := ComposeState{Tags: []string{"a", "b", "c", "d", "e"}}
	if s.AddTag("f") {
		t.Fatal("sixth tag accepted")
	}
	if len(s.Tags) != MaxDraftTags {
		t.Fatalf("tags = %d, want %d", len(s.Tags), MaxDraftTags)
	}
}

func TestRemoveTag(t *testing.T) {
	s := ComposeState{Tags: []string{"React", "CSS"}}
	if !s.RemoveTag("React") {
		t.Fatal("expected removal")
	}
	if s.RemoveTag("react") {
		t.Fatal("removal must be exact")
	}
	if !reflect.DeepEqual(s.Tags, []string{"CSS"}) {
		t.Fatalf("tags = %v", s.Tags)
	}
}

func TestSuggestedTags(t *testing.T) {
	var s ComposeState
	want := []string{"React", "JavaScript", "TypeScript", "Node.js", "CSS", "HTML", "Python", "Java"}
	if got := s.SuggestedTags(); !reflect.DeepEqual(got, want) {
		t.Fatalf("suggested = %v", got)
	}

	s.Tags = []string{"React", "CSS", "Go"}
	want = []string{"JavaScript", "TypeScript", "Node.js", "HTML", "Python", "Java", "C++", "Database"}
	if got := s.SuggestedTags(); !reflect.DeepEqual(got, want) {
		t.Fatalf("suggested = %v", got)
	}
}

func TestCanSubmit(t *testing.T) {
	cases := []struct {
		name  string
		state ComposeState
		want  bool
	}{
		{"empty", ComposeState{}, false},
		{"blank title", ComposeState{Title: " ", Description: "d", Tags: []string{"x"}}, false},
		{"no tags", ComposeState{Title: "t", Description: "d"}, false},
		{"blank description", ComposeState{Title: "t", Description: "\n", Tags: []string{"x"}}, false},
		{"complete", ComposeState{Title: "t", Description: "d", Tags: []string{"x"}}, true},
	}
	for _, tc := range cases {
		if got := tc.state.CanSubmit(); got != tc.want {
			t.Errorf("%s: CanSubmit = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestDraftIsTrimmedCopy(t *testing.T) {
	s := ComposeState{Title: "  Title ", Description: " Body ", Tags: []string{"Go"}}
	d := s.Draft()
	if d.Title != "Title" || d.Description != "Body" {
		t.Fatalf("draft = %+v", d)
	}
	d.Tags[0] = "Rust"
	if s.Tags[0] != "Go" {
		t.Fatal("draft tags alias state")
	}
}
