package service

import (
	"testing"
	"time"

	"qaboard/internal/qa/model"
	pkgerrors "qaboard/pkg/errors"
)

func openDetail(t *testing.T, id int64) DetailState {
	t.Helper()
	state, err := NewDetailState(loadDataset(t), id)
	if err != nil {
		t.Fatalf("open detail %d failed: %v", id, err)
	}
	return state
}

func TestNewDetailStateMiss(t *testing.T) {
	_, err := NewDetailState(loadDataset(t), 404)
	if !pkgerrors.Is(err, pkgerrors.QuestionNotFound) {
		t.Fatalf("expected QuestionNotFound, got %v", err)
	}
}

func TestVoteQuestionOncePerView(t *testing.T) {
	state := openDetail(t, 1)
	if state.Question.Votes != 24 {
		t.Fatalf("votes = %d, want 24", state.Question.Votes)
	}

	if err := state.VoteQuestion(true, model.Up); err != nil {
		t.Fatalf("first vote failed: %v", err)
	}
	if state.Question.Votes != 25 || !state.HasVoted {
		t.Fatalf("after vote: votes=%d voted=%v", state.Question.Votes, state.HasVoted)
	}

	err := state.VoteQuestion(true, model.Up)
	if !pkgerrors.Is(err, pkgerrors.AlreadyVoted) {
		t.Fatalf("expected AlreadyVoted, got %v", err)
	}
	if err := state.VoteQuestion(true, model.Down); !pkgerrors.Is(err, pkgerrors.AlreadyVoted) {
		t.Fatalf("opposite direction must also be refused, got %v", err)
	}
	if state.Question.Votes != 25 {
		t.Fatalf("votes changed after refused vote: %d", state.Question.Votes)
	}
}

func TestVoteQuestionWithoutCredential(t *testing.T) {
	state := openDetail(t, 1)
	err := state.VoteQuestion(false, model.Down)
	if !pkgerrors.Is(err, pkgerrors.CredentialRequired) {
		t.Fatalf("expected CredentialRequired, got %v", err)
	}
	if state.Question.Votes != 24 || state.HasVoted {
		t.Fatalf("state changed: votes=%d voted=%v", state.Question.Votes, state.HasVoted)
	}
}

func TestDownvoteMayGoNegative(t *testing.T) {
	state := DetailState{Question: model.Question{ID: 9, Votes: 0}}
	if err := state.VoteQuestion(true, model.Down); err != nil {
		t.Fatalf("vote failed: %v", err)
	}
	if state.Question.Votes != -1 {
		t.Fatalf("votes = %d, want -1", state.Question.Votes)
	}
}

func TestVoteAnswerIsUnrestricted(t *testing.T) {
	state := openDetail(t, 1)
	for i := 0; i < 3; i++ {
		if err := state.VoteAnswer(2, model.Up); err != nil {
			t.Fatalf("vote %d failed: %v", i, err)
		}
	}
	if err := state.VoteAnswer(2, model.Down); err != nil {
		t.Fatalf("down vote failed: %v", err)
	}
	if state.Answers[1].Votes != 25 {
		t.Fatalf("answer votes = %d, want 25", state.Answers[1].Votes)
	}
	if err := state.VoteAnswer(99, model.Up); !pkgerrors.Is(err, pkgerrors.AnswerNotFound) {
		t.Fatalf("expected AnswerNotFound, got %v", err)
	}
}

func TestAcceptAnswerIsExclusive(t *testing.T) {
	state := openDetail(t, 1)
	if !state.Answers[0].IsAccepted {
		t.Fatal("fixture answer 1 should start accepted")
	}

	if err := state.AcceptAnswer(2); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if state.AcceptedCount() != 1 || !state.Answers[1].IsAccepted || state.Answers[0].IsAccepted {
		t.Fatalf("unexpected acceptance: %+v", state.Answers)
	}

	if err := state.AcceptAnswer(77); !pkgerrors.Is(err, pkgerrors.AnswerNotFound) {
		t.Fatalf("expected AnswerNotFound, got %v", err)
	}
	if !state.Answers[1].IsAccepted {
		t.Fatal("failed accept must leave state unchanged")
	}
}

func TestSubmitAnswer(t *testing.T) {
	state := openDetail(t, 2)
	viewer := model.Viewer{Username: "alex_frontend", Reputation: 12340}
	state.SetDraft("draft text")

	if _, err := state.SubmitAnswer("   \n\t", viewer, testNow); !pkgerrors.Is(err, pkgerrors.AnswerContentEmpty) {
		t.Fatalf("expected AnswerContentEmpty, got %v", err)
	}
	if len(state.Answers) != 0 || state.Draft != "draft text" {
		t.Fatal("rejected submit must not change state")
	}

	first, err := state.SubmitAnswer("  Use Zustand.  ", viewer, testNow)
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if first.ID != testNow.UnixMilli() || first.Content != "Use Zustand." || first.Author != "alex_frontend" {
		t.Fatalf("unexpected answer: %+v", first)
	}
	if first.Votes != 0 || first.IsAccepted || first.QuestionID != 2 {
		t.Fatalf("new answers start neutral: %+v", first)
	}
	if state.Draft != "" {
		t.Fatalf("draft not cleared: %q", state.Draft)
	}

	// A double submit in the same millisecond still yields a distinct id.
	second, err := state.SubmitAnswer("Use Jotai.", viewer, testNow)
	if err != nil {
		t.Fatalf("second submit failed: %v", err)
	}
	if second.ID != first.ID+1 || len(state.Answers) != 2 {
		t.Fatalf("second id = %d, answers = %d", second.ID, len(state.Answers))
	}
}

func TestRenderDetailLabels(t *testing.T) {
	state := openDetail(t, 1)
	edited := testNow.Add(-10 * time.Minute)
	state.Answers[1].EditedAt = &edited
	state.SetDraft(" ")

	page := RenderDetail(state, testNow)
	if page.Question.CreatedLabel != "3 hours ago" {
		t.Fatalf("question label = %q", page.Question.CreatedLabel)
	}
	if page.Answers[0].CreatedLabel != "2 hours ago" || page.Answers[1].EditedLabel != "10 minutes ago" {
		t.Fatalf("answer labels = %q / %q", page.Answers[0].CreatedLabel, page.Answers[1].EditedLabel)
	}
	if page.AnswerCount != 2 || page.CanSubmit {
		t.Fatalf("count=%d canSubmit=%v", page.AnswerCount, page.CanSubmit)
	}
}
