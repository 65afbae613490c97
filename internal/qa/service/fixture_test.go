package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"qaboard/internal/qa/auth"
	"qaboard/internal/qa/model"
	"qaboard/internal/qa/repository"
	"qaboard/internal/qa/viewstore"
)

var testNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func loadDataset(t *testing.T) *repository.Dataset {
	t.Helper()
	ds, err := repository.LoadDefault(testNow)
	if err != nil {
		t.Fatalf("load dataset failed: %v", err)
	}
	return ds
}

func questionIDs(qs []model.Question) []int64 {
	out := make([]int64, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}

func cardIDs(cards []QuestionCard) []int64 {
	out := make([]int64, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

type recordingSubmitter struct {
	calls []model.QuestionDraft
	views []string
	err   error
}

func (r *recordingSubmitter) SubmitDraft(_ context.Context, viewID string, draft model.QuestionDraft) error {
	r.calls = append(r.calls, draft)
	r.views = append(r.views, viewID)
	return r.err
}

type serviceFixture struct {
	svc       *ViewService
	store     *viewstore.MemoryStore
	submitter *recordingSubmitter
	now       time.Time
}

func newServiceFixture(t *testing.T, creds auth.CredentialProvider) *serviceFixture {
	t.Helper()
	f := &serviceFixture{now: testNow, submitter: &recordingSubmitter{}}
	clock := func() time.Time { return f.now }
	f.store = viewstore.NewMemoryStore(128, 30*time.Minute).WithClock(clock)
	seq := 0
	f.svc = NewViewService(loadDataset(t), f.store, ViewServiceOptions{
		Credentials: creds,
		Submitter:   f.submitter,
		Clock:       clock,
		NewID: func() string {
			seq++
			return fmt.Sprintf("view-%d", seq)
		},
	})
	return f
}

func withToken(token string) context.Context {
	return auth.WithToken(context.Background(), token)
}
