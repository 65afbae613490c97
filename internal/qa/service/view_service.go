package service

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"qaboard/internal/common/metrics"
	"qaboard/internal/qa/auth"
	"qaboard/internal/qa/model"
	"qaboard/internal/qa/repository"
	"qaboard/internal/qa/viewstore"
	pkgerrors "qaboard/pkg/errors"
	"qaboard/pkg/utils/contextkey"
	"qaboard/pkg/utils/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const lockStripes = 64

// ViewKind names the three views a client can open.
type ViewKind string

const (
	KindListing ViewKind = "listing"
	KindDetail  ViewKind = "detail"
	KindCompose ViewKind = "compose"
)

// viewRecord is what the view store holds for one view id.
type viewRecord struct {
	Kind    ViewKind      `json:"kind"`
	Listing *ListingState `json:"listing,omitempty"`
	Detail  *DetailState  `json:"detail,omitempty"`
	Compose *ComposeState `json:"compose,omitempty"`
}

// ViewServiceOptions controls collaborators of the view service.
// Zero values select presence credentials, log submission and the default viewer.
type ViewServiceOptions struct {
	Credentials auth.CredentialProvider
	Submitter   DraftSubmitter
	Viewer      model.Viewer
	Metrics     *metrics.Metrics
	Clock       func() time.Time
	NewID       func() string
}

// DefaultViewer is the identity answers are written as unless configured.
var DefaultViewer = model.Viewer{Username: "alex_frontend", Reputation: 12340}

// ViewService owns the lifecycle of view resources.
// Events on one view are serialized; each is applied as load, mutate a copy, save.
type ViewService struct {
	repo      repository.QuestionRepository
	store     viewstore.Store
	creds     auth.CredentialProvider
	submitter DraftSubmitter
	viewer    model.Viewer
	metrics   *metrics.Metrics
	now       func() time.Time
	newID     func() string

	locks [lockStripes]sync.Mutex
}

// NewViewService creates a view service.
func NewViewService(repo repository.QuestionRepository, store viewstore.Store, opts ViewServiceOptions) *ViewService {
	s := &ViewService{
		repo:      repo,
		store:     store,
		creds:     opts.Credentials,
		submitter: opts.Submitter,
		viewer:    opts.Viewer,
		metrics:   opts.Metrics,
		now:       opts.Clock,
		newID:     opts.NewID,
	}
	if s.creds == nil {
		s.creds = auth.PresenceProvider{}
	}
	if s.submitter == nil {
		s.submitter = LogSubmitter{}
	}
	if strings.TrimSpace(s.viewer.Username) == "" {
		s.viewer = DefaultViewer
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Now is the clock labels are rendered against.
func (s *ViewService) Now() time.Time {
	return s.now()
}

// SearchQuestions renders a listing without opening a view.
func (s *ViewService) SearchQuestions(query string, tags []string, sort string) ListingPage {
	state := NewListingState()
	state.SetQuery(query)
	state.SetSort(sort)
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" && !state.IsSelected(tag) {
			state.ToggleTag(tag)
		}
	}
	return RenderListing(s.repo, state, s.now())
}

// Question renders a question and its dataset answers without opening a view.
func (s *ViewService) Question(id int64) (DetailPage, error) {
	state, err := NewDetailState(s.repo, id)
	if err != nil {
		return DetailPage{}, err
	}
	return RenderDetail(state, s.now()), nil
}

func (s *ViewService) Users() []model.User {
	return s.repo.ListUsers()
}

func (s *ViewService) PopularTags() []string {
	return s.repo.PopularTags()
}

func (s *ViewService) OpenListing(ctx context.Context) (ListingPage, error) {
	state := NewListingState()
	id, err := s.open(ctx, viewRecord{Kind: KindListing, Listing: &state})
	if err != nil {
		return ListingPage{}, err
	}
	return s.listingPage(id, state), nil
}

func (s *ViewService) Listing(ctx context.Context, viewID string) (ListingPage, error) {
	rec, err := s.read(ctx, viewID, KindListing)
	if err != nil {
		return ListingPage{}, err
	}
	return s.listingPage(viewID, *rec.Listing), nil
}

func (s *ViewService) SetListingQuery(ctx context.Context, viewID, query string) (ListingPage, error) {
	return s.updateListing(ctx, viewID, "set_query", func(st *ListingState) error {
		st.SetQuery(query)
		return nil
	})
}

func (s *ViewService) SetListingSort(ctx context.Context, viewID, sort string) (ListingPage, error) {
	return s.updateListing(ctx, viewID, "set_sort", func(st *ListingState) error {
		st.SetSort(sort)
		return nil
	})
}

func (s *ViewService) ToggleListingTag(ctx context.Context, viewID, tag string) (ListingPage, error) {
	return s.updateListing(ctx, viewID, "toggle_tag", func(st *ListingState) error {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			return pkgerrors.New(pkgerrors.InvalidTag).WithMessage("tag is required")
		}
		st.ToggleTag(tag)
		return nil
	})
}

func (s *ViewService) updateListing(ctx context.Context, viewID, event string, fn func(*ListingState) error) (ListingPage, error) {
	rec, err := s.mutate(ctx, viewID, KindListing, event, func(rec *viewRecord) error {
		return fn(rec.Listing)
	})
	if err != nil {
		return ListingPage{}, err
	}
	return s.listingPage(viewID, *rec.Listing), nil
}

func (s *ViewService) listingPage(viewID string, state ListingState) ListingPage {
	page := RenderListing(s.repo, state, s.now())
	page.ViewID = viewID
	return page
}

// OpenDetail opens a detail view on question id. Unknown ids are QuestionNotFound.
func (s *ViewService) OpenDetail(ctx context.Context, questionID int64) (DetailPage, error) {
	state, err := NewDetailState(s.repo, questionID)
	if err != nil {
		return DetailPage{}, err
	}
	id, err := s.open(ctx, viewRecord{Kind: KindDetail, Detail: &state})
	if err != nil {
		return DetailPage{}, err
	}
	return s.detailPage(id, state), nil
}

func (s *ViewService) Detail(ctx context.Context, viewID string) (DetailPage, error) {
	rec, err := s.read(ctx, viewID, KindDetail)
	if err != nil {
		return DetailPage{}, err
	}
	return s.detailPage(viewID, *rec.Detail), nil
}

// VoteQuestion needs a valid credential and succeeds once per view.
func (s *ViewService) VoteQuestion(ctx context.Context, viewID string, dir model.Direction) (DetailPage, error) {
	return s.updateDetail(ctx, viewID, "vote_question", func(ctx context.Context, st *DetailState) error {
		return st.VoteQuestion(s.creds.HasValidCredential(ctx), dir)
	})
}

func (s *ViewService) VoteAnswer(ctx context.Context, viewID string, answerID int64, dir model.Direction) (DetailPage, error) {
	return s.updateDetail(ctx, viewID, "vote_answer", func(_ context.Context, st *DetailState) error {
		return st.VoteAnswer(answerID, dir)
	})
}

func (s *ViewService) AcceptAnswer(ctx context.Context, viewID string, answerID int64) (DetailPage, error) {
	return s.updateDetail(ctx, viewID, "accept_answer", func(_ context.Context, st *DetailState) error {
		return st.AcceptAnswer(answerID)
	})
}

func (s *ViewService) SetAnswerDraft(ctx context.Context, viewID, text string) (DetailPage, error) {
	return s.updateDetail(ctx, viewID, "set_draft", func(_ context.Context, st *DetailState) error {
		st.SetDraft(text)
		return nil
	})
}

// SubmitAnswer posts content, or the stored draft when content is nil.
func (s *ViewService) SubmitAnswer(ctx context.Context, viewID string, content *string) (DetailPage, error) {
	return s.updateDetail(ctx, viewID, "submit_answer", func(ctx context.Context, st *DetailState) error {
		text := st.Draft
		if content != nil {
			text = *content
		}
		answer, err := st.SubmitAnswer(text, s.viewer, s.now())
		if err != nil {
			return err
		}
		logger.Info(ctx, "answer submitted",
			zap.Int64("question_id", answer.QuestionID),
			zap.Int64("answer_id", answer.ID),
			zap.String("author", answer.Author),
		)
		return nil
	})
}

func (s *ViewService) updateDetail(ctx context.Context, viewID, event string, fn func(context.Context, *DetailState) error) (DetailPage, error) {
	rec, err := s.mutate(ctx, viewID, KindDetail, event, func(rec *viewRecord) error {
		return fn(ctx, rec.Detail)
	})
	if err != nil {
		return DetailPage{}, err
	}
	return s.detailPage(viewID, *rec.Detail), nil
}

func (s *ViewService) detailPage(viewID string, state DetailState) DetailPage {
	page := RenderDetail(state, s.now())
	page.ViewID = viewID
	return page
}

func (s *ViewService) OpenCompose(ctx context.Context) (ComposePage, error) {
	var state ComposeState
	id, err := s.open(ctx, viewRecord{Kind: KindCompose, Compose: &state})
	if err != nil {
		return ComposePage{}, err
	}
	return composePage(id, state), nil
}

func (s *ViewService) Compose(ctx context.Context, viewID string) (ComposePage, error) {
	rec, err := s.read(ctx, viewID, KindCompose)
	if err != nil {
		return ComposePage{}, err
	}
	return composePage(viewID, *rec.Compose), nil
}

// UpdateCompose sets the fields that are non-nil.
func (s *ViewService) UpdateCompose(ctx context.Context, viewID string, title, description *string) (ComposePage, error) {
	return s.updateCompose(ctx, viewID, "update_fields", func(st *ComposeState) error {
		if title != nil {
			st.SetTitle(*title)
		}
		if description != nil {
			st.SetDescription(*description)
		}
		return nil
	})
}

// AddComposeTag reports whether the tag was taken. Rejected tags are not an error.
func (s *ViewService) AddComposeTag(ctx context.Context, viewID, tag string) (ComposePage, bool, error) {
	var added bool
	page, err := s.updateCompose(ctx, viewID, "add_tag", func(st *ComposeState) error {
		added = st.AddTag(tag)
		return nil
	})
	return page, added, err
}

func (s *ViewService) RemoveComposeTag(ctx context.Context, viewID, tag string) (ComposePage, bool, error) {
	var removed bool
	page, err := s.updateCompose(ctx, viewID, "remove_tag", func(st *ComposeState) error {
		removed = st.RemoveTag(tag)
		return nil
	})
	return page, removed, err
}

// SubmitCompose hands a complete draft to the submitter. The draft stays in the view.
func (s *ViewService) SubmitCompose(ctx context.Context, viewID string) (ComposePage, error) {
	mu := s.lockFor(viewID)
	mu.Lock()
	defer mu.Unlock()

	ctx = withView(ctx, viewID)
	rec, err := s.load(ctx, viewID, KindCompose)
	if err != nil {
		return ComposePage{}, err
	}
	state := *rec.Compose
	if !state.CanSubmit() {
		err := pkgerrors.ValidationError("draft", "title, description and at least one tag are required").
			WithDetail("missing", missingComposeFields(state))
		s.recordEvent(KindCompose, "submit", err)
		return ComposePage{}, err
	}

	err = s.submitter.SubmitDraft(ctx, viewID, state.Draft())
	if s.metrics != nil {
		s.metrics.RecordDraftSubmitted(err)
	}
	s.recordEvent(KindCompose, "submit", err)
	if err != nil {
		if pkgerrors.Is(err, pkgerrors.DraftSubmitFailed) {
			return ComposePage{}, err
		}
		return ComposePage{}, pkgerrors.Wrapf(err, pkgerrors.DraftSubmitFailed, "submit question draft failed")
	}
	return composePage(viewID, state), nil
}

func (s *ViewService) updateCompose(ctx context.Context, viewID, event string, fn func(*ComposeState) error) (ComposePage, error) {
	rec, err := s.mutate(ctx, viewID, KindCompose, event, func(rec *viewRecord) error {
		return fn(rec.Compose)
	})
	if err != nil {
		return ComposePage{}, err
	}
	return composePage(viewID, *rec.Compose), nil
}

func composePage(viewID string, state ComposeState) ComposePage {
	page := RenderCompose(state)
	page.ViewID = viewID
	return page
}

func missingComposeFields(state ComposeState) []string {
	var missing []string
	if strings.TrimSpace(state.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(state.Description) == "" {
		missing = append(missing, "description")
	}
	if len(state.Tags) == 0 {
		missing = append(missing, "tags")
	}
	return missing
}

// CloseView discards a view, the equivalent of navigating away.
func (s *ViewService) CloseView(ctx context.Context, kind ViewKind, viewID string) error {
	mu := s.lockFor(viewID)
	mu.Lock()
	defer mu.Unlock()

	ctx = withView(ctx, viewID)
	if _, err := s.load(ctx, viewID, kind); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, viewID); err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.CacheError, "delete view failed")
	}
	s.recordEvent(kind, "close", nil)
	return nil
}

func (s *ViewService) open(ctx context.Context, rec viewRecord) (string, error) {
	id := s.newID()
	ctx = withView(ctx, id)
	if err := s.save(ctx, id, rec); err != nil {
		return "", err
	}
	if s.metrics != nil {
		s.metrics.RecordViewOpened(string(rec.Kind))
	}
	logger.Debug(ctx, "view opened", zap.String("kind", string(rec.Kind)))
	return id, nil
}

func (s *ViewService) read(ctx context.Context, viewID string, kind ViewKind) (viewRecord, error) {
	mu := s.lockFor(viewID)
	mu.Lock()
	defer mu.Unlock()
	return s.load(withView(ctx, viewID), viewID, kind)
}

// mutate runs fn on a decoded copy and saves it only when fn succeeds.
func (s *ViewService) mutate(ctx context.Context, viewID string, kind ViewKind, event string, fn func(*viewRecord) error) (viewRecord, error) {
	mu := s.lockFor(viewID)
	mu.Lock()
	defer mu.Unlock()

	ctx = withView(ctx, viewID)
	rec, err := s.load(ctx, viewID, kind)
	if err != nil {
		return viewRecord{}, err
	}
	if err := fn(&rec); err != nil {
		s.recordEvent(kind, event, err)
		logger.Debug(ctx, "view event rejected",
			zap.String("event", event),
			zap.Int("code", int(pkgerrors.GetCode(err))),
			zap.Error(err),
		)
		return viewRecord{}, err
	}
	if err := s.save(ctx, viewID, rec); err != nil {
		return viewRecord{}, err
	}
	s.recordEvent(kind, event, nil)
	return rec, nil
}

func (s *ViewService) load(ctx context.Context, viewID string, kind ViewKind) (viewRecord, error) {
	if strings.TrimSpace(viewID) == "" {
		return viewRecord{}, pkgerrors.New(pkgerrors.ViewNotFound)
	}
	raw, ok, err := s.store.Get(ctx, viewID)
	if err != nil {
		logger.Error(ctx, "load view failed", zap.Error(err))
		return viewRecord{}, pkgerrors.Wrapf(err, pkgerrors.CacheError, "load view failed")
	}
	if !ok {
		return viewRecord{}, pkgerrors.New(pkgerrors.ViewNotFound).WithDetail("view_id", viewID)
	}
	var rec viewRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return viewRecord{}, pkgerrors.Wrapf(err, pkgerrors.InternalServerError, "decode view failed")
	}
	if rec.Kind != kind || !rec.hasState() {
		return viewRecord{}, pkgerrors.Newf(pkgerrors.ViewKindMismatch, "view is a %s view", rec.Kind).
			WithDetail("expected", string(kind))
	}
	return rec, nil
}

func (s *ViewService) save(ctx context.Context, viewID string, rec viewRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return pkgerrors.Wrapf(err, pkgerrors.InternalServerError, "encode view failed")
	}
	if err := s.store.Put(ctx, viewID, raw); err != nil {
		logger.Error(ctx, "save view failed", zap.Error(err))
		return pkgerrors.Wrapf(err, pkgerrors.CacheSetFailed, "save view failed")
	}
	return nil
}

func (s *ViewService) recordEvent(kind ViewKind, event string, err error) {
	if s.metrics != nil {
		s.metrics.RecordViewEvent(string(kind), event, err)
	}
}

func (s *ViewService) lockFor(viewID string) *sync.Mutex {
	h := fnv.New32a()
	_, _ = h.Write([]byte(viewID))
	return &s.locks[h.Sum32()%lockStripes]
}

func (r viewRecord) hasState() bool {
	switch r.Kind {
	case KindListing:
		return r.Listing != nil
	case KindDetail:
		return r.Detail != nil
	case KindCompose:
		return r.Compose != nil
	}
	return false
}

func withView(ctx context.Context, viewID string) context.Context {
	return context.WithValue(ctx, contextkey.ViewID, viewID)
}
