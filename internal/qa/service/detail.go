package service

import (
	"strings"
	"time"

	"qaboard/internal/qa/model"
	"qaboard/internal/qa/repository"
	pkgerrors "qaboard/pkg/errors"
)

// DetailState is the mutable state of one question detail view.
// Votes, answers and acceptance live here only and never reach the data store.
type DetailState struct {
	Question     model.Question `json:"question"`
	Answers      []model.Answer `json:"answers"`
	HasVoted     bool           `json:"has_voted"`
	Draft        string         `json:"draft"`
	LastAnswerID int64          `json:"last_answer_id"`
}

// NewDetailState copies question id and its answers out of the data store.
func NewDetailState(repo repository.QuestionRepository, id int64) (DetailState, error) {
	q, ok := repo.GetQuestion(id)
	if !ok {
		return DetailState{}, pkgerrors.New(pkgerrors.QuestionNotFound).WithDetail("question_id", id)
	}
	answers := repo.AnswersFor(id)
	state := DetailState{Question: q, Answers: answers}
	for _, a := range answers {
		if a.ID > state.LastAnswerID {
			state.LastAnswerID = a.ID
		}
	}
	return state, nil
}

// VoteQuestion casts the single question vote this view allows.
func (s *DetailState) VoteQuestion(hasCredential bool, dir model.Direction) error {
	if !hasCredential {
		return pkgerrors.New(pkgerrors.CredentialRequired)
	}
	if s.HasVoted {
		return pkgerrors.New(pkgerrors.AlreadyVoted)
	}
	s.Question.Votes += dir.Delta()
	s.HasVoted = true
	return nil
}

// VoteAnswer adjusts an answer's votes. Repeatable without limit.
func (s *DetailState) VoteAnswer(answerID int64, dir model.Direction) error {
	idx := s.answerIndex(answerID)
	if idx < 0 {
		return answerNotFound(answerID)
	}
	s.Answers[idx].Votes += dir.Delta()
	return nil
}

// AcceptAnswer marks answerID accepted and clears every sibling.
func (s *DetailState) AcceptAnswer(answerID int64) error {
	if s.answerIndex(answerID) < 0 {
		return answerNotFound(answerID)
	}
	for i := range s.Answers {
		s.Answers[i].IsAccepted = s.Answers[i].ID == answerID
	}
	return nil
}

func (s *DetailState) SetDraft(text string) {
	s.Draft = text
}

// SubmitAnswer appends an answer by viewer and clears the draft.
// Ids come from now in milliseconds and are bumped to stay increasing.
func (s *DetailState) SubmitAnswer(content string, viewer model.Viewer, now time.Time) (model.Answer, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return model.Answer{}, pkgerrors.New(pkgerrors.AnswerContentEmpty)
	}
	id := now.UnixMilli()
	if id <= s.LastAnswerID {
		id = s.LastAnswerID + 1
	}
	answer := model.Answer{
		ID:               id,
		QuestionID:       s.Question.ID,
		Content:          content,
		Author:           viewer.Username,
		AuthorReputation: viewer.Reputation,
		CreatedAt:        now,
	}
	s.Answers = append(s.Answers, answer)
	s.LastAnswerID = id
	s.Draft = ""
	return answer, nil
}

// AcceptedCount counts accepted answers.
func (s DetailState) AcceptedCount() int {
	n := 0
	for _, a := range s.Answers {
		if a.IsAccepted {
			n++
		}
	}
	return n
}

func (s DetailState) answerIndex(id int64) int {
	for i, a := range s.Answers {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func answerNotFound(id int64) error {
	return pkgerrors.New(pkgerrors.AnswerNotFound).WithDetail("answer_id", id)
}

// AnswerCard is an answer rendered for the detail page.
type AnswerCard struct {
	model.Answer
	CreatedLabel string `json:"created_label"`
	EditedLabel  string `json:"edited_label,omitempty"`
}

// DetailPage is a rendered detail view.
type DetailPage struct {
	ViewID      string       `json:"view_id,omitempty"`
	Question    QuestionCard `json:"question"`
	Answers     []AnswerCard `json:"answers"`
	AnswerCount int          `json:"answer_count"`
	HasVoted    bool         `json:"has_voted"`
	Draft       string       `json:"draft"`
	CanSubmit   bool         `json:"can_submit"`
}

// RenderDetail renders state against now.
func RenderDetail(state DetailState, now time.Time) DetailPage {
	page := DetailPage{
		Question: QuestionCard{
			Question:     state.Question,
			CreatedLabel: model.RelativeLabel(state.Question.CreatedAt, now),
		},
		Answers:     make([]AnswerCard, 0, len(state.Answers)),
		AnswerCount: len(state.Answers),
		HasVoted:    state.HasVoted,
		Draft:       state.Draft,
		CanSubmit:   strings.TrimSpace(state.Draft) != "",
	}
	for _, a := range state.Answers {
		card := AnswerCard{Answer: a, CreatedLabel: model.RelativeLabel(a.CreatedAt, now)}
		if a.EditedAt != nil {
			card.EditedLabel = model.RelativeLabel(*a.EditedAt, now)
		}
		page.Answers = append(page.Answers, card)
	}
	return page
}
