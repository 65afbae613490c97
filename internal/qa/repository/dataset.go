package repository

import (
	_ "embed"
	"fmt"
	"sort"
	"time"

	"qaboard/internal/qa/model"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultSeed []byte

const joinedDateLayout = "2006-01-02"

// QuestionRepository is the read-only data store consumed by the views.
type QuestionRepository interface {
	ListQuestions() []model.Question
	// GetQuestion reports false when no question has the id.
	GetQuestion(id int64) (model.Question, bool)
	AnswersFor(questionID int64) []model.Answer
	ListUsers() []model.User
	PopularTags() []string
	AnswerTotal() int
}

type seedFile struct {
	PopularTags []string       `yaml:"popularTags"`
	Users       []seedUser     `yaml:"users"`
	Questions   []seedQuestion `yaml:"questions"`
	Answers     []seedAnswer   `yaml:"answers"`
}

type seedUser struct {
	ID          int64  `yaml:"id"`
	Username    string `yaml:"username"`
	DisplayName string `yaml:"displayName"`
	Reputation  int    `yaml:"reputation"`
	JoinedDate  string `yaml:"joinedDate"`
	Location    string `yaml:"location"`
	Bio         string `yaml:"bio"`
}

type seedQuestion struct {
	ID               int64         `yaml:"id"`
	Title            string        `yaml:"title"`
	Description      string        `yaml:"description"`
	Author           string        `yaml:"author"`
	AuthorReputation int           `yaml:"authorReputation"`
	Age              time.Duration `yaml:"age"`
	Tags             []string      `yaml:"tags"`
	Votes            int           `yaml:"votes"`
	Answers          int           `yaml:"answers"`
	Views            int           `yaml:"views"`
	IsAnswered       bool          `yaml:"isAnswered"`
	Bounty           *int          `yaml:"bounty"`
}

type seedAnswer struct {
	ID               int64          `yaml:"id"`
	QuestionID       int64          `yaml:"questionId"`
	Content          string         `yaml:"content"`
	Author           string         `yaml:"author"`
	AuthorReputation int            `yaml:"authorReputation"`
	Age              time.Duration  `yaml:"age"`
	Votes            int            `yaml:"votes"`
	IsAccepted       bool           `yaml:"isAccepted"`
	EditedAge        *time.Duration `yaml:"editedAge"`
}

// Dataset is an immutable in-memory QuestionRepository. Safe for concurrent reads.
type Dataset struct {
	users       []model.User
	questions   []model.Question
	byID        map[int64]int
	answers     map[int64][]model.Answer
	answerTotal int
	popularTags []string
}

// LoadDefault loads the embedded seed.
func LoadDefault(now time.Time) (*Dataset, error) {
	return Load(defaultSeed, now)
}

// Load parses a YAML seed, resolving ages against now.
func Load(data []byte, now time.Time) (*Dataset, error) {
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse seed failed: %w", err)
	}

	ds := &Dataset{
		byID:        make(map[int64]int, len(seed.Questions)),
		answers:     make(map[int64][]model.Answer),
		popularTags: append([]string(nil), seed.PopularTags...),
	}

	for _, u := range seed.Users {
		joined, err := time.Parse(joinedDateLayout, u.JoinedDate)
		if err != nil {
			return nil, fmt.Errorf("user %d: invalid joinedDate: %w", u.ID, err)
		}
		if u.Reputation < 0 {
			return nil, fmt.Errorf("user %d: negative reputation", u.ID)
		}
		ds.users = append(ds.users, model.User{
			ID:          u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			Reputation:  u.Reputation,
			JoinedDate:  joined,
			Location:    u.Location,
			Bio:         u.Bio,
		})
	}

	for _, q := range seed.Questions {
		if _, dup := ds.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		ds.byID[q.ID] = len(ds.questions)
		ds.questions = append(ds.questions, model.Question{
			ID:               q.ID,
			Title:            q.Title,
			Description:      q.Description,
			Author:           q.Author,
			AuthorReputation: q.AuthorReputation,
			CreatedAt:        now.Add(-q.Age),
			Tags:             q.Tags,
			Votes:            q.Votes,
			Answers:          q.Answers,
			Views:            q.Views,
			IsAnswered:       q.IsAnswered,
			Bounty:           q.Bounty,
		})
	}

	seenAnswers := make(map[int64]struct{}, len(seed.Answers))
	for _, a := range seed.Answers {
		if _, dup := seenAnswers[a.ID]; dup {
			return nil, fmt.Errorf("duplicate answer id %d", a.ID)
		}
		seenAnswers[a.ID] = struct{}{}
		if _, ok := ds.byID[a.QuestionID]; !ok {
			return nil, fmt.Errorf("answer %d references unknown question %d", a.ID, a.QuestionID)
		}
		answer := model.Answer{
			ID:               a.ID,
			QuestionID:       a.QuestionID,
			Content:          a.Content,
			Author:           a.Author,
			AuthorReputation: a.AuthorReputation,
			CreatedAt:        now.Add(-a.Age),
			Votes:            a.Votes,
			IsAccepted:       a.IsAccepted,
		}
		if a.EditedAge != nil {
			edited := now.Add(-*a.EditedAge)
			answer.EditedAt = &edited
		}
		ds.answers[a.QuestionID] = append(ds.answers[a.QuestionID], answer)
		ds.answerTotal++
	}
	for qid, list := range ds.answers {
		if countAccepted(list) > 1 {
			return nil, fmt.Errorf("question %d has more than one accepted answer", qid)
		}
		sort.SliceStable(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	}

	return ds, nil
}

func countAccepted(list []model.Answer) int {
	n := 0
	for _, a := range list {
		if a.IsAccepted {
			n++
		}
	}
	return n
}

// ListQuestions returns every question in seed order.
func (d *Dataset) ListQuestions() []model.Question {
	out := make([]model.Question, len(d.questions))
	for i, q := range d.questions {
		out[i] = q.Clone()
	}
	return out
}

func (d *Dataset) GetQuestion(id int64) (model.Question, bool) {
	idx, ok := d.byID[id]
	if !ok {
		return model.Question{}, false
	}
	return d.questions[idx].Clone(), true
}

// AnswersFor returns the dataset answers of a question ordered by id.
func (d *Dataset) AnswersFor(questionID int64) []model.Answer {
	list := d.answers[questionID]
	out := make([]model.Answer, len(list))
	for i, a := range list {
		out[i] = a.Clone()
	}
	return out
}

func (d *Dataset) ListUsers() []model.User {
	return append([]model.User(nil), d.users...)
}

func (d *Dataset) PopularTags() []string {
	return append([]string(nil), d.popularTags...)
}

// AnswerTotal counts the answers held by the dataset.
func (d *Dataset) AnswerTotal() int {
	return d.answerTotal
}
