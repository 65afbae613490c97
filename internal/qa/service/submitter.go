package service

import (
	"context"
	"encoding/json"
	"strings"

	"qaboard/internal/common/mq"
	"qaboard/internal/qa/model"
	pkgerrors "qaboard/pkg/errors"
	"qaboard/pkg/utils/logger"

	"go.uber.org/zap"
)

const defaultDraftTopic = "qaboard.question-drafts"

// DraftSubmitter receives question drafts from composition views.
type DraftSubmitter interface {
	SubmitDraft(ctx context.Context, viewID string, draft model.QuestionDraft) error
}

// LogSubmitter only logs the draft.
type LogSubmitter struct{}

func (LogSubmitter) SubmitDraft(ctx context.Context, viewID string, draft model.QuestionDraft) error {
	logger.Info(ctx, "question draft submitted",
		zap.String("view_id", viewID),
		zap.String("title", draft.Title),
		zap.Int("description_len", len(draft.Description)),
		zap.Strings("tags", draft.Tags),
	)
	return nil
}

// KafkaSubmitter publishes drafts as JSON, keyed by view id.
type KafkaSubmitter struct {
	producer mq.Producer
	topic    string
}

func NewKafkaSubmitter(producer mq.Producer, topic string) *KafkaSubmitter {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		topic = defaultDraftTopic
	}
	return &KafkaSubmitter{producer: producer, topic: topic}
}

func (k *KafkaSubmitter) SubmitDraft(ctx context.Context, viewID string, draft model.QuestionDraft) error {
	if k == nil || k.producer == nil {
		return pkgerrors.New(pkgerrors.DraftSubmitFailed).WithMessage("draft publisher is not configured")
	}
	body, err := json.Marshal(draft)
	if err != nil {
		return pkgerrors.Wrap(err, pkgerrors.DraftSubmitFailed)
	}
	msg := mq.NewMessage(viewID, body)
	msg.SetHeader("content-type", "application/json")
	if err := k.producer.Publish(ctx, k.topic, msg); err != nil {
		logger.Error(ctx, "publish question draft failed", zap.String("topic", k.topic), zap.Error(err))
		return pkgerrors.Wrapf(err, pkgerrors.DraftSubmitFailed, "publish question draft failed")
	}
	logger.Info(ctx, "question draft published", zap.String("topic", k.topic), zap.String("view_id", viewID))
	return nil
}
