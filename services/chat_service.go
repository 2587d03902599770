// services/chat_service.go
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"restaurant/entity"
	"restaurant/pkg/metrics"
	"restaurant/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReplyTaskKind is the task kind that produces a bot reply.
const ReplyTaskKind = "chat.reply"

const recentLimit = 10

// reply outcomes, used as metric labels
const (
	outcomeCanned    = "canned"
	outcomeFallback  = "fallback"
	outcomeGenerated = "generated"
	outcomeQuota     = "quota"
	outcomeError     = "error"
)

// Completer produces a chat completion.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Notifier pushes a stored message to the user's live connections.
type Notifier interface {
	Publish(userID uint, msg *entity.ChatMessage)
}

// Enqueuer persists a task through tx; Notify is called after commit.
type Enqueuer interface {
	Enqueue(tx *gorm.DB, kind string, payload any) (*entity.Task, error)
	Notify(id uint)
}

type ChatService struct {
	DB     *gorm.DB
	Repo   *repository.ChatRepository
	Ledger *TokenLedger
	Queue  Enqueuer
	LLM    Completer
	Log    logrus.FieldLogger

	notifier Notifier
}

func NewChatService(db *gorm.DB, repo *repository.ChatRepository, ledger *TokenLedger, queue Enqueuer, llm Completer, log logrus.FieldLogger) *ChatService {
	return &ChatService{
		DB:     db,
		Repo:   repo,
		Ledger: ledger,
		Queue:  queue,
		LLM:    llm,
		Log:    log.WithField("component", "chat"),
	}
}

// SetNotifier attaches live delivery. Without one, clients see messages by polling.
func (s *ChatService) SetNotifier(n Notifier) {
	s.notifier = n
}

type replyPayload struct {
	UserID    uint   `json:"userId"`
	MessageID uint   `json:"messageId"`
	Message   string `json:"message"`
	BotType   string `json:"botType"`
}

// ----- Send -----

// Send stores the user's message and schedules the bot reply. The message
// and its reply task commit together. AI sends are refused up front when the
// allowance is empty.
func (s *ChatService) Send(ctx context.Context, userID uint, text, botType string) (*entity.ChatMessage, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, invalid("message must not be empty")
	}
	if err := checkBotType(botType); err != nil {
		return nil, err
	}

	if botType == entity.BotAI {
		bal, err := s.Ledger.EnsureBalance(ctx, userID)
		if err != nil {
			return nil, err
		}
		if bal.Tokens <= 0 {
			return nil, fmt.Errorf("%w: %s", ErrQuotaExceeded, QuotaMessage)
		}
	}

	msg := &entity.ChatMessage{UserID: userID, Message: text, BotType: botType}
	var task *entity.Task
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.CreateMessage(tx, msg); err != nil {
			return err
		}
		var err error
		task, err = s.Queue.Enqueue(tx, ReplyTaskKind, replyPayload{
			UserID:    userID,
			MessageID: msg.ID,
			Message:   text,
			BotType:   botType,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	s.Queue.Notify(task.ID)
	s.publish(msg)
	return msg, nil
}

// ----- Reply -----

// HandleReplyTask is the task handler for ReplyTaskKind.
func (s *ChatService) HandleReplyTask(ctx context.Context, payload []byte) error {
	var p replyPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		return fmt.Errorf("decode reply payload: %w", err)
	}
	return s.reply(ctx, p)
}

// reply writes at most one bot answer per user message. A token is charged
// only when a generated answer is actually stored.
func (s *ChatService) reply(ctx context.Context, p replyPayload) error {
	done, err := s.Repo.ReplyExists(ctx, p.MessageID)
	if err != nil {
		return err
	}
	if done {
		s.Log.WithField("message_id", p.MessageID).Debug("reply already written")
		return nil
	}

	var text, outcome string
	if p.BotType == entity.BotAI {
		text, outcome = s.aiReply(ctx, p)
	} else {
		text, outcome = simpleReply(p.Message)
	}

	bot := &entity.ChatMessage{
		UserID:    p.UserID,
		Message:   text,
		IsBot:     true,
		BotType:   p.BotType,
		ReplyToID: &p.MessageID,
	}
	created, err := s.Repo.CreateReply(ctx, bot)
	if err != nil {
		return err
	}
	if !created {
		return nil
	}
	metrics.ChatReplies.WithLabelValues(p.BotType, outcome).Inc()

	if outcome == outcomeGenerated {
		ok, err := s.Ledger.Decrement(ctx, p.UserID)
		if err != nil {
			s.Log.WithError(err).WithField("user_id", p.UserID).Error("token decrement failed")
		} else if ok {
			metrics.TokensConsumed.Inc()
		}
	}

	s.publish(bot)
	return nil
}

func simpleReply(message string) (string, string) {
	if answer, ok := CannedReply(message); ok {
		return answer, outcomeCanned
	}
	return fallbackReply, outcomeFallback
}

func (s *ChatService) aiReply(ctx context.Context, p replyPayload) (string, string) {
	log := s.Log.WithFields(logrus.Fields{"user_id": p.UserID, "message_id": p.MessageID})

	bal, err := s.Ledger.Peek(ctx, p.UserID)
	if err != nil {
		log.WithError(err).Error("read token balance")
		return errorReply, outcomeError
	}
	if bal == nil || bal.Tokens <= 0 {
		return QuotaMessage, outcomeQuota
	}
	// Peek and Decrement are not atomic. Two workers can both see the last
	// token and both call the model; both replies are stored but only one
	// token is charged, and the balance never goes below zero.

	content, err := s.LLM.Complete(ctx, assistantPrompt, aiPrompt(p.Message))
	if err != nil {
		log.WithError(fmt.Errorf("%w: %v", ErrUpstream, err)).Warn("ai completion failed")
		return errorReply, outcomeError
	}
	return content, outcomeGenerated
}

// ----- History -----

// ListRecent returns the last ten messages of one conversation, newest first.
// Anonymous callers get an empty list.
func (s *ChatService) ListRecent(ctx context.Context, userID uint, botType string) ([]entity.ChatMessage, error) {
	if err := checkBotType(botType); err != nil {
		return nil, err
	}
	if userID == 0 {
		return []entity.ChatMessage{}, nil
	}
	return s.Repo.ListRecent(ctx, userID, botType, recentLimit)
}

func checkBotType(botType string) error {
	if botType != entity.BotSimple && botType != entity.BotAI {
		return invalid("bot type must be %q or %q", entity.BotSimple, entity.BotAI)
	}
	return nil
}

func (s *ChatService) publish(msg *entity.ChatMessage) {
	if s.notifier != nil {
		s.notifier.Publish(msg.UserID, msg)
	}
}
