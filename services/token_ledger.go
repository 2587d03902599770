// services/token_ledger.go
package services

import (
	"context"
	"errors"
	"time"

	"restaurant/entity"
	"restaurant/repository"
)

const (
	// DailyTokens is the AI chat allowance granted per user per day.
	DailyTokens = 10

	refillInterval = 24 * time.Hour
)

// TokenLedger tracks AI chat allowances. It holds no state of its own; every
// call reads the row fresh and mutates it with a conditional update.
type TokenLedger struct {
	repo *repository.TokenRepository
	now  func() time.Time
}

// NewTokenLedger uses time.Now when now is nil.
func NewTokenLedger(repo *repository.TokenRepository, now func() time.Time) *TokenLedger {
	if now == nil {
		now = time.Now
	}
	return &TokenLedger{repo: repo, now: now}
}

// EnsureBalance returns the user's balance, creating a full one on first use
// and resetting it to full once a day has passed since the last refill.
// Unused tokens never carry over.
func (l *TokenLedger) EnsureBalance(ctx context.Context, userID uint) (*entity.UserToken, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}
	nowMs := l.now().UnixMilli()

	if err := l.repo.InsertIfAbsent(ctx, &entity.UserToken{
		UserID:     userID,
		Tokens:     DailyTokens,
		LastRefill: nowMs,
	}); err != nil {
		return nil, err
	}
	if _, err := l.repo.RefillIfDue(ctx, userID, DailyTokens, nowMs, nowMs-refillInterval.Milliseconds()); err != nil {
		return nil, err
	}

	bal, err := l.repo.Find(ctx, userID)
	if err != nil {
		return nil, err
	}
	if bal == nil {
		return nil, errors.New("token balance missing after insert")
	}
	return bal, nil
}

// Decrement takes one token when the balance is positive and reports whether
// it did. A zero balance stays at zero.
func (l *TokenLedger) Decrement(ctx context.Context, userID uint) (bool, error) {
	return l.repo.Decrement(ctx, userID)
}

// Peek reads the balance without side effects; nil means none was created yet.
func (l *TokenLedger) Peek(ctx context.Context, userID uint) (*entity.UserToken, error) {
	return l.repo.Find(ctx, userID)
}

// Available reports how many tokens the user could spend right now, counting
// a refill that EnsureBalance would apply. It never writes.
func (l *TokenLedger) Available(ctx context.Context, userID uint) (int, error) {
	if userID == 0 {
		return 0, ErrAuthRequired
	}
	bal, err := l.repo.Find(ctx, userID)
	if err != nil {
		return 0, err
	}
	if bal == nil || l.now().UnixMilli()-bal.LastRefill >= refillInterval.Milliseconds() {
		return DailyTokens, nil
	}
	return bal.Tokens, nil
}
