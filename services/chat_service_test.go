package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"restaurant/entity"
	"restaurant/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCannedReply(t *testing.T) {
	tests := []struct {
		msg  string
		want string
		ok   bool
	}{
		{"Какой у вас РЕЖИМ РАБОТЫ?", "Мы работаем ежедневно с 10:00 до 22:00.", true},
		{"где находится ресторан", cannedReplies[1].answer, true},
		// earlier entries win
		{"как заказать доставка", cannedReplies[0].answer, true},
		{"хайку про борщ", cannedReplies[4].answer, true},
		{"привет", "", false},
	}
	for _, tc := range tests {
		got, ok := CannedReply(tc.msg)
		assert.Equal(t, tc.ok, ok, tc.msg)
		assert.Equal(t, tc.want, got, tc.msg)
	}
}

func TestAIPrompt(t *testing.T) {
	assert.Equal(t, "Write a haiku about пельмени", aiPrompt("Хайку пельмени"))
	assert.Equal(t, "Write a haiku about о весне", aiPrompt("  о весне ХАЙКУ "))
	assert.Equal(t, "Что посоветуете?", aiPrompt("Что посоветуете?"))
}

func TestSendSimpleHoursReply(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	msg, err := f.svc.Send(ctx, 1, "Подскажите режим работы", entity.BotSimple)
	require.NoError(t, err)
	assert.False(t, msg.IsBot)

	// the reply is produced by the task, not by Send
	assert.Len(t, f.messages(t, 1), 1)
	assert.Equal(t, 1, f.drain(t))

	msgs := f.messages(t, 1)
	require.Len(t, msgs, 2)
	assert.True(t, msgs[1].IsBot)
	assert.Equal(t, entity.BotSimple, msgs[1].BotType)
	assert.Equal(t, "Мы работаем ежедневно с 10:00 до 22:00.", msgs[1].Message)
	require.NotNil(t, msgs[1].ReplyToID)
	assert.Equal(t, msg.ID, *msgs[1].ReplyToID)

	assert.Zero(t, f.llm.calls())
	assert.Len(t, f.notifier.msgs, 2)
}

func TestSendSimpleFallback(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.svc.Send(ctx, 1, "Сколько стоит слон?", entity.BotSimple)
	require.NoError(t, err)
	f.drain(t)

	msgs := f.messages(t, 1)
	require.Len(t, msgs, 2)
	assert.Equal(t, fallbackReply, msgs[1].Message)
}

func TestSendValidation(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.svc.Send(ctx, 0, "привет", entity.BotSimple)
	assert.ErrorIs(t, err, ErrAuthRequired)

	_, err = f.svc.Send(ctx, 1, "   ", entity.BotSimple)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.Send(ctx, 1, "привет", "gpt")
	assert.ErrorIs(t, err, ErrValidation)

	assert.Empty(t, f.messages(t, 1))
}

func TestSendAIDecrementsOnce(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	before := testutil.ToFloat64(metrics.TokensConsumed)

	_, err := f.svc.Send(ctx, 1, "Что посоветуете к борщу?", entity.BotAI)
	require.NoError(t, err)
	f.drain(t)

	msgs := f.messages(t, 1)
	require.Len(t, msgs, 2)
	assert.Equal(t, "Пельмени с шкварками.", msgs[1].Message)
	assert.Equal(t, entity.BotAI, msgs[1].BotType)
	require.Len(t, f.llm.systems, 1)
	assert.Equal(t, assistantPrompt, f.llm.systems[0])
	assert.Equal(t, "Что посоветуете к борщу?", f.llm.prompts[0])

	bal, err := f.ledger.Peek(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DailyTokens-1, bal.Tokens)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.TokensConsumed))
}

func TestSendAIHaikuPrompt(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.svc.Send(ctx, 1, "хайку о блинах", entity.BotAI)
	require.NoError(t, err)
	f.drain(t)

	require.Len(t, f.llm.prompts, 1)
	assert.Equal(t, "Write a haiku about о блинах", f.llm.prompts[0])
}

func TestSendAIWithZeroBalanceIsRejected(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.ledger.EnsureBalance(ctx, 1)
	require.NoError(t, err)
	for i := 0; i < DailyTokens; i++ {
		_, err := f.ledger.Decrement(ctx, 1)
		require.NoError(t, err)
	}

	_, err = f.svc.Send(ctx, 1, "привет", entity.BotAI)
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Contains(t, err.Error(), QuotaMessage)

	assert.Empty(t, f.messages(t, 1))
	assert.Zero(t, f.drain(t))
}

func TestAIQuotaFallbackDuringGeneration(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	// two sends pass the admission check with one token left
	_, err := f.ledger.EnsureBalance(ctx, 1)
	require.NoError(t, err)
	for i := 0; i < DailyTokens-1; i++ {
		_, err := f.ledger.Decrement(ctx, 1)
		require.NoError(t, err)
	}
	_, err = f.svc.Send(ctx, 1, "первый", entity.BotAI)
	require.NoError(t, err)
	_, err = f.svc.Send(ctx, 1, "второй", entity.BotAI)
	require.NoError(t, err)

	assert.Equal(t, 2, f.drain(t))

	msgs := f.messages(t, 1)
	require.Len(t, msgs, 4)
	assert.Equal(t, "Пельмени с шкварками.", msgs[2].Message)
	assert.Equal(t, QuotaMessage, msgs[3].Message)
	assert.Equal(t, 1, f.llm.calls())

	bal, err := f.ledger.Peek(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Tokens)
}

func TestAILastTokenRaceChargesOnce(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	_, err := f.ledger.EnsureBalance(ctx, 1)
	require.NoError(t, err)
	for i := 0; i < DailyTokens-1; i++ {
		_, err := f.ledger.Decrement(ctx, 1)
		require.NoError(t, err)
	}
	_, err = f.svc.Send(ctx, 1, "первый", entity.BotAI)
	require.NoError(t, err)
	second, err := f.svc.Send(ctx, 1, "второй", entity.BotAI)
	require.NoError(t, err)

	// the second reply runs while the first is still waiting on the model
	f.llm.onCall = func(n int) {
		if n != 1 {
			return
		}
		require.NoError(t, f.svc.reply(ctx, replyPayload{
			UserID: 1, MessageID: second.ID, Message: second.Message, BotType: entity.BotAI,
		}))
	}
	f.drain(t)

	assert.Equal(t, 2, f.llm.calls())
	var generated int
	for _, m := range f.messages(t, 1) {
		if m.IsBot && m.Message == "Пельмени с шкварками." {
			generated++
		}
	}
	assert.Equal(t, 2, generated)

	bal, err := f.ledger.Peek(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, bal.Tokens)
}

func TestAIUpstreamFailure(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)
	f.llm.err = errors.New("connection refused")

	_, err := f.svc.Send(ctx, 1, "привет", entity.BotAI)
	require.NoError(t, err)
	f.drain(t)

	msgs := f.messages(t, 1)
	require.Len(t, msgs, 2)
	assert.Equal(t, errorReply, msgs[1].Message)

	bal, err := f.ledger.Peek(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DailyTokens, bal.Tokens)
}

func TestReplyRedeliveryIsSkipped(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	msg, err := f.svc.Send(ctx, 1, "привет", entity.BotAI)
	require.NoError(t, err)
	f.drain(t)

	// the same task delivered again
	payload, err := json.Marshal(replyPayload{UserID: 1, MessageID: msg.ID, Message: "привет", BotType: entity.BotAI})
	require.NoError(t, err)
	require.NoError(t, f.svc.HandleReplyTask(ctx, payload))

	assert.Len(t, f.messages(t, 1), 2)
	assert.Equal(t, 1, f.llm.calls())
	bal, err := f.ledger.Peek(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, DailyTokens-1, bal.Tokens)
}

func TestListRecent(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(t)

	for i := 0; i < 6; i++ {
		_, err := f.svc.Send(ctx, 1, "привет", entity.BotSimple)
		require.NoError(t, err)
	}
	_, err := f.svc.Send(ctx, 1, "привет", entity.BotAI)
	require.NoError(t, err)
	f.drain(t)

	msgs, err := f.svc.ListRecent(ctx, 1, entity.BotSimple)
	require.NoError(t, err)
	require.Len(t, msgs, recentLimit)
	for i := 1; i < len(msgs); i++ {
		assert.Greater(t, msgs[i-1].ID, msgs[i].ID, "newest first")
	}
	for _, m := range msgs {
		assert.Equal(t, entity.BotSimple, m.BotType)
	}

	anon, err := f.svc.ListRecent(ctx, 0, entity.BotAI)
	require.NoError(t, err)
	assert.Empty(t, anon)

	_, err = f.svc.ListRecent(ctx, 1, "other")
	assert.ErrorIs(t, err, ErrValidation)
}
