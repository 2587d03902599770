package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"restaurant/entity"
	"restaurant/pkg/testutil"
	"restaurant/repository"
	"restaurant/tasks"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

type fakeCompleter struct {
	mu      sync.Mutex
	reply   string
	err     error
	prompts []string
	systems []string

	// onCall runs outside the lock with the 1-based call number.
	onCall func(n int)
}

func (f *fakeCompleter) Complete(_ context.Context, system, user string) (string, error) {
	f.mu.Lock()
	f.systems = append(f.systems, system)
	f.prompts = append(f.prompts, user)
	n, reply, err, hook := len(f.prompts), f.reply, f.err, f.onCall
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return reply, err
}

func (f *fakeCompleter) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []entity.ChatMessage
}

func (n *recordingNotifier) Publish(_ uint, msg *entity.ChatMessage) {
	n.mu.Lock()
	n.msgs = append(n.msgs, *msg)
	n.mu.Unlock()
}

func seedItem(t *testing.T, db *gorm.DB, name string, price int64) *entity.MenuItem {
	t.Helper()
	item := &entity.MenuItem{Name: name, Price: price, Category: "Супы"}
	require.NoError(t, db.Create(item).Error)
	return item
}

type chatFixture struct {
	db       *gorm.DB
	svc      *ChatService
	ledger   *TokenLedger
	queue    *tasks.Queue
	llm      *fakeCompleter
	notifier *recordingNotifier
	clock    *fakeClock
}

func newChatFixture(t *testing.T) *chatFixture {
	t.Helper()
	db := testutil.NewDB(t)
	clock := newFakeClock()
	ledger := NewTokenLedger(repository.NewTokenRepository(db), clock.Now)
	queue := tasks.New(db, testutil.Logger(), tasks.Options{})
	llm := &fakeCompleter{reply: "Пельмени с шкварками."}

	svc := NewChatService(db, repository.NewChatRepository(db), ledger, queue, llm, testutil.Logger())
	notifier := &recordingNotifier{}
	svc.SetNotifier(notifier)
	queue.Register(ReplyTaskKind, svc.HandleReplyTask)

	return &chatFixture{db: db, svc: svc, ledger: ledger, queue: queue, llm: llm, notifier: notifier, clock: clock}
}

// drain runs every queued reply task and returns how many ran.
func (f *chatFixture) drain(t *testing.T) int {
	t.Helper()
	n, err := f.queue.RunPending(context.Background())
	require.NoError(t, err)
	return n
}

func (f *chatFixture) messages(t *testing.T, userID uint) []entity.ChatMessage {
	t.Helper()
	var msgs []entity.ChatMessage
	require.NoError(t, f.db.Where("user_id = ?", userID).Order("id ASC").Find(&msgs).Error)
	return msgs
}
