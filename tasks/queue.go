// Package tasks runs persisted background work.
//
// A task row is written inside the caller's transaction, so the work exists
// exactly when the data that produced it does. Workers claim rows with a
// guarded pending→running update; a periodic Sweep re-queues tasks whose
// worker died and re-announces anything still pending, which gives
// at-least-once execution. Handlers must tolerate running twice.
package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"restaurant/entity"
	"restaurant/pkg/metrics"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Handler executes one task payload.
type Handler func(ctx context.Context, payload []byte) error

var ErrNoHandler = errors.New("no handler registered")

type Options struct {
	Workers    int
	Buffer     int
	StaleAfter time.Duration
}

type Queue struct {
	db  *gorm.DB
	log logrus.FieldLogger

	mu       sync.RWMutex
	handlers map[string]Handler

	wake       chan uint
	workers    int
	staleAfter time.Duration
	wg         sync.WaitGroup

	now func() time.Time
}

func New(db *gorm.DB, log logrus.FieldLogger, opts Options) *Queue {
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Buffer <= 0 {
		opts.Buffer = 256
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = 5 * time.Minute
	}
	return &Queue{
		db:         db,
		log:        log.WithField("component", "tasks"),
		handlers:   make(map[string]Handler),
		wake:       make(chan uint, opts.Buffer),
		workers:    opts.Workers,
		staleAfter: opts.StaleAfter,
		now:        time.Now,
	}
}

func (q *Queue) Register(kind string, h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[kind] = h
}

func (q *Queue) handler(kind string) (Handler, bool) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	h, ok := q.handlers[kind]
	return h, ok
}

// Enqueue stores a pending task through tx. Call Notify with the task ID once
// tx has committed.
func (q *Queue) Enqueue(tx *gorm.DB, kind string, payload any) (*entity.Task, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	task := &entity.Task{Kind: kind, Payload: string(raw), Status: entity.TaskPending}
	if err := tx.Create(task).Error; err != nil {
		return nil, err
	}
	return task, nil
}

// Notify wakes a worker for the task. It never blocks; a dropped wake-up is
// picked up by the next Sweep.
func (q *Queue) Notify(id uint) {
	select {
	case q.wake <- id:
	default:
		q.log.WithField("task_id", id).Warn("task queue full, deferring to sweep")
	}
}

// Start launches the workers. They stop taking new tasks when ctx is done;
// a task already claimed runs to completion.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case id := <-q.wake:
					if err := q.process(context.WithoutCancel(ctx), id); err != nil {
						q.log.WithError(err).WithField("task_id", id).Error("task processing failed")
					}
				}
			}
		}()
	}
}

// Wait blocks until all workers have exited.
func (q *Queue) Wait() {
	q.wg.Wait()
}

// RunPending processes every pending task on the calling goroutine and
// returns how many it ran.
func (q *Queue) RunPending(ctx context.Context) (int, error) {
	ids, err := q.pendingIDs(ctx)
	if err != nil {
		return 0, err
	}
	ran := 0
	for _, id := range ids {
		if err := q.process(ctx, id); err != nil {
			return ran, err
		}
		ran++
	}
	return ran, nil
}

// Sweep returns stale running tasks to pending and re-announces all pending
// tasks to the workers.
func (q *Queue) Sweep(ctx context.Context) error {
	cutoff := q.now().UTC().Add(-q.staleAfter)
	res := q.db.WithContext(ctx).Model(&entity.Task{}).
		Where("status = ? AND started_at < ?", entity.TaskRunning, cutoff).
		Update("status", entity.TaskPending)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		q.log.WithField("count", res.RowsAffected).Warn("requeued stale tasks")
	}

	ids, err := q.pendingIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		q.Notify(id)
	}
	return nil
}

func (q *Queue) pendingIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := q.db.WithContext(ctx).Model(&entity.Task{}).
		Where("status = ?", entity.TaskPending).
		Order("id ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// process claims and runs one task. A task someone else already claimed or
// finished is skipped silently.
func (q *Queue) process(ctx context.Context, id uint) error {
	started := q.now().UTC()
	res := q.db.WithContext(ctx).Model(&entity.Task{}).
		Where("id = ? AND status = ?", id, entity.TaskPending).
		Updates(map[string]any{
			"status":     entity.TaskRunning,
			"started_at": started,
			"attempts":   gorm.Expr("attempts + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return nil
	}

	var task entity.Task
	if err := q.db.WithContext(ctx).First(&task, id).Error; err != nil {
		return err
	}

	log := q.log.WithFields(logrus.Fields{"task_id": task.ID, "kind": task.Kind, "attempt": task.Attempts})

	runErr := q.run(ctx, &task)
	status := entity.TaskDone
	lastErr := ""
	if runErr != nil {
		status = entity.TaskFailed
		lastErr = runErr.Error()
		log.WithError(runErr).Error("task failed")
	} else {
		log.WithField("took", time.Since(started)).Debug("task done")
	}
	metrics.TaskRuns.WithLabelValues(task.Kind, status).Inc()

	return q.db.WithContext(ctx).Model(&entity.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{"status": status, "last_error": lastErr}).Error
}

func (q *Queue) run(ctx context.Context, task *entity.Task) (err error) {
	h, ok := q.handler(task.Kind)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoHandler, task.Kind)
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return h(ctx, []byte(task.Payload))
}
