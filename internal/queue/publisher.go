package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/sos_alert_system/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrPublisherClosed - публикация после начала остановки
var ErrPublisherClosed = errors.New("queue: publisher is closed")

// JobProcessor выполняет одно задание на рассылку
type JobProcessor interface {
	Process(ctx context.Context, job models.DispatchJob) error
}

// LocalPublisher выполняет задания в отдельных горутинах того же процесса.
// Задание не зависит от контекста запроса, только от базового контекста приложения.
type LocalPublisher struct {
	baseCtx   context.Context
	processor JobProcessor
	logger    *logrus.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewLocalPublisher(baseCtx context.Context, processor JobProcessor, logger *logrus.Logger) *LocalPublisher {
	return &LocalPublisher{
		baseCtx:   baseCtx,
		processor: processor,
		logger:    logger,
	}
}

// Publish запускает задание и сразу возвращает управление
func (p *LocalPublisher) Publish(_ context.Context, job models.DispatchJob) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return ErrPublisherClosed
	}

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				p.logger.WithField("incident_id", job.IncidentID).Errorf("Dispatch job panicked: %v", r)
			}
		}()

		if err := p.processor.Process(context.WithoutCancel(p.baseCtx), job); err != nil {
			p.logger.WithError(err).WithField("incident_id", job.IncidentID).Error("Failed to process dispatch job")
		}
	}()
	return nil
}

// Close запрещает новые задания и ждет завершения запущенных
func (p *LocalPublisher) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.wg.Wait()
}

// RedisPublisher кладет задания в список Redis для Worker.Start
type RedisPublisher struct {
	redisClient *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

// Publish публикует задание в очередь Redis
func (p *RedisPublisher) Publish(ctx context.Context, job models.DispatchJob) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal dispatch job: %w", err)
	}

	// LPUSH в левую часть списка, Worker забирает справа
	if err := p.redisClient.LPush(ctx, QueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish dispatch job to Redis: %w", err)
	}
	return nil
}
