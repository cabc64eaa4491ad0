package dispatcher

import (
	"context"
	"time"

	"github.com/cenkalti/backoff"
)

// withRetry выполняет op и повторяет его до maxRetries раз.
// Пауза начинается с delay и удваивается после каждой неудачи.
// Возвращает число попыток и последнюю ошибку.
func withRetry(ctx context.Context, maxRetries int, delay time.Duration, op func() error) (int, error) {
	attempts := 0
	counted := func() error {
		attempts++
		return op()
	}

	if maxRetries <= 0 {
		return 1, counted()
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = delay
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxElapsedTime = 0

	err := backoff.Retry(counted, backoff.WithContext(backoff.WithMaxRetries(b, uint64(maxRetries)), ctx))
	return attempts, err
}
