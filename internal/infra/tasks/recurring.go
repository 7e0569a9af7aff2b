package tasks

import (
	"context"
	"time"
)

// RunRecurring выполняет fn сразу и затем каждые interval до отмены контекста
// Используется для фоновых чисток: просроченные лиды, устаревшие записи о завершении сессий
func RunRecurring(ctx context.Context, interval time.Duration, name string, log Logger, fn func(ctx context.Context) error) {
	log.Info("Tasks: recurring job %q started, interval=%s", name, interval)

	if err := fn(ctx); err != nil {
		log.Error("Tasks: recurring job %q failed: %v", name, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("Tasks: recurring job %q stopped", name)
			return
		case <-ticker.C:
			if err := fn(ctx); err != nil {
				log.Error("Tasks: recurring job %q failed: %v", name, err)
			}
		}
	}
}
