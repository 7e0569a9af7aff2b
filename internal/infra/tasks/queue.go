package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Queue внутрипроцессная очередь отложенных задач
// Задачи привязаны к именованным типам, обработчики регистрируются на старте
// Содержимое очереди не переживает рестарт процесса: источником истины
// остается статус записи в БД, воркеры при старте подхватывают хвосты
type Queue struct {
	log     Logger
	metrics Collector

	mu       sync.Mutex
	handlers map[string]Handler
	pending  map[uuid.UUID]*time.Timer
	stopped  bool

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewQueue создает новый экземпляр очереди
func NewQueue(log Logger, metrics Collector) *Queue {
	ctx, cancel := context.WithCancel(context.Background())

	return &Queue{
		log:      log,
		metrics:  metrics,
		handlers: make(map[string]Handler),
		pending:  make(map[uuid.UUID]*time.Timer),
		baseCtx:  ctx,
		cancel:   cancel,
	}
}

// Register регистрирует обработчик для типа задачи
// Повторная регистрация типа - ошибка конфигурации приложения
func (q *Queue) Register(kind string, h Handler) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.handlers[kind]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKind, kind)
	}

	q.handlers[kind] = h
	return nil
}

// ScheduleOnce ставит задачу на однократное выполнение через delay
// Аргументы сериализуются в JSON и передаются обработчику как есть
func (q *Queue) ScheduleOnce(delay time.Duration, kind string, args interface{}) (uuid.UUID, error) {
	payload, err := json.Marshal(args)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: kind=%s: %v", ErrMarshalArgs, kind, err)
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if q.stopped {
		return uuid.Nil, ErrQueueStopped
	}

	if _, ok := q.handlers[kind]; !ok {
		return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	id := uuid.New()
	q.wg.Add(1)
	q.pending[id] = time.AfterFunc(delay, func() {
		q.run(id, kind, payload)
	})

	if q.metrics != nil {
		q.metrics.TaskScheduled(kind)
		q.metrics.SetTasksPending(len(q.pending))
	}

	q.log.Info("Tasks: scheduled task %s kind=%s delay=%s", id, kind, delay)

	return id, nil
}

// run выполняет задачу по срабатыванию таймера
func (q *Queue) run(id uuid.UUID, kind string, payload []byte) {
	defer q.wg.Done()

	q.mu.Lock()
	delete(q.pending, id)
	handler := q.handlers[kind]
	stopped := q.stopped
	if q.metrics != nil {
		q.metrics.SetTasksPending(len(q.pending))
	}
	q.mu.Unlock()

	if stopped {
		q.log.Warn("Tasks: dropping task %s kind=%s - queue is stopped", id, kind)
		return
	}

	err := handler(q.baseCtx, payload)
	if q.metrics != nil {
		q.metrics.TaskProcessed(kind, err)
	}

	if err != nil {
		q.log.Error("Tasks: task %s kind=%s failed: %v", id, kind, err)
		return
	}

	q.log.Info("Tasks: task %s kind=%s done", id, kind)
}

// Stop останавливает очередь: отменяет несработавшие таймеры
// и дожидается завершения уже запущенных обработчиков
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true

	for id, timer := range q.pending {
		if timer.Stop() {
			// Таймер не успел сработать - обработчик не запустится
			q.wg.Done()
			delete(q.pending, id)
		}
	}
	if q.metrics != nil {
		q.metrics.SetTasksPending(len(q.pending))
	}
	q.mu.Unlock()

	q.cancel()
	q.wg.Wait()

	q.log.Info("Tasks: queue stopped")
}

// Pending возвращает количество задач, ожидающих выполнения
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.pending)
}
