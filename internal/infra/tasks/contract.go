package tasks

import "context"

// Handler обработчик отложенной задачи одного типа
// Получает сериализованные аргументы задачи (JSON)
type Handler func(ctx context.Context, payload []byte) error

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Collector интерфейс сбора метрик очереди
type Collector interface {
	TaskScheduled(kind string)
	TaskProcessed(kind string, err error)
	SetTasksPending(n int)
}
