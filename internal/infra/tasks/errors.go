package tasks

import "errors"

var (
	// ErrUnknownKind возвращается при постановке задачи незарегистрированного типа
	ErrUnknownKind = errors.New("tasks: unknown task kind")

	// ErrDuplicateKind возвращается при повторной регистрации обработчика
	ErrDuplicateKind = errors.New("tasks: handler already registered for kind")

	// ErrQueueStopped возвращается при постановке задачи в остановленную очередь
	ErrQueueStopped = errors.New("tasks: queue is stopped")

	// ErrMarshalArgs возвращается при ошибке сериализации аргументов задачи
	ErrMarshalArgs = errors.New("tasks: failed to marshal task args")
)
