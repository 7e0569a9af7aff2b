package sheetsync

import "errors"

var (
	// ErrTransport возвращается при сетевой ошибке, таймауте или не-2xx ответе
	// Такие ошибки считаются временными и подлежат повтору
	ErrTransport = errors.New("sheetsync client: transport error")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("sheetsync client: internal error")
)
