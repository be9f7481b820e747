// Package signatures отслеживает базы сигнатур движка: классифицирует
// ошибки их обновления и следит за изменениями каталога баз на диске,
// чтобы движок мог перечитать версию сигнатур после обновления.
package signatures

import (
	"fmt"
)

// События ошибок обновления баз сигнатур.
const (
	// EventTransport означает, что базы не удалось скачать.
	EventTransport = "Transport"

	// EventMalformed означает, что скачанные базы не прошли проверку.
	EventMalformed = "Malformed"

	// EventUpdate означает, что установка баз завершилась ошибкой.
	EventUpdate = "Update"
)

// UpdateError представляет ошибку обновления баз сигнатур.
type UpdateError struct {
	Event string
	Err   error
}

func (e *UpdateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("signature update failed (%s): %v", e.Event, e.Err)
	}
	return fmt.Sprintf("signature update failed (%s)", e.Event)
}

func (e *UpdateError) Unwrap() error {
	return e.Err
}

// NewTransportError сообщает, что базы сигнатур не удалось скачать.
func NewTransportError(err error) *UpdateError {
	return &UpdateError{Event: EventTransport, Err: err}
}

// NewMalformedError сообщает, что скачанные базы повреждены.
func NewMalformedError(err error) *UpdateError {
	return &UpdateError{Event: EventMalformed, Err: err}
}

// NewUpdateError сообщает, что установка баз завершилась ошибкой.
func NewUpdateError(err error) *UpdateError {
	return &UpdateError{Event: EventUpdate, Err: err}
}
