package scan

import (
	"fmt"
)

// Имена событий ошибок сканирования. Значения исторические, по ним
// построены теги scan_error и дашборды, менять нельзя.
const (
	EventMalformedResponse   = "MalformedResponse"
	EventTimeout             = "Timeout"
	EventCalledProcess       = "CalledProcess"
	EventCommandNotFound     = "CommandNotFound"
	EventFileSkipped         = "FileSkipped"
	EventIllegalFileType     = "IllegalFileType"
	EventFileEncrypted       = "FileEncrypted"
	EventFileCorrupted       = "FileCorrupted"
	EventHighCompression     = "HighCompression"
	EventSignaturesMissing   = "SignaturesMissingError"
	EventMalformedSignatures = "MalformedSignatures"
	EventServerNotReady      = "ServerNotReady"
	EventServerTransport     = "ServerTransportError"
	EventUnprocessable       = "Unprocessable"
)

// Error представляет ошибку сканирования. Event определяет её класс и
// попадает в тег scan_error и в поле scan_error вердикта; Detail и Err
// уточняют причину для логов.
type Error struct {
	Event  string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	switch {
	case e.Detail != "" && e.Err != nil:
		return fmt.Sprintf("scan error %s: %s: %v", e.Event, e.Detail, e.Err)
	case e.Detail != "":
		return fmt.Sprintf("scan error %s: %s", e.Event, e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("scan error %s: %v", e.Event, e.Err)
	default:
		return "scan error " + e.Event
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// EventName возвращает имя события для тега scan_error.
func (e *Error) EventName() string {
	return e.Event
}

// Skipped сообщает, что артефакт был пропущен осознанно, а не из-за
// сбоя сканера, и повторять сканирование бессмысленно.
func (e *Error) Skipped() bool {
	switch e.Event {
	case EventFileSkipped, EventIllegalFileType, EventFileEncrypted,
		EventFileCorrupted, EventHighCompression:
		return true
	}
	return false
}

// NewMalformedResponseError сообщает, что ответ сканера не удалось разобрать.
func NewMalformedResponseError(output string) *Error {
	return &Error{Event: EventMalformedResponse, Detail: output}
}

// NewTimeoutError сообщает, что сканирование не уложилось в отведённое время.
func NewTimeoutError() *Error {
	return &Error{Event: EventTimeout}
}

// NewCalledProcessError сообщает, что процесс сканера завершился аварийно.
func NewCalledProcessError(cmd string, err error) *Error {
	return &Error{Event: EventCalledProcess, Detail: cmd, Err: err}
}

// NewCommandNotFoundError сообщает, что исполняемый файл сканера не найден.
func NewCommandNotFoundError(cmd string) *Error {
	return &Error{Event: EventCommandNotFound, Detail: cmd}
}

// NewFileSkippedError сообщает, что сканер отказался обрабатывать файл.
func NewFileSkippedError() *Error {
	return &Error{Event: EventFileSkipped}
}

// NewIllegalFileTypeError сообщает, что тип файла не поддерживается сканером.
func NewIllegalFileTypeError() *Error {
	return &Error{Event: EventIllegalFileType}
}

// NewFileEncryptedError сообщает, что файл зашифрован и не может быть проверен.
func NewFileEncryptedError() *Error {
	return &Error{Event: EventFileEncrypted}
}

// NewFileCorruptedError сообщает, что файл повреждён.
func NewFileCorruptedError() *Error {
	return &Error{Event: EventFileCorrupted}
}

// NewHighCompressionError сообщает, что файл отклонён из-за подозрительно
// высокой степени сжатия (защита от zip-бомб).
func NewHighCompressionError() *Error {
	return &Error{Event: EventHighCompression}
}

// NewSignaturesMissingError сообщает, что базы сигнатур отсутствуют.
func NewSignaturesMissingError() *Error {
	return &Error{Event: EventSignaturesMissing}
}

// NewMalformedSignaturesError сообщает, что базы сигнатур повреждены.
func NewMalformedSignaturesError() *Error {
	return &Error{Event: EventMalformedSignatures}
}

// NewServerNotReadyError сообщает, что фоновый сервис сканера ещё не готов.
func NewServerNotReadyError(detail string) *Error {
	return &Error{Event: EventServerNotReady, Detail: detail}
}

// NewServerTransportError сообщает об ошибке обмена с фоновым сервисом сканера.
func NewServerTransportError(err error) *Error {
	return &Error{Event: EventServerTransport, Err: err}
}

// NewUnprocessableError сообщает, что артефакт невозможно обработать.
func NewUnprocessableError() *Error {
	return &Error{Event: EventUnprocessable}
}
