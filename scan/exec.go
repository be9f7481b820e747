package scan

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// RunScanner запускает консольный сканер и возвращает код выхода и его
// вывод. Ненулевой код выхода ошибкой не считается: антивирусы кодом
// выхода сообщают вердикт. Ошибки запуска переводятся в *Error:
// отсутствие исполняемого файла в CommandNotFound, истечение ctx в
// Timeout, прочие сбои запуска в CalledProcess.
func RunScanner(ctx context.Context, name string, args ...string) (code int, stdout, stderr string, err error) {
	var outBuf, errBuf bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	runErr := cmd.Run()
	stdout = outBuf.String()
	stderr = errBuf.String()

	if runErr == nil {
		return cmd.ProcessState.ExitCode(), stdout, stderr, nil
	}

	if errors.Is(runErr, exec.ErrNotFound) {
		return 0, stdout, stderr, NewCommandNotFoundError(name)
	}

	// Контекст проверяется раньше ExitError: убитый по дедлайну процесс
	// тоже завершается с ExitError.
	if ctx.Err() != nil {
		return 0, stdout, stderr, NewTimeoutError()
	}

	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		return exitErr.ExitCode(), stdout, stderr, nil
	}

	return 0, stdout, stderr, NewCalledProcessError(name, runErr)
}
