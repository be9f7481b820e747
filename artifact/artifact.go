// Package artifact управляет файлами артефактов на диске: временные
// файлы для передачи содержимого консольным сканерам, преобразование
// путей для движков под wine и доступ к файлам вендора.
package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tempfile представляет временный файл артефакта. Большинство консольных
// сканеров принимают только путь на диске, поэтому содержимое артефакта
// записывается во временный файл, который всегда удаляется после
// сканирования.
type Tempfile struct {
	// Name содержит путь к файлу артефакта.
	Name string
}

// NewTempfile записывает блоб в файл артефакта и возвращает Tempfile.
// Пустое имя дает файл artifact-<uuid> во временном каталоге. При nil
// блобе запись пропускается: так можно обернуть уже существующий файл,
// чтобы Remove удалил его после сканирования.
//
// Файл создается без права исполнения, вызывающий обязан удалить его
// через Remove вне зависимости от исхода сканирования.
func NewTempfile(blob []byte, filename string) (*Tempfile, error) {
	name := filename
	if name == "" {
		name = filepath.Join(os.TempDir(), "artifact-"+uuid.NewString())
	}

	if blob != nil {
		if err := os.WriteFile(name, blob, 0o666); err != nil {
			return nil, fmt.Errorf("failed to write artifact %s: %w", name, err)
		}
	}

	return &Tempfile{Name: name}, nil
}

// Remove удаляет файл артефакта. Уже отсутствующий файл ошибкой не считается.
func (t *Tempfile) Remove() error {
	if err := os.Remove(t.Name); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove artifact %s: %w", t.Name, err)
	}
	return nil
}

// Do записывает блоб во временный файл, вызывает fn с его путем
// и удаляет файл после возврата, в том числе при ошибке fn.
func Do(blob []byte, fn func(path string) error) error {
	tmp, err := NewTempfile(blob, "")
	if err != nil {
		return err
	}
	defer tmp.Remove()

	return fn(tmp.Name)
}

// AsWinePath преобразует Unix-путь в соответствующий путь WinNT
// на диске Z: внутри wine.
func AsWinePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}
	return "Z:" + strings.ReplaceAll(abs, "/", `\`), nil
}

// Форматы вывода утилиты winepath.
const (
	WinepathUnix    = "unix"
	WinepathWindows = "windows"
	WinepathDOS     = "dos"
)

// Winepath вызывает утилиту winepath, преобразуя путь средствами самого
// wine. Для обычных Unix-путей AsWinePath заметно быстрее; winepath
// нужен для нестандартных префиксов и обратного преобразования.
// Вызов ограничен двумя секундами.
func Winepath(ctx context.Context, path, output string) (string, error) {
	var flag string
	switch output {
	case WinepathUnix:
		flag = "-u"
	case WinepathWindows:
		flag = "-w"
	case WinepathDOS:
		flag = "-s"
	default:
		return "", fmt.Errorf("unknown winepath output format: %s", output)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path %s: %w", path, err)
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "winepath", flag, abs).Output()
	if err != nil {
		return "", fmt.Errorf("failed to run winepath: %w", err)
	}

	line, _, _ := strings.Cut(string(out), "\n")
	return strings.TrimSpace(line), nil
}

// VendorPath строит путь к файлу внутри каталога вендора и проверяет
// его наличие.
func VendorPath(vendorDir string, parts ...string) (string, error) {
	p := filepath.Join(append([]string{vendorDir}, parts...)...)
	if _, err := os.Stat(p); err != nil {
		return "", fmt.Errorf("vendor file %s: %w", p, err)
	}
	return p, nil
}

// ContentType угадывает MIME-тип содержимого артефакта по его сигнатуре.
func ContentType(content []byte) string {
	return http.DetectContentType(content)
}
