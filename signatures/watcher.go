package signatures

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/levinOo/go-microengine-utils/internal/logger"
)

// DefaultDebounce задает окно, в котором изменения каталога баз
// схлопываются в одно уведомление. Обновление антивирусных баз трогает
// десятки файлов подряд, и реагировать нужно один раз на всю пачку.
const DefaultDebounce = 500 * time.Millisecond

// Watcher следит за каталогом баз сигнатур и сообщает об их обновлении.
type Watcher struct {
	fw       *fsnotify.Watcher
	events   chan string
	done     chan struct{}
	debounce time.Duration
	log      *zap.SugaredLogger
}

// WatcherOption настраивает Watcher.
type WatcherOption func(*Watcher)

// WithDebounce задаёт окно схлопывания изменений.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithLogger задаёт логгер наблюдателя.
func WithLogger(log *zap.SugaredLogger) WatcherOption {
	return func(w *Watcher) {
		w.log = log
	}
}

// Watch начинает следить за каталогом баз сигнатур dir.
func Watch(dir string, opts ...WatcherOption) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		fw:       fw,
		events:   make(chan string, 1),
		done:     make(chan struct{}),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.NewLogger()
	}

	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	go w.loop()
	return w, nil
}

// Events возвращает канал уведомлений об обновлении баз. Значение в канале
// содержит путь последнего изменённого файла; после Close канал закрывается.
func (w *Watcher) Events() <-chan string {
	return w.events
}

// Close останавливает наблюдение и закрывает канал Events.
// Повторный вызов недопустим.
func (w *Watcher) Close() error {
	close(w.done)
	if err := w.fw.Close(); err != nil {
		return fmt.Errorf("failed to close file watcher: %w", err)
	}
	return nil
}

func (w *Watcher) loop() {
	defer close(w.events)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)

	for {
		select {
		case event, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			w.log.Debugw("signature directory changed", "file", event.Name, "op", event.Op.String())
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer = nil
			timerC = nil
			w.log.Infow("signature update detected", "file", pending)
			select {
			case w.events <- pending:
			case <-w.done:
				return
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.log.Warnw("signature watcher error", "error", err)
		case <-w.done:
			return
		}
	}
}
