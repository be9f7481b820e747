// Package audit реализует систему аудита отправленных метрик.
// Использует паттерн Observer для уведомления различных подписчиков
// об эмиссиях метрик: тесты проверяют отправленное через Recorder,
// а движок без учётных данных Datadog пишет эмиссии в лог или файл
// вместо сети.
package audit

import (
	"log"
	"os"
	"sync"

	"github.com/mailru/easyjson"
	"go.uber.org/zap"
)

// Consumer определяет интерфейс потребителя событий аудита.
// Реализации этого интерфейса обрабатывают эмиссии различными способами
// (накопление в памяти, запись в лог, запись в файл).
type Consumer interface {
	// Update обрабатывает одну эмиссию метрики.
	Update(e Emission)
}

// Auditer координирует доставку эмиссий зарегистрированным подписчикам.
// Реализует паттерн Observer; безопасен для конкурентного вызова Notify,
// так как список подписчиков фиксируется на этапе конфигурации.
type Auditer struct {
	clients []Consumer
}

// RegisterClient добавляет нового подписчика в список получателей уведомлений.
// Вызывается только при конфигурации, до начала отправки метрик.
func (a *Auditer) RegisterClient(c Consumer) {
	a.clients = append(a.clients, c)
}

// Notify доставляет эмиссию всем зарегистрированным подписчикам.
func (a *Auditer) Notify(e Emission) {
	for _, client := range a.clients {
		client.Update(e)
	}
}

// Empty сообщает, зарегистрирован ли хотя бы один подписчик.
func (a *Auditer) Empty() bool {
	return len(a.clients) == 0
}

// Recorder накапливает эмиссии в памяти.
// Основной инструмент тестов: позволяет проверить, какие метрики
// и с какими тегами были отправлены через Handle.
type Recorder struct {
	mu        sync.Mutex
	emissions []Emission
}

// NewRecorder создаёт новый пустой Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Update добавляет эмиссию в накопленный список.
func (r *Recorder) Update(e Emission) {
	r.mu.Lock()
	r.emissions = append(r.emissions, e)
	r.mu.Unlock()
}

// Emissions возвращает копию накопленных эмиссий.
func (r *Recorder) Emissions() []Emission {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Emission, len(r.emissions))
	copy(out, r.emissions)
	return out
}

// ByName возвращает эмиссии с указанным именем метрики.
func (r *Recorder) ByName(name string) []Emission {
	var out []Emission
	for _, e := range r.Emissions() {
		if e.Name == name {
			out = append(out, e)
		}
	}
	return out
}

// Reset очищает накопленные эмиссии.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.emissions = nil
	r.mu.Unlock()
}

// LogConsumer пишет каждую эмиссию в zap-лог на уровне debug.
// Регистрируется автоматически, когда Handle работает без учётных данных,
// чтобы локальный запуск видел, что было бы отправлено.
type LogConsumer struct {
	log *zap.SugaredLogger
}

// NewLogConsumer создаёт LogConsumer поверх переданного логгера.
func NewLogConsumer(sugar *zap.SugaredLogger) *LogConsumer {
	return &LogConsumer{log: sugar}
}

// Update пишет эмиссию в лог.
func (c *LogConsumer) Update(e Emission) {
	c.log.Debugw("metric emission",
		"kind", e.Kind,
		"name", e.Name,
		"value", e.Value,
		"tags", e.Tags,
	)
}

// FileConsumer дописывает эмиссии в JSONL-файл.
// Каждая эмиссия сериализуется easyjson и записывается отдельной строкой,
// файл пригоден для offline-сравнения метрик между запусками.
type FileConsumer struct {
	path string
}

// NewFileConsumer создаёт новый FileConsumer для записи в указанный файл.
// Параметры:
//
//	path: путь к файлу для записи эмиссий
func NewFileConsumer(path string) *FileConsumer {
	return &FileConsumer{
		path: path,
	}
}

// Update дописывает эмиссию в файл.
// Если путь пустой, операция пропускается. Ошибки записи не
// останавливают движок: они попадают в лог и эмиссия теряется.
func (c *FileConsumer) Update(e Emission) {
	if c.path == "" {
		return
	}

	data, err := easyjson.Marshal(e)
	if err != nil {
		log.Printf("json.Marshal error: %v", err)
		return
	}

	f, err := os.OpenFile(c.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("failed to open file %s: %v", c.path, err)
		return
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		log.Printf("write file error: %v", err)
		return
	}
}
