// Package metrics настраивает отправку операционных метрик микродвижка
// в Datadog через DogStatsD.
//
// Configure принимает идентификацию сканера (имя движка, платформу,
// окружение, имя пода) и возвращает Handle с зафиксированным набором
// тегов по умолчанию и namespace-префиксом, чтобы вызывающий код нигде
// не собирал строки тегов вручную.
//
// Метрики здесь считаются наблюдаемостью, а не основной
// функциональностью: ни один метод пакета не возвращает ошибку отправки
// и не паникует. Без учётных данных Datadog Handle молча переходит в
// no-op режим.
package metrics

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"
	"go.uber.org/zap"

	"github.com/levinOo/go-microengine-utils/audit"
	"github.com/levinOo/go-microengine-utils/internal/logger"
)

const (
	// DefaultNamespace задает префикс всех имён метрик. Движки
	// различаются тегом engine_name, а не префиксом, поэтому имена
	// метрик у всех движков совпадают.
	DefaultNamespace = "polyswarm"

	// DefaultStatsdAddr задает адрес DogStatsD-агента по умолчанию.
	// Используется, когда адрес не задан ни опцией, ни переменной
	// окружения DD_AGENT_HOST.
	DefaultStatsdAddr = "127.0.0.1:8125"
)

// Handle отправляет метрики с зафиксированным набором тегов по умолчанию.
// Создаётся через Configure и безопасен для конкурентного использования:
// после создания состояние Handle не изменяется, а транспорт statsd
// потокобезопасен сам по себе.
type Handle struct {
	client  statsd.ClientInterface
	tags    []string
	log     *zap.SugaredLogger
	auditer *audit.Auditer
}

type options struct {
	tags      []string
	namespace string
	addr      string
	client    statsd.ClientInterface
	log       *zap.SugaredLogger
	consumers []audit.Consumer
}

// Option настраивает Configure.
type Option func(*options)

// WithTags полностью заменяет набор тегов по умолчанию.
func WithTags(tags []string) Option {
	return func(o *options) { o.tags = tags }
}

// WithNamespace заменяет namespace-префикс имён метрик.
func WithNamespace(namespace string) Option {
	return func(o *options) { o.namespace = namespace }
}

// WithStatsdAddr задаёт адрес DogStatsD-агента (host:port или unix-сокет).
func WithStatsdAddr(addr string) Option {
	return func(o *options) { o.addr = addr }
}

// WithClient подставляет готовый statsd-клиент вместо создания нового.
// Транспорт передаётся явно, поэтому Handle остаётся тестируемым без сети.
func WithClient(client statsd.ClientInterface) Option {
	return func(o *options) { o.client = client }
}

// WithLogger задаёт логгер пакета. Без опции создаётся логгер по умолчанию.
func WithLogger(sugar *zap.SugaredLogger) Option {
	return func(o *options) { o.log = sugar }
}

// WithConsumer регистрирует подписчика аудита: он получает каждую эмиссию,
// отправленную через Handle, включая эмиссии в no-op режиме.
func WithConsumer(c audit.Consumer) Option {
	return func(o *options) { o.consumers = append(o.consumers, c) }
}

// Configure создаёт Handle для отправки метрик движка.
//
// Порядок параметров повторяет контракт configure_metrics:
// ключи Datadog, имя движка, тип ОС, окружение (poly_work), имя пода.
// Теги по умолчанию, в фиксированном порядке:
//
//	poly_work:<polyWork>, engine_name:<engineName>, pod_name:<source>, os:<osType>
//
// плюс литеральный тег testing, если polyWork == "local".
//
// Когда оба ключа Datadog пустые, Handle отключён: вызовы принимаются,
// но уходят в no-op клиент (и в лог, если не зарегистрированы другие
// подписчики аудита). Configure никогда не возвращает ошибку и не ходит
// в сеть: датаграммы DogStatsD отправляются без подключения, а ошибка
// создания клиента приводит к тому же no-op режиму.
func Configure(apiKey, appKey, engineName, osType, polyWork, source string, opts ...Option) *Handle {
	o := options{namespace: DefaultNamespace}
	for _, opt := range opts {
		opt(&o)
	}

	sugar := o.log
	if sugar == nil {
		sugar = logger.NewLogger()
	}

	tags := o.tags
	if tags == nil {
		tags = []string{
			"poly_work:" + polyWork,
			"engine_name:" + engineName,
			"pod_name:" + source,
			"os:" + osType,
		}
		if polyWork == "local" {
			tags = append(tags, "testing")
		}
	}

	auditer := &audit.Auditer{}
	for _, c := range o.consumers {
		auditer.RegisterClient(c)
	}

	client := o.client
	if client == nil {
		if apiKey == "" && appKey == "" {
			sugar.Warnw("datadog keys are not set, metrics reporting disabled",
				"engine_name", engineName,
				"poly_work", polyWork,
			)
			if auditer.Empty() {
				auditer.RegisterClient(audit.NewLogConsumer(sugar))
			}
			client = &statsd.NoOpClient{}
		} else {
			addr := o.addr
			if addr == "" && os.Getenv("DD_AGENT_HOST") == "" {
				addr = DefaultStatsdAddr
			}

			c, err := statsd.New(addr, statsd.WithNamespace(o.namespace))
			if err != nil {
				sugar.Errorw("failed to create statsd client, metrics reporting disabled",
					"addr", addr,
					"error", err,
				)
				client = &statsd.NoOpClient{}
			} else {
				sugar.Infow("metrics reporting configured",
					"engine_name", engineName,
					"poly_work", polyWork,
					"namespace", o.namespace,
				)
				client = c
			}
		}
	}

	return &Handle{
		client:  client,
		tags:    tags,
		log:     sugar,
		auditer: auditer,
	}
}

// Tags возвращает копию тегов Handle по умолчанию.
func (h *Handle) Tags() []string {
	out := make([]string, len(h.tags))
	copy(out, h.tags)
	return out
}

// Increment отправляет инкремент счётчика на единицу.
// Теги вызова сливаются с тегами по умолчанию, при совпадении ключа
// тег вызова вытесняет тег по умолчанию.
func (h *Handle) Increment(name string, tags ...string) {
	h.Count(name, 1, tags...)
}

// Count отправляет изменение счётчика на произвольную дельту.
func (h *Handle) Count(name string, value int64, tags ...string) {
	merged := MergeTags(h.tags, tags)
	h.notify(audit.KindCount, name, float64(value), merged)

	if err := h.client.Count(name, value, merged, 1); err != nil {
		h.log.Debugw("failed to send metric", "name", name, "error", err)
	}
}

// Gauge отправляет текущее значение измерения.
func (h *Handle) Gauge(name string, value float64, tags ...string) {
	merged := MergeTags(h.tags, tags)
	h.notify(audit.KindGauge, name, value, merged)

	if err := h.client.Gauge(name, value, merged, 1); err != nil {
		h.log.Debugw("failed to send metric", "name", name, "error", err)
	}
}

// Timing отправляет сэмпл длительности.
func (h *Handle) Timing(name string, d time.Duration, tags ...string) {
	merged := MergeTags(h.tags, tags)
	h.notify(audit.KindTiming, name, float64(d)/float64(time.Millisecond), merged)

	if err := h.client.Timing(name, d, merged, 1); err != nil {
		h.log.Debugw("failed to send metric", "name", name, "error", err)
	}
}

// Flush принудительно сбрасывает буферизованные метрики в транспорт.
// Вызывается движком при остановке; ошибки сброса только логируются.
func (h *Handle) Flush() {
	if err := h.client.Flush(); err != nil {
		h.log.Debugw("failed to flush metrics", "error", err)
	}
}

// Close сбрасывает буферы и закрывает statsd-клиент.
func (h *Handle) Close() error {
	if err := h.client.Close(); err != nil {
		return fmt.Errorf("failed to close statsd client: %w", err)
	}
	return nil
}

func (h *Handle) notify(kind, name string, value float64, tags []string) {
	if h.auditer.Empty() {
		return
	}

	h.auditer.Notify(audit.Emission{
		TS:    time.Now().Unix(),
		Kind:  kind,
		Name:  name,
		Value: value,
		Tags:  tags,
	})
}

// MergeTags сливает теги вызова с тегами по умолчанию.
// Порядок тегов по умолчанию сохраняется; тег вызова с тем же ключом
// (частью до ':') вытесняет тег по умолчанию; теги без значения
// (например, testing) дедуплицируются по полной строке. Результатом
// всегда служит новый слайс, исходные не изменяются.
func MergeTags(defaults, extra []string) []string {
	if len(extra) == 0 {
		out := make([]string, len(defaults))
		copy(out, defaults)
		return out
	}

	merged := make([]string, 0, len(defaults)+len(extra))
	for _, tag := range defaults {
		if !overridden(tag, extra) {
			merged = append(merged, tag)
		}
	}
	return append(merged, extra...)
}

// overridden сообщает, вытесняется ли тег по умолчанию одним из тегов вызова.
func overridden(def string, extra []string) bool {
	key, _, hasValue := strings.Cut(def, ":")
	for _, tag := range extra {
		if !hasValue {
			if tag == def {
				return true
			}
			continue
		}

		if extraKey, _, ok := strings.Cut(tag, ":"); ok && extraKey == key {
			return true
		}
	}
	return false
}
