package metrics

import (
	"sync"
	"time"
)

// Timer измеряет длительность ограниченного блока работы.
// Создаётся методом Handle.Timer, завершается вызовом Stop:
//
//	t := handle.Timer(metrics.ScanTime)
//	defer t.Stop()
//
// Stop отправляет ровно один сэмпл длительности за время жизни таймера,
// сколько бы раз его ни вызвали. В связке с defer это гарантирует один
// сэмпл на каждый вход в блок независимо от пути выхода, включая панику:
// неудавшиеся сканирования тоже попадают в тайминги.
type Timer struct {
	h     *Handle
	name  string
	tags  []string
	start time.Time
	once  sync.Once
}

// Timer начинает измерение длительности. Теги вызова фиксируются на
// старте и сливаются с тегами Handle при отправке.
func (h *Handle) Timer(name string, tags ...string) *Timer {
	return &Timer{
		h:     h,
		name:  name,
		tags:  tags,
		start: time.Now(),
	}
}

// Stop завершает измерение и отправляет сэмпл длительности.
// Повторные вызовы не отправляют ничего.
func (t *Timer) Stop() {
	t.once.Do(func() {
		t.h.Timing(t.name, time.Since(t.start), t.tags...)
	})
}
