// Package sysstats публикует gauge-метрики здоровья движка: память хоста,
// число процессоров и потребление самого процесса. Движки запускают
// репортер рядом с циклом сканирования, чтобы на дашбордах деградация
// сканера была видна вместе с деградацией хоста.
package sysstats

import (
	"context"
	"log"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/mem"

	"github.com/levinOo/go-microengine-utils/metrics"
)

// Collect снимает показатели один раз и публикует их через h.
func Collect(h *metrics.Handle) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	h.Gauge(metrics.ProcHeapAlloc, float64(stats.HeapAlloc))
	h.Gauge(metrics.ProcGoroutines, float64(runtime.NumGoroutine()))
	h.Gauge(metrics.SysCPUCount, float64(runtime.NumCPU()))

	memStat, err := mem.VirtualMemory()
	if err != nil {
		log.Printf("Error collecting memory metrics: %v", err)
		return
	}
	h.Gauge(metrics.SysTotalMemory, float64(memStat.Total))
	h.Gauge(metrics.SysFreeMemory, float64(memStat.Available))
}

// StartReporter публикует показатели каждые interval до отмены ctx.
// Первый снимок снимается сразу, не дожидаясь первого тика.
func StartReporter(ctx context.Context, h *metrics.Handle, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		Collect(h)
		for {
			select {
			case <-ticker.C:
				Collect(h)
			case <-ctx.Done():
				return
			}
		}
	}()
}
