package metrics

// Канонические имена метрик, общие для всех микродвижков.
// Каждый движок отчитывается под одними и теми же именами, различаясь
// только тегом engine_name, поэтому дашборды агрегируются единообразно.
const (
	// HTTPRequest считает HTTP-запросы движка к vendor-демону.
	HTTPRequest = "microengine.http"

	// HTTPResponseTimer измеряет длительность HTTP-запроса к vendor-демону.
	HTTPResponseTimer = "microengine.request.time"

	// ScanSuccess считает сканирования, завершившиеся вердиктом.
	ScanSuccess = "microengine.scan.success"

	// ScanFail считает сканирования, завершившиеся ошибкой сканера.
	ScanFail = "microengine.scan.fail"

	// ScanExpired считает сканирования, не уложившиеся в дедлайн раунда.
	ScanExpired = "microengine.scan.expired"

	// ScanTypeValid считает артефакты, тип которых движок поддерживает.
	ScanTypeValid = "microengine.scan.valid-type"

	// ScanTypeInvalid считает артефакты неподдерживаемого типа.
	ScanTypeInvalid = "microengine.scan.invalid-type"

	// ScanNoResult считает сканирования без результата (bit=false без ошибки).
	ScanNoResult = "microengine.scan.no-result"

	// ScanTime измеряет полную длительность сканирования.
	ScanTime = "microengine.scan.time"

	// ScanVerdict считает вердикты с разбивкой malicious/benign (verbose-режим).
	ScanVerdict = "microengine.scan.verdict"
)

// Имена метрик состояния процесса и хоста, отправляются пакетом sysstats.
const (
	SysTotalMemory = "microengine.sys.total-memory"
	SysFreeMemory  = "microengine.sys.free-memory"
	SysCPUCount    = "microengine.sys.cpu-count"
	ProcHeapAlloc  = "microengine.proc.heap-alloc"
	ProcGoroutines = "microengine.proc.goroutines"
)
