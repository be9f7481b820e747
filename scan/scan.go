// Package scan содержит общий конверт результата сканирования,
// таксономию ошибок сканеров и обёртку Instrument, которая автоматически
// снимает метрики и обрабатывает ошибки вокруг функции сканирования движка.
package scan

// ArtifactKind определяет вид сканируемого артефакта.
type ArtifactKind int

// Виды артефактов
const (
	// FileArtifact означает, что артефакт передаётся как содержимое файла.
	FileArtifact ArtifactKind = iota

	// URLArtifact означает, что артефакт передаётся как URL.
	URLArtifact
)

// String возвращает значение для тега type (например, "type:file").
func (k ArtifactKind) String() string {
	switch k {
	case FileArtifact:
		return "file"
	case URLArtifact:
		return "url"
	default:
		return "unknown"
	}
}

// ScannerInfo описывает сканер, вынесший вердикт: платформу, архитектуру
// и версии обёртки, движка и сигнатур. Ключи JSON зафиксированы схемой
// вердикта и общие для всех движков.
type ScannerInfo struct {
	OperatingSystem   string `json:"operating_system,omitempty"`
	Architecture      string `json:"architecture,omitempty"`
	Version           string `json:"version,omitempty"`
	VendorVersion     string `json:"vendor_version,omitempty"`
	SignaturesVersion string `json:"signatures_version,omitempty"`
}

// Verdict содержит минимальные метаданные вердикта, которыми оперирует
// эта библиотека: семейство вредоноса, имя события ошибки сканирования
// и описание сканера. Полная схема вердикта принадлежит протокольному
// слою движка.
type Verdict struct {
	// MalwareFamily содержит семейство вредоноса или пустую строку.
	MalwareFamily string `json:"malware_family"`

	// ScanError содержит имя события ошибки сканирования (Error.EventName),
	// если сканирование завершилось ошибкой.
	ScanError string `json:"scan_error,omitempty"`

	// Scanner описывает сканер, вынесший вердикт.
	Scanner *ScannerInfo `json:"scanner,omitempty"`
}

// Result представляет результат одного сканирования.
type Result struct {
	// Bit сообщает, есть ли у движка ответ по артефакту.
	Bit bool

	// Verdict сообщает, вредоносен ли артефакт. Имеет смысл только
	// при Bit=true.
	Verdict bool

	// Metadata содержит метаданные вердикта; может быть nil, если движку
	// нечего сообщить.
	Metadata *Verdict
}
