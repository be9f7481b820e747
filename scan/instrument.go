package scan

import (
	"context"
	"errors"

	"github.com/levinOo/go-microengine-utils/metrics"
)

// ScanFunc описывает функцию сканирования одного артефакта. guid
// идентифицирует задание в логах и на стороне маркетплейса.
type ScanFunc func(ctx context.Context, guid string, kind ArtifactKind, content []byte) (*Result, error)

// ScannerInfoSource отдаёт описание сканера для вложения в вердикт.
// Реализуется config.EngineInfo.
type ScannerInfoSource interface {
	ScannerInfo() *ScannerInfo
}

// Instrument оборачивает функцию сканирования слоем учёта: замеряет
// длительность, считает исходы, преобразует ошибки сканирования в
// результат-отказ и вкладывает описание сканера в метаданные вердикта.
//
// Каждый вызов обёрнутой функции даёт ровно один замер времени
// (microengine.scan.time), в том числе при ошибке и панике. Счётчики
// исходов снимаются с тегом type:<вид артефакта>:
//
//   - Bit=true дает microengine.scan.success, плюс тег malware_family,
//     если семейство определено; при verbose дополнительно
//     microengine.scan.verdict с тегом verdict:malicious|benign;
//   - ошибка *Error дает microengine.scan.fail с тегом
//     scan_error:<событие>, вызывающему возвращается результат с
//     Bit=false и заполненным Metadata.ScanError, а не ошибка;
//   - Bit=false без ошибки дает microengine.scan.no-result.
//
// Ошибки, не являющиеся *Error, возвращаются как есть. Если info не nil,
// его описание попадает в Metadata.Scanner каждого результата.
func Instrument(h *metrics.Handle, info ScannerInfoSource, verbose bool, fn ScanFunc) ScanFunc {
	return func(ctx context.Context, guid string, kind ArtifactKind, content []byte) (*Result, error) {
		timer := h.Timer(metrics.ScanTime)
		defer timer.Stop()

		result, err := fn(ctx, guid, kind, content)

		// Тайминг снимается до счётчиков исходов; повторный Stop
		// из defer уже ничего не отправит.
		timer.Stop()

		if err != nil {
			var scanErr *Error
			if !errors.As(err, &scanErr) {
				return result, err
			}
			result = failureResult(scanErr)
		}
		if result == nil {
			result = &Result{}
		}

		countOutcome(h, result, kind, verbose)
		attachScannerInfo(result, info)
		return result, nil
	}
}

// failureResult строит результат-отказ по ошибке сканирования.
func failureResult(e *Error) *Result {
	return &Result{
		Bit:     false,
		Verdict: false,
		Metadata: &Verdict{
			MalwareFamily: "",
			ScanError:     e.EventName(),
		},
	}
}

func countOutcome(h *metrics.Handle, result *Result, kind ArtifactKind, verbose bool) {
	tags := []string{"type:" + kind.String()}

	if result.Bit {
		if result.Metadata != nil && result.Metadata.MalwareFamily != "" {
			tags = append(tags, "malware_family:"+result.Metadata.MalwareFamily)
		}
		if verbose {
			verdict := "verdict:benign"
			if result.Verdict {
				verdict = "verdict:malicious"
			}
			h.Increment(metrics.ScanVerdict, append(tags, verdict)...)
		}
		h.Increment(metrics.ScanSuccess, tags...)
		return
	}

	if result.Metadata != nil && result.Metadata.ScanError != "" {
		h.Increment(metrics.ScanFail, append(tags, "scan_error:"+result.Metadata.ScanError)...)
		return
	}

	h.Increment(metrics.ScanNoResult, tags...)
}

func attachScannerInfo(result *Result, info ScannerInfoSource) {
	if info == nil {
		return
	}
	si := info.ScannerInfo()
	if si == nil {
		return
	}
	if result.Metadata == nil {
		result.Metadata = &Verdict{}
	}
	result.Metadata.Scanner = si
}
