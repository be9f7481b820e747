package scan

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"go.uber.org/zap"

	"github.com/levinOo/go-microengine-utils/audit"
	"github.com/levinOo/go-microengine-utils/metrics"
)

// newRecordedHandle возвращает Handle без тегов по умолчанию и Recorder,
// накапливающий все эмиссии.
func newRecordedHandle() (*metrics.Handle, *audit.Recorder) {
	rec := audit.NewRecorder()
	h := metrics.Configure("", "", "engine", "linux", "prod", "pod",
		metrics.WithTags([]string{}),
		metrics.WithLogger(zap.NewNop().Sugar()),
		metrics.WithConsumer(rec),
	)
	return h, rec
}

type staticInfo struct {
	si *ScannerInfo
}

func (s staticInfo) ScannerInfo() *ScannerInfo { return s.si }

// TestInstrumentOutcomes проверяет выбор счётчика и сборку тегов
// для всех исходов сканирования.
func TestInstrumentOutcomes(t *testing.T) {
	info := staticInfo{si: &ScannerInfo{
		VendorVersion:     "vendorver1",
		SignaturesVersion: "sigversion",
	}}

	tests := []struct {
		name        string
		kind        ArtifactKind
		result      *Result
		err         error
		verbose     bool
		wantName    string
		wantTags    []string
		wantVerdict []string
	}{
		{
			name:        "malicious file verbose",
			kind:        FileArtifact,
			result:      &Result{Bit: true, Verdict: true, Metadata: &Verdict{MalwareFamily: "MALWARE"}},
			verbose:     true,
			wantName:    metrics.ScanSuccess,
			wantTags:    []string{"type:file", "malware_family:MALWARE"},
			wantVerdict: []string{"type:file", "malware_family:MALWARE", "verdict:malicious"},
		},
		{
			name:        "benign url verbose",
			kind:        URLArtifact,
			result:      &Result{Bit: true, Verdict: false, Metadata: &Verdict{}},
			verbose:     true,
			wantName:    metrics.ScanSuccess,
			wantTags:    []string{"type:url"},
			wantVerdict: []string{"type:url", "verdict:benign"},
		},
		{
			name:     "success without verbose",
			kind:     FileArtifact,
			result:   &Result{Bit: true, Verdict: true, Metadata: &Verdict{MalwareFamily: "EICAR"}},
			wantName: metrics.ScanSuccess,
			wantTags: []string{"type:file", "malware_family:EICAR"},
		},
		{
			name:     "no result",
			kind:     FileArtifact,
			result:   &Result{Bit: false},
			wantName: metrics.ScanNoResult,
			wantTags: []string{"type:file"},
		},
		{
			name:     "nil result counts as no result",
			kind:     FileArtifact,
			wantName: metrics.ScanNoResult,
			wantTags: []string{"type:file"},
		},
		{
			name:     "raised scan error",
			kind:     FileArtifact,
			err:      NewTimeoutError(),
			wantName: metrics.ScanFail,
			wantTags: []string{"type:file", "scan_error:Timeout"},
		},
		{
			name:     "reported scan error without raise",
			kind:     URLArtifact,
			result:   &Result{Bit: false, Metadata: &Verdict{ScanError: EventServerNotReady}},
			wantName: metrics.ScanFail,
			wantTags: []string{"type:url", "scan_error:ServerNotReady"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, rec := newRecordedHandle()

			fn := Instrument(h, info, tt.verbose, func(ctx context.Context, guid string, kind ArtifactKind, content []byte) (*Result, error) {
				if tt.err != nil {
					return nil, tt.err
				}
				return tt.result, nil
			})

			result, err := fn(context.Background(), "guid", tt.kind, []byte("content"))
			if err != nil {
				t.Fatalf("expected no error, got: %v", err)
			}

			if got := rec.ByName(metrics.ScanTime); len(got) != 1 {
				t.Errorf("expected exactly one timing sample, got: %d", len(got))
			}

			outcomes := rec.ByName(tt.wantName)
			if len(outcomes) != 1 {
				t.Fatalf("expected one %s emission, got: %d", tt.wantName, len(outcomes))
			}
			if !reflect.DeepEqual(outcomes[0].Tags, tt.wantTags) {
				t.Errorf("expected tags %v, got: %v", tt.wantTags, outcomes[0].Tags)
			}

			verdicts := rec.ByName(metrics.ScanVerdict)
			if tt.wantVerdict == nil {
				if len(verdicts) != 0 {
					t.Errorf("expected no verdict emissions, got: %d", len(verdicts))
				}
			} else {
				if len(verdicts) != 1 {
					t.Fatalf("expected one verdict emission, got: %d", len(verdicts))
				}
				if !reflect.DeepEqual(verdicts[0].Tags, tt.wantVerdict) {
					t.Errorf("expected verdict tags %v, got: %v", tt.wantVerdict, verdicts[0].Tags)
				}
			}

			if result.Metadata == nil || result.Metadata.Scanner == nil {
				t.Fatal("expected scanner info attached to metadata")
			}
			if result.Metadata.Scanner.SignaturesVersion != "sigversion" {
				t.Errorf("expected signatures_version sigversion, got: %s", result.Metadata.Scanner.SignaturesVersion)
			}
		})
	}
}

// TestInstrumentConvertsScanErrors проверяет, что ошибка сканирования,
// в том числе обёрнутая, превращается в результат-отказ, а не в ошибку.
func TestInstrumentConvertsScanErrors(t *testing.T) {
	h, rec := newRecordedHandle()

	wrapped := fmt.Errorf("engine crashed: %w", NewSignaturesMissingError())
	fn := Instrument(h, nil, false, func(ctx context.Context, guid string, kind ArtifactKind, content []byte) (*Result, error) {
		return nil, wrapped
	})

	result, err := fn(context.Background(), "guid", FileArtifact, nil)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if result.Bit || result.Verdict {
		t.Error("expected failure result with bit=false")
	}
	if result.Metadata == nil || result.Metadata.ScanError != EventSignaturesMissing {
		t.Fatalf("expected scan_error %s, got: %+v", EventSignaturesMissing, result.Metadata)
	}

	fails := rec.ByName(metrics.ScanFail)
	if len(fails) != 1 {
		t.Fatalf("expected one fail emission, got: %d", len(fails))
	}
	want := []string{"type:file", "scan_error:SignaturesMissingError"}
	if !reflect.DeepEqual(fails[0].Tags, want) {
		t.Errorf("expected tags %v, got: %v", want, fails[0].Tags)
	}
}

// TestInstrumentPassesThroughUnknownErrors проверяет, что ошибки,
// не относящиеся к сканированию, уходят вызывающему без счётчиков исходов.
func TestInstrumentPassesThroughUnknownErrors(t *testing.T) {
	h, rec := newRecordedHandle()

	sentinel := errors.New("engine exploded")
	fn := Instrument(h, nil, false, func(ctx context.Context, guid string, kind ArtifactKind, content []byte) (*Result, error) {
		return nil, sentinel
	})

	_, err := fn(context.Background(), "guid", FileArtifact, nil)
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected original error, got: %v", err)
	}

	if got := rec.ByName(metrics.ScanTime); len(got) != 1 {
		t.Errorf("expected timing even on failure, got: %d", len(got))
	}
	if got := rec.Emissions(); len(got) != 1 {
		t.Errorf("expected no outcome counters, got: %v", got)
	}
}

// TestInstrumentTimesPanickedScan проверяет, что паника в функции
// сканирования не теряет замер времени.
func TestInstrumentTimesPanickedScan(t *testing.T) {
	h, rec := newRecordedHandle()

	fn := Instrument(h, nil, false, func(ctx context.Context, guid string, kind ArtifactKind, content []byte) (*Result, error) {
		panic("scanner bug")
	})

	func() {
		defer func() {
			if recover() == nil {
				t.Fatal("expected panic to propagate")
			}
		}()
		fn(context.Background(), "guid", FileArtifact, nil)
	}()

	if got := rec.ByName(metrics.ScanTime); len(got) != 1 {
		t.Errorf("expected one timing sample after panic, got: %d", len(got))
	}
}

// TestInstrumentMergesHandleTags проверяет, что теги исхода дополняют
// теги Handle по умолчанию, а не заменяют их.
func TestInstrumentMergesHandleTags(t *testing.T) {
	rec := audit.NewRecorder()
	h := metrics.Configure("", "", "myengine", "linux", "local", "host1",
		metrics.WithLogger(zap.NewNop().Sugar()),
		metrics.WithConsumer(rec),
	)

	fn := Instrument(h, nil, false, func(ctx context.Context, guid string, kind ArtifactKind, content []byte) (*Result, error) {
		return &Result{Bit: true, Verdict: true}, nil
	})
	if _, err := fn(context.Background(), "guid", URLArtifact, nil); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	got := rec.ByName(metrics.ScanSuccess)
	if len(got) != 1 {
		t.Fatalf("expected one success emission, got: %d", len(got))
	}
	want := []string{"poly_work:local", "engine_name:myengine", "pod_name:host1", "os:linux", "testing", "type:url"}
	if !reflect.DeepEqual(got[0].Tags, want) {
		t.Errorf("expected tags %v, got: %v", want, got[0].Tags)
	}
}

func BenchmarkInstrument(b *testing.B) {
	h := metrics.Configure("", "", "eicar", "linux", "prod", "pod-1",
		metrics.WithLogger(zap.NewNop().Sugar()),
	)

	fn := Instrument(h, nil, false, func(ctx context.Context, guid string, kind ArtifactKind, content []byte) (*Result, error) {
		return &Result{Bit: true, Verdict: true}, nil
	})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := fn(ctx, "guid", FileArtifact, nil); err != nil {
			b.Fatal(err)
		}
	}
}
