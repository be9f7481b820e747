package config

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"go.uber.org/zap"

	"github.com/levinOo/go-microengine-utils/audit"
	"github.com/levinOo/go-microengine-utils/metrics"
)

// unsetenv снимает переменные окружения на время теста.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestNewSettingsDefaults(t *testing.T) {
	unsetenv(t,
		"DATADOG_API_KEY", "DATADOG_APP_KEY", "POLY_WORK",
		"MICROENGINE_NAME", "MICROENGINE_CMD_EXE", "MICROENGINE_INSTALL_DIR",
		"MICROENGINE_VENDOR_DIR", "MICROENGINE_SIGNATURE_DIR",
		"MICROENGINE_VERBOSE_METRICS", "WINEPATH",
	)

	cfg, err := NewSettings()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.PolyWork != "local" {
		t.Errorf("expected poly_work local, got: %s", cfg.PolyWork)
	}
	if cfg.InstallDir != "/usr/src/app" {
		t.Errorf("expected install dir /usr/src/app, got: %s", cfg.InstallDir)
	}
	if want := filepath.Join("/usr/src/app", "vendor"); cfg.VendorDir != want {
		t.Errorf("expected vendor dir %s, got: %s", want, cfg.VendorDir)
	}
	if cfg.WinePath != "/usr/bin/wine" {
		t.Errorf("expected wine path /usr/bin/wine, got: %s", cfg.WinePath)
	}
	if cfg.VerboseMetrics {
		t.Error("expected verbose metrics disabled by default")
	}
}

func TestNewSettingsFromEnvironment(t *testing.T) {
	t.Setenv("DATADOG_API_KEY", "api-key")
	t.Setenv("POLY_WORK", "prod")
	t.Setenv("MICROENGINE_NAME", "eicar")
	t.Setenv("MICROENGINE_CMD_EXE", "/opt/av/scan")
	t.Setenv("MICROENGINE_INSTALL_DIR", "/opt/av")
	t.Setenv("MICROENGINE_SIGNATURE_DIR", "/opt/av/defs")
	t.Setenv("MICROENGINE_VERBOSE_METRICS", "true")
	unsetenv(t, "MICROENGINE_VENDOR_DIR")

	cfg, err := NewSettings()
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if cfg.DatadogAPIKey != "api-key" {
		t.Errorf("expected api key api-key, got: %s", cfg.DatadogAPIKey)
	}
	if cfg.PolyWork != "prod" {
		t.Errorf("expected poly_work prod, got: %s", cfg.PolyWork)
	}
	if cfg.EngineName != "eicar" {
		t.Errorf("expected engine name eicar, got: %s", cfg.EngineName)
	}
	if cfg.EngineCmd != "/opt/av/scan" {
		t.Errorf("expected engine cmd /opt/av/scan, got: %s", cfg.EngineCmd)
	}
	if cfg.SignatureDir != "/opt/av/defs" {
		t.Errorf("expected signature dir /opt/av/defs, got: %s", cfg.SignatureDir)
	}
	if want := filepath.Join("/opt/av", "vendor"); cfg.VendorDir != want {
		t.Errorf("expected vendor dir %s, got: %s", want, cfg.VendorDir)
	}
	if !cfg.VerboseMetrics {
		t.Error("expected verbose metrics enabled")
	}
}

func TestSettingsOSType(t *testing.T) {
	wine := filepath.Join(t.TempDir(), "wine")
	if err := os.WriteFile(wine, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("expected wine stub written, got: %v", err)
	}

	s := &Settings{WinePath: wine}
	if got := s.OSType(); got != "wine" {
		t.Errorf("expected wine, got: %s", got)
	}

	s.WinePath = filepath.Join(t.TempDir(), "missing")
	if got := s.OSType(); got != "linux" {
		t.Errorf("expected linux, got: %s", got)
	}
}

// TestConfigureMetricsUsesSettings проверяет, что идентификация движка
// из настроек переходит в теги Handle.
func TestConfigureMetricsUsesSettings(t *testing.T) {
	rec := audit.NewRecorder()
	s := &Settings{
		EngineName: "myengine",
		PolyWork:   "local",
		PodName:    "pod-1",
		WinePath:   filepath.Join(t.TempDir(), "missing"),
	}

	h := s.ConfigureMetrics(
		metrics.WithLogger(zap.NewNop().Sugar()),
		metrics.WithConsumer(rec),
	)

	want := []string{"poly_work:local", "engine_name:myengine", "pod_name:pod-1", "os:linux", "testing"}
	if !reflect.DeepEqual(h.Tags(), want) {
		t.Errorf("expected tags %v, got: %v", want, h.Tags())
	}
}

func TestEngineInfoUpdate(t *testing.T) {
	info := NewEngineInfo("version")

	// Ключи задаются и собственным именем, и именем из схемы вердикта.
	info.Update(map[string]string{
		"engine_version":        "vendorver1",
		"signatures_version":    "sigversion",
		"definitions_timestamp": "now",
	})

	if info.WrapperVersion != "version" {
		t.Errorf("expected wrapper version version, got: %s", info.WrapperVersion)
	}
	if info.EngineVersion != "vendorver1" {
		t.Errorf("expected engine version vendorver1, got: %s", info.EngineVersion)
	}
	if info.DefinitionsVersion != "sigversion" {
		t.Errorf("expected definitions version sigversion, got: %s", info.DefinitionsVersion)
	}
	if info.DefinitionsTimestamp != "now" {
		t.Errorf("expected definitions timestamp now, got: %s", info.DefinitionsTimestamp)
	}
	if got := info.SignatureInfo(); got != "sigversion <now>" {
		t.Errorf("expected signature info sigversion <now>, got: %s", got)
	}
}

func TestEngineInfoIgnoresUnknownKeys(t *testing.T) {
	info := NewEngineInfo("1.0.0")
	info.Update(map[string]string{"definitely_unknown": "value"})

	if info.WrapperVersion != "1.0.0" {
		t.Errorf("expected wrapper version 1.0.0, got: %s", info.WrapperVersion)
	}
}

func TestEngineInfoScannerInfo(t *testing.T) {
	info := NewEngineInfo("1.2.0")
	info.Update(map[string]string{
		"vendor_version":     "9.0.1",
		"signatures_version": "25991",
	})

	si := info.ScannerInfo()
	if si.Version != "1.2.0" {
		t.Errorf("expected version 1.2.0, got: %s", si.Version)
	}
	if si.VendorVersion != "9.0.1" {
		t.Errorf("expected vendor version 9.0.1, got: %s", si.VendorVersion)
	}
	if si.SignaturesVersion != "25991" {
		t.Errorf("expected signatures version 25991, got: %s", si.SignaturesVersion)
	}
	if si.Architecture != runtime.GOARCH {
		t.Errorf("expected architecture %s, got: %s", runtime.GOARCH, si.Architecture)
	}
}

func TestEngineInfoScannerInfoNil(t *testing.T) {
	var info *EngineInfo
	if info.ScannerInfo() != nil {
		t.Error("expected nil scanner info for nil engine info")
	}
}
