// Package config предоставляет функциональность для управления конфигурацией
// микродвижка. Настройки загружаются из переменных окружения, пути установки
// дополняются платформенными значениями по умолчанию, а EngineInfo хранит
// метаданные сканера и его сигнатур между обновлениями и сканированиями.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/caarlos0/env/v11"

	"github.com/levinOo/go-microengine-utils/metrics"
)

// Settings содержит все параметры конфигурации микродвижка.
// Значения загружаются из переменных окружения (указаны в тегах env).
type Settings struct {
	// DatadogAPIKey и DatadogAppKey включают отправку метрик в Datadog.
	// Когда оба пустые, метрики работают в no-op режиме.
	DatadogAPIKey string `env:"DATADOG_API_KEY"`
	DatadogAppKey string `env:"DATADOG_APP_KEY"`

	// PolyWork задает окружение маркетплейса: local, testing или prod.
	PolyWork string `env:"POLY_WORK" envDefault:"local"`

	// PodName идентифицирует экземпляр движка в тегах метрик.
	PodName string `env:"HOSTNAME"`

	// EngineName задает имя движка для тега engine_name.
	EngineName string `env:"MICROENGINE_NAME"`

	// EngineCmd указывает путь к исполняемому файлу консольного сканера.
	EngineCmd string `env:"MICROENGINE_CMD_EXE"`

	// InstallDir указывает каталог установки движка.
	// По умолчанию C:\microengine\ на Windows и /usr/src/app на остальных.
	InstallDir string `env:"MICROENGINE_INSTALL_DIR"`

	// VendorDir указывает каталог с файлами вендора.
	// По умолчанию подкаталог vendor внутри InstallDir.
	VendorDir string `env:"MICROENGINE_VENDOR_DIR"`

	// SignatureDir указывает каталог с базами сигнатур.
	SignatureDir string `env:"MICROENGINE_SIGNATURE_DIR"`

	// VerboseMetrics включает подробные метрики вердиктов
	// (microengine.scan.verdict).
	VerboseMetrics bool `env:"MICROENGINE_VERBOSE_METRICS" envDefault:"false"`

	// WinePath указывает путь к исполняемому файлу wine. Его наличие
	// переводит OSType в "wine".
	WinePath string `env:"WINEPATH" envDefault:"/usr/bin/wine"`
}

// NewSettings загружает конфигурацию движка из переменных окружения
// и дополняет пути установки платформенными значениями по умолчанию.
func NewSettings() (*Settings, error) {
	var cfg Settings
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.InstallDir == "" {
		if runtime.GOOS == "windows" {
			cfg.InstallDir = `C:\microengine\`
		} else {
			cfg.InstallDir = "/usr/src/app"
		}
	}
	if cfg.VendorDir == "" {
		cfg.VendorDir = filepath.Join(cfg.InstallDir, "vendor")
	}

	return &cfg, nil
}

// OSType возвращает тип операционной системы для тега os: "windows",
// "wine", если в системе установлен wine, иначе "linux".
func (s *Settings) OSType() string {
	if runtime.GOOS == "windows" {
		return "windows"
	}
	if _, err := os.Stat(s.WinePath); err == nil {
		return "wine"
	}
	return "linux"
}

// ConfigureMetrics настраивает отправку метрик по этим настройкам:
// ключи Datadog, имя движка, тип ОС, окружение и имя пода берутся
// из загруженной конфигурации.
func (s *Settings) ConfigureMetrics(opts ...metrics.Option) *metrics.Handle {
	return metrics.Configure(
		s.DatadogAPIKey,
		s.DatadogAppKey,
		s.EngineName,
		s.OSType(),
		s.PolyWork,
		s.PodName,
		opts...,
	)
}
