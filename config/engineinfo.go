package config

import (
	"fmt"
	"os"
	"runtime"

	"github.com/levinOo/go-microengine-utils/scan"
)

// EngineInfo хранит метаданные сканера и его сигнатур.
//
// Одни движки сообщают версию сигнатур вместе с результатом сканирования,
// другие узнают ее только при обновлении баз. EngineInfo покрывает оба
// случая: Update принимает результат обновления, а ScannerInfo отдает
// накопленные метаданные для вложения в вердикт.
type EngineInfo struct {
	// OperatingSystem содержит платформу сканера, например "Windows" или "Unix".
	OperatingSystem string

	// Architecture содержит архитектуру процессора, например "amd64".
	Architecture string

	// EngineName содержит имя движка.
	EngineName string

	// WrapperVersion содержит версию обертки, вынесшей вердикт.
	WrapperVersion string

	// EngineVersion содержит версию самого сканера вендора.
	EngineVersion string

	// DefinitionsVersion содержит версию использованных баз сигнатур.
	DefinitionsVersion string

	// DefinitionsTimestamp содержит дату выпуска баз сигнатур.
	DefinitionsTimestamp string
}

// NewEngineInfo создает EngineInfo с платформенными значениями по умолчанию
// и именем движка из MICROENGINE_NAME.
func NewEngineInfo(wrapperVersion string) *EngineInfo {
	return &EngineInfo{
		OperatingSystem: platformOS(),
		Architecture:    runtime.GOARCH,
		EngineName:      os.Getenv("MICROENGINE_NAME"),
		WrapperVersion:  wrapperVersion,
	}
}

func platformOS() string {
	if runtime.GOOS == "windows" {
		return "Windows"
	}
	return "Unix"
}

// Update обновляет метаданные по результату обновления сканера.
// Каждое поле принимается и под собственным именем, и под именем
// из схемы вердикта (platform, machine, name, version, vendor_version,
// signatures_version, signatures_timestamp). Неизвестные ключи
// игнорируются.
func (i *EngineInfo) Update(values map[string]string) {
	for key, value := range values {
		switch key {
		case "operating_system", "platform":
			i.OperatingSystem = value
		case "architecture", "machine":
			i.Architecture = value
		case "engine_name", "name":
			i.EngineName = value
		case "wrapper_version", "version":
			i.WrapperVersion = value
		case "engine_version", "vendor_version":
			i.EngineVersion = value
		case "definitions_version", "signatures_version":
			i.DefinitionsVersion = value
		case "definitions_timestamp", "signatures_timestamp":
			i.DefinitionsTimestamp = value
		}
	}
}

// ScannerInfo возвращает описание сканера для вложения в вердикт.
func (i *EngineInfo) ScannerInfo() *scan.ScannerInfo {
	if i == nil {
		return nil
	}
	return &scan.ScannerInfo{
		OperatingSystem:   i.OperatingSystem,
		Architecture:      i.Architecture,
		Version:           i.WrapperVersion,
		VendorVersion:     i.EngineVersion,
		SignaturesVersion: i.DefinitionsVersion,
	}
}

// SignatureInfo сводит версию и дату выпуска сигнатур в одну строку
// вида "version <timestamp>".
func (i *EngineInfo) SignatureInfo() string {
	return fmt.Sprintf("%s <%s>", i.DefinitionsVersion, i.DefinitionsTimestamp)
}
