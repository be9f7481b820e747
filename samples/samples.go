// Package samples содержит фиксированный пул предзаготовленных артефактов
// для тестов движков: стандартную строку EICAR в нескольких упаковках и
// безвредные файлы. Пул позволяет прогонять логику сканирования без
// живой коллекции вредоносов.
package samples

import (
	"errors"
	"math/rand"
)

// ErrEmptyPool возвращается, когда фильтру не соответствует ни один образец.
var ErrEmptyPool = errors.New("sample pool is empty")

// Sample представляет предзаготовленный артефакт с известной меткой.
type Sample struct {
	// Name содержит имя образца в форме вердикт/формат/файл.
	Name string

	// MIME содержит заявленный MIME-тип содержимого.
	MIME string

	// Malicious помечает образец как вредоносный или безвредный.
	Malicious bool

	// Encrypted помечает образцы в зашифрованных контейнерах, которые
	// сканер не сможет открыть.
	Encrypted bool

	// DenialOfService помечает образцы, провоцирующие исчерпание
	// ресурсов при распаковке.
	DenialOfService bool

	content []byte
}

// Content возвращает копию содержимого образца.
func (s Sample) Content() []byte {
	out := make([]byte, len(s.content))
	copy(out, s.content)
	return out
}

// Стандартная тестовая строка EICAR. Безвредна, но обязана
// распознаваться любым антивирусом.
const eicar = `X5O!P%@AP[4\PZX54(P^)7CC)7}$EICAR-STANDARD-ANTIVIRUS-TEST-FILE!$H+H*`

var pool = []Sample{
	{
		Name:      "malicious/eicar/eicar",
		MIME:      "text/plain",
		Malicious: true,
		content:   []byte(eicar),
	},
	{
		Name:      "malicious/eicar/eicar.txt",
		MIME:      "text/plain",
		Malicious: true,
		content:   []byte(eicar + "\n"),
	},
	{
		Name:      "malicious/pe/i386:eicar.exe",
		MIME:      "application/x-dosexec",
		Malicious: true,
		content:   append([]byte("MZ\x90\x00\x03\x00\x00\x00"), eicar...),
	},
	{
		Name:      "malicious/zip/encrypted:eicar.zip",
		MIME:      "application/zip",
		Malicious: true,
		Encrypted: true,
		content:   []byte("PK\x03\x04\x14\x00\x01\x00\x08\x00eicar.txt"),
	},
	{
		Name:            "malicious/zip/DOS:infinite.zip",
		MIME:            "application/zip",
		Malicious:       true,
		DenialOfService: true,
		content:         []byte("PK\x03\x04\x14\x00\x00\x00\x08\x00r/r.zip"),
	},
	{
		Name:      "benign/txt/hello.txt",
		MIME:      "text/plain",
		Malicious: false,
		content:   []byte("hello world\n"),
	},
	{
		Name:      "benign/pe/i386.exe",
		MIME:      "application/x-dosexec",
		Malicious: false,
		content:   []byte("MZ\x90\x00\x03\x00\x00\x00This program cannot be run in DOS mode."),
	},
	{
		Name:      "benign/json/manifest.json",
		MIME:      "application/json",
		Malicious: false,
		content:   []byte(`{"name":"manifest","files":[]}` + "\n"),
	},
}

// All возвращает копию пула образцов.
func All() []Sample {
	out := make([]Sample, len(pool))
	copy(out, pool)
	return out
}

// Where возвращает образцы, удовлетворяющие предикату.
func Where(pred func(Sample) bool) []Sample {
	var out []Sample
	for _, s := range pool {
		if pred(s) {
			out = append(out, s)
		}
	}
	return out
}

// RandomSample возвращает равновероятно выбранный образец с запрошенной
// меткой. ErrEmptyPool возможен только при пустом пуле для метки и
// означает нарушение предусловия, а не выход за границы.
func RandomSample(malicious bool) (Sample, error) {
	matching := Where(func(s Sample) bool { return s.Malicious == malicious })
	if len(matching) == 0 {
		return Sample{}, ErrEmptyPool
	}
	return matching[rand.Intn(len(matching))], nil
}
