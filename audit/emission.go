package audit

import (
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// Константы видов эмиссий
const (
	// KindCount представляет инкремент счётчика.
	KindCount = "count"

	// KindGauge представляет измерение-срез (текущее значение).
	KindGauge = "gauge"

	// KindTiming представляет сэмпл длительности в миллисекундах.
	KindTiming = "timing"
)

// Emission описывает одну отправку метрики через Handle.
// Используется подписчиками аудита: тестами для проверки отправленных
// метрик и локальным журналом, когда бэкенд метрик недоступен.
type Emission struct {
	// TS содержит временную метку эмиссии в формате Unix timestamp.
	TS int64 `json:"ts"`

	// Kind определяет вид эмиссии: "count", "gauge" или "timing".
	Kind string `json:"kind"`

	// Name содержит имя метрики без namespace-префикса.
	Name string `json:"name"`

	// Value содержит значение: дельту счётчика, значение gauge
	// или длительность в миллисекундах для timing.
	Value float64 `json:"value"`

	// Tags содержит полный набор тегов эмиссии, включая теги по умолчанию.
	Tags []string `json:"tags"`
}

// MarshalEasyJSON сериализует эмиссию через easyjson writer.
func (e Emission) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawString(`{"ts":`)
	w.Int64(e.TS)
	w.RawString(`,"kind":`)
	w.String(e.Kind)
	w.RawString(`,"name":`)
	w.String(e.Name)
	w.RawString(`,"value":`)
	w.Float64(e.Value)
	w.RawString(`,"tags":`)
	if e.Tags == nil {
		w.RawString(`null`)
	} else {
		w.RawByte('[')
		for i, tag := range e.Tags {
			if i > 0 {
				w.RawByte(',')
			}
			w.String(tag)
		}
		w.RawByte(']')
	}
	w.RawByte('}')
}

// MarshalJSON реализует json.Marshaler поверх MarshalEasyJSON.
func (e Emission) MarshalJSON() ([]byte, error) {
	var w jwriter.Writer
	e.MarshalEasyJSON(&w)
	return w.BuildBytes()
}

// UnmarshalEasyJSON десериализует эмиссию через easyjson lexer.
func (e *Emission) UnmarshalEasyJSON(in *jlexer.Lexer) {
	isTopLevel := in.IsStart()
	if in.IsNull() {
		if isTopLevel {
			in.Consumed()
		}
		in.Skip()
		return
	}
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		if in.IsNull() {
			in.Skip()
			in.WantComma()
			continue
		}
		switch key {
		case "ts":
			e.TS = in.Int64()
		case "kind":
			e.Kind = in.String()
		case "name":
			e.Name = in.String()
		case "value":
			e.Value = in.Float64()
		case "tags":
			in.Delim('[')
			e.Tags = e.Tags[:0]
			for !in.IsDelim(']') {
				e.Tags = append(e.Tags, in.String())
				in.WantComma()
			}
			in.Delim(']')
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
	if isTopLevel {
		in.Consumed()
	}
}

// UnmarshalJSON реализует json.Unmarshaler поверх UnmarshalEasyJSON.
func (e *Emission) UnmarshalJSON(data []byte) error {
	in := jlexer.Lexer{Data: data}
	e.UnmarshalEasyJSON(&in)
	return in.Error()
}
