package daemon

import (
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// scanResponse представляет конверт ответа сервиса на запрос сканирования.
type scanResponse struct {
	Infected      bool   `json:"infected"`
	MalwareFamily string `json:"malware_family,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Reset очищает конверт перед возвратом в пул.
func (r *scanResponse) Reset() {
	r.Infected = false
	r.MalwareFamily = ""
	r.Error = ""
}

// MarshalEasyJSON сериализует конверт без reflection.
func (r scanResponse) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	w.RawString(`"infected":`)
	w.Bool(r.Infected)
	if r.MalwareFamily != "" {
		w.RawString(`,"malware_family":`)
		w.String(r.MalwareFamily)
	}
	if r.Error != "" {
		w.RawString(`,"error":`)
		w.String(r.Error)
	}
	w.RawByte('}')
}

// MarshalJSON реализует json.Marshaler поверх MarshalEasyJSON.
func (r scanResponse) MarshalJSON() ([]byte, error) {
	var w jwriter.Writer
	r.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// UnmarshalEasyJSON разбирает конверт без reflection.
func (r *scanResponse) UnmarshalEasyJSON(in *jlexer.Lexer) {
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
		switch key {
		case "infected":
			r.Infected = in.Bool()
		case "malware_family":
			r.MalwareFamily = in.String()
		case "error":
			r.Error = in.String()
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
func (r *scanResponse) UnmarshalJSON(data []byte) error {
	in := jlexer.Lexer{Data: data}
	r.UnmarshalEasyJSON(&in)
	return in.Error()
}
