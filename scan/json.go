package scan

import (
	"github.com/mailru/easyjson/jlexer"
	"github.com/mailru/easyjson/jwriter"
)

// MarshalEasyJSON сериализует вердикт без reflection.
func (v Verdict) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	w.RawString(`"malware_family":`)
	w.String(v.MalwareFamily)
	if v.ScanError != "" {
		w.RawString(`,"scan_error":`)
		w.String(v.ScanError)
	}
	if v.Scanner != nil {
		w.RawString(`,"scanner":`)
		v.Scanner.MarshalEasyJSON(w)
	}
	w.RawByte('}')
}

// MarshalJSON реализует json.Marshaler поверх MarshalEasyJSON.
func (v Verdict) MarshalJSON() ([]byte, error) {
	var w jwriter.Writer
	v.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// UnmarshalEasyJSON разбирает вердикт без reflection.
func (v *Verdict) UnmarshalEasyJSON(in *jlexer.Lexer) {
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
		case "malware_family":
			v.MalwareFamily = in.String()
		case "scan_error":
			v.ScanError = in.String()
		case "scanner":
			if in.IsNull() {
				in.Skip()
				v.Scanner = nil
			} else {
				if v.Scanner == nil {
					v.Scanner = new(ScannerInfo)
				}
				v.Scanner.UnmarshalEasyJSON(in)
			}
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
func (v *Verdict) UnmarshalJSON(data []byte) error {
	in := jlexer.Lexer{Data: data}
	v.UnmarshalEasyJSON(&in)
	return in.Error()
}

// MarshalEasyJSON сериализует описание сканера, пропуская пустые поля.
func (s ScannerInfo) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('{')
	first := true
	field := func(key, val string) {
		if val == "" {
			return
		}
		if !first {
			w.RawByte(',')
		}
		first = false
		w.String(key)
		w.RawByte(':')
		w.String(val)
	}
	field("operating_system", s.OperatingSystem)
	field("architecture", s.Architecture)
	field("version", s.Version)
	field("vendor_version", s.VendorVersion)
	field("signatures_version", s.SignaturesVersion)
	w.RawByte('}')
}

// MarshalJSON реализует json.Marshaler поверх MarshalEasyJSON.
func (s ScannerInfo) MarshalJSON() ([]byte, error) {
	var w jwriter.Writer
	s.MarshalEasyJSON(&w)
	return w.Buffer.BuildBytes(), w.Error
}

// UnmarshalEasyJSON разбирает описание сканера без reflection.
func (s *ScannerInfo) UnmarshalEasyJSON(in *jlexer.Lexer) {
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
		case "operating_system":
			s.OperatingSystem = in.String()
		case "architecture":
			s.Architecture = in.String()
		case "version":
			s.Version = in.String()
		case "vendor_version":
			s.VendorVersion = in.String()
		case "signatures_version":
			s.SignaturesVersion = in.String()
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
func (s *ScannerInfo) UnmarshalJSON(data []byte) error {
	in := jlexer.Lexer{Data: data}
	s.UnmarshalEasyJSON(&in)
	return in.Error()
}
