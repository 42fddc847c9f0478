package encoding

import (
	"bytes"
	"unicode/utf8"

	textencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// NormalizeUTF8 decodes an uploaded text file to plain UTF-8. Schedule exports
// from Excel and Windows tools regularly arrive with a BOM or as UTF-16.
func NormalizeUTF8(data []byte) ([]byte, error) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return data[len(bomUTF8):], nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decode(data, unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM))
	case bytes.HasPrefix(data, bomUTF16BE):
		return decode(data, unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM))
	case utf8.Valid(data):
		return data, nil
	default:
		// Last resort for single-byte legacy encodings: map bytes straight to
		// code points (ISO 8859-1 semantics).
		var buf bytes.Buffer
		buf.Grow(len(data) * 2)
		for _, b := range data {
			buf.WriteRune(rune(b))
		}
		return buf.Bytes(), nil
	}
}

func decode(data []byte, enc textencoding.Encoding) ([]byte, error) {
	out, _, err := transform.Bytes(enc.NewDecoder(), data)
	if err != nil {
		return nil, err
	}
	return out, nil
}
