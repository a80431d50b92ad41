package roster

// encoding.go normalizes raw roster bytes before tokenizing.
//
// Roster sheets reach us from three places: the public CSV export (UTF-8,
// sometimes with a BOM), files saved by desktop spreadsheet programs on
// Windows (often Windows-1252), and uploads through the web UI. All of them
// go through DecodeText so the tokenizer only ever sees valid UTF-8.

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ErrInputTooLarge is returned by ReadText when the input exceeds the limit.
var ErrInputTooLarge = errors.New("file too large")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText strips a UTF-8 byte order mark and converts non-UTF-8 input
// from Windows-1252, the encoding most desktop exports fall back to.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return string(data)
	}

	decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return string(bytes.ToValidUTF8(data, []byte("�")))
	}
	return string(decoded)
}

// ReadText reads at most limit bytes from r and decodes them with DecodeText.
// A limit <= 0 disables the size check.
func ReadText(r io.Reader, limit int64) (string, error) {
	if limit > 0 {
		r = io.LimitReader(r, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("read roster: %w", err)
	}
	if limit > 0 && int64(len(data)) > limit {
		return "", fmt.Errorf("%w: exceeds %d bytes", ErrInputTooLarge, limit)
	}
	return DecodeText(data), nil
}
