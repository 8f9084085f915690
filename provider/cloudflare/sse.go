package cloudflare

import (
	"bufio"
	"io"
	"strings"
)

const maxLineSize = 1 << 20

// sseReader yields the data payloads of a server-sent event stream. Event
// names and ids are ignored; Workers AI only sends data lines.
type sseReader struct {
	scanner *bufio.Scanner
}

func newSSEReader(body io.Reader) *sseReader {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64<<10), maxLineSize)
	return &sseReader{scanner: scanner}
}

// Next returns the next event's data. Multi-line data is joined with
// newlines. It returns io.EOF at the end of the stream.
func (r *sseReader) Next() (string, error) {
	var data strings.Builder
	hasData := false

	for r.scanner.Scan() {
		line := r.scanner.Text()
		if line == "" {
			if hasData {
				return data.String(), nil
			}
			continue
		}
		if strings.HasPrefix(line, ":") {
			continue
		}

		field, value, _ := strings.Cut(line, ":")
		value = strings.TrimPrefix(value, " ")
		if field != "data" {
			continue
		}
		if hasData {
			data.WriteByte('\n')
		}
		data.WriteString(value)
		hasData = true
	}

	if err := r.scanner.Err(); err != nil {
		return "", err
	}
	if hasData {
		return data.String(), nil
	}
	return "", io.EOF
}
