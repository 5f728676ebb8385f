package provider

import (
	"bufio"
	"io"
	"strings"
)

const dataPrefix = "data: "

// forEachDataLine applies SSE line framing to a streaming response body:
// partial lines are buffered across reads, only "data: "-prefixed lines are
// payloads, blank and comment lines are skipped. fn returning stop ends the
// scan without waiting for stream closure.
func forEachDataLine(body io.Reader, fn func(payload string) (stop bool, err error)) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		stop, err := fn(line[len(dataPrefix):])
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
	return scanner.Err()
}
