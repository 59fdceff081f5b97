package build

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"strings"

	"skinforge"
)

// maxLineBytes caps how much of a single output line is kept; the worker
// occasionally dumps long asset paths but nothing near this. Anything
// beyond the cap is consumed and discarded, never an error.
const maxLineBytes = 1024 * 1024

// streamer drains one output pipe line by line, classifying and parsing
// each line and forwarding the results to the sink. Reading starts
// immediately after spawn so the worker never stalls on a full pipe.
//
// Per-line emits are routine events: failures are dropped, never fatal.
// Every line is accumulated in order for the completion report.
type streamer struct {
	name string // "stdout" or "stderr", for logging only
	sink skinforge.Sink

	lines []string
}

// run consumes r until end-of-stream. It always returns nil: a read error
// simply ends the stream early, matching pipe-close behavior on teardown.
func (s *streamer) run(r io.Reader) error {
	br := bufio.NewReaderSize(r, 64*1024)
	var buf []byte
	for {
		chunk, err := br.ReadSlice('\n')
		if len(buf) < maxLineBytes {
			buf = append(buf, chunk...)
			if len(buf) > maxLineBytes {
				buf = buf[:maxLineBytes]
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			// Oversized line: keep consuming it, keep only the cap.
			continue
		}

		if err == nil {
			s.emit(trimLine(buf))
			buf = buf[:0]
			continue
		}

		// End of stream; a last unterminated line still counts.
		if len(buf) > 0 {
			s.emit(trimLine(buf))
		}
		if !errors.Is(err, io.EOF) {
			slog.Debug("worker stream ended early", "stream", s.name, "err", err)
		}
		return nil
	}
}

// emit records one line and forwards its signals to the sink.
func (s *streamer) emit(line string) {
	s.lines = append(s.lines, line)

	// Progress before log: one line can carry both signals.
	if m, ok := ParseProgress(line); ok && m.Total > 0 {
		if err := s.sink.BuildProgress(m.Current, m.Total, m.Status); err != nil {
			slog.Debug("progress emit dropped", "stream", s.name, "err", err)
		}
	}
	if err := s.sink.BuildLog(line, ClassifyLine(line)); err != nil {
		slog.Debug("log emit dropped", "stream", s.name, "err", err)
	}
}

func trimLine(b []byte) string {
	line := strings.TrimSuffix(string(b), "\n")
	return strings.TrimSuffix(line, "\r")
}
