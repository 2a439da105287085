package writers

import (
	"io"

	"repeattools/internal/common"
	"repeattools/internal/output"
	"repeattools/internal/repeat"
)

// StartRecordWriter spins up a writer goroutine for merged records.
// TSV and JSONL stream unless sorting is requested; JSON always buffers.
func StartRecordWriter(out io.Writer, format string, sort, header bool, bufSize int) (chan<- repeat.Record, <-chan error) {
	if format == output.FormatJSONL && !sort {
		return StartRecordJSONLWriter(out, bufSize)
	}
	if bufSize <= 0 {
		bufSize = 64
	}
	in := make(chan repeat.Record, bufSize)
	errCh := make(chan error, 1)

	go func() {
		if format == output.FormatTSV && !sort {
			errCh <- output.StreamTSV(out, in, header)
			return
		}
		var buf []repeat.Record
		for r := range in {
			buf = append(buf, r)
		}
		if sort {
			common.SortRecords(buf)
		}
		errCh <- WriteRecords(format, out, buf, header)
	}()

	return in, errCh
}
