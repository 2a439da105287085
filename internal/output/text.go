package output

import (
	"fmt"
	"io"

	"repeattools/internal/repeat"
)

// WriteTSV prints one line per record, optionally preceded by TSVHeader.
func WriteTSV(w io.Writer, list []repeat.Record, header bool) error {
	if header {
		if _, err := fmt.Fprintln(w, TSVHeader); err != nil {
			return err
		}
	}
	for i := range list {
		if _, err := fmt.Fprintln(w, FormatRowTSV(&list[i])); err != nil {
			return err
		}
	}
	return nil
}

// StreamTSV is WriteTSV over a channel. On a write error the channel is
// drained so the producer never blocks.
func StreamTSV(w io.Writer, in <-chan repeat.Record, header bool) error {
	var err error
	if header {
		_, err = fmt.Fprintln(w, TSVHeader)
	}
	for r := range in {
		if err != nil {
			continue
		}
		_, err = fmt.Fprintln(w, FormatRowTSV(&r))
	}
	return err
}
