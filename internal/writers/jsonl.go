// internal/writers/jsonl.go
package writers

import (
	"encoding/json"
	"io"

	"repeattools/internal/jsonlutil"
	"repeattools/internal/output"
	"repeattools/internal/repeat"
)

// StartRecordJSONLWriter streams each merged record as one JSON line (v1).
func StartRecordJSONLWriter(out io.Writer, bufSize int) (chan<- repeat.Record, <-chan error) {
	return jsonlutil.Start[repeat.Record](out, bufSize,
		func(enc *json.Encoder, r repeat.Record) error {
			return enc.Encode(output.ToAPIRecord(r))
		},
		IsBrokenPipe,
	)
}

func writeJSONL(w io.Writer, recs []repeat.Record, _ bool) error {
	enc := json.NewEncoder(w)
	for _, r := range recs {
		if err := enc.Encode(output.ToAPIRecord(r)); err != nil {
			return err
		}
	}
	return nil
}
