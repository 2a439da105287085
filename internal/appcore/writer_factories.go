package appcore

import (
	"io"

	"repeattools/internal/repeat"
	"repeattools/internal/writers"
)

// RecordWriterFactory starts the merged-record writer for the merge command.
type RecordWriterFactory struct {
	Format string
	Sort   bool
	Header bool
}

func NewRecordWriterFactory(format string, sort, header bool) RecordWriterFactory {
	return RecordWriterFactory{Format: format, Sort: sort, Header: header}
}

func (w RecordWriterFactory) Start(out io.Writer, bufSize int) (chan<- repeat.Record, <-chan error) {
	return writers.StartRecordWriter(out, w.Format, w.Sort, w.Header, bufSize)
}
