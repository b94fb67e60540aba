// Package arrow writes the per-interval origin matrix as an Arrow IPC file:
// one row per expanded interval, with the interval's coordinates followed by
// one uint8 origin code per sample.
package arrow

import (
	"fmt"
	"os"

	"github.com/apache/arrow/go/v14/arrow"
	"github.com/apache/arrow/go/v14/arrow/array"
	"github.com/apache/arrow/go/v14/arrow/ipc"
	"github.com/apache/arrow/go/v14/arrow/memory"
)

// Column names of the interval coordinates. Sample columns follow.
const (
	ContigField = "contig"
	StartField  = "start"
	EndField    = "end"
)

type OriginWriter struct {
	filePath       string
	file           *os.File
	schema         *arrow.Schema
	writer         *ipc.FileWriter
	contigs        *array.StringBuilder
	starts         *array.Int64Builder
	ends           *array.Int64Builder
	origins        []*array.Uint8Builder
	pool           *memory.GoAllocator
	chunkSize      int
	numRowsInChunk int
}

func NewOriginWriter(filePath string, samples []string, chunkSize int) (*OriginWriter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be positive, got %d", chunkSize)
	}

	pool := memory.NewGoAllocator()
	fields := make([]arrow.Field, 0, len(samples)+3)
	fields = append(fields,
		arrow.Field{Name: ContigField, Type: arrow.BinaryTypes.String},
		arrow.Field{Name: StartField, Type: arrow.PrimitiveTypes.Int64},
		arrow.Field{Name: EndField, Type: arrow.PrimitiveTypes.Int64},
	)
	for _, name := range samples {
		fields = append(fields, arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Uint8})
	}

	schema := arrow.NewSchema(fields, nil)
	file, err := os.Create(filePath)
	if err != nil {
		return nil, err
	}

	writer, err := ipc.NewFileWriter(file, ipc.WithSchema(schema), ipc.WithAllocator(pool))
	if err != nil {
		file.Close()
		return nil, err
	}

	origins := make([]*array.Uint8Builder, len(samples))
	for i := range origins {
		origins[i] = array.NewUint8Builder(pool)
	}

	return &OriginWriter{
		filePath:  filePath,
		file:      file,
		schema:    schema,
		writer:    writer,
		contigs:   array.NewStringBuilder(pool),
		starts:    array.NewInt64Builder(pool),
		ends:      array.NewInt64Builder(pool),
		origins:   origins,
		pool:      pool,
		chunkSize: chunkSize,
	}, nil
}

// Write appends one interval. origins holds one code per sample, in the
// order the samples were given to NewOriginWriter.
func (ow *OriginWriter) Write(contig string, start, end int64, origins []uint8) error {
	if len(origins) != len(ow.origins) {
		return fmt.Errorf("mismatch in number of samples: expected %d, got %d", len(ow.origins), len(origins))
	}

	ow.contigs.Append(contig)
	ow.starts.Append(start)
	ow.ends.Append(end)
	for i, val := range origins {
		ow.origins[i].Append(val)
	}

	ow.numRowsInChunk++

	if ow.numRowsInChunk == ow.chunkSize {
		if err := ow.writeChunk(); err != nil {
			return err
		}
	}

	return nil
}

func (ow *OriginWriter) writeChunk() error {
	cols := make([]arrow.Array, 0, len(ow.origins)+3)
	// NewArray creates a new array from the builder and resets the builder
	cols = append(cols, ow.contigs.NewArray(), ow.starts.NewArray(), ow.ends.NewArray())
	for _, b := range ow.origins {
		cols = append(cols, b.NewArray())
	}
	defer func() {
		for _, col := range cols {
			col.Release()
		}
	}()

	record := array.NewRecord(ow.schema, cols, int64(ow.numRowsInChunk))
	defer record.Release()

	if err := ow.writer.Write(record); err != nil {
		return err
	}

	// Reset for the next chunk
	ow.numRowsInChunk = 0

	return nil
}

// Close writes any remaining rows, the file footer, and closes the file.
func (ow *OriginWriter) Close() error {
	if ow.numRowsInChunk > 0 {
		if err := ow.writeChunk(); err != nil {
			ow.file.Close()
			return err
		}
	}
	if err := ow.writer.Close(); err != nil {
		ow.file.Close()
		return err
	}
	return ow.file.Close()
}
