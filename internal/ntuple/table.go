package ntuple

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Table is one dense weight array, addressed by Feature.Index. One table
// exists per base feature; every orbit member reads and writes the same
// table, which is what makes the symmetry expansion share weights.
type Table []float32

func NewTable(size int) Table {
	return make(Table, size)
}

// The wire format is one uint32 table count, then per table a uint64
// element count followed by that many float32 values in index order, all
// little-endian.

// maxTableLen bounds a single table read so a corrupt count prefix cannot
// drive an absurd allocation.
const maxTableLen = 1 << 28

func WriteTables(w io.Writer, tables []Table) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(len(tables))); err != nil {
		return err
	}
	for _, t := range tables {
		if err := binary.Write(w, binary.LittleEndian, uint64(len(t))); err != nil {
			return err
		}
		if err := binary.Write(w, binary.LittleEndian, []float32(t)); err != nil {
			return err
		}
	}
	return nil
}

func ReadTables(r io.Reader) ([]Table, error) {
	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("read table count: %w", err)
	}
	tables := make([]Table, count)
	for i := range tables {
		var n uint64
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, fmt.Errorf("read table %d size: %w", i, err)
		}
		if n > maxTableLen {
			return nil, fmt.Errorf("table %d size %d exceeds limit", i, n)
		}
		t := make(Table, n)
		if err := binary.Read(r, binary.LittleEndian, []float32(t)); err != nil {
			return nil, fmt.Errorf("read table %d values: %w", i, err)
		}
		tables[i] = t
	}
	return tables, nil
}

// SaveTables persists all tables to path. A file that cannot be created is
// unrecoverable for the caller: the learned policy would be lost.
func SaveTables(path string, tables []Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("open weight file for save: %w", err)
	}
	if err := WriteTables(f, tables); err != nil {
		_ = f.Close()
		return fmt.Errorf("save weights to %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("save weights to %s: %w", path, err)
	}
	return nil
}

// LoadTables reads all tables from path. Table sizes are not validated
// against any feature configuration; callers own that decision.
func LoadTables(path string) ([]Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open weight file for load: %w", err)
	}
	defer f.Close()

	tables, err := ReadTables(f)
	if err != nil {
		return nil, fmt.Errorf("load weights from %s: %w", path, err)
	}
	return tables, nil
}
