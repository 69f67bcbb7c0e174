// Package vecfile implements the on-disk binary formats of spec.md
// §4.8: the flat vector file format and the persisted Vamana index
// format, including its CRC-64 trailer.
package vecfile

import (
	"encoding/binary"
	"hash/crc64"
	"io"
	"math"
	"os"

	"github.com/vamanadb/vamana/pkg/vamana"
)

var crcTable = crc64.MakeTable(crc64.ISO)

func wrapf(op string, kind vamana.Kind, err error) error {
	return &vamana.Error{Kind: kind, Op: op, Err: err}
}

// WriteVectors writes n vectors of dimension d (row-major, len(rows) ==
// n*d) to path in the vector file format: u32 N, u32 d, then N*d
// little-endian float32s. Non-finite components are rejected at write
// time rather than at read time (spec.md §9).
func WriteVectors(path string, n, d uint32, rows []float32) error {
	if uint64(len(rows)) != uint64(n)*uint64(d) {
		return wrapf("WriteVectors", vamana.KindDimensionMismatch, nil)
	}
	for _, v := range rows {
		if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
			return wrapf("WriteVectors", vamana.KindInvalidParameter, nil)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return wrapf("WriteVectors", vamana.KindIOError, err)
	}
	defer f.Close()

	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], n)
	binary.LittleEndian.PutUint32(header[4:8], d)
	if _, err := f.Write(header[:]); err != nil {
		return wrapf("WriteVectors", vamana.KindIOError, err)
	}
	if err := writeFloat32s(f, rows); err != nil {
		return wrapf("WriteVectors", vamana.KindIOError, err)
	}
	return nil
}

// ReadVectors reads a vector file written by WriteVectors, returning
// N, d and the flat row-major float32 slice. File size that does not
// equal 8 + 4*N*d bytes exactly is rejected with format-truncated or
// format-trailing-bytes.
func ReadVectors(path string) (n, d uint32, rows []float32, err error) {
	f, ferr := os.Open(path)
	if ferr != nil {
		return 0, 0, nil, wrapf("ReadVectors", vamana.KindIOError, ferr)
	}
	defer f.Close()

	info, ferr := f.Stat()
	if ferr != nil {
		return 0, 0, nil, wrapf("ReadVectors", vamana.KindIOError, ferr)
	}

	var header [8]byte
	if _, ferr := io.ReadFull(f, header[:]); ferr != nil {
		return 0, 0, nil, wrapf("ReadVectors", vamana.KindFormatTruncated, ferr)
	}
	n = binary.LittleEndian.Uint32(header[0:4])
	d = binary.LittleEndian.Uint32(header[4:8])

	want := int64(8) + 4*int64(n)*int64(d)
	if info.Size() < want {
		return 0, 0, nil, wrapf("ReadVectors", vamana.KindFormatTruncated, nil)
	}
	if info.Size() > want {
		return 0, 0, nil, wrapf("ReadVectors", vamana.KindFormatTrailing, nil)
	}

	rows = make([]float32, uint64(n)*uint64(d))
	if err := readFloat32s(f, rows); err != nil {
		return 0, 0, nil, wrapf("ReadVectors", vamana.KindFormatTruncated, err)
	}
	return n, d, rows, nil
}

func writeFloat32s(w io.Writer, vals []float32) error {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	_, err := w.Write(buf)
	return err
}

func readFloat32s(r io.Reader, out []float32) error {
	buf := make([]byte, 4*len(out))
	if _, err := io.ReadFull(r, buf); err != nil {
		return err
	}
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(buf[i*4:]))
	}
	return nil
}
