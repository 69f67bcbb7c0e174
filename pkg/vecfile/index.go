package vecfile

import (
	"bytes"
	"encoding/binary"
	"hash/crc64"
	"math"
	"os"

	"github.com/vamanadb/vamana/pkg/distance"
	"github.com/vamanadb/vamana/pkg/vamana"
)

var indexMagic = [8]byte{'D', 'I', 'S', 'K', 'A', 'N', 'N', '1'}

const headerSize = 8 + 4*4 + 4 + 1 + 4 + 8 // magic + 4*u32 + f32 + u8 + u32 + u64

var distanceKindByte = map[distance.Kind]byte{
	distance.L2:     0,
	distance.IP:     1,
	distance.Cosine: 2,
}

var byteToDistanceKind = map[byte]distance.Kind{
	0: distance.L2,
	1: distance.IP,
	2: distance.Cosine,
}

// SaveIndex writes idx to path in the index file format of spec.md
// §4.8: magic, header, vector block, graph block, CRC-64 trailer.
func SaveIndex(path string, idx *vamana.Index) error {
	meta := idx.Metadata()
	kindByte, ok := distanceKindByte[meta.Distance]
	if !ok {
		return wrapf("SaveIndex", vamana.KindInvalidParameter, nil)
	}

	var body bytes.Buffer
	body.Write(indexMagic[:])

	var header [headerSize - 8]byte
	binary.LittleEndian.PutUint32(header[0:4], meta.D)
	binary.LittleEndian.PutUint32(header[4:8], meta.N)
	binary.LittleEndian.PutUint32(header[8:12], meta.R)
	binary.LittleEndian.PutUint32(header[12:16], meta.LBuild)
	binary.LittleEndian.PutUint32(header[16:20], math.Float32bits(meta.Alpha))
	header[20] = kindByte
	binary.LittleEndian.PutUint32(header[21:25], meta.Medoid)
	binary.LittleEndian.PutUint64(header[25:33], meta.Seed)
	body.Write(header[:])

	if err := writeFloat32s(&body, idx.Vectors()); err != nil {
		return wrapf("SaveIndex", vamana.KindIOError, err)
	}

	for v := uint32(0); v < meta.N; v++ {
		nbrs := idx.Neighbors(v)
		if len(nbrs) > 255 {
			return wrapf("SaveIndex", vamana.KindInvalidParameter, nil)
		}
		body.WriteByte(byte(len(nbrs)))
		var idBuf [4]byte
		for _, id := range nbrs {
			binary.LittleEndian.PutUint32(idBuf[:], id)
			body.Write(idBuf[:])
		}
	}

	checksum := crc64Of(body.Bytes())

	f, err := os.Create(path)
	if err != nil {
		return wrapf("SaveIndex", vamana.KindIOError, err)
	}
	defer f.Close()
	if _, err := f.Write(body.Bytes()); err != nil {
		return wrapf("SaveIndex", vamana.KindIOError, err)
	}
	var trailer [8]byte
	binary.LittleEndian.PutUint64(trailer[:], checksum)
	if _, err := f.Write(trailer[:]); err != nil {
		return wrapf("SaveIndex", vamana.KindIOError, err)
	}
	return nil
}

// LoadIndex reads an index file written by SaveIndex, validating the
// minimum length, magic and CRC before allocating any vectors
// (spec.md S5: a corrupted magic must fail before allocation). The
// vector block, graph block and trailing-byte lengths are checked as
// the blocks are read.
func LoadIndex(path string) (*vamana.Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, wrapf("LoadIndex", vamana.KindIOError, err)
	}
	if len(raw) < headerSize+8 {
		return nil, wrapf("LoadIndex", vamana.KindFormatTruncated, nil)
	}
	if !bytes.Equal(raw[:8], indexMagic[:]) {
		return nil, wrapf("LoadIndex", vamana.KindFormatInvalid, nil)
	}

	body := raw[:len(raw)-8]
	trailer := raw[len(raw)-8:]
	wantCRC := binary.LittleEndian.Uint64(trailer)
	if crc64Of(body) != wantCRC {
		return nil, wrapf("LoadIndex", vamana.KindChecksumMismatch, nil)
	}

	header := raw[8:headerSize]
	d := binary.LittleEndian.Uint32(header[0:4])
	n := binary.LittleEndian.Uint32(header[4:8])
	r := binary.LittleEndian.Uint32(header[8:12])
	lBuild := binary.LittleEndian.Uint32(header[12:16])
	alpha := math.Float32frombits(binary.LittleEndian.Uint32(header[16:20]))
	kind, ok := byteToDistanceKind[header[20]]
	if !ok {
		return nil, wrapf("LoadIndex", vamana.KindFormatInvalid, nil)
	}
	medoid := binary.LittleEndian.Uint32(header[21:25])
	seed := binary.LittleEndian.Uint64(header[25:33])

	offset := headerSize
	vecBytes := 4 * int64(n) * int64(d)
	if int64(len(body))-int64(offset) < vecBytes {
		return nil, wrapf("LoadIndex", vamana.KindFormatTruncated, nil)
	}
	rows := make([]float32, uint64(n)*uint64(d))
	if err := readFloat32s(bytes.NewReader(body[offset:offset+int(vecBytes)]), rows); err != nil {
		return nil, wrapf("LoadIndex", vamana.KindFormatTruncated, err)
	}
	offset += int(vecBytes)

	g := vamana.NewGraph(n, r)
	for v := uint32(0); v < n; v++ {
		if offset >= len(body) {
			return nil, wrapf("LoadIndex", vamana.KindFormatTruncated, nil)
		}
		degree := int(body[offset])
		offset++
		if offset+degree*4 > len(body) {
			return nil, wrapf("LoadIndex", vamana.KindFormatTruncated, nil)
		}
		nbrs := make([]uint32, degree)
		for i := 0; i < degree; i++ {
			nbrs[i] = binary.LittleEndian.Uint32(body[offset : offset+4])
			offset += 4
		}
		if err := g.SetNeighbors(v, nbrs); err != nil {
			return nil, wrapf("LoadIndex", vamana.KindFormatInvalid, err)
		}
	}
	if offset != len(body) {
		return nil, wrapf("LoadIndex", vamana.KindFormatTrailing, nil)
	}

	vs, err := vamana.NewVectorStore(n, d, rows)
	if err != nil {
		return nil, err
	}

	meta := vamana.Metadata{
		N: n, D: d, R: r, LBuild: lBuild, Alpha: alpha,
		Distance: kind, Medoid: medoid, Seed: seed,
	}
	return vamana.FromParts(meta, vs, g)
}

func crc64Of(b []byte) uint64 {
	return crc64.Checksum(b, crcTable)
}
