// ABOUTME: Binary encoding for embedding matrices
// ABOUTME: Header of magic, version, rows, dim followed by little-endian float32 values
package cache

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/harper/plotsearch/internal/models"
)

const (
	matrixMagic   = "PSEM"
	matrixVersion = 1
	headerSize    = 16
)

// EncodeMatrix serializes a rectangular matrix. Callers validate shape first.
func EncodeMatrix(m models.Matrix) []byte {
	rows, dim := m.Rows(), m.Dim()
	buf := make([]byte, headerSize+rows*dim*4)

	copy(buf[0:4], matrixMagic)
	binary.LittleEndian.PutUint32(buf[4:8], matrixVersion)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(rows))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(dim))

	off := headerSize
	for _, row := range m {
		for _, v := range row {
			binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
			off += 4
		}
	}
	return buf
}

// DecodeMatrix parses EncodeMatrix output. Any size or header problem, or a
// NaN or Inf value, wraps models.ErrCacheCorrupt.
func DecodeMatrix(data []byte) (models.Matrix, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("%w: matrix file too small (%d bytes)", models.ErrCacheCorrupt, len(data))
	}
	if string(data[0:4]) != matrixMagic {
		return nil, fmt.Errorf("%w: bad matrix magic %q", models.ErrCacheCorrupt, data[0:4])
	}
	if v := binary.LittleEndian.Uint32(data[4:8]); v != matrixVersion {
		return nil, fmt.Errorf("%w: unsupported matrix version %d", models.ErrCacheCorrupt, v)
	}

	rows := uint64(binary.LittleEndian.Uint32(data[8:12]))
	dim := uint64(binary.LittleEndian.Uint32(data[12:16]))
	if rows > 0 && dim == 0 {
		return nil, fmt.Errorf("%w: %d rows with zero dimension", models.ErrCacheCorrupt, rows)
	}
	if dim > 0 && rows > uint64(len(data))/(dim*4) {
		return nil, fmt.Errorf("%w: header claims %dx%d matrix in %d bytes", models.ErrCacheCorrupt, rows, dim, len(data))
	}
	want := uint64(headerSize) + rows*dim*4
	if uint64(len(data)) != want {
		return nil, fmt.Errorf("%w: matrix is %d bytes, header expects %d", models.ErrCacheCorrupt, len(data), want)
	}

	m := make(models.Matrix, rows)
	off := headerSize
	for i := range m {
		row := make([]float32, dim)
		for j := range row {
			row[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		if j := models.NonFiniteIndex(row); j >= 0 {
			return nil, fmt.Errorf("%w: row %d value %d is %v", models.ErrCacheCorrupt, i, j, row[j])
		}
		m[i] = row
	}
	return m, nil
}
