package storage

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/edsrzf/mmap-go"
)

// Trajectory file layout, little endian:
//
//	magic   [4]byte "CATJ"
//	version uint32
//	ptcls   uint64
//	frames  (8 + 48*ptcls bytes each): time, then 3N positions, 3N velocities

var (
	ErrTrajFormat = errors.New("storage: bad trajectory file")
	ErrFrameRange = errors.New("storage: frame index out of range")
)

var trajMagic = [4]byte{'C', 'A', 'T', 'J'}

const (
	trajVersion    = 1
	trajHeaderSize = 16
)

type TrajWriter struct {
	f *os.File
	w *bufio.Writer
	n int
}

func CreateTraj(path string, numPtcls int) (*TrajWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := bufio.NewWriter(f)

	header := make([]byte, trajHeaderSize)
	copy(header, trajMagic[:])
	binary.LittleEndian.PutUint32(header[4:], trajVersion)
	binary.LittleEndian.PutUint64(header[8:], uint64(numPtcls))
	if _, err := w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	return &TrajWriter{f: f, w: w, n: numPtcls}, nil
}

func (t *TrajWriter) WriteFrame(time float64, x, v []float64) error {
	if len(x) != 3*t.n || len(v) != 3*t.n {
		return fmt.Errorf("%w: frame has %d/%d coordinates, want %d",
			ErrTrajFormat, len(x), len(v), 3*t.n)
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], math.Float64bits(time))
	if _, err := t.w.Write(buf[:]); err != nil {
		return err
	}
	for _, val := range x {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(val))
		if _, err := t.w.Write(buf[:]); err != nil {
			return err
		}
	}
	for _, val := range v {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(val))
		if _, err := t.w.Write(buf[:]); err != nil {
			return err
		}
	}
	return nil
}

func (t *TrajWriter) Close() error {
	if err := t.w.Flush(); err != nil {
		t.f.Close()
		return err
	}
	return t.f.Close()
}

// TrajReader reads frames out of a memory-mapped trajectory file, so
// scrubbing through a long run does not load it all.
type TrajReader struct {
	f *os.File
	m mmap.MMap
	n int
}

func OpenTraj(path string) (*TrajReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	r := &TrajReader{f: f, m: m}
	if err := r.readHeader(); err != nil {
		r.Close()
		return nil, err
	}
	return r, nil
}

func (t *TrajReader) readHeader() error {
	if len(t.m) < trajHeaderSize {
		return fmt.Errorf("%w: truncated header", ErrTrajFormat)
	}
	if [4]byte(t.m[:4]) != trajMagic {
		return fmt.Errorf("%w: wrong magic", ErrTrajFormat)
	}
	if v := binary.LittleEndian.Uint32(t.m[4:]); v != trajVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrTrajFormat, v)
	}
	t.n = int(binary.LittleEndian.Uint64(t.m[8:]))
	if (len(t.m)-trajHeaderSize)%t.frameSize() != 0 {
		return fmt.Errorf("%w: truncated frame", ErrTrajFormat)
	}
	return nil
}

func (t *TrajReader) frameSize() int { return 8 + 48*t.n }

func (t *TrajReader) NumPtcls() int { return t.n }

func (t *TrajReader) NumFrames() int {
	return (len(t.m) - trajHeaderSize) / t.frameSize()
}

// Frame decodes frame i into fresh slices.
func (t *TrajReader) Frame(i int) (time float64, x, v []float64, err error) {
	if i < 0 || i >= t.NumFrames() {
		return 0, nil, nil, fmt.Errorf("%w: %d of %d", ErrFrameRange, i, t.NumFrames())
	}
	off := trajHeaderSize + i*t.frameSize()
	time = math.Float64frombits(binary.LittleEndian.Uint64(t.m[off:]))
	off += 8

	x = make([]float64, 3*t.n)
	for j := range x {
		x[j] = math.Float64frombits(binary.LittleEndian.Uint64(t.m[off:]))
		off += 8
	}
	v = make([]float64, 3*t.n)
	for j := range v {
		v[j] = math.Float64frombits(binary.LittleEndian.Uint64(t.m[off:]))
		off += 8
	}
	return time, x, v, nil
}

func (t *TrajReader) Close() error {
	unmapErr := t.m.Unmap()
	closeErr := t.f.Close()
	if unmapErr != nil {
		return unmapErr
	}
	return closeErr
}
