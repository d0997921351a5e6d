package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/chewxy/math32"

	"github.com/Faultbox/polyview/pkg/math"
)

// ErrMalformedRecord is returned for non-numeric or non-finite tokens and truncated
// triangle records.
var ErrMalformedRecord = errors.New("mesh: malformed triangle record")

// floatsPerRecord is three vertex positions.
const floatsPerRecord = 9

// LoadOptions controls how loaded positions are transformed and colored.
type LoadOptions struct {
	Scale math.Vec3 // component-wise position scale; zero means (1,1,1)
	Color math.Vec3
}

// DefaultColor is the blue used for loaded and built-in solids.
var DefaultColor = math.Vec3{X: 0.31, Y: 0.5, Z: 1.0}

// DefaultLoadOptions returns unit scale and DefaultColor.
func DefaultLoadOptions() LoadOptions {
	return LoadOptions{Scale: math.Splat(1), Color: DefaultColor}
}

// LoadFile reads a triangle list from path.
func LoadFile(path string, opts LoadOptions) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mesh %s: %w", path, err)
	}
	defer f.Close()

	m, err := Load(f, opts)
	if err != nil {
		return nil, fmt.Errorf("load mesh %s: %w", path, err)
	}
	return m, nil
}

// Load reads whitespace-separated floats, nine per triangle, until end of stream.
// Each triangle gets its flat face normal.
func Load(r io.Reader, opts LoadOptions) (*Mesh, error) {
	scale := opts.Scale
	if scale == (math.Vec3{}) {
		scale = math.Splat(1)
	}

	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	m := &Mesh{}
	var rec [floatsPerRecord]float32
	n := 0
	token := 0
	for sc.Scan() {
		f, err := strconv.ParseFloat(sc.Text(), 32)
		v := float32(f)
		if err != nil || math32.IsNaN(v) || math32.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: token %d %q", ErrMalformedRecord, token, sc.Text())
		}
		token++
		rec[n] = v
		n++
		if n < floatsPerRecord {
			continue
		}
		n = 0

		a := math.Vec3{X: rec[0], Y: rec[1], Z: rec[2]}
		b := math.Vec3{X: rec[3], Y: rec[4], Z: rec[5]}
		c := math.Vec3{X: rec[6], Y: rec[7], Z: rec[8]}
		normal := FaceNormal(a, b, c)
		m.Vertices = append(m.Vertices,
			Vertex{Position: a.Mul(scale), Normal: normal, Color: opts.Color},
			Vertex{Position: b.Mul(scale), Normal: normal, Color: opts.Color},
			Vertex{Position: c.Mul(scale), Normal: normal, Color: opts.Color},
		)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read mesh: %w", err)
	}
	if n != 0 {
		return nil, fmt.Errorf("%w: triangle %d has %d of %d values",
			ErrMalformedRecord, m.TriangleCount(), n, floatsPerRecord)
	}
	return m, nil
}

// Write emits m in the format Load reads, one triangle per line.
func Write(w io.Writer, m *Mesh) error {
	if err := m.Validate(); err != nil {
		return err
	}
	bw := bufio.NewWriter(w)
	for i := 0; i < len(m.Vertices); i += 3 {
		for j := 0; j < 3; j++ {
			p := m.Vertices[i+j].Position
			sep := " "
			if j == 2 {
				sep = "\n"
			}
			if _, err := fmt.Fprintf(bw, "%g %g %g%s", p.X, p.Y, p.Z, sep); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
