package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/meshview/pkg/encoding"
)

// STL format errors.
var (
	ErrTruncatedSTLData = errors.New("truncated STL data")
	ErrInvalidSTLSyntax = errors.New("invalid ASCII STL syntax")
	ErrEmptySTL         = errors.New("STL contains no triangles")
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50 // normal(12) + 3 vertices(36) + attribute(2)
)

// STLFormat identifies which STL encoding a file used.
type STLFormat int

const (
	STLFormatBinary STLFormat = iota
	STLFormatASCII
)

// String returns a human-readable format name.
func (f STLFormat) String() string {
	switch f {
	case STLFormatBinary:
		return "binary"
	case STLFormatASCII:
		return "ascii"
	default:
		return fmt.Sprintf("Unknown(%d)", int(f))
	}
}

// STLTriangle is a single facet.
type STLTriangle struct {
	Normal    [3]float32    // Facet normal as stored in the file (may be zero)
	Vertices  [3][3]float32 // Counter-clockwise corner positions
	Attribute uint16        // Attribute byte count (binary only)
}

// STL represents a parsed STL mesh.
type STL struct {
	Name      string // Solid name (ASCII) or decoded header (binary)
	Format    STLFormat
	Triangles []STLTriangle
}

// ParseSTL parses STL data, detecting the binary or ASCII variant.
func ParseSTL(data []byte) (*STL, error) {
	if len(data) == 0 {
		return nil, ErrTruncatedSTLData
	}

	// Binary files whose header happens to start with "solid" are common, so
	// the exact binary size check wins over the keyword.
	if isBinarySTL(data) {
		return parseBinarySTL(data)
	}
	if bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return parseASCIISTL(data)
	}
	return parseBinarySTL(data)
}

// ParseSTLFile reads and parses an STL file from disk.
func ParseSTLFile(path string) (*STL, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading STL file: %w", err)
	}
	return ParseSTL(data)
}

func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == stlHeaderSize+4+uint64(count)*stlRecordSize
}

func parseBinarySTL(data []byte) (*STL, error) {
	if len(data) < stlHeaderSize+4 {
		return nil, ErrTruncatedSTLData
	}

	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	body := data[stlHeaderSize+4:]
	if uint64(len(body)) < uint64(count)*stlRecordSize {
		return nil, fmt.Errorf("%w: header declares %d triangles, data holds %d",
			ErrTruncatedSTLData, count, len(body)/stlRecordSize)
	}
	if count == 0 {
		return nil, ErrEmptySTL
	}

	stl := &STL{
		Name:      encoding.FixedLabelToUTF8(data[:stlHeaderSize]),
		Format:    STLFormatBinary,
		Triangles: make([]STLTriangle, count),
	}

	for i := range stl.Triangles {
		rec := body[i*stlRecordSize : (i+1)*stlRecordSize]
		tri := &stl.Triangles[i]
		tri.Normal = readVec3(rec[0:12])
		tri.Vertices[0] = readVec3(rec[12:24])
		tri.Vertices[1] = readVec3(rec[24:36])
		tri.Vertices[2] = readVec3(rec[36:48])
		tri.Attribute = binary.LittleEndian.Uint16(rec[48:50])
	}

	return stl, nil
}

func readVec3(b []byte) [3]float32 {
	return [3]float32{
		math.Float32frombits(binary.LittleEndian.Uint32(b[0:4])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
	}
}

// stlTokenizer walks whitespace-separated ASCII STL tokens.
type stlTokenizer struct {
	scanner *bufio.Scanner
	line    int
	tok     string
}

func (t *stlTokenizer) next() bool {
	if !t.scanner.Scan() {
		return false
	}
	t.tok = t.scanner.Text()
	return true
}

func (t *stlTokenizer) expect(keyword string) error {
	if !t.next() {
		return fmt.Errorf("%w: expected %q, got end of data", ErrInvalidSTLSyntax, keyword)
	}
	if !strings.EqualFold(t.tok, keyword) {
		return fmt.Errorf("%w: expected %q, got %q", ErrInvalidSTLSyntax, keyword, t.tok)
	}
	return nil
}

func (t *stlTokenizer) float() (float32, error) {
	if !t.next() {
		return 0, fmt.Errorf("%w: expected number, got end of data", ErrInvalidSTLSyntax)
	}
	v, err := strconv.ParseFloat(t.tok, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: bad number %q", ErrInvalidSTLSyntax, t.tok)
	}
	return float32(v), nil
}

func (t *stlTokenizer) vec3() ([3]float32, error) {
	var v [3]float32
	for i := range v {
		f, err := t.float()
		if err != nil {
			return v, err
		}
		v[i] = f
	}
	return v, nil
}

func parseASCIISTL(data []byte) (*STL, error) {
	data = bytes.TrimLeft(data, " \t\r\n")

	// The solid name runs to the end of the first line.
	firstLine := data
	rest := []byte(nil)
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		firstLine, rest = data[:i], data[i+1:]
	}
	name := encoding.LabelToUTF8(bytes.TrimPrefix(bytes.TrimSpace(firstLine), []byte("solid")))

	scanner := bufio.NewScanner(bytes.NewReader(rest))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	scanner.Split(bufio.ScanWords)
	tz := &stlTokenizer{scanner: scanner}

	stl := &STL{
		Name:   name,
		Format: STLFormatASCII,
	}

	for tz.next() {
		switch strings.ToLower(tz.tok) {
		case "endsolid":
			if len(stl.Triangles) == 0 {
				return nil, ErrEmptySTL
			}
			return stl, nil
		case "facet":
			tris, err := parseASCIIFacet(tz)
			if err != nil {
				return nil, fmt.Errorf("facet %d: %w", len(stl.Triangles), err)
			}
			stl.Triangles = append(stl.Triangles, tris...)
		default:
			return nil, fmt.Errorf("%w: unexpected token %q", ErrInvalidSTLSyntax, tz.tok)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning ASCII STL: %w", err)
	}

	// Missing "endsolid" is tolerated; plenty of exporters drop it.
	if len(stl.Triangles) == 0 {
		return nil, ErrEmptySTL
	}
	return stl, nil
}

// parseASCIIFacet parses one facet body after the "facet" keyword. Loops with
// more than three vertices are fan-triangulated.
func parseASCIIFacet(tz *stlTokenizer) ([]STLTriangle, error) {
	if err := tz.expect("normal"); err != nil {
		return nil, err
	}
	normal, err := tz.vec3()
	if err != nil {
		return nil, err
	}
	if err := tz.expect("outer"); err != nil {
		return nil, err
	}
	if err := tz.expect("loop"); err != nil {
		return nil, err
	}

	var verts [][3]float32
	for {
		if !tz.next() {
			return nil, fmt.Errorf("%w: unterminated loop", ErrInvalidSTLSyntax)
		}
		kw := strings.ToLower(tz.tok)
		if kw == "endloop" {
			break
		}
		if kw != "vertex" {
			return nil, fmt.Errorf("%w: expected \"vertex\", got %q", ErrInvalidSTLSyntax, tz.tok)
		}
		v, err := tz.vec3()
		if err != nil {
			return nil, err
		}
		verts = append(verts, v)
	}
	if err := tz.expect("endfacet"); err != nil {
		return nil, err
	}
	if len(verts) < 3 {
		return nil, fmt.Errorf("%w: loop has %d vertices", ErrInvalidSTLSyntax, len(verts))
	}

	tris := make([]STLTriangle, 0, len(verts)-2)
	for i := 1; i+1 < len(verts); i++ {
		tris = append(tris, STLTriangle{
			Normal:   normal,
			Vertices: [3][3]float32{verts[0], verts[i], verts[i+1]},
		})
	}
	return tris, nil
}

// TriangleCount returns the number of triangles in the mesh.
func (s *STL) TriangleCount() int {
	return len(s.Triangles)
}

// Bounds returns the axis-aligned bounds of all vertices.
func (s *STL) Bounds() (min, max [3]float32) {
	if len(s.Triangles) == 0 {
		return min, max
	}
	min = s.Triangles[0].Vertices[0]
	max = min
	for _, tri := range s.Triangles {
		for _, v := range tri.Vertices {
			for k := 0; k < 3; k++ {
				if v[k] < min[k] {
					min[k] = v[k]
				}
				if v[k] > max[k] {
					max[k] = v[k]
				}
			}
		}
	}
	return min, max
}
