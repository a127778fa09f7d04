package loaders

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/df07/go-whitted-raytracer/pkg/core"
	"github.com/df07/go-whitted-raytracer/pkg/shape"
)

// PLYProperty is a property line of a PLY element. List properties carry the
// type of their length prefix in CountType.
type PLYProperty struct {
	Name      string
	Type      string
	IsList    bool
	CountType string
}

// PLYElement is an element declaration and its properties in file order
type PLYElement struct {
	Name  string
	Count int
	Props []PLYProperty
}

// PLYHeader represents the parsed header of a PLY file
type PLYHeader struct {
	Format   string // "ascii", "binary_little_endian" or "binary_big_endian"
	Version  string
	Elements []PLYElement
}

// PLYData holds the mesh data of a PLY file. Normals and TexCoords are either
// empty or parallel to Vertices.
type PLYData struct {
	Vertices  []core.Vec3
	Normals   []core.Vec3
	TexCoords []core.Vec2
	Triangles [][3]int
	Quads     [][4]int
}

// LoadPLY reads an ascii or binary PLY file
func LoadPLY(filename string) (*PLYData, error) {
	start := time.Now()

	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.New("opening ply file failed").
			WithTag("filename", filename).
			Wrap(err)
	}
	defer file.Close()

	data, err := ReadPLY(file)
	if err != nil {
		return nil, errors.New("reading ply file failed").
			WithType(errors.Type(err)).
			WithTag("filename", filename).
			Wrap(err)
	}

	logger.Infof("loaded %s: %d vertices, %d triangles, %d quads in %v",
		filename, len(data.Vertices), len(data.Triangles), len(data.Quads), time.Since(start))
	return data, nil
}

// ReadPLY parses a PLY stream. Faces with more than four corners are split
// into a triangle fan.
func ReadPLY(r io.Reader) (*PLYData, error) {
	br := bufio.NewReader(r)
	header, err := parsePLYHeader(br)
	if err != nil {
		return nil, err
	}

	var values plyValueReader
	switch header.Format {
	case "ascii":
		values = newASCIIValueReader(br)
	case "binary_little_endian":
		values = &binaryValueReader{r: br, order: binary.LittleEndian}
	case "binary_big_endian":
		values = &binaryValueReader{r: br, order: binary.BigEndian}
	default:
		return nil, errors.New("unsupported ply format").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("format", header.Format)
	}

	data := &PLYData{}
	for _, elem := range header.Elements {
		switch elem.Name {
		case "vertex":
			err = readPLYVertices(values, elem, data)
		case "face":
			err = readPLYFaces(values, elem, data)
		default:
			err = skipPLYElement(values, elem)
		}
		if err != nil {
			return nil, errors.New("reading ply element failed").
				WithType(ErrTypeInvalidMesh).
				WithTag("element", elem.Name).
				Wrap(err)
		}
	}

	if err := data.validate(); err != nil {
		return nil, err
	}
	return data, nil
}

// Mesh converts the data to a mesh shape, keeping normals and texture
// coordinates when present
func (d *PLYData) Mesh() *shape.Mesh {
	m := shape.NewMesh(d.Vertices, d.Triangles, d.Quads)
	if len(d.Normals) == len(d.Vertices) {
		m.Norm = d.Normals
	}
	if len(d.TexCoords) == len(d.Vertices) {
		m.Texcoord = d.TexCoords
	}
	return m
}

func (d *PLYData) validate() error {
	n := len(d.Vertices)
	check := func(indices []int) error {
		for _, i := range indices {
			if i < 0 || i >= n {
				return errors.New("face index out of range").
					WithType(ErrTypeInvalidMesh).
					WithTag("index", i).
					WithTag("vertices", n)
			}
		}
		return nil
	}
	for _, t := range d.Triangles {
		if err := check(t[:]); err != nil {
			return err
		}
	}
	for _, q := range d.Quads {
		if err := check(q[:]); err != nil {
			return err
		}
	}
	return nil
}

func parsePLYHeader(r *bufio.Reader) (*PLYHeader, error) {
	header := &PLYHeader{}
	first := true
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return nil, errors.New("ply header is truncated").
				WithType(ErrTypeInvalidMesh).
				Wrap(err)
		}
		line = strings.TrimSpace(line)
		if first {
			if line != "ply" {
				return nil, errors.New("missing ply magic number").
					WithType(ErrTypeUnsupportedFormat)
			}
			first = false
			continue
		}
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "format":
			if len(parts) < 3 {
				return nil, errors.New("invalid ply format line").WithType(ErrTypeInvalidMesh)
			}
			header.Format = parts[1]
			header.Version = parts[2]
		case "element":
			if len(parts) < 3 {
				return nil, errors.New("invalid ply element line").WithType(ErrTypeInvalidMesh)
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil || count < 0 {
				return nil, errors.New("invalid ply element count").
					WithType(ErrTypeInvalidMesh).
					WithTag("count", parts[2])
			}
			header.Elements = append(header.Elements, PLYElement{Name: parts[1], Count: count})
		case "property":
			if len(header.Elements) == 0 {
				return nil, errors.New("ply property outside an element").WithType(ErrTypeInvalidMesh)
			}
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, err
			}
			elem := &header.Elements[len(header.Elements)-1]
			elem.Props = append(elem.Props, prop)
		}
	}
	return header, nil
}

func parsePLYProperty(parts []string) (PLYProperty, error) {
	if len(parts) >= 4 && parts[0] == "list" {
		prop := PLYProperty{Name: parts[3], Type: parts[2], IsList: true, CountType: parts[1]}
		if plyTypeSize(prop.CountType) == 0 || plyTypeSize(prop.Type) == 0 {
			return PLYProperty{}, errors.New("unsupported ply property type").
				WithType(ErrTypeUnsupportedFormat).
				WithTag("property", prop.Name)
		}
		return prop, nil
	}
	if len(parts) != 2 || parts[0] == "list" {
		return PLYProperty{}, errors.New("invalid ply property line").
			WithType(ErrTypeInvalidMesh).
			WithTag("line", strings.Join(parts, " "))
	}
	if plyTypeSize(parts[0]) == 0 {
		return PLYProperty{}, errors.New("unsupported ply property type").
			WithType(ErrTypeUnsupportedFormat).
			WithTag("type", parts[0])
	}
	return PLYProperty{Name: parts[1], Type: parts[0]}, nil
}

func readPLYVertices(values plyValueReader, elem PLYElement, data *PLYData) error {
	var hasNormals, hasTexCoords bool
	for _, p := range elem.Props {
		switch p.Name {
		case "nx", "ny", "nz":
			hasNormals = true
		case "u", "s", "texture_u", "v", "t", "texture_v":
			hasTexCoords = true
		}
	}

	data.Vertices = make([]core.Vec3, elem.Count)
	if hasNormals {
		data.Normals = make([]core.Vec3, elem.Count)
	}
	if hasTexCoords {
		data.TexCoords = make([]core.Vec2, elem.Count)
	}

	for i := 0; i < elem.Count; i++ {
		for _, p := range elem.Props {
			if p.IsList {
				if err := skipPLYList(values, p); err != nil {
					return err
				}
				continue
			}
			v, err := values.value(p.Type)
			if err != nil {
				return err
			}
			switch p.Name {
			case "x":
				data.Vertices[i].X = v
			case "y":
				data.Vertices[i].Y = v
			case "z":
				data.Vertices[i].Z = v
			case "nx":
				data.Normals[i].X = v
			case "ny":
				data.Normals[i].Y = v
			case "nz":
				data.Normals[i].Z = v
			case "u", "s", "texture_u":
				data.TexCoords[i].X = v
			case "v", "t", "texture_v":
				data.TexCoords[i].Y = v
			}
		}
	}
	return nil
}

func readPLYFaces(values plyValueReader, elem PLYElement, data *PLYData) error {
	for i := 0; i < elem.Count; i++ {
		for _, p := range elem.Props {
			if !p.IsList || (p.Name != "vertex_indices" && p.Name != "vertex_index") {
				if err := skipPLYProperty(values, p); err != nil {
					return err
				}
				continue
			}

			n, err := values.value(p.CountType)
			if err != nil {
				return err
			}
			if n < 3 {
				return errors.New("ply face has fewer than three corners").
					WithType(ErrTypeInvalidMesh).
					WithTag("face", i)
			}
			corners := make([]int, int(n))
			for c := range corners {
				v, err := values.value(p.Type)
				if err != nil {
					return err
				}
				corners[c] = int(v)
			}

			switch len(corners) {
			case 3:
				data.Triangles = append(data.Triangles, [3]int{corners[0], corners[1], corners[2]})
			case 4:
				data.Quads = append(data.Quads, [4]int{corners[0], corners[1], corners[2], corners[3]})
			default:
				for c := 1; c < len(corners)-1; c++ {
					data.Triangles = append(data.Triangles, [3]int{corners[0], corners[c], corners[c+1]})
				}
			}
		}
	}
	return nil
}

func skipPLYElement(values plyValueReader, elem PLYElement) error {
	for i := 0; i < elem.Count; i++ {
		for _, p := range elem.Props {
			if err := skipPLYProperty(values, p); err != nil {
				return err
			}
		}
	}
	return nil
}

func skipPLYProperty(values plyValueReader, p PLYProperty) error {
	if p.IsList {
		return skipPLYList(values, p)
	}
	_, err := values.value(p.Type)
	return err
}

func skipPLYList(values plyValueReader, p PLYProperty) error {
	n, err := values.value(p.CountType)
	if err != nil {
		return err
	}
	for j := 0; j < int(n); j++ {
		if _, err := values.value(p.Type); err != nil {
			return err
		}
	}
	return nil
}

// plyTypeSize returns the byte size of a PLY scalar type, or 0 if unknown
func plyTypeSize(typ string) int {
	switch typ {
	case "char", "int8", "uchar", "uint8":
		return 1
	case "short", "int16", "ushort", "uint16":
		return 2
	case "int", "int32", "uint", "uint32", "float", "float32":
		return 4
	case "double", "float64":
		return 8
	default:
		return 0
	}
}

// plyValueReader reads the next scalar of the body as a float64
type plyValueReader interface {
	value(typ string) (float64, error)
}

type asciiValueReader struct {
	words *bufio.Scanner
}

func newASCIIValueReader(r io.Reader) *asciiValueReader {
	words := bufio.NewScanner(r)
	words.Split(bufio.ScanWords)
	return &asciiValueReader{words: words}
}

func (a *asciiValueReader) value(string) (float64, error) {
	if !a.words.Scan() {
		if err := a.words.Err(); err != nil {
			return 0, err
		}
		return 0, io.ErrUnexpectedEOF
	}
	return strconv.ParseFloat(a.words.Text(), 64)
}

type binaryValueReader struct {
	r     io.Reader
	order binary.ByteOrder
	buf   [8]byte
}

func (b *binaryValueReader) value(typ string) (float64, error) {
	size := plyTypeSize(typ)
	if _, err := io.ReadFull(b.r, b.buf[:size]); err != nil {
		return 0, err
	}
	buf := b.buf[:size]

	switch typ {
	case "char", "int8":
		return float64(int8(buf[0])), nil
	case "uchar", "uint8":
		return float64(buf[0]), nil
	case "short", "int16":
		return float64(int16(b.order.Uint16(buf))), nil
	case "ushort", "uint16":
		return float64(b.order.Uint16(buf)), nil
	case "int", "int32":
		return float64(int32(b.order.Uint32(buf))), nil
	case "uint", "uint32":
		return float64(b.order.Uint32(buf)), nil
	case "float", "float32":
		return float64(math.Float32frombits(b.order.Uint32(buf))), nil
	default:
		return math.Float64frombits(b.order.Uint64(buf)), nil
	}
}
