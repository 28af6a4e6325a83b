package models

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/qmuntal/gltf"
)

// DefaultFitSize is the extent, in model units, of the largest imported axis.
const DefaultFitSize = 512

var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader converts glTF/GLB meshes into fixed-point models.
type GLTFLoader struct {
	FitSize       int32 // largest axis after import; 0 keeps source units
	ApplyLighting bool
	Lighting      Lighting
	DefaultColor  int32 // HSL16 for primitives without a material color
	Logger        *slog.Logger
}

// NewGLTFLoader creates a new loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		FitSize:       DefaultFitSize,
		ApplyLighting: true,
		Lighting:      DefaultLighting(),
		DefaultColor:  HSL16(8, 2, 90),
		Logger:        slog.Default(),
	}
}

// Imported is a loaded model and the texture images its faces reference.
// Face.Texture indexes Images.
type Imported struct {
	Model  *Model
	Images []image.Image
}

// LoadGLTF loads a .gltf or .glb file with default options.
func LoadGLTF(path string) (*Imported, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a glTF or GLB file.
func (l *GLTFLoader) Load(path string) (*Imported, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	imp, err := l.Convert(doc, filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	imp.Model.Name = filepath.Base(path)
	return imp, nil
}

// meshBuilder collects float geometry before quantization.
type meshBuilder struct {
	positions []mgl32.Vec3
	faces     []Face
	textures  map[int]int32 // glTF texture index -> Images index
	images    []image.Image
}

// Convert builds a model from an already-decoded document. dir resolves
// external image URIs.
func (l *GLTFLoader) Convert(doc *gltf.Document, dir string) (*Imported, error) {
	b := &meshBuilder{textures: make(map[int]int32)}

	roots := sceneRoots(doc)
	if roots == nil {
		for i := range doc.Meshes {
			if err := l.processMesh(doc, dir, i, mgl32.Ident4(), b); err != nil {
				return nil, err
			}
		}
	}
	for _, n := range roots {
		if err := l.walk(doc, dir, n, mgl32.Ident4(), b); err != nil {
			return nil, err
		}
	}
	if len(b.faces) == 0 {
		return nil, ErrNoGeometry
	}

	m := l.quantize(b)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("convert gltf: %w", err)
	}
	m.CalculateBounds()
	if l.ApplyLighting {
		m.ApplyLighting(l.Lighting)
	} else {
		m.Resolve()
	}
	return &Imported{Model: m, Images: b.images}, nil
}

func sceneRoots(doc *gltf.Document) []int {
	if len(doc.Scenes) == 0 {
		return nil
	}
	scene := doc.Scenes[0]
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		scene = doc.Scenes[*doc.Scene]
	}
	return scene.Nodes
}

var identityMatrix = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// nodeMatrix returns the node's local transform. Zero-valued rotation and
// scale mean the glTF defaults.
func nodeMatrix(n *gltf.Node) mgl32.Mat4 {
	if n.Matrix != [16]float64{} && n.Matrix != identityMatrix {
		var m mgl32.Mat4
		for i, v := range n.Matrix {
			m[i] = float32(v)
		}
		return m
	}
	t := n.Translation
	r := n.Rotation
	if r == [4]float64{} {
		r = [4]float64{0, 0, 0, 1}
	}
	s := n.Scale
	if s == [3]float64{} {
		s = [3]float64{1, 1, 1}
	}
	q := mgl32.Quat{W: float32(r[3]), V: mgl32.Vec3{float32(r[0]), float32(r[1]), float32(r[2])}}
	return mgl32.Translate3D(float32(t[0]), float32(t[1]), float32(t[2])).
		Mul4(q.Mat4()).
		Mul4(mgl32.Scale3D(float32(s[0]), float32(s[1]), float32(s[2])))
}

func (l *GLTFLoader) walk(doc *gltf.Document, dir string, idx int, parent mgl32.Mat4, b *meshBuilder) error {
	if idx < 0 || idx >= len(doc.Nodes) {
		return fmt.Errorf("node %d: %w", idx, ErrInvalidIndex)
	}
	node := doc.Nodes[idx]
	world := parent.Mul4(nodeMatrix(node))
	if node.Mesh != nil {
		if err := l.processMesh(doc, dir, *node.Mesh, world, b); err != nil {
			return err
		}
	}
	for _, child := range node.Children {
		if err := l.walk(doc, dir, child, world, b); err != nil {
			return err
		}
	}
	return nil
}

// processMesh extracts triangles from every primitive of a glTF mesh.
func (l *GLTFLoader) processMesh(doc *gltf.Document, dir string, meshIdx int, world mgl32.Mat4, b *meshBuilder) error {
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return fmt.Errorf("mesh %d: %w", meshIdx, ErrInvalidIndex)
	}
	mesh := doc.Meshes[meshIdx]
	for _, prim := range mesh.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Skip lines and points
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readVectors(doc, posIdx)
		if err != nil {
			return fmt.Errorf("mesh %q positions: %w", mesh.Name, err)
		}

		var colors [][4]float32
		if ci, ok := prim.Attributes["COLOR_0"]; ok {
			if colors, err = readVectors(doc, ci); err != nil {
				return fmt.Errorf("mesh %q colors: %w", mesh.Name, err)
			}
		}
		var uvs [][4]float32
		if ui, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			if uvs, err = readVectors(doc, ui); err != nil {
				return fmt.Errorf("mesh %q uvs: %w", mesh.Name, err)
			}
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("mesh %q indices: %w", mesh.Name, err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		mat := l.material(doc, dir, prim.Material, b)

		base := int32(len(b.positions))
		for _, p := range positions {
			v := world.Mul4x1(mgl32.Vec4{p[0], p[1], p[2], 1})
			b.positions = append(b.positions, v.Vec3())
		}

		for i := 0; i+2 < len(indices); i += 3 {
			ia, ib, ic := indices[i], indices[i+1], indices[i+2]
			if ia >= len(positions) || ib >= len(positions) || ic >= len(positions) {
				return fmt.Errorf("mesh %q index %d: %w", mesh.Name, i, ErrInvalidIndex)
			}
			hsl := mat.color
			if colors != nil {
				hsl = averageHSL(colors[ia], colors[ib], colors[ic])
			}
			f := Face{
				A: base + int32(ia), B: base + int32(ib), C: base + int32(ic),
				ColorA: hsl, ColorB: hsl, ColorC: hsl, Color: hsl,
				Texture:  NoTexture,
				TexCoord: NoTexCoord,
				Alpha:    mat.alpha,
			}
			if mat.texture != NoTexture && uvs != nil {
				f.Texture = mat.texture
				f.TexCoord = b.uvBasis(f, [3][4]float32{uvs[ia], uvs[ib], uvs[ic]})
				if f.TexCoord == NoTexCoord {
					f.Texture = NoTexture
				}
			}
			b.faces = append(b.faces, f)
		}
	}
	return nil
}

type materialInfo struct {
	color   int32
	alpha   int32
	texture int32
}

func (l *GLTFLoader) material(doc *gltf.Document, dir string, idx *int, b *meshBuilder) materialInfo {
	info := materialInfo{color: l.DefaultColor, texture: NoTexture}
	if idx == nil || *idx >= len(doc.Materials) {
		return info
	}
	mat := doc.Materials[*idx]
	pbr := mat.PBRMetallicRoughness
	if pbr == nil {
		return info
	}
	if f := pbr.BaseColorFactor; f != nil {
		info.color = ColorToHSL16(colorful.Color{R: f[0], G: f[1], B: f[2]})
		if mat.AlphaMode == gltf.AlphaBlend {
			info.alpha = int32(roundf(float32(1-f[3]) * 255))
		}
	}
	if pbr.BaseColorTexture != nil {
		info.texture = b.texture(doc, dir, pbr.BaseColorTexture.Index, l.Logger)
	}
	return info
}

// texture decodes and caches the image behind a glTF texture.
func (b *meshBuilder) texture(doc *gltf.Document, dir string, texIdx int, logger *slog.Logger) int32 {
	if id, ok := b.textures[texIdx]; ok {
		return id
	}
	b.textures[texIdx] = NoTexture
	if texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return NoTexture
	}
	src := *doc.Textures[texIdx].Source
	if src >= len(doc.Images) {
		return NoTexture
	}
	data, err := imageBytes(doc, doc.Images[src], dir)
	if err != nil {
		logger.Warn("skipping texture", "texture", texIdx, "err", err)
		return NoTexture
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		logger.Warn("skipping texture", "texture", texIdx, "err", err)
		return NoTexture
	}
	id := int32(len(b.images))
	b.images = append(b.images, img)
	b.textures[texIdx] = id
	return id
}

func imageBytes(doc *gltf.Document, img *gltf.Image, dir string) ([]byte, error) {
	if img.BufferView != nil {
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil {
			return nil, errors.New("image buffer has no data")
		}
		start := int(bv.ByteOffset)
		return buf.Data[start : start+int(bv.ByteLength)], nil
	}
	if img.URI == "" {
		return nil, errors.New("image has no source")
	}
	if strings.HasPrefix(img.URI, "data:") {
		_, payload, ok := strings.Cut(img.URI, ";base64,")
		if !ok {
			return nil, errors.New("unsupported data uri")
		}
		return base64.StdEncoding.DecodeString(payload)
	}
	return os.ReadFile(filepath.Join(dir, img.URI))
}

// uvBasis solves the affine map from UV space to model space for a face
// and appends the P (uv 0,0), M (1,0) and N (0,1) points as vertices.
func (b *meshBuilder) uvBasis(f Face, uv [3][4]float32) int32 {
	p0, p1, p2 := b.positions[f.A], b.positions[f.B], b.positions[f.C]
	du1, dv1 := uv[1][0]-uv[0][0], uv[1][1]-uv[0][1]
	du2, dv2 := uv[2][0]-uv[0][0], uv[2][1]-uv[0][1]
	det := du1*dv2 - du2*dv1
	if math32.Abs(det) < 1e-8 {
		return NoTexCoord
	}
	e1 := p1.Sub(p0).Mul(dv2).Sub(p2.Sub(p0).Mul(dv1)).Mul(1 / det)
	e2 := p2.Sub(p0).Mul(du1).Sub(p1.Sub(p0).Mul(du2)).Mul(1 / det)
	origin := p0.Sub(e1.Mul(uv[0][0])).Sub(e2.Mul(uv[0][1]))

	p := int32(len(b.positions))
	b.positions = append(b.positions, origin, origin.Add(e1), origin.Add(e2))
	return p
}

// quantize converts float geometry to fixed point, centers it on the
// origin, and flips Y and Z into the renderer's Y-down, Z-forward frame.
func (l *GLTFLoader) quantize(b *meshBuilder) *Model {
	inf := math32.Inf(1)
	lo := mgl32.Vec3{inf, inf, inf}
	hi := lo.Mul(-1)
	for _, f := range b.faces {
		for _, v := range [3]int32{f.A, f.B, f.C} {
			p := b.positions[v]
			for k := range 3 {
				lo[k] = math32.Min(lo[k], p[k])
				hi[k] = math32.Max(hi[k], p[k])
			}
		}
	}
	center := lo.Add(hi).Mul(0.5)
	size := hi.Sub(lo)
	extent := math32.Max(size[0], math32.Max(size[1], size[2]))

	scale := float32(1)
	if l.FitSize > 0 && extent > 0 {
		scale = float32(l.FitSize) / extent
	}

	m := NewModel("gltf")
	m.Vertices = make([]Vertex, len(b.positions))
	for i, p := range b.positions {
		q := p.Sub(center).Mul(scale)
		m.Vertices[i] = Vertex{
			X: int32(roundf(q[0])),
			Y: int32(roundf(-q[1])),
			Z: int32(roundf(-q[2])),
		}
	}

	m.Faces = b.faces
	for i := range m.Faces {
		f := &m.Faces[i]
		if f.TexCoord != NoTexCoord {
			// uvBasis appended P, M, N consecutively
			p := f.TexCoord
			f.TexCoord = int32(len(m.TexCoords))
			m.TexCoords = append(m.TexCoords, TexCoord{P: p, M: p + 1, N: p + 2})
		}
	}
	if len(m.Vertices) > MaxVertices {
		l.Logger.Warn("model exceeds vertex capacity", "vertices", len(m.Vertices), "max", MaxVertices)
	}
	return m
}

func roundf(v float32) float32 {
	return math32.Floor(v + 0.5)
}

func averageHSL(a, b, c [4]float32) int32 {
	return ColorToHSL16(colorful.Color{
		R: float64(a[0]+b[0]+c[0]) / 3,
		G: float64(a[1]+b[1]+c[1]) / 3,
		B: float64(a[2]+b[2]+c[2]) / 3,
	})
}

// readVectors reads any float or normalized-integer accessor into up to
// four components per element.
func readVectors(doc *gltf.Document, accessorIdx int) ([][4]float32, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrInvalidIndex)
	}
	acc := doc.Accessors[accessorIdx]
	comps := int(acc.Type.Components())
	if comps < 1 || comps > 4 {
		return nil, fmt.Errorf("unsupported accessor type: %v", acc.Type)
	}
	size := int(acc.ComponentType.ByteSize())
	data, stride, err := accessorBytes(doc, acc, comps*size)
	if err != nil {
		return nil, err
	}

	count := int(acc.Count)
	result := make([][4]float32, count)
	for i := range count {
		offset := i * stride
		result[i][3] = 1
		for j := range comps {
			v, err := readComponent(data[offset+j*size:], acc.ComponentType, acc.Normalized)
			if err != nil {
				return nil, err
			}
			result[i][j] = v
		}
	}
	return result, nil
}

func readComponent(b []byte, ct gltf.ComponentType, normalized bool) (float32, error) {
	var v, scale float32
	switch ct {
	case gltf.ComponentFloat:
		return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
	case gltf.ComponentUbyte:
		v, scale = float32(b[0]), 255
	case gltf.ComponentByte:
		v, scale = float32(int8(b[0])), 127
	case gltf.ComponentUshort:
		v, scale = float32(binary.LittleEndian.Uint16(b)), 65535
	case gltf.ComponentShort:
		v, scale = float32(int16(binary.LittleEndian.Uint16(b))), 32767
	default:
		return 0, fmt.Errorf("unsupported component type: %v", ct)
	}
	if normalized {
		return math32.Max(v/scale, -1), nil
	}
	return v, nil
}

// readIndices reads index data from a glTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrInvalidIndex)
	}
	acc := doc.Accessors[accessorIdx]
	size := int(acc.ComponentType.ByteSize())
	data, stride, err := accessorBytes(doc, acc, size)
	if err != nil {
		return nil, err
	}

	count := int(acc.Count)
	result := make([]int, count)
	for i := range count {
		b := data[i*stride:]
		switch acc.ComponentType {
		case gltf.ComponentUbyte:
			result[i] = int(b[0])
		case gltf.ComponentUshort:
			result[i] = int(binary.LittleEndian.Uint16(b))
		case gltf.ComponentUint:
			result[i] = int(binary.LittleEndian.Uint32(b))
		default:
			return nil, fmt.Errorf("unexpected index type: %v", acc.ComponentType)
		}
	}
	return result, nil
}

// accessorBytes returns the accessor's backing bytes starting at its first
// element, and the element stride.
func accessorBytes(doc *gltf.Document, acc *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if acc.BufferView == nil {
		return nil, 0, errors.New("accessor has no buffer view")
	}
	bv := doc.BufferViews[*acc.BufferView]
	buf := doc.Buffers[bv.Buffer]
	if buf.Data == nil {
		return nil, 0, errors.New("buffer has no data")
	}

	stride := int(bv.ByteStride)
	if stride == 0 {
		stride = elemSize
	}
	count := int(acc.Count)
	start := int(bv.ByteOffset) + int(acc.ByteOffset)
	end := start + stride*(count-1) + elemSize
	if count == 0 {
		end = start
	}
	if end > len(buf.Data) {
		return nil, 0, fmt.Errorf("accessor overruns buffer (%d > %d)", end, len(buf.Data))
	}
	return buf.Data[start:end], stride, nil
}
