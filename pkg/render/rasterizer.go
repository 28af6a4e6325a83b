package render

import (
	"fmt"
	"log/slog"

	"github.com/taigrr/scanline/pkg/models"
)

// Options configures a Rasterizer.
type Options struct {
	Logger    *slog.Logger
	Projector BatchProjector
	Palette   *Palette
	Textures  *TextureRegistry
}

// Option sets one field of Options.
type Option func(*Options)

// WithLogger sets the logger used for per-frame warnings.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// WithProjector replaces the default BlockProjector.
func WithProjector(p BatchProjector) Option {
	return func(o *Options) { o.Projector = p }
}

// WithPalette replaces the default HSL palette.
func WithPalette(p *Palette) Option {
	return func(o *Options) { o.Palette = p }
}

// WithTextures sets the registry textured faces are looked up in.
func WithTextures(t *TextureRegistry) Option {
	return func(o *Options) { o.Textures = t }
}

// CullingStats counts models and faces through the pipeline.
type CullingStats struct {
	ModelsTested int // Models passed to Cull
	ModelsCulled int // Models rejected by the cylinder or screen box
	ModelsDrawn  int // Models rasterized
	FacesDrawn   int // Faces handed to a triangle rasterizer
	FacesClipped int // Faces that went through the near-plane clipper
}

// Rasterizer is the per-goroutine render context. It owns every scratch
// buffer a frame needs and keeps the last projected model so it can be
// rasterized or hit-tested afterwards.
type Rasterizer struct {
	CullingStats           CullingStats // Statistics for debugging/benchmarking
	DisableBackfaceCulling bool         // If true, faces of either winding are drawn
	AffineTextures         bool         // Map textures linearly in screen space
	GouraudBarycentric     bool         // Use the plane-gradient gouraud rasterizer

	logger    *slog.Logger
	projector BatchProjector
	palette   *Palette
	textures  *TextureRegistry

	vb     *VertexBuffer
	order  *DrawOrder
	clip   ClipPolygon
	warned map[int32]struct{}

	// Last projection.
	model  *models.Model
	params ProjectionParams
	vp     ViewPort
	aabb   AABB
}

// NewRasterizer creates a render context.
func NewRasterizer(opts ...Option) *Rasterizer {
	o := Options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slogger()
	}
	if o.Projector == nil {
		o.Projector = BlockProjector{}
	}
	if o.Palette == nil {
		o.Palette = DefaultPalette()
	}
	return &Rasterizer{
		logger:    o.Logger,
		projector: o.Projector,
		palette:   o.Palette,
		textures:  o.Textures,
		vb:        NewVertexBuffer(models.MaxVertices),
		order:     NewDrawOrder(),
		warned:    make(map[int32]struct{}),
	}
}

// ResetCullingStats resets the statistics (call once per frame).
func (r *Rasterizer) ResetCullingStats() {
	r.CullingStats = CullingStats{}
}

// Palette returns the palette faces are colored with.
func (r *Rasterizer) Palette() *Palette {
	return r.palette
}

// Textures returns the texture registry, which may be nil.
func (r *Rasterizer) Textures() *TextureRegistry {
	return r.textures
}

// Vertices returns the projected vertices of the last model.
func (r *Rasterizer) Vertices() *VertexBuffer {
	return r.vb
}

// Order returns the face draw order of the last model, back to front.
func (r *Rasterizer) Order() []int32 {
	return r.order.Order()
}

// ProjectedAABB returns the screen box computed for the last model.
func (r *Rasterizer) ProjectedAABB() AABB {
	return r.aabb
}

func checkModel(m *models.Model) error {
	if m == nil {
		return ErrNilModel
	}
	if len(m.Vertices) == 0 || len(m.Faces) == 0 {
		return fmt.Errorf("%q: %w", m.Name, ErrEmptyModel)
	}
	return nil
}

// Cull decides whether m placed at pos can appear in the viewport. The
// error is non-nil only with CullError.
func (r *Rasterizer) Cull(m *models.Model, pos Position, cam *Camera, vp ViewPort) (CullResult, error) {
	r.CullingStats.ModelsTested++
	if err := checkModel(m); err != nil {
		return CullError, err
	}

	r.params = NewProjectionParams(cam, pos, 0)
	mid, culled := FastCull(m.Bounds, &r.params, vp)
	if culled {
		r.CullingStats.ModelsCulled++
		return CullFast, nil
	}

	r.aabb = ComputeAABB(m.Bounds, &r.params, vp)
	if !r.aabb.Visible(vp) {
		r.CullingStats.ModelsCulled++
		return CullAABB, nil
	}

	r.params.MidZ = mid.Z
	return CullVisible, nil
}

// ProjectModel culls m, projects its vertices and resolves the face draw
// order. Nothing is drawn until RasterProjectedModel.
func (r *Rasterizer) ProjectModel(m *models.Model, pos Position, cam *Camera, vp ViewPort) (CullResult, error) {
	r.model = nil
	res, err := r.Cull(m, pos, cam, vp)
	if res != CullVisible {
		return res, err
	}
	if err := m.Validate(); err != nil {
		return CullError, fmt.Errorf("%q: %w", m.Name, err)
	}

	if err := r.projector.Project(r.vb, m.Vertices, &r.params); err != nil {
		return CullError, fmt.Errorf("project %q: %w", m.Name, err)
	}
	if err := r.order.DepthSort(r.vb, m.Faces, m.Bounds.MinDepth, r.DisableBackfaceCulling); err != nil {
		return CullError, fmt.Errorf("sort %q: %w", m.Name, err)
	}
	if m.HasPriorities {
		if err := r.order.PrioritySort(m.Faces); err != nil {
			return CullError, fmt.Errorf("sort %q: %w", m.Name, err)
		}
	}

	r.model = m
	r.vp = vp
	return CullVisible, nil
}

// RasterProjectedModel draws the faces of the last projected model in draw
// order. It does nothing if the last projection was culled.
func (r *Rasterizer) RasterProjectedModel(fb *Framebuffer) {
	m := r.model
	if m == nil {
		return
	}
	r.CullingStats.ModelsDrawn++
	for _, fi := range r.order.Order() {
		r.rasterFace(fb, m, fi)
	}
}

// RenderModel projects and draws m into fb in one step, using fb as the
// viewport.
func (r *Rasterizer) RenderModel(fb *Framebuffer, m *models.Model, pos Position, cam *Camera) (CullResult, error) {
	res, err := r.ProjectModel(m, pos, cam, fb.ViewPort())
	if res != CullVisible {
		return res, err
	}
	r.RasterProjectedModel(fb)
	return CullVisible, nil
}

// Contains reports whether framebuffer pixel (x, y) lies on a drawn face of
// the last projected model. Faces touching the near plane are ignored.
func (r *Rasterizer) Contains(x, y int32) bool {
	m := r.model
	if m == nil || !r.aabb.Contains(x, y) {
		return false
	}
	px := int64(x - r.vp.Width>>1)
	py := int64(y - r.vp.Height>>1)
	vb := r.vb
	for _, fi := range r.order.Order() {
		f := &m.Faces[fi]
		if f.Kind == models.FaceHidden || vb.Clipped(f.A) || vb.Clipped(f.B) || vb.Clipped(f.C) {
			continue
		}
		xa, ya := int64(vb.ScreenX[f.A]), int64(vb.ScreenY[f.A])
		xb, yb := int64(vb.ScreenX[f.B]), int64(vb.ScreenY[f.B])
		xc, yc := int64(vb.ScreenX[f.C]), int64(vb.ScreenY[f.C])

		d0 := (xb-xa)*(py-ya) - (yb-ya)*(px-xa)
		d1 := (xc-xb)*(py-yb) - (yc-yb)*(px-xb)
		d2 := (xa-xc)*(py-yc) - (ya-yc)*(px-xc)
		if (d0 >= 0 && d1 >= 0 && d2 >= 0) || (d0 <= 0 && d1 <= 0 && d2 <= 0) {
			return true
		}
	}
	return false
}

// texture looks up a face texture, warning once per missing id.
func (r *Rasterizer) texture(id int32) *Texture {
	if tex, ok := r.textures.Get(id); ok && tex != nil {
		return tex
	}
	if _, seen := r.warned[id]; !seen {
		r.warned[id] = struct{}{}
		r.logger.Warn("texture not registered, drawing flat", "texture", id)
	}
	return nil
}

func (r *Rasterizer) rasterFace(fb *Framebuffer, m *models.Model, fi int32) {
	f := &m.Faces[fi]
	vb := r.vb
	cx, cy := int32(fb.Width)>>1, int32(fb.Height)>>1

	var draw func(x0, y0, x1, y1, x2, y2, c0, c1, c2 int32)
	colors := [3]int32{f.ColorA, f.ColorB, f.ColorC}

	switch f.Kind {
	case models.FaceHidden:
		return

	case models.FaceTextured, models.FaceTexturedFlat:
		tex := r.texture(f.Texture)
		if tex == nil {
			rgb := r.palette.RGB(f.Color)
			draw = func(x0, y0, x1, y1, x2, y2, _, _, _ int32) {
				RasterFlat(fb, x0, y0, x1, y1, x2, y2, rgb)
			}
			break
		}
		if f.Kind == models.FaceTexturedFlat {
			colors = [3]int32{f.ColorA, f.ColorA, f.ColorA}
		}
		b := r.uvBasis(m, f)
		fov := r.params.FOV
		draw = func(x0, y0, x1, y1, x2, y2, s0, s1, s2 int32) {
			switch {
			case r.AffineTextures:
				RasterTextureAffine(fb, tex, fov, x0, y0, x1, y1, x2, y2, b, s0, s1, s2)
			case s0 == s1 && s1 == s2:
				RasterTextureFlat(fb, tex, fov, x0, y0, x1, y1, x2, y2, b, s0)
			default:
				RasterTexture(fb, tex, fov, x0, y0, x1, y1, x2, y2, b, s0, s1, s2)
			}
		}

	case models.FaceFlat:
		rgb := r.palette.RGB(f.ColorA)
		alpha := faceAlpha(f.Alpha)
		draw = func(x0, y0, x1, y1, x2, y2, _, _, _ int32) {
			if alpha == 0xFF {
				RasterFlat(fb, x0, y0, x1, y1, x2, y2, rgb)
				return
			}
			RasterFlatAlpha(fb, x0, y0, x1, y1, x2, y2, rgb, alpha)
		}

	default:
		pal := r.palette
		alpha := faceAlpha(f.Alpha)
		draw = func(x0, y0, x1, y1, x2, y2, c0, c1, c2 int32) {
			switch {
			case alpha != 0xFF:
				RasterGouraudAlpha(fb, pal, x0, y0, x1, y1, x2, y2, c0, c1, c2, alpha)
			case r.GouraudBarycentric:
				RasterGouraudBarycentric(fb, pal, x0, y0, x1, y1, x2, y2, c0, c1, c2)
			default:
				RasterGouraudBlock(fb, pal, x0, y0, x1, y1, x2, y2, c0, c1, c2)
			}
		}
	}

	r.CullingStats.FacesDrawn++
	if !vb.Clipped(f.A) && !vb.Clipped(f.B) && !vb.Clipped(f.C) {
		draw(
			vb.ScreenX[f.A]+cx, vb.ScreenY[f.A]+cy,
			vb.ScreenX[f.B]+cx, vb.ScreenY[f.B]+cy,
			vb.ScreenX[f.C]+cx, vb.ScreenY[f.C]+cy,
			colors[0], colors[1], colors[2],
		)
		return
	}

	r.CullingStats.FacesClipped++
	p := &r.clip
	if !ClipNear(vb, f.A, f.B, f.C, colors, r.params.Near, r.params.FOV, p) {
		return
	}
	for _, t := range p.Triangles() {
		i, j, k := t[0], t[1], t[2]
		draw(
			p.X[i]+cx, p.Y[i]+cy,
			p.X[j]+cx, p.Y[j]+cy,
			p.X[k]+cx, p.Y[k]+cy,
			p.Color[i], p.Color[j], p.Color[k],
		)
	}
}

// uvBasis gathers the camera-space texture frame for a face from its
// texture coordinate triple, or from its own vertices when it has none.
func (r *Rasterizer) uvBasis(m *models.Model, f *models.Face) UVBasis {
	p, mm, n := f.A, f.B, f.C
	if f.TexCoord != models.NoTexCoord {
		tc := m.TexCoords[f.TexCoord]
		p, mm, n = tc.P, tc.M, tc.N
	}
	vb := r.vb
	return UVBasis{
		PX: vb.OrthoX[p], PY: vb.OrthoY[p], PZ: vb.OrthoZ[p],
		MX: vb.OrthoX[mm], MY: vb.OrthoY[mm], MZ: vb.OrthoZ[mm],
		NX: vb.OrthoX[n], NY: vb.OrthoY[n], NZ: vb.OrthoZ[n],
	}
}
