package render

import (
	"github.com/taigrr/scanline/pkg/math3d"
	"github.com/taigrr/scanline/pkg/models"
)

// BatchProjector projects every vertex of a model into a VertexBuffer.
// Implementations must produce exactly the same values as ScalarProjector.
type BatchProjector interface {
	Project(dst *VertexBuffer, src []models.Vertex, p *ProjectionParams) error
}

// ScalarProjector projects one vertex at a time. It is the reference every
// other projector is tested against.
type ScalarProjector struct{}

// Project implements BatchProjector.
func (ScalarProjector) Project(dst *VertexBuffer, src []models.Vertex, p *ProjectionParams) error {
	if err := dst.Reset(len(src)); err != nil {
		return err
	}
	c := cot15(p.FOV)
	for i, v := range src {
		projectInto(dst, i, v, p, c)
	}
	return nil
}

// lanes is the width of one BlockProjector step.
const lanes = 4

// BlockProjector projects four vertices per step with every stage written
// over fixed-size lane arrays, which the compiler keeps in registers and
// bounds-check free. The tail falls back to the scalar path.
type BlockProjector struct{}

// Project implements BatchProjector.
func (BlockProjector) Project(dst *VertexBuffer, src []models.Vertex, p *ProjectionParams) error {
	if err := dst.Reset(len(src)); err != nil {
		return err
	}

	t := math3d.Trig()
	cosPitch, sinPitch := t.Cos[p.Pitch&math3d.AngleMask], t.Sin[p.Pitch&math3d.AngleMask]
	cosYaw, sinYaw := t.Cos[p.CameraYaw&math3d.AngleMask], t.Sin[p.CameraYaw&math3d.AngleMask]
	cosModel, sinModel := t.Cos[p.Yaw&math3d.AngleMask], t.Sin[p.Yaw&math3d.AngleMask]
	c := cot15(p.FOV)

	n := len(src) &^ (lanes - 1)
	var x, y, z, sx, sy [lanes]int32
	for base := 0; base < n; base += lanes {
		for l := range lanes {
			v := src[base+l]
			x[l], y[l], z[l] = v.X, v.Y, v.Z
		}

		if p.Yaw != 0 {
			for l := range lanes {
				xr := (x[l]*cosModel + z[l]*sinModel) >> 16
				z[l] = (z[l]*cosModel - x[l]*sinModel) >> 16
				x[l] = xr
			}
		}
		for l := range lanes {
			x[l] += p.SceneX
			y[l] += p.SceneY
			z[l] += p.SceneZ
		}
		for l := range lanes {
			xs := (x[l]*cosYaw + z[l]*sinYaw) >> 16
			z[l] = (z[l]*cosYaw - x[l]*sinYaw) >> 16
			x[l] = xs
		}
		for l := range lanes {
			ys := (y[l]*cosPitch - z[l]*sinPitch) >> 16
			z[l] = (y[l]*sinPitch + z[l]*cosPitch) >> 16
			y[l] = ys
		}
		for l := range lanes {
			sx[l] = ((x[l] * c) >> 15) << math3d.UnitShift
			sy[l] = ((y[l] * c) >> 15) << math3d.UnitShift
		}

		ox := dst.OrthoX[base : base+lanes : base+lanes]
		oy := dst.OrthoY[base : base+lanes : base+lanes]
		oz := dst.OrthoZ[base : base+lanes : base+lanes]
		scx := dst.ScreenX[base : base+lanes : base+lanes]
		scy := dst.ScreenY[base : base+lanes : base+lanes]
		scz := dst.ScreenZ[base : base+lanes : base+lanes]
		for l := range lanes {
			ox[l], oy[l], oz[l] = x[l], y[l], z[l]
			scz[l] = z[l] - p.MidZ
			if z[l] < p.Near {
				scx[l] = ClippedX
				scy[l] = sy[l]
				continue
			}
			px := sx[l] / z[l]
			if px == ClippedX {
				px = ClippedX - 1
			}
			scx[l] = px
			scy[l] = sy[l] / z[l]
		}
	}

	for i := n; i < len(src); i++ {
		projectInto(dst, i, src[i], p, c)
	}
	return nil
}
