// Package render is the fixed-point model renderer: projection, culling,
// painter's-order face sorting and the scanline rasterizers.
package render

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer is a caller-owned pixel target. Pixels are packed 0xRRGGBB;
// the top byte is ignored. Rows are Stride pixels apart.
type Framebuffer struct {
	Width  int
	Height int
	Stride int
	Pixels []uint32
}

// NewFramebuffer creates a framebuffer with Stride equal to width.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Stride: width,
		Pixels: make([]uint32, width*height),
	}
}

// ViewPort returns a viewport centered on the framebuffer.
func (fb *Framebuffer) ViewPort() ViewPort {
	vp := NewViewPort(fb.Width, fb.Height)
	vp.Stride = int32(fb.Stride)
	return vp
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c uint32) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c uint32) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Stride+x] = c
}

// GetPixel returns the color at (x, y), or 0 if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) uint32 {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return 0
	}
	return fb.Pixels[y*fb.Stride+x]
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c uint32) {
	// Trivially reject lines entirely off one side.
	if (x0 < 0 && x1 < 0) || (y0 < 0 && y1 < 0) ||
		(x0 >= fb.Width && x1 >= fb.Width) || (y0 >= fb.Height && y1 >= fb.Height) {
		return
	}
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c uint32) {
	for py := max(y, 0); py < min(y+h, fb.Height); py++ {
		row := fb.Pixels[py*fb.Stride:]
		for px := max(x, 0); px < min(x+w, fb.Width); px++ {
			row[px] = c
		}
	}
}

// DrawRectOutline draws a rectangle outline.
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c uint32) {
	for px := x; px < x+w; px++ {
		fb.SetPixel(px, y, c)
		fb.SetPixel(px, y+h-1, c)
	}
	for py := y; py < y+h; py++ {
		fb.SetPixel(x, py, c)
		fb.SetPixel(x+w-1, py, c)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// RGBA unpacks a 0xRRGGBB pixel into an opaque color.
func RGBA(p uint32) color.RGBA {
	return color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: 0xFF}
}

// Pack converts any color to 0xRRGGBB.
func Pack(c color.Color) uint32 {
	r, g, b, _ := c.RGBA()
	return (r>>8)<<16 | (g>>8)<<8 | b>>8
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		row := fb.Pixels[y*fb.Stride:]
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, RGBA(row[x]))
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
