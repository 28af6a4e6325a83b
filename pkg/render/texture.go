package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"golang.org/x/image/draw"
)

// Texture sizes supported by the texture rasterizers.
const (
	TextureSizeSmall = 64
	TextureSizeLarge = 128
)

// Direction is the scroll direction of an animated texture.
type Direction uint8

const (
	AnimateNone Direction = iota
	AnimateVDown
	AnimateUDown
	AnimateVUp
	AnimateUUp
)

var (
	directionU = [...]int32{0, 0, -1, 0, 1}
	directionV = [...]int32{0, -1, 0, 1, 0}
)

func (d Direction) String() string {
	switch d {
	case AnimateNone:
		return "none"
	case AnimateVDown:
		return "v-down"
	case AnimateUDown:
		return "u-down"
	case AnimateVUp:
		return "v-up"
	case AnimateUUp:
		return "u-up"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

// Texture is a square texel grid of packed 0xRRGGBB. In a texture that is
// not Opaque, texel 0 is transparent.
type Texture struct {
	Size      int32
	Texels    []uint32
	Opaque    bool
	Animation Direction
	Speed     int32

	scratch []uint32
}

// NewTexture creates a black opaque texture. size must be 64 or 128.
func NewTexture(size int) (*Texture, error) {
	if size != TextureSizeSmall && size != TextureSizeLarge {
		return nil, fmt.Errorf("size %d: %w", size, ErrTextureSize)
	}
	return &Texture{
		Size:   int32(size),
		Texels: make([]uint32, size*size),
		Opaque: true,
	}, nil
}

// shift is log2(Size).
func (t *Texture) shift() uint {
	if t.Size&0x80 != 0 {
		return 7
	}
	return 6
}

// vMask selects the row part of a v coordinate already shifted left by
// shift.
func (t *Texture) vMask() int32 {
	return (t.Size - 1) << t.shift()
}

// SetPixel sets the texel at (x, y). Out of range coordinates are ignored.
func (t *Texture) SetPixel(x, y int, c uint32) {
	if x < 0 || y < 0 || x >= int(t.Size) || y >= int(t.Size) {
		return
	}
	t.Texels[y*int(t.Size)+x] = c
}

// GetPixel returns the texel at (x, y), or 0 if out of range.
func (t *Texture) GetPixel(x, y int) uint32 {
	if x < 0 || y < 0 || x >= int(t.Size) || y >= int(t.Size) {
		return 0
	}
	return t.Texels[y*int(t.Size)+x]
}

// Animate scrolls the texels ticks steps in the animation direction, wrapping
// around the edges.
func (t *Texture) Animate(ticks int32) {
	if t.Animation == AnimateNone || int(t.Animation) >= len(directionU) {
		return
	}
	mask := t.Size - 1
	du := directionU[t.Animation] * ticks * t.Speed
	dv := directionV[t.Animation] * ticks * t.Speed
	if du&mask == 0 && dv&mask == 0 {
		return
	}

	if len(t.scratch) != len(t.Texels) {
		t.scratch = make([]uint32, len(t.Texels))
	}
	copy(t.scratch, t.Texels)

	shift := t.shift()
	for y := range t.Size {
		src := ((y + dv) & mask) << shift
		dst := y << shift
		for x := range t.Size {
			t.Texels[dst+x] = t.scratch[src+((x+du)&mask)]
		}
	}
}

// LoadTexture loads a texture from an image file, resampling it to size.
func LoadTexture(path string, size int) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return TextureFromImage(img, size)
}

// TextureFromImage resamples an image into a size×size texture. Pixels
// with alpha below one half become transparent; black opaque pixels are
// nudged to 0x010101 so they stay visible.
func TextureFromImage(img image.Image, size int) (*Texture, error) {
	tex, err := NewTexture(size)
	if err != nil {
		return nil, err
	}

	dst := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)

	for y := range size {
		for x := range size {
			c := dst.NRGBAAt(x, y)
			if c.A < 0x80 {
				tex.Texels[y*size+x] = 0
				tex.Opaque = false
				continue
			}
			p := RGB(c.R, c.G, c.B)
			if p == 0 {
				p = 0x010101
			}
			tex.Texels[y*size+x] = p
		}
	}
	return tex, nil
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(size, checkSize int, c1, c2 uint32) (*Texture, error) {
	tex, err := NewTexture(size)
	if err != nil {
		return nil, err
	}
	for y := range size {
		for x := range size {
			c := c2
			if (x/checkSize+y/checkSize)%2 == 0 {
				c = c1
			}
			tex.Texels[y*size+x] = c
			if c == 0 {
				tex.Opaque = false
			}
		}
	}
	return tex, nil
}

// TextureRegistry maps texture ids to textures. It is not safe for
// concurrent mutation.
type TextureRegistry struct {
	textures map[int32]*Texture
}

// NewTextureRegistry creates an empty registry.
func NewTextureRegistry() *TextureRegistry {
	return &TextureRegistry{textures: make(map[int32]*Texture)}
}

// Register stores tex under id, replacing any previous texture.
func (r *TextureRegistry) Register(id int32, tex *Texture) {
	r.textures[id] = tex
}

// Get returns the texture for id.
func (r *TextureRegistry) Get(id int32) (*Texture, bool) {
	if r == nil {
		return nil, false
	}
	tex, ok := r.textures[id]
	return tex, ok
}

// Len returns the number of registered textures.
func (r *TextureRegistry) Len() int {
	return len(r.textures)
}

// Animate advances every animated texture by ticks.
func (r *TextureRegistry) Animate(ticks int32) {
	for _, tex := range r.textures {
		tex.Animate(ticks)
	}
}
