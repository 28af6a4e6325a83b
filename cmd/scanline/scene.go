package main

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/taigrr/scanline/pkg/models"
	"github.com/taigrr/scanline/pkg/render"
)

// scene is a loaded model with its textures.
type scene struct {
	name     string
	model    *models.Model
	textures *render.TextureRegistry
}

// defaultColor is the sandstone tone of the built-in box.
var defaultColor = models.HSL16(7, 3, 80)

// loadScene imports path, or builds a box when path is empty. The texture
// flag, when set, replaces every face's texture.
func loadScene(path string, sf *sceneFlags, logger *slog.Logger) (*scene, error) {
	s := &scene{textures: render.NewTextureRegistry()}

	if path == "" {
		s.name = "box"
		s.model = models.NewBox(256, 192, 256, defaultColor)
	} else {
		loader := models.NewGLTFLoader()
		loader.Logger = logger
		imp, err := loader.Load(path)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		s.name = filepath.Base(path)
		s.model = imp.Model
		for i, img := range imp.Images {
			tex, err := render.TextureFromImage(img, render.TextureSizeLarge)
			if err != nil {
				logger.Warn("skipping embedded texture", "texture", i, "err", err)
				continue
			}
			s.textures.Register(int32(i), tex)
		}
	}

	if sf.texture != "" {
		tex, err := render.LoadTexture(sf.texture, render.TextureSizeLarge)
		if err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
		id := int32(s.textures.Len())
		s.textures.Register(id, tex)
		s.model.SetTexture(id)
	}
	if path == "" || sf.texture != "" {
		s.model.ApplyLighting(models.DefaultLighting())
	}

	if err := s.model.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	logger.Debug("scene loaded",
		"model", s.name,
		"vertices", s.model.VertexCount(),
		"faces", s.model.FaceCount(),
		"textures", s.textures.Len(),
	)
	return s, nil
}

// newCamera builds the camera from flags. The model is placed at Focus.
func newCamera(sf *sceneFlags) *render.Camera {
	cam := render.NewCamera()
	cam.SetFOV(sf.fov)
	cam.SetRotation(sf.pitch, 0)
	return cam
}
