package render

import (
	"errors"

	"github.com/taigrr/scanline/pkg/models"
)

var (
	ErrNilModel   = errors.New("nil model")
	ErrEmptyModel = errors.New("model has no vertices or faces")

	// ErrCapacityExceeded is shared with models so callers can test either
	// package's errors with one errors.Is.
	ErrCapacityExceeded = models.ErrCapacityExceeded

	ErrTextureSize = errors.New("texture size must be 64 or 128")
)
