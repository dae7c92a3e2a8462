package raster

import (
	"fmt"
	"strings"
)

// Mode selects how vertex attributes are interpolated across a triangle.
type Mode int

const (
	// ModeNaive interpolates attributes linearly in screen space.
	ModeNaive Mode = iota
	// ModePerspective interpolates attribute/z and 1/z, then divides.
	ModePerspective
)

func (m Mode) String() string {
	switch m {
	case ModeNaive:
		return "naive"
	case ModePerspective:
		return "perspective"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "naive", "perspective", "perspective-correct" and "correct".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "naive", "linear":
		return ModeNaive, nil
	case "perspective", "perspective-correct", "correct":
		return ModePerspective, nil
	}
	return 0, fmt.Errorf("raster: unknown interpolation mode %q", s)
}

// Origin selects which framebuffer corner raster y = 0 maps to.
type Origin int

const (
	// OriginBottomLeft puts raster y = 0 on the last framebuffer row, so
	// positive camera y points up in the image.
	OriginBottomLeft Origin = iota
	// OriginTopLeft puts raster y = 0 on the first framebuffer row.
	OriginTopLeft
)

func (o Origin) String() string {
	switch o {
	case OriginBottomLeft:
		return "bottom-left"
	case OriginTopLeft:
		return "top-left"
	}
	return fmt.Sprintf("Origin(%d)", int(o))
}

// ParseOrigin accepts "bottom-left" (also "bl", or empty) and "top-left" ("tl").
func ParseOrigin(s string) (Origin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bottom-left", "bottomleft", "bl", "":
		return OriginBottomLeft, nil
	case "top-left", "topleft", "tl":
		return OriginTopLeft, nil
	}
	return 0, fmt.Errorf("raster: unknown origin %q", s)
}
