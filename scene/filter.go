package scene

import "github.com/hajimehoshi/ebiten/v2/colorm"

// Filter is a visual effect applied to a node and its subtree.
type Filter interface {
	ColorM() colorm.ColorM
	// Destroy releases the filter. Shared programs are kept unless
	// destroyPrograms is set.
	Destroy(destroyPrograms bool)
	Destroyed() bool
}

// ColorMatrixFilter applies a fixed colour matrix.
type ColorMatrixFilter struct {
	matrix    colorm.ColorM
	destroyed bool
}

// NewColorMatrixFilter wraps cm.
func NewColorMatrixFilter(cm colorm.ColorM) *ColorMatrixFilter {
	return &ColorMatrixFilter{matrix: cm}
}

// NewGrayscaleFilter removes all saturation.
func NewGrayscaleFilter() *ColorMatrixFilter {
	var cm colorm.ColorM
	cm.ChangeHSV(0, 0, 1)
	return NewColorMatrixFilter(cm)
}

// NewBrightnessFilter scales the RGB channels by b.
func NewBrightnessFilter(b float64) *ColorMatrixFilter {
	var cm colorm.ColorM
	cm.Scale(b, b, b, 1)
	return NewColorMatrixFilter(cm)
}

// ColorM implements Filter. A destroyed filter is the identity.
func (f *ColorMatrixFilter) ColorM() colorm.ColorM {
	if f == nil || f.destroyed {
		return colorm.ColorM{}
	}
	return f.matrix
}

// Destroy implements Filter. Colour matrices carry no GPU programs, so the
// flag has no effect.
func (f *ColorMatrixFilter) Destroy(bool) {
	if f == nil {
		return
	}
	f.destroyed = true
}

// Destroyed implements Filter.
func (f *ColorMatrixFilter) Destroyed() bool {
	return f != nil && f.destroyed
}
