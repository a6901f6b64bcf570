package skeleton

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Bone is a bone's current local pose and derived world transform.
type Bone struct {
	Data     *BoneData
	X        float64
	Y        float64
	Rotation float64
	ScaleX   float64
	ScaleY   float64

	world ebiten.GeoM
}

// World returns the bone's transform in skeleton space.
func (b *Bone) World() ebiten.GeoM { return b.world }

// Skeleton is one posable instance of Data.
type Skeleton struct {
	Data  *Data
	Bones []*Bone
	// Scale is applied to the whole skeleton.
	Scale float64
}

// NewSkeleton creates a skeleton in its setup pose.
func NewSkeleton(d *Data) *Skeleton {
	s := &Skeleton{Data: d, Scale: 1, Bones: make([]*Bone, len(d.Bones))}
	for i, bd := range d.Bones {
		s.Bones[i] = &Bone{Data: bd}
	}
	s.SetToSetupPose()
	s.UpdateWorldTransform()
	return s
}

// FindBone returns the named bone, or nil.
func (s *Skeleton) FindBone(name string) *Bone {
	idx := s.Data.FindBone(name)
	if idx < 0 {
		return nil
	}
	return s.Bones[idx]
}

// SetToSetupPose resets every bone to its data values.
func (s *Skeleton) SetToSetupPose() {
	for _, b := range s.Bones {
		b.X = b.Data.X
		b.Y = b.Data.Y
		b.Rotation = b.Data.Rotation
		b.ScaleX = b.Data.ScaleX
		b.ScaleY = b.Data.ScaleY
	}
}

// UpdateWorldTransform recomputes world transforms. Bones are ordered so a
// parent always precedes its children.
func (s *Skeleton) UpdateWorldTransform() {
	var root ebiten.GeoM
	root.Scale(s.Scale, s.Scale)
	for _, b := range s.Bones {
		var g ebiten.GeoM
		g.Scale(b.ScaleX, b.ScaleY)
		g.Rotate(b.Rotation * math.Pi / 180)
		g.Translate(b.X, b.Y)
		if p := b.Data.parent; p >= 0 {
			g.Concat(s.Bones[p].world)
		} else {
			g.Concat(root)
		}
		b.world = g
	}
}

// apply poses the skeleton with animation a at time t, blending from the
// current pose by alpha.
func (a *Animation) apply(s *Skeleton, t float64, loop bool, alpha float64) {
	if a == nil {
		return
	}
	if loop && a.Duration > 0 {
		t = math.Mod(t, a.Duration)
	} else if t > a.Duration {
		t = a.Duration
	}
	for _, tl := range a.Bones {
		b := s.Bones[tl.bone]
		if len(tl.Rotate) > 0 {
			r := b.Data.Rotation + sampleRotate(tl.Rotate, t)
			b.Rotation += (r - b.Rotation) * alpha
		}
		if len(tl.Translate) > 0 {
			x, y := sampleVector(tl.Translate, t)
			b.X += (b.Data.X + x - b.X) * alpha
			b.Y += (b.Data.Y + y - b.Y) * alpha
		}
		if len(tl.Scale) > 0 {
			x, y := sampleVector(tl.Scale, t)
			b.ScaleX += (b.Data.ScaleX*x - b.ScaleX) * alpha
			b.ScaleY += (b.Data.ScaleY*y - b.ScaleY) * alpha
		}
	}
}
