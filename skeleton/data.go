// Package skeleton is a small bone-based animation runtime: skeleton data
// and texture atlases are loaded from text files, animation state blends
// keyframed bone timelines, and Character puts the posed skeleton into the
// scene tree.
package skeleton

import (
	"errors"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

var (
	// ErrUnknownAnimation is returned when an animation name is not in the
	// skeleton data.
	ErrUnknownAnimation = errors.New("skeleton: unknown animation")
	// ErrUnknownBone is returned when data references a missing bone.
	ErrUnknownBone = errors.New("skeleton: unknown bone")
)

// BoneData is a bone's setup pose. Rotation is in degrees; zero scales are
// read as 1.
type BoneData struct {
	Name     string  `yaml:"name"`
	Parent   string  `yaml:"parent"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
	ScaleX   float64 `yaml:"scaleX"`
	ScaleY   float64 `yaml:"scaleY"`
	Length   float64 `yaml:"length"`

	parent int
}

// SlotData attaches an atlas region to a bone. The region is centred on the
// slot's offset.
type SlotData struct {
	Name       string  `yaml:"name"`
	Bone       string  `yaml:"bone"`
	Attachment string  `yaml:"attachment"`
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Rotation   float64 `yaml:"rotation"`
	ScaleX     float64 `yaml:"scaleX"`
	ScaleY     float64 `yaml:"scaleY"`

	bone int
}

// RotateKey is a rotation offset from the setup pose at Time seconds.
type RotateKey struct {
	Time  float64 `yaml:"time"`
	Angle float64 `yaml:"angle"`
}

// VectorKey is a translate offset or scale factor at Time seconds.
type VectorKey struct {
	Time float64 `yaml:"time"`
	X    float64 `yaml:"x"`
	Y    float64 `yaml:"y"`
}

// BoneTimeline holds the keys animating one bone. Keys are linear.
type BoneTimeline struct {
	Rotate    []RotateKey `yaml:"rotate"`
	Translate []VectorKey `yaml:"translate"`
	Scale     []VectorKey `yaml:"scale"`

	bone int
}

// Animation is a named set of bone timelines.
type Animation struct {
	Name     string
	Duration float64
	Bones    map[string]*BoneTimeline `yaml:"bones"`
}

// Data is an immutable skeleton definition shared by every character built
// from it.
type Data struct {
	Name       string                `yaml:"name"`
	Width      float64               `yaml:"width"`
	Height     float64               `yaml:"height"`
	Bones      []*BoneData           `yaml:"bones"`
	Slots      []*SlotData           `yaml:"slots"`
	Animations map[string]*Animation `yaml:"animations"`

	boneIndex map[string]int
}

// ParseData decodes YAML skeleton data and resolves its references.
func ParseData(b []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("skeleton: unmarshal data: %w", err)
	}
	if err := d.resolve(); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Data) resolve() error {
	if len(d.Bones) == 0 {
		return fmt.Errorf("skeleton: %q has no bones", d.Name)
	}
	d.boneIndex = make(map[string]int, len(d.Bones))
	for i, b := range d.Bones {
		if b == nil {
			return fmt.Errorf("skeleton: bone %d is empty", i)
		}
		if b.Name == "" {
			return fmt.Errorf("skeleton: bone %d has no name", i)
		}
		if _, dup := d.boneIndex[b.Name]; dup {
			return fmt.Errorf("skeleton: duplicate bone %q", b.Name)
		}
		b.parent = -1
		if b.Parent != "" {
			p, ok := d.boneIndex[b.Parent]
			if !ok {
				return fmt.Errorf("skeleton: bone %q parent %q: %w", b.Name, b.Parent, ErrUnknownBone)
			}
			b.parent = p
		}
		if b.ScaleX == 0 {
			b.ScaleX = 1
		}
		if b.ScaleY == 0 {
			b.ScaleY = 1
		}
		d.boneIndex[b.Name] = i
	}
	for i, s := range d.Slots {
		if s == nil {
			return fmt.Errorf("skeleton: slot %d is empty", i)
		}
		idx, ok := d.boneIndex[s.Bone]
		if !ok {
			return fmt.Errorf("skeleton: slot %q bone %q: %w", s.Name, s.Bone, ErrUnknownBone)
		}
		s.bone = idx
		if s.ScaleX == 0 {
			s.ScaleX = 1
		}
		if s.ScaleY == 0 {
			s.ScaleY = 1
		}
	}
	for name, a := range d.Animations {
		if a == nil {
			return fmt.Errorf("skeleton: animation %q is empty", name)
		}
		a.Name = name
		for boneName, tl := range a.Bones {
			idx, ok := d.boneIndex[boneName]
			if !ok {
				return fmt.Errorf("skeleton: animation %q bone %q: %w", name, boneName, ErrUnknownBone)
			}
			if tl == nil {
				return fmt.Errorf("skeleton: animation %q bone %q has no timeline", name, boneName)
			}
			tl.bone = idx
			sort.SliceStable(tl.Rotate, func(i, j int) bool { return tl.Rotate[i].Time < tl.Rotate[j].Time })
			sort.SliceStable(tl.Translate, func(i, j int) bool { return tl.Translate[i].Time < tl.Translate[j].Time })
			sort.SliceStable(tl.Scale, func(i, j int) bool { return tl.Scale[i].Time < tl.Scale[j].Time })
			a.Duration = max(a.Duration, tl.lastTime())
		}
	}
	return nil
}

// FindBone returns the index of the named bone, or -1.
func (d *Data) FindBone(name string) int {
	if idx, ok := d.boneIndex[name]; ok {
		return idx
	}
	return -1
}

// FindAnimation returns the named animation.
func (d *Data) FindAnimation(name string) (*Animation, error) {
	a, ok := d.Animations[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAnimation, name)
	}
	return a, nil
}

func (tl *BoneTimeline) lastTime() float64 {
	last := 0.0
	if n := len(tl.Rotate); n > 0 {
		last = max(last, tl.Rotate[n-1].Time)
	}
	if n := len(tl.Translate); n > 0 {
		last = max(last, tl.Translate[n-1].Time)
	}
	if n := len(tl.Scale); n > 0 {
		last = max(last, tl.Scale[n-1].Time)
	}
	return last
}

func sampleRotate(keys []RotateKey, t float64) float64 {
	if len(keys) == 0 {
		return 0
	}
	if t <= keys[0].Time {
		return keys[0].Angle
	}
	for i := 1; i < len(keys); i++ {
		if t < keys[i].Time {
			a, b := keys[i-1], keys[i]
			return a.Angle + (b.Angle-a.Angle)*(t-a.Time)/(b.Time-a.Time)
		}
	}
	return keys[len(keys)-1].Angle
}

func sampleVector(keys []VectorKey, t float64) (float64, float64) {
	if len(keys) == 0 {
		return 0, 0
	}
	if t <= keys[0].Time {
		return keys[0].X, keys[0].Y
	}
	for i := 1; i < len(keys); i++ {
		if t < keys[i].Time {
			a, b := keys[i-1], keys[i]
			f := (t - a.Time) / (b.Time - a.Time)
			return a.X + (b.X-a.X)*f, a.Y + (b.Y-a.Y)*f
		}
	}
	last := keys[len(keys)-1]
	return last.X, last.Y
}
