package skeleton

import (
	"errors"
	"strings"
	"testing"

	"github.com/milk9111/scrollanim/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testData = `
name: walker
bones:
  - name: root
  - name: hip
    parent: root
    y: -10
  - name: arm
    parent: hip
    x: 5
    rotation: 10
slots:
  - name: body
    bone: hip
    attachment: body
animations:
  run:
    bones:
      arm:
        rotate:
          - {time: 0, angle: 0}
          - {time: 1, angle: 90}
      hip:
        translate:
          - {time: 0, x: 0, y: 0}
          - {time: 0.5, x: 10, y: 0}
  idle:
    bones:
      arm:
        rotate:
          - {time: 0, angle: -10}
`

const testAtlas = `
walker.png
size: 64,32
format: RGBA8888
filter: Linear,Linear
repeat: none
body
  rotate: false
  xy: 2, 4
  size: 20, 24
  orig: 20, 24
  offset: 0, 0
  index: -1
head
  bounds: 30, 0, 16, 16
`

func mustData(t *testing.T) *Data {
	t.Helper()
	d, err := ParseData([]byte(testData))
	require.NoError(t, err)
	return d
}

func TestParseData(t *testing.T) {
	d := mustData(t)
	assert.Equal(t, 1, d.FindBone("hip"))
	assert.Equal(t, -1, d.FindBone("tail"))
	run, err := d.FindAnimation("run")
	require.NoError(t, err)
	assert.Equal(t, "run", run.Name)
	assert.InDelta(t, 1.0, run.Duration, 1e-9)

	_, err = d.FindAnimation("jump")
	assert.True(t, errors.Is(err, ErrUnknownAnimation))
}

func TestParseDataErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"no_bones", "name: x\n"},
		{"bad_parent", "bones:\n  - name: a\n    parent: b\n"},
		{"duplicate", "bones:\n  - name: a\n  - name: a\n"},
		{"bad_slot_bone", "bones:\n  - name: a\nslots:\n  - name: s\n    bone: z\n"},
		{"null_bone", "bones: [~]\n"},
		{"null_slot", "bones:\n  - name: a\nslots:\n  -\n"},
		{"null_timeline", "bones:\n  - name: root\nanimations:\n  run:\n    bones:\n      root:\n"},
		{"bad_timeline_bone", "bones:\n  - name: a\nanimations:\n  run:\n    bones:\n      z:\n        rotate: [{time: 0, angle: 1}]\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseData([]byte(tc.in))
			assert.Error(t, err)
		})
	}
}

func TestParseAtlasAndBind(t *testing.T) {
	a, err := ParseAtlas(strings.NewReader(testAtlas))
	require.NoError(t, err)
	require.Len(t, a.Pages, 1)
	assert.Equal(t, "walker.png", a.Pages[0].Name)
	assert.Equal(t, 64, a.Pages[0].Width)

	body := a.Region("body")
	require.NotNil(t, body)
	assert.Equal(t, [4]int{2, 4, 20, 24}, [4]int{body.X, body.Y, body.Width, body.Height})
	head := a.Region("head")
	require.NotNil(t, head)
	assert.Equal(t, 16, head.OrigW, "orig defaults to size")

	page := &scene.Texture{Width: 64, Height: 32}
	assert.True(t, a.Bind("walker.png", page))
	assert.False(t, a.Bind("missing.png", page))
	require.NotNil(t, body.Texture)
	assert.Equal(t, 20, body.Texture.Width)
	assert.Same(t, page, body.Texture.Source())
}

func TestParseAtlasRejectsRotation(t *testing.T) {
	_, err := ParseAtlas(strings.NewReader("p.png\nsize: 8,8\nr\n  rotate: true\n"))
	assert.True(t, errors.Is(err, ErrRotatedRegion))
}

func TestAnimationPose(t *testing.T) {
	d := mustData(t)
	sk := NewSkeleton(d)
	state := NewAnimationState(NewStateData(d))
	_, err := state.SetAnimation(0, "run", true)
	require.NoError(t, err)

	state.Update(0.5)
	state.Apply(sk)
	arm := sk.FindBone("arm")
	hip := sk.FindBone("hip")
	assert.InDelta(t, 10+45, arm.Rotation, 1e-9, "rotation is an offset from setup")
	assert.InDelta(t, 10, hip.X, 1e-9)
	assert.InDelta(t, -10, hip.Y, 1e-9)

	state.Update(0.75)
	state.Apply(sk)
	assert.InDelta(t, 10+22.5, arm.Rotation, 1e-9, "looping wraps time")
}

func TestWorldTransformFollowsParents(t *testing.T) {
	d := mustData(t)
	sk := NewSkeleton(d)
	sk.Scale = 2
	sk.UpdateWorldTransform()
	g := sk.FindBone("arm").World()
	x, y := g.Apply(0, 0)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, -20, y, 1e-9)
}

func TestDefaultMixCrossfades(t *testing.T) {
	d := mustData(t)
	sk := NewSkeleton(d)
	state := NewAnimationState(NewStateData(d))
	state.Data().DefaultMix = 0.2

	_, err := state.SetAnimation(0, "idle", true)
	require.NoError(t, err)
	state.Update(0.1)
	entry, err := state.SetAnimation(0, "run", true)
	require.NoError(t, err)
	require.NotNil(t, entry.MixingFrom())
	assert.InDelta(t, 0.2, entry.MixDuration, 1e-9)

	state.Update(0.1)
	state.Apply(sk)
	// idle pose 0 deg, run at t=0.1 is 10+9; halfway through the mix.
	assert.InDelta(t, (0+19)/2.0, sk.FindBone("arm").Rotation, 1e-9)

	state.Update(0.2)
	assert.Nil(t, entry.MixingFrom())
}

func TestSetAnimationUnknown(t *testing.T) {
	d := mustData(t)
	state := NewAnimationState(NewStateData(d))
	_, err := state.SetAnimation(0, "fly", false)
	assert.True(t, errors.Is(err, ErrUnknownAnimation))
	_, err = state.SetAnimation(-1, "run", false)
	assert.Error(t, err)
}

func TestCharacterDestroyKeepsAtlas(t *testing.T) {
	d := mustData(t)
	a, err := ParseAtlas(strings.NewReader(testAtlas))
	require.NoError(t, err)
	page := &scene.Texture{Width: 64, Height: 32}
	a.Bind("walker.png", page)

	c, err := NewCharacter("walker", CharacterOptions{Data: d, Atlas: a, Scale: 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, c.Skeleton().Scale, 1e-9)
	stage := scene.NewContainer("stage")
	stage.AddChild(c)

	_, err = c.State().SetAnimation(0, "run", true)
	require.NoError(t, err)
	c.Update(0.25)

	c.Destroy(scene.DestroyOptions{})
	assert.True(t, c.Destroyed())
	assert.Empty(t, stage.Children())
	assert.False(t, page.Released())
	assert.Nil(t, c.State().Current(0))

	_, err = NewCharacter("empty", CharacterOptions{})
	assert.Error(t, err)
}
