// Command skelview previews a skeleton and atlas pair. Space cycles through
// the skeleton's animations.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/scrollanim/assets"
	"github.com/milk9111/scrollanim/scene"
	"github.com/milk9111/scrollanim/skeleton"
)

const viewSize = 512

type viewer struct {
	stage     *scene.Container
	character *skeleton.Character
	names     []string
	current   int
	err       error
}

func (v *viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) && len(v.names) > 1 {
		v.current = (v.current + 1) % len(v.names)
		_, v.err = v.character.State().SetAnimation(0, v.names[v.current], true)
	}
	v.character.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (v *viewer) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x00, 0x30, 0x30, 0xff})
	scene.Draw(screen, v.stage, ebiten.GeoM{}, ebiten.FilterLinear)
	msg := fmt.Sprintf("animation: %s (space for next)", v.names[v.current])
	if v.err != nil {
		msg += "\n" + v.err.Error()
	}
	ebitenutil.DebugPrint(screen, msg)
}

func (v *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return viewSize, viewSize
}

func main() {
	base := flag.String("base", "", "directory to read files from before the embedded assets")
	skelPath := flag.String("skel", "anim/spine/spineboy-pro.skel", "skeleton data key")
	atlasPath := flag.String("atlas", "anim/spine/spineboy-pma.atlas", "atlas key")
	animName := flag.String("anim", "run", "animation to start with")
	scale := flag.Float64("scale", 1, "skeleton scale")
	flag.Parse()

	loader := assets.NewLoader()
	if *base != "" {
		loader.Init(*base)
	}
	if err := loader.Load(context.Background(), *skelPath, *atlasPath); err != nil {
		log.Fatal(err)
	}
	data, err := loader.SkeletonData(*skelPath)
	if err != nil {
		log.Fatal(err)
	}
	atlas, err := loader.Atlas(*atlasPath)
	if err != nil {
		log.Fatal(err)
	}
	ch, err := skeleton.NewCharacter(data.Name, skeleton.CharacterOptions{Data: data, Atlas: atlas, Scale: *scale})
	if err != nil {
		log.Fatal(err)
	}
	ch.Position.Set(viewSize/2, viewSize*0.8)

	names := make([]string, 0, len(data.Animations))
	for name := range data.Animations {
		names = append(names, name)
	}
	if len(names) == 0 {
		log.Fatalf("%s has no animations", *skelPath)
	}
	sort.Strings(names)
	current := sort.SearchStrings(names, *animName)
	if current >= len(names) || names[current] != *animName {
		current = 0
	}
	if _, err := ch.State().SetAnimation(0, names[current], true); err != nil {
		log.Fatal(err)
	}

	stage := scene.NewContainer("stage")
	stage.AddChild(ch)

	ebiten.SetWindowSize(viewSize, viewSize)
	ebiten.SetWindowTitle("skelview")
	if err := ebiten.RunGame(&viewer{stage: stage, character: ch, names: names, current: current}); err != nil {
		log.Fatal(err)
	}
}
