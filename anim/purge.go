package anim

import (
	"github.com/milk9111/scrollanim/scene"
	"github.com/milk9111/scrollanim/skeleton"
	"github.com/milk9111/scrollanim/tween"
)

// Purge clears n's filters and cancels every tween on n, its position, its
// scale and its skew. With destroy it also releases n. Shared textures,
// texture sources and contexts always survive, and a container's children
// are left alone: the registries release each object themselves.
func Purge(tweens *tween.Manager, n scene.Node, destroy bool) {
	if n == nil {
		return
	}
	obj := n.Obj()
	obj.Filters = nil
	tweens.KillTweensOf(n)
	tweens.KillTweensOf(&obj.Position)
	tweens.KillTweensOf(&obj.Scale)
	tweens.KillTweensOf(&obj.Skew)

	if !destroy || obj.Destroyed() {
		return
	}
	switch v := n.(type) {
	case *scene.Sprite:
		v.Destroy(scene.DestroyOptions{Texture: false, TextureSource: false})
	case *scene.TilingSprite:
		v.Destroy(scene.DestroyOptions{Texture: false, TextureSource: false})
	case *skeleton.Character:
		v.Destroy(scene.DestroyOptions{Texture: false, TextureSource: false})
	default:
		n.Destroy(scene.DestroyOptions{})
	}
}
