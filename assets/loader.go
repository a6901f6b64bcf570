// Package assets loads the demo's textures, skeleton data and atlases. Keys
// are assets-relative paths such as "anim/img/sample-map.png" or aliases
// registered with Add.
package assets

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/milk9111/scrollanim/scene"
	"github.com/milk9111/scrollanim/skeleton"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
)

//go:embed anim
var embedded embed.FS

// ErrNotFound is returned for keys that are neither embedded nor on disk,
// and by getters for keys that were never loaded.
var ErrNotFound = errors.New("assets: not found")

// TextureFactory turns a decoded image into a texture.
type TextureFactory func(image.Image) *scene.Texture

// Loader resolves, decodes and caches assets. A Loader is not safe for
// concurrent use; the game loop owns it.
type Loader struct {
	embedded   fs.FS
	disk       func(base string) fs.FS
	newTexture TextureFactory
	logger     *zap.Logger

	basePath    string
	initialized bool
	aliases     map[string]string
	cache       map[string]any
}

// Option configures a Loader.
type Option func(*Loader)

// WithFS replaces the embedded asset tree.
func WithFS(fsys fs.FS) Option {
	return func(l *Loader) {
		if fsys != nil {
			l.embedded = fsys
		}
	}
}

// WithDisk replaces how the base path is opened. Returning nil disables the
// disk source.
func WithDisk(open func(base string) fs.FS) Option {
	return func(l *Loader) {
		if open != nil {
			l.disk = open
		}
	}
}

// WithTextureFactory replaces the GPU upload of decoded images.
func WithTextureFactory(f TextureFactory) Option {
	return func(l *Loader) {
		if f != nil {
			l.newTexture = f
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader returns an uninitialised loader over the embedded assets.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		embedded:   embedded,
		disk:       openDisk,
		newTexture: scene.NewTextureFromImage,
		logger:     zap.NewNop(),
		aliases:    make(map[string]string),
		cache:      make(map[string]any),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func openDisk(base string) fs.FS {
	if base == "" || base == "/" {
		return nil
	}
	return os.DirFS(filepath.FromSlash(base))
}

// Init sets the base path used for files that are not embedded. Only the
// first call has an effect.
func (l *Loader) Init(basePath string) {
	if l.initialized {
		return
	}
	l.initialized = true
	l.basePath = basePath
	l.logger.Debug("assets initialised", zap.String("base", basePath))
}

// Initialized reports whether Init has run on this loader.
func (l *Loader) Initialized() bool { return l.initialized }

// BasePath returns the base path given to Init.
func (l *Loader) BasePath() string { return l.basePath }

// Add registers alias for src. Re-adding an alias repoints it.
func (l *Loader) Add(alias, src string) {
	l.aliases[alias] = cleanKey(src)
}

// Resolve maps an alias to its source path; other keys are cleaned and
// returned.
func (l *Loader) Resolve(key string) string {
	if src, ok := l.aliases[key]; ok {
		return src
	}
	return cleanKey(key)
}

// Load fetches and decodes every key in order. Already loaded keys are
// skipped. The first failure stops the load.
func (l *Loader) Load(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			return err
		}
		src := l.Resolve(key)
		if _, ok := l.cache[src]; ok {
			continue
		}
		v, err := l.decode(src)
		if err != nil {
			return err
		}
		l.cache[src] = v
		l.logger.Debug("asset loaded", zap.String("key", key), zap.String("src", src))
	}
	return nil
}

// Loaded reports whether key has been loaded.
func (l *Loader) Loaded(key string) bool {
	_, ok := l.cache[l.Resolve(key)]
	return ok
}

// Len returns the number of cached assets, atlas pages included.
func (l *Loader) Len() int { return len(l.cache) }

// Texture returns a loaded image asset.
func (l *Loader) Texture(key string) (*scene.Texture, error) {
	return get[*scene.Texture](l, key)
}

// SkeletonData returns a loaded skeleton data asset.
func (l *Loader) SkeletonData(key string) (*skeleton.Data, error) {
	return get[*skeleton.Data](l, key)
}

// Atlas returns a loaded atlas asset with its pages bound.
func (l *Loader) Atlas(key string) (*skeleton.Atlas, error) {
	return get[*skeleton.Atlas](l, key)
}

// Bytes returns a loaded asset of unknown type.
func (l *Loader) Bytes(key string) ([]byte, error) {
	return get[[]byte](l, key)
}

func get[T any](l *Loader, key string) (T, error) {
	var zero T
	src := l.Resolve(key)
	v, ok := l.cache[src]
	if !ok {
		return zero, fmt.Errorf("assets: get %s: %w", key, ErrNotFound)
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("assets: get %s: asset is %T", key, v)
	}
	return out, nil
}

func (l *Loader) decode(src string) (any, error) {
	b, err := l.read(src)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(path.Ext(src)) {
	case ".png", ".jpg", ".jpeg":
		return l.decodeTexture(src, b, false)
	case ".skel", ".yaml", ".yml":
		d, err := skeleton.ParseData(b)
		if err != nil {
			return nil, fmt.Errorf("assets: decode %s: %w", src, err)
		}
		return d, nil
	case ".atlas":
		return l.decodeAtlas(src, b)
	default:
		return b, nil
	}
}

// decodeTexture decodes an image file. pma marks pixels stored with
// premultiplied alpha.
func (l *Loader) decodeTexture(src string, b []byte, pma bool) (*scene.Texture, error) {
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", src, err)
	}
	if pma {
		img = premultiplied(img)
	}
	return l.newTexture(img), nil
}

// premultiplied reinterprets pixels that were exported premultiplied but
// decoded as straight alpha, so the upload does not multiply them again.
func premultiplied(img image.Image) *image.RGBA {
	b := img.Bounds()
	n := image.NewNRGBA(b)
	draw.Draw(n, b, img, b.Min, draw.Src)
	for i := 0; i+3 < len(n.Pix); i += 4 {
		a := n.Pix[i+3]
		n.Pix[i] = min(n.Pix[i], a)
		n.Pix[i+1] = min(n.Pix[i+1], a)
		n.Pix[i+2] = min(n.Pix[i+2], a)
	}
	return &image.RGBA{Pix: n.Pix, Stride: n.Stride, Rect: n.Rect}
}

// decodeAtlas parses the atlas and loads each page image next to it. Pages
// are cached under their own paths so atlases sharing a page share pixels.
func (l *Loader) decodeAtlas(src string, b []byte) (*skeleton.Atlas, error) {
	a, err := skeleton.ParseAtlas(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", src, err)
	}
	dir := path.Dir(src)
	for _, p := range a.Pages {
		pageSrc := path.Join(dir, p.Name)
		tex, ok := l.cache[pageSrc].(*scene.Texture)
		if !ok {
			pb, err := l.read(pageSrc)
			if err != nil {
				return nil, fmt.Errorf("assets: atlas %s page: %w", src, err)
			}
			if tex, err = l.decodeTexture(pageSrc, pb, p.PMA); err != nil {
				return nil, err
			}
			l.cache[pageSrc] = tex
		}
		a.Bind(p.Name, tex)
	}
	return a, nil
}

// read looks in the embedded tree first, then under the base path.
func (l *Loader) read(src string) ([]byte, error) {
	if l.embedded != nil {
		b, err := fs.ReadFile(l.embedded, src)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("assets: read %s: %w", src, err)
		}
	}
	if l.initialized {
		if disk := l.disk(l.basePath); disk != nil {
			b, err := fs.ReadFile(disk, src)
			if err == nil {
				return b, nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("assets: read %s: %w", src, err)
			}
		}
	}
	return nil, fmt.Errorf("assets: read %s: %w", src, ErrNotFound)
}

// cleanKey turns a key into an fs.FS path: forward slashes, no leading
// slash or "assets/" prefix.
func cleanKey(key string) string {
	if key == "" {
		return ""
	}
	s := filepath.ToSlash(key)
	if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
		s = s[idx+len("/assets/"):]
	}
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimPrefix(s, "assets/")
	return path.Clean(s)
}
