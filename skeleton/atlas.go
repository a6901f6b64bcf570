package skeleton

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/milk9111/scrollanim/scene"
)

// ErrRotatedRegion is returned for regions packed with rotation, which this
// runtime does not draw.
var ErrRotatedRegion = errors.New("skeleton: rotated atlas regions are not supported")

// AtlasPage is one image of a texture atlas.
type AtlasPage struct {
	Name    string
	Width   int
	Height  int
	// PMA marks pixels stored with premultiplied alpha.
	PMA     bool
	Texture *scene.Texture
}

// AtlasRegion is a named rectangle on a page.
type AtlasRegion struct {
	Name    string
	Page    *AtlasPage
	X       int
	Y       int
	Width   int
	Height  int
	OrigW   int
	OrigH   int
	OffsetX int
	OffsetY int
	Index   int
	Texture *scene.Texture
}

// Atlas is a parsed libGDX-style texture atlas.
type Atlas struct {
	Pages   []*AtlasPage
	regions map[string]*AtlasRegion
	order   []*AtlasRegion
}

// ParseAtlas reads the libGDX text format: blank-line separated pages, each
// a page name, page properties, then regions with indented properties.
func ParseAtlas(r io.Reader) (*Atlas, error) {
	a := &Atlas{regions: make(map[string]*AtlasRegion)}
	var page *AtlasPage
	var region *AtlasRegion

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		raw := strings.TrimRight(sc.Text(), " \t\r")
		line := strings.TrimSpace(raw)
		if line == "" {
			page, region = nil, nil
			continue
		}
		key, value, hasColon := strings.Cut(line, ":")
		switch {
		case page == nil:
			page = &AtlasPage{Name: line}
			a.Pages = append(a.Pages, page)
		case !hasColon:
			region = &AtlasRegion{Name: line, Page: page, Index: -1}
			a.regions[line] = region
			a.order = append(a.order, region)
		case region == nil:
			if err := setPageProp(page, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
				return nil, fmt.Errorf("skeleton: atlas line %d: %w", lineNo, err)
			}
		default:
			if err := setRegionProp(region, strings.TrimSpace(key), strings.TrimSpace(value)); err != nil {
				return nil, fmt.Errorf("skeleton: atlas line %d: %w", lineNo, err)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("skeleton: read atlas: %w", err)
	}
	for _, reg := range a.order {
		if reg.OrigW == 0 {
			reg.OrigW = reg.Width
		}
		if reg.OrigH == 0 {
			reg.OrigH = reg.Height
		}
	}
	return a, nil
}

func setPageProp(p *AtlasPage, key, value string) error {
	switch key {
	case "size":
		w, h, err := ints2(value)
		if err != nil {
			return fmt.Errorf("page %q size: %w", p.Name, err)
		}
		p.Width, p.Height = w, h
	case "pma":
		p.PMA = value == "true"
	}
	return nil
}

func setRegionProp(r *AtlasRegion, key, value string) error {
	var err error
	switch key {
	case "rotate":
		if value != "false" && value != "0" {
			return fmt.Errorf("region %q: %w", r.Name, ErrRotatedRegion)
		}
	case "xy":
		r.X, r.Y, err = ints2(value)
	case "size":
		r.Width, r.Height, err = ints2(value)
	case "orig":
		r.OrigW, r.OrigH, err = ints2(value)
	case "offset":
		r.OffsetX, r.OffsetY, err = ints2(value)
	case "bounds":
		var v []int
		v, err = ints(value, 4)
		if err == nil {
			r.X, r.Y, r.Width, r.Height = v[0], v[1], v[2], v[3]
		}
	case "offsets":
		var v []int
		v, err = ints(value, 4)
		if err == nil {
			r.OffsetX, r.OffsetY, r.OrigW, r.OrigH = v[0], v[1], v[2], v[3]
		}
	case "index":
		r.Index, err = strconv.Atoi(value)
	}
	if err != nil {
		return fmt.Errorf("region %q %s: %w", r.Name, key, err)
	}
	return nil
}

func ints2(s string) (int, int, error) {
	v, err := ints(s, 2)
	if err != nil {
		return 0, 0, err
	}
	return v[0], v[1], nil
}

func ints(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d values, got %q", n, s)
	}
	out := make([]int, n)
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// Region returns the named region, or nil.
func (a *Atlas) Region(name string) *AtlasRegion {
	if a == nil {
		return nil
	}
	return a.regions[name]
}

// Regions returns every region in file order.
func (a *Atlas) Regions() []*AtlasRegion {
	if a == nil {
		return nil
	}
	return a.order
}

// Bind assigns the named page's texture and cuts every region on the page
// from it. It reports whether the page exists.
func (a *Atlas) Bind(page string, tex *scene.Texture) bool {
	if a == nil {
		return false
	}
	var p *AtlasPage
	for _, cur := range a.Pages {
		if cur.Name == page {
			p = cur
			break
		}
	}
	if p == nil {
		return false
	}
	p.Texture = tex
	if tex != nil && p.Width == 0 && p.Height == 0 {
		p.Width, p.Height = tex.Width, tex.Height
	}
	for _, r := range a.order {
		if r.Page == p {
			r.Texture = tex.Sub(r.X, r.Y, r.Width, r.Height)
		}
	}
	return true
}
