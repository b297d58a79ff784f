package texture

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// Keys of the images every pack is expected to provide.
const (
	TerrainKey = "terrain.png"
	ItemsKey   = "items.png"
)

// ErrInvalidTexture is returned when a texture is added with an empty key or
// a nil image.
var ErrInvalidTexture = errors.New("texture: invalid key or image")

// Pack provides key to image lookups. Custom entries shadow the defaults.
type Pack struct {
	mu       sync.RWMutex
	defaults map[string]image.Image
	customs  map[string]image.Image
}

// NewPack returns an empty pack.
func NewPack() *Pack {
	return &Pack{
		defaults: make(map[string]image.Image),
		customs:  make(map[string]image.Image),
	}
}

// LoadDefaults replaces the default images with terrain.png and items.png
// read from dir.
func (p *Pack) LoadDefaults(dir string) error {
	loaded := make(map[string]image.Image, 2)
	for _, key := range []string{TerrainKey, ItemsKey} {
		img, err := decodeFile(filepath.Join(dir, key))
		if err != nil {
			return err
		}
		loaded[key] = img
	}

	p.mu.Lock()
	p.defaults = loaded
	p.mu.Unlock()

	log.Printf("Loaded %d default textures from %s", len(loaded), dir)
	return nil
}

// AddTexture installs or replaces a custom texture.
func (p *Pack) AddTexture(key string, img image.Image) error {
	if key == "" || img == nil {
		return ErrInvalidTexture
	}
	p.mu.Lock()
	p.customs[key] = img
	p.mu.Unlock()
	return nil
}

// TryGetTexture looks key up in the custom textures, then in the defaults.
func (p *Pack) TryGetTexture(key string) (image.Image, bool) {
	if key == "" {
		return nil, false
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	if img, ok := p.customs[key]; ok {
		return img, true
	}
	img, ok := p.defaults[key]
	return img, ok
}

// GetTexture is the strict form of TryGetTexture.
func (p *Pack) GetTexture(key string) (image.Image, error) {
	img, ok := p.TryGetTexture(key)
	if !ok {
		return nil, fmt.Errorf("texture %q not found", key)
	}
	return img, nil
}

// TerrainAtlas returns the terrain image as an AtlasSize RGBA atlas.
func (p *Pack) TerrainAtlas() (*image.RGBA, error) {
	img, err := p.GetTexture(TerrainKey)
	if err != nil {
		return nil, err
	}
	return AtlasRGBA(img), nil
}

// PlaceholderAtlas fills every tile with a flat color derived from its grid
// position, so a viewer can run without a texture pack.
func PlaceholderAtlas() *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, AtlasSize, AtlasSize))
	for row := range TilesPerSide {
		for col := range TilesPerSide {
			c := color.RGBA{
				R: uint8(64 + col*12),
				G: uint8(64 + row*12),
				B: uint8(160 + (col^row)*6),
				A: 255,
			}
			r := image.Rect(col*TileSize, row*TileSize, (col+1)*TileSize, (row+1)*TileSize)
			xdraw.Draw(dst, r, &image.Uniform{C: c}, image.Point{}, xdraw.Src)
		}
	}
	return dst
}

// AtlasRGBA converts a terrain image into an AtlasSize x AtlasSize RGBA
// image, scaling with nearest-neighbor sampling when the source uses a
// different tile resolution.
func AtlasRGBA(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, AtlasSize, AtlasSize))
	b := src.Bounds()
	if b.Dx() == AtlasSize && b.Dy() == AtlasSize {
		xdraw.Draw(dst, dst.Bounds(), src, b.Min, xdraw.Src)
		return dst
	}
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode texture %s: %w", path, err)
	}
	return img, nil
}
