package assets

import (
	"bytes"
	_ "embed"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/gridcaster/prefabs"
)

//go:embed textures.yaml
var texturesYAML []byte

// TextureSpec describes a procedurally drawn texture.
type TextureSpec struct {
	Pattern string              `yaml:"pattern"`
	Size    int                 `yaml:"size"`
	Colors  []prefabs.YAMLColor `yaml:"colors"`
	Frame   int                 `yaml:"frame"`
}

func (s TextureSpec) color(i int, fallback color.NRGBA) color.NRGBA {
	if i < len(s.Colors) && s.Colors[i].Color != nil {
		return color.NRGBAModel.Convert(s.Colors[i].Color).(color.NRGBA)
	}
	return fallback
}

// Library resolves texture names to images. Lookups never fail: a PNG on disk
// wins, then the procedural definition, then a checkerboard.
type Library struct {
	dir   string
	log   *zap.Logger
	specs map[string]TextureSpec

	mu    sync.Mutex
	cache map[string]image.Image
}

// NewLibrary parses the embedded texture definitions. PNG overrides are looked
// up in dir; an empty dir disables them.
func NewLibrary(dir string, log *zap.Logger) (*Library, error) {
	if log == nil {
		log = zap.NewNop()
	}
	specs, err := ParseSpecs(texturesYAML)
	if err != nil {
		return nil, err
	}
	return &Library{
		dir:   dir,
		log:   log.Named("assets"),
		specs: specs,
		cache: make(map[string]image.Image),
	}, nil
}

// ParseSpecs decodes a name to TextureSpec mapping.
func ParseSpecs(data []byte) (map[string]TextureSpec, error) {
	specs := make(map[string]TextureSpec)
	if err := yaml.Unmarshal(data, &specs); err != nil {
		return nil, fmt.Errorf("unmarshal textures: %w", err)
	}
	for name, s := range specs {
		if _, ok := patterns[s.Pattern]; !ok {
			return nil, fmt.Errorf("texture %q: unknown pattern %q", name, s.Pattern)
		}
		if s.Size <= 0 {
			s.Size = defaultSize
			specs[name] = s
		}
	}
	return specs, nil
}

// Names lists the procedural textures in sorted order.
func (l *Library) Names() []string {
	out := make([]string, 0, len(l.specs))
	for name := range l.specs {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Image returns the texture registered under name.
func (l *Library) Image(name string) image.Image {
	clean := cleanAssetPath(name)
	l.mu.Lock()
	defer l.mu.Unlock()
	if img, ok := l.cache[clean]; ok {
		return img
	}
	img := l.resolve(clean)
	l.cache[clean] = img
	return img
}

// Images resolves several names in order.
func (l *Library) Images(names []string) []image.Image {
	out := make([]image.Image, len(names))
	for i, n := range names {
		out[i] = l.Image(n)
	}
	return out
}

// Invalidate drops cached images so edited PNGs are picked up.
func (l *Library) Invalidate() {
	l.mu.Lock()
	clear(l.cache)
	l.mu.Unlock()
}

func (l *Library) resolve(name string) image.Image {
	if name == "" {
		return missing()
	}
	if l.dir != "" {
		if img, err := loadPNG(filepath.Join(l.dir, filepath.FromSlash(name))); err == nil {
			l.log.Debug("texture from disk", zap.String("name", name))
			return img
		} else if !os.IsNotExist(err) {
			l.log.Warn("texture decode failed", zap.String("name", name), zap.Error(err))
		}
	}
	if spec, ok := l.specs[name]; ok {
		return Generate(spec)
	}
	l.log.Warn("unknown texture, using placeholder", zap.String("name", name))
	return missing()
}

func loadPNG(path string) (image.Image, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return img, nil
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if filepath.IsAbs(path) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	return strings.TrimPrefix(s, "assets/")
}
