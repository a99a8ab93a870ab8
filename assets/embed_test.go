package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/milk9111/gridcaster/levels"
	"github.com/milk9111/gridcaster/prefabs"
)

func newTestLibrary(t *testing.T, dir string) *Library {
	t.Helper()
	lib, err := NewLibrary(dir, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new library: %v", err)
	}
	return lib
}

func TestEveryReferencedTextureIsDefined(t *testing.T) {
	lib := newTestLibrary(t, "")
	defined := make(map[string]bool)
	for _, n := range lib.Names() {
		defined[n] = true
	}

	render := prefabs.DefaultTuning().Render
	spec, err := prefabs.LoadSpec[prefabs.RenderSpec]("", prefabs.RenderFile)
	if err == nil {
		render = spec
	}
	names := []string{render.WallTexture, render.DoorTexture, render.PowerupImage}
	names = append(names, render.EnemyTextures...)

	lvl, err := levels.Load(levels.DefaultName)
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	for _, s := range lvl.Sprites {
		names = append(names, s.Textures...)
	}
	for _, e := range lvl.Enemies {
		names = append(names, e.Textures...)
	}

	for _, n := range names {
		if n == "" {
			continue
		}
		if !defined[n] {
			t.Fatalf("texture %q has no procedural definition", n)
		}
	}
}

func TestGeneratedTexturesHaveSpecSize(t *testing.T) {
	lib := newTestLibrary(t, "")
	for _, n := range lib.Names() {
		t.Run(n, func(t *testing.T) {
			img := lib.Image(n)
			want := lib.specs[n].Size
			if b := img.Bounds(); b.Dx() != want || b.Dy() != want {
				t.Fatalf("bounds %v, want %dx%d", b, want, want)
			}
		})
	}
}

func TestSpritesHaveTransparentCorners(t *testing.T) {
	lib := newTestLibrary(t, "")
	for _, n := range []string{"imp_0.png", "lamp_1.png", "powerup.png"} {
		if c := Sample(lib.Image(n), 0, 0); c.A != 0 {
			t.Fatalf("%s corner should be transparent, got %+v", n, c)
		}
	}
	if c := Sample(lib.Image("wall.png"), 0.5, 0.5); c.A != 255 {
		t.Fatalf("wall should be opaque, got %+v", c)
	}
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	want := color.NRGBA{R: 1, G: 2, B: 3, A: 255}
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := range 4 {
		for x := range 4 {
			img.SetNRGBA(x, y, want)
		}
	}
	f, err := os.Create(filepath.Join(dir, "wall.png"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	f.Close()

	lib := newTestLibrary(t, dir)
	got := lib.Image("assets/wall.png")
	if got.Bounds().Dx() != 4 || Sample(got, 0.5, 0.5) != want {
		t.Fatalf("disk texture not used")
	}
	if lib.Image("door.png").Bounds().Dx() != 64 {
		t.Fatalf("missing disk file should fall back to the procedural texture")
	}
}

func TestUnknownTextureIsPlaceholder(t *testing.T) {
	lib := newTestLibrary(t, "")
	img := lib.Image("nope.png")
	if img.Bounds().Dx() != 16 {
		t.Fatalf("placeholder bounds %v", img.Bounds())
	}
	if lib.Image("nope.png") != img {
		t.Fatalf("placeholder should be cached")
	}
	lib.Invalidate()
	if lib.Image("nope.png") == img {
		t.Fatalf("invalidate should drop the cache")
	}
}

func TestParseSpecs(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"ok", "a.png:\n  pattern: checker\n", false},
		{"unknown_pattern", "a.png:\n  pattern: plaid\n", true},
		{"bad_color", "a.png:\n  pattern: disc\n  colors: [\"#zz\"]\n", true},
		{"not_a_map", "- a\n- b\n", true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			specs, err := ParseSpecs([]byte(c.body))
			if (err != nil) != c.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, c.wantErr)
			}
			if err == nil && specs["a.png"].Size != defaultSize {
				t.Fatalf("size should default to %d", defaultSize)
			}
		})
	}
}

func TestSampleClamps(t *testing.T) {
	img := Generate(TextureSpec{Pattern: "checker", Size: 8})
	cases := []struct {
		name string
		u, v float64
	}{
		{"negative", -1, -1},
		{"past_end", 2, 2},
		{"edge", 1, 1},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			// must not panic and must return an opaque checker color
			if got := Sample(img, c.u, c.v); got.A != 255 {
				t.Fatalf("sample %+v", got)
			}
		})
	}
}

func TestCleanAssetPath(t *testing.T) {
	cases := map[string]string{
		"":                  "",
		"wall.png":          "wall.png",
		"assets/wall.png":   "wall.png",
		"/x/assets/a/b.png": "a/b.png",
		"/tmp/c.png":        "c.png",
	}
	for in, want := range cases {
		if got := cleanAssetPath(in); got != want {
			t.Fatalf("cleanAssetPath(%q) = %q, want %q", in, got, want)
		}
	}
}
