package main

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/portal-gi/pkg/core"
)

func TestTo8Clamps(t *testing.T) {
	cases := []struct {
		in   float64
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{0.5, 128},
		{1, 255},
		{2, 255},
	}
	for _, c := range cases {
		if got := to8(c.in); got != c.want {
			t.Errorf("to8(%v) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestWritePNGRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	pixels := []core.Vec3{
		core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1), core.NewVec3(1, 1, 1),
	}
	if err := writePNG(path, pixels, 2, 2); err != nil {
		t.Fatalf("writePNG: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("opening written png: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decoding written png: %v", err)
	}
	if img.Bounds().Dx() != 2 || img.Bounds().Dy() != 2 {
		t.Errorf("decoded image is %dx%d, want 2x2", img.Bounds().Dx(), img.Bounds().Dy())
	}

	r, g, b, a := img.At(0, 0).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 || a>>8 != 255 {
		t.Errorf("pixel (0,0) = (%d,%d,%d,%d), want (255,0,0,255)", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestRootCommandHasRenderAndInspect(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, cmd := range root.Commands() {
		names[cmd.Name()] = true
	}
	if !names["render"] {
		t.Error("expected a render subcommand")
	}
	if !names["inspect"] {
		t.Error("expected an inspect subcommand")
	}
}

func TestInspectCommandReportsSceneStats(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scene.txt")
	body := `
material white { diffuse 1 1 1 }
v -1 0 -1
v 1 0 -1
v 1 0 1
v -1 0 1
usemtl white
f 1 2 3 4
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newInspectCmd()
	cmd.SetArgs([]string{path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("inspect command: %v", err)
	}
}

func TestInspectCommandErrorsOnMissingFile(t *testing.T) {
	cmd := newInspectCmd()
	cmd.SetArgs([]string{filepath.Join(t.TempDir(), "nope.txt")})
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	if err := cmd.Execute(); err == nil {
		t.Error("expected an error for a missing scene file")
	}
}
