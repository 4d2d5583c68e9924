// Package loaders reads the whitespace-delimited scene-file grammar
// (spec.md section 6) into a scene.Scene and a renderer.Camera: vertices,
// quad/light faces, materials, spheres, portals and camera blocks.
package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/geometry"
	"github.com/df07/portal-gi/pkg/material"
	"github.com/df07/portal-gi/pkg/renderer"
	"github.com/df07/portal-gi/pkg/scene"
)

// Result is everything LoadScene builds from one scene file.
type Result struct {
	Scene  *scene.Scene
	Camera renderer.Camera
}

// LoadScene reads path and builds a Result, wrapping any failure as a
// core.SceneLoadError per spec.md section 7.
func LoadScene(path string) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, core.NewSceneLoadError("opening scene file "+path, err)
	}
	defer f.Close()

	p := &parser{
		dir:       filepath.Dir(path),
		materials: map[string]*core.Material{},
		sc:        scene.New(),
	}
	p.scanner = bufio.NewScanner(f)
	p.scanner.Buffer(make([]byte, 64*1024), 1<<20)
	p.scanner.Split(bufio.ScanWords)

	if err := p.run(); err != nil {
		return Result{}, core.NewSceneLoadError("parsing scene file "+path, err)
	}
	return Result{Scene: p.sc, Camera: p.camera}, nil
}

type parser struct {
	dir       string
	scanner   *bufio.Scanner
	sc        *scene.Scene
	materials map[string]*core.Material
	current   *core.Material
	camera    renderer.Camera

	vertices []core.Vec3
}

func (p *parser) run() error {
	for {
		tok, ok := p.next()
		if !ok {
			return nil
		}
		if err := p.dispatch(tok); err != nil {
			return err
		}
	}
}

func (p *parser) dispatch(tok string) error {
	switch tok {
	case "v":
		return p.readVertex()
	case "f", "l":
		return p.readFace()
	case "usemtl":
		return p.readUsemtl()
	case "material":
		return p.readMaterial()
	case "s":
		return p.readSphere()
	case "portal":
		return p.readPortal()
	case "PerspectiveCamera":
		return p.readPerspectiveCamera()
	case "OrthographicCamera":
		return p.readOrthographicCamera()
	default:
		return fmt.Errorf("unrecognized directive %q", tok)
	}
}

func (p *parser) next() (string, bool) {
	if !p.scanner.Scan() {
		return "", false
	}
	return p.scanner.Text(), true
}

func (p *parser) expect() (string, error) {
	tok, ok := p.next()
	if !ok {
		return "", io.ErrUnexpectedEOF
	}
	return tok, nil
}

func (p *parser) expectFloat() (float64, error) {
	tok, err := p.expect()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("expected float, got %q: %w", tok, err)
	}
	return v, nil
}

func (p *parser) expectInt() (int, error) {
	tok, err := p.expect()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("expected int, got %q: %w", tok, err)
	}
	return v, nil
}

func (p *parser) expectVec3() (core.Vec3, error) {
	x, err := p.expectFloat()
	if err != nil {
		return core.Vec3{}, err
	}
	y, err := p.expectFloat()
	if err != nil {
		return core.Vec3{}, err
	}
	z, err := p.expectFloat()
	if err != nil {
		return core.Vec3{}, err
	}
	return core.NewVec3(x, y, z), nil
}

func (p *parser) readVertex() error {
	v, err := p.expectVec3()
	if err != nil {
		return err
	}
	p.vertices = append(p.vertices, v)
	return nil
}

// readFace reads "f i1 i2 i3 i4" / "l i1 i2 i3 i4": four 1-indexed vertex
// references under the current material.
func (p *parser) readFace() error {
	var idx [4]int
	for i := range idx {
		v, err := p.expectInt()
		if err != nil {
			return err
		}
		idx[i] = v
	}
	if p.current == nil {
		return fmt.Errorf("face references no material (missing usemtl)")
	}

	verts := [4]geometry.Vertex{}
	for i, vi := range idx {
		if vi < 1 || vi > len(p.vertices) {
			return fmt.Errorf("face vertex index %d out of range (have %d vertices)", vi, len(p.vertices))
		}
		verts[i] = geometry.Vertex{Position: p.vertices[vi-1], Index: vi - 1}
	}

	f := geometry.NewFace(verts[0], verts[1], verts[2], verts[3], p.current, 0)
	p.sc.AddFace(f)
	return nil
}

func (p *parser) readUsemtl() error {
	name, err := p.expect()
	if err != nil {
		return err
	}
	mat, ok := p.materials[name]
	if !ok {
		return fmt.Errorf("usemtl references unknown material %q", name)
	}
	p.current = mat
	return nil
}

// readMaterial reads "material name { diffuse r g b | reflective r g b |
// emitted r g b | roughness v | texture_file path }" until the closing
// brace.
func (p *parser) readMaterial() error {
	name, err := p.expect()
	if err != nil {
		return err
	}
	if open, err := p.expect(); err != nil || open != "{" {
		if err != nil {
			return err
		}
		return fmt.Errorf("expected '{' after material %s, got %q", name, open)
	}

	mat := &core.Material{Name: name, Diffuse: core.SolidColor(core.NewVec3(0.8, 0.8, 0.8))}
	for {
		tok, err := p.expect()
		if err != nil {
			return err
		}
		switch tok {
		case "}":
			p.materials[name] = mat
			return nil
		case "diffuse":
			c, err := p.expectVec3()
			if err != nil {
				return err
			}
			mat.Diffuse = core.SolidColor(c)
		case "reflective":
			c, err := p.expectVec3()
			if err != nil {
				return err
			}
			mat.Reflective = c
		case "emitted":
			c, err := p.expectVec3()
			if err != nil {
				return err
			}
			mat.Emitted = c
		case "roughness":
			v, err := p.expectFloat()
			if err != nil {
				return err
			}
			mat.Roughness = v
		case "texture_file":
			path, err := p.expect()
			if err != nil {
				return err
			}
			tex, err := material.LoadImageTexture(filepath.Join(p.dir, path))
			if err != nil {
				return err
			}
			mat.Diffuse = tex
		default:
			return fmt.Errorf("unrecognized material field %q", tok)
		}
	}
}

func (p *parser) readSphere() error {
	center, err := p.expectVec3()
	if err != nil {
		return err
	}
	radius, err := p.expectFloat()
	if err != nil {
		return err
	}
	if p.current == nil {
		return fmt.Errorf("sphere references no material (missing usemtl)")
	}
	p.sc.AddSphere(geometry.NewSphere(center, radius, p.current))
	return nil
}

// readPortal reads "portal" followed by 32 floats: two row-major 4x4
// transforms, one per side.
func (p *parser) readPortal() error {
	t1, err := p.expectMat4()
	if err != nil {
		return err
	}
	t2, err := p.expectMat4()
	if err != nil {
		return err
	}
	p.sc.AddPortal(geometry.NewPortal(t1, t2))
	return nil
}

func (p *parser) expectMat4() (core.Mat4, error) {
	var vals [16]float64
	for i := range vals {
		v, err := p.expectFloat()
		if err != nil {
			return core.Mat4{}, err
		}
		vals[i] = v
	}
	return core.NewMat4RowMajor(vals), nil
}

func (p *parser) readPerspectiveCamera() error {
	if open, err := p.expect(); err != nil || open != "{" {
		if err != nil {
			return err
		}
		return fmt.Errorf("expected '{' after PerspectiveCamera, got %q", open)
	}
	var lookFrom, lookAt, up core.Vec3
	var vfov, aspect float64
	for {
		tok, err := p.expect()
		if err != nil {
			return err
		}
		switch tok {
		case "}":
			p.camera = renderer.NewPerspectiveCamera(lookFrom, lookAt, up, vfov, aspect)
			return nil
		case "lookfrom":
			if lookFrom, err = p.expectVec3(); err != nil {
				return err
			}
		case "lookat":
			if lookAt, err = p.expectVec3(); err != nil {
				return err
			}
		case "up":
			if up, err = p.expectVec3(); err != nil {
				return err
			}
		case "vfov":
			if vfov, err = p.expectFloat(); err != nil {
				return err
			}
		case "aspect":
			if aspect, err = p.expectFloat(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unrecognized PerspectiveCamera field %q", tok)
		}
	}
}

func (p *parser) readOrthographicCamera() error {
	if open, err := p.expect(); err != nil || open != "{" {
		if err != nil {
			return err
		}
		return fmt.Errorf("expected '{' after OrthographicCamera, got %q", open)
	}
	var origin, forward, up core.Vec3
	var width, height float64
	for {
		tok, err := p.expect()
		if err != nil {
			return err
		}
		switch tok {
		case "}":
			p.camera = renderer.NewOrthographicCamera(origin, forward, up, width, height)
			return nil
		case "origin":
			if origin, err = p.expectVec3(); err != nil {
				return err
			}
		case "forward":
			if forward, err = p.expectVec3(); err != nil {
				return err
			}
		case "up":
			if up, err = p.expectVec3(); err != nil {
				return err
			}
		case "width":
			if width, err = p.expectFloat(); err != nil {
				return err
			}
		case "height":
			if height, err = p.expectFloat(); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unrecognized OrthographicCamera field %q", tok)
		}
	}
}
