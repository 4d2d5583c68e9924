// Command raytracer drives the offline renderer from the shell: render a
// scene file to PNG, or inspect one without rendering it.
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/df07/portal-gi/pkg/core"
	"github.com/df07/portal-gi/pkg/host"
	"github.com/df07/portal-gi/pkg/loaders"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "raytracer",
		Short: "Offline renderer combining distribution ray tracing, radiosity and photon mapping",
	}
	root.AddCommand(newRenderCmd())
	root.AddCommand(newInspectCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var (
		optionsPath    string
		outputPath     string
		radiosityPasses int
		workers        int
	)

	cmd := &cobra.Command{
		Use:   "render <scene-file>",
		Short: "Render a scene file to a PNG image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scenePath := args[0]

			opts := core.DefaultOptions()
			if optionsPath != "" {
				loaded, err := core.LoadOptionsYAML(optionsPath)
				if err != nil {
					return err
				}
				opts = loaded
			}

			result, err := loaders.LoadScene(scenePath)
			if err != nil {
				return err
			}

			logger := core.StdLogger{}
			r := host.New(result.Scene, result.Camera, opts, logger)

			if opts.RenderMode != core.RenderModeMaterials {
				for i := 0; i < radiosityPasses; i++ {
					r.RadiosityIterate()
				}
			}
			if opts.GatherIndirect {
				start := time.Now()
				r.TracePhotons()
				logger.Printf("traced %d photons in %v\n", r.Mapper.NumStored(), time.Since(start))
			}

			start := time.Now()
			if workers > 1 {
				for {
					drawn := r.DrawPixelsParallel(64, workers)
					if drawn == 0 {
						break
					}
				}
			} else {
				for r.DrawPixel() {
				}
			}
			logger.Printf("rendered %dx%d in %v\n", opts.Width, opts.Height, time.Since(start))

			return writePNG(outputPath, r.Scheduler.Image(), opts.Width, opts.Height)
		},
	}

	cmd.Flags().StringVarP(&optionsPath, "options", "c", "", "path to an options YAML file (defaults applied otherwise)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "render.png", "output PNG path")
	cmd.Flags().IntVar(&radiosityPasses, "radiosity-passes", 0, "Southwell shooting iterations to run before rasterizing (render_mode != materials)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 1, "above 1, trace each block's antialiasing samples concurrently, one goroutine per sample (1 = serial)")
	return cmd
}

func newInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <scene-file>",
		Short: "Print scene statistics without rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := loaders.LoadScene(args[0])
			if err != nil {
				return err
			}
			sc := result.Scene
			fmt.Printf("faces:   %d\n", len(sc.Faces))
			fmt.Printf("spheres: %d\n", len(sc.Spheres))
			fmt.Printf("portals: %d (%d sides)\n", len(sc.Portals), len(sc.PortalSides))
			fmt.Printf("lights:  %d\n", len(sc.Lights))
			return nil
		},
	}
	return cmd
}

// writePNG packs the scheduler's sRGB Vec3 buffer (already [0,1]) into an
// 8-bit RGBA image and writes it to path.
func writePNG(path string, pixels []core.Vec3, width, height int) error {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := pixels[y*width+x]
			img.SetRGBA(x, y, color.RGBA{
				R: to8(c.X),
				G: to8(c.Y),
				B: to8(c.Z),
				A: 255,
			})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}

func to8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255 + 0.5)
}
