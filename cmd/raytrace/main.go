// Command raytrace is the CLI entry point named in spec.md §6: it loads a
// YAML render config, builds and prepares a Scene, runs Render with the
// sampling parameters given on argv, and writes the result to disk.
package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"pathtracer/config"
	"pathtracer/core"
	pathio "pathtracer/io"
	"pathtracer/rt"
)

const (
	defaultThreads         = 16
	defaultSamplesPerPixel = 32
	defaultMaxBounces      = 10
)

func main() {
	os.Exit(run())
}

// run implements the CLI contract: argv = [config, threads?, samplesPerPixel?,
// maxBounces?], all but the config path optional positional longs. Exit
// codes 0 (success) or 1 (load/render/export failure). An interrupt writes
// partial.bmp from whatever the renderer has produced so far, then exits.
func run() int {
	log.SetFlags(0)

	if len(os.Args) < 2 {
		log.Printf("usage: raytrace <config.yaml> [threads] [samplesPerPixel] [maxBounces]")
		return 1
	}
	configPath := os.Args[1]

	threads, spp, bounces, err := parseArgs(os.Args[2:])
	if err != nil {
		log.Printf("raytrace: %v", err)
		return 1
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("raytrace: %v", err)
		return 1
	}

	scene, cam, err := config.BuildScene(cfg, filepath.Dir(configPath))
	if err != nil {
		log.Printf("raytrace: %v", err)
		return 1
	}

	img := core.NewImage(cfg.Width, cfg.Height)
	params := rt.RenderParams{SamplesPerPixel: spp, MaxBounces: bounces, NumWorkers: threads}

	log.Printf("rendering %dx%d, %d spp, %d bounces, %d workers", cfg.Width, cfg.Height, spp, bounces, threads)

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT)
	done := make(chan error, 1)
	go func() { done <- rt.Render(scene, cam, img, params) }()

	select {
	case sig := <-sigc:
		log.Printf("raytrace: received %v, writing partial output", sig)
		if err := pathio.SaveBMP("partial.bmp", img); err != nil {
			log.Printf("raytrace: save partial.bmp: %v", err)
		}
		return 1
	case err := <-done:
		if err != nil {
			log.Printf("raytrace: render: %v", err)
			return 1
		}
	}

	output := cfg.Output
	if output == "" {
		output = "out.bmp"
	}
	if err := save(output, img); err != nil {
		log.Printf("raytrace: %v", err)
		return 1
	}

	log.Printf("wrote %s", output)
	return 0
}

func parseArgs(args []string) (threads, spp, bounces int, err error) {
	threads, spp, bounces = defaultThreads, defaultSamplesPerPixel, defaultMaxBounces
	vals := []*int{&threads, &spp, &bounces}
	for i, a := range args {
		if i >= len(vals) {
			break
		}
		n, perr := strconv.Atoi(a)
		if perr != nil {
			return 0, 0, 0, fmt.Errorf("invalid positional argument %q: %w", a, perr)
		}
		*vals[i] = n
	}
	return threads, spp, bounces, nil
}

func save(path string, img *core.Image) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ppm":
		return pathio.SavePPM(path, img)
	default:
		return pathio.SaveBMP(path, img)
	}
}
