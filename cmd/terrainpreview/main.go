// Terrain preview tool - interactive hill generator with sliders.
//
// Usage: go run ./cmd/terrainpreview [-config path] [-out terrain.yaml]
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"

	"github.com/pthm-cable/sandfall/config"
	"github.com/pthm-cable/sandfall/game"
)

const (
	windowWidth  = 1000
	windowHeight = 640
	previewW     = 560
	previewH     = 560
	panelWidth   = windowWidth - previewW - 30
)

// terrainDoc is the YAML fragment written by the tool; it merges over the
// defaults like any other config file.
type terrainDoc struct {
	Terrain config.TerrainConfig `yaml:"terrain"`
}

func terrainYAML(t config.TerrainConfig) (string, error) {
	t.Enabled = true
	out, err := yaml.Marshal(terrainDoc{Terrain: t})
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// slider draws a labelled slider and returns the new value.
func slider(x float32, y *float32, label, format string, value, lo, hi float32) float32 {
	rl.DrawText(label, int32(x), int32(*y), 14, rl.Gray)
	*y += 18
	v := gui.SliderBar(
		rl.Rectangle{X: x, Y: *y, Width: float32(panelWidth - 80), Height: 20},
		fmt.Sprint(lo), fmt.Sprint(hi),
		value, lo, hi,
	)
	rl.DrawText(fmt.Sprintf(format, value), int32(x+float32(panelWidth-70)), int32(*y+2), 16, rl.DarkGray)
	*y += 35
	return v
}

func main() {
	configPath := flag.String("config", "", "Config to start from (empty = defaults)")
	outPath := flag.String("out", "terrain.yaml", "File written by the Save button")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	defaults := cfg.Terrain
	params := defaults
	width, height := cfg.Lattice.Width, cfg.Lattice.Height
	stone := rl.Gray
	if m, ok := cfg.Derived.Materials.Lookup(params.Material); ok {
		stone = m.Color
	}

	rl.InitWindow(windowWidth, windowHeight, "Terrain Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(30)

	heights := game.TerrainHeights(params, width, height)
	status := ""

	for !rl.WindowShouldClose() {
		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		// Preview: one column per lattice column, scaled to fit
		cw := float32(previewW) / float32(width)
		ch := float32(previewH) / float32(height)
		rl.DrawRectangle(10, 10, previewW, previewH, cfg.Derived.Background)
		filled := 0
		for col, h := range heights {
			filled += h
			px := 10 + float32(col)*cw
			rl.DrawRectangleRec(rl.Rectangle{X: px, Y: 10 + float32(height-h)*ch, Width: cw + 0.5, Height: float32(h) * ch}, stone)
		}
		rl.DrawRectangleLines(10, 10, previewW, previewH, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Lattice %dx%d  particles: %d", width, height, filled), 15, previewH+20, 16, rl.DarkGray)

		// Control panel
		panelX := float32(previewW + 20)
		panelY := float32(10)
		rl.DrawText("Terrain Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		prev := params
		params.Scale = float64(slider(panelX, &panelY, "Scale (noise frequency per column)", "%.3f", float32(params.Scale), 0.005, 0.2))
		params.Octaves = int(slider(panelX, &panelY, "Octaves (detail layers)", "%.0f", float32(params.Octaves), 1, 6))
		params.Base = int(slider(panelX, &panelY, "Base (minimum height)", "%.0f", float32(params.Base), 0, float32(height/2)))
		params.Amplitude = int(slider(panelX, &panelY, "Amplitude (height at noise peak)", "%.0f", float32(params.Amplitude), 0, float32(height)))
		params.Seed = int64(slider(panelX, &panelY, "Seed", "%.0f", float32(params.Seed), 0, 9999))
		panelY += 10

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 9999))
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaults
		}
		panelY += 40

		doc, err := terrainYAML(params)
		if err != nil {
			doc = err.Error()
		}
		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Save") {
			if err := os.WriteFile(*outPath, []byte(doc), 0o644); err != nil {
				status = err.Error()
			} else {
				status = "saved " + *outPath
			}
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Copy") || rl.IsKeyPressed(rl.KeyC) {
			rl.SetClipboardText(doc)
			status = "copied to clipboard"
		}
		panelY += 45

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		rl.DrawText(doc, int32(panelX), int32(panelY), 14, rl.Gray)

		rl.DrawText(status, int32(panelX), int32(windowHeight-30), 12, rl.DarkGray)

		if params != prev {
			heights = game.TerrainHeights(params, width, height)
		}

		rl.EndDrawing()
	}
}
