// Command bitang is the engine's entrypoint: it reads config.ron, then
// either opens a live window presenting the running project (hot-reloaded
// as its source files change) or renders the project's timeline straight
// to a sequence of PNG frames (frame-dump mode, §6).
package main

import (
	"context"
	"flag"
	"fmt"
	stdimage "image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/aedm/bitang/descriptor"
	"github.com/aedm/bitang/filecache"
	"github.com/aedm/bitang/globals"
	"github.com/aedm/bitang/gpu"
	"github.com/aedm/bitang/gpu/wgpubackend"
	"github.com/aedm/bitang/loader"
	"github.com/aedm/bitang/present"
	"github.com/aedm/bitang/profiler"
	"github.com/aedm/bitang/project"
	"github.com/aedm/bitang/render"
	"github.com/aedm/bitang/shader/wgslcompiler"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	frameDumpWidth  = 3840
	frameDumpHeight = 2160
	frameDumpFPS    = 60
)

func main() {
	configPath := flag.String("config", "config.ron", "path to config.ron")
	flag.Parse()

	cfg := loadConfig(*configPath)

	var err error
	if cfg.StartInDemoMode {
		err = runFrameDump(cfg.RootFolder)
	} else {
		err = runLive(cfg.RootFolder)
	}
	if err != nil {
		log.Fatalf("bitang: %v", err)
	}
}

// loadConfig reads config.ron, falling back to a RootFolder of "." (a
// missing config file at the tool's working directory is common enough
// during development not to be fatal; a malformed one is).
func loadConfig(path string) *descriptor.Config {
	content, err := os.ReadFile(path)
	if err != nil {
		log.Printf("bitang: no config at %s, defaulting root_folder to %q", path, ".")
		return &descriptor.Config{RootFolder: "."}
	}
	cfg, err := descriptor.DecodeConfig(path, string(content))
	if err != nil {
		log.Fatalf("bitang: parse %s: %v", path, err)
	}
	return cfg
}

func newLoader(root string, device gpu.Device) *loader.Loader {
	return loader.New(root, device, wgslcompiler.New(device),
		loader.GLTFMeshDecoder{}, loader.StdTextureDecoder{})
}

// saveAllControls persists every currently loaded chart's controls back to
// its charts/<chart_id>/controls.ron (the save-parameters hotkey, §6).
func saveAllControls(l *loader.Loader, proj *render.Project) {
	if proj == nil {
		return
	}
	for chartID := range proj.ChartsByID {
		if err := l.SaveControls(chartID); err != nil {
			log.Printf("bitang: save controls for %q: %v", chartID, err)
		}
	}
}

// runLive opens a window, builds a wgpu device against its surface, and
// drives the project scheduler + player from the window's render loop
// until the user closes it or presses the stop hotkey.
func runLive(root string) error {
	window := present.New(present.WithTitle("bitang"), present.WithSize(1920, 1080))
	defer window.Close()

	instance := wgpu.CreateInstance(nil)
	surface := instance.CreateSurface(window.SurfaceDescriptor())
	device, err := wgpubackend.NewWithInstance(instance, surface, false)
	if err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	_, adapter, rawDevice := device.Raw()
	swapchain, err := wgpubackend.NewSwapchain(surface, adapter, rawDevice, uint32(window.Width()), uint32(window.Height()))
	if err != nil {
		return fmt.Errorf("configure swapchain: %w", err)
	}

	l := newLoader(root, device)
	watcher, err := filecache.NewChangeHandler()
	if err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}
	sched := project.New(l, watcher)

	var player *render.Player
	g := globals.New()
	prof := profiler.NewProfiler()
	lastTick := time.Now()
	paused := false
	running := true

	window.SetResizeCallback(func(width, height int) {
		if err := swapchain.Configure(uint32(width), uint32(height)); err != nil {
			log.Printf("bitang: resize swapchain: %v", err)
		}
	})

	window.SetKeyDownCallback(func(keyCode uint32, ctrl bool) {
		switch present.DecodeHotkey(keyCode, ctrl) {
		case present.HotkeySaveParameters:
			if player != nil {
				saveAllControls(l, player.Project)
			}
		case present.HotkeyResetSimulation:
			if player != nil {
				player.SeekTo(0)
			}
		case present.HotkeyToggleSimulation, present.HotkeyTogglePlay:
			paused = !paused
			if player != nil {
				player.Paused = paused
			}
		case present.HotkeyStop:
			running = false
		case present.HotkeyToggleFullscreen:
			// Fullscreen toggling is a present.Window concern this engine
			// core doesn't own; left to a platform-specific follow-up.
		}
	})

	window.SetUpdateCallback(func() {
		if !running {
			os.Exit(0)
		}

		now := time.Now()
		delta := float32(now.Sub(lastTick).Seconds())
		lastTick = now

		proj := sched.Tick(context.Background())
		if proj == nil {
			return
		}
		if player == nil || player.Project != proj {
			player = render.NewPlayer(proj)
			player.Paused = paused
		}

		view, err := swapchain.AcquireView()
		if err != nil {
			log.Printf("bitang: acquire swapchain view: %v", err)
			return
		}
		w, h := uint32(window.Width()), uint32(window.Height())
		l.ScreenImage().SetSwapchainImageView(view, w, h)

		encoder := device.CreateCommandEncoder()
		g.AppTime += delta
		if _, err := player.Tick(device, encoder, g, delta, g.AppTime, w, h); err != nil {
			log.Printf("bitang: render frame: %v", err)
		}
		device.Queue().Submit(encoder.Finish())
		swapchain.Present()

		prof.Tick()
	})

	window.Run()
	return nil
}

// runFrameDump renders the project's whole timeline into a fixed-size
// attachment, reading each frame back to a PNG under framedump/ at a fixed
// 60 fps, and exits once the timeline (project.Length) is covered (§6
// scenario 6).
func runFrameDump(root string) error {
	device, err := wgpubackend.New(nil, false)
	if err != nil {
		return fmt.Errorf("create device: %w", err)
	}

	l := newLoader(root, device)
	l.StartLoadCycle()
	proj, err := l.LoadProject(context.Background())
	if err != nil {
		l.DisplayLoadErrors()
		return fmt.Errorf("load project: %w", err)
	}

	dumpTex, err := device.CreateTexture(gpu.TextureDescriptor{
		Width: frameDumpWidth, Height: frameDumpHeight,
		MipLevelCount: 1, Format: gpu.Rgba8Srgb,
		RenderTarget: true, CopySrc: true,
	})
	if err != nil {
		return fmt.Errorf("create dump attachment: %w", err)
	}
	defer dumpTex.Release()
	readback, err := device.CreateReadbackBuffer(frameDumpWidth, frameDumpHeight)
	if err != nil {
		return fmt.Errorf("create readback buffer: %w", err)
	}
	defer readback.Release()

	if err := os.MkdirAll(filepath.Join(root, "framedump"), 0o755); err != nil {
		return fmt.Errorf("create framedump dir: %w", err)
	}

	player := render.NewPlayer(proj)
	g := globals.New()
	const delta = float32(1) / frameDumpFPS

	for frame := 0; ; frame++ {
		appTime := float32(frame) * delta
		if appTime >= proj.Length {
			break
		}

		view := dumpTex.ViewMip(0)
		l.ScreenImage().SetSwapchainImageView(view, frameDumpWidth, frameDumpHeight)

		encoder := device.CreateCommandEncoder()
		g.AppTime = appTime
		ok, err := player.Tick(device, encoder, g, delta, appTime, frameDumpWidth, frameDumpHeight)
		if err != nil {
			return fmt.Errorf("render frame %d: %w", frame, err)
		}
		if !ok {
			break
		}
		encoder.CopyTextureToBuffer(view, readback)
		device.Queue().Submit(encoder.Finish())

		pixels, err := readback.Read()
		view.Release()
		if err != nil {
			return fmt.Errorf("read back frame %d: %w", frame, err)
		}
		if err := writeDumpFrame(root, frame, pixels); err != nil {
			return err
		}
	}
	return nil
}

func writeDumpFrame(root string, frame int, pixels []byte) error {
	img := stdimage.NewRGBA(stdimage.Rect(0, 0, frameDumpWidth, frameDumpHeight))
	copy(img.Pix, pixels)

	path := filepath.Join(root, "framedump", fmt.Sprintf("dump-%08d.png", frame))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
