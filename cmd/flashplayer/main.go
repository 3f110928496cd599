// main.go - The host binary: wires ebiten+oto (or vulkan, or headless)
// backends into a player.Player and drives it with a fixed-timestep tick
// loop, the same shape as a prior main.go boilerplate that builds a
// CPU+bus+video+audio chain and runs it, generalized from "one machine" to
// "one Player instance".
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	"flashcore/backend"
	"flashcore/debug"
	"flashcore/player"
)

func main() {
	swfPath := flag.String("swf", "", "path to a movie file (.swf)")
	headless := flag.Bool("headless", false, "run without opening a window")
	vulkan := flag.Bool("vulkan", false, "use the Vulkan renderer instead of ebiten")
	noOptimizer := flag.Bool("no-optimizer", false, "disable the AVM2 optimizer (verification still runs)")
	inspect := flag.Bool("inspect", false, "read debug/inspect commands from stdin while the movie runs")
	flag.Usage = func() {
 fmt.Fprintf(os.Stderr, "Usage: flashplayer [options] -swf movie.swf\n\nOptions:\n")
 flag.PrintDefaults()
	}
	flag.Parse()

	if err := backend.ClipboardInit(); err != nil {
 fmt.Fprintf(os.Stderr, "warning: clipboard unavailable: %v\n", err)
	}

	if *swfPath == "" {
 flag.Usage()
 os.Exit(1)
	}

	cfg := player.DefaultConfig()
	cfg.OptimizerEnabled = !*noOptimizer
	switch {
	case *headless:
 cfg.Render = player.RenderBackendHeadless
	case *vulkan:
 cfg.Render = player.RenderBackendVulkan
	default:
 cfg.Render = player.RenderBackendEbiten
	}

	renderer, driveEbiten := newRenderer(cfg.Render)
	audio := newAudio(cfg.Render)

	log := backend.NewStdLog("flashplayer: ")
	storage := backend.NewMemoryStorage()
	nav := backend.NewHTTPNavigator()
	ui := backend.NopUI{}
	locale := backend.SystemLocale{}

	p := player.NewPlayer(cfg, renderer, audio, log, storage, nav, ui, locale)

	data, err := os.ReadFile(*swfPath)
	if err != nil {
 fmt.Fprintf(os.Stderr, "error: %v\n", err)
 os.Exit(1)
	}
	header, rootClip, err := loadMovie(data)
	if err != nil {
 fmt.Fprintf(os.Stderr, "error: %v\n", err)
 os.Exit(1)
	}
	p.Load(header, rootClip)

	if *inspect {
 go runInspectorConsole(p)
	}

	if driveEbiten != nil {
 runEbiten(p, driveEbiten)
 return
	}
	runHeadless(p)
}

// newRenderer selects and constructs the backend.Renderer for the chosen
// config, returning the live ebiten renderer too when applicable so the
// caller can drive ebiten.RunGame with it.
func newRenderer(choice player.RenderBackend) (backend.Renderer, *backend.EbitenRenderer) {
	switch choice {
	case player.RenderBackendEbiten:
 r := backend.NewEbitenRenderer()
 return r, r
	case player.RenderBackendVulkan:
 return backend.NewVulkanRenderer(), nil
	default:
 return backend.NewHeadlessRenderer(), nil
	}
}

func newAudio(choice player.RenderBackend) backend.Audio {
	if choice == player.RenderBackendHeadless {
 return backend.NewHeadlessAudio()
	}
	a, err := backend.NewOtoAudioBackend()
	if err != nil {
 fmt.Fprintf(os.Stderr, "warning: audio backend unavailable: %v\n", err)
 return backend.NewHeadlessAudio()
	}
	return a
}

// game adapts Player+EbitenRenderer to ebiten's Game interface, the same
// adapter role a prior gui_frontend_*.go files play for its own
// CPU/bus pair.
type game struct {
	p *player.Player
	renderer *backend.EbitenRenderer
	last time.Time
}

func (g *game) Update() error {
	now := time.Now()
	if g.last.IsZero() {
 g.last = now
	}
	elapsed := now.Sub(g.last)
	g.last = now
	return g.p.Tick(elapsed)
}

func (g *game) Draw(screen *ebiten.Image) { g.renderer.Draw(screen) }

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return outsideWidth, outsideHeight
}

func runEbiten(p *player.Player, renderer *backend.EbitenRenderer) {
	ebiten.SetWindowTitle("flashplayer")
	ebiten.SetWindowResizable(true)
	if err := ebiten.RunGame(&game{p: p, renderer: renderer}); err != nil {
 fmt.Fprintf(os.Stderr, "error: %v\n", err)
 os.Exit(1)
	}
}

// runInspectorConsole reads debug/inspect commands from stdin one line at a time and prints each
// result, the same command-line-driven shape as a prior
// terminal_host.go monitor prompt but without raw mode, since commands
// arrive as whole lines rather than individual keystrokes.
func runInspectorConsole(p *player.Player) {
	console := debug.NewConsole(os.Stdin, os.Stdout, int(os.Stdin.Fd()), p)
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
 cmd, ok := debug.ParseCommand(scanner.Text())
 if !ok {
 continue
 }
 fmt.Fprintln(os.Stdout, console.Dispatch(cmd))
	}
}

// runHeadless drives Player.Tick on a plain ticker, for -headless mode or
// the Vulkan path (whose own presentation loop is owned by host windowing
// glue not modeled here).
func runHeadless(p *player.Player) {
	const frameInterval = time.Second / 60
	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()
	last := time.Now()
	for range ticker.C {
 now := time.Now()
 if err := p.Tick(now.Sub(last)); err != nil {
 fmt.Fprintf(os.Stderr, "error: %v\n", err)
 os.Exit(1)
 }
 last = now
	}
}
