package main

import (
	"fmt"
	"log"
	"os"
	"slices"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/gridscope/audio"
	"github.com/lixenwraith/gridscope/camera"
	"github.com/lixenwraith/gridscope/config"
	"github.com/lixenwraith/gridscope/core"
	"github.com/lixenwraith/gridscope/engine"
	"github.com/lixenwraith/gridscope/event"
	"github.com/lixenwraith/gridscope/forms"
	"github.com/lixenwraith/gridscope/metrics"
	"github.com/lixenwraith/gridscope/ncfg"
	"github.com/lixenwraith/gridscope/render"
	"github.com/lixenwraith/gridscope/service"
	"github.com/lixenwraith/gridscope/snapshot"
	"github.com/lixenwraith/gridscope/transport"
)

// Default series written when a grid point is configured from the terminal
var (
	defaultTimeSteps = []float64{0, 0.25, 0.5, 0.75, 1}
	defaultStrengths = []float64{0, 0.5, 1, 0.5, 0}
)

var formKinds = []string{"box", "rect", "triangle", "heightmapMesh"}

func runView(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}
	closeLog, err := setupLogging(cfg.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	store := ncfg.NewStore()
	if cfg.Files.NCFG != "" {
		loaded, skipped, err := loadNCFG(cfg.Files.NCFG, store)
		if err != nil {
			return err
		}
		log.Printf("ncfg: loaded %d entries, skipped %d", loaded, skipped)
	}

	reg := metrics.NewRegistry()
	view := engine.NewView(engine.Options{
		Seed:      cfg.View.Seed,
		Particles: cfg.View.Particles,
		Store:     store,
		Metrics:   reg,
	})
	defer view.Close()

	hub := service.NewHub()
	cues := audio.NewCues(cfg.View.Mute)
	view.Register(cues)
	services := []service.Service{cues, metrics.NewServer(reg)}

	var sub *transport.Subscriber
	if cfg.Transport.SnapshotURL != "" {
		sub = transport.NewSubscriber(cfg.Transport.SnapshotURL)
		services = append(services, sub)
	}
	if cfg.Transport.PublishURL != "" {
		pub := transport.NewPublisher(cfg.Transport.PublishURL)
		view.Register(pub)
		services = append(services, pub)
	}
	for _, svc := range services {
		if err := hub.Register(svc); err != nil {
			return err
		}
	}
	if err := hub.InitAll(cfg.Metrics.Addr, cfg.View.Mute); err != nil {
		return err
	}
	if err := hub.StartAll(); err != nil {
		return err
	}
	defer hub.StopAll()

	// Terminal stands in for the configuration dialog: clicking a grid point toggles a default series
	view.Register(event.HandlerFunc{
		Types: []event.EventType{event.EventPositionConfigure},
		Fn: func(ev event.Event) {
			p, ok := ev.Payload.(*event.PositionConfigurePayload)
			if !ok {
				return
			}
			if store.Has(p.NodeID, p.Key) {
				view.Unconfigure(p.NodeID, p.Position)
				return
			}
			if _, err := view.Configure(p.NodeID, p.Position, defaultTimeSteps, defaultStrengths); err != nil {
				log.Printf("ncfg: configure %s/%s: %v", p.NodeID, p.Key, err)
			}
		},
	})

	if cfg.Files.Snapshot != "" {
		snap, err := snapshot.LoadFile(cfg.Files.Snapshot)
		if err != nil {
			return err
		}
		view.ApplySnapshot(snap)
	}
	if cfg.Environment.Enabled {
		view.SetEnvironment(environmentFrom(cfg))
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	core.RegisterScreen(screen)
	defer func() {
		core.RegisterScreen(nil)
		screen.Fini()
	}()
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.HideCursor()

	renderer := render.NewRenderer(screen)
	resize(view, screen)

	sched := engine.NewScheduler(view, renderer, cfg.View.FPS)
	if err := sched.Start(); err != nil {
		return err
	}

	a := &app{view: view, screen: screen, cues: cues, cfg: cfg}
	a.loop(sub)

	view.Close()
	if cfg.Files.NCFG != "" {
		if err := saveNCFG(cfg.Files.NCFG, store); err != nil {
			fmt.Fprintf(os.Stderr, "gridscope: save ncfg: %v\n", err)
		}
	}
	return nil
}

func environmentFrom(cfg *config.Config) *engine.Environment {
	return &engine.Environment{ID: cfg.Environment.ID, Lattice: cfg.Environment.Lattice()}
}

// resize keeps the last row for the status line
func resize(view *engine.View, screen tcell.Screen) {
	w, h := screen.Size()
	view.SetSurface(camera.Rect{W: float64(w), H: float64(max(h-1, 0))})
}

// app routes terminal events into the view
type app struct {
	view    *engine.View
	screen  tcell.Screen
	cues    *audio.Cues
	cfg     *config.Config
	pressed bool
	dropped []string
}

func (a *app) loop(sub *transport.Subscriber) {
	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	core.Go(func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	})
	defer close(quit)

	var snapshots <-chan snapshot.Snapshot
	if sub != nil {
		snapshots = sub.Snapshots()
	}

	for {
		select {
		case ev := <-events:
			if !a.handle(ev) {
				return
			}
		case snap := <-snapshots:
			a.view.ApplySnapshot(snap)
		}
	}
}

// handle returns false on quit
func (a *app) handle(ev tcell.Event) bool {
	input := a.view.Input()
	switch ev := ev.(type) {
	case *tcell.EventResize:
		resize(a.view, a.screen)
		a.screen.Sync()

	case *tcell.EventMouse:
		x, y := ev.Position()
		px, py := float64(x)+0.5, float64(y)+0.5
		buttons := ev.Buttons()
		switch {
		case buttons&tcell.WheelUp != 0:
			input.Push(engine.InputEvent{Kind: engine.InputWheel, Delta: -1})
		case buttons&tcell.WheelDown != 0:
			input.Push(engine.InputEvent{Kind: engine.InputWheel, Delta: 1})
		case buttons&tcell.Button1 != 0:
			kind := engine.InputMove
			if !a.pressed {
				kind = engine.InputDown
				a.pressed = true
			}
			input.Push(engine.InputEvent{Kind: kind, X: px, Y: py})
		default:
			if a.pressed {
				a.pressed = false
				input.Push(engine.InputEvent{Kind: engine.InputUp, X: px, Y: py})
				return true
			}
			input.Push(engine.InputEvent{Kind: engine.InputMove, X: px, Y: py})
		}

	case *tcell.EventKey:
		switch ev.Key() {
		case tcell.KeyCtrlC:
			return false
		case tcell.KeyEscape:
			input.Push(engine.InputEvent{Kind: engine.InputCancel})
		case tcell.KeyRune:
			return a.handleRune(ev.Rune())
		}
	}
	return true
}

func (a *app) handleRune(r rune) bool {
	switch r {
	case 'q':
		return false
	case 'm':
		a.cues.Mute(!a.cues.Muted())
	case 'e':
		if a.view.Environment() == nil {
			a.view.SetEnvironment(environmentFrom(a.cfg))
		} else {
			a.view.SetEnvironment(nil)
		}
	case 'f':
		kind := formKinds[len(a.dropped)%len(formKinds)]
		p := forms.Payload{Kind: kind}
		if kind == "heightmapMesh" {
			p.Heightmap = sampleHeightmap(8, 8)
		}
		id, err := a.view.DropForm(p)
		if err != nil {
			log.Printf("form: %v", err)
			return true
		}
		a.dropped = append(a.dropped, id)
	case 'x':
		if n := len(a.dropped); n > 0 {
			a.view.RemoveForm(a.dropped[n-1])
			a.dropped = slices.Delete(a.dropped, n-1, n)
		}
	}
	return true
}

// sampleHeightmap builds a radial bump for the demo drop key
func sampleHeightmap(w, h int) *forms.HeightmapPayload {
	data := make([]float64, w*h)
	cx, cy := float64(w-1)/2, float64(h-1)/2
	for y := range h {
		for x := range w {
			dx, dy := (float64(x)-cx)/cx, (float64(y)-cy)/cy
			v := 1 - (dx*dx+dy*dy)/2
			data[y*w+x] = max(0, min(1, v))
		}
	}
	return &forms.HeightmapPayload{Width: w, Height: h, Data: data}
}
