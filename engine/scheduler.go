package engine

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/gridscope/core"
)

var ErrAlreadyRunning = errors.New("scheduler already started")

// Scheduler drives a view on a fixed tick
// Per tick: drain input, animate and synchronize, render, dispatch events
type Scheduler struct {
	view     *View
	renderer Renderer
	interval time.Duration

	frames  atomic.Uint64
	started atomic.Bool
	running atomic.Bool

	stepMu   sync.Mutex
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewScheduler binds a scheduler to view; renderer may be nil for headless use
func NewScheduler(view *View, renderer Renderer, fps int) *Scheduler {
	if fps <= 0 {
		fps = 30
	}
	s := &Scheduler{
		view:     view,
		renderer: renderer,
		interval: time.Second / time.Duration(fps),
		stopChan: make(chan struct{}),
	}
	view.attach(s)
	return s
}

// Start launches the frame loop once; later calls return ErrAlreadyRunning
func (s *Scheduler) Start() error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	s.running.Store(true)
	s.wg.Add(1)
	core.Go(s.loop)
	return nil
}

// Stop halts the loop and waits for the current frame to finish
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		s.running.Store(false)
	})
}

func (s *Scheduler) Running() bool  { return s.running.Load() }
func (s *Scheduler) Frames() uint64 { return s.frames.Load() }

func (s *Scheduler) Interval() time.Duration { return s.interval }

// Step runs one frame synchronously
func (s *Scheduler) Step() {
	s.stepMu.Lock()
	defer s.stepMu.Unlock()

	v := s.view
	if v.Closed() {
		return
	}
	v.input.Drain(v.HandleInput)
	v.Frame()
	if s.renderer != nil {
		f := v.Snapshot()
		s.renderer.Render(&f)
	}
	v.Dispatch()
	s.frames.Add(1)
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.Step()
		}
	}
}
