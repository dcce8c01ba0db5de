// Package audio plays short interaction cues
package audio

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/gridscope/event"
)

// Cues owns the speaker and a mixer of one-shot cues
// Without an audio device every call is a no-op
type Cues struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	master      *effects.Volume
	muted       bool
	initialized bool
	played      int
}

func NewCues(muted bool) *Cues {
	mixer := &beep.Mixer{}
	return &Cues{
		mixer:  mixer,
		master: masterVolume(mixer, muted),
		muted:  muted,
	}
}

func (c *Cues) Name() string           { return "audio" }
func (c *Cues) Dependencies() []string { return nil }

// Init accepts an optional bool mute flag
func (c *Cues) Init(args ...any) error {
	for _, a := range args {
		if m, ok := a.(bool); ok {
			c.Mute(m)
			break
		}
	}
	return nil
}

// Start opens the audio device; failure is logged and leaves cues disabled
func (c *Cues) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		log.Printf("audio: initialization failed, cues disabled: %v", err)
		return nil
	}
	speaker.Play(c.master)
	c.initialized = true
	return nil
}

func (c *Cues) Stop() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized {
		return nil
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	speaker.Clear()
	c.initialized = false
	return nil
}

// Enabled reports whether an audio device is open
func (c *Cues) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

func (c *Cues) Mute(muted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = muted
	if c.initialized {
		speaker.Lock()
		c.master.Silent = muted
		speaker.Unlock()
		return
	}
	c.master.Silent = muted
}

func (c *Cues) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

// Played counts cues handed to the mixer
func (c *Cues) Played() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.played
}

func (c *Cues) Hover() { c.play(HoverTone()) }
func (c *Cues) Click() { c.play(ClickChime()) }
func (c *Cues) Exit()  { c.play(ExitChime()) }

func (c *Cues) play(s beep.Streamer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.initialized || c.muted || s == nil {
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
	c.played++
}

// HandleEvent maps view events to cues
func (c *Cues) HandleEvent(ev event.Event) {
	switch ev.Type {
	case event.EventHoverChanged:
		if p, ok := ev.Payload.(*event.HoverChangedPayload); ok && p.ID != "" {
			c.Hover()
		}
	case event.EventNodeSelected, event.EventPositionConfigure:
		c.Click()
	case event.EventDrillDownExit:
		c.Exit()
	}
}

func (c *Cues) EventTypes() []event.EventType {
	return []event.EventType{
		event.EventHoverChanged,
		event.EventNodeSelected,
		event.EventPositionConfigure,
		event.EventDrillDownExit,
	}
}
