// Package audio plays short tones when particles are spawned and when they
// fall off the bottom of the lattice.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/pthm-cable/sandfall/config"
)

// Cues mixes event tones into a single speaker stream. At most one cue of
// each kind starts per cue length, so a brush held over many cells does not
// stack hundreds of tones. All methods are safe on a nil *Cues.
type Cues struct {
	mu          sync.Mutex
	rate        beep.SampleRate
	spawnFreq   float64
	removeFreq  float64
	length      time.Duration
	mixer       *beep.Mixer
	initialized bool

	lastSpawn  time.Time
	lastRemove time.Time
	now        func() time.Time
}

// New creates cues from config. Call Initialize to open the speaker.
func New(cfg config.AudioConfig) *Cues {
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = 44100
	}
	length := time.Duration(cfg.CueMillis) * time.Millisecond
	if length <= 0 {
		length = 30 * time.Millisecond
	}
	return &Cues{
		rate:       beep.SampleRate(rate),
		spawnFreq:  cfg.SpawnTone,
		removeFreq: cfg.RemoveTone,
		length:     length,
		mixer:      &beep.Mixer{},
		now:        time.Now,
	}
}

// Initialize opens the speaker and starts the mixer.
func (c *Cues) Initialize() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(c.rate, c.rate.N(time.Second/10)); err != nil {
		return err
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Close silences the mixer.
func (c *Cues) Close() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	c.initialized = false
}

// Spawn plays the spawn tone.
func (c *Cues) Spawn() {
	if c == nil {
		return
	}
	c.play(c.spawnFreq, &c.lastSpawn)
}

// Remove plays the bottom-boundary removal tone.
func (c *Cues) Remove() {
	if c == nil {
		return
	}
	c.play(c.removeFreq, &c.lastRemove)
}

// Pending returns the number of tones still sounding.
func (c *Cues) Pending() int {
	if c == nil {
		return 0
	}
	speaker.Lock()
	defer speaker.Unlock()
	return c.mixer.Len()
}

func (c *Cues) play(freq float64, last *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized || freq <= 0 {
		return
	}
	now := c.now()
	if !last.IsZero() && now.Sub(*last) < c.length {
		return
	}
	tone, err := c.tone(freq)
	if err != nil {
		return
	}
	*last = now

	speaker.Lock()
	c.mixer.Add(tone)
	speaker.Unlock()
}

// tone builds one quiet fixed-length sine cue.
func (c *Cues) tone(freq float64) (beep.Streamer, error) {
	sine, err := generators.SineTone(c.rate, freq)
	if err != nil {
		return nil, err
	}
	return &effects.Volume{
		Streamer: beep.Take(c.rate.N(c.length), sine),
		Base:     2,
		Volume:   -3,
	}, nil
}
