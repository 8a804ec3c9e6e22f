package ui

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ebitengine/oto/v3"
	"github.com/retroenv/chip8go/internal/chip8"
)

const (
	sampleRate    = 44100
	toneFrequency = 440
	toneVolume    = 0.25
)

// Beeper plays a tone while the sound timer of the machine runs. It
// implements the notifier interface and reacts to the sound notices.
type Beeper struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewBeeper initializes the audio device and blocks until it is ready.
func NewBeeper() (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("initializing audio device: %w", err)
	}
	<-ready

	b := &Beeper{
		ctx: ctx,
	}
	b.player = ctx.NewPlayer(&squareWave{})
	return b, nil
}

// Notify starts and stops tone playback based on sound timer notices.
func (b *Beeper) Notify(notice chip8.Notice) {
	switch notice {
	case chip8.NoticeSoundOn:
		b.player.Play()

	case chip8.NoticeSoundOff:
		b.player.Pause()
	}
}

// Close stops playback and releases the audio player.
func (b *Beeper) Close() error {
	return b.player.Close()
}

// squareWave generates an endless square wave tone as float32 samples.
type squareWave struct {
	position int
}

func (w *squareWave) Read(p []byte) (int, error) {
	const period = sampleRate / toneFrequency

	n := len(p) - len(p)%4
	for i := 0; i < n; i += 4 {
		sample := float32(toneVolume)
		if w.position >= period/2 {
			sample = -toneVolume
		}
		binary.LittleEndian.PutUint32(p[i:], math.Float32bits(sample))

		w.position++
		if w.position == period {
			w.position = 0
		}
	}
	return n, nil
}
