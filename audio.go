package main

import (
	"bytes"
	"encoding/binary"
	"log"
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
)

const toneSampleRate = 44100

// Global audio context singleton
var (
	globalAudioCtx     *oto.Context
	globalAudioCtxOnce sync.Once
	audioCtxReady      bool
)

// initAudioContext initializes the global audio context once
func initAudioContext() {
	globalAudioCtxOnce.Do(func() {
		op := &oto.NewContextOptions{
			SampleRate:   toneSampleRate,
			ChannelCount: 1,
			Format:       oto.FormatSignedInt16LE,
		}

		ctx, readyChan, err := oto.NewContext(op)
		if err != nil {
			log.Printf("Failed to initialize audio context: %v", err)
			return
		}

		// Wait for the hardware audio devices to be ready
		<-readyChan

		globalAudioCtx = ctx
		audioCtxReady = true
		log.Println("Audio context initialized successfully")
	})
}

// playConfirmTone plays a short rising two-note chime after a successful
// booking.
func playConfirmTone() {
	playTones([]tone{
		{frequency: 660, duration: 120 * time.Millisecond},
		{frequency: 880, duration: 180 * time.Millisecond},
	})
}

// playErrorTone plays a single low buzz when a booking fails.
func playErrorTone() {
	playTones([]tone{
		{frequency: 220, duration: 250 * time.Millisecond},
	})
}

type tone struct {
	frequency float64
	duration  time.Duration
}

// playTones synthesizes the tones as 16-bit PCM and plays them without
// blocking the caller. Tones are generated in code so the binary ships no
// audio assets.
func playTones(tones []tone) {
	go func() {
		initAudioContext()
		if !audioCtxReady || globalAudioCtx == nil {
			return
		}

		var pcm bytes.Buffer
		for _, t := range tones {
			writeSine(&pcm, t.frequency, t.duration)
		}

		player := globalAudioCtx.NewPlayer(bytes.NewReader(pcm.Bytes()))
		player.Play()

		for player.IsPlaying() {
			time.Sleep(time.Millisecond)
		}
		if err := player.Close(); err != nil {
			log.Printf("Failed to close audio player: %v", err)
		}
	}()
}

// writeSine appends a sine wave with a short attack/release envelope so the
// tone does not click.
func writeSine(buf *bytes.Buffer, frequency float64, duration time.Duration) {
	samples := int(float64(toneSampleRate) * duration.Seconds())
	envelope := samples / 10

	for i := 0; i < samples; i++ {
		amplitude := 0.4
		if i < envelope {
			amplitude *= float64(i) / float64(envelope)
		} else if samples-i < envelope {
			amplitude *= float64(samples-i) / float64(envelope)
		}

		value := amplitude * math.Sin(2*math.Pi*frequency*float64(i)/float64(toneSampleRate))
		binary.Write(buf, binary.LittleEndian, int16(value*math.MaxInt16))
	}
}
