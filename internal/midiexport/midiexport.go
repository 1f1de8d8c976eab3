// Package midiexport renders strumming patterns as Standard MIDI Files.
package midiexport

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/verte-zerg/tuistrum/internal/catalog"
)

// Open strings of a guitar in standard tuning, low to high: E2 A2 D3 G3 B3 E4.
var openStrings = []uint8{40, 45, 50, 55, 59, 64}

const (
	ticksPerQuarter = 96
	ticksPerStrum   = ticksPerQuarter / 2

	// General MIDI "Acoustic Guitar (steel)", zero based.
	defaultProgram = 25

	defaultStagger = 3
	downVelocity   = 100
	upVelocity     = 80
)

// Options configures Render.
type Options struct {
	// Repeat is the number of times the pattern is played. Zero means once.
	Repeat  int
	Channel uint8
	// Program is the General MIDI program. Nil selects steel-string guitar.
	Program *uint8
	// Stagger is the tick offset between consecutive strings of one strum.
	Stagger uint32
}

func (o Options) withDefaults() Options {
	if o.Repeat <= 0 {
		o.Repeat = 1
	}
	if o.Program == nil {
		program := uint8(defaultProgram)
		o.Program = &program
	}
	if o.Stagger == 0 {
		o.Stagger = defaultStagger
	}
	return o
}

type event struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// Render builds a single-track file playing p at its BPM, one eighth note per strum.
func Render(p *catalog.Pattern, opts Options) (*smf.SMF, error) {
	if err := catalog.Validate(p); err != nil {
		return nil, fmt.Errorf("failed to render pattern: %w", err)
	}
	opts = opts.withDefaults()
	if opts.Channel > 15 {
		return nil, fmt.Errorf("midi channel %d out of range", opts.Channel)
	}
	if *opts.Program > 127 {
		return nil, fmt.Errorf("midi program %d out of range", *opts.Program)
	}
	if maxStagger := uint32(ticksPerStrum / len(openStrings)); opts.Stagger > maxStagger {
		return nil, fmt.Errorf("stagger must be <= %d ticks", maxStagger)
	}

	var events []event
	step := 0
	for r := 0; r < opts.Repeat; r++ {
		for _, dir := range p.Sequence {
			events = append(events, strumEvents(dir, uint32(step*ticksPerStrum), opts)...)
			step++
		}
	}
	// Note-offs first so a repeated key is released before it sounds again.
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick == events[j].tick {
			return events[i].off && !events[j].off
		}
		return events[i].tick < events[j].tick
	})

	var tr smf.Track
	tr.Add(0, smf.MetaTrackSequenceName(p.Name))
	tr.Add(0, smf.MetaMeter(4, 4))
	tr.Add(0, smf.MetaTempo(float64(p.BPM)))
	tr.Add(0, midi.ProgramChange(opts.Channel, *opts.Program))
	var last uint32
	for _, ev := range events {
		tr.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	end := uint32(step * ticksPerStrum)
	tr.Close(end - last)

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)
	if err := s.Add(tr); err != nil {
		return nil, fmt.Errorf("failed to add track: %w", err)
	}
	return s, nil
}

func strumEvents(dir catalog.Direction, start uint32, opts Options) []event {
	keys := make([]uint8, len(openStrings))
	copy(keys, openStrings)
	velocity := uint8(downVelocity)
	if dir == catalog.Up {
		for i, j := 0, len(keys)-1; i < j; i, j = i+1, j-1 {
			keys[i], keys[j] = keys[j], keys[i]
		}
		velocity = upVelocity
	}
	release := start + ticksPerStrum - 1
	out := make([]event, 0, 2*len(keys))
	for i, key := range keys {
		out = append(out,
			event{tick: start + uint32(i)*opts.Stagger, msg: midi.NoteOn(opts.Channel, key, velocity)},
			event{tick: release, off: true, msg: midi.NoteOff(opts.Channel, key)},
		)
	}
	return out
}

// Write renders p and writes the file to w.
func Write(w io.Writer, p *catalog.Pattern, opts Options) error {
	s, err := Render(p, opts)
	if err != nil {
		return err
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write midi: %w", err)
	}
	return nil
}
