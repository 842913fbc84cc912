package main

import (
	"fmt"
	"math"

	"github.com/Faultbox/parkterrain/internal/terrain"
	"github.com/Faultbox/parkterrain/pkg/formats"
)

// SynthOptions controls the synthetic rolling-hills generator.
type SynthOptions struct {
	Width, Height int
	Amplitude     float64 // in land steps
	Frequency     float64 // radians per tile
	WaterLevel    int     // water units; 0 leaves the map dry
	Styles        int     // surface styles to cycle through in 8x8 blocks
}

// DefaultSynthOptions returns a 32x32 map of gentle hills.
func DefaultSynthOptions() SynthOptions {
	return SynthOptions{
		Width:     32,
		Height:    32,
		Amplitude: 3,
		Frequency: 0.15,
		Styles:    1,
	}
}

func (o SynthOptions) validate() error {
	if o.Width < 3 || o.Height < 3 || o.Width > formats.MaxTileDumpSize || o.Height > formats.MaxTileDumpSize {
		return fmt.Errorf("synth size %dx%d outside 3..%d", o.Width, o.Height, formats.MaxTileDumpSize)
	}
	if o.Amplitude < 0 || o.Frequency < 0 {
		return fmt.Errorf("synth amplitude and frequency must not be negative")
	}
	// Corners of one tile must stay within a single land step of each other.
	if 2*o.Amplitude*o.Frequency >= 1 {
		return fmt.Errorf("synth slope too steep: 2*amplitude*frequency = %.3f, must be < 1",
			2*o.Amplitude*o.Frequency)
	}
	if o.peakStep()*terrain.HeightStep > math.MaxUint8 {
		return fmt.Errorf("synth amplitude %.1f exceeds the height range", o.Amplitude)
	}
	if o.WaterLevel < 0 || o.WaterLevel > math.MaxUint8 {
		return fmt.Errorf("synth water level %d outside 0..255", o.WaterLevel)
	}
	if o.Styles < 1 || o.Styles > 256 {
		return fmt.Errorf("synth style count %d outside 1..256", o.Styles)
	}
	return nil
}

func (o SynthOptions) offset() int {
	return int(math.Ceil(o.Amplitude)) + 1
}

func (o SynthOptions) peakStep() int {
	return 2*o.offset() + 1
}

// cornerStep returns the land step of grid corner (cx, cy).
func (o SynthOptions) cornerStep(cx, cy int) int {
	f := o.Amplitude * math.Sin(o.Frequency*float64(cx)) * math.Cos(o.Frequency*float64(cy))
	return o.offset() + int(math.Round(f))
}

// Synthesize builds a tile dump from a smooth heightfield sampled at tile corners.
// Neighbouring tiles always agree on shared corners, so the result has no cliffs.
func Synthesize(opts SynthOptions) (*formats.TileDump, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	dump := formats.NewTileDump(opts.Width, opts.Height)
	slopeBits := [4]formats.Slope{
		formats.SlopeNorthUp, formats.SlopeEastUp, formats.SlopeSouthUp, formats.SlopeWestUp,
	}

	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			steps := [4]int{
				opts.cornerStep(x+1, y+1),
				opts.cornerStep(x+1, y),
				opts.cornerStep(x, y),
				opts.cornerStep(x, y+1),
			}
			base := min(steps[0], steps[1], steps[2], steps[3])

			var slope formats.Slope
			for i, s := range steps {
				if s > base {
					slope |= slopeBits[i]
				}
			}

			surface := formats.SurfaceElement{
				BaseHeight:      uint8(base * terrain.HeightStep),
				ClearanceHeight: uint8((base + 1) * terrain.HeightStep),
				Slope:           slope,
				SurfaceStyle:    uint8((x/8 + y/8) % opts.Styles),
			}
			if opts.WaterLevel*terrain.WaterHeightStep > base*terrain.HeightStep {
				surface.WaterHeight = uint8(opts.WaterLevel)
			}

			dump.SetElements(x, y, formats.NewSurfaceElement(surface))
		}
	}

	return dump, nil
}
