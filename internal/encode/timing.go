package encode

import (
	"fmt"
	"math"

	"github.com/san-kum/evoviz/internal/fault"
)

// Timing is the delay between animation frames in hundredths of a second,
// the unit GIF stores.
type Timing struct {
	delay int
}

// MaxDelay is the longest per-frame delay a GIF can hold, in hundredths of a
// second.
const MaxDelay = math.MaxUint16

// FromFPS converts a frame rate to a per-frame delay.
func FromFPS(fps float64) (Timing, error) {
	if fps <= 0 || math.IsInf(fps, 0) || math.IsNaN(fps) {
		return Timing{}, fault.Argumentf("frame rate must be positive, got %g", fps)
	}
	cs := math.Round(100 / fps)
	if cs > MaxDelay {
		return Timing{}, fault.Argumentf("frame rate %g is too slow, the longest frame delay is %gs", fps, float64(MaxDelay)/100)
	}
	return Timing{delay: max(1, int(cs))}, nil
}

// FromDelayMs converts an inter-frame delay in milliseconds.
func FromDelayMs(ms int) (Timing, error) {
	if ms < 0 {
		return Timing{}, fault.Argumentf("frame delay must not be negative, got %dms", ms)
	}
	cs := math.Round(float64(ms) / 10)
	if cs > MaxDelay {
		return Timing{}, fault.Argumentf("frame delay %dms is too long, the limit is %dms", ms, MaxDelay*10)
	}
	return Timing{delay: max(1, int(cs))}, nil
}

// CentiSeconds returns the delay in hundredths of a second.
func (t Timing) CentiSeconds() int {
	if t.delay < 1 {
		return 1
	}
	return t.delay
}

func (t Timing) String() string {
	return fmt.Sprintf("%dms/frame", t.CentiSeconds()*10)
}
