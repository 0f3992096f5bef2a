package ansicell

import (
	"fmt"
	"time"

	"github.com/loov/hrtime"
)

// FrameStats accumulates per frame render latencies, measured between
// StartFrame and EndFrame using the high resolution clock.
type FrameStats struct {
	Count int64
	Min   time.Duration
	Max   time.Duration
	Sum   time.Duration
}

func (fs *FrameStats) Record(d time.Duration) {
	if fs.Count == 0 || d < fs.Min {
		fs.Min = d
	}
	if d > fs.Max {
		fs.Max = d
	}
	fs.Sum += d
	fs.Count++
}

func (fs *FrameStats) Avg() time.Duration {
	if fs.Count == 0 {
		return 0
	}
	return fs.Sum / time.Duration(fs.Count)
}

func (fs *FrameStats) Reset() {
	*fs = FrameStats{}
}

// String formats as min/avg/max, rounded to microseconds.
func (fs *FrameStats) String() string {
	if fs.Count == 0 {
		return "no frames"
	}
	return fmt.Sprintf("%v/%v/%v (%d frames)",
		fs.Min.Round(time.Microsecond), fs.Avg().Round(time.Microsecond), fs.Max.Round(time.Microsecond), fs.Count)
}

// StartFrame marks the beginning of a frame render. Pair with EndFrame.
func (s *Screen) StartFrame() {
	s.frameStart = hrtime.Now()
}

// EndFrame records the elapsed time since StartFrame into Stats.
func (s *Screen) EndFrame() {
	if s.frameStart == 0 {
		return
	}
	s.stats.Record(hrtime.Now() - s.frameStart)
	s.frameStart = 0
}

func (s *Screen) Stats() *FrameStats {
	return &s.stats
}
