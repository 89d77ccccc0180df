package blueprint

import (
	"time"
)

type Timings struct {
	Count         int
	Latest        time.Duration
	MovingAverage time.Duration
	Min, Max      time.Duration
}

func (t Timings) Add(d time.Duration) Timings {
	t.Latest = d

	if t.Count == 0 {
		t.Min = d
		t.Max = d
		t.MovingAverage = d
	} else {
		t.Min = min(t.Min, d)
		t.Max = max(t.Max, d)
		t.MovingAverage = (95*t.MovingAverage + 5*d) / 100
	}

	t.Count += 1

	return t
}

// EngineStats collects counters of an Engine.
type EngineStats struct {
	// Entities successfully constructed, either new or into existing entities.
	Constructed int

	// Failed construction attempts.
	Failed int

	// Time spent in ConstructInto and ConstructNew.
	Construct Timings
}
