package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// Fixed always reports the same instant. Tests advance it by reassigning T.
type Fixed struct {
	T time.Time
}

func (f *Fixed) Now() time.Time {
	return f.T
}

func (f *Fixed) Advance(d time.Duration) {
	f.T = f.T.Add(d)
}
