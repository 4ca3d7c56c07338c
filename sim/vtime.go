package sim

import (
	"fmt"
	"time"
)

// VirtualTime is a point on a loop's simulated clock, in microseconds since
// the loop was created. It is monotonically non-decreasing and is mutated
// only by the loop's advance step.
type VirtualTime int64

const microsecondsPerSecond = int64(time.Second / time.Microsecond)

// TimeZero is the clock value of a freshly created loop.
const TimeZero VirtualTime = 0

func (t VirtualTime) String() string {
	us := int64(t)
	return fmt.Sprintf("[%ds+%06dus]", us/microsecondsPerSecond, us%microsecondsPerSecond)
}

func (t VirtualTime) Before(u VirtualTime) bool     { return t < u }
func (t VirtualTime) After(u VirtualTime) bool      { return t > u }
func (t VirtualTime) AtOrBefore(u VirtualTime) bool { return t <= u }
func (t VirtualTime) AtOrAfter(u VirtualTime) bool  { return t >= u }

// Add returns the time d after t. Durations are truncated to the clock's
// microsecond resolution.
func (t VirtualTime) Add(d time.Duration) VirtualTime {
	return t + VirtualTime(d/time.Microsecond)
}

// Since returns the duration elapsed from base to t.
func (t VirtualTime) Since(base VirtualTime) time.Duration {
	return time.Duration(t-base) * time.Microsecond
}

// Microseconds returns the raw counter value.
func (t VirtualTime) Microseconds() int64 {
	return int64(t)
}
