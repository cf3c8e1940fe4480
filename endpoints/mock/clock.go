package mock

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now implements Clock.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// IDGenerator produces star identifiers.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

// NewID implements IDGenerator.
func (f IDGeneratorFunc) NewID() string { return f() }

// IDPrefix is the service prefix of generated identifiers.
const IDPrefix = "SF"

// RandomIDGenerator returns identifiers of the form SF-dddd-dddd with each
// group drawn from [1000, 9999]. Collisions are possible but rare.
type RandomIDGenerator struct{}

// NewID implements IDGenerator.
func (RandomIDGenerator) NewID() string {
	return fmt.Sprintf("%s-%d-%d", IDPrefix, 1000+rand.IntN(9000), 1000+rand.IntN(9000))
}
