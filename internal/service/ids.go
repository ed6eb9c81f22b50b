package service

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

type Clock interface{ Now() time.Time }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock is the wall clock in UTC.
var SystemClock Clock = systemClock{}

type IDGen interface{ NewID(t time.Time) string }

// ulidGen hands out ULIDs that sort by creation time. The monotonic reader
// is shared so ids minted within the same millisecond still increase.
type ulidGen struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

func NewULIDGen() IDGen {
	return &ulidGen{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ulidGen) NewID(t time.Time) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), g.entropy).String()
}

type uuidGen struct{}

func NewUUIDGen() IDGen { return uuidGen{} }

func (uuidGen) NewID(time.Time) string { return uuid.NewString() }
