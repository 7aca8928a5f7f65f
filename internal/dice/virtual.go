package dice

import (
	"errors"
	"log"
	"sync"
	"time"
)

const (
	// DefaultSettle is how long a virtual roll tumbles before it lands.
	DefaultSettle = 700 * time.Millisecond
	// DefaultTimeout is the fallback deadline after which a face is always reported.
	DefaultTimeout = 3 * time.Second
)

// ErrAlreadyBound is returned when a second handler is bound to a die.
var ErrAlreadyBound = errors.New("dice: handler already bound")

// Virtual is a software die with the same control surface as the physical one.
//
// A roll is accepted only while permission is granted. It lands after the
// settle delay and reports its face once; if it has not landed by the
// fallback timeout a random face is reported instead.
type Virtual struct {
	mu       sync.Mutex
	rng      Roller
	handler  Handler
	settle   time.Duration
	timeout  time.Duration
	canRoll  bool
	rolling  bool
	reported bool
	seq      uint64
	timers   []*time.Timer
}

// NewVirtual creates a virtual die. Non-positive durations select the defaults.
func NewVirtual(rng Roller, settle, timeout time.Duration) *Virtual {
	if settle <= 0 {
		settle = DefaultSettle
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Virtual{
		rng:     rng,
		settle:  settle,
		timeout: timeout,
		canRoll: true,
	}
}

// Bind commits h as the only receiver of roll results.
func (v *Virtual) Bind(h Handler) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.handler != nil {
		return ErrAlreadyBound
	}
	v.handler = h
	return nil
}

// SetRollPermission allows or forbids the next roll.
func (v *Virtual) SetRollPermission(allowed bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.canRoll = allowed
}

// Reset abandons any roll in flight.
func (v *Virtual) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.stopLocked()
	v.rolling = false
	v.reported = false
}

// TriggerRoll starts a roll if permission is granted.
// Triggering while a roll is in flight restarts it.
func (v *Virtual) TriggerRoll() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.canRoll {
		log.Printf("dice: roll ignored, no permission")
		return
	}

	v.stopLocked()
	v.rolling = true
	v.reported = false
	seq := v.seq

	// The landed face is drawn now; the fallback draws its own when it fires.
	landed := Face(v.rng)
	v.timers = append(v.timers,
		time.AfterFunc(v.settle, func() { v.report(seq, landed) }),
		time.AfterFunc(v.timeout, func() { v.fallback(seq) }),
	)
}

// Rolling returns true while a roll is in flight.
func (v *Virtual) Rolling() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rolling
}

func (v *Virtual) fallback(seq uint64) {
	v.mu.Lock()
	if seq != v.seq || v.reported {
		v.mu.Unlock()
		return
	}
	face := Face(v.rng)
	v.mu.Unlock()

	log.Printf("dice: roll did not settle within %s, reporting fallback face", v.timeout)
	v.report(seq, face)
}

// report delivers face once per roll. The handler runs outside the lock.
func (v *Virtual) report(seq uint64, face int) {
	v.mu.Lock()
	if seq != v.seq || v.reported || !v.rolling {
		v.mu.Unlock()
		return
	}
	v.reported = true
	v.rolling = false
	h := v.handler
	v.mu.Unlock()

	if h != nil {
		h(face)
	}
}

// stopLocked cancels pending timers and invalidates their callbacks.
func (v *Virtual) stopLocked() {
	for _, t := range v.timers {
		t.Stop()
	}
	v.timers = v.timers[:0]
	v.seq++
}
