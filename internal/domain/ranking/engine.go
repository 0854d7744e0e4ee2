package ranking

import "sync"

// defaultStripeCount is the recommended power-of-two stripe count.
const defaultStripeCount = 4096

// Option configures an Engine at construction time.
type Option func(*engineConfig)

type engineConfig struct {
	stripeCount int
}

// WithStripeCount overrides the default stripe count. A power of two is the
// recommended choice, but any positive n works since stripes are picked by
// |id| mod n; non-positive n is ignored.
func WithStripeCount(n int) Option {
	return func(c *engineConfig) {
		if n > 0 {
			c.stripeCount = n
		}
	}
}

// Engine is the concurrency envelope around the ranking index: per-customer
// striped mutexes serializing updates to the same customer, plus a single
// structural readers/writer lock protecting the Ranking Index. It is the
// only type this package exports for mutation and query; scoreMap and
// skiplist are implementation details reachable only through it.
type Engine struct {
	structural sync.RWMutex
	stripes    []sync.Mutex
	scores     *scoreMap
	index      *skiplist
}

// New constructs an Engine with the given options applied over sensible
// defaults (4,096 stripes, skip-list height cap 32).
func New(opts ...Option) *Engine {
	cfg := engineConfig{stripeCount: defaultStripeCount}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Engine{
		stripes: make([]sync.Mutex, cfg.stripeCount),
		scores:  newScoreMap(cfg.stripeCount),
		index:   newSkiplist(),
	}
}

// stripeIndex maps id to a stripe/shard in [0, n) by |id| mod n.
// For negative ids the magnitude is taken as uint64(-id): Go defines
// signed-integer overflow to wrap modulo 2^64, so this also gives the
// correct magnitude when id == math.MinInt64, where -id itself overflows.
func stripeIndex(id int64, n int) int {
	u := uint64(id)
	if id < 0 {
		u = uint64(-id)
	}
	return int(u % uint64(n))
}

// UpdateScore applies delta to customer's cumulative score and returns the
// new value: stripe lock for the customer, a score map read, then a
// structural write lock around the single insert/remove/updateScore call
// that read dictates, then a score map write. The caller is responsible
// for the delta range precondition; the engine itself imposes none.
func (e *Engine) UpdateScore(customerID int64, delta Score) Score {
	stripe := &e.stripes[stripeIndex(customerID, len(e.stripes))]
	stripe.Lock()
	defer stripe.Unlock()

	current, present := e.scores.get(customerID)
	if !present {
		if !delta.Positive() {
			return delta
		}
		e.structural.Lock()
		_, _ = e.index.insert(customerID, delta)
		e.structural.Unlock()
		e.scores.put(customerID, delta)
		return delta
	}

	newScore := current.Add(delta)
	e.structural.Lock()
	if !newScore.Positive() {
		_, _ = e.index.remove(customerID)
		e.structural.Unlock()
		e.scores.remove(customerID)
		return newScore
	}
	_ = e.index.updateScore(customerID, newScore)
	e.structural.Unlock()
	e.scores.put(customerID, newScore)
	return newScore
}

// GetByRank returns entries with start <= rank <= end in ascending rank
// order under a shared structural read lock.
func (e *Engine) GetByRank(start, end int64) []Entry {
	e.structural.RLock()
	defer e.structural.RUnlock()
	return e.index.rangeByRank(start, end)
}

// GetNeighbors returns customerID together with up preceding and down
// following entries, in ascending rank order, under a shared structural
// read lock. Returns nil if customerID is absent.
func (e *Engine) GetNeighbors(customerID int64, up, down int) []Entry {
	e.structural.RLock()
	defer e.structural.RUnlock()
	return e.index.neighbors(customerID, up, down)
}

// Count returns the current participant count under a shared structural
// read lock.
func (e *Engine) Count() int64 {
	e.structural.RLock()
	defer e.structural.RUnlock()
	return e.index.count()
}
