package ranking

import "sync"

// scoreMap is the concurrent associative table from customer identifier to
// current score. It is sharded by identifier so
// that the underlying Go maps themselves — not just the logical keys — can
// be touched by different goroutines without racing: a plain map is not
// safe for concurrent access even when callers only ever write disjoint
// keys, so each shard carries its own mutex independent of the envelope's
// per-customer stripe locks. The shard count is kept equal to the
// envelope's stripe count so that two customers that never contend for a
// stripe lock also never contend for a score-map shard.
type scoreMap struct {
	shards []scoreMapShard
}

type scoreMapShard struct {
	mu sync.RWMutex
	m  map[int64]Score
}

func newScoreMap(shardCount int) *scoreMap {
	sm := &scoreMap{shards: make([]scoreMapShard, shardCount)}
	for i := range sm.shards {
		sm.shards[i].m = make(map[int64]Score)
	}
	return sm
}

func (sm *scoreMap) shardFor(id int64) *scoreMapShard {
	return &sm.shards[stripeIndex(id, len(sm.shards))]
}

// get returns the current score for id, or (0, false) if absent.
func (sm *scoreMap) get(id int64) (Score, bool) {
	sh := sm.shardFor(id)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	s, ok := sh.m[id]
	return s, ok
}

// put unconditionally sets the score for id.
func (sm *scoreMap) put(id int64, score Score) {
	sh := sm.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.m[id] = score
}

// remove unconditionally deletes id.
func (sm *scoreMap) remove(id int64) {
	sh := sm.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.m, id)
}

// count returns the number of participating customers. It is O(shards),
// used only for diagnostics — the Ranking Index's own count is the source
// of truth for the envelope's read path.
func (sm *scoreMap) count() int {
	n := 0
	for i := range sm.shards {
		sm.shards[i].mu.RLock()
		n += len(sm.shards[i].m)
		sm.shards[i].mu.RUnlock()
	}
	return n
}
