package ranking

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"
)

func sc(f float64) Score { return NewScore(f) }

func mustInsert(t *testing.T, sl *skiplist, id int64, score Score) {
	t.Helper()
	if _, err := sl.insert(id, score); err != nil {
		t.Fatalf("insert(%d, %v) failed: %v", id, score, err)
	}
}

func TestSkiplistEmpty(t *testing.T) {
	sl := newSkiplist()
	if got := sl.count(); got != 0 {
		t.Errorf("count = %d, want 0", got)
	}
	if got := sl.rangeByRank(1, 10); got != nil {
		t.Errorf("rangeByRank on empty = %v, want nil", got)
	}
	if got := sl.neighbors(42, 3, 3); got != nil {
		t.Errorf("neighbors on empty = %v, want nil", got)
	}
}

func TestSkiplistInsertDuplicateFails(t *testing.T) {
	sl := newSkiplist()
	mustInsert(t, sl, 1, sc(10))
	if _, err := sl.insert(1, sc(20)); err != ErrDuplicate {
		t.Errorf("insert duplicate err = %v, want ErrDuplicate", err)
	}
}

func TestSkiplistRemoveAbsentFails(t *testing.T) {
	sl := newSkiplist()
	if _, err := sl.remove(1); err != ErrAbsent {
		t.Errorf("remove absent err = %v, want ErrAbsent", err)
	}
}

func TestSkiplistOrderingAndRanks(t *testing.T) {
	sl := newSkiplist()
	mustInsert(t, sl, 1, sc(10))
	mustInsert(t, sl, 2, sc(20))
	mustInsert(t, sl, 3, sc(20))
	mustInsert(t, sl, 4, sc(5))

	got := sl.rangeByRank(1, 4)
	want := []Entry{
		{CustomerID: 2, Score: sc(20), Rank: 1},
		{CustomerID: 3, Score: sc(20), Rank: 2},
		{CustomerID: 1, Score: sc(10), Rank: 3},
		{CustomerID: 4, Score: sc(5), Rank: 4},
	}
	assertEntriesEqual(t, got, want)
}

func TestSkiplistNeighbors(t *testing.T) {
	sl := newSkiplist()
	mustInsert(t, sl, 1, sc(10))
	mustInsert(t, sl, 2, sc(20))
	mustInsert(t, sl, 3, sc(20))
	mustInsert(t, sl, 4, sc(5))

	got := sl.neighbors(1, 1, 1)
	want := []Entry{
		{CustomerID: 3, Score: sc(20), Rank: 2},
		{CustomerID: 1, Score: sc(10), Rank: 3},
		{CustomerID: 4, Score: sc(5), Rank: 4},
	}
	assertEntriesEqual(t, got, want)
}

func TestSkiplistUpdateScoreInPlaceAndReinsert(t *testing.T) {
	sl := newSkiplist()
	mustInsert(t, sl, 1, sc(10))
	mustInsert(t, sl, 2, sc(20))
	mustInsert(t, sl, 3, sc(20))

	// 10 -> 25 must jump past both 2 and 3 (reinsert path).
	if err := sl.updateScore(1, sc(25)); err != nil {
		t.Fatalf("updateScore: %v", err)
	}
	got := sl.rangeByRank(1, 3)
	want := []Entry{
		{CustomerID: 1, Score: sc(25), Rank: 1},
		{CustomerID: 2, Score: sc(20), Rank: 2},
		{CustomerID: 3, Score: sc(20), Rank: 3},
	}
	assertEntriesEqual(t, got, want)

	// 20 (id 2) -> 20 unchanged, order relative to neighbors preserved: in-place path.
	if err := sl.updateScore(2, sc(20)); err != nil {
		t.Fatalf("updateScore no-op: %v", err)
	}
	if rank := sl.rankOf(2); rank != 2 {
		t.Errorf("rankOf(2) after no-op update = %d, want 2", rank)
	}
}

func TestSkiplistUpdateScoreAcceptsNonPositive(t *testing.T) {
	// The skip list itself enforces only the total order, not the
	// participation rule (score > 0) — that precondition belongs to the
	// envelope's update path, which removes instead of calling updateScore
	// once a delta drives a customer to <= 0.
	sl := newSkiplist()
	mustInsert(t, sl, 1, sc(10))
	mustInsert(t, sl, 2, sc(20))
	mustInsert(t, sl, 3, sc(20))
	mustInsert(t, sl, 4, sc(5))

	if err := sl.updateScore(4, sc(-5)); err != nil {
		t.Fatalf("updateScore: %v", err)
	}
	if rank := sl.rankOf(4); rank != 4 {
		t.Errorf("rankOf(4) after update to -5 = %d, want 4 (still last)", rank)
	}
}

func TestSkiplistRangeByRankClampsAndRejects(t *testing.T) {
	sl := newSkiplist()
	mustInsert(t, sl, 1, sc(10))
	mustInsert(t, sl, 2, sc(20))

	if got := sl.rangeByRank(0, 1); got != nil {
		t.Errorf("start<1 should be empty, got %v", got)
	}
	if got := sl.rangeByRank(2, 1); got != nil {
		t.Errorf("end<start should be empty, got %v", got)
	}
	if got := sl.rangeByRank(3, 5); got != nil {
		t.Errorf("start>count should be empty, got %v", got)
	}
	if got := sl.rangeByRank(1, 100); len(got) != 2 {
		t.Errorf("end should clamp to count, got %d entries", len(got))
	}
}

func TestSkiplistS5Scenario(t *testing.T) {
	sl := newSkiplist()
	mustInsert(t, sl, 1, sc(10))
	mustInsert(t, sl, 2, sc(20))
	mustInsert(t, sl, 3, sc(20))
	mustInsert(t, sl, 4, sc(5))

	// S4: the envelope removes customer 4 once its score would drop to -5.
	if _, err := sl.remove(4); err != nil {
		t.Fatalf("remove(4): %v", err)
	}
	// S5: customer 1 goes from 10 to 25 and moves past 2 and 3.
	if err := sl.updateScore(1, sc(25)); err != nil {
		t.Fatalf("updateScore(1, 25): %v", err)
	}
	assertEntriesEqual(t, sl.rangeByRank(1, 3), []Entry{
		{CustomerID: 1, Score: sc(25), Rank: 1},
		{CustomerID: 2, Score: sc(20), Rank: 2},
		{CustomerID: 3, Score: sc(20), Rank: 3},
	})
}

func TestSkiplistRoundTripRandom(t *testing.T) {
	sl := newSkiplist()
	const n = 2000
	rng := rand.New(rand.NewSource(1))
	ids := make([]int64, n)
	scores := make([]Score, n)
	for i := 0; i < n; i++ {
		ids[i] = int64(i + 1)
		scores[i] = sc(rng.Float64() * 10000)
		mustInsert(t, sl, ids[i], scores[i])
	}

	type pair struct {
		id    int64
		score Score
	}
	sorted := make([]pair, n)
	for i := range ids {
		sorted[i] = pair{ids[i], scores[i]}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return less(sorted[i].score, sorted[i].id, sorted[j].score, sorted[j].id)
	})

	all := sl.rangeByRank(1, int64(n))
	if len(all) != n {
		t.Fatalf("rangeByRank(1,n) returned %d entries, want %d", len(all), n)
	}
	for i, e := range all {
		if e.CustomerID != sorted[i].id || e.Score != sorted[i].score {
			t.Fatalf("rank %d: got (%d,%v), want (%d,%v)", i+1, e.CustomerID, e.Score, sorted[i].id, sorted[i].score)
		}
		if e.Rank != int64(i+1) {
			t.Fatalf("rank %d: entry.Rank = %d", i+1, e.Rank)
		}
	}

	for trial := 0; trial < 1000; trial++ {
		k := int64(rng.Intn(n) + 1)
		got := sl.rangeByRank(k, k)
		if len(got) != 1 {
			t.Fatalf("rangeByRank(%d,%d) returned %d entries", k, k, len(got))
		}
		if got[0].CustomerID != sorted[k-1].id {
			t.Fatalf("rank %d: got customer %d, want %d", k, got[0].CustomerID, sorted[k-1].id)
		}
		if sl.rankOf(sorted[k-1].id) != k {
			t.Fatalf("rankOf(%d) = %d, want %d", sorted[k-1].id, sl.rankOf(sorted[k-1].id), k)
		}
	}
}

func assertEntriesEqual(t *testing.T, got, want []Entry) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v vs %v)", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestSkiplistSpanConsistency(t *testing.T) {
	sl := newSkiplist()
	rng := rand.New(rand.NewSource(7))
	for i := 1; i <= 500; i++ {
		mustInsert(t, sl, int64(i), sc(rng.Float64()*1000))
	}
	for level := 0; level < sl.level; level++ {
		var rank int64
		x := sl.header
		for x.level[level].forward != nil {
			rank += x.level[level].span
			x = x.level[level].forward
			if got := sl.rankOf(x.customerID); got != rank {
				t.Fatalf("level %d: accumulated span rank %d != rankOf %d for customer %d", level, rank, got, x.customerID)
			}
		}
	}
}

func TestSkiplistRandomHeightWithinBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10000; i++ {
		h := randomHeight(rng)
		if h < 1 || h > maxLevel {
			t.Fatalf("randomHeight() = %d, out of [1,%d]", h, maxLevel)
		}
	}
}

func TestSkiplistFuzzInsertRemove(t *testing.T) {
	sl := newSkiplist()
	rng := rand.New(rand.NewSource(42))
	present := map[int64]Score{}

	for step := 0; step < 5000; step++ {
		id := int64(rng.Intn(200) + 1)
		if _, ok := present[id]; ok {
			if rng.Intn(2) == 0 {
				if _, err := sl.remove(id); err != nil {
					t.Fatalf("step %d: remove(%d): %v", step, id, err)
				}
				delete(present, id)
			} else {
				ns := sc(rng.Float64() * 1000)
				if err := sl.updateScore(id, ns); err != nil {
					t.Fatalf("step %d: updateScore(%d): %v", step, id, err)
				}
				present[id] = ns
			}
		} else {
			s := sc(rng.Float64() * 1000)
			if _, err := sl.insert(id, s); err != nil {
				t.Fatalf("step %d: insert(%d): %v", step, id, err)
			}
			present[id] = s
		}

		if int64(len(present)) != sl.count() {
			t.Fatalf("step %d: len(present)=%d sl.count()=%d", step, len(present), sl.count())
		}
	}

	type pair struct {
		id    int64
		score Score
	}
	sorted := make([]pair, 0, len(present))
	for id, s := range present {
		sorted = append(sorted, pair{id, s})
	}
	sort.Slice(sorted, func(i, j int) bool {
		return less(sorted[i].score, sorted[i].id, sorted[j].score, sorted[j].id)
	})

	all := sl.rangeByRank(1, sl.count())
	for i, e := range all {
		if e.CustomerID != sorted[i].id {
			t.Fatalf("rank %d mismatch: got %d, want %d", i+1, e.CustomerID, sorted[i].id)
		}
	}
}

func Example_skiplistNeighbors() {
	sl := newSkiplist()
	for id, s := range map[int64]float64{1: 10, 2: 20, 3: 20, 4: 5} {
		_, _ = sl.insert(id, sc(s))
	}
	for _, e := range sl.neighbors(1, 1, 1) {
		fmt.Println(e.CustomerID, e.Rank)
	}
}
