// Package ranking keeps entries ordered for top-N queries.
//
// Ordering: score DESC, then label ASC (deterministic). The tree uses a
// comparator where "less" means ranks earlier, so an in-order traversal
// yields the ranking from best to worst.
package ranking

import (
	"hash/fnv"
	"sync"
)

// Entry is one ranked item.
type Entry[T any] struct {
	Rank  int
	Label string
	Score int
	Value T
}

type node struct {
	label string
	score int
	prio  uint64
	left  *node
	right *node
	size  int
}

func nsize(n *node) int {
	if n == nil {
		return 0
	}
	return n.size
}

func fix(n *node) {
	if n != nil {
		n.size = 1 + nsize(n.left) + nsize(n.right)
	}
}

// less reports whether (aScore, aLabel) ranks before (bScore, bLabel).
func less(aScore int, aLabel string, bScore int, bLabel string) bool {
	if aScore != bScore {
		return aScore > bScore
	}
	return aLabel < bLabel
}

// priority hashes the label so the tree shape does not depend on insertion
// order or on score distribution.
func priority(label string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(label))
	return h.Sum64()
}

func rotateRight(y *node) *node {
	x := y.left
	y.left = x.right
	x.right = y
	fix(y)
	fix(x)
	return x
}

func rotateLeft(x *node) *node {
	y := x.right
	x.right = y.left
	y.left = x
	fix(x)
	fix(y)
	return y
}

func insert(n *node, label string, score int) *node {
	if n == nil {
		return &node{label: label, score: score, prio: priority(label), size: 1}
	}
	if less(score, label, n.score, n.label) {
		n.left = insert(n.left, label, score)
		if n.left.prio > n.prio {
			n = rotateRight(n)
		}
	} else {
		n.right = insert(n.right, label, score)
		if n.right.prio > n.prio {
			n = rotateLeft(n)
		}
	}
	fix(n)
	return n
}

func remove(n *node, label string, score int) *node {
	if n == nil {
		return nil
	}
	switch {
	case n.score == score && n.label == label:
		if n.left == nil {
			return n.right
		}
		if n.right == nil {
			return n.left
		}
		if n.left.prio > n.right.prio {
			n = rotateRight(n)
			n.right = remove(n.right, label, score)
		} else {
			n = rotateLeft(n)
			n.left = remove(n.left, label, score)
		}
	case less(score, label, n.score, n.label):
		n.left = remove(n.left, label, score)
	default:
		n.right = remove(n.right, label, score)
	}
	fix(n)
	return n
}

// rankOf counts the nodes ranking strictly before (score, label).
func rankOf(n *node, label string, score int) int {
	r := 0
	for n != nil {
		if less(score, label, n.score, n.label) {
			n = n.left
			continue
		}
		if n.score == score && n.label == label {
			return r + nsize(n.left)
		}
		r += nsize(n.left) + 1
		n = n.right
	}
	return r
}

func collect[T any](n *node, limit int, values map[string]item[T], out *[]Entry[T]) {
	if n == nil || len(*out) >= limit {
		return
	}
	collect(n.left, limit, values, out)
	if len(*out) < limit {
		*out = append(*out, Entry[T]{Rank: len(*out) + 1, Label: n.label, Score: n.score, Value: values[n.label].value})
	}
	if len(*out) < limit {
		collect(n.right, limit, values, out)
	}
}

type item[T any] struct {
	score int
	value T
}

// Board is an in-memory ranking. It is safe for concurrent use.
type Board[T any] struct {
	mu      sync.RWMutex
	root    *node
	byLabel map[string]item[T]
}

// NewBoard creates an empty Board.
func NewBoard[T any]() *Board[T] {
	return &Board[T]{byLabel: make(map[string]item[T])}
}

// Put inserts label or replaces its score and value in O(log n) expected time.
func (b *Board[T]) Put(label string, score int, value T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if old, ok := b.byLabel[label]; ok {
		b.root = remove(b.root, label, old.score)
	}
	b.byLabel[label] = item[T]{score: score, value: value}
	b.root = insert(b.root, label, score)
}

// Len returns the number of entries.
func (b *Board[T]) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byLabel)
}

// Rank returns the 1-based position of label.
func (b *Board[T]) Rank(label string) (int, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	it, ok := b.byLabel[label]
	if !ok {
		return 0, false
	}
	return rankOf(b.root, label, it.score) + 1, true
}

// TopN returns up to n entries in rank order. n larger than Len returns
// every entry.
func (b *Board[T]) TopN(n int) ([]Entry[T], error) {
	if n < 1 {
		return nil, ErrInvalidLimit
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if n > len(b.byLabel) {
		n = len(b.byLabel)
	}
	out := make([]Entry[T], 0, n)
	collect(b.root, n, b.byLabel, &out)
	return out, nil
}
