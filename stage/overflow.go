package stage

import (
	"slices"
	"strings"

	"github.com/kbukum/fusekit/errors"
)

// OverflowStrategy decides what a Buffer does with an element arriving
// while it is full.
type OverflowStrategy uint8

const (
	// DropHead evicts the oldest buffered element.
	DropHead OverflowStrategy = iota
	// DropTail evicts the newest buffered element.
	DropTail
	// DropBuffer discards the whole buffer.
	DropBuffer
	// Backpressure stops pulling upstream until a slot frees up.
	Backpressure
	// Error fails the stream with a buffer overflow.
	Error
)

var strategyNames = [...]string{
	DropHead:     "drop-head",
	DropTail:     "drop-tail",
	DropBuffer:   "drop-buffer",
	Backpressure: "backpressure",
	Error:        "error",
}

func (s OverflowStrategy) String() string {
	if int(s) < len(strategyNames) {
		return strategyNames[s]
	}
	return "unknown"
}

// OverflowStrategyNames lists the canonical names accepted by ParseOverflowStrategy.
func OverflowStrategyNames() []string {
	return slices.Clone(strategyNames[:])
}

// ParseOverflowStrategy parses a strategy name. Matching ignores case and
// the separators '-', '_' and ' ', so "drop-head", "DROP_HEAD" and "dropHead"
// are equivalent.
func ParseOverflowStrategy(name string) (OverflowStrategy, error) {
	key := normalizeStrategy(name)
	for i, canonical := range strategyNames {
		if normalizeStrategy(canonical) == key {
			return OverflowStrategy(i), nil
		}
	}
	return 0, errors.InvalidInput("overflow_strategy", "unknown overflow strategy "+name).
		WithDetail("allowed", OverflowStrategyNames())
}

func normalizeStrategy(s string) string {
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(strings.TrimSpace(s)))
}
