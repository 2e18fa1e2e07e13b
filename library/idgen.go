package library

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	bookIDPrefix   = "B"
	memberIDPrefix = "M"
)

// idGenerator hands out prefixed, zero-padded identifiers ("B001", "M042").
// The counter only moves forward within a session, so a removed entity's
// identifier is not handed out again before the next load.
type idGenerator struct {
	prefix  string
	counter int
}

func newIDGenerator(prefix string) idGenerator {
	return idGenerator{prefix: prefix, counter: 1}
}

func (g *idGenerator) format(n int) string {
	return fmt.Sprintf("%s%03d", g.prefix, n)
}

// next scans upward from the counter until taken reports a free identifier.
func (g *idGenerator) next(taken func(id string) bool) string {
	for {
		id := g.format(g.counter)
		g.counter++
		if !taken(id) {
			return id
		}
	}
}

// seed moves the counter past the largest numeric suffix among ids.
// Identifiers that do not carry the generator's prefix and a number are
// ignored, as are suffixes too large to step past.
func (g *idGenerator) seed(ids []string) {
	for _, id := range ids {
		n, ok := g.parse(id)
		if ok && n >= g.counter && n < math.MaxInt {
			g.counter = n + 1
		}
	}
}

func (g *idGenerator) parse(id string) (int, bool) {
	digits, ok := strings.CutPrefix(id, g.prefix)
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
