// Package dice parses and rolls "NdM" dice expressions.
//
// An expression "NdM" is N independent uniform draws over [1, M], summed.
// Rolling goes through a Roller so callers can inject deterministic
// sources in tests.
package dice

import (
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
)

// ErrInvalidExpression is returned when a string is not a valid "NdM" expression.
var ErrInvalidExpression = errors.New("invalid dice expression")

// Expression is a parsed "NdM" dice expression.
type Expression struct {
	Count int
	Sides int
}

// Roller draws a single die result in [1, sides].
type Roller interface {
	Roll(sides int) int
}

// Parse parses an expression of the form "NdM" where N and M are at least 1.
func Parse(expr string) (Expression, error) {
	raw := strings.ToLower(strings.TrimSpace(expr))
	countStr, sidesStr, ok := strings.Cut(raw, "d")
	if !ok {
		return Expression{}, fmt.Errorf("%w: %q", ErrInvalidExpression, expr)
	}

	count, err := strconv.Atoi(countStr)
	if err != nil || count < 1 {
		return Expression{}, fmt.Errorf("%w: %q has bad dice count", ErrInvalidExpression, expr)
	}
	sides, err := strconv.Atoi(sidesStr)
	if err != nil || sides < 1 {
		return Expression{}, fmt.Errorf("%w: %q has bad side count", ErrInvalidExpression, expr)
	}

	return Expression{Count: count, Sides: sides}, nil
}

// MustParse is like Parse but panics on error. Intended for literals in tests.
func MustParse(expr string) Expression {
	e, err := Parse(expr)
	if err != nil {
		panic(err)
	}
	return e
}

// Roll sums Count draws from r. The result is always in [Min(), Max()].
func (e Expression) Roll(r Roller) int {
	total := 0
	for i := 0; i < e.Count; i++ {
		total += r.Roll(e.Sides)
	}
	return total
}

// Min is the smallest possible roll.
func (e Expression) Min() int { return e.Count }

// Max is the largest possible roll.
func (e Expression) Max() int { return e.Count * e.Sides }

func (e Expression) String() string {
	return fmt.Sprintf("%dd%d", e.Count, e.Sides)
}

// RandRoller is a Roller backed by math/rand. It is safe for concurrent use.
type RandRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRoller creates a RandRoller seeded with seed. The same seed always
// produces the same sequence of rolls.
func NewRoller(seed int64) *RandRoller {
	return &RandRoller{rng: rand.New(rand.NewSource(seed))}
}

// Roll returns a uniform draw in [1, sides].
func (r *RandRoller) Roll(sides int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.Intn(sides) + 1
}

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}
	return int64(binary.LittleEndian.Uint64(b[:])), nil
}
