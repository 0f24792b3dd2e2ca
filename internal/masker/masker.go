package masker

import (
	cryptorand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/snmask/snmask/internal/logger"
)

const (
	digits = "0123456789"
	upper  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lower  = "abcdefghijklmnopqrstuvwxyz"
)

// Masker replaces pattern matches with random strings of identical length
// and per-position character class.
type Masker struct {
	rules []Rule
	rng   *rand.Rand
	log   *logger.Logger
}

// New creates a Masker with an unpredictable random source.
func New(rules []Rule, log *logger.Logger) *Masker {
	var seed [32]byte
	if _, err := cryptorand.Read(seed[:]); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return &Masker{
		rules: rules,
		rng:   rand.New(rand.NewChaCha8(seed)),
		log:   log,
	}
}

// NewSeeded creates a Masker with a fixed seed for reproducible output.
func NewSeeded(rules []Rule, seed uint64, log *logger.Logger) *Masker {
	var s [32]byte
	binary.LittleEndian.PutUint64(s[:8], seed)
	return &Masker{
		rules: rules,
		rng:   rand.New(rand.NewChaCha8(s)),
		log:   log,
	}
}

type span struct {
	start, end int
}

func (s span) overlaps(o span) bool {
	return s.start < o.end && o.start < s.end
}

// Mask applies every rule in order and replaces each non-overlapping match
// with a fresh random token of the same shape. A span replaced by an earlier
// rule is never re-matched by a later one. Text outside matched spans is
// returned byte for byte.
func (m *Masker) Mask(text string) Result {
	if text == "" {
		return Result{Output: text}
	}

	out := []byte(text)
	var replaced []span
	var findings []Finding

	for _, rule := range m.rules {
		locs := rule.Pattern.FindAllIndex(out, -1)
		count := 0

		for _, loc := range locs {
			s := span{start: loc[0], end: loc[1]}
			if overlapsAny(replaced, s) {
				continue
			}

			m.scramble(out[s.start:s.end])
			replaced = append(replaced, s)
			count++

			m.log.Debug("Masked match",
				zap.String("rule", rule.Name),
				zap.String("pattern", rule.Expr),
				zap.Int("offset", s.start),
				zap.Int("length", s.end-s.start),
			)
		}

		if count > 0 {
			findings = append(findings, Finding{Rule: rule.Name, Count: count})
		}
	}

	return Result{Output: string(out), Findings: findings}
}

// scramble rewrites b in place, drawing each byte from the character class
// of the original: digits stay digits, uppercase stays uppercase, lowercase
// stays lowercase. Delimiters and any other bytes pass through unchanged.
func (m *Masker) scramble(b []byte) {
	for i, c := range b {
		switch {
		case c >= '0' && c <= '9':
			b[i] = digits[m.rng.IntN(len(digits))]
		case c >= 'A' && c <= 'Z':
			b[i] = upper[m.rng.IntN(len(upper))]
		case c >= 'a' && c <= 'z':
			b[i] = lower[m.rng.IntN(len(lower))]
		}
	}
}

func overlapsAny(spans []span, s span) bool {
	for _, o := range spans {
		if o.overlaps(s) {
			return true
		}
	}
	return false
}
