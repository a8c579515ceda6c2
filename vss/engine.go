package vss

import (
	"fmt"
	"io"
	"math"
	"sync"

	"github.com/cloudflare/circl/kem"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tuneinsight/lattigo/v4/utils"
	"go.uber.org/zap"

	"axiom-trust/internal/gf127"
	"axiom-trust/pqc"
)

// Config carries the engine parameters.
type Config struct {
	// ScaleFactor converts real coordinates to fixed-point field elements.
	ScaleFactor int64
	// Precision is the number of decimal places reconstruction rounds to.
	Precision int
	// Threshold is the reconstruction quorum used when a call does not name
	// one.
	Threshold int
}

// DefaultConfig returns the stock engine parameters.
func DefaultConfig() Config {
	return Config{ScaleFactor: 100_000_000, Precision: 4, Threshold: 3}
}

// Engine splits real-valued secrets into protected shares and reconstructs
// them. Each engine owns a signing keypair for share integrity and an
// encapsulation keypair for shares it holds itself.
type Engine struct {
	scale     int64
	precision int
	threshold int

	signer  *pqc.Signer
	kemPair *pqc.KEMKeyPair
	holders []kem.PublicKey
	prng    io.Reader
	log     *zap.Logger
	met     *metrics
}

// Option customizes an Engine at construction.
type Option func(*Engine) error

// WithLogger replaces the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) error {
		if l == nil {
			return fmt.Errorf("%w: nil logger", ErrConfiguration)
		}
		e.log = l
		return nil
	}
}

// WithPRNG injects the randomness source used for polynomial coefficients.
// The engine serializes reads, so a deterministic keyed source is safe to
// inject.
func WithPRNG(r io.Reader) Option {
	return func(e *Engine) error {
		if r == nil {
			return fmt.Errorf("%w: nil prng", ErrConfiguration)
		}
		e.prng = r
		return nil
	}
}

// WithSigner installs a pre-generated share-signing keypair.
func WithSigner(s *pqc.Signer) Option {
	return func(e *Engine) error {
		if s == nil {
			return fmt.Errorf("%w: nil signer", ErrConfiguration)
		}
		e.signer = s
		return nil
	}
}

// WithKEMKeyPair installs a pre-generated encapsulation keypair for the
// shares this engine keeps in self-custody.
func WithKEMKeyPair(k *pqc.KEMKeyPair) Option {
	return func(e *Engine) error {
		if k == nil {
			return fmt.Errorf("%w: nil kem keypair", ErrConfiguration)
		}
		e.kemPair = k
		return nil
	}
}

// WithHolderKeys sets the share roster: share i is encapsulated to keys[i].
// Without a roster every share is encapsulated to the engine's own key.
func WithHolderKeys(keys []kem.PublicKey) Option {
	return func(e *Engine) error {
		if len(keys) == 0 {
			return fmt.Errorf("%w: empty holder roster", ErrConfiguration)
		}
		for i, k := range keys {
			if k == nil {
				return fmt.Errorf("%w: nil holder key at %d", ErrConfiguration, i)
			}
		}
		e.holders = keys
		return nil
	}
}

// WithRegisterer exports the engine's metrics through reg.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(e *Engine) error {
		m, err := newMetrics(reg)
		if err != nil {
			return err
		}
		e.met = m
		return nil
	}
}

// New validates cfg and assembles an engine.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if cfg.ScaleFactor <= 0 {
		return nil, fmt.Errorf("%w: scale factor must be positive, got %d", ErrConfiguration, cfg.ScaleFactor)
	}
	if cfg.Precision < 0 {
		return nil, fmt.Errorf("%w: precision must not be negative, got %d", ErrConfiguration, cfg.Precision)
	}
	if cfg.Threshold < 2 {
		return nil, fmt.Errorf("%w: threshold must be at least 2, got %d", ErrConfiguration, cfg.Threshold)
	}
	e := &Engine{
		scale:     cfg.ScaleFactor,
		precision: cfg.Precision,
		threshold: cfg.Threshold,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	if e.signer == nil {
		s, err := pqc.NewSigner(nil)
		if err != nil {
			return nil, err
		}
		e.signer = s
	}
	if e.kemPair == nil {
		k, err := pqc.NewKEMKeyPair(nil)
		if err != nil {
			return nil, err
		}
		e.kemPair = k
	}
	if e.prng == nil {
		prng, err := utils.NewPRNG()
		if err != nil {
			return nil, fmt.Errorf("vss: prng: %w", err)
		}
		e.prng = prng
	}
	e.prng = &lockedReader{r: e.prng}
	if e.met == nil {
		m, err := newMetrics(nil)
		if err != nil {
			return nil, err
		}
		e.met = m
	}
	return e, nil
}

// Threshold returns the default reconstruction quorum.
func (e *Engine) Threshold() int { return e.threshold }

// IssuerKey returns the public half of the share-signing keypair.
func (e *Engine) IssuerKey() pqc.VerifyKey { return e.signer.Public() }

// HolderKey returns the engine's own encapsulation key.
func (e *Engine) HolderKey() kem.PublicKey { return e.kemPair.Public() }

// SplitSecret shares every coordinate of vector as a degree threshold-1
// polynomial evaluated at x = 1..total. The result is one share group per
// coordinate, each group holding total protected shares in index order.
func (e *Engine) SplitSecret(vector []float64, threshold, total int) ([][]Share, error) {
	if threshold < 2 {
		return nil, fmt.Errorf("%w: threshold must be at least 2, got %d", ErrConfiguration, threshold)
	}
	if total < threshold {
		return nil, fmt.Errorf("%w: %d shares cannot meet threshold %d", ErrConfiguration, total, threshold)
	}
	if len(vector) == 0 {
		return nil, fmt.Errorf("%w: empty secret vector", ErrInvalidInput)
	}
	holders := e.holders
	if holders == nil {
		holders = make([]kem.PublicKey, total)
		for i := range holders {
			holders[i] = e.kemPair.Public()
		}
	} else if len(holders) != total {
		return nil, fmt.Errorf("%w: %d holder keys for %d shares", ErrConfiguration, len(holders), total)
	}
	out := make([][]Share, len(vector))
	for i, v := range vector {
		y0, err := gf127.EncodeFixed(v, e.scale)
		if err != nil {
			return nil, fmt.Errorf("%w: coordinate %d: %v", ErrInvalidInput, i, err)
		}
		points, err := splitValue(y0, threshold, total, e.prng)
		if err != nil {
			return nil, err
		}
		group := make([]Share, total)
		for j, p := range points {
			s, err := EncodeShare(p.X, p.Y, holders[j], e.signer)
			if err != nil {
				return nil, err
			}
			group[j] = s
		}
		out[i] = group
	}
	e.met.sharesIssued.Add(float64(len(vector) * total))
	e.log.Debug("secret split",
		zap.Int("coordinates", len(vector)),
		zap.Int("threshold", threshold),
		zap.Int("shares", total))
	return out, nil
}

// ReconstructSecret reverses SplitSecret from one share group per coordinate.
// Every share's signature is verified against issuerKey before decryption; a
// single bad share fails the whole reconstruction. A threshold of zero or
// less selects the engine default.
func (e *Engine) ReconstructSecret(shares [][]Share, threshold int, issuerKey pqc.VerifyKey) (vec []float64, err error) {
	defer func() { e.met.outcome(err) }()
	if threshold <= 0 {
		threshold = e.threshold
	}
	if len(shares) == 0 {
		return nil, fmt.Errorf("%w: no share groups", ErrInvalidInput)
	}
	out := make([]float64, len(shares))
	for i, group := range shares {
		if len(group) < threshold {
			return nil, fmt.Errorf("%w: coordinate %d has %d shares, need %d",
				ErrInsufficientShares, i, len(group), threshold)
		}
		points := make([]Point, len(group))
		for j, s := range group {
			p, err := DecodeShare(s, e.kemPair, issuerKey)
			if err != nil {
				return nil, err
			}
			points[j] = p
		}
		y, err := interpolate(points)
		if err != nil {
			return nil, err
		}
		out[i] = roundTo(gf127.DecodeFixed(y, e.scale), e.precision)
	}
	e.log.Debug("secret reconstructed", zap.Int("coordinates", len(out)))
	return out, nil
}

// roundTo rounds v to prec decimal places.
func roundTo(v float64, prec int) float64 {
	p := math.Pow10(prec)
	return math.Round(v*p) / p
}

// lockedReader serializes reads of a shared randomness source.
type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}
