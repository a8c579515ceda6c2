package qzkp

import (
	"fmt"
	"io"
	"math"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/tuneinsight/lattigo/v4/utils"
	"go.uber.org/zap"

	"axiom-trust/pqc"
)

// normTolerance bounds |sum of squared magnitudes - 1| for an accepted proof.
const normTolerance = 1e-5

// Config carries the engine parameters.
type Config struct {
	// Dimensions is the encoded state length.
	Dimensions int
	// SecurityLevel is the proof strength in bits; proofs carry
	// SecurityLevel/8 measurements.
	SecurityLevel int
	// CacheSize bounds the verification result cache. Zero selects 1024.
	CacheSize int
}

// DefaultConfig returns the stock engine parameters.
func DefaultConfig() Config {
	return Config{Dimensions: 8, SecurityLevel: 128, CacheSize: 1024}
}

// Engine produces and verifies vector-knowledge proofs. Each engine owns its
// signing keypair, randomness source and result cache; there is no shared
// state between engines.
type Engine struct {
	dimensions    int
	securityLevel int

	signer *pqc.Signer
	prng   io.Reader
	log    *zap.Logger
	met    *metrics

	mu     sync.Mutex
	cache  *resultCache
	hits   atomic.Uint64
	misses atomic.Uint64
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

// WithPRNG injects the randomness source used for measurement sampling. The
// engine serializes reads, so a deterministic keyed source is safe to inject.
func WithPRNG(r io.Reader) Option {
	return func(e *Engine) error {
		if r == nil {
			return fmt.Errorf("%w: nil prng", ErrConfiguration)
		}
		e.prng = r
		return nil
	}
}

// WithSigner installs a pre-generated signing keypair.
func WithSigner(s *pqc.Signer) Option {
	return func(e *Engine) error {
		if s == nil {
			return fmt.Errorf("%w: nil signer", ErrConfiguration)
		}
		e.signer = s
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
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("%w: dimensions must be positive, got %d", ErrConfiguration, cfg.Dimensions)
	}
	if cfg.SecurityLevel <= 0 || cfg.SecurityLevel%8 != 0 {
		return nil, fmt.Errorf("%w: security level must be a positive multiple of 8, got %d", ErrConfiguration, cfg.SecurityLevel)
	}
	if cfg.CacheSize < 0 {
		return nil, fmt.Errorf("%w: cache size must be positive, got %d", ErrConfiguration, cfg.CacheSize)
	}
	if cfg.CacheSize == 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	e := &Engine{
		dimensions:    cfg.Dimensions,
		securityLevel: cfg.SecurityLevel,
		log:           zap.NewNop(),
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
	if e.prng == nil {
		prng, err := utils.NewPRNG()
		if err != nil {
			return nil, fmt.Errorf("qzkp: prng: %w", err)
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
	cache, err := newResultCache(cfg.CacheSize)
	if err != nil {
		return nil, err
	}
	e.cache = cache
	return e, nil
}

// Dimensions returns the encoded state length.
func (e *Engine) Dimensions() int { return e.dimensions }

// SecurityLevel returns the proof strength in bits.
func (e *Engine) SecurityLevel() int { return e.securityLevel }

// VerifyKey returns the public half of the engine's signing keypair.
func (e *Engine) VerifyKey() pqc.VerifyKey { return e.signer.Public() }

// EncodeState fits vector to the engine dimension and normalizes it with zero
// phase.
func (e *Engine) EncodeState(vector []float64) (*StateVector, error) {
	return encodeState(vector, e.dimensions)
}

// SampleMeasurements draws the engine's per-proof measurement count from
// state.
func (e *Engine) SampleMeasurements(state *StateVector) ([]Measurement, error) {
	if state == nil || len(state.Coordinates) != e.dimensions {
		return nil, fmt.Errorf("%w: state does not match engine dimensions", ErrInvalidInput)
	}
	return sampleMeasurements(state, e.securityLevel/8, e.prng)
}

// ProveVectorKnowledge encodes vector, commits it to identifier and returns
// the commitment together with the signed measurement transcript.
func (e *Engine) ProveVectorKnowledge(vector []float64, identifier string) (Commitment, *Proof, error) {
	state, err := e.EncodeState(vector)
	if err != nil {
		return Commitment{}, nil, err
	}
	commitment := Commit(state, identifier)
	measurements, err := e.SampleMeasurements(state)
	if err != nil {
		return Commitment{}, nil, err
	}
	proof := &Proof{
		Dimensions:        e.dimensions,
		BasisCoefficients: state.Coordinates,
		Measurements:      measurements,
		Metadata:          Metadata{Coherence: state.Coherence, Entanglement: state.Entropy},
		Identifier:        identifier,
	}
	msg, err := proof.signedMessage(commitment)
	if err != nil {
		return Commitment{}, nil, err
	}
	proof.Signature = e.signer.Sign(msg)
	e.met.proofsGenerated.Inc()
	e.log.Debug("proof generated",
		zap.String("identifier", identifier),
		zap.Int("measurements", len(measurements)),
		zap.Stringer("adjustment", state.Adjustment))
	return commitment, proof, nil
}

// VerifyProof checks proof against commitment and identifier and returns only
// the verdict. Malformed input of any kind is a false verdict, never a panic.
func (e *Engine) VerifyProof(commitment Commitment, proof *Proof, identifier string) bool {
	ok, _ := e.VerifyProofReport(commitment, proof, identifier)
	return ok
}

// VerifyProofReport is VerifyProof plus the sentinel classifying a rejection.
// Checks run in a fixed order and stop at the first failure: structure,
// declared dimensions, identifier, signature, normalization, measurement
// ranges.
func (e *Engine) VerifyProofReport(commitment Commitment, proof *Proof, identifier string) (bool, error) {
	res := e.verify(commitment, proof, identifier)
	e.met.verdict(res.ok)
	if res.reason != nil {
		e.log.Debug("proof rejected", zap.String("identifier", identifier), zap.Error(res.reason))
	}
	return res.ok, res.reason
}

func (e *Engine) verify(commitment Commitment, proof *Proof, identifier string) (res result) {
	defer func() {
		if r := recover(); r != nil {
			res = result{ok: false, reason: fmt.Errorf("%w: internal fault: %v", ErrStructural, r)}
		}
	}()
	if err := e.checkShape(proof); err != nil {
		return result{ok: false, reason: err}
	}
	if proof.Dimensions != e.dimensions {
		return result{ok: false, reason: fmt.Errorf("%w: declared dimensions %d, engine uses %d",
			ErrStructural, proof.Dimensions, e.dimensions)}
	}
	if proof.Identifier != identifier {
		return result{ok: false, reason: fmt.Errorf("%w: proof bound to %q", ErrIdentifierMismatch, proof.Identifier)}
	}
	body, err := proof.CanonicalBody()
	if err != nil {
		return result{ok: false, reason: fmt.Errorf("%w: %v", ErrStructural, err)}
	}
	key := cacheKey(body, proof.Signature, identifier, commitment)
	e.mu.Lock()
	cached, hit := e.cache.get(key)
	e.mu.Unlock()
	if hit {
		e.hits.Add(1)
		e.met.cacheHits.Inc()
		return cached
	}
	e.misses.Add(1)
	e.met.cacheMisses.Inc()

	res = e.checkSigned(body, commitment, proof)
	e.mu.Lock()
	e.cache.add(key, res)
	e.mu.Unlock()
	return res
}

// checkShape is the structural completeness check: all required fields
// present and the counts internally consistent.
func (e *Engine) checkShape(p *Proof) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: nil proof", ErrStructural)
	case p.Identifier == "":
		return fmt.Errorf("%w: missing identifier", ErrStructural)
	case len(p.BasisCoefficients) == 0:
		return fmt.Errorf("%w: missing basis coefficients", ErrStructural)
	case len(p.Measurements) == 0:
		return fmt.Errorf("%w: missing measurements", ErrStructural)
	case len(p.Signature) == 0:
		return fmt.Errorf("%w: missing signature", ErrStructural)
	case len(p.BasisCoefficients) != p.Dimensions:
		return fmt.Errorf("%w: %d coefficients for %d declared dimensions",
			ErrStructural, len(p.BasisCoefficients), p.Dimensions)
	case len(p.Measurements) != e.securityLevel/8:
		return fmt.Errorf("%w: %d measurements, want %d",
			ErrStructural, len(p.Measurements), e.securityLevel/8)
	}
	return nil
}

// checkSigned runs the cryptographic and numeric checks over the canonical
// body.
func (e *Engine) checkSigned(body []byte, commitment Commitment, p *Proof) result {
	msg := make([]byte, 0, len(body)+len(commitment))
	msg = append(msg, body...)
	msg = append(msg, commitment[:]...)
	if !e.signer.Public().Verify(msg, p.Signature) {
		return result{ok: false, reason: ErrSignature}
	}
	sum := 0.0
	for _, c := range p.BasisCoefficients {
		sum += real(c)*real(c) + imag(c)*imag(c)
	}
	if math.Abs(sum-1) > normTolerance {
		return result{ok: false, reason: fmt.Errorf("%w: squared norm %g", ErrNormalization, sum)}
	}
	for i, m := range p.Measurements {
		if m.Probability < 0 || m.Probability > 1 {
			return result{ok: false, reason: fmt.Errorf("%w: measurement %d probability %g",
				ErrMeasurementRange, i, m.Probability)}
		}
		if m.Phase < -math.Pi || m.Phase > math.Pi {
			return result{ok: false, reason: fmt.Errorf("%w: measurement %d phase %g",
				ErrMeasurementRange, i, m.Phase)}
		}
	}
	return result{ok: true}
}

// CacheStats reports result cache hits and misses since construction.
func (e *Engine) CacheStats() (hits, misses uint64) {
	return e.hits.Load(), e.misses.Load()
}

// CacheLen reports the number of cached verification results.
func (e *Engine) CacheLen() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache.len()
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
