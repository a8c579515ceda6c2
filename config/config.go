package config

// Package config carries the runtime parameter surface of the trust layer.
// Values come from the defaults, then an optional JSON parameter file, then
// the environment, later sources winning.

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// Environment variable names.
const (
	EnvDimensions    = "AXIOMTRUST_DIMENSIONS"
	EnvSecurityLevel = "AXIOMTRUST_SECURITY_LEVEL"
	EnvScaleFactor   = "AXIOMTRUST_SCALE_FACTOR"
	EnvPrecision     = "AXIOMTRUST_PRECISION"
	EnvCacheSize     = "AXIOMTRUST_CACHE_SIZE"
)

// Params is the tunable surface shared by the proof and sharing engines.
type Params struct {
	// Dimensions is the state vector length proofs are encoded at.
	Dimensions int `json:"dimensions"`
	// SecurityLevel is the proof strength in bits; measurements per proof is
	// SecurityLevel/8.
	SecurityLevel int `json:"security_level"`
	// ScaleFactor converts real coordinates to fixed-point field elements.
	ScaleFactor int64 `json:"scale_factor"`
	// Precision is the decimal precision reconstructed coordinates round to.
	Precision int `json:"precision"`
	// CacheSize bounds the verification result cache.
	CacheSize int `json:"cache_size"`
}

// Default returns the stock parameter set.
func Default() Params {
	return Params{
		Dimensions:    8,
		SecurityLevel: 128,
		ScaleFactor:   100_000_000,
		Precision:     4,
		CacheSize:     1024,
	}
}

// FromEnv layers environment overrides onto the defaults and validates.
func FromEnv() (Params, error) {
	return Default().withEnv()
}

// LoadFile layers a JSON parameter file onto the defaults, then applies
// environment overrides and validates.
func LoadFile(path string) (Params, error) {
	p := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return p.withEnv()
}

func (p Params) withEnv() (Params, error) {
	var err error
	if p.Dimensions, err = intEnv(EnvDimensions, p.Dimensions); err != nil {
		return p, err
	}
	if p.SecurityLevel, err = intEnv(EnvSecurityLevel, p.SecurityLevel); err != nil {
		return p, err
	}
	if p.ScaleFactor, err = int64Env(EnvScaleFactor, p.ScaleFactor); err != nil {
		return p, err
	}
	if p.Precision, err = intEnv(EnvPrecision, p.Precision); err != nil {
		return p, err
	}
	if p.CacheSize, err = intEnv(EnvCacheSize, p.CacheSize); err != nil {
		return p, err
	}
	return p, p.Validate()
}

// Validate enforces the invariants the engines rely on.
func (p Params) Validate() error {
	if p.Dimensions <= 0 {
		return fmt.Errorf("config: dimensions must be positive, got %d", p.Dimensions)
	}
	if p.SecurityLevel <= 0 || p.SecurityLevel%8 != 0 {
		return fmt.Errorf("config: security level must be a positive multiple of 8, got %d", p.SecurityLevel)
	}
	if p.ScaleFactor <= 0 {
		return fmt.Errorf("config: scale factor must be positive, got %d", p.ScaleFactor)
	}
	if p.Precision < 0 {
		return fmt.Errorf("config: precision must be non-negative, got %d", p.Precision)
	}
	if p.CacheSize <= 0 {
		return fmt.Errorf("config: cache size must be positive, got %d", p.CacheSize)
	}
	return nil
}

func intEnv(name string, cur int) (int, error) {
	s, ok := os.LookupEnv(name)
	if !ok || s == "" {
		return cur, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return cur, fmt.Errorf("config: %s=%q: %w", name, s, err)
	}
	return v, nil
}

func int64Env(name string, cur int64) (int64, error) {
	s, ok := os.LookupEnv(name)
	if !ok || s == "" {
		return cur, nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return cur, fmt.Errorf("config: %s=%q: %w", name, s, err)
	}
	return v, nil
}
