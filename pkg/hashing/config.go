package hashing

import (
	"fmt"
	"math"
)

const (
	// DefaultEpsilon is the multiplicative factor of the number of
	// elements used to size the bin array.
	DefaultEpsilon = 1.2
	// DefaultNumHashFunctions is the number of candidate bins per element.
	DefaultNumHashFunctions = 2
	// DefaultNumLUTs is the number of lookup tables combined per hash function.
	DefaultNumLUTs = 10
	// DefaultNumTablesInLUT bounds the index derived from an element byte.
	DefaultNumTablesInLUT = 32
	// DefaultLUTAddresses is the number of entries in each lookup table.
	DefaultLUTAddresses = 10
	// DefaultElementByteLength is the width of an element, a uint64.
	DefaultElementByteLength = 8
	// DefaultMaxEvictions is the maximum number of evictions in a single
	// insertion chain. Each eviction kicks off one element, replaces it with
	// the element being inserted and reinserts the evicted one.
	DefaultMaxEvictions = 200

	// MaxHashFunctions keeps a hash function index in a byte, with
	// one value reserved for the stash.
	MaxHashFunctions = math.MaxUint8 - 1
)

// Config holds the parameters shared by every table strategy.
// Epsilon takes precedence over NumBins when both are set.
type Config struct {
	Epsilon           float64
	NumBins           uint64
	Seed              uint64
	NumHashFunctions  int
	NumLUTs           int
	NumTablesInLUT    int
	LUTAddresses      int
	ElementByteLength int
	MaxEvictions      int
	Workers           int
}

// Option configures a table.
type Option func(*Config)

// DefaultConfig returns the configuration tuned for 64-bit elements.
func DefaultConfig() Config {
	return Config{
		Epsilon:           DefaultEpsilon,
		NumHashFunctions:  DefaultNumHashFunctions,
		NumLUTs:           DefaultNumLUTs,
		NumTablesInLUT:    DefaultNumTablesInLUT,
		LUTAddresses:      DefaultLUTAddresses,
		ElementByteLength: DefaultElementByteLength,
		MaxEvictions:      DefaultMaxEvictions,
		Workers:           1,
	}
}

// NewConfig applies opts to the default configuration and validates it.
func NewConfig(opts ...Option) (Config, error) {
	c := DefaultConfig()
	for _, opt := range opts {
		opt(&c)
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}

	return c, nil
}

// WithEpsilon sizes the bin array as ceil(epsilon * number of elements).
func WithEpsilon(epsilon float64) Option {
	return func(c *Config) {
		c.Epsilon = epsilon
		c.NumBins = 0
	}
}

// WithNumBins sets an explicit number of bins.
func WithNumBins(n uint64) Option {
	return func(c *Config) {
		c.Epsilon = 0
		c.NumBins = n
	}
}

// WithSeed sets the seed of the lookup table generator.
func WithSeed(seed uint64) Option {
	return func(c *Config) {
		c.Seed = seed
	}
}

// WithLUTs sets the lookup table geometry: the number of hash functions,
// the number of LUTs per hash function, the number of tables an element
// byte can select and the number of entries per LUT.
func WithLUTs(hashFunctions, luts, tablesInLUT, addresses int) Option {
	return func(c *Config) {
		c.NumHashFunctions = hashFunctions
		c.NumLUTs = luts
		c.NumTablesInLUT = tablesInLUT
		c.LUTAddresses = addresses
	}
}

// WithNumHashFunctions sets the number of candidate bins per element.
func WithNumHashFunctions(n int) Option {
	return func(c *Config) {
		c.NumHashFunctions = n
	}
}

// WithElementByteLength sets the width of the elements.
func WithElementByteLength(n int) Option {
	return func(c *Config) {
		c.ElementByteLength = n
	}
}

// WithMaxEvictions bounds the length of an eviction chain.
func WithMaxEvictions(n int) Option {
	return func(c *Config) {
		c.MaxEvictions = n
	}
}

// WithWorkers sets the number of goroutines computing candidate
// addresses during Finalize. Bins are always written by a single goroutine.
func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

// Validate checks the configuration. Every failure wraps ErrConfiguration.
func (c Config) Validate() error {
	switch {
	case c.NumBins == 0 && c.Epsilon == 0:
		return fmt.Errorf("either the number of bins or epsilon must be set: %w", ErrConfiguration)
	case c.Epsilon < 0 || math.IsNaN(c.Epsilon) || math.IsInf(c.Epsilon, 0):
		return fmt.Errorf("epsilon must be a finite non-negative number, got %v: %w", c.Epsilon, ErrConfiguration)
	}

	if err := ValidateLUTs(c.NumHashFunctions, c.NumLUTs, c.LUTAddresses); err != nil {
		return err
	}

	switch {
	case c.NumHashFunctions > MaxHashFunctions:
		return fmt.Errorf("at most %d hash functions are supported, got %d: %w", MaxHashFunctions, c.NumHashFunctions, ErrConfiguration)
	case c.NumTablesInLUT <= 0:
		return fmt.Errorf("number of tables in LUT must be positive, got %d: %w", c.NumTablesInLUT, ErrConfiguration)
	case c.ElementByteLength <= 0:
		return fmt.Errorf("element byte length must be positive, got %d: %w", c.ElementByteLength, ErrConfiguration)
	case c.MaxEvictions < 0:
		return fmt.Errorf("maximum evictions cannot be negative, got %d: %w", c.MaxEvictions, ErrConfiguration)
	case c.Workers < 0:
		return fmt.Errorf("workers cannot be negative, got %d: %w", c.Workers, ErrConfiguration)
	}

	return nil
}

// ValidateLUTs checks the dimensions of a lookup table bank.
func ValidateLUTs(hashFunctions, luts, addresses int) error {
	if hashFunctions <= 0 || luts <= 0 || addresses <= 0 {
		return fmt.Errorf("LUT dimensions must be positive, got %dx%dx%d: %w", hashFunctions, luts, addresses, ErrConfiguration)
	}

	return nil
}

// BinCount returns the number of bins needed to map n elements:
// ceil(epsilon * n) when epsilon is set, NumBins otherwise. The result
// is at least 1.
func (c Config) BinCount(n int) (uint64, error) {
	if err := c.Validate(); err != nil {
		return 0, err
	}

	if c.Epsilon > 0 {
		return max(1, uint64(math.Ceil(c.Epsilon*float64(n)))), nil
	}

	return c.NumBins, nil
}

func max(a, b uint64) uint64 {
	if a > b {
		return a
	}

	return b
}
