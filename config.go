package ropc

// HygieneMode selects how the macro expander mints unique suffixes
// for `&_TOKEN_&` hygienic identifiers.
type HygieneMode string

const (
	// HygieneCounter assigns each distinct TOKEN an 8-hex-digit
	// monotonic counter value, per expansion. Deterministic, so it's
	// the default: spec.md §9 prefers this for reproducible tests.
	HygieneCounter HygieneMode = "counter"

	// HygieneUUID mints a random 8-hex-digit suffix per TOKEN, per
	// expansion, via google/uuid — this is what
	// original_source/public/compiler.py does with uuid.uuid4()[:8].
	HygieneUUID HygieneMode = "uuid"
)

// Config carries the small, fixed set of knobs this compiler exposes.
// Unlike the teacher's stringly-keyed map[string]*cfgVal (built for an
// open-ended, ever-growing set of grammar-transformation toggles),
// this compiler has a handful of well-known settings, so a concrete
// struct is the idiomatic fit — no generality is bought by a dynamic
// config map here.
type Config struct {
	// MaxExpansionIterations bounds the per-block fixed-point loop in
	// the macro expander (spec.md §4.4). Exceeding it is
	// ErrExpansionDiverged.
	MaxExpansionIterations int

	// MaxTotalIterations bounds the total number of parser
	// invocations across one Compile call (spec.md §5's cooperative
	// budget). Exceeding it is ErrBudgetExceeded.
	MaxTotalIterations int

	// HygieneMode selects the hygienic-identifier suffix strategy.
	HygieneMode HygieneMode
}

// NewDefaultConfig mirrors the teacher's NewConfig constructor-with-
// defaults pattern.
func NewDefaultConfig() Config {
	return Config{
		MaxExpansionIterations: 64,
		MaxTotalIterations:     100000,
		HygieneMode:            HygieneCounter,
	}
}
