package serialize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/llsd/internal/options"
)

// formatterConfig holds the small mutable configuration shared by the
// notation and XML formatters. It persists across Format calls on the
// same formatter instance.
type formatterConfig struct {
	realFormat string // fmt verb for reals, e.g. "%.2f"; empty means full precision
	boolAlpha  bool   // spell booleans as words instead of 1/0
}

// Option configures a formatter at construction time.
type Option = options.Option[*formatterConfig]

// WithRealFormat sets the fmt verb used to render Real values, e.g.
// "%.2f". An empty format restores full-precision rendering.
func WithRealFormat(format string) Option {
	return options.New(func(cfg *formatterConfig) error {
		if format != "" && !strings.ContainsRune(format, '%') {
			return fmt.Errorf("real format %q has no fmt verb", format)
		}
		cfg.realFormat = format

		return nil
	})
}

// WithBoolAlpha selects word spellings ("true"/"false") for Boolean
// values instead of the default "1"/"0".
func WithBoolAlpha(enabled bool) Option {
	return options.NoError(func(cfg *formatterConfig) {
		cfg.boolAlpha = enabled
	})
}

// formatReal renders a Real payload under the configured format string,
// defaulting to the shortest representation that round-trips.
func (cfg *formatterConfig) formatReal(f float64) string {
	if cfg.realFormat == "" {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}

	return fmt.Sprintf(cfg.realFormat, f)
}

// formatBool renders a Boolean payload under the configured spelling.
func (cfg *formatterConfig) formatBool(b bool) string {
	if cfg.boolAlpha {
		if b {
			return "true"
		}

		return "false"
	}
	if b {
		return "1"
	}

	return "0"
}
