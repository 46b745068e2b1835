package event

import "github.com/tesseraos/tessera/internal/logging"

// DefaultPoolSize is the number of subscription slots a bus holds.
const DefaultPoolSize = 256

// Option configures a Bus.
type Option func(*Bus)

// WithPoolSize overrides the subscription pool capacity. Sizes below
// one are ignored.
func WithPoolSize(size int) Option {
	return func(b *Bus) {
		if size > 0 {
			b.poolSize = size
		}
	}
}

// WithLogger sets the bus logger.
func WithLogger(log *logging.Logger) Option {
	return func(b *Bus) {
		if log != nil {
			b.log = log
		}
	}
}
