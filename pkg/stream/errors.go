package stream

import "github.com/pkg/errors"

var (
	// ErrAlreadyConsumed is returned when a terminal operation, or a
	// strategy change, is invoked on a stream that has already been
	// evaluated.
	ErrAlreadyConsumed = errors.New("stream already consumed")

	// ErrNilPool is returned when a parallel configuration is built
	// without a worker pool.
	ErrNilPool = errors.New("pool must be set")

	// ErrChunkSize is returned when a parallel configuration requests a
	// chunk size smaller than 1.
	ErrChunkSize = errors.New("chunk size must be greater than or equal to 1")
)
