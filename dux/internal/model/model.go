package model

import "fmt"

// Config sizes the workers behind a store.
type Config struct {
	BufferSize int // default: 1
	NumWorkers int // default: 1
}

// NewConfig normalizes non-positive values to 1.
func NewConfig(bufferSize int, numWorkers int) Config {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	if numWorkers <= 0 {
		numWorkers = 1
	}
	return Config{
		BufferSize: bufferSize,
		NumWorkers: numWorkers,
	}
}

// Partitionable messages are routed to a worker by their partition key,
// so messages sharing a key are handled in order by one goroutine.
type Partitionable interface {
	PartitionKey() string
}

var ErrHandlerClosed = fmt.Errorf("handler closed")
