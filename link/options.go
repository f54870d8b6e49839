package link

// DefaultBufferSize is the capacity of the first LinkAsString attempt.
const DefaultBufferSize = 256

// Options configures link behavior.
type Options struct {
	// BufferSize is the capacity of the first serialization attempt. Longer
	// URIs cost one more native call. Non-positive means DefaultBufferSize.
	BufferSize int
}

// DefaultOptions returns default link configuration.
func DefaultOptions() Options {
	return Options{
		BufferSize: DefaultBufferSize,
	}
}

func (o Options) normalize() Options {
	if o.BufferSize <= 0 {
		o.BufferSize = DefaultBufferSize
	}
	return o
}
