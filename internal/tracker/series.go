package tracker

// SeriesCapacity is the number of most recent samples kept per series.
const SeriesCapacity = 10

// SeriesBuffer is a FIFO window over the last SeriesCapacity samples.
type SeriesBuffer struct {
	samples []Number
}

// NewSeriesBuffer returns an empty buffer.
func NewSeriesBuffer() *SeriesBuffer {
	return &SeriesBuffer{samples: make([]Number, 0, SeriesCapacity+1)}
}

// Append adds v at the end, evicting the oldest sample once the buffer is full.
func (b *SeriesBuffer) Append(v Number) {
	b.samples = append(b.samples, v)
	if len(b.samples) > SeriesCapacity {
		copy(b.samples, b.samples[len(b.samples)-SeriesCapacity:])
		b.samples = b.samples[:SeriesCapacity]
	}
}

// Values returns a copy of the samples, oldest first.
func (b *SeriesBuffer) Values() []Number {
	out := make([]Number, len(b.samples))
	copy(out, b.samples)
	return out
}

func (b *SeriesBuffer) Len() int {
	return len(b.samples)
}
