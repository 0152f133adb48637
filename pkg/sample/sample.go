package sample

// Sample is one parsed reading stamped with seconds since the monitor started.
type Sample struct {
	Elapsed float64 `json:"elapsed"`
	Value   float64 `json:"value"`
}

// Buffer keeps the most recent samples in a fixed-capacity ring.
// Insertion order is time order; the oldest sample is evicted on overflow.
type Buffer struct {
	samples []Sample
	start   int
	count   int
}

func NewBuffer(capacity int) *Buffer {
	if capacity < 1 {
		capacity = 1
	}
	return &Buffer{samples: make([]Sample, capacity)}
}

func (b *Buffer) Cap() int { return len(b.samples) }

func (b *Buffer) Len() int { return b.count }

func (b *Buffer) Append(elapsed, value float64) {
	idx := (b.start + b.count) % len(b.samples)
	b.samples[idx] = Sample{Elapsed: elapsed, Value: value}
	if b.count < len(b.samples) {
		b.count++
		return
	}
	b.start = (b.start + 1) % len(b.samples)
}

func (b *Buffer) Latest() (Sample, bool) {
	if b.count == 0 {
		return Sample{}, false
	}
	return b.samples[(b.start+b.count-1)%len(b.samples)], true
}

// Recent returns a copy of the last n samples in ascending time order,
// or fewer when the buffer holds less than n.
func (b *Buffer) Recent(n int) []Sample {
	if n > b.count {
		n = b.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]Sample, n)
	first := b.start + b.count - n
	for i := range out {
		out[i] = b.samples[(first+i)%len(b.samples)]
	}
	return out
}
