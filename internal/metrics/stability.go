package metrics

// Bound is the fraction of samples in which the system is gravitationally
// bound (negative total energy).
type Bound struct {
	name    string
	bound   int
	samples int
}

func NewBound() *Bound {
	return &Bound{name: "bound"}
}

func (b *Bound) Name() string { return b.name }

func (b *Bound) Observe(s Sample) {
	b.samples++
	if s.Energy.Total < 0 {
		b.bound++
	}
}

func (b *Bound) Value() float64 {
	if b.samples == 0 {
		return 1.0
	}
	return float64(b.bound) / float64(b.samples)
}

func (b *Bound) Reset() {
	b.bound = 0
	b.samples = 0
}
