package body

import "github.com/go-gl/mathgl/mgl64"

// Trail is a fixed-capacity FIFO of positions. When full, pushing evicts
// the oldest entry.
type Trail struct {
	buf   []mgl64.Vec3
	head  int
	count int
}

func NewTrail(capacity int) *Trail {
	if capacity < 1 {
		capacity = 1
	}
	return &Trail{buf: make([]mgl64.Vec3, capacity)}
}

func (t *Trail) Push(p mgl64.Vec3) {
	t.buf[(t.head+t.count)%len(t.buf)] = p
	if t.count < len(t.buf) {
		t.count++
		return
	}
	t.head = (t.head + 1) % len(t.buf)
}

func (t *Trail) Len() int { return t.count }

// Last returns a copy of the most recent n points, oldest first.
func (t *Trail) Last(n int) []mgl64.Vec3 {
	if n > t.count {
		n = t.count
	}
	if n < 0 {
		n = 0
	}
	out := make([]mgl64.Vec3, n)
	start := t.head + t.count - n
	for i := 0; i < n; i++ {
		out[i] = t.buf[(start+i)%len(t.buf)]
	}
	return out
}
