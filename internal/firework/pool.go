package firework

// DefaultCap is the number of live fireworks kept on screen.
const DefaultCap = 15

// Pool is a fixed-capacity ring of fireworks. Adding to a full pool evicts
// the oldest entry; nothing else ever removes one.
type Pool struct {
	items []Firework
	head  int // index of the oldest firework
	n     int
}

// NewPool allocates a pool holding at most cap fireworks.
func NewPool(cap int) *Pool {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &Pool{items: make([]Firework, cap)}
}

// Cap returns the capacity.
func (p *Pool) Cap() int { return len(p.items) }

// Len returns the number of fireworks held.
func (p *Pool) Len() int { return p.n }

// Add appends f, evicting the oldest firework when the pool is full.
// It reports whether an eviction happened.
func (p *Pool) Add(f Firework) bool {
	if p.n == len(p.items) {
		p.items[p.head] = f
		p.head = (p.head + 1) % len(p.items)
		return true
	}
	p.items[(p.head+p.n)%len(p.items)] = f
	p.n++
	return false
}

// At returns the i-th firework, oldest first.
func (p *Pool) At(i int) *Firework {
	if i < 0 || i >= p.n {
		return nil
	}
	return &p.items[(p.head+i)%len(p.items)]
}

// Each calls fn for every firework, oldest first.
func (p *Pool) Each(fn func(*Firework)) {
	for i := 0; i < p.n; i++ {
		fn(&p.items[(p.head+i)%len(p.items)])
	}
}

// Update advances every firework by one tick.
func (p *Pool) Update() {
	p.Each(func(f *Firework) { f.Update() })
}

// Active counts fireworks that are still visible.
func (p *Pool) Active() int {
	active := 0
	p.Each(func(f *Firework) {
		if !f.Done() {
			active++
		}
	})
	return active
}

// Reset drops every firework.
func (p *Pool) Reset() {
	clear(p.items)
	p.head = 0
	p.n = 0
}
