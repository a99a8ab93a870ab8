package ecs

// System advances state S by dt seconds.
type System[S any] interface {
	Update(s S, dt float64)
}

// SystemFunc adapts a function to System.
type SystemFunc[S any] func(s S, dt float64)

func (f SystemFunc[S]) Update(s S, dt float64) { f(s, dt) }

// Scheduler runs systems in insertion order.
type Scheduler[S any] struct {
	systems []System[S]
}

// NewScheduler copies systems, skipping nil entries.
func NewScheduler[S any](systems ...System[S]) *Scheduler[S] {
	copied := make([]System[S], 0, len(systems))
	for _, system := range systems {
		if system != nil {
			copied = append(copied, system)
		}
	}
	return &Scheduler[S]{systems: copied}
}

func (s *Scheduler[S]) Update(state S, dt float64) {
	for _, system := range s.systems {
		system.Update(state, dt)
	}
}
