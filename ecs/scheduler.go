package ecs

type System interface {
	Update(w *World)
}

// Scheduler runs an ordered set of systems as a single frame step.
type Scheduler struct {
	systems []System
}

func NewScheduler(systems ...System) *Scheduler {
	s := &Scheduler{}
	for _, system := range systems {
		s.Add(system)
	}
	return s
}

func (s *Scheduler) Add(system System) {
	if system == nil {
		return
	}
	s.systems = append(s.systems, system)
}

// Update runs every system in order. It satisfies System so schedulers nest.
func (s *Scheduler) Update(w *World) {
	for _, system := range s.systems {
		system.Update(w)
	}
}

// Step advances w by dt: systems run in order, then frame events are dropped.
func (s *Scheduler) Step(w *World, dt float64) {
	if w == nil {
		return
	}
	w.SetDelta(dt)
	s.Update(w)
	w.events.flush()
}

func (s *Scheduler) Systems() []System {
	systems := make([]System, 0, len(s.systems))
	return append(systems, s.systems...)
}
