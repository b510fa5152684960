package agent

// Registry holds the agent roster. Iteration order is registration order,
// which is what gives each dispatch cycle its deterministic activation sweep.
type Registry struct {
	order  []*Agent
	byName map[string]*Agent
}

func NewRegistry() *Registry {
	return &Registry{byName: map[string]*Agent{}}
}

// Register adds an agent. Re-registering a name replaces the entry but keeps
// its original position.
func (r *Registry) Register(a *Agent) {
	if _, ok := r.byName[a.Name()]; ok {
		for i, existing := range r.order {
			if existing.Name() == a.Name() {
				r.order[i] = a
				break
			}
		}
	} else {
		r.order = append(r.order, a)
	}
	r.byName[a.Name()] = a
}

// Get looks an agent up by name.
func (r *Registry) Get(name string) (*Agent, bool) {
	a, ok := r.byName[name]
	return a, ok
}

// All returns the roster in registration order. The returned slice is shared;
// callers must not mutate it.
func (r *Registry) All() []*Agent {
	return r.order
}

// Len reports the roster size.
func (r *Registry) Len() int {
	return len(r.order)
}
