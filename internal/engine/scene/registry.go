package scene

// Registry maps object names to objects and is also the scene's draw list:
// rendering and picking walk it directly, so there is no separate graph to
// drift out of sync. Insertion order is kept for menu display.
//
// Registry is not safe for concurrent use; the viewer only touches it from
// the main thread.
type Registry struct {
	order   []string
	objects map[string]*Object
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{objects: make(map[string]*Object)}
}

// Add stores obj under name, overwriting any previous object with that name.
// An overwritten entry keeps its display slot. The replaced object, if any,
// is returned so callers can release its resources.
func (r *Registry) Add(name string, obj *Object) *Object {
	obj.Name = name
	prev, ok := r.objects[name]
	if !ok {
		r.order = append(r.order, name)
	}
	r.objects[name] = obj
	return prev
}

// Remove deletes the named object. Removing an absent name is a no-op that
// returns false.
func (r *Registry) Remove(name string) bool {
	if _, ok := r.objects[name]; !ok {
		return false
	}
	delete(r.objects, name)
	for i, n := range r.order {
		if n == name {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the named object.
func (r *Registry) Get(name string) (*Object, bool) {
	obj, ok := r.objects[name]
	return obj, ok
}

// Contains reports whether obj is the object currently stored under its
// name. A replaced or removed object is no longer contained.
func (r *Registry) Contains(obj *Object) bool {
	if obj == nil {
		return false
	}
	cur, ok := r.objects[obj.Name]
	return ok && cur == obj
}

// Objects returns all objects in display order.
func (r *Registry) Objects() []*Object {
	out := make([]*Object, len(r.order))
	for i, name := range r.order {
		out[i] = r.objects[name]
	}
	return out
}

// Names returns all names in display order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of objects.
func (r *Registry) Len() int {
	return len(r.order)
}

// Clear removes every object and returns them.
func (r *Registry) Clear() []*Object {
	all := r.Objects()
	r.order = nil
	r.objects = make(map[string]*Object)
	return all
}
