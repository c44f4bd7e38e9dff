package memory

// ordered is a map that remembers insertion order.
type ordered[T any] struct {
	keys  []string
	items map[string]T
}

func newOrdered[T any]() *ordered[T] {
	return &ordered[T]{items: make(map[string]T)}
}

func (o *ordered[T]) get(id string) (T, bool) {
	v, ok := o.items[id]
	return v, ok
}

// put replaces an existing value in place or appends a new one.
func (o *ordered[T]) put(id string, v T) {
	if _, ok := o.items[id]; !ok {
		o.keys = append(o.keys, id)
	}
	o.items[id] = v
}

// remove deletes id and returns the removed value with its former position.
func (o *ordered[T]) remove(id string) (T, int, bool) {
	v, ok := o.items[id]
	if !ok {
		return v, -1, false
	}
	delete(o.items, id)
	for i, k := range o.keys {
		if k == id {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			return v, i, true
		}
	}
	return v, -1, true
}

func (o *ordered[T]) insertAt(idx int, id string, v T) {
	if idx < 0 || idx > len(o.keys) {
		idx = len(o.keys)
	}
	o.keys = append(o.keys, "")
	copy(o.keys[idx+1:], o.keys[idx:])
	o.keys[idx] = id
	o.items[id] = v
}

func (o *ordered[T]) values() []T {
	out := make([]T, 0, len(o.keys))
	for _, k := range o.keys {
		out = append(out, o.items[k])
	}
	return out
}

func (o *ordered[T]) len() int { return len(o.keys) }
