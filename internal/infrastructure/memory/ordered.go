package memory

import "slices"

// ordered keeps entries addressable by id while preserving insertion order.
type ordered[T any] struct {
	ids  []int64
	byID map[int64]*T
}

func newOrdered[T any]() *ordered[T] {
	return &ordered[T]{byID: make(map[int64]*T)}
}

func (o *ordered[T]) len() int { return len(o.ids) }

func (o *ordered[T]) get(id int64) (*T, bool) {
	v, ok := o.byID[id]
	return v, ok
}

func (o *ordered[T]) has(id int64) bool {
	_, ok := o.byID[id]
	return ok
}

// put appends a new id or replaces the value in place, keeping its position.
func (o *ordered[T]) put(id int64, v *T) {
	if !o.has(id) {
		o.ids = append(o.ids, id)
	}
	o.byID[id] = v
}

func (o *ordered[T]) remove(id int64) bool {
	if !o.has(id) {
		return false
	}
	delete(o.byID, id)
	o.ids = slices.DeleteFunc(o.ids, func(x int64) bool { return x == id })
	return true
}

func (o *ordered[T]) each(fn func(*T)) {
	for _, id := range o.ids {
		fn(o.byID[id])
	}
}

func (o *ordered[T]) clone(cp func(*T) *T) *ordered[T] {
	out := &ordered[T]{
		ids:  slices.Clone(o.ids),
		byID: make(map[int64]*T, len(o.byID)),
	}
	for id, v := range o.byID {
		out.byID[id] = cp(v)
	}
	return out
}
