package node

// Dealer is a work queue that hands out every key at most once.
// It is used to walk recursive structures (nested schemas) without looping.
type Dealer[K comparable] struct {
	order []K
	needs map[K]struct{}
	done  map[K]struct{}
}

// NextNeeds pops the oldest pending key and marks it done.
func (d *Dealer[K]) NextNeeds() (key K, ok bool) {
	for len(d.order) > 0 {
		key, d.order = d.order[0], d.order[1:]
		if _, pending := d.needs[key]; !pending {
			continue
		}

		delete(d.needs, key)

		if _, exists := d.done[key]; !exists {
			d.Done(key)

			return key, true
		}
	}

	var zero K

	return zero, false
}

func (d *Dealer[K]) Needs(key K) {
	if d.needs == nil {
		d.needs = make(map[K]struct{})
	}

	if _, exists := d.done[key]; exists {
		return
	}

	if _, exists := d.needs[key]; exists {
		return
	}

	d.needs[key] = struct{}{}
	d.order = append(d.order, key)
}

func (d *Dealer[K]) Done(key K) {
	if d.done == nil {
		d.done = make(map[K]struct{})
	}

	delete(d.needs, key)
	d.done[key] = struct{}{}
}
