package list

import "github.com/pkg/errors"

// Validate walks the list in both directions and reports the first broken
// structural invariant: head and tail must be both set or both unset, the
// counter must match the number of nodes reachable from head, walking next
// from head must end at tail, walking prev from tail must end at head, and
// every pair of adjacent nodes must link to each other. This function is O(n).
//
// Lists using PopDetach fail validation after their first pop.
func (l *List) Validate() error {
	if (l.head == nil) != (l.tail == nil) {
		return errors.Errorf("head set=%t but tail set=%t", l.head != nil, l.tail != nil)
	}
	if l.head == nil {
		if l.size != 0 {
			return errors.Errorf("empty list has size %d", l.size)
		}
		return nil
	}

	forward, last, err := walk(l.head, func(n *node) (handle, handle) { return n.next, n.prev })
	if err != nil {
		return errors.Wrap(err, "walking forward from head")
	}
	if last != l.tail {
		return errors.New("walking forward from head does not end at tail")
	}
	if forward != l.size {
		return errors.Errorf("size is %d but %d nodes are reachable from head", l.size, forward)
	}

	backward, first, err := walk(l.tail, func(n *node) (handle, handle) { return n.prev, n.next })
	if err != nil {
		return errors.Wrap(err, "walking backward from tail")
	}
	if first != l.head {
		return errors.New("walking backward from tail does not end at head")
	}
	if backward != forward {
		return errors.Errorf("%d nodes forward but %d backward", forward, backward)
	}
	return nil
}

// walk follows one direction of links from start, checking that each step's
// target links back. It returns the number of nodes visited and the last one.
func walk(start handle, links func(*node) (step, back handle)) (int, handle, error) {
	count := 0
	cur := start
	for {
		count++
		r := cur.Borrow()
		step, _ := links(r.Get())
		r.Release()
		if step == nil {
			return count, cur, nil
		}
		sr := step.Borrow()
		_, back := links(sr.Get())
		sr.Release()
		if back != cur {
			return count, cur, errors.Errorf("node %d's neighbor does not link back to it", count-1)
		}
		cur = step
	}
}
