package replay

import (
	"fmt"
	"strconv"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/pkg/errors"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"hop.computer/rclist/pkg/list"
)

// state is what a script's steps operate on.
type state struct {
	list  *list.List
	views map[string]*list.View
}

func (s *state) releaseAll() {
	for name, v := range s.views {
		v.Release()
		delete(s.views, name)
	}
}

type op struct {
	help      string
	needsView bool
	run       func(s *state, st *Step) (string, error)
}

var ops map[string]op

func init() {
	ops = map[string]op{
		"push_back": {
			help: "append value",
			run: func(s *state, st *Step) (string, error) {
				s.list.PushBack(st.Value)
				return "", nil
			},
		},
		"push_front": {
			help: "prepend value",
			run: func(s *state, st *Step) (string, error) {
				s.list.PushFront(st.Value)
				return "", nil
			},
		},
		"pop_back": {
			help: "detach the last node",
			run: func(s *state, st *Step) (string, error) {
				s.list.PopBack()
				return "", nil
			},
		},
		"pop_front": {
			help: "detach the first node",
			run: func(s *state, st *Step) (string, error) {
				s.list.PopFront()
				return "", nil
			},
		},
		"peek_front": {
			help: "read the first value",
			run: func(s *state, st *Step) (string, error) {
				v, ok := s.list.Front()
				return expectView(st, v, ok)
			},
		},
		"peek_back": {
			help: "read the last value",
			run: func(s *state, st *Step) (string, error) {
				v, ok := s.list.Back()
				return expectView(st, v, ok)
			},
		},
		"hold_front": {
			help:      "keep a view of the first value under view",
			needsView: true,
			run: func(s *state, st *Step) (string, error) {
				return s.hold(st, s.list.PeekFront)
			},
		},
		"hold_back": {
			help:      "keep a view of the last value under view",
			needsView: true,
			run: func(s *state, st *Step) (string, error) {
				return s.hold(st, s.list.PeekBack)
			},
		},
		"read": {
			help:      "read a held view",
			needsView: true,
			run: func(s *state, st *Step) (string, error) {
				v, ok := s.views[st.View]
				if !ok {
					return "", errors.Errorf("no view named %q", st.View)
				}
				return expectView(st, v.Value(), true)
			},
		},
		"release": {
			help:      "release a held view",
			needsView: true,
			run: func(s *state, st *Step) (string, error) {
				v, ok := s.views[st.View]
				if !ok {
					return "", errors.Errorf("no view named %q", st.View)
				}
				v.Release()
				delete(s.views, st.View)
				return "", nil
			},
		},
		"size": {
			help: "read the node counter",
			run: func(s *state, st *Step) (string, error) {
				n := s.list.Size()
				if st.Expect != nil && int64(n) != *st.Expect {
					return strconv.Itoa(n), errors.Errorf("size is %d, expected %d", n, *st.Expect)
				}
				return strconv.Itoa(n), nil
			},
		},
		"values": {
			help: "iterate from the front",
			run: func(s *state, st *Step) (string, error) {
				vs := s.list.Values()
				out := fmt.Sprint(vs)
				if st.ExpectValues != nil && !cmp.Equal(vs, st.ExpectValues, cmpopts.EquateEmpty()) {
					return out, errors.Errorf("values differ (-got +want):\n%s", cmp.Diff(vs, st.ExpectValues, cmpopts.EquateEmpty()))
				}
				return out, nil
			},
		},
		"clear": {
			help: "drop every node",
			run: func(s *state, st *Step) (string, error) {
				s.list.Clear()
				return "", nil
			},
		},
		"validate": {
			help: "check structural invariants",
			run: func(s *state, st *Step) (string, error) {
				err := s.list.Validate()
				switch {
				case err == nil && st.ExpectInvalid:
					return "ok", errors.New("list is valid, expected an invariant violation")
				case err == nil:
					return "ok", nil
				case st.ExpectInvalid:
					return err.Error(), nil
				}
				return err.Error(), err
			},
		},
	}
}

// Ops returns the names of the supported operations with a short description
// of each, sorted by name.
func Ops() [][2]string {
	names := maps.Keys(ops)
	slices.Sort(names)
	out := make([][2]string, 0, len(names))
	for _, name := range names {
		out = append(out, [2]string{name, ops[name].help})
	}
	return out
}

func (s *state) hold(st *Step, peek func() (*list.View, bool)) (string, error) {
	if _, ok := s.views[st.View]; ok {
		return "", errors.Errorf("view %q is already held", st.View)
	}
	v, ok := peek()
	if !ok {
		return expectView(st, 0, false)
	}
	s.views[st.View] = v
	return expectView(st, v.Value(), true)
}

func expectView(st *Step, val uint32, ok bool) (string, error) {
	if !ok {
		if st.Expect != nil {
			return "empty", errors.Errorf("list is empty, expected %d", *st.Expect)
		}
		return "empty", nil
	}
	out := strconv.FormatUint(uint64(val), 10)
	if st.ExpectEmpty {
		return out, errors.Errorf("got %d, expected empty", val)
	}
	if st.Expect != nil && int64(val) != *st.Expect {
		return out, errors.Errorf("got %d, expected %d", val, *st.Expect)
	}
	return out, nil
}
