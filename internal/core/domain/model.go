// Package domain contains the core domain models of the deployment and definition engine.
package domain

import (
	"iter"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// ElementType identifies the kind of a flow element.
type ElementType string

const (
	StartEvent       ElementType = "startEvent"
	EndEvent         ElementType = "endEvent"
	UserTask         ElementType = "userTask"
	ServiceTask      ElementType = "serviceTask"
	ScriptTask       ElementType = "scriptTask"
	ExclusiveGateway ElementType = "exclusiveGateway"
	ParallelGateway  ElementType = "parallelGateway"
)

// Valid reports whether t is a known element type.
func (t ElementType) Valid() bool {
	switch t {
	case StartEvent, EndEvent, UserTask, ServiceTask, ScriptTask, ExclusiveGateway, ParallelGateway:
		return true
	default:
		return false
	}
}

// Element is a node of a process graph with its outgoing sequence flows.
type Element struct {
	ID   Symbol
	Type ElementType
	Name string
	Next []Symbol
}

// NewElement builds an Element from plain strings.
func NewElement(id string, typ ElementType, name string, next ...string) Element {
	return Element{ID: Intern(id), Type: typ, Name: name, Next: internAll(next)}
}

// Model is the parsed structural representation of one process.
type Model struct {
	Key        string
	Name       string
	Properties map[string]string

	elements map[Symbol]Element
	order    []Symbol
}

// NewModel creates an empty Model.
func NewModel(key, name string) *Model {
	return &Model{
		Key:      key,
		Name:     name,
		elements: make(map[Symbol]Element),
	}
}

// AddElement adds an element to the model.
// It returns an error if an element with the same id already exists.
func (m *Model) AddElement(e Element) error {
	if e.ID.IsZero() {
		return zerr.With(zerr.Wrap(ErrInvalidModel, "element id is empty"), "process", m.Key)
	}
	if _, exists := m.elements[e.ID]; exists {
		return zerr.With(zerr.Wrap(ErrDuplicateElement, "element already declared"), "element", e.ID.String())
	}
	m.elements[e.ID] = e
	m.order = append(m.order, e.ID)
	return nil
}

// Element returns the element with the given id.
func (m *Model) Element(id string) (Element, bool) {
	e, ok := m.elements[Intern(id)]
	return e, ok
}

// Len returns the number of elements.
func (m *Model) Len() int {
	return len(m.order)
}

// Elements yields elements in declaration order.
func (m *Model) Elements() iter.Seq[Element] {
	return func(yield func(Element) bool) {
		for _, id := range m.order {
			if !yield(m.elements[id]) {
				return
			}
		}
	}
}

// StartEvents returns the start events in declaration order.
func (m *Model) StartEvents() []Element {
	var out []Element
	for e := range m.Elements() {
		if e.Type == StartEvent {
			out = append(out, e)
		}
	}
	return out
}

// TopologicalOrder returns the element ids so that every element precedes the targets of its
// sequence flows. Disconnected elements keep declaration order.
func (m *Model) TopologicalOrder() ([]Symbol, error) {
	postOrder := make([]Symbol, 0, len(m.order))
	visited := make(map[Symbol]int, len(m.order)) // 0: unvisited, 1: visiting, 2: visited
	var path []Symbol

	var visit func(u Symbol) error
	visit = func(u Symbol) error {
		visited[u] = 1
		path = append(path, u)

		for _, next := range m.elements[u].Next {
			if _, exists := m.elements[next]; !exists {
				err := zerr.Wrap(ErrMissingFlowTarget, "sequence flow points to an unknown element")
				err = zerr.With(err, "source", u.String())
				return zerr.With(err, "target", next.String())
			}
			switch visited[next] {
			case 1:
				return cycleError(path, next)
			case 0:
				if err := visit(next); err != nil {
					return err
				}
			}
		}

		visited[u] = 2
		path = path[:len(path)-1]
		postOrder = append(postOrder, u)
		return nil
	}

	// Start events first so the plan begins where execution does.
	roots := make([]Symbol, 0, len(m.order))
	for _, e := range m.StartEvents() {
		roots = append(roots, e.ID)
	}
	roots = append(roots, m.order...)

	// Visit in reverse so that reversing the post-order keeps roots in their given order.
	for _, id := range slices.Backward(roots) {
		if visited[id] == 0 {
			if err := visit(id); err != nil {
				return nil, err
			}
		}
	}

	slices.Reverse(postOrder)
	return postOrder, nil
}

func cycleError(path []Symbol, dep Symbol) error {
	start := slices.Index(path, dep)
	parts := make([]string, 0, len(path)-start+1)
	for _, s := range path[start:] {
		parts = append(parts, s.String())
	}
	parts = append(parts, dep.String())
	return zerr.With(zerr.Wrap(ErrCycleDetected, "process graph is cyclic"), "cycle", strings.Join(parts, " -> "))
}

// Lint checks the structural rules a deployable process must satisfy:
// known element types, exactly one start event, at least one end event, end events without
// outgoing flows and every element reachable from the start event.
func (m *Model) Lint() error {
	if m.Key == "" {
		return zerr.Wrap(ErrInvalidModel, "process key is empty")
	}
	for e := range m.Elements() {
		if !e.Type.Valid() {
			return m.lintError("unknown element type", "element", e.ID.String())
		}
		if e.Type == EndEvent && len(e.Next) > 0 {
			return m.lintError("end event has outgoing flows", "element", e.ID.String())
		}
		for _, next := range e.Next {
			if _, ok := m.elements[next]; !ok {
				err := zerr.Wrap(ErrMissingFlowTarget, "sequence flow points to an unknown element")
				err = zerr.With(err, "process", m.Key)
				return zerr.With(err, "target", next.String())
			}
		}
	}

	starts := m.StartEvents()
	if len(starts) != 1 {
		return m.lintError("process must have exactly one start event", "start_events", len(starts))
	}

	hasEnd := false
	for e := range m.Elements() {
		if e.Type == EndEvent {
			hasEnd = true
			break
		}
	}
	if !hasEnd {
		return m.lintError("process has no end event", "elements", m.Len())
	}

	reached := map[Symbol]bool{starts[0].ID: true}
	queue := []Symbol{starts[0].ID}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, next := range m.elements[u].Next {
			if !reached[next] {
				reached[next] = true
				queue = append(queue, next)
			}
		}
	}
	for _, id := range m.order {
		if !reached[id] {
			return m.lintError("element is unreachable from the start event", "element", id.String())
		}
	}
	return nil
}

func (m *Model) lintError(msg, key string, value any) error {
	err := zerr.With(zerr.Wrap(ErrInvalidModel, msg), "process", m.Key)
	return zerr.With(err, key, value)
}

// Clone returns a deep copy of the model.
func (m *Model) Clone() *Model {
	c := NewModel(m.Key, m.Name)
	c.Properties = maps.Clone(m.Properties)
	for e := range m.Elements() {
		e.Next = slices.Clone(e.Next)
		c.elements[e.ID] = e
		c.order = append(c.order, e.ID)
	}
	return c
}
