package process

import (
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Compile turns a model into an executable step plan. Steps appear in topological order, so a
// step's successors always have higher indexes.
func Compile(m *domain.Model) (*domain.Executable, error) {
	starts := m.StartEvents()
	if len(starts) == 0 {
		return nil, zerr.With(zerr.Wrap(domain.ErrInvalidModel, "process has no start event"), "process", m.Key)
	}

	order, err := m.TopologicalOrder()
	if err != nil {
		return nil, zerr.With(err, "process", m.Key)
	}

	index := make(map[domain.Symbol]int, len(order))
	for i, id := range order {
		index[id] = i
	}

	h := xxhash.New()
	_, _ = h.WriteString(m.Key)

	exe := &domain.Executable{
		Key:   m.Key,
		Steps: make([]domain.Step, len(order)),
		Start: index[starts[0].ID],
	}
	for i, id := range order {
		el, _ := m.Element(id.String())
		step := domain.Step{Element: id, Type: el.Type}
		_, _ = h.WriteString("\x00" + id.String() + "\x00" + string(el.Type))
		for _, next := range el.Next {
			j := index[next]
			step.Next = append(step.Next, j)
			_, _ = h.WriteString("\x00" + strconv.Itoa(j))
		}
		exe.Steps[i] = step
	}
	exe.Checksum = h.Sum64()
	return exe, nil
}
