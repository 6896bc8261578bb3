package deployment

import "go.trai.ch/flow/internal/core/domain"

// Publish exposes batch publication for tests.
func (m *Manager) Publish(batch *domain.Batch) error {
	return m.publish(batch)
}
