package fs

import (
	"cmp"
	"encoding/binary"
	"fmt"
	"slices"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/flow/internal/core/domain"
	"go.trai.ch/flow/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher computes xxhash digests over deployment resources.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// Digest hashes every resource name with the hash of its content. Resources are sorted by name
// first, so the digest does not depend on collection order.
func (h *Hasher) Digest(resources []domain.Resource) string {
	sorted := slices.Clone(resources)
	slices.SortFunc(sorted, func(a, b domain.Resource) int { return cmp.Compare(a.Name, b.Name) })

	hasher := xxhash.New()
	var buf [8]byte
	for _, r := range sorted {
		_, _ = hasher.WriteString(r.Name)
		_, _ = hasher.Write([]byte{0})

		binary.LittleEndian.PutUint64(buf[:], xxhash.Sum64(r.Bytes))
		_, _ = hasher.Write(buf[:])
	}
	return fmt.Sprintf("%016x", hasher.Sum64())
}
