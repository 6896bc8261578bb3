package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/flow/internal/adapters/fs"
	"go.trai.ch/flow/internal/core/domain"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestWalker_WalkFiles(t *testing.T) {
	// tmp/
	//   .git/config
	//   ignored/file
	//   src/invoice.process.yaml
	//   notes.tmp
	//   README.md
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, ".git", "config"), "git config")
	writeFile(t, filepath.Join(tmpDir, "ignored", "file"), "ignored content")
	writeFile(t, filepath.Join(tmpDir, "src", "invoice.process.yaml"), "processes: []")
	writeFile(t, filepath.Join(tmpDir, "notes.tmp"), "scratch")
	writeFile(t, filepath.Join(tmpDir, "README.md"), "# Readme")

	files := make(map[string]bool)
	for path := range fs.NewWalker().WalkFiles(tmpDir, []string{"ignored", "*.tmp"}) {
		rel, err := filepath.Rel(tmpDir, path)
		require.NoError(t, err)
		files[filepath.ToSlash(rel)] = true
	}

	assert.Equal(t, map[string]bool{
		"src/invoice.process.yaml": true,
		"README.md":                true,
	}, files)
}

func TestWalker_StopsEarly(t *testing.T) {
	tmpDir := t.TempDir()
	for _, name := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(tmpDir, name), name)
	}

	count := 0
	for range fs.NewWalker().WalkFiles(tmpDir, nil) {
		count++
		break
	}
	assert.Equal(t, 1, count)
}

func TestResolver_Resolve(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "a.process.yaml"), "a")
	writeFile(t, filepath.Join(tmpDir, "b.process.yaml"), "b")
	writeFile(t, filepath.Join(tmpDir, "c.txt"), "c")

	got, err := fs.NewResolver().Resolve([]string{
		filepath.Join(tmpDir, "*.process.yaml"),
		filepath.Join(tmpDir, "a.process.yaml"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(tmpDir, "a.process.yaml"),
		filepath.Join(tmpDir, "b.process.yaml"),
	}, got)

	_, err = fs.NewResolver().Resolve([]string{filepath.Join(tmpDir, "missing.yaml")})
	require.Error(t, err)

	_, err = fs.NewResolver().Resolve([]string{""})
	require.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCollector_Collect(t *testing.T) {
	tmpDir := t.TempDir()
	bundle := filepath.Join(tmpDir, "bundle")
	writeFile(t, filepath.Join(bundle, "invoice.process.yaml"), "invoice")
	writeFile(t, filepath.Join(bundle, "nested", "shipping.process.yaml"), "shipping")
	writeFile(t, filepath.Join(bundle, ".cache", "stale"), "stale")
	single := filepath.Join(tmpDir, "extra", "returns.process.yaml")
	writeFile(t, single, "returns")

	c := fs.NewCollector(fs.NewWalker(), fs.NewResolver())
	resources, err := c.Collect(context.Background(), []string{bundle, single})
	require.NoError(t, err)

	names := make([]string, len(resources))
	for i, r := range resources {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"invoice.process.yaml", "nested/shipping.process.yaml", "returns.process.yaml"}, names)
	assert.Equal(t, []byte("shipping"), resources[1].Bytes)
}

func TestCollector_DuplicateNames(t *testing.T) {
	tmpDir := t.TempDir()
	a := filepath.Join(tmpDir, "a", "invoice.process.yaml")
	b := filepath.Join(tmpDir, "b", "invoice.process.yaml")
	writeFile(t, a, "a")
	writeFile(t, b, "b")

	_, err := fs.NewCollector(fs.NewWalker(), fs.NewResolver()).Collect(context.Background(), []string{a, b})
	require.ErrorIs(t, err, domain.ErrDuplicateResource)
}

func TestCollector_CancelledContext(t *testing.T) {
	tmpDir := t.TempDir()
	writeFile(t, filepath.Join(tmpDir, "invoice.process.yaml"), "invoice")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fs.NewCollector(fs.NewWalker(), fs.NewResolver()).Collect(ctx, []string{tmpDir})
	require.ErrorIs(t, err, context.Canceled)
}

func TestHasher_Digest(t *testing.T) {
	h := fs.NewHasher()
	a := domain.Resource{Name: "a.process.yaml", Bytes: []byte("a")}
	b := domain.Resource{Name: "b.process.yaml", Bytes: []byte("b")}

	d1 := h.Digest([]domain.Resource{a, b})
	assert.Len(t, d1, 16)
	assert.Equal(t, d1, h.Digest([]domain.Resource{b, a}), "order independent")

	changed := domain.Resource{Name: "b.process.yaml", Bytes: []byte("B")}
	assert.NotEqual(t, d1, h.Digest([]domain.Resource{a, changed}))

	renamed := domain.Resource{Name: "c.process.yaml", Bytes: []byte("b")}
	assert.NotEqual(t, d1, h.Digest([]domain.Resource{a, renamed}))
}
