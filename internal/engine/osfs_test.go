package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soyunomas/dupescan/internal/entities"
)

// El CLI monta el árbol a escanear con el sabor bound de osfs; este test
// cubre ese montaje de punta a punta sobre un directorio real, enlaces
// simbólicos incluidos.
func TestRunOnBoundOSFilesystem(t *testing.T) {
	dir := t.TempDir()
	data := bytes.Repeat([]byte("Z"), 700)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "uno.bin"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "dos.bin"), data, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "otro.bin"), []byte("distinto"), 0o644))
	require.NoError(t, os.Symlink("uno.bin", filepath.Join(dir, "alias.bin")))

	r := New(Options{
		FS:      osfs.New(dir, osfs.WithBoundOS()),
		Workers: 2,
		Logger:  quietLogger(),
	})

	res, err := r.Run(context.Background(), ".")
	require.NoError(t, err)

	assert.Equal(t, entities.StatusCompleted, res.Status)
	assert.Equal(t, int64(4), res.TotalFiles)
	assert.Empty(t, res.Warnings)

	// El enlace cuenta como archivo regular con el contenido del destino,
	// así que cae en el mismo grupo que el destino y su otra copia.
	require.Len(t, res.Groups, 1)
	assert.Equal(t, int64(700), res.Groups[0].Size)
	assert.Equal(t, []string{"alias.bin", "sub/dos.bin", "uno.bin"}, res.Groups[0].Paths)
	assert.Equal(t, int64(2), res.Duplicates)
}
