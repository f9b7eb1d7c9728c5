package hasher

import (
	"bytes"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashFileDeterministic(t *testing.T) {
	fs := memfs.New()
	content := []byte("contenido de prueba")
	require.NoError(t, util.WriteFile(fs, "a.bin", content, 0o644))
	require.NoError(t, util.WriteFile(fs, "b.bin", content, 0o644))

	ha, err := HashFile(fs, "a.bin")
	require.NoError(t, err)
	hb, err := HashFile(fs, "b.bin")
	require.NoError(t, err)

	assert.Equal(t, ha, hb, "mismo contenido debe dar el mismo digest")
}

func TestHashPrefixEqualsFullForShortFiles(t *testing.T) {
	// Un archivo más corto que PrefixSize se hashea entero en ambas
	// funciones, así que los digests coinciden.
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "short.bin", []byte("corto"), 0o644))

	prefix, err := HashPrefix(fs, "short.bin")
	require.NoError(t, err)
	full, err := HashFile(fs, "short.bin")
	require.NoError(t, err)

	assert.Equal(t, full, prefix)
}

func TestHashPrefixIgnoresBytesBeyondLimit(t *testing.T) {
	fs := memfs.New()
	head := bytes.Repeat([]byte{0xAB}, PrefixSize)
	require.NoError(t, util.WriteFile(fs, "x.bin", append(append([]byte{}, head...), 'x'), 0o644))
	require.NoError(t, util.WriteFile(fs, "y.bin", append(append([]byte{}, head...), 'y'), 0o644))

	px, err := HashPrefix(fs, "x.bin")
	require.NoError(t, err)
	py, err := HashPrefix(fs, "y.bin")
	require.NoError(t, err)
	assert.Equal(t, px, py, "difieren después del límite: mismo hash de prefijo")

	fx, err := HashFile(fs, "x.bin")
	require.NoError(t, err)
	fy, err := HashFile(fs, "y.bin")
	require.NoError(t, err)
	assert.NotEqual(t, fx, fy, "el hash completo sí distingue la cola")
}

func TestHashEmptyFile(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "empty", nil, 0o644))

	prefix, err := HashPrefix(fs, "empty")
	require.NoError(t, err)
	full, err := HashFile(fs, "empty")
	require.NoError(t, err)

	assert.Equal(t, full, prefix, "archivo vacío: ambos digests sobre cero bytes")
}

func TestHashMissingFile(t *testing.T) {
	fs := memfs.New()

	_, err := HashFile(fs, "no-existe")
	assert.Error(t, err)
	_, err = HashPrefix(fs, "no-existe")
	assert.Error(t, err)
}
