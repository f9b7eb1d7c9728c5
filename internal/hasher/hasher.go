package hasher

import (
	"io"
	"sync"

	"github.com/cespare/xxhash/v2"
	billy "github.com/go-git/go-billy/v5"
)

// BlockSize es el tamaño de bloque de lectura (32KB es un buen estándar).
const BlockSize = 32 * 1024

// PrefixSize define cuánto leemos como máximo para la prueba rápida:
// 262144 bytes (8^6). Dos archivos distintos pueden compartir hash de
// prefijo; la pasada de confirmación lo resuelve.
const PrefixSize = 256 * 1024

// bufferPool reutiliza los bloques de lectura entre llamadas.
var bufferPool = sync.Pool{
	New: func() any {
		b := make([]byte, BlockSize)
		return &b
	},
}

// hashPool reutiliza el estado del digest.
var hashPool = sync.Pool{
	New: func() any {
		return xxhash.New()
	},
}

// HashFile calcula el hash del contenido completo del archivo.
func HashFile(fsys billy.Basic, path string) (uint64, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return hashReader(file)
}

// HashPrefix calcula el hash de como máximo los primeros PrefixSize bytes.
// Si el archivo es más corto se hashea entero, exactamente los bytes leídos.
func HashPrefix(fsys billy.Basic, path string) (uint64, error) {
	file, err := fsys.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	return hashReader(io.LimitReader(file, PrefixSize))
}

func hashReader(r io.Reader) (uint64, error) {
	h := hashPool.Get().(*xxhash.Digest)
	h.Reset()
	defer hashPool.Put(h)

	bufPtr := bufferPool.Get().(*[]byte)
	buf := *bufPtr
	defer bufferPool.Put(bufPtr)

	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}
