package engine

import (
	"context"
	"errors"
)

// Errores centinela del orquestador; se comparan con errors.Is.
var (
	// ErrInvalidRoot: la raíz no existe, no es un directorio o no se puede
	// acceder a ella. Es el único fallo fatal: no se realiza ningún trabajo.
	ErrInvalidRoot = errors.New("raíz de escaneo no válida")

	// ErrScanInProgress: este Runner ya tiene un escaneo activo.
	ErrScanInProgress = errors.New("escaneo ya en curso")
)

// isCtxErr distingue la cancelación cooperativa de un fallo real.
func isCtxErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
