package scanner

import (
	"context"
	"fmt"
	"os"
	"path"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"

	"github.com/soyunomas/dupescan/internal/entities"
)

// Config define las reglas del recorrido.
type Config struct {
	FS       billy.Filesystem
	Excludes []string               // nombres de directorio a ignorar
	MinSize  int64                  // tamaño mínimo en bytes (0 = todos)
	OnWarn   func(entities.Warning) // receptor de avisos no fatales, puede ser nil
}

// Walker encapsula la lógica de recorrido del sistema de archivos.
type Walker struct {
	cfg        Config
	excludeMap map[string]struct{} // búsqueda O(1)
}

// New crea un Walker con la configuración dada.
func New(cfg Config) *Walker {
	exMap := make(map[string]struct{}, len(cfg.Excludes))
	for _, e := range cfg.Excludes {
		exMap[e] = struct{}{}
	}

	return &Walker{cfg: cfg, excludeMap: exMap}
}

// Count recorre el árbol solo para contar los archivos que Walk emitiría.
// Es la pre-pasada que permite informar progreso sobre un total conocido;
// no emite avisos, eso le toca a la pasada de hashing.
func (w *Walker) Count(ctx context.Context, root string) (int64, error) {
	var n int64
	err := w.walk(ctx, root, false, func(entities.FileRecord) error {
		n++
		return nil
	})
	return n, err
}

// Walk emite un FileRecord por cada archivo regular bajo root.
// Los subdirectorios ilegibles generan un aviso y el recorrido continúa;
// solo una raíz inaccesible es fatal.
func (w *Walker) Walk(ctx context.Context, root string, fn func(entities.FileRecord) error) error {
	return w.walk(ctx, root, true, fn)
}

func (w *Walker) walk(ctx context.Context, root string, report bool, fn func(entities.FileRecord) error) error {
	root = path.Clean(root)

	// La raíz se resuelve con Stat: una raíz que es enlace a directorio
	// se escanea igual que el directorio destino.
	info, err := w.cfg.FS.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s: no es un directorio", root)
	}

	return w.walkDir(ctx, root, root, report, fn)
}

func (w *Walker) walkDir(ctx context.Context, root, dir string, report bool, fn func(entities.FileRecord) error) error {
	entries, err := w.cfg.FS.ReadDir(dir)
	if err != nil {
		if dir == root {
			return err
		}
		if report {
			w.warn(entities.WarnWalk, w.rel(root, dir), err)
		}
		return nil
	}

	// Orden léxico: la emisión es reproducible entre ejecuciones.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, entry := range entries {
		// Cancelación cooperativa: se comprueba entre archivos, nunca a
		// mitad de una lectura.
		if err := ctx.Err(); err != nil {
			return err
		}

		p := w.cfg.FS.Join(dir, entry.Name())
		mode := entry.Mode()

		switch {
		case mode.IsDir():
			if _, skip := w.excludeMap[entry.Name()]; skip {
				continue
			}
			if err := w.walkDir(ctx, root, p, report, fn); err != nil {
				return err
			}

		case mode&os.ModeSymlink != 0:
			// Los enlaces a directorios no se siguen (evita ciclos).
			// Los enlaces a archivos cuentan como archivos regulares
			// apuntando al contenido del destino.
			target, err := w.cfg.FS.Stat(p)
			if err != nil {
				// Enlace roto.
				if report {
					w.warn(entities.WarnIO, w.rel(root, p), err)
				}
				continue
			}
			if !target.Mode().IsRegular() {
				continue
			}
			if err := w.emit(root, p, target.Size(), fn); err != nil {
				return err
			}

		case mode.IsRegular():
			if err := w.emit(root, p, entry.Size(), fn); err != nil {
				return err
			}
		}
		// Otros tipos (fifos, sockets, dispositivos) se ignoran.
	}

	return nil
}

func (w *Walker) emit(root, p string, size int64, fn func(entities.FileRecord) error) error {
	if size < w.cfg.MinSize {
		return nil
	}
	return fn(entities.FileRecord{Path: p, RelPath: w.rel(root, p), Size: size})
}

func (w *Walker) rel(root, p string) string {
	if root == "." {
		return p
	}
	return strings.TrimPrefix(p, strings.TrimSuffix(root, "/")+"/")
}

func (w *Walker) warn(code entities.WarningCode, path string, err error) {
	if w.cfg.OnWarn == nil {
		return
	}
	w.cfg.OnWarn(entities.Warning{Code: code, Path: path, Detail: err.Error()})
}
