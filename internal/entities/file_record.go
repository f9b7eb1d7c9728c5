package entities

// FileRecord representa un archivo regular descubierto durante el recorrido.
// Se crea en el Walker y es inmutable durante el resto del escaneo.
type FileRecord struct {
	Path    string `json:"path"`       // ruta dentro del filesystem escaneado
	RelPath string `json:"rel_path"`   // ruta relativa a la raíz, para mostrar
	Size    int64  `json:"size_bytes"` // tamaño del contenido (del destino si es enlace)
}

// DuplicateGroup es un conjunto de 2 o más archivos con contenido idéntico.
// Solo lo produce la pasada de confirmación; las rutas son relativas a la raíz.
type DuplicateGroup struct {
	Digest uint64   `json:"digest"`
	Size   int64    `json:"size_bytes"`
	Paths  []string `json:"paths"`
}

// WastedBytes devuelve el espacio recuperable del grupo: todos los
// miembros menos uno sobran.
func (g DuplicateGroup) WastedBytes() int64 {
	if len(g.Paths) < 2 {
		return 0
	}
	return g.Size * int64(len(g.Paths)-1)
}
