package entities

import "time"

// ScanStatus es el estado final de un escaneo.
type ScanStatus string

const (
	StatusCompleted ScanStatus = "completed"
	StatusCancelled ScanStatus = "cancelled"
)

// WarningCode clasifica los avisos no fatales acumulados durante el escaneo.
type WarningCode string

const (
	// WarnWalk: un subdirectorio no se pudo listar (permisos, borrado en curso).
	WarnWalk WarningCode = "walk_warning"
	// WarnIO: un archivo no se pudo abrir o leer en alguna de las pasadas.
	WarnIO WarningCode = "io_error"
)

// Warning es un incidente no fatal: el escaneo continúa pero el llamador
// debe poder verlo al final.
type Warning struct {
	Code   WarningCode `json:"code"`
	Path   string      `json:"path"`
	Detail string      `json:"detail"`
}

// ScanResult es lo que recibe el llamador al terminar un escaneo.
// Si Status es StatusCancelled los grupos parciales se han descartado y
// solo se conservan los avisos acumulados hasta ese momento.
type ScanResult struct {
	Status     ScanStatus       `json:"status"`
	Groups     []DuplicateGroup `json:"groups,omitempty"`
	Warnings   []Warning        `json:"warnings,omitempty"`
	TotalFiles int64            `json:"total_files"`
	Duplicates int64            `json:"duplicates"`
	Duration   time.Duration    `json:"duration_ns"`
}

// WastedBytes suma el espacio recuperable de todos los grupos.
func (r *ScanResult) WastedBytes() int64 {
	var total int64
	for _, g := range r.Groups {
		total += g.WastedBytes()
	}
	return total
}
