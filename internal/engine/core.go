package engine

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	"github.com/soyunomas/dupescan/internal/entities"
	"github.com/soyunomas/dupescan/internal/hasher"
	"github.com/soyunomas/dupescan/internal/scanner"
)

// ProgressFunc recibe el avance de la fase de hashing: archivos
// procesados sobre el total contado en la pre-pasada. Se invoca una vez
// por archivo y debe volver deprisa.
type ProgressFunc func(processed, total int64)

// PhaseFunc notifica cada transición de la máquina de estados.
type PhaseFunc func(phase Phase)

// Options configura un Runner.
type Options struct {
	FS         billy.Filesystem // nil: filesystem del SO montado en /
	Excludes   []string         // nombres de directorio a ignorar
	MinSize    int64            // tamaño mínimo en bytes (0 = todos)
	Workers    int              // 0: número de CPUs; 1 reproduce el modo secuencial
	Logger     *slog.Logger     // nil: slog.Default()
	OnProgress ProgressFunc
	OnPhase    PhaseFunc
}

func (o *Options) normalize() {
	if o.FS == nil {
		o.FS = osfs.New("/")
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}

// Runner orquesta un escaneo completo: conteo, hash de prefijo,
// confirmación y ranking. Solo admite un escaneo activo a la vez;
// cada llamada a Run parte de contadores limpios y de la señal de
// cancelación de su propio contexto.
type Runner struct {
	opts Options

	busy      atomic.Bool
	phase     atomic.Int32
	processed atomic.Int64
	total     atomic.Int64
}

// New crea un Runner con las opciones normalizadas.
func New(opts Options) *Runner {
	opts.normalize()
	return &Runner{opts: opts}
}

// Phase devuelve la fase actual del escaneo.
func (r *Runner) Phase() Phase {
	return Phase(r.phase.Load())
}

// Progress devuelve los contadores de la fase de hashing. Para
// llamadores que sondean en vez de registrar un ProgressFunc.
func (r *Runner) Progress() (processed, total int64) {
	return r.processed.Load(), r.total.Load()
}

// Run ejecuta un escaneo sobre root dentro del filesystem configurado.
// La cancelación llega por ctx y se sondea entre archivos, nunca a mitad
// de una lectura; al observarla se descartan los resultados parciales y
// se devuelve un resultado con StatusCancelled, que no es un error. El
// único error posible es una raíz inválida.
func (r *Runner) Run(ctx context.Context, root string) (*entities.ScanResult, error) {
	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrScanInProgress
	}
	defer r.busy.Store(false)

	start := time.Now()
	r.phase.Store(int32(PhaseIdle))
	r.processed.Store(0)
	r.total.Store(0)

	// La raíz se valida antes de empezar ningún trabajo. La cadena vacía
	// no es una raíz: sin esta guarda degradaría a escanear la base del
	// filesystem.
	if root == "" {
		return nil, fmt.Errorf("%w: ruta vacía", ErrInvalidRoot)
	}
	info, err := r.opts.FS.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s no es un directorio", ErrInvalidRoot, root)
	}

	var warns []entities.Warning
	onWarn := func(w entities.Warning) {
		warns = append(warns, w)
		r.opts.Logger.Warn("aviso durante el escaneo",
			"code", string(w.Code), "path", w.Path, "detail", w.Detail)
	}

	wk := scanner.New(scanner.Config{
		FS:       r.opts.FS,
		Excludes: r.opts.Excludes,
		MinSize:  r.opts.MinSize,
		OnWarn:   onWarn,
	})

	// Fase 1: conteo. Una pasada completa solo para conocer el total,
	// coste asumido a cambio de informar progreso sobre total conocido.
	r.setPhase(PhaseCounting)
	total, err := wk.Count(ctx, root)
	if err != nil {
		if isCtxErr(err) {
			return r.cancelled(warns, start), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}
	r.total.Store(total)
	r.opts.Logger.Debug("conteo terminado", "total", total)

	// Fase 2: recorrido y hash de prefijo.
	r.setPhase(PhaseHashing)
	var records []entities.FileRecord
	if err := wk.Walk(ctx, root, func(rec entities.FileRecord) error {
		records = append(records, rec)
		return nil
	}); err != nil {
		if isCtxErr(err) {
			return r.cancelled(warns, start), nil
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoot, err)
	}

	index := newCandidateIndex()
	if err := r.prefixPass(ctx, records, index, onWarn); err != nil {
		return r.cancelled(warns, start), nil
	}

	// Fase 3: confirmación con hash completo.
	r.setPhase(PhaseConfirming)
	groups, err := r.confirmPass(ctx, index, onWarn)
	if err != nil {
		return r.cancelled(warns, start), nil
	}

	// Fase 4: ranking.
	r.setPhase(PhaseRanking)
	groups = rankGroups(groups)

	var dupes int64
	for _, g := range groups {
		dupes += int64(len(g.Paths) - 1)
	}

	r.setPhase(PhaseDone)
	res := &entities.ScanResult{
		Status:     entities.StatusCompleted,
		Groups:     groups,
		Warnings:   warns,
		TotalFiles: total,
		Duplicates: dupes,
		Duration:   time.Since(start),
	}
	r.opts.Logger.Info("escaneo terminado",
		"files", total, "groups", len(groups), "duplicates", dupes,
		"warnings", len(warns), "duration", res.Duration)

	return res, nil
}

// prefixPass calcula el hash de prefijo de cada registro con un pool de
// workers. La inserción en el índice se hace al final en orden de
// recorrido, para que la salida no dependa del número de workers.
func (r *Runner) prefixPass(ctx context.Context, records []entities.FileRecord, index *candidateIndex, onWarn func(entities.Warning)) error {
	type result struct {
		idx    int
		digest uint64
		err    error
	}

	// Cola completa desde el principio para no bloquear workers.
	jobs := make(chan int, len(records))
	results := make(chan result, len(records))

	var wg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				// Cancelación por unidad de trabajo: una vez observada
				// no se toca más el disco.
				if err := ctx.Err(); err != nil {
					results <- result{idx: idx, err: err}
					continue
				}
				d, err := hasher.HashPrefix(r.opts.FS, records[idx].Path)
				results <- result{idx: idx, digest: d, err: err}
			}
		}()
	}

	for i := range records {
		jobs <- i
	}
	close(jobs)

	// Monitor de cierre.
	go func() {
		wg.Wait()
		close(results)
	}()

	digests := make([]uint64, len(records))
	hashed := make([]bool, len(records))
	for res := range results {
		if isCtxErr(res.err) {
			continue
		}
		processed := r.processed.Add(1)
		if r.opts.OnProgress != nil {
			r.opts.OnProgress(processed, r.total.Load())
		}
		if res.err != nil {
			// Fallo de lectura: el archivo queda fuera de esta pasada.
			onWarn(entities.Warning{Code: entities.WarnIO, Path: records[res.idx].RelPath, Detail: res.err.Error()})
			continue
		}
		digests[res.idx] = res.digest
		hashed[res.idx] = true
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	for i, rec := range records {
		if hashed[i] {
			index.insert(digests[i], rec)
		}
	}

	return nil
}

// confirmPass verifica cada cubeta candidata con hash completo y la
// parte en grupos de duplicados reales. Las colisiones de prefijo sin
// coincidencia real quedan en subgrupos de un miembro y se descartan en
// silencio.
func (r *Runner) confirmPass(ctx context.Context, index *candidateIndex, onWarn func(entities.Warning)) ([]entities.DuplicateGroup, error) {
	buckets := index.candidates()

	type job struct{ bucket, member int }
	type result struct {
		job
		digest uint64
		err    error
	}

	var n int
	for _, b := range buckets {
		n += len(b)
	}

	jobs := make(chan job, n)
	results := make(chan result, n)

	var wg sync.WaitGroup
	for i := 0; i < r.opts.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				if err := ctx.Err(); err != nil {
					results <- result{job: j, err: err}
					continue
				}
				d, err := hasher.HashFile(r.opts.FS, buckets[j.bucket][j.member].Path)
				results <- result{job: j, digest: d, err: err}
			}
		}()
	}

	for bi, b := range buckets {
		for mi := range b {
			jobs <- job{bucket: bi, member: mi}
		}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	full := make([][]uint64, len(buckets))
	confirmed := make([][]bool, len(buckets))
	for bi, b := range buckets {
		full[bi] = make([]uint64, len(b))
		confirmed[bi] = make([]bool, len(b))
	}

	for res := range results {
		if isCtxErr(res.err) {
			continue
		}
		if res.err != nil {
			// El miembro se cae de su subgrupo; si el subgrupo queda en
			// uno, se descartará después.
			onWarn(entities.Warning{Code: entities.WarnIO, Path: buckets[res.bucket][res.member].RelPath, Detail: res.err.Error()})
			continue
		}
		full[res.bucket][res.member] = res.digest
		confirmed[res.bucket][res.member] = true
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Partición por (digest completo, tamaño): dos archivos de tamaños
	// distintos jamás comparten grupo aunque el hash colisione.
	type fullKey struct {
		digest uint64
		size   int64
	}

	var groups []entities.DuplicateGroup
	for bi, bucket := range buckets {
		members := make(map[fullKey][]entities.FileRecord)
		var order []fullKey
		for mi, rec := range bucket {
			if !confirmed[bi][mi] {
				continue
			}
			k := fullKey{digest: full[bi][mi], size: rec.Size}
			if _, seen := members[k]; !seen {
				order = append(order, k)
			}
			members[k] = append(members[k], rec)
		}
		for _, k := range order {
			recs := members[k]
			if len(recs) < 2 {
				continue
			}
			paths := make([]string, len(recs))
			for i, rec := range recs {
				paths[i] = rec.RelPath
			}
			groups = append(groups, entities.DuplicateGroup{Digest: k.digest, Size: k.size, Paths: paths})
		}
	}

	return groups, nil
}

// cancelled descarta el trabajo parcial: solo sobreviven estado y avisos.
func (r *Runner) cancelled(warns []entities.Warning, start time.Time) *entities.ScanResult {
	r.setPhase(PhaseCancelled)
	r.opts.Logger.Info("escaneo cancelado", "warnings", len(warns))

	return &entities.ScanResult{
		Status:     entities.StatusCancelled,
		Warnings:   warns,
		TotalFiles: r.total.Load(),
		Duration:   time.Since(start),
	}
}

func (r *Runner) setPhase(p Phase) {
	r.phase.Store(int32(p))
	r.opts.Logger.Debug("cambio de fase", "phase", p.String())
	if r.opts.OnPhase != nil {
		r.opts.OnPhase(p)
	}
}
