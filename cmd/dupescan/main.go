package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soyunomas/dupescan/internal/engine"
	"github.com/soyunomas/dupescan/internal/entities"
	"github.com/soyunomas/dupescan/internal/utils"
)

// --- ESTRUCTURAS PARA EL REPORTE FINAL ---

type Report struct {
	Summary  Summary                   `json:"summary"`
	Groups   []entities.DuplicateGroup `json:"groups"`
	Warnings []entities.Warning        `json:"warnings,omitempty"`
	Metadata Metadata                  `json:"metadata"`
}

type Summary struct {
	Status            entities.ScanStatus `json:"status"`
	TotalFilesScanned int64               `json:"total_files_scanned"`
	TotalDuplicates   int64               `json:"total_duplicates"`
	BytesSaved        int64               `json:"bytes_saved"`
	BytesSavedHuman   string              `json:"bytes_saved_human"`
}

type Metadata struct {
	ScannedPath string    `json:"scanned_path"`
	Version     string    `json:"version"`
	Timestamp   time.Time `json:"timestamp"`
	Duration    string    `json:"duration_human"`
}

var (
	excludes []string
	minSize  int64
	workers  int
	jsonOut  bool
	verbose  bool
	noColor  bool
	cfgFile  string
)

// version se fija en tiempo de compilación vía ldflags.
var version = "dev"

var bold = color.New(color.Bold)

var rootCmd = &cobra.Command{
	Use:   "dupescan [directorio]",
	Short: "Detector de archivos duplicados por hashing en dos pasadas",
	Long: `dupescan recorre un directorio y localiza archivos con contenido idéntico.

Primero agrupa candidatos por el hash de sus primeros 256 KB y después
confirma cada grupo con el hash del contenido completo, de modo que los
archivos grandes solo se leen enteros cuando hace falta. El reporte es de
solo lectura: dupescan nunca borra ni mueve nada.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		return runScan(dir)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "archivo de configuración (por defecto $HOME/.config/dupescan/config.toml)")

	rootCmd.Flags().StringSliceVarP(&excludes, "exclude", "e", []string{".git", "node_modules"}, "directorios a excluir por nombre")
	viper.BindPFlag("exclude", rootCmd.Flags().Lookup("exclude"))
	rootCmd.Flags().Int64Var(&minSize, "min-size", 0, "tamaño mínimo de archivo en bytes (0 = sin límite)")
	viper.BindPFlag("min_size", rootCmd.Flags().Lookup("min-size"))
	rootCmd.Flags().IntVarP(&workers, "workers", "w", 0, "workers de hashing en paralelo (0 = nº de CPUs)")
	viper.BindPFlag("workers", rootCmd.Flags().Lookup("workers"))
	rootCmd.Flags().BoolVar(&jsonOut, "json", false, "salida en formato JSON a stdout")
	viper.BindPFlag("json", rootCmd.Flags().Lookup("json"))
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "logging detallado a stderr")
	viper.BindPFlag("verbose", rootCmd.Flags().Lookup("verbose"))
	rootCmd.Flags().BoolVar(&noColor, "no-color", false, "desactiva los colores de la salida")
	viper.BindPFlag("no_color", rootCmd.Flags().Lookup("no-color"))
}

// initConfig carga el archivo de configuración y las variables DUPESCAN_*.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(filepath.Join(home, ".config", "dupescan"))
		viper.AddConfigPath(".")
		viper.SetConfigName("config")
		viper.SetConfigType("toml")
	}

	viper.SetEnvPrefix("DUPESCAN")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "📝 Usando configuración:", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "⚠️  Error leyendo la configuración: %v\n", err)
	}
}

func runScan(dir string) error {
	jsonMode := viper.GetBool("json")
	if jsonMode || viper.GetBool("no_color") {
		color.NoColor = true
	}

	level := slog.LevelWarn
	if viper.GetBool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	abs, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("no se pudo resolver la ruta %s: %w", dir, err)
	}

	// Ctrl-C o SIGTERM cancelan el escaneo entre archivo y archivo.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := engine.New(engine.Options{
		// Sabor bound: los enlaces simbólicos se resuelven contra el
		// filesystem real en vez de re-enraizarse dentro del árbol.
		FS:       osfs.New(abs, osfs.WithBoundOS()),
		Excludes: viper.GetStringSlice("exclude"),
		MinSize:  viper.GetInt64("min_size"),
		Workers:  viper.GetInt("workers"),
		Logger:   logger,
		OnPhase: func(p engine.Phase) {
			printPhase(p, jsonMode)
		},
		OnProgress: func(processed, total int64) {
			if jsonMode {
				return
			}
			if processed%128 == 0 || processed == total {
				fmt.Printf("\r   ⏳ %d/%d archivos", processed, total)
				if processed == total {
					fmt.Println()
				}
			}
		},
	})

	if !jsonMode {
		fmt.Printf("🚀 dupescan %s - Escaneando: %s\n", version, abs)
		fmt.Println("------------------------------------------------")
	}

	res, err := runner.Run(ctx, ".")
	if err != nil {
		return err
	}

	if jsonMode {
		return printJSON(res, abs)
	}
	printReport(res)
	return nil
}

func printPhase(p engine.Phase, jsonMode bool) {
	if jsonMode {
		return
	}
	switch p {
	case engine.PhaseCounting:
		fmt.Println("🔍 Fase 1: Contando archivos...")
	case engine.PhaseHashing:
		fmt.Println("⚡ Fase 2: Hashing de prefijos...")
	case engine.PhaseConfirming:
		fmt.Println("🔬 Fase 3: Confirmando candidatos...")
	case engine.PhaseRanking:
		fmt.Println("📊 Fase 4: Ordenando resultados...")
	}
}

func printReport(res *entities.ScanResult) {
	if res.Status == entities.StatusCancelled {
		fmt.Println("\n🛑 Escaneo cancelado.")
		printWarnings(res.Warnings)
		return
	}

	fmt.Println("------------------------------------------------")
	if len(res.Groups) == 0 {
		color.Green("✅ ¡Limpio! No se encontraron duplicados.")
	} else {
		fmt.Println("🔴 DUPLICADOS ENCONTRADOS:")
		for _, g := range res.Groups {
			bold.Printf("   📦 Grupo de %d archivos (%s cada uno):\n", len(g.Paths), utils.FormatSize(g.Size))
			for _, p := range g.Paths {
				fmt.Printf("      📄 %s\n", p)
			}
			fmt.Println("")
		}
	}

	printWarnings(res.Warnings)

	fmt.Println("------------------------------------------------")
	fmt.Printf("🏁 Escaneo terminado en %s\n", res.Duration.Round(time.Millisecond))
	fmt.Printf("   📁 Archivos analizados: %d\n", res.TotalFiles)
	fmt.Printf("   📦 Grupos de duplicados: %d\n", len(res.Groups))
	fmt.Printf("   🗑️  Copias redundantes: %d\n", res.Duplicates)
	fmt.Printf("💾 Espacio recuperable: %s\n", utils.FormatSize(res.WastedBytes()))
}

func printWarnings(warns []entities.Warning) {
	if len(warns) == 0 {
		return
	}
	color.Yellow("⚠️  Avisos (%d):", len(warns))
	for _, w := range warns {
		color.Yellow("   - [%s] %s: %s", w.Code, w.Path, w.Detail)
	}
}

func printJSON(res *entities.ScanResult, root string) error {
	groups := res.Groups
	if groups == nil {
		groups = []entities.DuplicateGroup{}
	}

	report := Report{
		Summary: Summary{
			Status:            res.Status,
			TotalFilesScanned: res.TotalFiles,
			TotalDuplicates:   res.Duplicates,
			BytesSaved:        res.WastedBytes(),
			BytesSavedHuman:   utils.FormatSize(res.WastedBytes()),
		},
		Groups:   groups,
		Warnings: res.Warnings,
		Metadata: Metadata{
			ScannedPath: root,
			Version:     version,
			Timestamp:   time.Now(),
			Duration:    res.Duration.String(),
		},
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Error fatal: %v\n", err)
		os.Exit(1)
	}
}
