package utils

import "fmt"

// FormatSize convierte bytes a texto legible: "1000 B", "1.50 KB", "2.00 MB".
// Por debajo de 1 KB se muestran bytes enteros; a partir de ahí, dos
// decimales con umbrales en potencias de 1024. Por encima de TB no se
// escala más.
func FormatSize(bytes int64) string {
	if bytes < 1024 {
		return fmt.Sprintf("%d B", bytes)
	}

	size := float64(bytes)
	for _, unit := range []string{"KB", "MB", "GB"} {
		size /= 1024
		if size < 1024 {
			return fmt.Sprintf("%.2f %s", size, unit)
		}
	}
	return fmt.Sprintf("%.2f TB", size/1024)
}
