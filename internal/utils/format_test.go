package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"cero", 0, "0 B"},
		{"bytes justo bajo el umbral", 1023, "1023 B"},
		{"mil bytes siguen en B", 1000, "1000 B"},
		{"un KB exacto", 1024, "1.00 KB"},
		{"KB con decimales", 1536, "1.50 KB"},
		{"un MB exacto", 1024 * 1024, "1.00 MB"},
		{"cinco MB", 5 * 1024 * 1024, "5.00 MB"},
		{"un GB exacto", 1024 * 1024 * 1024, "1.00 GB"},
		{"un TB exacto", 1024 * 1024 * 1024 * 1024, "1.00 TB"},
		{"por encima de TB no se escala", 2048 * 1024 * 1024 * 1024 * 1024, "2048.00 TB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatSize(tt.bytes))
		})
	}
}
