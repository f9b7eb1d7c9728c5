package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDuplicateGroupWastedBytes(t *testing.T) {
	g := DuplicateGroup{Size: 100, Paths: []string{"a", "b", "c"}}
	assert.Equal(t, int64(200), g.WastedBytes())

	assert.Zero(t, DuplicateGroup{Size: 100, Paths: []string{"solo"}}.WastedBytes())
	assert.Zero(t, DuplicateGroup{}.WastedBytes())
}

func TestScanResultWastedBytes(t *testing.T) {
	r := ScanResult{Groups: []DuplicateGroup{
		{Size: 100, Paths: []string{"a", "b"}},
		{Size: 50, Paths: []string{"c", "d", "e"}},
	}}
	assert.Equal(t, int64(200), r.WastedBytes())
}
