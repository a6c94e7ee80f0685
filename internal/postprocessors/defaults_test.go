package postprocessors

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/studymate/internal/core/domain"
)

func TestNewChunker(t *testing.T) {
	tests := []struct {
		name        string
		settings    domain.ChunkerSettings
		wantSize    int
		wantOverlap int
	}{
		{"explicit", domain.ChunkerSettings{ChunkSize: 500, Overlap: 50}, 500, 50},
		{"zero size uses default", domain.ChunkerSettings{ChunkSize: 0, Overlap: 10}, 1000, 10},
		{"overlap too large falls back", domain.ChunkerSettings{ChunkSize: 100, Overlap: 100}, 100, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChunker(tt.settings)
			assert.Equal(t, tt.wantSize, c.Size())
			assert.Equal(t, tt.wantOverlap, c.Overlap())
		})
	}
}
