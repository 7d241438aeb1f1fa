package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilPipelineMetricsIsNoop(t *testing.T) {
	var m *PipelineMetrics
	assert.NotPanics(t, func() {
		m.Generation(context.Background(), "ok")
		m.Stage(context.Background(), "prompt", time.Millisecond)
		m.ImageLookup(context.Background(), "miss")
	})
}

func TestNewPipelineMetrics(t *testing.T) {
	m, err := NewPipelineMetrics()
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.Generation(context.Background(), "ok")
		m.Stage(context.Background(), "invoke", 2*time.Second)
		m.ImageLookup(context.Background(), "hit")
	})
}
