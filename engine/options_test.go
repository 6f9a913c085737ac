package engine_test

import (
	"testing"
	"time"

	"github.com/katalvlaran/balance/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultOptions(t *testing.T) {
	o := engine.DefaultOptions()
	assert.Equal(t, engine.Auto, o.Strategy)
	assert.Equal(t, engine.DefaultTolerance, o.Tolerance)
	assert.Equal(t, engine.DefaultAutoThreshold, o.AutoThreshold)
	assert.Positive(t, o.Parallelism)
	assert.NotNil(t, o.Logger)
	require.NoError(t, o.Validate())
}

func TestNewOptionsApplies(t *testing.T) {
	o := engine.NewOptions(
		engine.WithStrategy(engine.InteriorPoint),
		engine.WithTolerance(1e-7),
		engine.WithMaxIterations(10),
		engine.WithTimeLimit(time.Second),
		engine.WithSensitivity(true),
		engine.WithCrossover(true),
		engine.WithBlandAfter(3),
		engine.WithRefactorEvery(8),
		engine.WithParallelism(2),
		engine.WithLogger(nil),
		nil,
	)
	assert.Equal(t, engine.InteriorPoint, o.Strategy)
	assert.Equal(t, 1e-7, o.Tolerance)
	assert.Equal(t, 10, o.MaxIterations)
	assert.Equal(t, time.Second, o.TimeLimit)
	assert.True(t, o.ComputeSensitivity)
	assert.True(t, o.Crossover)
	assert.Equal(t, 3, o.BlandAfter)
	assert.Equal(t, 8, o.RefactorEvery)
	assert.Equal(t, 2, o.Parallelism)
	assert.NotNil(t, o.Logger)
}

func TestOptionPanics(t *testing.T) {
	assert.Panics(t, func() { engine.WithTolerance(0) })
	assert.Panics(t, func() { engine.WithMaxIterations(-1) })
	assert.Panics(t, func() { engine.WithTimeLimit(-time.Second) })
	assert.Panics(t, func() { engine.WithAutoThreshold(0) })
	assert.Panics(t, func() { engine.WithBlandAfter(-1) })
	assert.Panics(t, func() { engine.WithRefactorEvery(0) })
	assert.Panics(t, func() { engine.WithParallelism(0) })
}

func TestValidate(t *testing.T) {
	o := engine.DefaultOptions()
	o.Parallelism = 0
	require.ErrorIs(t, o.Validate(), engine.ErrInvalidOptions)

	o = engine.DefaultOptions()
	o.Tolerance = -1
	require.ErrorIs(t, o.Validate(), engine.ErrInvalidOptions)
}

func TestParseStrategy(t *testing.T) {
	cases := map[string]engine.Strategy{
		"":               engine.Auto,
		"AUTO":           engine.Auto,
		"simplex":        engine.Simplex,
		"interior-point": engine.InteriorPoint,
		"ipm":            engine.InteriorPoint,
	}
	for in, want := range cases {
		got, err := engine.ParseStrategy(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		if in != "" && in != "ipm" && in != "AUTO" {
			assert.Equal(t, in, got.String())
		}
	}
	_, err := engine.ParseStrategy("barrier")
	require.ErrorIs(t, err, engine.ErrInvalidOptions)
}
