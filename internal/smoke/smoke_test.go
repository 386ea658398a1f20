package smoke

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunner_AllPass(t *testing.T) {
	var out bytes.Buffer
	ran := []string{}
	r := &Runner{
		Out: &out,
		Checks: []Check{
			{Name: "first", Run: func(context.Context) error { ran = append(ran, "first"); return nil }},
			{Name: "second", Run: func(context.Context) error { ran = append(ran, "second"); return nil }},
		},
	}

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, []string{"first", "second"}, ran)
	assert.Equal(t, "ok   first\nok   second\n", out.String())
}

func TestRunner_FailFast(t *testing.T) {
	var out bytes.Buffer
	boom := errors.New("connection refused")
	reached := false
	r := &Runner{
		Out: &out,
		Checks: []Check{
			{Name: "passes", Run: func(context.Context) error { return nil }},
			{Name: "breaks", Run: func(context.Context) error { return boom }},
			{Name: "never runs", Run: func(context.Context) error { reached = true; return nil }},
		},
	}

	err := r.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `"breaks"`)
	assert.False(t, reached, "checks after the failure must not run")
	assert.Contains(t, out.String(), "FAIL breaks: connection refused")
}

func TestDefaultChecks_Order(t *testing.T) {
	checks := DefaultChecks(nil, nil)

	require.Len(t, checks, 13, "ping + 11 entity tables + vault")
	assert.Equal(t, "database ping", checks[0].Name)
	assert.Equal(t, "count documents", checks[1].Name)
	assert.Equal(t, "count notification_logs", checks[11].Name)
	assert.Equal(t, "vault index", checks[12].Name)
}
