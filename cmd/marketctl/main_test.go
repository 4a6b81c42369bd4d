package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"companions/internal/domain"
)

func TestParsePlanOverride(t *testing.T) {
	now := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

	o, err := parsePlanOverride("user_1", "VIP", 0, now)
	require.NoError(t, err)
	assert.Equal(t, domain.PlanVIP, o.plan)
	require.NotNil(t, o.expiresAt)
	assert.Equal(t, now.AddDate(0, 0, 30), *o.expiresAt)

	o, err = parsePlanOverride("user_1", "plus", 3, now)
	require.NoError(t, err)
	assert.Equal(t, now.AddDate(0, 0, 3), *o.expiresAt)

	o, err = parsePlanOverride("user_1", "free", 10, now)
	require.NoError(t, err)
	assert.Nil(t, o.expiresAt)

	_, err = parsePlanOverride("user_1", "gold", 0, now)
	assert.Error(t, err)

	_, err = parsePlanOverride("user_1", "basico", -1, now)
	assert.Error(t, err)
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, path := range [][]string{
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "version"},
		{"companion", "verify"},
		{"companion", "suspend"},
		{"plan", "set"},
		{"entitlement", "sync"},
	} {
		cmd, _, err := root.Find(path)
		require.NoError(t, err, path)
		assert.Equal(t, path[len(path)-1], cmd.Name())
	}
}

func TestPlanSetRejectsUnknownPlanBeforeConnecting(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"plan", "set", "user_1", "gold"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported plan")
}
