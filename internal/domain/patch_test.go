package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestServerPatchApplyKeepsUntouchedFields(t *testing.T) {
	base := ServerConfig{
		ID:      "s1",
		Name:    "A",
		Type:    ServerTypeLocal,
		Command: []string{"npx", "-y", "pkg"},
		Enabled: true,
		Icon:    "📝",
	}
	disabled := false

	got := ServerPatch{Enabled: &disabled}.Apply(base)

	want := base.Clone()
	want.Enabled = false
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("patched config mismatch (-want +got):\n%s", diff)
	}
	require.True(t, base.Enabled)
}

func TestServerPatchReplacesEnvironmentWholesale(t *testing.T) {
	base := ServerConfig{
		ID:   "s1",
		Name: "A",
		Environment: []EnvVar{
			{Key: "A", Value: "1"},
			{Key: "B", Value: "2"},
		},
	}
	env := []EnvVar{{Key: "C", Value: "3"}}

	got := ServerPatch{Environment: &env}.Apply(base)

	require.Equal(t, []EnvVar{{Key: "C", Value: "3"}}, got.Environment)
	env[0].Value = "changed"
	require.Equal(t, "3", got.Environment[0].Value)
}

func TestServerPatchClearsOptionalField(t *testing.T) {
	base := ServerConfig{ID: "s1", Name: "A", Description: "old", Icon: "x"}
	empty := ""

	got := ServerPatch{Description: &empty}.Apply(base)

	require.Empty(t, got.Description)
	require.Equal(t, "x", got.Icon)
}

func TestServerPatchIsEmpty(t *testing.T) {
	require.True(t, ServerPatch{}.IsEmpty())
	name := "B"
	require.False(t, ServerPatch{Name: &name}.IsEmpty())
}
