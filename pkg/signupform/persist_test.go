package signupform

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	store := NewFilePersister(filepath.Join(t.TempDir(), "draft.json"))

	m := New(store)
	fillPersonal(t, m)
	require.NoError(t, m.Next())
	fillDemographics(t, m)
	require.NoError(t, m.Next())

	// Simulate a page reload.
	restored := New(store)
	require.Equal(t, m.Step(), restored.Step())
	require.Equal(t, m.Data(), restored.Data())

	// Validation is recomputed fresh, not restored: the completed steps read
	// as valid again, and no stale error messages survive the reload.
	require.True(t, restored.StepValid(StepPersonal))
	require.True(t, restored.StepValid(StepDemographics))
	require.False(t, restored.StepValid(StepInterests))
	require.Empty(t, restored.Errors())
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	store := NewFilePersister(filepath.Join(t.TempDir(), "nope.json"))
	m := New(store)
	require.Equal(t, StepPersonal, m.Step())
	require.Equal(t, Data{}, m.Data())
}

func TestCorruptSnapshotIgnored(t *testing.T) {
	store := NewFilePersister(filepath.Join(t.TempDir(), "draft.json"))
	require.NoError(t, store.Save([]byte("{not json")))
	m := New(store)
	require.Equal(t, StepPersonal, m.Step())
}

func TestSnapshotExcludesTransientState(t *testing.T) {
	store := NewFilePersister(filepath.Join(t.TempDir(), "draft.json"))
	m := New(store)
	fillPersonal(t, m)
	m.BeginSubmit()
	m.FailSubmit("gateway timeout")

	restored := New(store)
	require.False(t, restored.IsSubmitting())
	require.Empty(t, restored.SubmitError())
}
