package store

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Items map[string]int `json:"items"`
	Note  string         `json:"note,omitempty"`
}

func emptySample() sample {
	return sample{Items: map[string]int{}}
}

type failingBackend struct{}

func (failingBackend) Read(string) ([]byte, error) { return nil, stderrors.New("io error") }
func (failingBackend) Write(string, []byte) error  { return stderrors.New("io error") }

func TestFileBackendRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	doc := NewDocument(NewFileBackend(dir), TrackerData, emptySample)

	assert.Equal(t, emptySample(), doc.Load(), "absent document loads empty")

	require.NoError(t, doc.Save(sample{Items: map[string]int{"alpha": 40}}))

	raw, err := os.ReadFile(filepath.Join(dir, "trackerdata.json"))
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"items\": {\n    \"alpha\": 40\n  }\n}", string(raw))

	assert.Equal(t, 40, doc.Load().Items["alpha"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files are renamed away")
}

func TestMalformedDocumentLoadsEmpty(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "strikerdata.json"), []byte("{not json"), 0644))

	doc := NewDocument(NewFileBackend(dir), StrikerData, emptySample)
	assert.Equal(t, emptySample(), doc.Load())

	err := doc.Update(func(v *sample) error {
		v.Items["kira"] = 1
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Load().Items["kira"])
}

func TestUpdateAbortsOnCallbackError(t *testing.T) {
	doc := NewDocument(NewFileBackend(t.TempDir()), StrikerConfig, emptySample)
	require.NoError(t, doc.Save(sample{Items: map[string]int{"a": 1}}))

	boom := stderrors.New("validation")
	err := doc.Update(func(v *sample) error {
		v.Items["a"] = 99
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, doc.Load().Items["a"])
}

func TestUpdateDoesNotOverwriteOnReadFailure(t *testing.T) {
	doc := NewDocument[sample](failingBackend{}, TrackerData, emptySample)

	called := false
	err := doc.Update(func(v *sample) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
	assert.Equal(t, emptySample(), doc.Load())
}

func TestMongoBackendOffline(t *testing.T) {
	b := NewMongoBackend(database.NewDatabase())

	_, err := b.Read(TrackerData)
	assert.ErrorIs(t, err, errOffline)

	require.NoError(t, b.Write(TrackerData, []byte(`{"items":{"x":2}}`)))

	data, err := b.Read(TrackerData)
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":{"x":2}}`, string(data))

	doc := NewDocument[sample](b, TrackerData, emptySample)
	assert.Equal(t, 2, doc.Load().Items["x"])
}
