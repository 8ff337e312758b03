package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCapturedOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	t.Cleanup(func() { SetVerbose(false) })

	SetVerbose(false)
	require.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_FormatAndPrefix(t *testing.T) {
	buf := withCapturedOutput(t)
	SetVerbose(true)

	Debug("chunked %d dossiers", 3)
	Info("stored %s", "embeddings")
	Warn("empty advisory field")
	Section("Ingest")

	out := buf.String()
	assert.Contains(t, out, "[DEBUG] chunked 3 dossiers\n")
	assert.Contains(t, out, "[INFO] stored embeddings\n")
	assert.Contains(t, out, "[WARN] empty advisory field\n")
	assert.Contains(t, out, "\n=== Ingest ===\n")
}

func TestSilentWhenNotVerbose(t *testing.T) {
	buf := withCapturedOutput(t)
	SetVerbose(false)

	Debug("hidden")
	Info("hidden")
	Warn("hidden")
	Section("hidden")

	assert.Zero(t, buf.Len())
}

func TestConcurrentUse(t *testing.T) {
	withCapturedOutput(t)

	// Exercised under -race to catch unsynchronized state access.
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("worker %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}
