package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalSinkAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics", "confidence.log")

	sink, err := NewLocalSink(path)
	require.NoError(t, err)
	defer sink.Close()

	require.NoError(t, sink.Append(context.Background(), []byte(`{"confidence":0.8}`+"\n")))
	require.NoError(t, sink.Append(context.Background(), []byte(`{"confidence":0.4}`+"\n")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 2)
	require.Equal(t, `{"confidence":0.8}`, lines[0])
}

func TestLocalSinkConcurrentAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confidence.log")

	sink, err := NewLocalSink(path)
	require.NoError(t, err)
	defer sink.Close()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sink.Append(context.Background(), []byte(`{"confidence":0.5}`+"\n"))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 100)
	for _, line := range lines {
		// Records never interleave
		require.Equal(t, `{"confidence":0.5}`, line)
	}
}

func TestNewSinkLocal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confidence.log")

	sink, err := NewSink(SinkConfig{Type: SinkTypeLocal, LocalPath: path})
	require.NoError(t, err)
	require.NotNil(t, sink)

	local, ok := sink.(*LocalSink)
	require.True(t, ok)
	require.NoError(t, local.Close())
}
