package services

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkFilename(t *testing.T) {
	tests := []struct {
		name       string
		index      int
		totalParts int
		expected   string
	}{
		{"single part", 0, 1, "0"},
		{"nine parts single digit", 8, 9, "8"},
		{"ten parts pads to two", 0, 10, "00"},
		{"ten parts last", 9, 10, "09"},
		{"ninety-nine parts", 42, 99, "42"},
		{"hundred parts pads to three", 7, 100, "007"},
		{"hundred parts last", 99, 100, "099"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ChunkFilename(tt.index, tt.totalParts))
		})
	}

	t.Run("lexicographic order matches numeric order", func(t *testing.T) {
		totalParts := 10000

		names := make([]string, totalParts)
		for i := 0; i < totalParts; i++ {
			names[i] = ChunkFilename(i, totalParts)
		}

		sorted := make([]string, totalParts)
		copy(sorted, names)
		sort.Strings(sorted)

		assert.Equal(t, names, sorted)
	})
}

func TestCombineChunks(t *testing.T) {
	writeChunk := func(t *testing.T, dir string, index, totalParts int, content string) {
		t.Helper()
		path := filepath.Join(dir, ChunkFilename(index, totalParts))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	t.Run("concatenates chunks in part order", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "triplog-test-*")
		require.NoError(t, err)
		defer os.RemoveAll(tempDir)

		chunkDir := filepath.Join(tempDir, "chunks")
		require.NoError(t, os.MkdirAll(chunkDir, 0755))

		writeChunk(t, chunkDir, 0, 3, "A")
		writeChunk(t, chunkDir, 1, 3, "B")
		writeChunk(t, chunkDir, 2, 3, "C")

		dest := filepath.Join(tempDir, "photo.jpg")
		require.NoError(t, CombineChunks(chunkDir, dest))

		content, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "ABC", string(content))
	})

	t.Run("order is independent of write order", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "triplog-test-*")
		require.NoError(t, err)
		defer os.RemoveAll(tempDir)

		chunkDir := filepath.Join(tempDir, "chunks")
		require.NoError(t, os.MkdirAll(chunkDir, 0755))

		// Written out of order, combined in part order
		writeChunk(t, chunkDir, 2, 3, "third")
		writeChunk(t, chunkDir, 0, 3, "first")
		writeChunk(t, chunkDir, 1, 3, "second")

		dest := filepath.Join(tempDir, "photo.jpg")
		require.NoError(t, CombineChunks(chunkDir, dest))

		content, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "firstsecondthird", string(content))
	})

	t.Run("overwrites a stale destination from an earlier attempt", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "triplog-test-*")
		require.NoError(t, err)
		defer os.RemoveAll(tempDir)

		chunkDir := filepath.Join(tempDir, "chunks")
		require.NoError(t, os.MkdirAll(chunkDir, 0755))

		writeChunk(t, chunkDir, 0, 2, "AA")
		writeChunk(t, chunkDir, 1, 2, "BB")

		// Leftover of a combine that failed partway through a retry earlier
		dest := filepath.Join(tempDir, "photo.jpg")
		require.NoError(t, os.WriteFile(dest, []byte("stale partial bytes"), 0644))

		require.NoError(t, CombineChunks(chunkDir, dest))

		content, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, "AABB", string(content))
	})

	t.Run("removes chunk directory after combining", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "triplog-test-*")
		require.NoError(t, err)
		defer os.RemoveAll(tempDir)

		chunkDir := filepath.Join(tempDir, "chunks")
		require.NoError(t, os.MkdirAll(chunkDir, 0755))
		writeChunk(t, chunkDir, 0, 1, "only")

		dest := filepath.Join(tempDir, "photo.jpg")
		require.NoError(t, CombineChunks(chunkDir, dest))

		_, err = os.Stat(chunkDir)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("handles many chunks past the padding boundary", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "triplog-test-*")
		require.NoError(t, err)
		defer os.RemoveAll(tempDir)

		chunkDir := filepath.Join(tempDir, "chunks")
		require.NoError(t, os.MkdirAll(chunkDir, 0755))

		totalParts := 12
		var expected string
		for i := 0; i < totalParts; i++ {
			part := fmt.Sprintf("[%d]", i)
			writeChunk(t, chunkDir, i, totalParts, part)
			expected += part
		}

		dest := filepath.Join(tempDir, "photo.jpg")
		require.NoError(t, CombineChunks(chunkDir, dest))

		content, err := os.ReadFile(dest)
		require.NoError(t, err)
		assert.Equal(t, expected, string(content))
	})

	t.Run("fails when chunk directory is missing", func(t *testing.T) {
		tempDir, err := os.MkdirTemp("", "triplog-test-*")
		require.NoError(t, err)
		defer os.RemoveAll(tempDir)

		err = CombineChunks(filepath.Join(tempDir, "missing"), filepath.Join(tempDir, "photo.jpg"))
		assert.Error(t, err)
	})
}
