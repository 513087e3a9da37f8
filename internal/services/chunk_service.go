package services

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/triplog/server/internal/models"
)

// ChunkFilename returns the storage name for one part of a chunked upload.
// The index is zero-padded to the decimal digit width of totalParts so that
// sorting the chunk directory lexicographically reproduces numeric order.
func ChunkFilename(index, totalParts int) string {
	digits := len(fmt.Sprintf("%d", totalParts))
	return fmt.Sprintf("%0*d", digits, index)
}

// CombineChunks concatenates every file in chunkDir, in sorted order, into
// destinationPath, then removes chunkDir. The destination stays open across
// chunks and is closed exactly once. On a per-chunk read error the
// destination is closed and left incomplete; the error tells the caller not
// to trust it. A failure to remove chunkDir after a successful combine is
// logged but not fatal, the finished file is already correct.
func CombineChunks(chunkDir, destinationPath string) error {
	entries, err := os.ReadDir(chunkDir)
	if err != nil {
		log.Printf("Problem listing chunks in %s: %v", chunkDir, err)
		return fmt.Errorf("%w: %v", models.ErrChunkList, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	// Truncate so a retry after a failed combine never appends to a stale
	// partial file
	dest, err := os.OpenFile(destinationPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrCombine, err)
	}

	for _, name := range names {
		if err := appendChunk(dest, filepath.Join(chunkDir, name)); err != nil {
			dest.Close()
			log.Printf("Problem appending chunk %s: %v", name, err)
			return fmt.Errorf("%w: %v", models.ErrCombine, err)
		}
	}

	if err := dest.Close(); err != nil {
		return fmt.Errorf("%w: %v", models.ErrCombine, err)
	}

	if err := os.RemoveAll(chunkDir); err != nil {
		log.Printf("Problem deleting chunks dir %s: %v", chunkDir, err)
	}

	return nil
}

func appendChunk(dest *os.File, chunkPath string) error {
	src, err := os.Open(chunkPath)
	if err != nil {
		return err
	}
	defer src.Close()

	_, err = io.Copy(dest, src)
	return err
}
