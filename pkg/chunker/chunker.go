// Package chunker splits content into content-defined chunks using a
// buzhash rolling checksum, so identical runs of data land in identical,
// deduplicatable chunks regardless of their offset.
package chunker

import (
	"bytes"
	"fmt"
	"io"

	boxochunker "github.com/ipfs/boxo/chunker"

	"github.com/sigil-net/sigil/pkg/types"
)

// Chunk is one content-defined piece of a larger blob, addressed by the
// SHA3-256 hash of its data.
type Chunk struct {
	Hash types.Hash
	Data []byte
}

// ChunkBytes splits data into content-defined chunks.
func ChunkBytes(data []byte) ([]Chunk, error) {
	return ChunkReader(bytes.NewReader(data))
}

// ChunkReader splits the reader's content into content-defined chunks.
func ChunkReader(reader io.Reader) ([]Chunk, error) {
	bz := boxochunker.NewBuzhash(reader)

	var chunks []Chunk
	for {
		data, err := bz.NextBytes()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading chunk: %w", err)
		}
		chunks = append(chunks, Chunk{
			Hash: types.NewHash(data),
			Data: data,
		})
	}

	return chunks, nil
}
