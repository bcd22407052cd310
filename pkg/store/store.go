// Package store is a local content-addressed store. Content is split into
// content-defined chunks, compressed and keyed by SHA3-256 in badger; a
// JSON manifest ties the chunks together and its hash becomes the locator
// hash of the returned resource URL.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz/lzma"

	"github.com/sigil-net/sigil/internal/keyValStore"
	"github.com/sigil-net/sigil/pkg/chunker"
	"github.com/sigil-net/sigil/pkg/locator"
	"github.com/sigil-net/sigil/pkg/types"
)

var (
	chunkKeyPrefix    = []byte("c/")
	manifestKeyPrefix = []byte("m/")
)

type Store struct {
	kv   *keyValStore.KeyValStore
	base locator.Base
	log  *logrus.Logger
}

// manifest is the stored description of one blob: the ordered chunk list
// needed to reassemble it. Content type travels in the URL, not here.
type manifest struct {
	Size   int64    `json:"size"`
	Chunks []string `json:"chunks"`
}

func New(kv *keyValStore.KeyValStore, defaultBase locator.Base, log *logrus.Logger) *Store {
	if log == nil {
		log = logrus.New()
	}
	return &Store{kv: kv, base: defaultBase, log: log}
}

// Put stores data and returns the resource-form Locator addressing it.
func (s *Store) Put(data []byte, contentType locator.ContentType) (*locator.Locator, error) {
	chunks, err := chunker.ChunkBytes(data)
	if err != nil {
		return nil, fmt.Errorf("error chunking content: %w", err)
	}

	man := manifest{Size: int64(len(data))}
	for _, chunk := range chunks {
		exists, err := s.kv.Exists(chunkKey(chunk.Hash))
		if err != nil {
			return nil, err
		}
		if !exists {
			compressed, err := compressWithLzma(chunk.Data)
			if err != nil {
				return nil, fmt.Errorf("error compressing chunk %s: %w", chunk.Hash, err)
			}
			if err := s.kv.Write(chunkKey(chunk.Hash), compressed); err != nil {
				return nil, err
			}
		}
		man.Chunks = append(man.Chunks, chunk.Hash.String())
	}

	raw, err := json.Marshal(man)
	if err != nil {
		return nil, fmt.Errorf("error encoding manifest: %w", err)
	}
	manifestHash := types.NewHash(raw)
	if err := s.kv.Write(manifestKey(manifestHash), raw); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"hash":   manifestHash.String(),
		"size":   len(data),
		"chunks": len(man.Chunks),
	}).Debug("stored content")

	return locator.NewPublicBlob(manifestHash, contentType)
}

// PutURL is Put plus serialization with the store's default alphabet.
func (s *Store) PutURL(data []byte, contentType locator.ContentType) (string, error) {
	loc, err := s.Put(data, contentType)
	if err != nil {
		return "", err
	}
	return loc.ResourceString(s.base)
}

// Get reassembles the content a Locator addresses.
func (s *Store) Get(loc *locator.Locator) ([]byte, error) {
	raw, err := s.kv.Read(manifestKey(loc.Hash()))
	if err != nil {
		if keyValStore.IsNotFound(err) {
			return nil, fmt.Errorf("no content stored for %s", loc)
		}
		return nil, err
	}

	var man manifest
	if err := json.Unmarshal(raw, &man); err != nil {
		return nil, fmt.Errorf("error decoding manifest for %s: %w", loc, err)
	}

	data := make([]byte, 0, man.Size)
	for _, hexHash := range man.Chunks {
		chunkHash, err := types.HashFromHex(hexHash)
		if err != nil {
			return nil, fmt.Errorf("error decoding manifest for %s: %w", loc, err)
		}
		compressed, err := s.kv.Read(chunkKey(chunkHash))
		if err != nil {
			return nil, fmt.Errorf("error reading chunk %s: %w", chunkHash, err)
		}
		plain, err := decompressWithLzma(compressed)
		if err != nil {
			return nil, fmt.Errorf("error decompressing chunk %s: %w", chunkHash, err)
		}
		if types.NewHash(plain) != chunkHash {
			return nil, fmt.Errorf("chunk %s failed its hash check", chunkHash)
		}
		data = append(data, plain...)
	}

	return data, nil
}

// Has reports whether content for the Locator is stored locally.
func (s *Store) Has(loc *locator.Locator) (bool, error) {
	return s.kv.Exists(manifestKey(loc.Hash()))
}

func chunkKey(h types.Hash) []byte {
	return append(append([]byte{}, chunkKeyPrefix...), h[:]...)
}

func manifestKey(h types.Hash) []byte {
	return append(append([]byte{}, manifestKeyPrefix...), h[:]...)
}

func compressWithLzma(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompressWithLzma(data []byte) ([]byte, error) {
	r, err := lzma.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
