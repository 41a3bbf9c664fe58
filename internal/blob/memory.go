package blob

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"sync"
	"time"
)

// memoryStore keeps blobs in a map. Used in tests and as a zero-setup
// driver for throwaway stores.
type memoryStore struct {
	mu    sync.RWMutex
	blobs map[string]memoryEntry
}

type memoryEntry struct {
	data []byte
	info Info
}

// NewMemory returns an in-memory Store.
func NewMemory() Store {
	return &memoryStore{blobs: make(map[string]memoryEntry)}
}

func (s *memoryStore) Driver() Driver { return DriverMemory }

func (s *memoryStore) Put(ctx context.Context, key string, r io.Reader, opts PutOptions) (Info, error) {
	if _, err := sanitizeKey(key); err != nil {
		return Info{}, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return Info{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; ok {
		return Info{}, fmt.Errorf("blob %s already exists", key)
	}
	sum := sha256.Sum256(data)
	info := Info{
		Key:          key,
		Size:         int64(len(data)),
		ContentType:  opts.ContentType,
		ETag:         hex.EncodeToString(sum[:]),
		LastModified: time.Now().UTC(),
	}
	s.blobs[key] = memoryEntry{data: data, info: info}
	return info, nil
}

func (s *memoryStore) Get(ctx context.Context, key string) (Info, io.ReadCloser, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.blobs[key]
	if !ok {
		return Info{}, nil, fmt.Errorf("blob %s not found", key)
	}
	return entry.info, io.NopCloser(bytes.NewReader(entry.data)), nil
}

func (s *memoryStore) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blobs[key]; !ok {
		return false, nil
	}
	delete(s.blobs, key)
	return true, nil
}
