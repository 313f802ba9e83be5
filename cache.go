// Copyright 2026 Conductor OSS
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package docparse

import (
	"container/list"
	"sync"
	"time"
)

// Document is the cached result of one successful parse. Documents are
// immutable after creation.
type Document struct {
	ID       string
	Filename string
	Chunks   []string
}

// TotalChunks returns the number of chunks in the document.
func (d *Document) TotalChunks() int { return len(d.Chunks) }

// ChunkInfo is the result of a point lookup in the cache.
type ChunkInfo struct {
	DocumentID   string
	CurrentChunk int // 1-based, for display
	TotalChunks  int
	Content      string
}

// CacheConfig bounds the DocumentCache. A zero value in either field means
// that bound is not applied.
type CacheConfig struct {
	MaxDocuments int           // LRU eviction above this count
	MaxAge       time.Duration // documents older than this expire lazily
}

// DocumentCache stores parsed documents for point lookup by id and chunk
// index. It is safe for concurrent use. Eviction follows least-recently-used
// order; a Get refreshes a document's recency.
type DocumentCache struct {
	mu      sync.Mutex
	cfg     CacheConfig
	order   *list.List // front = most recently used; values are *cacheEntry
	entries map[string]*list.Element
	now     func() time.Time
}

type cacheEntry struct {
	doc      *Document
	storedAt time.Time
}

// NewDocumentCache creates a cache with the given bounds.
func NewDocumentCache(cfg CacheConfig) *DocumentCache {
	return &DocumentCache{
		cfg:     cfg,
		order:   list.New(),
		entries: make(map[string]*list.Element),
		now:     time.Now,
	}
}

// Put inserts a new document record. The chunk slice is copied so the
// stored document cannot be mutated afterwards.
func (c *DocumentCache) Put(documentID, filename string, chunks []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.entries[documentID]; ok {
		return &DuplicateIDError{DocumentID: documentID}
	}

	doc := &Document{
		ID:       documentID,
		Filename: filename,
		Chunks:   append([]string(nil), chunks...),
	}
	elem := c.order.PushFront(&cacheEntry{doc: doc, storedAt: c.now()})
	c.entries[documentID] = elem

	c.evictLocked()
	return nil
}

// Get returns the chunk at chunkIndex for documentID. Expired documents
// behave as if absent.
func (c *DocumentCache) Get(documentID string, chunkIndex int) (ChunkInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[documentID]
	if !ok {
		return ChunkInfo{}, &UnknownDocumentError{DocumentID: documentID}
	}

	entry := elem.Value.(*cacheEntry)
	if c.expired(entry) {
		c.removeLocked(elem)
		return ChunkInfo{}, &UnknownDocumentError{DocumentID: documentID}
	}

	doc := entry.doc
	if chunkIndex < 0 || chunkIndex >= len(doc.Chunks) {
		return ChunkInfo{}, &IndexOutOfRangeError{
			DocumentID: documentID,
			Index:      chunkIndex,
			Total:      len(doc.Chunks),
		}
	}

	c.order.MoveToFront(elem)
	return ChunkInfo{
		DocumentID:   documentID,
		CurrentChunk: chunkIndex + 1,
		TotalChunks:  len(doc.Chunks),
		Content:      doc.Chunks[chunkIndex],
	}, nil
}

// Len returns the number of live (non-expired) documents.
func (c *DocumentCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		if c.expired(elem.Value.(*cacheEntry)) {
			c.removeLocked(elem)
		} else {
			n++
		}
		elem = next
	}
	return n
}

func (c *DocumentCache) expired(e *cacheEntry) bool {
	return c.cfg.MaxAge > 0 && c.now().Sub(e.storedAt) > c.cfg.MaxAge
}

// evictLocked drops least-recently-used documents until the count bound is
// satisfied. Callers must hold c.mu.
func (c *DocumentCache) evictLocked() {
	if c.cfg.MaxDocuments <= 0 {
		return
	}
	for len(c.entries) > c.cfg.MaxDocuments {
		oldest := c.order.Back()
		if oldest == nil {
			return
		}
		c.removeLocked(oldest)
	}
}

func (c *DocumentCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.entries, entry.doc.ID)
	c.order.Remove(elem)
}
