package services

import (
	"crypto/md5"
	"encoding/hex"
	"sync"
)

const (
	tokenKeyLen = 10
	maxTokens   = 100
)

// TokenStore maps short opaque keys to full request URLs so a key fits in a
// component custom-ID. Bounded: once full, the oldest half by insertion
// order is evicted to make room.
type TokenStore struct {
	mu    sync.Mutex
	urls  map[string]string
	order []string
}

func NewTokenStore() *TokenStore {
	return &TokenStore{urls: make(map[string]string)}
}

// Put stores url and returns its key. The key is a content hash, so the
// same URL always maps to the same key, and re-putting a stored URL keeps
// its original eviction slot.
func (s *TokenStore) Put(url string) string {
	sum := md5.Sum([]byte(url))
	key := hex.EncodeToString(sum[:])[:tokenKeyLen]

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.urls[key]; exists {
		return key
	}

	if len(s.urls) >= maxTokens {
		evict := len(s.urls) / 2
		for _, old := range s.order[:evict] {
			delete(s.urls, old)
		}
		s.order = append(s.order[:0], s.order[evict:]...)
	}

	s.urls[key] = url
	s.order = append(s.order, key)
	return key
}

// Get looks up a key. A miss means the link expired and the user has to
// resubmit the URL.
func (s *TokenStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	url, ok := s.urls[key]
	return url, ok
}

func (s *TokenStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.urls)
}
