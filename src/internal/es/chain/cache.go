// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package eschain

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	escerts "github.com/H0llyW00dzZ/nx-cert-chain-resolver/src/internal/es/certs"
)

// CertCacheEntry represents a cached raw certificate with metadata
type CertCacheEntry struct {
	Data      []byte    // Raw signed certificate bytes
	FetchedAt time.Time // When this certificate was read from the store
	Path      string    // Store path for debugging
}

// isFresh checks if the cached certificate is still within its TTL
func (entry *CertCacheEntry) isFresh(ttl time.Duration) bool {
	return entry.FetchedAt.After(time.Now().Add(-ttl))
}

// isExpired checks if the certificate has aged out and should be cleaned up
func (entry *CertCacheEntry) isExpired(ttl time.Duration) bool {
	// Allow a grace period beyond the TTL before cleanup removes the entry
	return entry.FetchedAt.Before(time.Now().Add(-ttl - time.Hour))
}

// CertCacheConfig holds configuration for the certificate cache
type CertCacheConfig struct {
	MaxSize         int           // Maximum number of certificates to cache (0 = unlimited, but not recommended)
	TTL             time.Duration // How long a cached certificate stays fresh (default: 1 hour)
	CleanupInterval time.Duration // How often to run cleanup (default: 1 hour)
}

// CertCacheMetrics tracks cache performance and usage
type CertCacheMetrics struct {
	Size        int64 // Current number of cached certificates
	Hits        int64 // Number of cache hits
	Misses      int64 // Number of cache misses
	Evictions   int64 // Number of LRU evictions
	Cleanups    int64 // Number of expired certificate cleanups
	TotalMemory int64 // Approximate memory usage in bytes
}

// Default certificate cache configuration
var defaultCertCacheConfig = CertCacheConfig{
	MaxSize:         100,
	TTL:             1 * time.Hour,
	CleanupInterval: 1 * time.Hour,
}

// certCacheState bundles every piece of cache state so tests can assert on
// the cleanup lifecycle without chasing loose globals.
type certCacheState struct {
	mu             sync.RWMutex
	entries        map[string]*CertCacheEntry
	order          []string // Maintains access order for LRU eviction
	config         atomic.Value
	metrics        CertCacheMetrics
	cleanupRunning int32 // Atomic flag to ensure only one cleanup goroutine
	stop           chan struct{}
}

var certCache = certCacheState{
	entries: make(map[string]*CertCacheEntry),
}

func init() {
	certCache.config.Store(&defaultCertCacheConfig)
}

// SetCertCacheConfig sets the certificate cache configuration
func SetCertCacheConfig(config *CertCacheConfig) {
	cfg := &CertCacheConfig{
		MaxSize:         defaultCertCacheConfig.MaxSize,
		TTL:             defaultCertCacheConfig.TTL,
		CleanupInterval: defaultCertCacheConfig.CleanupInterval,
	}

	if config != nil {
		cfg.MaxSize = config.MaxSize
		cfg.TTL = config.TTL
		cfg.CleanupInterval = config.CleanupInterval
	}

	// Validate configuration
	if cfg.MaxSize < 0 {
		cfg.MaxSize = 0 // 0 means unlimited, but not recommended
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 1 * time.Hour
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 1 * time.Hour
	}

	// Store a copy to prevent external mutation
	certCache.config.Store(&CertCacheConfig{
		MaxSize:         cfg.MaxSize,
		TTL:             cfg.TTL,
		CleanupInterval: cfg.CleanupInterval,
	})

	pruneCertCache(cfg.MaxSize)
}

func pruneCertCache(maxSize int) {
	if maxSize <= 0 {
		return
	}

	certCache.mu.Lock()
	defer certCache.mu.Unlock()

	if len(certCache.entries) <= maxSize {
		return
	}

	removed := int64(0)
	for len(certCache.entries) > maxSize {
		if len(certCache.order) == 0 {
			break
		}

		lruPath := certCache.order[0]
		delete(certCache.entries, lruPath)
		certCache.order = certCache.order[1:]
		removed++
	}

	if removed > 0 {
		atomic.AddInt64(&certCache.metrics.Evictions, removed)
	}
}

// GetCertCacheConfig returns the current certificate cache configuration
func GetCertCacheConfig() *CertCacheConfig {
	config := certCache.config.Load().(*CertCacheConfig)
	// Return a copy to prevent external mutation
	return &CertCacheConfig{
		MaxSize:         config.MaxSize,
		TTL:             config.TTL,
		CleanupInterval: config.CleanupInterval,
	}
}

// GetCertCacheMetrics returns current cache metrics
func GetCertCacheMetrics() CertCacheMetrics {
	certCache.mu.RLock()
	defer certCache.mu.RUnlock()

	// Calculate total memory usage
	var totalMemory int64
	for _, entry := range certCache.entries {
		totalMemory += int64(len(entry.Data)) + int64(len(entry.Path)) + 24 // Approximate overhead
	}

	metrics := certCache.metrics
	metrics.Size = int64(len(certCache.entries))
	metrics.TotalMemory = totalMemory

	return metrics
}

// StartCertCacheCleanup starts the background cleanup goroutine. Only one
// cleanup goroutine runs at a time; repeated calls are no-ops while one is
// active. The goroutine exits when ctx is cancelled or StopCertCacheCleanup
// is called.
func StartCertCacheCleanup(ctx context.Context) {
	if !atomic.CompareAndSwapInt32(&certCache.cleanupRunning, 0, 1) {
		return
	}

	stop := make(chan struct{})
	certCache.mu.Lock()
	certCache.stop = stop
	certCache.mu.Unlock()

	go func() {
		defer atomic.StoreInt32(&certCache.cleanupRunning, 0)

		ticker := time.NewTicker(GetCertCacheConfig().CleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-stop:
				return
			case <-ticker.C:
				cleanupExpiredCerts()
				// Update ticker interval in case config changed
				ticker.Reset(GetCertCacheConfig().CleanupInterval)
			}
		}
	}()
}

// StopCertCacheCleanup stops the background cleanup goroutine if one is
// running.
func StopCertCacheCleanup() {
	certCache.mu.Lock()
	stop := certCache.stop
	certCache.stop = nil
	certCache.mu.Unlock()

	if stop != nil {
		close(stop)
	}
}

// cleanupExpiredCerts removes certificates that have aged beyond the TTL
func cleanupExpiredCerts() {
	ttl := GetCertCacheConfig().TTL

	certCache.mu.Lock()
	defer certCache.mu.Unlock()

	var expiredPaths []string
	for path, entry := range certCache.entries {
		if entry.isExpired(ttl) {
			expiredPaths = append(expiredPaths, path)
		}
	}

	// Remove expired entries
	for _, path := range expiredPaths {
		delete(certCache.entries, path)
		// Also remove from access order
		for i, p := range certCache.order {
			if p == path {
				certCache.order = append(certCache.order[:i], certCache.order[i+1:]...)
				break
			}
		}
	}

	if len(expiredPaths) > 0 {
		atomic.AddInt64(&certCache.metrics.Cleanups, int64(len(expiredPaths)))
	}
}

// updateCacheOrder updates the access order for LRU eviction
func updateCacheOrder(path string) {
	// Remove from current position
	for i, p := range certCache.order {
		if p == path {
			certCache.order = append(certCache.order[:i], certCache.order[i+1:]...)
			break
		}
	}
	// Add to end (most recently used)
	certCache.order = append(certCache.order, path)
}

// GetCachedCert retrieves a fresh certificate from cache and updates access
// order
func GetCachedCert(path string) ([]byte, bool) {
	certCache.mu.Lock()
	defer certCache.mu.Unlock()

	entry, exists := certCache.entries[path]
	if !exists || !entry.isFresh(GetCertCacheConfig().TTL) {
		atomic.AddInt64(&certCache.metrics.Misses, 1)
		return nil, false
	}

	atomic.AddInt64(&certCache.metrics.Hits, 1)

	// Update access order (move to end for LRU)
	updateCacheOrder(path)

	// Return a copy to prevent external modification
	dataCopy := make([]byte, len(entry.Data))
	copy(dataCopy, entry.Data)
	return dataCopy, true
}

// SetCachedCert stores a raw certificate in cache and implements LRU eviction.
// The data must look like a signed certificate: entries outside the valid
// size bounds are rejected rather than cached.
func SetCachedCert(path string, data []byte) error {
	if path == "" {
		return fmt.Errorf("eschain: cache path is empty")
	}
	if len(data) < escerts.SignedCertMinSize || len(data) > escerts.SignedCertMaxSize {
		return fmt.Errorf("eschain: refusing to cache %d bytes at %q: %w", len(data), path, escerts.ErrSizeOutOfRange)
	}

	certCache.mu.Lock()
	defer certCache.mu.Unlock()

	config := GetCertCacheConfig()

	// Evict least recently used entry if cache is full
	for len(certCache.entries) >= config.MaxSize && config.MaxSize > 0 {
		if len(certCache.order) > 0 {
			// Remove the least recently used (first in order)
			lruPath := certCache.order[0]
			delete(certCache.entries, lruPath)
			certCache.order = certCache.order[1:]
			atomic.AddInt64(&certCache.metrics.Evictions, 1)
		} else {
			break // No more entries to evict
		}
	}

	// Make a copy of the data to store
	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)

	certCache.entries[path] = &CertCacheEntry{
		Data:      dataCopy,
		FetchedAt: time.Now(),
		Path:      path,
	}

	// Add to access order (most recently used)
	updateCacheOrder(path)

	return nil
}

// ClearCertCache clears all cached certificates (useful for testing)
func ClearCertCache() {
	certCache.mu.Lock()
	defer certCache.mu.Unlock()

	certCache.entries = make(map[string]*CertCacheEntry)
	certCache.order = nil

	// Reset metrics
	atomic.StoreInt64(&certCache.metrics.Hits, 0)
	atomic.StoreInt64(&certCache.metrics.Misses, 0)
	atomic.StoreInt64(&certCache.metrics.Evictions, 0)
	atomic.StoreInt64(&certCache.metrics.Cleanups, 0)
}

// CleanupExpiredCerts removes certificates that have aged beyond the TTL
func CleanupExpiredCerts() {
	cleanupExpiredCerts()
}

// GetCertCacheStats returns a formatted string with cache statistics
func GetCertCacheStats() string {
	metrics := GetCertCacheMetrics()
	config := GetCertCacheConfig()

	hitRate := float64(0)
	totalRequests := metrics.Hits + metrics.Misses
	if totalRequests > 0 {
		hitRate = float64(metrics.Hits) / float64(totalRequests) * 100
	}

	return fmt.Sprintf("Certificate Cache Statistics:\n"+
		"  Size: %d/%d entries\n"+
		"  Memory Usage: %.2f KB\n"+
		"  Hit Rate: %.1f%% (%d hits, %d misses)\n"+
		"  Evictions: %d\n"+
		"  Cleanups: %d\n"+
		"  TTL: %v\n"+
		"  Cleanup Interval: %v",
		metrics.Size, config.MaxSize,
		float64(metrics.TotalMemory)/1024,
		hitRate, metrics.Hits, metrics.Misses,
		metrics.Evictions,
		metrics.Cleanups,
		config.TTL,
		config.CleanupInterval)
}
