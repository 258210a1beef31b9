package memtable

import "sync"

// defaultBaseBlockSize is the default block size of the index's value
// arena and the default structural capacity of the first trie in the trie
// vector. Each subsequent trie doubles its predecessor's capacity.
const defaultBaseBlockSize = 4096

// arena is a bump allocator. Memory handed out by Allocate is never
// individually freed; the whole arena (and therefore every value it
// backs) is reclaimed when the owning index is dropped.
type arena struct {
	mu        sync.Mutex
	blockSize int
	blocks    [][]byte
	used      int64 // bytes handed out, across all blocks
}

func newArena(blockSize int) *arena {
	if blockSize <= 0 {
		blockSize = defaultBaseBlockSize
	}
	return &arena{blockSize: blockSize}
}

// allocate returns a zeroed slice of exactly n bytes. The returned slice's
// backing array is never reallocated, so its address is stable for the
// arena's lifetime.
func (a *arena) allocate(n int) []byte {
	a.mu.Lock()
	defer a.mu.Unlock()

	if n <= 0 {
		return nil
	}

	if len(a.blocks) > 0 {
		last := a.blocks[len(a.blocks)-1]
		if spare := cap(last) - len(last); spare >= n {
			grown := last[:len(last)+n]
			a.blocks[len(a.blocks)-1] = grown
			a.used += int64(n)
			return grown[len(grown)-n:]
		}
	}

	blockCap := a.blockSize
	if n > blockCap {
		blockCap = n
	}
	block := make([]byte, n, blockCap)
	a.blocks = append(a.blocks, block)
	a.used += int64(n)
	return block
}

// memoryUsage returns the total bytes handed out by this arena so far.
func (a *arena) memoryUsage() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.used
}
