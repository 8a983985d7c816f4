package push

// Chunk partitions items into consecutive slices of at most size elements.
// A non-positive size yields a single chunk. Chunks have no spare capacity, so an
// append on one never writes into the next.
func Chunk[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 || size >= len(items) {
		return [][]T{items[:len(items):len(items)]}
	}
	chunks := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		chunks = append(chunks, items[start:end:end])
	}
	return chunks
}
