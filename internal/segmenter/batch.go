package segmenter

// Batch groups items into consecutive slices of at most size elements.
// Every batch has exactly size elements except possibly the last. Batches
// share backing storage with the input; callers must not mutate them.
// A non-positive size yields a single batch with everything.
func Batch[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]T{items}
	}
	batches := make([][]T, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		batches = append(batches, items[start:end])
	}
	return batches
}
