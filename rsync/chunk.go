package rsync

// ChunkNumber identifies a chunk by its position (0-based) in the
// partitioning of the old content that a Signature was built from.
type ChunkNumber uint64

// targetChunkCount is the heuristic target number of chunks a signature
// should contain (K in the chunk-size heuristic). Smaller content sizes will
// use fewer, smaller chunks so that per-chunk overhead never dominates the
// resulting signature.
const targetChunkCount = 4096

// chunkNumberSize is the in-memory size, in bytes, of a ChunkNumber, used
// by the chunk-size heuristic's per-chunk overhead estimate.
const chunkNumberSize = 8

// chooseChunkSize implements the chunk-size heuristic: starting from n =
// targetChunkCount, halve n while n chunks' worth of index overhead (weak
// checksum + strong hash + chunk number, each repeated n times) would be at
// least as large as the content itself. If n is driven to zero, the whole
// content becomes a single chunk.
func chooseChunkSize(contentLength int, weakSize, strongSize int) uint64 {
	overhead := uint64(weakSize + strongSize + chunkNumberSize)
	length := uint64(contentLength)

	n := uint64(targetChunkCount)
	for n > 0 && n*overhead >= length {
		n >>= 1
	}
	if n == 0 {
		return length
	}
	return length / n
}

// chunkBounds returns the half-open byte range [start, end) of the chunk at
// the given index within content of the given length, partitioned using
// chunkSize. The final chunk may be shorter than chunkSize.
func chunkBounds(index ChunkNumber, contentLength int, chunkSize uint64) (int, int) {
	start := int(uint64(index) * chunkSize)
	end := start + int(chunkSize)
	if end > contentLength {
		end = contentLength
	}
	return start, end
}

// chunkCountFor returns the number of chunks that content of the given length
// partitions into at the given chunk size.
func chunkCountFor(contentLength int, chunkSize uint64) uint64 {
	if contentLength == 0 || chunkSize == 0 {
		return 0
	}
	return (uint64(contentLength) + chunkSize - 1) / chunkSize
}
