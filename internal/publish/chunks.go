package publish

import "fmt"

// Provider limits for multi-chunk uploads.
const (
	MinChunkSize      int64 = 5 * 1024 * 1024
	MaxChunkSize      int64 = 64 * 1024 * 1024
	MaxFinalChunkSize int64 = 128 * 1024 * 1024
)

type Chunk struct {
	Index int
	Start int64
	// End is inclusive, as written in Content-Range.
	End int64
}

func (c Chunk) Size() int64 {
	return c.End - c.Start + 1
}

func (c Chunk) ContentRange(total int64) string {
	return fmt.Sprintf("bytes %d-%d/%d", c.Start, c.End, total)
}

// PlanChunks splits size bytes into upload chunks. A chunkSize of zero sends
// the payload as one chunk when the provider accepts that size, and falls back
// to MaxChunkSize chunks otherwise. For a set chunkSize the count is
// size/chunkSize rounded down and the final chunk takes the remainder.
func PlanChunks(size, chunkSize int64) ([]Chunk, error) {
	if size <= 0 {
		return nil, fmt.Errorf("invalid asset size %d", size)
	}
	if chunkSize <= 0 {
		if size <= MaxChunkSize {
			return []Chunk{{Index: 0, Start: 0, End: size - 1}}, nil
		}
		chunkSize = MaxChunkSize
	}
	if chunkSize >= size && size <= MaxChunkSize {
		return []Chunk{{Index: 0, Start: 0, End: size - 1}}, nil
	}
	if chunkSize < MinChunkSize || chunkSize > MaxChunkSize {
		return nil, fmt.Errorf("chunk size %d outside [%d, %d]", chunkSize, MinChunkSize, MaxChunkSize)
	}

	count := int(size / chunkSize)
	chunks := make([]Chunk, count)
	for i := range chunks {
		start := int64(i) * chunkSize
		end := start + chunkSize - 1
		if i == count-1 {
			end = size - 1
		}
		chunks[i] = Chunk{Index: i, Start: start, End: end}
	}

	if last := chunks[count-1]; last.Size() > MaxFinalChunkSize {
		return nil, fmt.Errorf("final chunk of %d bytes exceeds %d", last.Size(), MaxFinalChunkSize)
	}
	return chunks, nil
}
