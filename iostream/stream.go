// Package iostream defines the buffer-oriented input/output abstraction
// the binary and JSON codecs read and write through (§6.3). It mirrors the
// original implementation's InputStream/OutputStream contract
// (impl/Stream.cc): next() hands back a chunk the caller may consume any
// prefix of, backup() returns an unused suffix of the most recent chunk,
// and byteCount() reports the running total consumed or produced. Callers
// never see io.Reader/io.Writer directly because the codecs need backup,
// which those interfaces don't offer.
package iostream

// ByteReader is the source side. A single ByteReader is used by exactly
// one decode operation at a time (§6.1's single-threaded-per-instance
// contract); it is not safe for concurrent use.
type ByteReader interface {
	// Next returns a non-empty chunk of unread bytes, or ok=false at end
	// of input. The returned slice is only valid until the next call to
	// Next, Backup or Skip.
	Next() (chunk []byte, ok bool)

	// Backup returns the last n bytes obtained from the most recent Next
	// call to the front of the stream, to be re-delivered by the next
	// Next call. n must not exceed the length of that last chunk.
	Backup(n int)

	// Skip discards up to n bytes of upcoming input, returning the number
	// actually skipped (less than n only at end of input).
	Skip(n int) int

	// ByteCount reports the total number of bytes consumed so far (bytes
	// handed out by Next minus bytes returned via Backup, plus bytes
	// discarded by Skip).
	ByteCount() int64
}

// ByteWriter is the sink side.
type ByteWriter interface {
	// Next returns a writable chunk of at least one byte. The caller
	// fills a prefix of it and, if it didn't use the whole chunk, calls
	// Backup with the unused length before the next Next/Flush call.
	Next() []byte

	// Backup declares that the last n bytes obtained from the most
	// recent Next call were not written to; they will be handed out
	// again by the next Next call.
	Backup(n int)

	// Flush makes all written bytes visible to a reader constructed over
	// this writer's underlying storage (a no-op for writers that have no
	// separate buffering stage).
	Flush() error

	// ByteCount reports the total number of bytes written so far.
	ByteCount() int64
}
