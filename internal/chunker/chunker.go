package chunker

import (
	"fmt"
	"strings"

	"github.com/guiderag/guide/pkg/types"
)

// Mode selects the unit chunk budgets are measured in.
type Mode string

const (
	// ModeCharacters bounds chunks by character count and snaps split
	// points back to the nearest space. This is the canonical default
	// because it bounds chunk byte length predictably.
	ModeCharacters Mode = "characters"

	// ModeWords bounds chunks by whitespace-delimited word count.
	ModeWords Mode = "words"
)

const (
	// DefaultChunkSize is the default chunk budget in the configured unit.
	DefaultChunkSize = 1000

	// DefaultChunkOverlap is the default overlap between consecutive chunks.
	DefaultChunkOverlap = 200

	// wordSnapWindow is how far back from a computed character boundary
	// the chunker searches for a space before accepting a mid-word split.
	wordSnapWindow = 50
)

// Config contains the chunking parameters for one ingestion call. They
// are fixed at call time; nothing reaches into ambient state mid-split.
type Config struct {
	ChunkSize    int
	ChunkOverlap int
	Mode         Mode
}

// DefaultConfig returns the canonical chunking configuration.
func DefaultConfig() Config {
	return Config{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		Mode:         ModeCharacters,
	}
}

// Validate rejects unusable configurations before any work begins.
func (c Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", types.ErrInvalidChunkConfig, c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk overlap must be non-negative, got %d", types.ErrInvalidChunkConfig, c.ChunkOverlap)
	}
	switch c.Mode {
	case ModeCharacters, ModeWords, "":
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %q", types.ErrInvalidChunkConfig, c.Mode)
	}
}

// Chunker splits normalized text into overlapping chunks under a length
// budget. It guarantees termination and forward progress for every valid
// configuration, including the degenerate case of overlap >= size.
type Chunker struct {
	cfg Config
}

// New creates a Chunker after validating the configuration. An empty mode
// resolves to ModeCharacters.
func New(cfg Config) (*Chunker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeCharacters
	}
	return &Chunker{cfg: cfg}, nil
}

// Config returns the chunker's effective configuration.
func (c *Chunker) Config() Config {
	return c.cfg
}

// Split produces the ordered, non-empty sequence of chunk texts for the
// content. Content that yields no usable chunks (empty or whitespace-only)
// comes back as a single chunk equal to the original content, so every
// document produces at least one unit of record keeping.
func (c *Chunker) Split(content string) []string {
	var chunks []string
	if c.cfg.Mode == ModeWords {
		chunks = c.splitWords(content)
	} else {
		chunks = c.splitCharacters(content)
	}
	if len(chunks) == 0 {
		return []string{content}
	}
	return chunks
}

// Measure returns the size of a chunk in the configured unit.
func (c *Chunker) Measure(chunk string) int {
	if c.cfg.Mode == ModeWords {
		return len(strings.Fields(chunk))
	}
	return len([]rune(chunk))
}

// splitWords windows over whitespace-delimited words, joining each window
// with single spaces.
func (c *Chunker) splitWords(content string) []string {
	words := strings.Fields(content)
	var chunks []string

	start := 0
	for start < len(words) {
		end := start + c.cfg.ChunkSize
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))

		if end >= len(words) {
			break
		}
		start = advance(start, end, c.cfg.ChunkOverlap)
	}

	return chunks
}

// splitCharacters windows over runes, snapping each split point back to
// the nearest space within wordSnapWindow so words stay intact. Chunks
// are trimmed before emission; chunks that trim to nothing are dropped.
func (c *Chunker) splitCharacters(content string) []string {
	runes := []rune(content)
	var chunks []string

	start := 0
	for start < len(runes) {
		end := start + c.cfg.ChunkSize
		if end > len(runes) {
			end = len(runes)
		}

		if end < len(runes) {
			if snapped, ok := snapToSpace(runes, start, end); ok {
				end = snapped
			}
		}

		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}

		if end >= len(runes) {
			break
		}
		start = advance(start, end, c.cfg.ChunkOverlap)
	}

	return chunks
}

// advance computes the next window start. The start+1 floor is the
// invariant that guarantees forward progress even when the overlap is
// greater than or equal to the chunk size; without it the loop would
// never terminate on that configuration.
func advance(start, end, overlap int) int {
	next := end - overlap
	if next <= start {
		return start + 1
	}
	return next
}

// snapToSpace looks backward from end for the last space within the snap
// window. The snapped boundary must still exceed start, otherwise the
// split would produce an empty chunk and snapping is abandoned.
func snapToSpace(runes []rune, start, end int) (int, bool) {
	lo := end - wordSnapWindow
	if lo < start {
		lo = start
	}
	for i := end - 1; i >= lo; i-- {
		if runes[i] == ' ' {
			if i > start {
				return i, true
			}
			return 0, false
		}
	}
	return 0, false
}
