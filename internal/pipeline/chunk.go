// Package pipeline implements the C7 post-processing pipeline that runs
// on top of a raw ExtractionResult: chunking, embedding, language
// detection, image OCR augmentation, custom processors, and validators.
package pipeline

import (
	"context"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/adverant/docintel/internal/model"
)

// tokenEncoding is the tiktoken encoding used for Chunk.TokenCount. The
// pipeline counts tokens for budget estimation, not for driving any
// particular model's tokenizer, so a single fixed encoding is shared
// across chunkers.
const tokenEncoding = "cl100k_base"

// countTokens returns the token count of text under tokenEncoding,
// falling back to a whitespace-split estimate if the encoding fails to
// load (tiktoken-go caches a remote-fetched BPE file on first use).
func countTokens(text string) int {
	enc, err := tiktoken.GetEncoding(tokenEncoding)
	if err != nil {
		return len(strings.Fields(text))
	}
	return len(enc.Encode(text, nil, nil))
}

// Chunk splits result.Content into result.Chunks per cfg.Chunking,
// respecting page boundaries when result.Pages is populated. A nil
// cfg.Chunking leaves result.Chunks untouched (stage is a no-op).
func Chunk(ctx context.Context, result *model.ExtractionResult, cfg model.ExtractionConfig) error {
	if cfg.Chunking == nil {
		return nil
	}
	content := result.Content
	if content == "" {
		result.Chunks = nil
		return nil
	}

	maxChars := cfg.Chunking.MaxCharacters
	if maxChars <= 0 {
		maxChars = 1000
	}
	overlap := cfg.Chunking.Overlap
	if overlap < 0 || overlap >= maxChars {
		overlap = 0
	}

	bounds := pageBoundaries(result, len(content))

	var chunks []model.Chunk
	start := 0
	for start < len(content) {
		end := start + maxChars
		if end > len(content) {
			end = len(content)
		}
		end = clampToBoundary(bounds, start, end, len(content))
		if end < len(content) {
			end = clampToChunkerBoundary(cfg.Chunking.ChunkerType, content, start, end)
		}
		end = avoidSplittingRune(content, end)
		if end <= start {
			end = start + 1
			if end > len(content) {
				end = len(content)
			}
		}

		piece := content[start:end]
		firstPage, lastPage := pagesFor(bounds, start, end)
		chunks = append(chunks, model.Chunk{
			Content:    piece,
			ByteStart:  start,
			ByteEnd:    end,
			ChunkIndex: len(chunks),
			TokenCount: countTokens(piece),
			FirstPage:  firstPage,
			LastPage:   lastPage,
		})

		if end >= len(content) {
			break
		}
		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}

	for i := range chunks {
		chunks[i].TotalChunks = len(chunks)
	}
	result.Chunks = chunks
	return nil
}

// pageBound is the byte offset at which a page starts, in the
// concatenated Content string (pages are assumed to appear in order,
// joined without a reconstructible separator, so boundaries are
// computed from cumulative page content lengths).
type pageBound struct {
	pageNumber int
	start      int
}

func pageBoundaries(result *model.ExtractionResult, contentLen int) []pageBound {
	if len(result.Pages) == 0 {
		return nil
	}
	bounds := make([]pageBound, 0, len(result.Pages))
	offset := 0
	for _, p := range result.Pages {
		bounds = append(bounds, pageBound{pageNumber: p.PageNumber, start: offset})
		offset += len(p.Content)
	}
	if offset != contentLen {
		// Pages don't account for the whole of Content (e.g. markdown
		// assembly injected separators); page-aware splitting would be
		// unreliable, so fall back to plain fixed-size chunking.
		return nil
	}
	return bounds
}

// clampToBoundary pulls end back to the nearest page boundary inside
// (start, end] if doing so doesn't shrink the chunk to empty.
func clampToBoundary(bounds []pageBound, start, end, contentLen int) int {
	if bounds == nil || end >= contentLen {
		return end
	}
	best := end
	for _, b := range bounds {
		if b.start > start && b.start <= end {
			best = b.start
		}
	}
	return best
}

// clampToChunkerBoundary pulls end back to the nearest paragraph or
// sentence break for the Paragraph/Sentence chunker types, so a chunk
// never ends mid-sentence when a cleaner break exists nearby. Falls
// back to the fixed-size end when no such boundary is found in range,
// since forcing one could otherwise shrink a chunk to near-zero.
func clampToChunkerBoundary(chunkerType model.ChunkerType, content string, start, end int) int {
	switch chunkerType {
	case model.ChunkerParagraph:
		if i := strings.LastIndex(content[start:end], "\n\n"); i > 0 {
			return start + i + 2
		}
	case model.ChunkerSentence:
		if i := lastSentenceBoundary(content[start:end]); i > 0 {
			return start + i
		}
	}
	return end
}

func lastSentenceBoundary(s string) int {
	best := -1
	for i, r := range s {
		if r == '.' || r == '!' || r == '?' {
			if i+1 < len(s) && s[i+1] == ' ' {
				best = i + 1
			}
		}
	}
	return best
}

// avoidSplittingRune nudges end backward off a UTF-8 continuation byte
// so chunk boundaries never split a multi-byte rune.
func avoidSplittingRune(content string, end int) int {
	for end > 0 && end < len(content) && !isRuneStart(content[end]) {
		end--
	}
	return end
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// pagesFor returns the page numbers containing offsets start and
// end-1: the last boundary at or before an offset names its page.
func pagesFor(bounds []pageBound, start, end int) (*int, *int) {
	if bounds == nil {
		return nil, nil
	}
	firstNum := pageAt(bounds, start)
	lastNum := pageAt(bounds, end-1)
	return &firstNum, &lastNum
}

func pageAt(bounds []pageBound, offset int) int {
	page := bounds[0].pageNumber
	for _, b := range bounds {
		if b.start > offset {
			break
		}
		page = b.pageNumber
	}
	return page
}
