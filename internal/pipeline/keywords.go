package pipeline

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"github.com/adverant/docintel/internal/model"
)

// Keyword is one extracted keyword or keyphrase with its algorithm
// score (higher is more relevant for both algorithms below, which
// invert YAKE's native lower-is-better convention for a single
// consistent ordering).
type Keyword struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// keywordStopwords is the closed-class word list both algorithms
// split candidate phrases on. No pack library implements YAKE or
// RAKE, so both are hand-rolled here; this is a documented, sanctioned
// exception to preferring a corpus library.
var keywordStopwords = toSet(
	"the", "is", "are", "and", "of", "to", "a", "in", "that", "it", "was", "for",
	"on", "with", "as", "this", "be", "at", "by", "an", "or", "from", "which",
	"has", "have", "had", "not", "but", "can", "will", "would", "could", "its",
	"their", "they", "he", "she", "we", "you", "i", "his", "her", "them", "there",
)

// ExtractKeywords runs the (supplemented) keyword-extraction stage: if
// cfg.Keywords is set, scores candidates in result.Content per the
// configured algorithm and writes the top MaxKeywords into
// Metadata.Additional["keywords"], since ExtractionResult has no
// dedicated keywords field.
func ExtractKeywords(ctx context.Context, result *model.ExtractionResult, cfg model.ExtractionConfig) error {
	if cfg.Keywords == nil {
		return nil
	}
	if strings.TrimSpace(result.Content) == "" {
		return nil
	}

	minN, maxN := cfg.Keywords.NgramRange[0], cfg.Keywords.NgramRange[1]
	if minN <= 0 {
		minN = 1
	}
	if maxN < minN {
		maxN = minN
	}

	var keywords []Keyword
	switch cfg.Keywords.Algorithm {
	case model.KeywordRAKE:
		keywords = rake(result.Content, minN, maxN)
	default:
		keywords = yake(result.Content, minN, maxN)
	}

	maxKeywords := cfg.Keywords.MaxKeywords
	if maxKeywords <= 0 {
		maxKeywords = 10
	}
	if len(keywords) > maxKeywords {
		keywords = keywords[:maxKeywords]
	}

	if result.Metadata.Additional == nil {
		result.Metadata.Additional = map[string]interface{}{}
	}
	result.Metadata.Additional["keywords"] = keywords
	return nil
}

// splitPhrases breaks content into candidate phrases at stopwords and
// sentence punctuation, the common first step of both algorithms.
func splitPhrases(content string) [][]string {
	var phrases [][]string
	var current []string
	words := tokenizeWords(content)
	for _, w := range words {
		if _, stop := keywordStopwords[w]; stop || len(w) < 2 {
			if len(current) > 0 {
				phrases = append(phrases, current)
				current = nil
			}
			continue
		}
		current = append(current, w)
	}
	if len(current) > 0 {
		phrases = append(phrases, current)
	}
	return phrases
}

// rake scores each candidate phrase by the RAKE degree/frequency
// ratio: each word's score is (co-occurrence degree within phrases) /
// (frequency), and a phrase's score is the sum of its words' scores.
func rake(content string, minN, maxN int) []Keyword {
	phrases := splitPhrases(content)

	freq := map[string]int{}
	degree := map[string]int{}
	for _, phrase := range phrases {
		for _, w := range phrase {
			freq[w]++
			degree[w] += len(phrase) - 1
		}
	}

	phraseScore := map[string]float64{}
	for _, phrase := range phrases {
		if len(phrase) < minN || len(phrase) > maxN {
			continue
		}
		var score float64
		for _, w := range phrase {
			score += float64(degree[w]+freq[w]) / float64(freq[w])
		}
		text := strings.Join(phrase, " ")
		if score > phraseScore[text] {
			phraseScore[text] = score
		}
	}
	return rankedKeywords(phraseScore)
}

// yake approximates YAKE's candidate scoring with three of its core
// statistical features applied to single words, then extends to
// n-grams by averaging constituent word scores: term frequency
// (normalized by the max), position (earlier is more salient), and
// casing (capitalized mid-sentence words score higher). The three
// features are summed, so the score is already higher-is-better and
// callers sort descending like RAKE; no 1/score inversion is applied.
func yake(content string, minN, maxN int) []Keyword {
	words := splitWordsPreservingCase(content)

	freq := map[string]int{}
	firstPos := map[string]int{}
	capitalized := map[string]bool{}
	maxFreq := 1
	for i, w := range words {
		lower := strings.ToLower(w)
		if _, stop := keywordStopwords[lower]; stop || len(lower) < 2 {
			continue
		}
		freq[lower]++
		if freq[lower] > maxFreq {
			maxFreq = freq[lower]
		}
		if _, seen := firstPos[lower]; !seen {
			firstPos[lower] = i
		}
		if isCapitalized(w) {
			capitalized[lower] = true
		}
	}

	wordScore := func(w string) float64 {
		tf := float64(freq[w]) / float64(maxFreq)
		position := 1.0 / (1.0 + float64(firstPos[w]))
		casing := 0.0
		if capitalized[w] {
			casing = 0.2
		}
		return tf + position + casing
	}

	phrases := splitPhrases(content)
	phraseScore := map[string]float64{}
	for _, phrase := range phrases {
		if len(phrase) < minN || len(phrase) > maxN {
			continue
		}
		var total float64
		for _, w := range phrase {
			total += wordScore(w)
		}
		avg := total / float64(len(phrase))
		text := strings.Join(phrase, " ")
		if avg > phraseScore[text] {
			phraseScore[text] = avg
		}
	}
	return rankedKeywords(phraseScore)
}

func rankedKeywords(scores map[string]float64) []Keyword {
	keywords := make([]Keyword, 0, len(scores))
	for text, score := range scores {
		keywords = append(keywords, Keyword{Text: text, Score: score})
	}
	sort.Slice(keywords, func(i, j int) bool {
		if keywords[i].Score != keywords[j].Score {
			return keywords[i].Score > keywords[j].Score
		}
		return keywords[i].Text < keywords[j].Text
	})
	return keywords
}

func splitWordsPreservingCase(content string) []string {
	var words []string
	var current strings.Builder
	for _, r := range content {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			current.WriteRune(r)
		} else if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

func isCapitalized(w string) bool {
	if w == "" {
		return false
	}
	r := []rune(w)[0]
	return unicode.IsUpper(r)
}
