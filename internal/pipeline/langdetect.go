package pipeline

import (
	"context"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/text/language"

	"github.com/adverant/docintel/internal/model"
)

// stopwordProfiles is a hand-rolled stopword heuristic: no pack
// library covers language identification, so detection scores each
// candidate language by the fraction of the document's words that
// match its closed-class stopword set, a cheap and surprisingly
// reliable signal for the short document fragments this stage sees.
// Tags are canonicalized through golang.org/x/text/language so the
// written result is a well-formed BCP-47 tag.
var stopwordProfiles = map[string]map[string]struct{}{
	"en": toSet("the", "is", "are", "and", "of", "to", "a", "in", "that", "it", "was", "for", "on", "with", "as", "this", "be", "at", "by", "an", "or"),
	"es": toSet("el", "la", "de", "que", "y", "en", "los", "se", "del", "las", "un", "por", "con", "una", "su", "para", "es", "al", "lo", "como"),
	"fr": toSet("le", "la", "de", "et", "les", "des", "en", "un", "une", "du", "que", "qui", "dans", "pour", "sur", "est", "au", "ce", "se", "pas"),
	"de": toSet("der", "die", "das", "und", "ist", "in", "den", "von", "zu", "mit", "sich", "auf", "für", "ein", "eine", "nicht", "auch", "als", "des", "dem"),
	"pt": toSet("o", "a", "de", "que", "e", "do", "da", "em", "um", "para", "com", "não", "uma", "os", "no", "se", "na", "por", "mais", "as"),
	"it": toSet("il", "la", "di", "che", "e", "un", "è", "per", "in", "del", "si", "con", "non", "una", "da", "sono", "come", "alla", "della", "le"),
	"nl": toSet("de", "het", "een", "van", "en", "in", "is", "dat", "op", "te", "voor", "met", "zijn", "niet", "aan", "er", "als", "ook", "naar", "om"),
}

func toSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// DetectLanguage runs the language-detection stage (C7.3): if enabled,
// scores result.Content against stopwordProfiles and writes
// result.DetectedLanguages (most-confident first), dropping candidates
// below cfg.LanguageDetection.MinConfidence. DetectMultiple limits the
// result to the top candidate when false.
func DetectLanguage(ctx context.Context, result *model.ExtractionResult, cfg model.ExtractionConfig) error {
	if cfg.LanguageDetection == nil || !cfg.LanguageDetection.Enabled {
		return nil
	}
	if strings.TrimSpace(result.Content) == "" {
		return nil
	}

	words := tokenizeWords(result.Content)
	if len(words) == 0 {
		return nil
	}

	type scored struct {
		tag   string
		score float64
	}
	var candidates []scored
	for tag, stopwords := range stopwordProfiles {
		matches := 0
		for _, w := range words {
			if _, ok := stopwords[w]; ok {
				matches++
			}
		}
		score := float64(matches) / float64(len(words))
		if score >= cfg.LanguageDetection.MinConfidence {
			candidates = append(candidates, scored{tag: tag, score: score})
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	if !cfg.LanguageDetection.DetectMultiple && len(candidates) > 1 {
		candidates = candidates[:1]
	}

	tags := make([]string, 0, len(candidates))
	for _, c := range candidates {
		tags = append(tags, canonicalTag(c.tag))
	}
	result.DetectedLanguages = tags
	return nil
}

func canonicalTag(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}

func tokenizeWords(content string) []string {
	var words []string
	var current strings.Builder
	for _, r := range content {
		if unicode.IsLetter(r) {
			current.WriteRune(unicode.ToLower(r))
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
