package model

// OutputFormat selects the final rendering of ExtractionResult.Content.
type OutputFormat string

const (
	OutputPlain    OutputFormat = "plain"
	OutputMarkdown OutputFormat = "markdown"
	OutputHTML     OutputFormat = "html"
)

// OCRBackendName identifies a registered OCR backend implementation.
type OCRBackendName string

const (
	OCRBackendTesseract OCRBackendName = "tesseract"
	OCRBackendPaddle    OCRBackendName = "paddle"
	OCRBackendEasy      OCRBackendName = "easy"
	OCRBackendCustom    OCRBackendName = "custom"
)

// OCRConfig configures the OCR augmentation stage (C7.4) and any PDF/image
// force-OCR fallback.
type OCRConfig struct {
	Backend      OCRBackendName         `toml:"backend" yaml:"backend" json:"backend" mapstructure:"backend"`
	Language     string                 `toml:"language" yaml:"language" json:"language" mapstructure:"language"`
	BackendParams map[string]string     `toml:"backend_params" yaml:"backend_params" json:"backend_params" mapstructure:"backend_params"`
}

// EmbeddingModelType is a tagged union: exactly one field is meaningful,
// selected by Kind.
type EmbeddingModelType struct {
	Kind       string `toml:"kind" yaml:"kind" json:"kind" mapstructure:"kind"` // preset|fastembed|custom
	Name       string `toml:"name" yaml:"name" json:"name,omitempty" mapstructure:"name"`
	Model      string `toml:"model" yaml:"model" json:"model,omitempty" mapstructure:"model"`
	Dimensions int    `toml:"dimensions" yaml:"dimensions" json:"dimensions,omitempty" mapstructure:"dimensions"`
}

// EmbeddingPresets gives the dimension count for each named preset, per
// the original Rust source's docs/snippets/rust/config/embedding_config.rs.
var EmbeddingPresets = map[string]int{
	"fast":         384,
	"balanced":     768,
	"quality":      1024,
	"multilingual": 768,
}

// EmbeddingConfig configures the embedding sub-stage of chunking (C7.2).
type EmbeddingConfig struct {
	Model                EmbeddingModelType `toml:"model" yaml:"model" json:"model" mapstructure:"model"`
	BatchSize            int                `toml:"batch_size" yaml:"batch_size" json:"batch_size" mapstructure:"batch_size"`
	Normalize            bool               `toml:"normalize" yaml:"normalize" json:"normalize" mapstructure:"normalize"`
	ShowDownloadProgress bool               `toml:"show_download_progress" yaml:"show_download_progress" json:"show_download_progress" mapstructure:"show_download_progress"`
	CacheDir             string             `toml:"cache_dir" yaml:"cache_dir" json:"cache_dir,omitempty" mapstructure:"cache_dir"`
}

// ChunkerType selects the splitting strategy for the chunking stage.
type ChunkerType string

const (
	ChunkerFixedSize  ChunkerType = "fixed_size"
	ChunkerSentence   ChunkerType = "sentence"
	ChunkerParagraph  ChunkerType = "paragraph"
)

// ChunkingConfig configures the chunking stage (C7.1).
type ChunkingConfig struct {
	MaxCharacters int              `toml:"max_characters" yaml:"max_characters" json:"max_characters" mapstructure:"max_characters"`
	Overlap       int              `toml:"overlap" yaml:"overlap" json:"overlap" mapstructure:"overlap"`
	ChunkerType   ChunkerType      `toml:"chunker_type" yaml:"chunker_type" json:"chunker_type" mapstructure:"chunker_type"`
	Embedding     *EmbeddingConfig `toml:"embedding" yaml:"embedding" json:"embedding,omitempty" mapstructure:"embedding"`
	Preset        string           `toml:"preset" yaml:"preset" json:"preset,omitempty" mapstructure:"preset"`
}

// LanguageDetectionConfig configures the language-detection stage (C7.3).
type LanguageDetectionConfig struct {
	Enabled        bool    `toml:"enabled" yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	MinConfidence  float64 `toml:"min_confidence" yaml:"min_confidence" json:"min_confidence" mapstructure:"min_confidence"`
	DetectMultiple bool    `toml:"detect_multiple" yaml:"detect_multiple" json:"detect_multiple" mapstructure:"detect_multiple"`
}

// HierarchyConfig configures the PDF font-clustering hierarchy pass (C5
// step 4). Defaults per original_source/docs/snippets/rust/config/hierarchy_config.rs.
type HierarchyConfig struct {
	Enabled               bool     `toml:"enabled" yaml:"enabled" json:"enabled" mapstructure:"enabled"`
	KClusters             int      `toml:"k_clusters" yaml:"k_clusters" json:"k_clusters" mapstructure:"k_clusters"`
	IncludeBBox           bool     `toml:"include_bbox" yaml:"include_bbox" json:"include_bbox" mapstructure:"include_bbox"`
	OCRCoverageThreshold  *float64 `toml:"ocr_coverage_threshold" yaml:"ocr_coverage_threshold" json:"ocr_coverage_threshold,omitempty" mapstructure:"ocr_coverage_threshold"`
}

// PdfOptions groups PDF-extractor-specific configuration.
type PdfOptions struct {
	Hierarchy *HierarchyConfig `toml:"hierarchy" yaml:"hierarchy" json:"hierarchy,omitempty" mapstructure:"hierarchy"`
}

// ImagesConfig toggles image collection during extraction.
type ImagesConfig struct {
	ExtractImages bool `toml:"extract_images" yaml:"extract_images" json:"extract_images" mapstructure:"extract_images"`
}

// PagesConfig toggles per-page extraction and an optional page-marker
// format string containing the literal substring "{page_num}".
type PagesConfig struct {
	ExtractPages     bool   `toml:"extract_pages" yaml:"extract_pages" json:"extract_pages" mapstructure:"extract_pages"`
	PageMarkerFormat string `toml:"page_marker_format" yaml:"page_marker_format" json:"page_marker_format,omitempty" mapstructure:"page_marker_format"`
}

// KeywordAlgorithm selects the keyword-extraction algorithm.
type KeywordAlgorithm string

const (
	KeywordYAKE KeywordAlgorithm = "yake"
	KeywordRAKE KeywordAlgorithm = "rake"
)

// KeywordsConfig configures the (supplemented) keyword-extraction stage.
type KeywordsConfig struct {
	Algorithm   KeywordAlgorithm  `toml:"algorithm" yaml:"algorithm" json:"algorithm" mapstructure:"algorithm"`
	MaxKeywords int               `toml:"max_keywords" yaml:"max_keywords" json:"max_keywords" mapstructure:"max_keywords"`
	NgramRange  [2]int            `toml:"ngram_range" yaml:"ngram_range" json:"ngram_range" mapstructure:"ngram_range"`
	Params      map[string]string `toml:"params" yaml:"params" json:"params,omitempty" mapstructure:"params"`
}

// ExtractionConfig is the immutable, whole-struct-equality configuration
// value consulted throughout the pipeline. See SPEC_FULL.md §1.3 for the
// merge/load semantics (C10).
type ExtractionConfig struct {
	UseCache                 bool                     `toml:"use_cache" yaml:"use_cache" json:"use_cache" mapstructure:"use_cache"`
	ForceOCR                 bool                     `toml:"force_ocr" yaml:"force_ocr" json:"force_ocr" mapstructure:"force_ocr"`
	OutputFormat             OutputFormat             `toml:"output_format" yaml:"output_format" json:"output_format" mapstructure:"output_format"`
	OCR                      *OCRConfig               `toml:"ocr" yaml:"ocr" json:"ocr,omitempty" mapstructure:"ocr"`
	Chunking                 *ChunkingConfig          `toml:"chunking" yaml:"chunking" json:"chunking,omitempty" mapstructure:"chunking"`
	LanguageDetection        *LanguageDetectionConfig `toml:"language_detection" yaml:"language_detection" json:"language_detection,omitempty" mapstructure:"language_detection"`
	PdfOptions               *PdfOptions              `toml:"pdf_options" yaml:"pdf_options" json:"pdf_options,omitempty" mapstructure:"pdf_options"`
	Images                   *ImagesConfig            `toml:"images" yaml:"images" json:"images,omitempty" mapstructure:"images"`
	Pages                    *PagesConfig             `toml:"pages" yaml:"pages" json:"pages,omitempty" mapstructure:"pages"`
	Keywords                 *KeywordsConfig          `toml:"keywords" yaml:"keywords" json:"keywords,omitempty" mapstructure:"keywords"`
	EnableQualityProcessing  bool                     `toml:"enable_quality_processing" yaml:"enable_quality_processing" json:"enable_quality_processing" mapstructure:"enable_quality_processing"`
	MaxConcurrentExtractions *int                     `toml:"max_concurrent_extractions" yaml:"max_concurrent_extractions" json:"max_concurrent_extractions,omitempty" mapstructure:"max_concurrent_extractions"`
}

// DefaultExtractionConfig returns the zero-state default configuration:
// caching on, plain output, no OCR/chunking/language-detection configured.
func DefaultExtractionConfig() ExtractionConfig {
	return ExtractionConfig{
		UseCache:     true,
		ForceOCR:     false,
		OutputFormat: OutputPlain,
	}
}

// Merge implements the C10 merge rule verbatim: override wholly replaces
// base. There is no field-wise merge — a config layer that wants to keep
// a field from the layer below must copy it forward itself before this
// is called. The three-layer chain (defaults < file < request) is just
// two calls to Merge: Merge(defaults, fileConfig) then
// Merge(that, requestConfig).
func Merge(base, override ExtractionConfig) ExtractionConfig {
	return override
}
