// Package model defines the data types shared across the extraction
// pipeline: the canonical ExtractionResult and everything it nests.
package model

import "time"

// ExtractionResult is the canonical output of every extractor and of the
// post-processing pipeline that runs on top of it.
type ExtractionResult struct {
	Content            string            `json:"content"`
	MimeType           string            `json:"mime_type"`
	Metadata           Metadata          `json:"metadata"`
	Tables             []Table           `json:"tables"`
	DetectedLanguages  []string          `json:"detected_languages,omitempty"`
	Chunks             []Chunk           `json:"chunks,omitempty"`
	Images             []ExtractedImage  `json:"images,omitempty"`
	Pages              []Page            `json:"pages,omitempty"`
	Elements           []Element         `json:"elements,omitempty"`
	DjotContent        *DjotNode         `json:"djot_content,omitempty"`
	QualityScore       *float64          `json:"quality_score,omitempty"`
	ProcessingWarnings []string          `json:"processing_warnings,omitempty"`
}

// Page is one page's worth of rendered content, when per-page breakdown
// is requested.
type Page struct {
	PageNumber int    `json:"page_number"`
	Content    string `json:"content"`
}

// Element is one node of the optional structural element tree (headings,
// paragraphs, list items, code blocks) that the PDF pipeline and the
// OOXML extractors may populate.
type Element struct {
	Kind       string    `json:"kind"` // heading|paragraph|list_item|code_block|table|figure|caption
	Level      int       `json:"level,omitempty"`
	Text       string    `json:"text"`
	PageNumber int       `json:"page_number,omitempty"`
	BoundingBox *BBox    `json:"bounding_box,omitempty"`
	Children   []Element `json:"children,omitempty"`
}

// DjotNode is a minimal structured-markup tree node, populated only by
// extractors that natively speak Djot-like block structure (markdown,
// HTML-to-markdown conversions).
type DjotNode struct {
	Kind     string     `json:"kind"`
	Text     string     `json:"text,omitempty"`
	Children []DjotNode `json:"children,omitempty"`
}

// Metadata carries both strongly-typed common fields and a forward
// compatible additional map for format-specific or deprecated fields.
type Metadata struct {
	Title      string                 `json:"title,omitempty"`
	Authors    []string               `json:"authors,omitempty"`
	Keywords   []string               `json:"keywords,omitempty"`
	CreatedAt  *time.Time             `json:"created_at,omitempty"`
	ModifiedAt *time.Time             `json:"modified_at,omitempty"`
	Language   string                 `json:"language,omitempty"`
	CreatedBy  string                 `json:"created_by,omitempty"`
	ModifiedBy string                 `json:"modified_by,omitempty"`
	Format     *FormatMetadata        `json:"format,omitempty"`
	Additional map[string]interface{} `json:"additional,omitempty"`
}

// FormatMetadata is the tagged union of per-format metadata. Kind names
// the format; at most one of the pointer fields is non-nil, and formats
// without a dedicated struct (archive, email, docx) leave all of them nil.
type FormatMetadata struct {
	Kind string      `json:"kind"` // pdf|pptx|docx|xlsx|ocr|image|email|archive
	Pdf  *PdfMeta    `json:"pdf,omitempty"`
	Pptx *OfficeMeta `json:"pptx,omitempty"`
	Docx *OfficeMeta `json:"docx,omitempty"`
	Xlsx *OfficeMeta `json:"xlsx,omitempty"`
	Ocr  *OcrMeta    `json:"ocr,omitempty"`
	Image *ImageMeta `json:"image,omitempty"`
}

type PdfMeta struct {
	PageCount             int  `json:"page_count"`
	HasFontEncodingIssues bool `json:"has_font_encoding_issues"`
	Producer              string `json:"producer,omitempty"`
	IsTagged               bool `json:"is_tagged"`
}

type OfficeMeta struct {
	SlideOrSheetCount int    `json:"slide_or_sheet_count"`
	Application       string `json:"application,omitempty"`
}

type OcrMeta struct {
	Backend    string  `json:"backend"`
	Confidence float64 `json:"confidence"`
	TierUsed   string  `json:"tier_used,omitempty"`
}

type ImageMeta struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Colorspace string `json:"colorspace,omitempty"`
}

// BBox is a bounding box in PDF coordinates (y0 at bottom) or image
// coordinates (y=0 at top), depending on context; each user documents
// which convention it carries.
type BBox struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Table is the final validated, rectangular 2-D grid produced by the
// table reconstructor (C6) or directly materialized by a structured
// extractor (CSV, OOXML grid elements).
type Table struct {
	Cells       [][]string `json:"cells"`
	Markdown    string     `json:"markdown"`
	PageNumber  int        `json:"page_number"`
	BoundingBox *BBox      `json:"bounding_box,omitempty"`
}

// ImageFormat enumerates the recognized raster/vector image container
// formats an extractor can emit.
type ImageFormat string

const (
	ImageJPEG    ImageFormat = "jpeg"
	ImagePNG     ImageFormat = "png"
	ImageGIF     ImageFormat = "gif"
	ImageBMP     ImageFormat = "bmp"
	ImageSVG     ImageFormat = "svg"
	ImageTIFF    ImageFormat = "tiff"
	ImageWEBP    ImageFormat = "webp"
	ImageWMF     ImageFormat = "wmf"
	ImageEMF     ImageFormat = "emf"
	ImageUnknown ImageFormat = "unknown"
)

// ExtractedImage is one image collected from a document, optionally
// carrying a recursive OCR result.
type ExtractedImage struct {
	Data        []byte            `json:"data"`
	Format      ImageFormat       `json:"format"`
	ImageIndex  int               `json:"image_index"`
	PageNumber  *int              `json:"page_number,omitempty"`
	Width       int               `json:"width,omitempty"`
	Height      int               `json:"height,omitempty"`
	Colorspace  string            `json:"colorspace,omitempty"`
	IsMask      bool              `json:"is_mask,omitempty"`
	BoundingBox *BBox             `json:"bounding_box,omitempty"`
	OcrResult   *ExtractionResult `json:"ocr_result,omitempty"`
}

// Chunk is one contiguous, byte-offset-addressed slice of Content,
// produced by the chunking stage of the post-processing pipeline.
type Chunk struct {
	Content      string    `json:"content"`
	Embedding    []float32 `json:"embedding,omitempty"`
	ByteStart    int       `json:"byte_start"`
	ByteEnd      int       `json:"byte_end"`
	ChunkIndex   int       `json:"chunk_index"`
	TotalChunks  int       `json:"total_chunks"`
	TokenCount   int       `json:"token_count"`
	FirstPage    *int      `json:"first_page,omitempty"`
	LastPage     *int      `json:"last_page,omitempty"`
}
