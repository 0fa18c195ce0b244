package models

// CitationStatus is the validation outcome for a single cleaned citation title.
type CitationStatus string

const (
	CitationValid    CitationStatus = "Valid"
	CitationNotFound CitationStatus = "Not Found"
)

func (cs CitationStatus) String() string {
	return string(cs)
}

// ExtractedText is the immutable product of text extraction for one upload.
type ExtractedText struct {
	FullText   string
	WordCount  int
	SourcePath string
}

// AnalysisRecord is the result of one successful pipeline run. The ID doubles
// as the report artifact key.
type AnalysisRecord struct {
	ID              string                    `json:"id" db:"id"`
	Username        string                    `json:"username" db:"username"`
	Title           string                    `json:"title" db:"title"`
	WordCount       int                       `json:"word_count" db:"word_count"`
	Summary         string                    `json:"summary" db:"summary"`
	PlagiarismScore float64                   `json:"plagiarism_score" db:"plagiarism_score"`
	Citations       map[string]CitationStatus `json:"citations" db:"citations"`
	GeneratedOn     string                    `json:"generated_on" db:"generated_on"`
}
