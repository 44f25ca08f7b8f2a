package domain

// TextExtractor pulls plain text out of a document file.
type TextExtractor interface {
	ExtractText(path string) (string, error)
}
