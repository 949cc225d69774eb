package domain

// Flashcard is one question/answer pair generated from a chunk of an
// uploaded document.
type Flashcard struct {
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Topic      string `json:"topic,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Type       string `json:"type,omitempty"`
	Source     string `json:"source,omitempty"`
	ChunkIndex int    `json:"chunk_index"`
}

// FlashcardSet is the full deck generated from one document. TotalChunks
// counts the chunks the document was split into, including chunks that
// produced no usable cards.
type FlashcardSet struct {
	DocumentID  string      `json:"document_id"`
	TotalChunks int         `json:"total_chunks"`
	Cards       []Flashcard `json:"flashcards"`
}

// SlideDeck is generated course material for one document, one markdown
// slide per entry.
type SlideDeck struct {
	DocumentID string   `json:"document_id"`
	Slides     []string `json:"slides"`
}
