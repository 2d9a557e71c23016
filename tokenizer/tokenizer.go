// Package tokenizer provides the tokenizers used for token accounting: a
// word-level Stub that assigns ids as it sees new words, and a byte-pair
// encoding tokenizer loaded from vocab.json and merges.txt files.
package tokenizer

import "strings"

// Tokenizer converts between text and token ids.
type Tokenizer interface {
	Encode(text string) []int
	Decode(ids []int) string
}

// Count returns the number of tokens tok produces for text.
func Count(tok Tokenizer, text string) int {
	if tok == nil {
		return 0
	}
	return len(tok.Encode(text))
}

// byte-level BPE vocabularies mark a leading space and a newline with these runes.
var markerReplacer = strings.NewReplacer("Ġ", " ", "Ċ", "\n")

// Clean replaces byte-level space and newline markers in decoded text.
func Clean(text string) string {
	return markerReplacer.Replace(text)
}
