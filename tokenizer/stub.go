package tokenizer

import (
	"strings"
	"sync"
)

// Unknown is what Stub.Decode emits for an id it never assigned.
const Unknown = "<UNK>"

// Stub is a whitespace tokenizer. Each distinct word gets the next id, starting
// at 1, the first time it is encoded. The table belongs to the instance and
// grows until Reset is called.
//
// Stub is safe for concurrent use.
type Stub struct {
	mu     sync.Mutex
	ids    map[string]int
	words  map[int]string
	nextID int
}

// NewStub creates an empty Stub.
func NewStub() *Stub {
	s := &Stub{}
	s.Reset()
	return s
}

// Encode splits text on whitespace and returns one id per word.
func (s *Stub) Encode(text string) []int {
	fields := strings.Fields(text)
	ids := make([]int, 0, len(fields))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, word := range fields {
		id, ok := s.ids[word]
		if !ok {
			id = s.nextID
			s.nextID++
			s.ids[word] = id
			s.words[id] = word
		}
		ids = append(ids, id)
	}
	return ids
}

// Decode joins the words for ids with single spaces.
func (s *Stub) Decode(ids []int) string {
	words := make([]string, 0, len(ids))

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		word, ok := s.words[id]
		if !ok {
			word = Unknown
		}
		words = append(words, word)
	}
	return strings.Join(words, " ")
}

// Len returns the number of words in the table.
func (s *Stub) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}

// Reset empties the table; the next new word gets id 1 again.
func (s *Stub) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = make(map[string]int)
	s.words = make(map[int]string)
	s.nextID = 1
}

var _ Tokenizer = (*Stub)(nil)
