package tokenizer

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// File names read by LoadBPE.
const (
	VocabFile  = "vocab.json"
	MergesFile = "merges.txt"
)

type pair struct {
	first, second string
}

// BPE is a byte-pair encoding tokenizer. Text is split on whitespace and each
// word is merged pair by pair, lowest merge rank first, until no ranked pair is
// left. Symbols missing from the vocabulary are dropped.
//
// BPE is immutable after loading and safe for concurrent use.
type BPE struct {
	encoder map[string]int
	decoder map[int]string
	ranks   map[pair]int
}

// LoadBPE reads vocab.json and merges.txt from dir.
func LoadBPE(dir string) (*BPE, error) {
	vocab, err := os.Open(filepath.Join(dir, VocabFile))
	if err != nil {
		return nil, fmt.Errorf("open vocab: %w", err)
	}
	defer vocab.Close()

	merges, err := os.Open(filepath.Join(dir, MergesFile))
	if err != nil {
		return nil, fmt.Errorf("open merges: %w", err)
	}
	defer merges.Close()

	return NewBPE(vocab, merges)
}

// NewBPE builds a tokenizer from a JSON token->id object and a merges list with
// one space separated pair per line. Blank lines and lines starting with "#"
// are skipped.
func NewBPE(vocab io.Reader, merges io.Reader) (*BPE, error) {
	b := &BPE{
		encoder: make(map[string]int),
		decoder: make(map[int]string),
		ranks:   make(map[pair]int),
	}

	if err := json.NewDecoder(vocab).Decode(&b.encoder); err != nil {
		return nil, fmt.Errorf("decode vocab: %w", err)
	}
	for token, id := range b.encoder {
		b.decoder[id] = token
	}

	scanner := bufio.NewScanner(merges)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("merges line %d: expected 2 symbols, got %d", lineNo, len(parts))
		}
		p := pair{parts[0], parts[1]}
		if _, exists := b.ranks[p]; !exists {
			b.ranks[p] = len(b.ranks)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read merges: %w", err)
	}
	return b, nil
}

// VocabSize returns the number of tokens in the vocabulary.
func (b *BPE) VocabSize() int {
	return len(b.encoder)
}

// Encode returns the token ids of text.
func (b *BPE) Encode(text string) []int {
	var ids []int
	for _, word := range strings.Fields(text) {
		for _, symbol := range b.merge(word) {
			if id, ok := b.encoder[symbol]; ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// Decode concatenates the tokens for ids, skipping unknown ids. Use Clean to
// turn byte-level markers back into whitespace.
func (b *BPE) Decode(ids []int) string {
	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(b.decoder[id])
	}
	return sb.String()
}

// merge applies ranked merges to one word and returns its symbols.
func (b *BPE) merge(word string) []string {
	symbols := make([]string, 0, len(word))
	for _, r := range word {
		symbols = append(symbols, string(r))
	}

	for len(symbols) > 1 {
		best, bestRank := pair{}, -1
		for i := 0; i < len(symbols)-1; i++ {
			p := pair{symbols[i], symbols[i+1]}
			if rank, ok := b.ranks[p]; ok && (bestRank < 0 || rank < bestRank) {
				best, bestRank = p, rank
			}
		}
		if bestRank < 0 {
			break
		}

		merged := make([]string, 0, len(symbols))
		for i := 0; i < len(symbols); i++ {
			if i < len(symbols)-1 && symbols[i] == best.first && symbols[i+1] == best.second {
				merged = append(merged, best.first+best.second)
				i++
				continue
			}
			merged = append(merged, symbols[i])
		}
		symbols = merged
	}
	return symbols
}

var _ Tokenizer = (*BPE)(nil)
