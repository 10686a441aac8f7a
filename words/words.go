package words

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

// MaxPrefixLen is the longest prefix a stage can demand.
const MaxPrefixLen = 7

// ErrEmptyPrefixSet is returned when no word in the dictionary reaches the
// requested prefix length. With a real dictionary this never happens for
// lengths 1..7, but a tiny or malformed word list can trigger it.
var ErrEmptyPrefixSet = fmt.Errorf("words: no prefixes of requested length")

// Index is an immutable dictionary of valid words plus precomputed prefix
// tables keyed by prefix length. It is shared freely across games without
// locking; nothing mutates it after Load.
type Index struct {
	words map[string]struct{}
	list  []string

	// prefixesByLength[n] holds the first n characters of every word at
	// least n long. Duplicates are kept on purpose: random selection is
	// weighted by how many words carry the prefix.
	prefixesByLength [MaxPrefixLen + 1][]string
}

// Load reads a newline-delimited word list. Words are lowercased and
// trimmed; empty lines are skipped. An unreadable or empty source is an
// error since the game cannot run without a dictionary.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("words: open %s: %w", path, err)
	}
	defer f.Close()

	var list []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		w := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if w == "" {
			continue
		}
		list = append(list, w)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("words: read %s: %w", path, err)
	}

	return FromList(list)
}

// FromList builds an Index from an in-memory word list. Used by Load and
// by tests that need a small controlled dictionary.
func FromList(list []string) (*Index, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("words: empty word list")
	}

	ix := &Index{words: make(map[string]struct{}, len(list))}
	for _, w := range list {
		w = strings.ToLower(w)
		if _, dup := ix.words[w]; dup {
			continue
		}
		ix.words[w] = struct{}{}
		ix.list = append(ix.list, w)
		for n := 1; n <= MaxPrefixLen && n <= len(w); n++ {
			ix.prefixesByLength[n] = append(ix.prefixesByLength[n], w[:n])
		}
	}
	return ix, nil
}

// IsValid reports exact set membership. The caller normalizes to lowercase.
func (ix *Index) IsValid(word string) bool {
	_, ok := ix.words[word]
	return ok
}

// RandomPrefix picks a uniform-random prefix of the given length.
func (ix *Index) RandomPrefix(length int) (string, error) {
	if length < 1 || length > MaxPrefixLen {
		return "", fmt.Errorf("words: prefix length %d out of range", length)
	}
	pool := ix.prefixesByLength[length]
	if len(pool) == 0 {
		return "", ErrEmptyPrefixSet
	}
	return pool[rand.Intn(len(pool))], nil
}

// RandomWord picks a uniform-random word from the dictionary.
func (ix *Index) RandomWord() string {
	return ix.list[rand.Intn(len(ix.list))]
}

// Len returns the number of distinct words.
func (ix *Index) Len() int {
	return len(ix.words)
}

// CheckPrefixCoverage verifies every prefix length 1..MaxPrefixLen has at
// least one entry. The process must not begin serving when this fails.
func (ix *Index) CheckPrefixCoverage() error {
	for n := 1; n <= MaxPrefixLen; n++ {
		if len(ix.prefixesByLength[n]) == 0 {
			return fmt.Errorf("words: prefix length %d: %w", n, ErrEmptyPrefixSet)
		}
	}
	return nil
}
