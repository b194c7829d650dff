package utils

import (
	_ "embed"
	"errors"
	"math/rand"
	"os"
	"strings"
	"sync"
)

//go:embed words.txt
var embeddedWords string

var (
	loadOnce    sync.Once
	defaultBank *WordBank
)

// WordBank is an immutable list of drawable words.
type WordBank struct {
	words []string
}

func parseWords(data string) []string {
	lines := strings.Split(data, "\n")
	tmp := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" && !strings.HasPrefix(l, "#") {
			tmp = append(tmp, l)
		}
	}
	return tmp
}

func NewWordBank(words []string) (*WordBank, error) {
	if len(words) == 0 {
		return nil, errors.New("word bank empty after parsing")
	}
	return &WordBank{words: words}, nil
}

// LoadWordBank reads one word per line from path.
func LoadWordBank(path string) (*WordBank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return NewWordBank(parseWords(string(data)))
}

// DefaultWordBank returns the bank compiled into the binary.
func DefaultWordBank() *WordBank {
	loadOnce.Do(func() {
		b, err := NewWordBank(parseWords(embeddedWords))
		if err != nil {
			panic(err)
		}
		defaultBank = b
	})
	return defaultBank
}

func (b *WordBank) Len() int {
	return len(b.words)
}

// Suggest returns up to n distinct words.
func (b *WordBank) Suggest(r *rand.Rand, n int) []string {
	if n > len(b.words) {
		n = len(b.words)
	}
	out := make([]string, 0, n)
	for _, i := range r.Perm(len(b.words))[:n] {
		out = append(out, b.words[i])
	}
	return out
}
