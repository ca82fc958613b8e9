// Package tfidf is an offline embedding provider. Its vector space is derived
// from the corpus, so it must be prepared before the first Embed and the same
// instance must serve both index construction and queries.
package tfidf

import (
	"context"
	"errors"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// ModelName identifies this provider in cache keys and metrics.
const ModelName = "tfidf"

var (
	errNotPrepared = errors.New("tfidf embedder not prepared")
	errEmptyCorpus = errors.New("empty corpus for TF-IDF prepare")
	errNoTokens    = errors.New("no tokens found in corpus")
)

// Embedder is a TF-IDF vectorizer with L2-normalized output.
type Embedder struct {
	mu         sync.RWMutex
	vocabulary map[string]int
	idf        []float64
	stopwords  map[string]struct{}
	tokens     *regexp.Regexp
}

// NewEmbedder creates an unprepared embedder.
func NewEmbedder() *Embedder {
	return &Embedder{
		tokens:    regexp.MustCompile(`[\p{L}\p{N}]+(?:['’][\p{L}\p{N}]+)*`),
		stopwords: defaultStopwords(),
	}
}

// Prepare builds the vocabulary and smoothed IDF weights from corpus.
func (e *Embedder) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return errEmptyCorpus
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range e.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return errNoTokens
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocabulary := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		vocabulary[term] = i
		idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	e.mu.Lock()
	e.vocabulary = vocabulary
	e.idf = idf
	e.mu.Unlock()
	return nil
}

// Dimension returns the vocabulary size, 0 before Prepare.
func (e *Embedder) Dimension() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.idf)
}

// Embed returns the TF-IDF vector of text. Text with no known terms yields a zero vector.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EmbeddingResult{}, err //nolint:wrapcheck // context error
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.vocabulary == nil {
		return domain.EmbeddingResult{}, errNotPrepared
	}

	tf := make(map[int]int)
	total := 0
	for _, tok := range e.tokenize(text) {
		if idx, ok := e.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}

	vec := make([]float32, len(e.idf))
	if total == 0 {
		return domain.EmbeddingResult{Embedding: vec}, nil
	}

	raw := make([]float64, len(e.idf))
	var norm float64
	for idx, count := range tf {
		raw[idx] = float64(count) / float64(total) * e.idf[idx]
		norm += raw[idx] * raw[idx]
	}
	norm = math.Sqrt(norm)
	for i, v := range raw {
		vec[i] = float32(v / norm)
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// HealthCheck reports whether the vocabulary is ready.
func (e *Embedder) HealthCheck(_ context.Context) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.vocabulary == nil {
		return errNotPrepared
	}
	return nil
}

func (e *Embedder) tokenize(text string) []string {
	raw := e.tokens.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, stop := e.stopwords[t]; stop {
			continue
		}
		out = append(out, t)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on",
		"at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this",
		"that", "these", "those", "from", "up", "down", "over", "under", "again", "further", "than",
		"so", "such", "into", "about", "between", "through", "during", "before", "after", "above",
		"below", "out", "off", "own", "same", "too", "very", "can", "will", "just", "don", "should",
		"now", "what", "do", "does", "you", "your", "we", "our", "i", "my", "me",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
