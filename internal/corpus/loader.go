// Package corpus reads the question and answer sources into Documents.
package corpus

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// defaultResponseField is the answers-source key that carries the canned reply.
const defaultResponseField = "default_response"

// Corpus is the loaded knowledge base.
type Corpus struct {
	Documents       []domain.Document
	DefaultResponse string
}

// Load reads both sources. Any failure is a *domain.LoadError.
// The answers source must be JSON; its default_response field is extracted
// before chunking and falls back to domain.DefaultResponse when absent or blank.
func Load(questionsPath, answersPath string) (Corpus, error) {
	questions, err := readSource(questionsPath)
	if err != nil {
		return Corpus{}, err
	}

	answers, err := readSource(answersPath)
	if err != nil {
		return Corpus{}, err
	}

	defaultResponse, err := extractDefaultResponse([]byte(answers.Content))
	if err != nil {
		return Corpus{}, domain.NewLoadError(answersPath, err)
	}

	return Corpus{
		Documents:       []domain.Document{questions, answers},
		DefaultResponse: defaultResponse,
	}, nil
}

func readSource(path string) (domain.Document, error) {
	if strings.TrimSpace(path) == "" {
		return domain.Document{}, domain.NewLoadError(path, errors.New("path is empty"))
	}
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return domain.Document{}, domain.NewLoadError(path, err)
	}
	return domain.Document{Source: path, Content: string(data)}, nil
}

func extractDefaultResponse(data []byte) (string, error) {
	if !gjson.ValidBytes(data) {
		return "", fmt.Errorf("answers source is not valid JSON")
	}
	v := gjson.GetBytes(data, defaultResponseField)
	if v.Type != gjson.String || strings.TrimSpace(v.Str) == "" {
		return domain.DefaultResponse, nil
	}
	return v.Str, nil
}
