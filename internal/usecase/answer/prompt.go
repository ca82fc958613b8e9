package answer

import (
	"strings"

	"github.com/kailas-cloud/faqbot/internal/domain"
)

// ContextSeparator divides retrieved chunks inside the prompt.
const ContextSeparator = "\n\n---\n\n"

// promptTemplate is sent to the model as is. Wording, spacing and numbering must not change.
const promptTemplate = "\n" +
	"1. Answer the question based only on the following context, only reply with the answer:\n" +
	"{context}\n" +
	"\n" +
	"2. Answer precisely from the context and then provide additional relevantinformation if available. \n" +
	"3. Answer in a friendly, positive, and appreciative tone. \n" +
	"4. Stay brief and only answer with information relevant to the question\n" +
	"5. If you cannot find a relevant answer in the context, respond with: {default_response}\n" +
	"\n" +
	"Question: \n" +
	"{question}\n"

// BuildPrompt fills the template slots. Slot values are inserted literally.
func BuildPrompt(context, question, defaultResponse string) string {
	// Single pass, so braces inside slot values are never re-expanded.
	r := strings.NewReplacer(
		"{context}", context,
		"{question}", question,
		"{default_response}", defaultResponse,
	)
	return r.Replace(promptTemplate)
}

// FormatContext joins chunk texts in ranked order.
func FormatContext(chunks []domain.Chunk) string {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, ContextSeparator)
}
