// Package provider holds what every language-model annotator shares:
// prompt templates, response JSON extraction and error classification.
package provider

import (
	"fmt"

	"github.com/heartmarshall/frenchreader-backend/internal/domain"
)

// DefaultGlossLanguage is used when no gloss language is configured.
const DefaultGlossLanguage = "Korean"

// AnalysisPrompt asks the model to annotate a French text for a learner at level.
// Meanings, summaries and explanations are requested in glossLang.
func AnalysisPrompt(text string, level domain.CEFRLevel, glossLang string) string {
	if glossLang == "" {
		glossLang = DefaultGlossLanguage
	}
	return fmt.Sprintf(`You are an expert analyst of French texts for language learners.

Analyze the French text below for a learner at CEFR level %[2]s:
1. Classify words by part of speech (nouns, verbs, adjectives, adverbs, others) and CEFR level (A1-C2).
2. Find idiomatic expressions, set phrases and collocations.
3. Identify the grammar structures used in the text.
4. Summarize the topic and key message in %[3]s.

Text:
"""
%[1]s
"""

Return ONLY a JSON object, no prose, with this shape:
{
  "summary": {"topic": "topic in %[3]s", "keyMessage": "2-3 sentences in %[3]s"},
  "vocabulary": {
    "nouns": [{"word": "dictionary form", "foundForm": "exact form in the text", "gender": "m or f", "meaning": "%[3]s meaning", "level": "A1-C2", "example": "sentence from the text"}],
    "verbs": [{"word": "infinitive", "foundForm": "exact conjugated form in the text", "tense": "présent, passé composé, imparfait...", "meaning": "%[3]s meaning", "level": "A1-C2", "example": "sentence from the text"}],
    "adjectives": [{"word": "masculine singular", "foundForm": "exact form in the text", "meaning": "%[3]s meaning", "level": "A1-C2", "example": "sentence from the text"}],
    "adverbs": [{"word": "adverb", "foundForm": "exact form in the text", "meaning": "%[3]s meaning", "level": "A1-C2", "example": "sentence from the text"}],
    "others": [{"word": "word", "foundForm": "exact form in the text", "partOfSpeech": "prép., conj., pron. ...", "meaning": "%[3]s meaning", "level": "A1-C2", "example": "sentence from the text"}]
  },
  "expressions": [{"expression": "full expression", "foundForm": "exact form in the text", "meaning": "%[3]s meaning", "level": "A1-C2", "usage": "when it is used", "example": "sentence from the text"}],
  "grammar": [{"name": "name in %[3]s", "nameFr": "name in French", "level": "A1-C2", "foundText": "exact passage in the text", "explanation": "explanation in %[3]s", "rule": "short rule"}],
  "keyPoints": ["what a %[2]s learner should notice", "...", "..."]
}

Rules:
- foundForm and foundText MUST be copied verbatim from the text, keeping case and accents ("été", never "ete").
- Analyze from the point of view of a %[2]s learner but include harder words too.
- Give at least two items per part of speech when the text has them.
- Every example must be quoted from the text.`, text, level, glossLang)
}

// SelectionPrompt asks the model to annotate a word or phrase the user selected.
func SelectionPrompt(selected, context, glossLang string) string {
	if glossLang == "" {
		glossLang = DefaultGlossLanguage
	}
	return fmt.Sprintf(`A learner selected part of a French text.

Selected text: %[1]q

Context:
"""
%[2]s
"""

Return ONLY a JSON object, no prose:
{
  "word": "dictionary form of the word or expression",
  "foundForm": %[1]q,
  "partOfSpeech": "n.m., n.f., v., adj., adv., prép. ...",
  "level": "A1-C2",
  "meaning": "meaning in %[3]s",
  "meaningFr": "French definition",
  "example": "example sentence"
}

If the selection is a conjugated verb, give the infinitive as "word".
If it is an idiom, give the whole expression and explain its meaning.`, selected, context, glossLang)
}
