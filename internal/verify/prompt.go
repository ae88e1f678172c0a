package verify

import "fmt"

// resultFormatInstruction is appended to every analysis prompt, text or image.
// The parser depends on this exact output contract.
const resultFormatInstruction = `Respond with ONLY a single JSON object and no other text, no markdown fences, no prose. The object must have exactly these keys:
"verdict": one of "Fake", "Real" or "Uncertain"
"confidenceScore": a number from 0 to 100
"explanation": a concise rationale for the verdict, written in English
"language": the BCP-47 tag of the language the news is written in (for an image, the language visible in it)
"realNewsSummary": include this key IF AND ONLY IF the verdict is "Fake"; a short English summary of what reliable sources say actually happened. Omit the key for any other verdict.`

// BuildTextPrompt interpolates the submitted news text into the analysis prompt.
func BuildTextPrompt(newsText string) string {
	return fmt.Sprintf(`You are a fact-checking assistant. Cross-reference the following news item against current web sources and decide whether it is fake, real, or uncertain.

News item:
"""
%s
"""

%s`, newsText, resultFormatInstruction)
}

// BuildImagePrompt is the instruction part accompanying an inline image.
func BuildImagePrompt() string {
	return `You are a fact-checking assistant. The attached image contains a news item (article screenshot, headline or social media post). Read it, cross-reference its claims against current web sources and decide whether it is fake, real, or uncertain.

` + resultFormatInstruction
}

// BuildTranslationPrompt asks for a bare translation with no formatting.
func BuildTranslationPrompt(text, targetLang string) string {
	return fmt.Sprintf(`Translate the following text into the language with BCP-47 tag %q. Respond with ONLY the translated text, no quotes, no formatting, no commentary.

%s`, targetLang, text)
}
