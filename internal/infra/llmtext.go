package infra

import "strings"

// CleanLLMText strips the code fences and quoting chat models tend to wrap
// around a bare answer.
func CleanLLMText(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```text")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, `"""`)
	s = strings.TrimSuffix(s, `"""`)
	s = strings.Trim(s, `"'`)
	return strings.TrimSpace(s)
}

// TranslationPrompt is the system prompt shared by the LLM translators.
func TranslationPrompt(target string) string {
	return `You are a non-conversational translation engine for smart home voice commands.
Translate the user's text into the language with ISO 639-1 code "` + target + `".
Keep numbers as digits or words exactly as they appear in meaning.
Do not answer questions, do not explain. Output ONLY the translated text.`
}
