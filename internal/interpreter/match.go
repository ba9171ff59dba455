package interpreter

import (
	"sort"
	"strings"

	"voice-lights/internal/domain"
)

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// keywordHits counts how many keywords occur in text. A keyword nested inside a
// longer rival keyword ("activate" in "deactivate") only counts when it also
// occurs outside every such rival.
func keywordHits(text string, keywords, rivals []string) int {
	hits := 0
	for _, kw := range keywords {
		masked := text
		for _, r := range rivals {
			if len(r) > len(kw) && strings.Contains(r, kw) {
				masked = strings.ReplaceAll(masked, r, "\x00")
			}
		}
		if strings.Contains(masked, kw) {
			hits++
		}
	}
	return hits
}

// DetectLanguage returns the first supported language, in detection order,
// with an on, off or number keyword present in text. It falls back to
// BaseLanguage.
func DetectLanguage(text string) string {
	lower := strings.ToLower(text)
	for _, l := range languages {
		lex := lexicons[l.Code]
		if containsAny(lower, lex.On) || containsAny(lower, lex.Off) {
			return l.Code
		}
		for word := range lex.Numbers {
			if strings.Contains(lower, word) {
				return l.Code
			}
		}
	}
	return BaseLanguage
}

// ExtractLights returns the light ids text refers to, ascending. Any "all"
// keyword of lang selects every light. Otherwise number words of lang and the
// ASCII digits 1-4 are collected.
func ExtractLights(text, lang string) []int {
	lower := strings.ToLower(text)
	lex := lexicons[lang]

	if containsAny(lower, lex.All) {
		return domain.AllLights()
	}

	found := make(map[int]bool)
	for word, n := range lex.Numbers {
		if strings.Contains(lower, word) {
			found[n] = true
		}
	}
	for _, id := range domain.AllLights() {
		if strings.ContainsRune(lower, rune('0'+id)) {
			found[id] = true
		}
	}

	ids := make([]int, 0, len(found))
	for id := range found {
		if domain.ValidLight(id) {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// compareActions counts on and off keywords of lang in text. ActionNone means
// the counts are equal.
func compareActions(text, lang string) domain.Action {
	lower := strings.ToLower(text)
	lex := lexicons[lang]

	on := keywordHits(lower, lex.On, lex.Off)
	off := keywordHits(lower, lex.Off, lex.On)

	switch {
	case on > off:
		return domain.ActionOn
	case off > on:
		return domain.ActionOff
	default:
		return domain.ActionNone
	}
}
