package buildplan

import (
	"fmt"
	"slices"
	"strings"
)

// AllLanguages selects every shipped language.
const AllLanguages = "all"

var languages = []string{
	"english", "french", "italian", "spanish", "german", "portuguese", "russian", "polish", "japanese",
	"traditionalchinese", "simplifiedchinese", "englisharabic",
}

// Languages returns the selectable languages, AllLanguages first.
func Languages() []string {
	return append([]string{AllLanguages}, languages...)
}

// ValidateLanguage normalises lang and checks it is selectable.
func ValidateLanguage(lang string) (string, error) {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == AllLanguages || slices.Contains(languages, lang) {
		return lang, nil
	}
	return "", fmt.Errorf("unknown language %q (expected one of %s)", lang, strings.Join(Languages(), ", "))
}

// LanguageArgs renders the linker language arguments.
func LanguageArgs(lang string) []string {
	if lang == AllLanguages {
		args := make([]string, 0, len(languages)*2)
		for _, l := range languages {
			args = append(args, "-language", l)
		}
		return args
	}
	return []string{"-language", lang}
}
