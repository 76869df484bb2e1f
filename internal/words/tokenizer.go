// Package words provides caption tokenization and word list handling.
package words

import "strings"

var entityReplacer = strings.NewReplacer(
	"&#39;", "'",
	"&apos;", "'",
	"&quot;", `"`,
)

const breakChars = ".,?!;\"()[]{}:/\\-"

// quoteRunes are stripped only from token edges so that intra-word
// apostrophes (don't, i'm) survive.
var quoteRunes = "`\"'“”‘’"

// Tokenize normalizes a caption fragment into canonical lowercase words.
// Tokens without a letter a-z (including pure numbers) are dropped.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	text = entityReplacer.Replace(text)
	text = strings.ToLower(text)

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(breakChars, r) {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(r)
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.Trim(field, quoteRunes)
		if !hasLetter(token) {
			continue
		}
		tokens = append(tokens, token)
	}
	if len(tokens) == 0 {
		return nil
	}
	return tokens
}

// Canonical normalizes a single word the same way Tokenize does.
// It returns "" when the input does not yield exactly one valid token.
func Canonical(word string) string {
	tokens := Tokenize(word)
	if len(tokens) != 1 {
		return ""
	}
	return tokens[0]
}

// Display renders a canonical word for the screen. The only transform is
// the english pronoun "i", which is stored lowercase but shown capitalized.
func Display(word string) string {
	if word == "i" {
		return "I"
	}
	return word
}

// FilterByList keeps the tokens that are members of list.
func FilterByList(tokens []string, list *List) []string {
	if list == nil {
		return nil
	}
	var kept []string
	for _, token := range tokens {
		if list.Contains(token) {
			kept = append(kept, token)
		}
	}
	return kept
}

func hasLetter(token string) bool {
	for i := 0; i < len(token); i++ {
		if token[i] >= 'a' && token[i] <= 'z' {
			return true
		}
	}
	return false
}
