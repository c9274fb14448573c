// Package search holds the text handling shared by the search index
// projection and the ranked query path.
package search

import (
	"strings"
)

// Document builds the indexed text for an entry: its title and content,
// newline-joined.
func Document(title, content string) string {
	return title + "\n" + content
}

// Tokenize splits a user query on whitespace and drops empty tokens.
func Tokenize(query string) []string {
	fields := strings.Fields(query)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// Expression joins query tokens into the match expression handed to the
// text-search engine. Every token is a required term. The boolean is false
// when the query has no tokens, in which case nothing should be matched.
func Expression(query string) (string, bool) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return "", false
	}
	return strings.Join(tokens, " "), true
}
