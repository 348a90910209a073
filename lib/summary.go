package lib

import "sort"

type Summary struct {
	Total       int
	Lines       int
	Kinds       map[TokenKind]int
	Keywords    map[string]int
	Identifiers map[string]int
}

type SummaryBuilder struct {
	summary Summary
}

func NewSummaryBuilder() *SummaryBuilder {
	return &SummaryBuilder{
		summary: Summary{
			Lines:       1,
			Kinds:       map[TokenKind]int{},
			Keywords:    map[string]int{},
			Identifiers: map[string]int{},
		},
	}
}

func (s *SummaryBuilder) handleToken(tok Token) {
	s.summary.Total++
	s.summary.Kinds[tok.Kind]++
	if tok.Line > s.summary.Lines {
		s.summary.Lines = tok.Line
	}

	switch tok.Kind {
	case KindKeyword:
		s.summary.Keywords[tok.Lexeme]++
	case KindIdentifier:
		s.summary.Identifiers[tok.Lexeme]++
	default:
		// Only names are tallied individually
	}
}

// SummaryFromReader drains reader and tallies what it saw. Lines is the last
// line a token started on.
func SummaryFromReader(reader TokenReader) (Summary, error) {
	builder := NewSummaryBuilder()
	for {
		tok, done, err := reader.Next()
		if err != nil {
			return Summary{}, err
		}
		if done {
			break
		}
		builder.handleToken(tok)
	}
	return builder.summary, nil
}

type NameCount struct {
	Name  string
	Count int
}

// TopIdentifiers returns up to n identifiers, most frequent first, ties
// broken by name.
func (s Summary) TopIdentifiers(n int) []NameCount {
	counts := make([]NameCount, 0, len(s.Identifiers))
	for name, count := range s.Identifiers {
		counts = append(counts, NameCount{Name: name, Count: count})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Name < counts[j].Name
	})
	if n >= 0 && len(counts) > n {
		counts = counts[:n]
	}
	return counts
}
