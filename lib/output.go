package lib

import (
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"gopkg.in/yaml.v3"
)

type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("unknown output format %q", s)
}

var tokenTemplate = template.Must(template.New("tokens").Parse(
	`{{range .}}{{printf "%4d" .Line}}  {{printf "%-14s" .Kind}}  {{.Lexeme}}
{{end}}`))

var summaryTemplate = template.Must(template.New("summary").Parse(
	`tokens: {{.Total}}
lines:  {{.Lines}}
{{range .Kinds}}{{printf "%-14s" .Name}} {{.Count}}
{{end}}{{if .Top}}top identifiers:
{{range .Top}}  {{printf "%-20s" .Name}} {{.Count}}
{{end}}{{end}}`))

type tokenViewModel struct {
	Line   int    `json:"line" yaml:"line"`
	Kind   string `json:"kind" yaml:"kind"`
	Lexeme string `json:"lexeme" yaml:"lexeme"`
}

func newTokenViewModels(tokens []Token) []tokenViewModel {
	vms := make([]tokenViewModel, 0, len(tokens))
	for _, tok := range tokens {
		vms = append(vms, tokenViewModel{Line: tok.Line, Kind: tok.Kind.String(), Lexeme: tok.Lexeme})
	}
	return vms
}

// WriteTokens renders tokens to writer in the given format.
func WriteTokens(writer io.Writer, format Format, tokens []Token) error {
	vms := newTokenViewModels(tokens)

	switch format {
	case FormatText:
		return tokenTemplate.Execute(writer, vms)
	case FormatJSON:
		enc := json.NewEncoder(writer)
		enc.SetIndent("", "  ")
		return enc.Encode(vms)
	case FormatYAML:
		enc := yaml.NewEncoder(writer)
		defer enc.Close()
		return enc.Encode(vms)
	}
	return fmt.Errorf("unknown output format %q", format)
}

type summaryViewModel struct {
	Total int
	Lines int
	Kinds []NameCount
	Top   []NameCount
}

// WriteSummary renders a plain text report of s.
func WriteSummary(writer io.Writer, s Summary, top int) error {
	vm := summaryViewModel{
		Total: s.Total,
		Lines: s.Lines,
		Top:   s.TopIdentifiers(top),
	}
	for kind := KindKeyword; kind <= KindDelimiter; kind++ {
		vm.Kinds = append(vm.Kinds, NameCount{Name: kind.String(), Count: s.Kinds[kind]})
	}
	return summaryTemplate.Execute(writer, vm)
}
