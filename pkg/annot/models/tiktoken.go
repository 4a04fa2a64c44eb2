package models

import (
	"fmt"

	"github.com/tiktoken-go/tokenizer"

	"github.com/cognicore/annot/pkg/annot/count"
	"github.com/cognicore/annot/pkg/annot/internalerr"
)

var tiktokenEncodings = map[string]tokenizer.Encoding{
	"cl100k_base": tokenizer.Cl100kBase,
	"o200k_base":  tokenizer.O200kBase,
	"p50k_base":   tokenizer.P50kBase,
	"r50k_base":   tokenizer.R50kBase,
}

// TiktokenEncodings lists the subword encodings resolvable by name.
func TiktokenEncodings() []string {
	return []string{"cl100k_base", "o200k_base", "p50k_base", "r50k_base"}
}

// NewTiktoken loads a BPE tokenizer for the named encoding.
func NewTiktoken(name string) (count.Tokenizer, error) {
	enc, ok := tiktokenEncodings[name]
	if !ok {
		return nil, fmt.Errorf("%w: tokenizer %q", internalerr.ErrModelNotFound, name)
	}
	codec, err := tokenizer.Get(enc)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer %q: %w", name, err)
	}
	return &tiktok{codec: codec}, nil
}

type tiktok struct {
	codec tokenizer.Codec
}

func (t *tiktok) Tokenize(text string) ([]string, error) {
	_, tokens, err := t.codec.Encode(text)
	if err != nil {
		return nil, err
	}
	return tokens, nil
}
