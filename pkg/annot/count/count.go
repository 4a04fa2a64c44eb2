// Package count defines the tokenization capability used for length
// metrics. Byte counting needs no tokenizer; subword and word counts go
// through a Tokenizer resolved by name.
package count

// Tokenizer splits text into tokens for counting.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
}
