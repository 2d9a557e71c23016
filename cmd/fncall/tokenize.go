package main

import (
	"fmt"
	"strings"

	"github.com/rickchristie/fncall/tokenizer"
	"github.com/spf13/cobra"
)

func newTokenizeCmd() *cobra.Command {
	var vocab string

	cmd := &cobra.Command{
		Use:   "tokenize text...",
		Short: "Show the token ids of a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var tok tokenizer.Tokenizer = tokenizer.NewStub()
			if vocab != "" {
				bpe, err := tokenizer.LoadBPE(vocab)
				if err != nil {
					return err
				}
				tok = bpe
			}

			ids := tok.Encode(strings.Join(args, " "))
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tokens: %d\n", len(ids))
			fmt.Fprintf(out, "ids: %v\n", ids)
			fmt.Fprintf(out, "decoded: %s\n", tokenizer.Clean(tok.Decode(ids)))
			return nil
		},
	}

	cmd.Flags().StringVar(&vocab, "vocab", "", "directory with vocab.json and merges.txt (default: word-level stub)")
	return cmd
}
