package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	dictLang     string
	dictWordlist string
	dictLimit    int
)

func newDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Query the word list the monkey is judged against",
	}
	cmd.PersistentFlags().StringVar(&dictLang, "lang", defaultLang, "word list language")
	cmd.PersistentFlags().StringVar(&dictWordlist, "wordlist", "", "word list file (default: downloaded list for --lang)")

	check := &cobra.Command{
		Use:   "check WORD...",
		Short: "Report whether each word counts as a find",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDictCheckCmd,
	}
	prefix := &cobra.Command{
		Use:   "prefix PREFIX",
		Short: "List words starting with a prefix",
		Args:  cobra.ExactArgs(1),
		RunE:  runDictPrefixCmd,
	}
	prefix.Flags().IntVar(&dictLimit, "limit", 20, "maximum words to print (0 = all)")
	cmd.AddCommand(check, prefix)
	return cmd
}

func runDictCheckCmd(cmd *cobra.Command, args []string) error {
	dict, _, err := loadDictionary(strings.ToLower(dictLang), dictWordlist)
	if err != nil {
		return err
	}
	for _, word := range args {
		verdict := "no"
		if dict.Contains(word) {
			verdict = "yes"
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", word, verdict); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runDictPrefixCmd(cmd *cobra.Command, args []string) error {
	dict, _, err := loadDictionary(strings.ToLower(dictLang), dictWordlist)
	if err != nil {
		return err
	}
	for _, word := range dict.WithPrefix(args[0], dictLimit) {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), word); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}
