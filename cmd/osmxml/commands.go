package main

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/r2labs/osmxml/osmxml"
	"github.com/r2labs/osmxml/osmxml/query"
)

func newParseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse an XML document and summarize its root element",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseArgs(cmd, args)
			if err != nil {
				return err
			}

			rootName, rootVal := rootEntry(tree)

			if cfg.Cache {
				skip, err := checkCache(rootName, tree)
				if err != nil {
					return err
				}
				if skip {
					return nil
				}
			}

			out := cmd.OutOrStdout()
			switch v := rootVal.(type) {
			case *osmxml.OrderedMap:
				fmt.Fprintf(out, "%s: %d attributes/children\n", rootName, v.Len())
			case osmxml.Seq:
				fmt.Fprintf(out, "%s: %d items\n", rootName, len(v))
			default:
				fmt.Fprintf(out, "%s: %v\n", rootName, v)
			}
			return nil
		},
	}
}

func newUnparseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unparse [file]",
		Short: "Parse then re-emit an XML document, canonicalizing its form",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseArgs(cmd, args)
			if err != nil {
				return err
			}
			out, err := osmxml.Unparse(tree, false)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out.(string))
			return nil
		},
	}
}

func newFmtCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print an XML document",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseArgs(cmd, args)
			if err != nil {
				return err
			}
			compact, err := osmxml.Unparse(tree, false)
			if err != nil {
				return err
			}

			dec := xml.NewDecoder(strings.NewReader(compact.(string)))
			enc := xml.NewEncoder(cmd.OutOrStdout())
			enc.Indent("", "  ")
			for {
				tok, err := dec.Token()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				if err := enc.EncodeToken(tok); err != nil {
					return err
				}
			}
			if err := enc.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
}

func newJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "json [file]",
		Short: "Parse an XML document and print its tree as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			tree, err := parseArgs(cmd, args)
			if err != nil {
				return err
			}
			if cfg.Pretty {
				fmt.Fprintln(cmd.OutOrStdout(), tree.Dump())
				return nil
			}
			b, err := tree.MarshalJSON()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
}

func newQueryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query [file] <path>",
		Short: "Run a path query against a parsed XML document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[len(args)-1]
			tree, err := parseArgs(cmd, args[:len(args)-1])
			if err != nil {
				return err
			}

			results, err := query.QueryAll(tree, path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if cfg.Output == "text" {
				for _, r := range results {
					fmt.Fprintf(out, "%v\n", r)
				}
				return nil
			}

			enc := json.NewEncoder(out)
			if cfg.Pretty {
				enc.SetIndent("", "  ")
			}
			return enc.Encode(results)
		},
	}
}

func parseArgs(cmd *cobra.Command, args []string) (*osmxml.OrderedMap, error) {
	raw, err := readAll(cmd, args)
	if err != nil {
		return nil, err
	}
	return osmxml.Parse(raw)
}

func rootEntry(tree *osmxml.OrderedMap) (string, any) {
	var name string
	var value any
	tree.ForEach(func(k string, v any) bool {
		name, value = k, v
		return false
	})
	return name, value
}

// checkCache reports whether rootName's content fingerprint in tree
// already matches the last recorded one, in which case the caller should
// skip its normal output. It always records the current fingerprint.
func checkCache(rootName string, tree *osmxml.OrderedMap) (skip bool, err error) {
	fp, err := osmxml.FingerprintDocument(tree)
	if err != nil {
		return false, err
	}
	cache := openFingerprintCache(cfg.CacheFile)
	if cache.Seen(rootName, fp) {
		logger.Printf("%s unchanged (fingerprint %s), skipping", rootName, fp)
		return true, nil
	}
	if err := cache.Record(rootName, fp); err != nil {
		return false, err
	}
	return false, nil
}
