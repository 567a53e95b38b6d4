// shelterdump — debugging companion for the shelter native core. Parses a
// .env file the way the library does and prints its entries with masked
// values, so tokenizer and masking behavior can be inspected without going
// through the editor.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ph1losof/shelter.nvim/pkg/document"
	"github.com/ph1losof/shelter.nvim/pkg/envfile"
	"github.com/ph1losof/shelter.nvim/pkg/masking"
	"github.com/ph1losof/shelter.nvim/pkg/version"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	rulesPath := flag.String("rules",
		os.Getenv("SHELTER_RULES"),
		"Path to a YAML mask rule file (default: full masking)")
	maskChar := flag.String("mask-char",
		getEnv("SHELTER_MASK_CHAR", ""),
		"Override the mask character from the rules")
	includeComments := flag.Bool("include-comments", true,
		"Pass the include-comments switch to the tokenizer")
	noPositions := flag.Bool("no-positions", false,
		"Disable byte-span tracking")
	verify := flag.Bool("verify", false,
		"Cross-check decoded values against godotenv and report disagreements")
	scrubPath := flag.String("scrub", "",
		"Print this file with every parsed value masked out")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Full())
		return
	}

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: shelterdump [flags] <file.env>\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	path := flag.Arg(0)

	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read input", "path", path, "error", err)
		os.Exit(1)
	}
	src := string(data)

	rules, err := loadRules(*rulesPath)
	if err != nil {
		slog.Error("Failed to load mask rules", "path", *rulesPath, "error", err)
		os.Exit(1)
	}

	doc := document.Parse(src, envfile.Options{
		IncludeComments: *includeComments,
		TrackPositions:  !*noPositions,
	})

	for _, e := range doc.Entries {
		opts := rules.OptionsFor(e.Key)
		if *maskChar != "" {
			opts.MaskChar = []rune(*maskChar)[0]
		}
		fmt.Printf("%4d  %-32s  %s%s\n", e.LineNumber, e.Key, masking.Value(e.Value, opts), entryFlags(e))
	}

	if *verify {
		verifyAgainstGodotenv(src, doc)
	}

	if *scrubPath != "" {
		scrubFile(*scrubPath, doc)
	}
}

func loadRules(path string) (*masking.RuleSet, error) {
	if path == "" {
		return masking.ParseRules(nil)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	return masking.ParseRules(data)
}

func entryFlags(e document.Entry) string {
	var flags []string
	if e.Exported {
		flags = append(flags, "export")
	}
	if e.Commented {
		flags = append(flags, "commented")
	}
	if e.ValueEndLine > e.LineNumber {
		flags = append(flags, fmt.Sprintf("..%d", e.ValueEndLine))
	}
	if len(flags) == 0 {
		return ""
	}
	return "  (" + strings.Join(flags, ", ") + ")"
}

// verifyAgainstGodotenv reports keys whose decoded values disagree with
// godotenv on the same input. Disagreements are expected on grammar corners
// (multi-line values, commented assignments) — this exists to spot the
// unexpected ones.
func verifyAgainstGodotenv(src string, doc document.Document) {
	ref, err := godotenv.Unmarshal(src)
	if err != nil {
		slog.Warn("godotenv could not parse input", "error", err)
		return
	}

	mismatches := 0
	for _, e := range doc.Entries {
		if e.Commented {
			continue // godotenv never sees commented assignments
		}
		refValue, ok := ref[e.Key]
		if !ok {
			slog.Warn("Key missing from godotenv result", "key", e.Key)
			mismatches++
			continue
		}
		if refValue != e.Value {
			slog.Warn("Value disagreement",
				"key", e.Key, "ours", e.Value, "godotenv", refValue)
			mismatches++
		}
	}
	if mismatches == 0 {
		slog.Info("Verified against godotenv", "entries", len(doc.Entries))
	}
}

// scrubFile prints the target file with every parsed value masked, preserving
// layout. Used to check logs or shell transcripts for leaked secrets.
func scrubFile(path string, doc document.Document) {
	data, err := os.ReadFile(path)
	if err != nil {
		slog.Error("Failed to read scrub target", "path", path, "error", err)
		os.Exit(1)
	}

	secrets := make([]string, 0, len(doc.Entries))
	for _, e := range doc.Entries {
		secrets = append(secrets, e.Value)
	}

	scrubber := masking.NewScrubber(secrets, masking.DefaultMaskChar)
	fmt.Print(scrubber.Scrub(string(data)))
}
