package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/goliatone/go-formflow"
	"github.com/goliatone/go-formflow/pkg/schema"
)

type violation struct {
	file     string
	location string
	message  string
}

func main() {
	flag.Usage = func() {
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths or globs...]\n", filepath.Base(os.Args[0])); err != nil {
			panic(err)
		}
		if _, err := fmt.Fprintf(flag.CommandLine.Output(), "\nCheck form schemas for structural problems.\n"); err != nil {
			panic(err)
		}
	}
	flag.Parse()

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{
			"examples/fixtures/onboarding.json",
			"examples/fixtures/feedback.yaml",
		}
	}
	paths, err := expand(patterns)
	if err != nil {
		fmt.Fprintf(os.Stderr, "lint: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	loader := formflow.NewLoader()

	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(ctx, loader, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "lint %s: %v\n", path, err)
			os.Exit(1)
		}
		violations = append(violations, linted...)
	}

	if len(violations) > 0 {
		sort.Slice(violations, func(i, j int) bool {
			if violations[i].file == violations[j].file {
				if violations[i].location == violations[j].location {
					return violations[i].message < violations[j].message
				}
				return violations[i].location < violations[j].location
			}
			return violations[i].file < violations[j].file
		})
		for _, v := range violations {
			fmt.Fprintf(os.Stderr, "%s: %s -> %s\n", v.file, v.location, v.message)
		}
		os.Exit(1)
	}
}

// expand resolves ** globs; plain paths pass through so missing files are
// reported by lintFile.
func expand(patterns []string) ([]string, error) {
	var out []string
	seen := make(map[string]struct{})
	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			out = appendUnique(out, seen, pattern)
			continue
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			out = appendUnique(out, seen, m)
		}
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	for _, r := range pattern {
		switch r {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

func appendUnique(out []string, seen map[string]struct{}, path string) []string {
	if _, ok := seen[path]; ok {
		return out
	}
	seen[path] = struct{}{}
	return append(out, path)
}

func lintFile(ctx context.Context, loader schema.Loader, path string) ([]violation, error) {
	doc, err := loader.Load(ctx, schema.SourceFromFile(path))
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	_, err = doc.Decode()
	if err == nil {
		return nil, nil
	}
	problems := schema.SchemaErrors(err)
	if len(problems) == 0 {
		return nil, err
	}

	result := make([]violation, 0, len(problems))
	for _, p := range problems {
		location := p.Path
		if p.FieldID != "" {
			location = fmt.Sprintf("%s (%s)", p.Path, p.FieldID)
		}
		message := p.Err.Error()
		if p.Detail != "" {
			message = fmt.Sprintf("%s: %s", message, p.Detail)
		}
		result = append(result, violation{file: path, location: location, message: message})
	}
	return result, nil
}
