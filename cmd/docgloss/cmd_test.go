package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const testGlossary = `categories:
  - name: Delivery
    terms:
      - term: Continuous Integration (CI)
        definition: Merging work to trunk several times a day.
        source: Fowler
        url: https://martinfowler.com/articles/continuousIntegration.html
      - term: trunk
        definition: The shared mainline branch.
        source: TBD
        url: https://trunkbaseddevelopment.com
`

const testGuide = `---
id: ci
title: Continuous Integration
footnotes:
  - label: Fowler on CI
    url: https://martinfowler.com/articles/continuousIntegration.html
    source: martinfowler.com
  - label: Trunk based development
    url: https://trunkbaseddevelopment.com
    source: trunkbaseddevelopment.com
---
# Why CI

Continuous Integration keeps the trunk green.[^1]
`

func writeFixtures(t *testing.T) (glossaryFile, guideFile string) {
	t.Helper()
	dir := t.TempDir()
	glossaryFile = filepath.Join(dir, "glossary.yaml")
	guideFile = filepath.Join(dir, "ci.md")
	require.NoError(t, os.WriteFile(glossaryFile, []byte(testGlossary), 0o644))
	require.NoError(t, os.WriteFile(guideFile, []byte(testGuide), 0o644))
	return glossaryFile, guideFile
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(t.TempDir(), "none.yaml")}, args...))
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestPatternsCommand(t *testing.T) {
	glossaryFile, _ := writeFixtures(t)
	out := run(t, "patterns", "--glossary", glossaryFile)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[0], "LITERAL")
	require.Contains(t, lines[1], "Continuous Integration")
	require.Contains(t, lines[2], "trunk")
	require.Contains(t, lines[3], "abbreviation")
}

func TestAnnotateCommand(t *testing.T) {
	glossaryFile, guideFile := writeFixtures(t)
	out := run(t, "annotate", guideFile, "--glossary", glossaryFile, "--mode", "tree", "--page", "ci")

	require.Equal(t, 2, strings.Count(out, `class="glossary-term"`))
	require.Contains(t, out, "Fowler on CI")
	require.Contains(t, out, "Trunk based development")
}

func TestFootnotesCommand(t *testing.T) {
	_, guideFile := writeFixtures(t)
	out := run(t, "footnotes", guideFile)

	require.Contains(t, out, "ci: 2 links, 1 shortcodes replaced")
	cited, further, ok := strings.Cut(out, "further reading:")
	require.True(t, ok)
	require.Contains(t, cited, "[1] Fowler on CI <https://martinfowler.com/articles/continuousIntegration.html>")
	require.Contains(t, further, "Trunk based development <https://trunkbaseddevelopment.com>")
}
