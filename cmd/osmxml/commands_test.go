package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func runCLI(t *testing.T, stdin string, args ...string) string {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	if stdin != "" {
		root.SetIn(strings.NewReader(stdin))
	}
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out.String()
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func TestParseCmd_Summary(t *testing.T) {
	path := writeFile(t, "doc.xml", `<root><a>1</a><b>2</b></root>`)
	out := runCLI(t, "", "parse", path)
	if !strings.Contains(out, "root: 2 attributes/children") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestUnparseCmd_RoundTrip(t *testing.T) {
	path := writeFile(t, "doc.xml", `<root><name>Alice</name></root>`)
	out := runCLI(t, "", "unparse", path)
	if strings.TrimSpace(out) != "<root><name>Alice</name></root>" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestFmtCmd_Indents(t *testing.T) {
	path := writeFile(t, "doc.xml", `<root><name>Alice</name></root>`)
	out := runCLI(t, "", "fmt", path)
	if !strings.Contains(out, "\n  <name>") {
		t.Errorf("expected indented child element, got: %q", out)
	}
}

func TestJSONCmd_EmitsObject(t *testing.T) {
	path := writeFile(t, "doc.xml", `<root><name>Alice</name></root>`)
	out := runCLI(t, "", "json", path)
	if !strings.Contains(out, `"root"`) || !strings.Contains(out, `"Alice"`) {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestQueryCmd_TextOutput(t *testing.T) {
	path := writeFile(t, "doc.xml", `<root><name>Alice</name></root>`)
	out := runCLI(t, "", "--output=text", "query", path, "root/name")
	if strings.TrimSpace(out) != "Alice" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestQueryCmd_JSONOutput(t *testing.T) {
	path := writeFile(t, "doc.xml", `<root><name>Alice</name></root>`)
	out := runCLI(t, "", "query", path, "root/name")
	if strings.TrimSpace(out) != `["Alice"]` {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestParseCmd_ReadsFromStdin(t *testing.T) {
	out := runCLI(t, `<root><a>1</a></root>`, "parse")
	if !strings.Contains(out, "root: 1 attributes/children") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestParseCmd_ConfigFileSuppliesDefault(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "pretty: true\n")
	docPath := writeFile(t, "doc.xml", `<root><name>Alice</name></root>`)

	out := runCLI(t, "", "--config", cfgPath, "json", docPath)
	if !strings.Contains(out, "\n") || !strings.Contains(out, "\"name\": \"Alice\"") {
		t.Errorf("expected config-driven pretty output, got: %q", out)
	}
}

func TestParseCmd_FlagOverridesConfigFile(t *testing.T) {
	cfgPath := writeFile(t, "config.yaml", "pretty: true\n")
	docPath := writeFile(t, "doc.xml", `<root><name>Alice</name></root>`)

	out := runCLI(t, "", "--config", cfgPath, "--pretty=false", "json", docPath)
	if strings.Contains(out, "\n  \"") {
		t.Errorf("expected compact output overriding config, got: %q", out)
	}
}

func TestParseCmd_CacheSkipsUnchanged(t *testing.T) {
	cacheFile := filepath.Join(t.TempDir(), "cache.json")
	docPath := writeFile(t, "doc.xml", `<node id="1" timestamp="2024-01-02T03:04:05Z"/>`)

	first := runCLI(t, "", "--cache", "--cache-file", cacheFile, "parse", docPath)
	if !strings.Contains(first, "node:") {
		t.Fatalf("expected normal output on first run, got: %q", first)
	}

	second := runCLI(t, "", "--cache", "--cache-file", cacheFile, "parse", docPath)
	if strings.Contains(second, "node:") {
		t.Errorf("expected cache hit to suppress output, got: %q", second)
	}
	if !strings.Contains(second, "unchanged") {
		t.Errorf("expected a cache-hit notice, got: %q", second)
	}
}
