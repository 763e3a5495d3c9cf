package osmxml

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestUnparse_Scalar(t *testing.T) {
	root := NewMap()
	inner := NewMap()
	inner.Put("name", "Alice")
	root.Put("root", inner)

	out, err := Unparse(root, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.(string)
	if s != "<root><name>Alice</name></root>" {
		t.Errorf("unexpected output: %s", s)
	}
}

func TestUnparse_Attributes(t *testing.T) {
	root := NewMap()
	inner := NewMap()
	inner.Put("@k", "a")
	inner.Put("@v", "b")
	root.Put("tag", inner)

	out, err := Unparse(root, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.(string)
	if s != `<tag k="a" v="b"></tag>` {
		t.Errorf("unexpected output: %s", s)
	}
}

func TestUnparse_BytesOutput(t *testing.T) {
	root := NewMap()
	root.Put("root", "value")

	out, err := Unparse(root, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, ok := out.([]byte)
	if !ok {
		t.Fatalf("expected []byte, got %T", out)
	}
	if string(b) != "<root>value</root>" {
		t.Errorf("unexpected output: %s", b)
	}
}

func TestUnparse_TupleSeq(t *testing.T) {
	root := NewMap()
	node := NewMap()
	node.Put("@id", int64(1))
	root.Put("create", Seq{Tuple{Name: "node", Value: node}})

	out, err := Unparse(root, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.(string)
	if s != `<create><node id="1"></node></create>` {
		t.Errorf("unexpected output: %s", s)
	}
}

func TestUnparse_SeqOfScalars(t *testing.T) {
	root := NewMap()
	inner := NewMap()
	inner.Put("x", Seq{"1", "2", "3"})
	root.Put("root", inner)

	out, err := Unparse(root, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.(string)
	if s != "<root><x>1</x><x>2</x><x>3</x></root>" {
		t.Errorf("unexpected output: %s", s)
	}
}

func TestUnparse_RootCardinality(t *testing.T) {
	root := NewMap()
	root.Put("a", Seq{"1", "2"})

	_, err := Unparse(root, false)
	if err == nil {
		t.Fatal("expected BadRootError for multi-scalar root Seq")
	}
	var bad *BadRootError
	if !errors.As(err, &bad) {
		t.Errorf("expected *BadRootError, got %T", err)
	}
}

func TestUnparse_MultiEntryRootRejected(t *testing.T) {
	root := NewMap()
	root.Put("a", "1")
	root.Put("b", "2")

	_, err := Unparse(root, false)
	if err == nil {
		t.Fatal("expected BadRootError for multi-entry root map")
	}
	var bad *BadRootError
	if !errors.As(err, &bad) {
		t.Errorf("expected *BadRootError, got %T", err)
	}
}

func TestUnparse_CDATA(t *testing.T) {
	root := NewMap()
	root.Put("script", CDATA("a < b && c > d"))

	out, err := Unparse(root, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.(string)
	if s != "<script><![CDATA[a < b && c > d]]></script>" {
		t.Errorf("unexpected output: %s", s)
	}
}

func TestUnparse_TimestampUTC(t *testing.T) {
	root := NewMap()
	root.Put("timestamp", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))

	out, err := Unparse(root, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.(string)
	if s != "<timestamp>2024-01-02T03:04:05Z</timestamp>" {
		t.Errorf("unexpected output: %s", s)
	}
}

func TestUnparse_TimestampWithMicros(t *testing.T) {
	root := NewMap()
	root.Put("timestamp", time.Date(2024, 1, 2, 3, 4, 5, 123000, time.UTC))

	out, err := Unparse(root, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.(string)
	if !strings.HasSuffix(s, ".000123Z</timestamp>") {
		t.Errorf("unexpected output: %s", s)
	}
}

func TestUnparse_NonUTCTimestampRejected(t *testing.T) {
	loc := time.FixedZone("PST", -8*3600)
	root := NewMap()
	root.Put("timestamp", time.Date(2024, 1, 2, 3, 4, 5, 0, loc))

	_, err := Unparse(root, false)
	if err == nil {
		t.Fatal("expected NonUTCTimestampError")
	}
	var bad *NonUTCTimestampError
	if !errors.As(err, &bad) {
		t.Errorf("expected *NonUTCTimestampError, got %T", err)
	}
}

func TestUnparse_BoolAndNil(t *testing.T) {
	root := NewMap()
	inner := NewMap()
	inner.Put("@visible", true)
	inner.Put("#text", nil)
	root.Put("node", inner)

	out, err := Unparse(root, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.(string)
	if s != `<node visible="true"></node>` {
		t.Errorf("unexpected output: %s", s)
	}
}

func TestUnparse_EscapesText(t *testing.T) {
	root := NewMap()
	root.Put("root", "a & b < c")

	out, err := Unparse(root, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := out.(string)
	if s != "<root>a &amp; b &lt; c</root>" {
		t.Errorf("unexpected output: %s", s)
	}
}

// ============================================================================
// Round-trip (§8 property 1/2)
// ============================================================================

func TestRoundTrip_ParseUnparseParse(t *testing.T) {
	inputs := []string{
		`<root><name>Alice</name></root>`,
		`<root><id>42</id><lat>1.5</lat><visible>true</visible></root>`,
		`<root><tag k="a" v="b"/></root>`,
		`<root><x>1</x><x>2</x><x>3</x></root>`,
		`<osmChange><create><node id="1"/></create><modify><way id="2"/></modify></osmChange>`,
	}

	for _, in := range inputs {
		tree, err := Parse([]byte(in))
		if err != nil {
			t.Fatalf("parse(%q): unexpected error: %v", in, err)
		}
		out, err := Unparse(tree, false)
		if err != nil {
			t.Fatalf("unparse(parse(%q)): unexpected error: %v", in, err)
		}
		reparsed, err := Parse([]byte(out.(string)))
		if err != nil {
			t.Fatalf("parse(unparse(parse(%q))): unexpected error: %v", in, err)
		}
		if reparsed.Dump() != tree.Dump() {
			t.Errorf("round-trip mismatch for %q:\n  first:  %s\n  second: %s", in, tree.Dump(), reparsed.Dump())
		}
	}
}
