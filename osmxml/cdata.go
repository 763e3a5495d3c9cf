package osmxml

import "fmt"

// CDATA wraps text that Unparse must emit as a <![CDATA[...]]> section
// instead of escaped text, both as an element body and as a "#text"
// value (§4.5). Grounded on original_source/speedup/xml_unparse.c's
// CDATAObject (a Python wrapper whose __str__ returns the wrapped text)
// and the teacher's own "#cdata" handling in streaming_encoder.go.
type CDATA string

func (c CDATA) String() string { return string(c) }

func (c CDATA) GoString() string { return fmt.Sprintf("osmxml.CDATA(%q)", string(c)) }
