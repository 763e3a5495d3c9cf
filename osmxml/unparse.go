package osmxml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Unparse accepts a tree built by Parse (or hand-built to the same shape)
// and emits the XML document described in §4.5. asBytes selects
// byte-encoded (UTF-8) versus string output.
func Unparse(root *OrderedMap, asBytes bool) (any, error) {
	if root == nil || root.Len() != 1 {
		return nil, &BadRootError{Msg: "root must have exactly one entry"}
	}

	var key string
	var value any
	root.ForEach(func(k string, v any) bool {
		key, value = k, v
		return false
	})

	var buf bytes.Buffer
	if err := unparseElement(&buf, key, value, true); err != nil {
		return nil, err
	}

	if asBytes {
		return buf.Bytes(), nil
	}
	return buf.String(), nil
}

// unparseElement dispatches on the runtime type of value, per §4.5's
// per-key table.
func unparseElement(buf *bytes.Buffer, key string, value any, isRoot bool) error {
	switch v := value.(type) {
	case *OrderedMap:
		return unparseDict(buf, key, v)
	case Seq:
		return unparseSeq(buf, key, v, isRoot)
	default:
		return unparseScalar(buf, key, v)
	}
}

// unparseSeq implements the three Seq rows of §4.5's table. Items are
// dispatched per element (rather than assuming the whole Seq is
// homogeneous) because the repeated-child-upgrade rule in the parser
// (§4.2) can itself produce a Seq mixing a bare scalar with a later map
// when the same child name resolves differently across occurrences.
func unparseSeq(buf *bytes.Buffer, key string, seq Seq, isRoot bool) error {
	var tuplesOpen bool

	for _, item := range seq {
		switch it := item.(type) {
		case *OrderedMap:
			if isRoot && len(seq) > 1 {
				return &BadRootError{Msg: "root cannot contain multiple maps"}
			}
			if err := unparseDict(buf, key, it); err != nil {
				return err
			}
		case Tuple:
			if !tuplesOpen {
				buf.WriteByte('<')
				buf.WriteString(key)
				for _, other := range seq {
					if at, ok := other.(Tuple); ok && strings.HasPrefix(at.Name, "@") {
						if err := unparseItem(buf, at.Name, at.Value); err != nil {
							return err
						}
					}
				}
				buf.WriteByte('>')
				tuplesOpen = true
			}
			if strings.HasPrefix(it.Name, "@") {
				continue
			}
			if err := unparseItem(buf, it.Name, it.Value); err != nil {
				return err
			}
		default:
			if isRoot && len(seq) > 1 {
				return &BadRootError{Msg: "root cannot contain multiple scalars"}
			}
			if err := unparseScalar(buf, key, it); err != nil {
				return err
			}
		}
	}

	if tuplesOpen {
		buf.WriteString("</")
		buf.WriteString(key)
		buf.WriteByte('>')
	}
	return nil
}

// unparseDict opens element key, writes its "@"-attributes into the
// opening tag (first pass, since all attribute entries in an
// OrderedMap produced by Parse precede any child/text entry by
// construction — attributes are always set at element-open time), then
// applies the item rule to every remaining entry in insertion order
// (second pass).
func unparseDict(buf *bytes.Buffer, key string, m *OrderedMap) error {
	buf.WriteByte('<')
	buf.WriteString(key)

	var attrErr error
	m.ForEach(func(k string, v any) bool {
		if !strings.HasPrefix(k, "@") {
			return true
		}
		s, err := stringify(v)
		if err != nil {
			attrErr = err
			return false
		}
		buf.WriteByte(' ')
		buf.WriteString(k[1:])
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(s))
		buf.WriteByte('"')
		return true
	})
	if attrErr != nil {
		return attrErr
	}
	buf.WriteByte('>')

	var childErr error
	m.ForEach(func(k string, v any) bool {
		if strings.HasPrefix(k, "@") {
			return true
		}
		if k == "#text" {
			childErr = writeTextBody(buf, v)
		} else {
			childErr = unparseElement(buf, k, v, false)
		}
		return childErr == nil
	})
	if childErr != nil {
		return childErr
	}

	buf.WriteString("</")
	buf.WriteString(key)
	buf.WriteByte('>')
	return nil
}

// unparseItem implements the §4.5 item rule applied to one (kk, vv) pair:
// an attribute, the #text slot, or a recursive child element.
func unparseItem(buf *bytes.Buffer, k string, v any) error {
	if strings.HasPrefix(k, "@") {
		s, err := stringify(v)
		if err != nil {
			return err
		}
		buf.WriteByte(' ')
		buf.WriteString(k[1:])
		buf.WriteString(`="`)
		buf.WriteString(escapeAttr(s))
		buf.WriteByte('"')
		return nil
	}
	if k == "#text" {
		return writeTextBody(buf, v)
	}
	return unparseElement(buf, k, v, false)
}

// unparseScalar opens key, writes v's stringified (or CDATA) body, closes
// key.
func unparseScalar(buf *bytes.Buffer, key string, v any) error {
	buf.WriteByte('<')
	buf.WriteString(key)
	buf.WriteByte('>')
	if err := writeTextBody(buf, v); err != nil {
		return err
	}
	buf.WriteString("</")
	buf.WriteString(key)
	buf.WriteByte('>')
	return nil
}

// writeTextBody writes v as escaped text, or as a CDATA section when v is
// a CDATA value.
func writeTextBody(buf *bytes.Buffer, v any) error {
	if c, ok := v.(CDATA); ok {
		buf.WriteString("<![CDATA[")
		buf.WriteString(string(c))
		buf.WriteString("]]>")
		return nil
	}
	s, err := stringify(v)
	if err != nil {
		return err
	}
	return xml.EscapeText(buf, []byte(s))
}

func escapeAttr(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// stringify implements §4.5's Stringify rules.
func stringify(v any) (string, error) {
	switch t := v.(type) {
	case bool:
		if t {
			return "true", nil
		}
		return "false", nil
	case nil:
		return "", nil
	case string:
		return t, nil
	case CDATA:
		return string(t), nil
	case time.Time:
		return stringifyTimestamp(t)
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64), nil
	default:
		return fmt.Sprintf("%v", t), nil
	}
}

// stringifyTimestamp implements §4.5's timestamp format: "Z"-suffixed
// ISO-8601, microseconds included only when nonzero; a non-UTC location
// is rejected with NonUTCTimestampError.
func stringifyTimestamp(t time.Time) (string, error) {
	if loc := t.Location(); loc != time.UTC {
		name, offset := t.Zone()
		if offset != 0 || (name != "UTC" && name != "") {
			return "", &NonUTCTimestampError{Location: t.Location().String()}
		}
	}
	us := t.Nanosecond() / 1000
	if us == 0 {
		return t.Format("2006-01-02T15:04:05") + "Z", nil
	}
	return fmt.Sprintf("%s.%06dZ", t.Format("2006-01-02T15:04:05"), us), nil
}
