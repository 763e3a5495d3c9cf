package osmxml

import (
	"bytes"
	"encoding/xml"
	"io"
)

// ParseOption configures a Parse call, following the teacher's functional
// options pattern (xml/xml.go's Option/config).
type ParseOption func(*parseConfig)

type parseConfig struct {
	dates DateParsers
}

func defaultParseConfig() *parseConfig {
	return &parseConfig{dates: defaultDateParsers()}
}

// WithDateParsers overrides the injectable timestamp-parsing pair of §9.
// Most callers never need this; it exists so a caller with its own
// "fromisoformat"/"parse_date" equivalents can plug them in without
// touching the engine.
func WithDateParsers(dates DateParsers) ParseOption {
	return func(c *parseConfig) { c.dates = dates }
}

// parser holds the three current-frame slots of §4.2 plus the bounded
// frame stack and the per-parse intern caches. One parser is used per
// Parse call and is never reused or shared across goroutines.
type parser struct {
	dates DateParsers
	cache *internCache
	stack frameStack

	started bool
	curName string
	curDict *OrderedMap
	curList Seq
}

// Parse consumes an in-memory XML byte buffer and returns the single-root
// nested tree described in the package doc (§3). On failure it returns one
// of the error kinds in errors.go; no partial result is ever returned.
func Parse(data []byte, opts ...ParseOption) (*OrderedMap, error) {
	cfg := defaultParseConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Strict = true

	p := &parser{dates: cfg.dates, cache: newInternCache()}

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, &MalformedError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if err := p.onStart(t); err != nil {
				return nil, err
			}
		case xml.CharData:
			if err := p.onText(string(t)); err != nil {
				return nil, err
			}
		case xml.EndElement:
			root, done, err := p.onEnd()
			if err != nil {
				return nil, err
			}
			if done {
				return root, nil
			}
		default:
			// xml.Comment, xml.ProcInst, xml.Directive: not part of the
			// data model (§2 Non-goals); ignored.
		}
	}

	return nil, &EmptyDocumentError{}
}

// onStart implements "On element-open" (§4.2): push the current frame
// unless this is the very first element the parser has ever seen, then
// start a fresh frame and consume attributes.
//
// The push guard is "have we seen an element before", not "does the
// current frame hold anything": a parent with no attributes/text yet
// (current_dict == Py_None in the original, not C-NULL) must still be
// pushed when its first child opens.
func (p *parser) onStart(e xml.StartElement) error {
	if p.started {
		if err := p.stack.push(frame{name: p.curName, dict: p.curDict, list: p.curList}); err != nil {
			return err
		}
	}
	p.started = true

	p.curName = p.cache.tagName(e.Name.Local)
	p.curDict = nil
	p.curList = nil

	for _, attr := range e.Attr {
		coerced, err := coerce(attr.Name.Local, attr.Value, p.dates)
		if err != nil {
			return err
		}
		if p.curDict == nil {
			p.curDict = NewMap()
		}
		p.curDict.Put(p.cache.attrKey(attr.Name.Local), coerced)
	}
	return nil
}

// onText implements "On text" (§4.2): #text is a single slot, last write
// wins within one element (§9's "replace" design-note pin).
func (p *parser) onText(raw string) error {
	if raw == "" {
		return nil
	}
	coerced, err := coerce(p.curName, raw, p.dates)
	if err != nil {
		return err
	}
	if p.curDict == nil {
		p.curDict = NewMap()
	}
	p.curDict.Put("#text", coerced)
	return nil
}

// onEnd implements "On element-close" (§4.2): compute current_result per
// the four-way dict/list table, then either finish the document (stack
// empty) or pop the parent frame and merge current_result into it.
func (p *parser) onEnd() (root *OrderedMap, done bool, err error) {
	result, present := closeResult(p.curDict, p.curList)

	if p.stack.depthCount() == 0 {
		if !present {
			// Pinned open question (§9 / DESIGN.md): an empty root
			// element unwraps to an empty map, not an absent value.
			result = NewMap()
		}
		root = NewMap()
		root.Put(p.curName, result)
		return root, true, nil
	}

	parent := p.stack.pop()
	cname := p.curName

	if present {
		mergeIntoParent(&parent.dict, &parent.list, cname, result)
	}

	p.curName = parent.name
	p.curDict = parent.dict
	p.curList = parent.list
	return nil, false, nil
}

// closeResult implements the element-close result table of §4.2.
func closeResult(dict *OrderedMap, list Seq) (result any, present bool) {
	switch {
	case dict == nil && list == nil:
		return nil, false
	case list == nil:
		if dict.Len() == 1 && dict.Keys()[0] == "#text" {
			return dict.Get("#text"), true
		}
		return dict, true
	case dict == nil:
		return list, true
	default:
		merged := list
		dict.ForEach(func(k string, v any) bool {
			merged = append(merged, Tuple{Name: k, Value: v})
			return true
		})
		return merged, true
	}
}

// mergeIntoParent implements the merge rules that follow the close-result
// table in §4.2: items mode for force_items children, then the
// existing/absent/force_list dispatch for everything else. pdict and
// plist are threaded through pointers since lazily allocating a Null slot
// (§9's "lazily promoted" design note) must be observed by the caller.
func mergeIntoParent(pdict **OrderedMap, plist *Seq, cname string, result any) {
	if isForceItems(cname) {
		*plist = append(*plist, Tuple{Name: cname, Value: result})
		return
	}

	var existing any
	if *pdict != nil {
		existing = (*pdict).Get(cname)
	}

	switch ex := existing.(type) {
	case nil:
		if *pdict == nil {
			*pdict = NewMap()
		}
		if isForceList(cname) {
			(*pdict).Put(cname, Seq{result})
		} else {
			(*pdict).Put(cname, result)
		}
	case Seq:
		(*pdict).Put(cname, append(ex, result))
	default:
		(*pdict).Put(cname, Seq{existing, result})
	}
}
