package osmxml

// internCache memoizes element local-name -> reusable name key, and
// attribute local-name -> "@"-prefixed key, for the lifetime of a single
// parse call (§4.3). Grounded on
// original_source/speedup/xml_parse.c's StringCacheEntry hash table
// (stb_ds shget/shput); the Go equivalent of a per-parse scoped hash map
// is simply a builtin map local to the parser.
type internCache struct {
	tags  map[string]string
	attrs map[string]string
}

func newInternCache() *internCache {
	return &internCache{
		tags:  make(map[string]string),
		attrs: make(map[string]string),
	}
}

func (c *internCache) tagName(name string) string {
	if cached, ok := c.tags[name]; ok {
		return cached
	}
	c.tags[name] = name
	return name
}

func (c *internCache) attrKey(name string) string {
	if cached, ok := c.attrs[name]; ok {
		return cached
	}
	key := "@" + name
	c.attrs[name] = key
	return key
}
