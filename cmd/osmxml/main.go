// Command osmxml converts between OSM/GPX XML documents and the dynamic
// tree the osmxml package builds: parse, unparse, pretty-print, dump as
// JSON, or run a path query.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
