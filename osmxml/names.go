package osmxml

import "sort"

// forceItems is the closed set of element local-names that switch their
// parent into items mode (§4.2, GLOSSARY "force_items"). Must stay sorted
// for sort.SearchStrings.
var forceItems = []string{"bounds", "create", "delete", "modify", "node", "relation", "way"}

// forceList is the closed set of element local-names that must present as
// a one-element Seq even on a single occurrence (§4.2, GLOSSARY
// "force_list"). Must stay sorted for sort.SearchStrings.
var forceList = []string{
	"comment", "gpx_file", "member", "nd", "note",
	"preference", "tag", "trk", "trkpt", "trkseg",
}

func inSortedSet(set []string, name string) bool {
	i := sort.SearchStrings(set, name)
	return i < len(set) && set[i] == name
}

func isForceItems(name string) bool { return inSortedSet(forceItems, name) }
func isForceList(name string) bool  { return inSortedSet(forceList, name) }
