// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import "strings"

const subjectMarker = "/subject/"

// IDFromPath returns the path component following "/subject/" in a path
// or absolute URL. Query strings, fragments and trailing slashes are
// ignored. The boolean is false when the marker is absent or nothing
// follows it.
func IDFromPath(path string) (string, bool) {
	i := strings.Index(path, subjectMarker)
	if i < 0 {
		return "", false
	}
	rest := path[i+len(subjectMarker):]
	if j := strings.IndexAny(rest, "/?#"); j >= 0 {
		rest = rest[:j]
	}
	rest = strings.TrimSpace(rest)
	return rest, rest != ""
}

// pageIdentifier reads the identifier a detail page declares for itself.
func pageIdentifier(d *Document) (string, bool) {
	return First(d,
		mapped(selectAttr("link[rel='canonical']", "href"), IDFromPath),
		mapped(metaProperty("og:url"), IDFromPath),
	)
}
