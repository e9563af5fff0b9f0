// Package youtube extracts video IDs from the URL shapes teachers paste.
package youtube

import "regexp"

// idLen is the length of every YouTube video ID.
const idLen = 11

var idPattern = regexp.MustCompile(`^.*(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*).*`)

// VideoID returns the video ID in rawURL. The second result is false when
// no ID can be found or it is not exactly 11 characters long.
func VideoID(rawURL string) (string, bool) {
	m := idPattern.FindStringSubmatch(rawURL)
	if m == nil || len(m[2]) != idLen {
		return "", false
	}
	return m[2], true
}

// ThumbnailURL is the high-quality still for a video ID.
func ThumbnailURL(id string) string {
	return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
}

// EmbedURL is the iframe source for a video ID.
func EmbedURL(id string) string {
	return "https://www.youtube.com/embed/" + id
}
