package sync

import (
	"regexp"
	"strings"
)

// The footer links a mirrored issue back to its origin. Its format is
// fixed: a horizontal rule followed by the canonical URL of the
// originating issue. It is excluded from fingerprints so that appending
// it never registers as a content change.
const footerPrefix = "Synced from: "

var footerRe = regexp.MustCompile(`(?s)\n*---\n` + footerPrefix + `(\S+)\s*$`)

// splitFooter separates a description into its body and the footer URL.
// The URL is empty when no footer is present.
func splitFooter(description string) (body, originURL string) {
	loc := footerRe.FindStringSubmatchIndex(description)
	if loc == nil {
		return description, ""
	}
	return description[:loc[0]], description[loc[2]:loc[3]]
}

// stripFooter returns the description without its footer.
func stripFooter(description string) string {
	body, _ := splitFooter(description)
	return body
}

// footerURL extracts the origin URL from a description's footer.
func footerURL(description string) (string, bool) {
	_, u := splitFooter(description)
	return u, u != ""
}

// withFooter returns the description with a footer pointing at originURL.
// An existing footer is preserved untouched, whatever it points at.
func withFooter(description, originURL string) string {
	if _, ok := footerURL(description); ok {
		return description
	}
	body := strings.TrimRight(description, "\n")
	if body == "" {
		return "---\n" + footerPrefix + originURL
	}
	return body + "\n\n---\n" + footerPrefix + originURL
}
