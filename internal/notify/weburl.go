package notify

import (
	"fmt"
	"strings"
)

const apiRepoPrefix = "https://api.github.com/repos/"

// BrowserURL converts an API subject URL into the address a person would
// open in a browser. Pull requests need the singular path segment; an
// unrecognized resource yields no link rather than a guessed one.
func BrowserURL(apiURL string) (string, bool) {
	rest, ok := strings.CutPrefix(apiURL, apiRepoPrefix)
	if !ok {
		return "", false
	}
	parts := strings.Split(rest, "/")
	if len(parts) < 4 {
		return "", false
	}
	owner, repo, kind, ref := parts[0], parts[1], parts[2], parts[3]
	if owner == "" || repo == "" || ref == "" {
		return "", false
	}

	switch kind {
	case "pulls":
		return fmt.Sprintf("https://github.com/%s/%s/pull/%s", owner, repo, ref), true
	case "issues":
		return fmt.Sprintf("https://github.com/%s/%s/issues/%s", owner, repo, ref), true
	case "commits":
		return fmt.Sprintf("https://github.com/%s/%s/commit/%s", owner, repo, ref), true
	case "discussions":
		return fmt.Sprintf("https://github.com/%s/%s/discussions/%s", owner, repo, ref), true
	case "releases":
		// Release subjects reference an opaque release ID the web UI cannot
		// address directly; the repo's releases page is the nearest target.
		return fmt.Sprintf("https://github.com/%s/%s/releases", owner, repo), true
	}
	return "", false
}
