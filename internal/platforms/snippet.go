package platforms

import (
	"regexp"
	"strconv"
	"strings"
)

// Search snippets phrase counts as "12,345 views" or "678 upvotes".
// Extraction is a best-effort heuristic: phrasing and locale vary, so an
// unmatched metric defaults to zero rather than failing the fetch.
var (
	viewsPattern    = regexp.MustCompile(`(?i)([\d,]+)\s*views?`)
	upvotesPattern  = regexp.MustCompile(`(?i)([\d,]+)\s*upvotes?`)
	likesPattern    = regexp.MustCompile(`(?i)([\d,]+)\s*likes?`)
	retweetsPattern = regexp.MustCompile(`(?i)([\d,]+)\s*retweets?`)
	repliesPattern  = regexp.MustCompile(`(?i)([\d,]+)\s*(?:replies|reply)`)
)

// matchCount returns the first count matched by re in snippet, with comma
// thousands separators stripped, or 0 when there is no match.
func matchCount(re *regexp.Regexp, snippet string) int {
	m := re.FindStringSubmatch(snippet)
	if len(m) < 2 {
		return 0
	}
	n, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
	if err != nil {
		return 0
	}
	return n
}
