package platforms

import (
	"regexp"
	"testing"
)

func TestMatchCount(t *testing.T) {
	tests := []struct {
		name    string
		pattern *regexp.Regexp
		snippet string
		want    int
	}{
		{"simple views", viewsPattern, "This answer has 1234 views on the site", 1234},
		{"comma separated", viewsPattern, "12,345 views · 678 upvotes", 12345},
		{"singular view", viewsPattern, "1 view so far", 1},
		{"upvotes", upvotesPattern, "12,345 views · 678 upvotes", 678},
		{"likes", likesPattern, "2,100 likes, 450 retweets", 2100},
		{"retweets", retweetsPattern, "2,100 likes, 450 retweets", 450},
		{"replies plural", repliesPattern, "89 replies and counting", 89},
		{"reply singular", repliesPattern, "1 reply", 1},
		{"case insensitive", viewsPattern, "10K post: 500 Views", 500},
		{"no match", viewsPattern, "no numbers to see here", 0},
		{"empty snippet", viewsPattern, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchCount(tt.pattern, tt.snippet); got != tt.want {
				t.Errorf("matchCount() = %d, want %d", got, tt.want)
			}
		})
	}
}
