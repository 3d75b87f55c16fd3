package googlenews

import (
	"director-watch/providers"
	"testing"

	"github.com/mmcdole/gofeed"
)

func TestMapItemToCandidateSplitsSource(t *testing.T) {
	item := &gofeed.Item{
		Title:       "Director arrested in fraud case - The Hindu",
		Link:        "https://www.thehindu.com/news/123",
		Description: "<a href=\"x\">Director arrested</a>&nbsp;in fraud case",
	}
	candidate := mapItemToCandidate(item, providers.QuerySpec{Language: "en", Country: "IN"})

	if candidate.Title != "Director arrested in fraud case" {
		t.Errorf("title = %q", candidate.Title)
	}
	if candidate.Source != "The Hindu" {
		t.Errorf("source = %q", candidate.Source)
	}
	if candidate.SourceType != "mainstream_national" {
		t.Errorf("source type = %q", candidate.SourceType)
	}
	if candidate.Provider != "googlenews" {
		t.Errorf("provider = %q", candidate.Provider)
	}
}

func TestStripTags(t *testing.T) {
	if got := stripTags("<p>Hello <b>world</b></p>"); got != "Hello world" {
		t.Errorf("stripTags = %q", got)
	}
}
