package journey

import (
	"sort"
	"strings"
)

// NewPublicSummary strips a journey down to what the public landing
// page may see: title, hero image and stop titles. Notes, links, icons,
// ids and the shareable token never make it into the result because no
// code path writes them.
func NewPublicSummary(j JourneyWithStops) PublicSummary {
	var hero *string
	for _, st := range j.Stops {
		if st.Order != 1 {
			continue
		}
		if st.ImageURL != nil && strings.TrimSpace(*st.ImageURL) != "" {
			url := *st.ImageURL
			hero = &url
		}
		break
	}

	sorted := append([]Stop(nil), j.Stops...)
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Order < sorted[b].Order
	})

	highlights := make([]string, 0, len(sorted))
	for _, st := range sorted {
		highlights = append(highlights, st.Title)
	}

	return PublicSummary{
		JourneyTitle: j.Title,
		HeroImageURL: hero,
		Highlights:   highlights,
	}
}
