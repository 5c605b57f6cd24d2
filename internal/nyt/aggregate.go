package nyt

import (
	"sort"

	"github.com/bilgisen/nytproxy/internal/models"
)

// PerSectionLimit is how many of the newest stories each section contributes.
const PerSectionLimit = 2

// MergeTopStories keeps the PerSectionLimit newest stories of every section
// and returns them newest first. Stories with equal timestamps keep their
// input order (section order, then upstream order). Inputs are not modified.
func MergeTopStories(perSection [][]models.TopStoryArticle) []models.TopStoryArticle {
	merged := make([]models.TopStoryArticle, 0, PerSectionLimit*len(perSection))
	for _, articles := range perSection {
		newest := sortedNewestFirst(articles)
		if len(newest) > PerSectionLimit {
			newest = newest[:PerSectionLimit]
		}
		merged = append(merged, newest...)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].PublishedDate.After(merged[j].PublishedDate)
	})
	return merged
}

func sortedNewestFirst(articles []models.TopStoryArticle) []models.TopStoryArticle {
	sorted := append([]models.TopStoryArticle(nil), articles...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PublishedDate.After(sorted[j].PublishedDate)
	})
	return sorted
}
