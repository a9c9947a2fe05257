package market

import (
	"strings"

	"github.com/RobBrazier/audiodrop/internal/model"
)

// Filter returns the audiobooks whose name, description or author contains
// query, ignoring case. An empty query returns every audiobook.
func Filter(audiobooks []model.Audiobook, query string) []model.Audiobook {
	query = strings.ToLower(query)
	result := make([]model.Audiobook, 0, len(audiobooks))
	for _, ab := range audiobooks {
		if query == "" ||
			strings.Contains(strings.ToLower(ab.Name), query) ||
			strings.Contains(strings.ToLower(ab.Desc), query) ||
			strings.Contains(strings.ToLower(ab.WrittenBy), query) {
			result = append(result, ab)
		}
	}
	return result
}
