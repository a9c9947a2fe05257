package market

import (
	"testing"

	"github.com/RobBrazier/audiodrop/internal/model"
	"github.com/stretchr/testify/assert"
)

var library = []model.Audiobook{
	{Id: "0", Name: "Dune", Desc: "A desert planet", WrittenBy: "Frank Herbert"},
	{Id: "1", Name: "Emma", Desc: "Matchmaking in Highbury", WrittenBy: "Jane Austen"},
	{Id: "2", Name: "Persuasion", Desc: "Second chances", WrittenBy: "Jane Austen"},
	{Id: "3", Name: "Neuromancer", Desc: "Cyberspace heist", WrittenBy: "William Gibson"},
}

func ids(audiobooks []model.Audiobook) []string {
	result := []string{}
	for _, ab := range audiobooks {
		result = append(result, ab.Id)
	}
	return result
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query returns all", "", []string{"0", "1", "2", "3"}},
		{"matches name", "dune", []string{"0"}},
		{"matches description", "HEIST", []string{"3"}},
		{"matches author", "austen", []string{"1", "2"}},
		{"substring across fields", "an", []string{"0", "1", "2", "3"}},
		{"no match", "tolkien", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(library, tt.query)))
		})
	}
}

func TestFilterIsSubsetInOrder(t *testing.T) {
	got := Filter(library, "e")
	for _, ab := range got {
		assert.Contains(t, library, ab)
	}
	assert.Equal(t, []string{"0", "1", "2", "3"}, ids(got))
}

func TestFilterDoesNotAliasInput(t *testing.T) {
	got := Filter(library, "")
	got[0].Name = "changed"
	assert.Equal(t, "Dune", library[0].Name)
}
