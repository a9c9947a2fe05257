package market

import (
	"encoding/json"
	"testing"

	"github.com/RobBrazier/audiodrop/internal/drop"
	"github.com/RobBrazier/audiodrop/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestMapAudiobookProperties(t *testing.T) {
	token := drop.Token{
		Id:     "4",
		Supply: "21",
		Metadata: json.RawMessage(`{
			"name": "Dune",
			"description": "A desert planet",
			"image": "ipfs://QmHash/0.png",
			"properties": {"writtenBy": "Frank Herbert", "price": "0.01 MATIC"}
		}`),
	}
	assert.Equal(t, model.Audiobook{
		Id:        "4",
		Name:      "Dune",
		Desc:      "A desert planet",
		WrittenBy: "Frank Herbert",
		Price:     "0.01 MATIC",
		Image:     "https://gateway.ipfscdn.io/ipfs/QmHash/0.png",
		Supply:    21,
	}, mapAudiobook(token))
}

func TestMapAudiobookAttributes(t *testing.T) {
	token := drop.Token{
		Id: "5",
		Metadata: json.RawMessage(`{
			"name": "Emma",
			"image": "https://example.com/emma.png",
			"attributes": [{"trait_type": "writtenBy", "value": "Jane Austen"}]
		}`),
	}
	ab := mapAudiobook(token)
	assert.Equal(t, "Jane Austen", ab.WrittenBy)
	assert.Equal(t, "https://example.com/emma.png", ab.Image)
	assert.Empty(t, ab.Price)
	assert.Empty(t, ab.Desc)
	assert.Zero(t, ab.Supply)
}
