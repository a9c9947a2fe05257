package market

import (
	"strconv"
	"strings"

	"github.com/RobBrazier/audiodrop/internal/drop"
	"github.com/RobBrazier/audiodrop/internal/model"
	"github.com/tidwall/gjson"
)

const ipfsGateway = "https://gateway.ipfscdn.io/ipfs/"

func gatewayUrl(uri string) string {
	if cid, ok := strings.CutPrefix(uri, "ipfs://"); ok {
		return ipfsGateway + cid
	}
	return uri
}

// property reads a custom field from either the properties object or the
// OpenSea style attributes list.
func property(metadata gjson.Result, name string) string {
	if value := metadata.Get("properties." + name); value.Exists() {
		return value.String()
	}
	return metadata.Get(`attributes.#(trait_type=="` + name + `").value`).String()
}

func mapAudiobook(token drop.Token) model.Audiobook {
	metadata := gjson.ParseBytes(token.Metadata)
	supply, _ := strconv.ParseInt(token.Supply, 10, 64)
	return model.Audiobook{
		Id:        token.Id,
		Name:      metadata.Get("name").String(),
		Desc:      metadata.Get("description").String(),
		WrittenBy: property(metadata, "writtenBy"),
		Price:     property(metadata, "price"),
		Image:     gatewayUrl(metadata.Get("image").String()),
		Supply:    supply,
	}
}

func mapAudiobooks(tokens []drop.Token) []model.Audiobook {
	audiobooks := make([]model.Audiobook, 0, len(tokens))
	for _, token := range tokens {
		audiobooks = append(audiobooks, mapAudiobook(token))
	}
	return audiobooks
}
