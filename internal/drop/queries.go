package drop

import (
	"context"
	"strings"

	"github.com/Khan/genqlient/graphql"
)

const dropTokensQuery = `query DropTokens($contract: String!) {
  tokens(where: {contract: $contract}, orderBy: tokenId) {
    tokenId
    supply
    metadata
  }
}`

const tokenBalanceQuery = `query TokenBalance($contract: String!, $owner: String!, $tokenId: String!) {
  balances(where: {contract: $contract, owner: $owner, tokenId: $tokenId}) {
    amount
  }
}`

type DropTokensResponse struct {
	Tokens []Token `json:"tokens"`
}

type TokenBalanceResponse struct {
	Balances []Balance `json:"balances"`
}

func DropTokens(ctx context.Context, client graphql.Client, contract string) (*DropTokensResponse, error) {
	req := &graphql.Request{
		OpName: "DropTokens",
		Query:  dropTokensQuery,
		Variables: map[string]any{
			"contract": strings.ToLower(contract),
		},
	}
	data := &DropTokensResponse{}
	resp := &graphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}
	return data, nil
}

func TokenBalance(ctx context.Context, client graphql.Client, contract, owner, tokenId string) (*TokenBalanceResponse, error) {
	req := &graphql.Request{
		OpName: "TokenBalance",
		Query:  tokenBalanceQuery,
		Variables: map[string]any{
			"contract": strings.ToLower(contract),
			"owner":    strings.ToLower(owner),
			"tokenId":  tokenId,
		},
	}
	data := &TokenBalanceResponse{}
	resp := &graphql.Response{Data: data}
	if err := client.MakeRequest(ctx, req, resp); err != nil {
		return nil, err
	}
	return data, nil
}
