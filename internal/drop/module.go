package drop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/Khan/genqlient/graphql"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// BundleDrop is the handle to a single bundle drop collection. Reads go to the
// indexer, claims go to the gateway on behalf of the bound wallet.
type BundleDrop interface {
	GetAll(ctx context.Context) ([]Token, error)
	Claim(ctx context.Context, tokenId string, quantity int) (Receipt, error)
	BalanceOf(ctx context.Context, tokenId string) (*big.Int, error)
}

type Module struct {
	address         string
	chain           string
	wallet          string
	gateway         string
	indexer         graphql.Client
	http            *http.Client
	claims          *http.Client
	confirmInterval time.Duration
	confirmTimeout  time.Duration
}

func (m *Module) GetAll(ctx context.Context) ([]Token, error) {
	data, err := DropTokens(ctx, m.indexer, m.address)
	if err != nil {
		return nil, fmt.Errorf("fetching tokens for %s: %w", m.address, err)
	}
	return data.Tokens, nil
}

func (m *Module) BalanceOf(ctx context.Context, tokenId string) (*big.Int, error) {
	if m.wallet == "" {
		return nil, ErrNoWallet
	}
	data, err := TokenBalance(ctx, m.indexer, m.address, m.wallet, tokenId)
	if err != nil {
		return nil, fmt.Errorf("fetching balance of token %s: %w", tokenId, err)
	}
	total := new(big.Int)
	for _, balance := range data.Balances {
		amount, ok := new(big.Int).SetString(balance.Amount, 10)
		if !ok {
			return nil, fmt.Errorf("invalid balance amount %q", balance.Amount)
		}
		total.Add(total, amount)
	}
	return total, nil
}

type claimRequest struct {
	Receiver string `json:"receiver"`
	TokenId  string `json:"tokenId"`
	Quantity string `json:"quantity"`
}

// Claim submits a claim for the bound wallet and blocks until the gateway
// reports the transaction as settled. ctx only bounds the submission: once the
// claim is queued it can still be mined, so confirmation is awaited for up to
// the confirm timeout even if ctx is done.
func (m *Module) Claim(ctx context.Context, tokenId string, quantity int) (Receipt, error) {
	if m.wallet == "" {
		return Receipt{}, ErrNoWallet
	}
	if quantity < 1 {
		return Receipt{}, fmt.Errorf("invalid quantity %d", quantity)
	}
	log := log.With().Str("token", tokenId).Str("wallet", m.wallet).Logger()

	body, err := json.Marshal(claimRequest{
		Receiver: m.wallet,
		TokenId:  tokenId,
		Quantity: strconv.Itoa(quantity),
	})
	if err != nil {
		return Receipt{}, err
	}
	endpoint := fmt.Sprintf("%s/contract/%s/%s/erc1155/claim-to", m.gateway, url.PathEscape(m.chain), url.PathEscape(m.address))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return Receipt{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-backend-wallet-address", m.wallet)

	start := time.Now()
	payload, err := m.do(m.claims, req)
	if err != nil {
		return Receipt{}, fmt.Errorf("submitting claim: %w", err)
	}
	queueId := gjson.GetBytes(payload, "result.queueId").String()
	if queueId == "" {
		return Receipt{}, fmt.Errorf("submitting claim: gateway returned no queue id")
	}
	log.Info().Str("queue", queueId).Msg("Claim queued")

	receipt := Receipt{QueueId: queueId, TokenId: tokenId, Quantity: quantity}
	confirmCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.confirmTimeout)
	defer cancel()
	hash, err := m.awaitConfirmation(confirmCtx, queueId)
	if err != nil {
		return receipt, err
	}
	receipt.TransactionHash = hash
	log.Info().Str("tx", hash).Dur("elapsed", time.Since(start)).Msg("Claim mined")
	return receipt, nil
}

func (m *Module) awaitConfirmation(ctx context.Context, queueId string) (string, error) {
	ticker := time.NewTicker(m.confirmInterval)
	defer ticker.Stop()
	for {
		status, hash, reason, err := m.transactionStatus(ctx, queueId)
		if errors.Is(err, ErrNotFound) {
			return "", fmt.Errorf("%w: queue %s is unknown to the gateway", ErrTransactionFailed, queueId)
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return "", fmt.Errorf("awaiting transaction %s: %w", queueId, ctxErr)
			}
			return "", err
		}
		if status.Settled() {
			if status != STATUS_MINED {
				return "", fmt.Errorf("%w: %s %s", ErrTransactionFailed, status, reason)
			}
			return hash, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (m *Module) transactionStatus(ctx context.Context, queueId string) (TransactionStatus, string, string, error) {
	endpoint := fmt.Sprintf("%s/transaction/status/%s", m.gateway, url.PathEscape(queueId))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", "", "", err
	}
	payload, err := m.do(m.http, req)
	if err != nil {
		return "", "", "", fmt.Errorf("checking transaction %s: %w", queueId, err)
	}
	result := gjson.GetBytes(payload, "result")
	return TransactionStatus(result.Get("status").String()),
		result.Get("transactionHash").String(),
		result.Get("errorMessage").String(),
		nil
}

func (m *Module) do(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode >= 300 {
		message := gjson.GetBytes(payload, "error.message").String()
		if message == "" {
			message = http.StatusText(resp.StatusCode)
		}
		return nil, fmt.Errorf("gateway responded %d: %s", resp.StatusCode, message)
	}
	return payload, nil
}
