package drop

import (
	"encoding/json"
	"errors"
)

var (
	ErrNoWallet          = errors.New("no wallet connected")
	ErrNotFound          = errors.New("token not found")
	ErrTransactionFailed = errors.New("transaction failed")
)

// Token is an ERC-1155 token of the drop, metadata as published on-chain.
type Token struct {
	Id       string          `json:"tokenId"`
	Supply   string          `json:"supply"`
	Metadata json.RawMessage `json:"metadata"`
}

type Balance struct {
	Amount string `json:"amount"`
}

type TransactionStatus string

const (
	STATUS_QUEUED    TransactionStatus = "queued"
	STATUS_SENT      TransactionStatus = "sent"
	STATUS_MINED     TransactionStatus = "mined"
	STATUS_ERRORED   TransactionStatus = "errored"
	STATUS_CANCELLED TransactionStatus = "cancelled"
)

func (s TransactionStatus) Settled() bool {
	switch s {
	case STATUS_MINED, STATUS_ERRORED, STATUS_CANCELLED:
		return true
	default:
		return false
	}
}

type Receipt struct {
	QueueId         string
	TransactionHash string
	TokenId         string
	Quantity        int
}
