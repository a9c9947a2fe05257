package drop

import (
	"net/http"
	"time"

	"github.com/Khan/genqlient/graphql"
)

type Options struct {
	GatewayUrl      string
	IndexerUrl      string
	ApiKey          string
	Chain           string
	ModuleAddress   string
	ConfirmInterval time.Duration
	ConfirmTimeout  time.Duration
}

// Provider hands out bundle drop handles. A handle is bound to one wallet, so
// callers ask for a new one whenever the connected wallet changes.
type Provider struct {
	opts    Options
	indexer graphql.Client
	http    *http.Client
	claims  *http.Client
}

func NewProvider(opts Options) *Provider {
	httpClient := GetHTTPClient(opts.ApiKey)
	if opts.ConfirmInterval <= 0 {
		opts.ConfirmInterval = 2 * time.Second
	}
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = 10 * time.Minute
	}
	return &Provider{
		opts:    opts,
		indexer: GetIndexerClient(opts.IndexerUrl, httpClient),
		http:    httpClient,
		claims:  GetClaimClient(opts.ApiKey),
	}
}

func (p *Provider) ModuleAddress() string {
	return p.opts.ModuleAddress
}

// Module returns the drop handle for wallet, or ErrNoWallet when no wallet is
// connected.
func (p *Provider) Module(wallet string) (BundleDrop, error) {
	if wallet == "" {
		return nil, ErrNoWallet
	}
	return p.module(wallet), nil
}

// ReadOnly returns a handle without a wallet. Claims and balances fail on it.
func (p *Provider) ReadOnly() BundleDrop {
	return p.module("")
}

func (p *Provider) module(wallet string) *Module {
	return &Module{
		address:         p.opts.ModuleAddress,
		chain:           p.opts.Chain,
		wallet:          wallet,
		gateway:         p.opts.GatewayUrl,
		indexer:         p.indexer,
		http:            p.http,
		claims:          p.claims,
		confirmInterval: p.opts.ConfirmInterval,
		confirmTimeout:  p.opts.ConfirmTimeout,
	}
}
