package market

import (
	"context"
	"errors"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"github.com/RobBrazier/audiodrop/internal/cache"
	"github.com/RobBrazier/audiodrop/internal/drop"
	"github.com/RobBrazier/audiodrop/internal/model"
	"github.com/RobBrazier/audiodrop/internal/session"
	"github.com/gorilla/feeds"
	"github.com/rs/zerolog/log"
)

const (
	MessagePurchased      = "Successfully purchased"
	MessagePurchaseFailed = "Purchase failed!"
)

// ErrPurchasePending is returned when the request ends before the purchase
// settles. The outcome is still reported to the session once it does.
var ErrPurchasePending = errors.New("purchase still settling")

type ModuleProvider interface {
	Module(wallet string) (drop.BundleDrop, error)
	ReadOnly() drop.BundleDrop
	ModuleAddress() string
}

// Explore is everything the explore page shows for one session.
type Explore struct {
	Connected   bool
	Query       string
	Total       int
	Audiobooks  []model.Audiobook
	Highlighted string
	Purchasing  bool
	Toasts      []model.Toast
}

// Empty reports that listings exist but none match the query.
func (e Explore) Empty() bool {
	return e.Total != 0 && len(e.Audiobooks) == 0
}

type Marketplace interface {
	Explore(ctx context.Context, s session.Session, query string) (Explore, error)
	Purchase(ctx context.Context, s session.Session, tokenId string, quantity int) error
	PurchaseInProgress(ctx context.Context, s session.Session) bool
	HasAccess(ctx context.Context, s session.Session, id string) bool
	Feed(ctx context.Context, link string) (feeds.Feed, error)
}

type service struct {
	provider  ModuleProvider
	catalogs  *cache.CatalogCache
	store     session.Store
	metrics   *Metrics
	templates *template.Template
}

func NewService(provider ModuleProvider, catalogs *cache.CatalogCache, store session.Store, metrics *Metrics) Marketplace {
	return &service{
		provider: provider,
		catalogs: catalogs,
		store:    store,
		metrics:  metrics,
		templates: template.Must(
			template.New("base").Funcs(sprig.FuncMap()).ParseFS(fs, "templates/*.tmpl"),
		),
	}
}

// AllAudiobooks returns every listing of the drop, served from the catalog
// cache while it is fresh.
func (s *service) AllAudiobooks(ctx context.Context, module drop.BundleDrop) ([]model.Audiobook, error) {
	address := s.provider.ModuleAddress()
	loader := cache.CatalogLoaderFunc(func(ctx context.Context, key string) (model.Catalog, error) {
		start := time.Now()
		log.Info().Str("module", key).Msg("Fetching audiobooks")
		tokens, err := module.GetAll(ctx)
		s.metrics.fetchDuration.Observe(time.Since(start).Seconds())
		s.metrics.fetches.WithLabelValues(outcome(err)).Inc()
		if err != nil {
			return model.Catalog{}, err
		}
		log.Info().Str("module", key).Int("audiobooks", len(tokens)).Dur("elapsed", time.Since(start)).Msg("Retrieved audiobooks")
		return model.NewCatalog(key, mapAudiobooks(tokens)), nil
	})
	catalog, err := s.catalogs.Get(ctx, address, loader)
	if err != nil {
		return nil, err
	}
	return catalog.Audiobooks, nil
}

func (s *service) Explore(ctx context.Context, sess session.Session, query string) (Explore, error) {
	view := Explore{Connected: sess.Connected(), Query: query}
	log := log.With().Str("session", sess.Id).Logger()

	var err error
	if view.Highlighted, err = s.store.Highlight(ctx, sess.Id); err != nil {
		log.Warn().Err(err).Msg("error reading highlight")
	}
	if view.Purchasing, err = s.store.PurchaseInProgress(ctx, sess.Id); err != nil {
		log.Warn().Err(err).Msg("error reading purchase state")
	}
	if view.Toasts, err = s.store.PopToasts(ctx, sess.Id); err != nil {
		log.Warn().Err(err).Msg("error reading toasts")
	}

	module, err := s.provider.Module(sess.Wallet)
	if errors.Is(err, drop.ErrNoWallet) {
		return view, nil
	}
	if err != nil {
		return view, err
	}
	all, err := s.AllAudiobooks(ctx, module)
	if err != nil {
		return view, err
	}
	view.Total = len(all)
	view.Audiobooks = Filter(all, query)
	return view, nil
}

// Purchase claims quantity of tokenId for the session's wallet and waits for
// the transaction. The outcome is reported to the session as a toast; a
// success also highlights the listing and drops the cached catalog.
//
// A claim that is already queued may still be mined after ctx is done, so the
// settlement runs on its own and ErrPurchasePending is returned instead. The
// purchase stays in progress until it settles.
func (s *service) Purchase(ctx context.Context, sess session.Session, tokenId string, quantity int) error {
	module, err := s.provider.Module(sess.Wallet)
	if err != nil {
		return err
	}
	log := log.With().Str("session", sess.Id).Str("token", tokenId).Int("quantity", quantity).Logger()

	if err := s.store.BeginPurchase(ctx, sess.Id); err != nil {
		log.Warn().Err(err).Msg("error marking purchase")
	}

	settled := make(chan error, 1)
	go func() {
		settled <- s.settle(ctx, module, sess, tokenId, quantity)
	}()

	select {
	case err := <-settled:
		return err
	case <-ctx.Done():
		select {
		case err := <-settled:
			return err
		default:
		}
		log.Warn().Err(ctx.Err()).Msg("Purchase still settling after the request ended")
		return ErrPurchasePending
	}
}

func (s *service) settle(ctx context.Context, module drop.BundleDrop, sess session.Session, tokenId string, quantity int) error {
	log := log.With().Str("session", sess.Id).Str("token", tokenId).Int("quantity", quantity).Logger()
	// the request context may be cancelled before the claim settles
	detached := context.WithoutCancel(ctx)
	defer func() {
		if err := s.store.EndPurchase(detached, sess.Id); err != nil {
			log.Warn().Err(err).Msg("error clearing purchase")
		}
	}()

	_, err := module.Claim(ctx, tokenId, quantity)
	s.metrics.purchases.WithLabelValues(outcome(err)).Inc()
	if err != nil {
		log.Error().Err(err).Msg("Purchase failed")
		s.notify(detached, sess.Id, model.Toast{Kind: model.TOAST_ERROR, Message: MessagePurchaseFailed})
		return err
	}

	log.Info().Msg("Purchased audiobook")
	s.notify(detached, sess.Id, model.Toast{Kind: model.TOAST_SUCCESS, Message: MessagePurchased})
	s.catalogs.Invalidate(s.provider.ModuleAddress())
	if err := s.store.SetHighlight(detached, sess.Id, tokenId); err != nil {
		log.Warn().Err(err).Msg("error setting highlight")
	}
	return nil
}

func (s *service) notify(ctx context.Context, sid string, toast model.Toast) {
	if err := s.store.PushToast(ctx, sid, toast); err != nil {
		log.Warn().Err(err).Str("session", sid).Msg("error pushing toast")
	}
}

func (s *service) PurchaseInProgress(ctx context.Context, sess session.Session) bool {
	busy, err := s.store.PurchaseInProgress(ctx, sess.Id)
	if err != nil {
		log.Warn().Err(err).Str("session", sess.Id).Msg("error reading purchase state")
	}
	return busy
}

// HasAccess reports whether the session's wallet holds the token. Any failure
// counts as no access.
func (s *service) HasAccess(ctx context.Context, sess session.Session, id string) bool {
	module, err := s.provider.Module(sess.Wallet)
	if err != nil {
		return false
	}
	balance, err := module.BalanceOf(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("token", id).Str("wallet", sess.Wallet).Msg("error checking membership access")
		return false
	}
	return balance.Sign() > 0
}
