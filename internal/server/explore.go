package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/RobBrazier/audiodrop/cmd/web"
	"github.com/RobBrazier/audiodrop/internal/drop"
	"github.com/RobBrazier/audiodrop/internal/market"
	"github.com/RobBrazier/audiodrop/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

func (s *Server) page(r *http.Request, title string) web.Page {
	return web.Page{
		Title:       title,
		Description: title,
		Theme:       themeFromRequest(r),
		Session:     session.FromContext(r.Context()),
	}
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	writeContentType("text/html", w)
	if err := s.renderer.Page(w, name, data); err != nil {
		log.Error().Err(err).Str("page", name).Msg("error rendering page")
	}
}

func (s *Server) renderPartial(w http.ResponseWriter, name string, data any) {
	writeContentType("text/html", w)
	if err := s.renderer.Partial(w, name, data); err != nil {
		log.Error().Err(err).Str("partial", name).Msg("error rendering partial")
	}
}

// ExploreHandler renders the page shell. Listings load in a second request so
// the skeleton shows while the drop is queried.
func (s *Server) ExploreHandler(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	s.renderPage(w, "explore", web.ExplorePage{
		Page:      s.page(r, "Audiobooks - Explore"),
		Highlight: s.highlight,
		Explore: market.Explore{
			Connected:  sess.Connected(),
			Query:      r.URL.Query().Get("q"),
			Purchasing: s.market.PurchaseInProgress(r.Context(), sess),
		},
	})
}

func (s *Server) renderListings(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	query := r.FormValue("q")
	log := log.With().Str("session", sess.Id).Str("query", query).Logger()
	view, err := s.market.Explore(r.Context(), sess, query)
	if err != nil {
		log.Error().Err(err).Msg("error retrieving audiobooks")
		http.Error(w, "audiobooks are unavailable right now", http.StatusBadGateway)
		return
	}
	log.Debug().Int("total", view.Total).Int("shown", len(view.Audiobooks)).Msg("Rendering audiobooks")
	s.renderPartial(w, "listings", web.Listings{Explore: view, Highlight: s.highlight})
}

func (s *Server) ListingsHandler(w http.ResponseWriter, r *http.Request) {
	s.renderListings(w, r)
}

func parseQuantity(value string) (int, error) {
	if value == "" {
		return 1, nil
	}
	quantity, err := strconv.Atoi(value)
	if err != nil || quantity < 1 {
		return 0, fmt.Errorf("invalid quantity %q", value)
	}
	return quantity, nil
}

func (s *Server) PurchaseHandler(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	tokenId := chi.URLParam(r, "id")
	quantity, err := parseQuantity(r.FormValue("quantity"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// the response still has to render once the wait is over
	ctx, cancel := context.WithTimeout(r.Context(), s.purchaseWait)
	defer cancel()
	err = s.market.Purchase(ctx, sess, tokenId, quantity)
	switch {
	case errors.Is(err, drop.ErrNoWallet):
		log.Debug().Str("session", sess.Id).Msg("purchase without a wallet ignored")
	case errors.Is(err, market.ErrPurchasePending):
		log.Info().Str("session", sess.Id).Str("token", tokenId).Msg("Purchase still settling, status will be polled")
	}
	s.renderListings(w, r)
}

func (s *Server) StatusHandler(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if s.market.PurchaseInProgress(r.Context(), sess) {
		s.renderPartial(w, "modal", true)
		return
	}
	// reload the listings so the outcome toast and highlight show up
	s.renderPartial(w, "modal-settled", nil)
}

func (s *Server) OwnedHandler(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	id := chi.URLParam(r, "id")
	hasAccess := s.market.HasAccess(r.Context(), sess, id)
	log.Info().Str("token", id).Str("wallet", sess.Wallet).Bool("access", hasAccess).Msg("Checked membership access")
	s.renderPage(w, "owned", web.OwnedPage{
		Page:      s.page(r, fmt.Sprintf("Awesome Audiobooks - Audiobook #%s", id)),
		Id:        id,
		HasAccess: hasAccess,
	})
}
