package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/RobBrazier/audiodrop/internal/model"
	"github.com/RobBrazier/audiodrop/internal/session"
	"github.com/rs/zerolog/log"
)

const themeCookie = "theme"

func themeFromRequest(r *http.Request) model.Theme {
	cookie, err := r.Cookie(themeCookie)
	if err != nil {
		return model.THEME_LIGHT
	}
	return model.ParseTheme(cookie.Value)
}

// redirectBack sends the browser to the page the form was posted from. Only a
// local path of the referer is kept; anything else goes to /explore.
func redirectBack(w http.ResponseWriter, r *http.Request) {
	target := "/explore"
	if referer, err := url.Parse(r.Referer()); err == nil && localPath(referer.Path) {
		target = referer.Path
		if referer.RawQuery != "" {
			target += "?" + referer.RawQuery
		}
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// localPath rejects paths a browser would resolve against another host, such
// as "//host" or "/\host".
func localPath(p string) bool {
	if !strings.HasPrefix(p, "/") {
		return false
	}
	return len(p) == 1 || (p[1] != '/' && p[1] != '\\')
}

func (s *Server) ThemeHandler(w http.ResponseWriter, r *http.Request) {
	theme := themeFromRequest(r).Toggle()
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    string(theme),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
	redirectBack(w, r)
}

func (s *Server) ConnectHandler(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	wallet, err := session.NormalizeWallet(r.FormValue("address"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess.Wallet = wallet
	if err := s.codec.Write(w, sess); err != nil {
		log.Error().Err(err).Msg("error writing session cookie")
		http.Error(w, "could not connect wallet", http.StatusInternalServerError)
		return
	}
	log.Info().Str("session", sess.Id).Str("wallet", wallet).Msg("Wallet connected")
	redirectBack(w, r)
}

func (s *Server) DisconnectHandler(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	sess.Wallet = ""
	if err := s.codec.Write(w, sess); err != nil {
		log.Error().Err(err).Msg("error writing session cookie")
		http.Error(w, "could not disconnect wallet", http.StatusInternalServerError)
		return
	}
	log.Info().Str("session", sess.Id).Msg("Wallet disconnected")
	redirectBack(w, r)
}
