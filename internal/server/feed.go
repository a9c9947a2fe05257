package server

import (
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/feeds"
	"github.com/rs/zerolog/log"
)

type Format string

const (
	FORMAT_RSS  Format = "rss"
	FORMAT_ATOM Format = "atom"
	FORMAT_JSON Format = "json"
)

func writeContentType(mediaType string, w http.ResponseWriter) {
	params := map[string]string{
		"charset": "utf-8",
	}
	contentType := mime.FormatMediaType(mediaType, params)
	w.Header().Set("Content-Type", contentType)
}

func determineFormat(r *http.Request) Format {
	switch strings.ToLower(chi.URLParam(r, "format")) {
	case "atom":
		return FORMAT_ATOM
	case "json":
		return FORMAT_JSON
	default:
		return FORMAT_RSS
	}
}

func (s *Server) writeFeed(format Format, out *feeds.Feed, w http.ResponseWriter) {
	w.Header().Set("Last-Modified", out.Created.UTC().Format(http.TimeFormat))
	cacheExpiry := out.Created.Add(time.Hour)
	remaining := max(cacheExpiry.Sub(time.Now()), 0)
	w.Header().Set("Cache-Control", fmt.Sprintf("max-age=%d", int(remaining.Seconds())))

	var err error
	switch format {
	case FORMAT_ATOM:
		writeContentType("application/atom+xml", w)
		err = out.WriteAtom(w)
	case FORMAT_JSON:
		writeContentType("application/json", w)
		err = out.WriteJSON(w)
	default:
		writeContentType("application/rss+xml", w)
		err = out.WriteRss(w)
	}
	if err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("error writing feed")
	}
}

func (s *Server) FeedHandler(w http.ResponseWriter, r *http.Request) {
	format := determineFormat(r)
	feed, err := s.market.Feed(r.Context(), s.baseUrl)
	if err != nil {
		log.Error().Err(err).Msg("error retrieving audiobooks for feed")
		w.Header().Set("Cache-Control", "no-store")
		http.Error(w, "audiobooks are unavailable right now", http.StatusBadGateway)
		return
	}
	log.Info().Int("entries", len(feed.Items)).Str("format", string(format)).Msg("Generated audiobook feed")
	s.writeFeed(format, &feed, w)
}
