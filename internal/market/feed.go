package market

import (
	"context"
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/RobBrazier/audiodrop/internal/model"
	"github.com/gorilla/feeds"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var fs embed.FS

// Feed publishes the drop's listings. It does not need a wallet.
func (s *service) Feed(ctx context.Context, link string) (feeds.Feed, error) {
	audiobooks, err := s.AllAudiobooks(ctx, s.provider.ReadOnly())
	if err != nil {
		return feeds.Feed{}, err
	}
	catalog, _ := s.catalogs.GetIfPresent(s.provider.ModuleAddress())
	created := catalog.Created
	if created.IsZero() {
		created = time.Now()
	}
	return s.buildFeed("Audiobooks", link, created, audiobooks), nil
}

func (s *service) buildFeed(title, link string, created time.Time, audiobooks []model.Audiobook) feeds.Feed {
	feed := &feeds.Feed{
		Title:       title,
		Link:        &feeds.Link{Href: link + "/explore"},
		Created:     created,
		Description: fmt.Sprintf("Generated on %s", created.Format("02 Jan 2006 15:04:05 (-0700)")),
		Updated:     created,
	}
	for _, ab := range audiobooks {
		var enclosure *feeds.Enclosure
		if ab.Image != "" {
			enclosure = &feeds.Enclosure{
				Url:  ab.Image,
				Type: "image/*",
			}
		}
		feed.Add(&feeds.Item{
			Id:          ab.Id,
			Title:       ab.Name,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/owned/%s", link, ab.Id)},
			Author:      &feeds.Author{Name: ab.WrittenBy},
			Description: ab.Desc,
			Content:     s.renderContent(ab),
			Created:     created,
			Enclosure:   enclosure,
		})
	}
	return *feed
}

func (s *service) renderContent(ab model.Audiobook) string {
	var builder strings.Builder
	if err := s.templates.ExecuteTemplate(&builder, "content.tmpl", ab); err != nil {
		log.Error().Err(err).Str("token", ab.Id).Msg("error rendering feed content")
	}
	return builder.String()
}
