package export

import (
	"fmt"
	"os"

	"github.com/gorilla/feeds"

	"github.com/nDmitry/tgpulse/internal/entity"
)

const tgDomain = "t.me"

// AtomFeed renders the collected posts as an Atom feed file and
// returns its path. Posts are already ordered ascending by date, so
// the feed's creation time is the newest post's timestamp.
func (e *Exporter) AtomFeed(channel *entity.Channel, filename string) (string, error) {
	if filename == "" {
		filename = channel.Info.Channel + ".atom"
	}

	feed := &feeds.Feed{
		Title:       channel.Info.Name,
		Description: channel.Info.Description,
		Link:        &feeds.Link{Href: fmt.Sprintf("https://%s/s/%s", tgDomain, channel.Info.Channel)},
	}

	for _, p := range channel.Posts {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:      fmt.Sprintf("%s/%s", channel.Info.Channel, p.ID),
			Author:  &feeds.Author{Name: p.Author},
			Content: p.Text,
			Link:    &feeds.Link{Href: fmt.Sprintf("https://%s/%s/%s", tgDomain, channel.Info.Channel, p.ID)},
			Created: p.Date,
		})

		if p.Date.After(feed.Created) {
			feed.Created = p.Date
		}
	}

	atom, err := feed.ToAtom()

	if err != nil {
		return "", fmt.Errorf("could not marshal channel %s to Atom: %w", channel.Info.Channel, err)
	}

	path := e.filepath(filename)

	if err := os.WriteFile(path, []byte(atom), 0o644); err != nil {
		return "", fmt.Errorf("could not save the feed to %s: %w", path, err)
	}

	e.logger.Info("Feed exported to Atom", "path", path)

	return path, nil
}
