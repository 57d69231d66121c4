package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/nDmitry/tgpulse/internal/entity"
)

// earliestCursor anchors a page fetch at the very beginning of a
// channel's history.
const earliestCursor = "2"

// Collect walks the channel's paginated history back in time until
// the lookback window is exhausted, the post ceiling is reached or
// the source runs out of pages. It returns the posts sorted ascending
// by date (all carrying a valid timestamp) together with the numeric
// ID of the newest post seen on the first non-empty page, 0 when
// unknown.
//
// Pages are assumed locally time-ordered: once a post older than the
// cutoff shows up and a whole page yields nothing acceptable,
// pagination stops. An upstream page spanning the boundary out of
// order could therefore hide some recent posts; this approximation is
// deliberate.
func (s *Scraper) Collect(ctx context.Context, channelName string, days, maxPosts int) ([]entity.Post, int, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	pageURL := fmt.Sprintf("%s/s/%s", s.cfg.Parsing.BaseURL, channelName)

	s.logger.Debug("Collecting posts",
		"channel", channelName,
		"cutoff", cutoff.Format(time.DateTime),
		"maxPosts", maxPosts)

	var (
		collected  []entity.Post
		latestID   int
		numSkipped int
		cursor     string
	)

	firstRequest := true

	for firstRequest || cursor != "" {
		firstRequest = false

		if maxPosts > 0 && len(collected) >= maxPosts {
			s.logger.Info("Post limit reached", "channel", channelName, "maxPosts", maxPosts)
			break
		}

		form := url.Values{}

		if cursor != "" {
			form.Set("before", cursor)
		}

		payload, err := s.fetchWithRetry(ctx, http.MethodPost, pageURL, form)

		if err != nil {
			if ctx.Err() != nil {
				return nil, 0, ctx.Err()
			}

			// Partial-success policy: keep what we have if anything
			// was collected, otherwise the failure propagates.
			if len(collected) > 0 {
				s.logger.Warn("Returning posts collected before error",
					"channel", channelName,
					"posts", len(collected),
					"error", err)
				break
			}

			return nil, 0, fmt.Errorf("could not get posts for @%s: %w", channelName, err)
		}

		page, err := s.extractPage(payload, channelName)

		if err != nil {
			if len(collected) > 0 {
				s.logger.Warn("Returning posts collected before error",
					"channel", channelName,
					"posts", len(collected),
					"error", err)
				break
			}

			return nil, 0, fmt.Errorf("could not extract posts for @%s: %w", channelName, err)
		}

		for _, skipped := range page.Skipped {
			numSkipped++
			s.logger.Debug("Skipped post",
				"channel", channelName,
				"postId", skipped.PostID,
				"reason", skipped.Reason)
		}

		if len(page.Posts) == 0 {
			s.logger.Debug("Empty batch received, no more posts available", "channel", channelName)
			break
		}

		if latestID == 0 {
			if id, err := strconv.Atoi(page.Posts[0].ID); err == nil {
				latestID = id
			}
		}

		nextCursor := page.NextCursor
		accepted, foundOld := s.acceptPosts(page.Posts, cutoff, maxPosts, len(collected))

		if maxPosts > 0 && len(collected)+len(accepted) >= maxPosts {
			// Ceiling filled on this page, no next fetch needed.
			nextCursor = ""
		}

		collected = append(collected, accepted...)

		s.logger.Debug("Processed batch",
			"channel", channelName,
			"batch", len(page.Posts),
			"accepted", len(accepted),
			"total", len(collected))

		if foundOld && len(accepted) == 0 {
			s.logger.Debug("Whole batch older than cutoff, stopping pagination", "channel", channelName)
			break
		}

		if nextCursor == "" {
			s.logger.Debug("No next page link, reached end of channel", "channel", channelName)
			break
		}

		cursor = nextCursor

		if err := sleep(ctx, s.requestInterval()); err != nil {
			return nil, 0, err
		}
	}

	if numSkipped > 0 {
		s.logger.Info("Skipped unparseable posts", "channel", channelName, "skipped", numSkipped)
	}

	return finalizePosts(collected, maxPosts), latestID, nil
}

// acceptPosts walks a page's posts in reverse order, keeping those at
// or after the cutoff and reporting whether an older post was seen.
// The accepted slice is truncated as soon as it would fill the
// ceiling.
func (s *Scraper) acceptPosts(batch []entity.Post, cutoff time.Time, maxPosts, collected int) ([]entity.Post, bool) {
	var accepted []entity.Post

	foundOld := false

	for i := len(batch) - 1; i >= 0; i-- {
		post := batch[i]

		if !post.Date.IsZero() && !post.Date.Before(cutoff) {
			accepted = append(accepted, post)

			if maxPosts > 0 && collected+len(accepted) >= maxPosts {
				accepted = accepted[:maxPosts-collected]
				break
			}
		} else {
			foundOld = true
			s.logger.Debug("Post older than cutoff",
				"postId", post.ID,
				"date", post.Date.Format(time.DateTime))
		}
	}

	return accepted, foundOld
}

// finalizePosts drops undated posts, sorts ascending by date and
// applies the ceiling once more after sorting, in case acceptance
// order differed from chronological order.
func finalizePosts(collected []entity.Post, maxPosts int) []entity.Post {
	posts := make([]entity.Post, 0, len(collected))

	for _, p := range collected {
		if !p.Date.IsZero() {
			posts = append(posts, p)
		}
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Date.Before(posts[j].Date)
	})

	if maxPosts > 0 && len(posts) > maxPosts {
		posts = posts[:maxPosts]
	}

	return posts
}

// ProbeFirstPost fetches a single page anchored at the oldest known
// cursor and returns the earliest post timestamp found on it. Age
// information is best-effort: any failure yields the zero time and
// never fails the channel acquisition.
func (s *Scraper) ProbeFirstPost(ctx context.Context, channelName string) time.Time {
	pageURL := fmt.Sprintf("%s/s/%s", s.cfg.Parsing.BaseURL, channelName)

	form := url.Values{}
	form.Set("before", earliestCursor)

	payload, err := s.fetchWithRetry(ctx, http.MethodPost, pageURL, form)

	if err != nil {
		s.logger.Debug("Could not fetch earliest posts", "channel", channelName, "error", err)
		return time.Time{}
	}

	page, err := s.extractPage(payload, channelName)

	if err != nil {
		s.logger.Debug("Could not extract earliest posts", "channel", channelName, "error", err)
		return time.Time{}
	}

	posts := page.Posts

	if limit := s.cfg.Parsing.AgePostsLimit; limit > 0 && len(posts) > limit {
		posts = posts[:limit]
	}

	var first time.Time

	for _, p := range posts {
		if !p.Date.IsZero() && (first.IsZero() || p.Date.Before(first)) {
			first = p.Date
		}
	}

	return first
}
