package entity

import "time"

// Post is a single channel message scraped from the web preview.
// It is never mutated after extraction.
type Post struct {
	// Numeric part of the t.me composite identifier, e.g. "123" for "channel/123".
	ID string `json:"post_id"`

	// View counter as shown on the page, parsed from its abbreviated form.
	Views int `json:"views"`

	// Publication time. Zero value means the timestamp could not be parsed;
	// such posts never make it into a Channel's ordered history.
	Date time.Time `json:"date"`

	// Author display name, falls back to the channel username.
	Author string `json:"author"`

	// Post body converted to markdown.
	Text string `json:"text"`
}

// ChannelInfo holds channel-level metadata from the t.me preview page.
type ChannelInfo struct {
	Channel     string `json:"channel"`
	Name        string `json:"name"`
	Subscribers int    `json:"subscribers"`
	Description string `json:"description"`

	// Set by the age prober, zero when unknown.
	FirstPostDate time.Time `json:"first_post_date,omitzero"`
}

// AgeDays returns the channel age derived from the first post date,
// or 0 when the first post date is unknown.
func (i ChannelInfo) AgeDays() int {
	if i.FirstPostDate.IsZero() {
		return 0
	}

	return int(time.Since(i.FirstPostDate).Hours() / 24)
}

// Channel aggregates channel metadata with its collected post history.
// Posts are ordered ascending by date and all carry a valid timestamp.
type Channel struct {
	Info  ChannelInfo `json:"info"`
	Posts []Post      `json:"posts"`
}

// TotalViews sums views across all collected posts.
func (c *Channel) TotalViews() int {
	var total int

	for _, p := range c.Posts {
		total += p.Views
	}

	return total
}

// PostsSince returns the posts published at or after the given time.
func (c *Channel) PostsSince(cutoff time.Time) []Post {
	var posts []Post

	for _, p := range c.Posts {
		if !p.Date.IsZero() && !p.Date.Before(cutoff) {
			posts = append(posts, p)
		}
	}

	return posts
}
