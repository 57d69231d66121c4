package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// ParseChannelList splits a comma-separated channel argument into
// normalized channel names. Supported item forms: name, @name,
// t.me/name, t.me/s/name and full https:// URLs.
func ParseChannelList(channelsArg string) []string {
	var channels []string

	for _, raw := range strings.Split(channelsArg, ",") {
		if name := extractChannelName(raw); name != "" {
			channels = append(channels, name)
		}
	}

	return channels
}

// ParseChannelsFile reads channel names from a file: one per line or
// comma-separated, with #-comments.
func ParseChannelsFile(path string) ([]string, error) {
	file, err := os.Open(path)

	if err != nil {
		return nil, fmt.Errorf("could not read channels file: %w", err)
	}

	defer file.Close()

	var channels []string

	scanner := bufio.NewScanner(file)

	for scanner.Scan() {
		line, _, _ := strings.Cut(scanner.Text(), "#")

		for _, raw := range strings.Split(line, ",") {
			if name := extractChannelName(raw); name != "" {
				channels = append(channels, name)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read channels file %s: %w", path, err)
	}

	return channels, nil
}

// extractChannelName normalizes one channel reference to a bare name.
func extractChannelName(text string) string {
	text = strings.TrimSpace(text)

	if after, ok := strings.CutPrefix(text, "https://"); ok {
		text = after
	} else if after, ok := strings.CutPrefix(text, "http://"); ok {
		text = after
	}

	if after, ok := strings.CutPrefix(text, "t.me/"); ok {
		text = strings.TrimPrefix(after, "s/")
	}

	text = strings.TrimPrefix(text, "@")

	text, _, _ = strings.Cut(text, "/")
	text, _, _ = strings.Cut(text, "?")

	return strings.ToLower(text)
}
