package backend

import (
	"net/url"
	"regexp"
	"strings"
)

var (
	driveFilePath  = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
	driveFileQuery = regexp.MustCompile(`id=([a-zA-Z0-9_-]+)`)
)

// ProxyMediaURL routes an external media URL through the backend proxy.
func (c *Client) ProxyMediaURL(raw string) string {
	return c.baseURL + "/proxy_media/?url=" + url.QueryEscape(raw)
}

// ImageSource returns the URL a browser should load an image from.
// Drive links need the proxy; anything else is used as-is.
func (c *Client) ImageSource(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "drive.google.com") {
		return c.ProxyMediaURL(raw)
	}
	return raw
}

// AudioSource always goes through the proxy.
func (c *Client) AudioSource(raw string) string {
	if raw == "" {
		return ""
	}
	return c.ProxyMediaURL(raw)
}

// VideoSource plays catbox.moe directly and proxies everything else.
func (c *Client) VideoSource(raw string) string {
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "catbox.moe") {
		return raw
	}
	return c.ProxyMediaURL(raw)
}

// DriveDirectURL rewrites a Google Drive share link to its download form.
// URLs without a recognizable file id are returned unchanged.
func DriveDirectURL(raw string) string {
	match := driveFilePath.FindStringSubmatch(raw)
	if match == nil {
		match = driveFileQuery.FindStringSubmatch(raw)
	}
	if match == nil {
		return raw
	}
	return "https://drive.google.com/uc?export=download&id=" + match[1]
}
