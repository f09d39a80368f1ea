// Package responses defines the JSON bodies written by sitemapd HTTP handlers.
package responses

import "time"

// HealthResponse represents the health check API response.
type HealthResponse struct {
	Status    string       `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	Version   string       `json:"version"`
	Uptime    float64      `json:"uptime"`
	Store     string       `json:"store"`
	Sites     []SiteStatus `json:"sites"`
}

// SiteStatus describes one served sitemap root.
type SiteStatus struct {
	Name       string `json:"name"`
	Root       string `json:"root"`
	SitemapURL string `json:"sitemap_url"`
}
