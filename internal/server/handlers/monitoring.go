package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/sitemapd/internal/foundation/errors"
	"git.home.luguber.info/inful/sitemapd/internal/logfields"
	"git.home.luguber.info/inful/sitemapd/internal/server/responses"
	"git.home.luguber.info/inful/sitemapd/internal/version"
)

// MonitoringHandlers serves the liveness endpoint.
type MonitoringHandlers struct {
	startTime    time.Time
	storeName    string
	sites        []Site
	errorAdapter *errors.HTTPErrorAdapter
}

func NewMonitoringHandlers(storeName string, sites []Site) *MonitoringHandlers {
	return &MonitoringHandlers{
		startTime:    time.Now(),
		storeName:    storeName,
		sites:        sites,
		errorAdapter: errors.NewHTTPErrorAdapter(slog.Default()),
	}
}

// HandleHealthCheck reports build info, uptime, the store backend and the
// sitemap URL of every configured site.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	if !allowRead(h.errorAdapter, w, r) {
		return
	}

	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Version,
		Uptime:    time.Since(h.startTime).Seconds(),
		Store:     h.storeName,
		Sites:     make([]responses.SiteStatus, 0, len(h.sites)),
	}
	for _, s := range h.sites {
		health.Sites = append(health.Sites, responses.SiteStatus{
			Name:       s.Name(),
			Root:       s.RootPath(),
			SitemapURL: s.URLBuilder().BuildSiteMapURL(s.RootPath(), 0),
		})
	}

	if err := writeJSON(w, r, http.StatusOK, health); err != nil {
		slog.Warn("Failed to write health response", logfields.Error(err))
	}
}
