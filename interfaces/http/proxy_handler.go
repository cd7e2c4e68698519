package http

import (
	"net/http"
	"net/url"
	"strings"

	"tiktok-studio/infrastructure/configuration"

	"github.com/gin-gonic/gin"
)

// IProxyHandler serves the domain-allow-listed fetch proxies. Simple
// pass-throughs; not part of the publishing core.
type IProxyHandler interface {
	Image(ctx *gin.Context)
	Media(ctx *gin.Context)
}

type proxyHandler struct{}

func NewProxyHandler() IProxyHandler {
	return &proxyHandler{}
}

// Image handles GET /image?url — proxies TikTok CDN images (avatars, video
// covers) that the browser cannot fetch cross-origin.
func (h *proxyHandler) Image(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter required"})
		return
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL"})
		return
	}
	if !hostAllowed(parsed.Hostname(), configuration.C.Proxy.ImageDomains) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Domain not allowed"})
		return
	}
	h.passThrough(c, raw, "image/webp")
}

// Media handles GET /media?url — proxies staged carousel images from our own
// staging origin only.
func (h *proxyHandler) Media(c *gin.Context) {
	raw := c.Query("url")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url parameter required"})
		return
	}
	prefix := configuration.C.App.BaseURL + "/files/"
	if !strings.HasPrefix(raw, prefix) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Invalid URL"})
		return
	}
	h.passThrough(c, raw, "image/jpeg")
}

func (h *proxyHandler) passThrough(c *gin.Context, rawURL, fallbackType string) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, rawURL, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid URL"})
		return
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to proxy image"})
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.JSON(resp.StatusCode, gin.H{"error": "Failed to fetch image"})
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = fallbackType
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.DataFromReader(http.StatusOK, resp.ContentLength, contentType, resp.Body, nil)
}

func hostAllowed(host string, domains []string) bool {
	for _, d := range domains {
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}
