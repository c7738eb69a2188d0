package handler

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hr-admin/internal/apperr"
	"github.com/iliyamo/hr-admin/internal/response"
)

// ProxyHandler forwards /api/python requests to the upstream HR/payroll
// service. Authorization happens before the proxy runs; the proxy itself
// only moves bytes and translates connectivity failures so operators can
// tell "service down" apart from "service returned an error".
type ProxyHandler struct {
	BaseURL string
	Client  *http.Client
}

// NewProxyHandler builds the proxy with its own client timeout; the upstream
// boundary owns its timeout policy, not the auth core.
func NewProxyHandler(baseURL string, timeout time.Duration) *ProxyHandler {
	return &ProxyHandler{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: timeout},
	}
}

// hop-by-hop and recomputed headers never forwarded in either direction.
var skipRequestHeaders = map[string]bool{
	"host":           true,
	"content-length": true,
	"connection":     true,
}

var skipResponseHeaders = map[string]bool{
	"content-length":    true,
	"transfer-encoding": true,
}

// Forward strips the /api/python prefix and relays the request to the
// upstream, echoing the upstream response back verbatim (status, headers
// minus recomputed ones, body).
func (h *ProxyHandler) Forward(c echo.Context) error {
	req := c.Request()
	upstreamPath := strings.TrimPrefix(req.URL.Path, "/api/python")
	target := h.BaseURL + upstreamPath
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}
	if _, err := url.Parse(target); err != nil {
		return response.Error(c, apperr.WithDetails(apperr.ValidationFailed, "python-proxy",
			"invalid upstream url", map[string]any{"error": err.Error()}))
	}

	out, err := http.NewRequestWithContext(req.Context(), req.Method, target, req.Body)
	if err != nil {
		return response.Error(c, apperr.New(apperr.Internal, "python-proxy", "failed to build upstream request"))
	}
	for name, values := range req.Header {
		if skipRequestHeaders[strings.ToLower(name)] {
			continue
		}
		for _, v := range values {
			out.Header.Add(name, v)
		}
	}

	resp, err := h.Client.Do(out)
	if err != nil {
		// Transport-level failure: refused, DNS, timeout. Upstream never
		// answered, so this is UpstreamUnavailable rather than a relayed
		// upstream error.
		return response.Error(c, apperr.WithDetails(apperr.UpstreamUnavailable, "python-proxy",
			"python api server is unavailable", map[string]any{
				"error":        err.Error(),
				"pythonApiUrl": h.BaseURL,
			}))
	}
	defer resp.Body.Close()

	header := c.Response().Header()
	for name, values := range resp.Header {
		if skipResponseHeaders[strings.ToLower(name)] {
			continue
		}
		for _, v := range values {
			header.Add(name, v)
		}
	}
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	header.Set(echo.HeaderContentType, contentType)

	c.Response().WriteHeader(resp.StatusCode)
	_, err = io.Copy(c.Response(), resp.Body)
	return err
}
