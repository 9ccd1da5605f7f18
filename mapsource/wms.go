// SPDX-FileCopyrightText: 2024 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package mapsource

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/xmidt-org/wmsretry"
	"github.com/xmidt-org/wmsretry/client"
	"github.com/xmidt-org/wmsretry/logging"
	"github.com/xmidt-org/wmsretry/roundtrip"
	"golang.org/x/sync/semaphore"
)

const (
	// WMSType is the source type of a plain WMS source.
	WMSType = "wms"

	// DefaultClientTimeout is used when http.client_timeout is unset.
	DefaultClientTimeout = 60 * time.Second

	// DefaultFormat is used when neither the request nor req.format names one.
	DefaultFormat = "image/png"

	// DefaultSRS is used when a MapRequest names no SRS.
	DefaultSRS = "EPSG:4326"

	// DefaultUserAgent is sent unless http.headers overrides it.
	DefaultUserAgent = "wmsretry"

	// maxErrorBody bounds how much of a failed response is kept in an error
	maxErrorBody = 4096
)

// WMSRequestConfig is the req block of a WMS source.
type WMSRequestConfig struct {
	URL         string   `koanf:"url" validate:"required,url"`
	Layers      []string `koanf:"layers" validate:"required,min=1"`
	Styles      []string `koanf:"styles"`
	Format      string   `koanf:"format"`
	Transparent bool     `koanf:"transparent"`
}

// HTTPConfig is the http block of a WMS source.
type HTTPConfig struct {
	// ClientTimeout is in seconds.  Zero means DefaultClientTimeout.
	ClientTimeout   float64           `koanf:"client_timeout" validate:"omitempty,min=0"`
	Headers         map[string]string `koanf:"headers"`
	SSLNoCertChecks bool              `koanf:"ssl_no_cert_checks"`
}

// WMSConfig is the decoded configuration of a WMS source.
type WMSConfig struct {
	Req                WMSRequestConfig `koanf:"req"`
	HTTP               HTTPConfig       `koanf:"http"`
	SupportedSRS       []string         `koanf:"supported_srs"`
	ConcurrentRequests int              `koanf:"concurrent_requests" validate:"omitempty,min=0"`
}

// Timeout returns the effective client timeout.
func (hc HTTPConfig) Timeout() time.Duration {
	if hc.ClientTimeout <= 0 {
		return DefaultClientTimeout
	}

	return time.Duration(hc.ClientTimeout * float64(time.Second))
}

// WMSSchema returns the schema of the plain wms source type.  Each call
// returns a distinct value.
func WMSSchema() Schema {
	return NewSchema(map[string]Field{
		"req": Object(true, "WMS request parameters", map[string]Field{
			"url":         {Kind: KindString, Required: true, Doc: "WMS endpoint"},
			"layers":      {Kind: KindList, Required: true, Doc: "comma separated or list"},
			"styles":      {Kind: KindList},
			"format":      {Kind: KindString, Doc: "e.g. image/png"},
			"transparent": {Kind: KindBool},
		}),
		"http": Object(false, "", map[string]Field{
			"client_timeout":     {Kind: KindNumber, Doc: "seconds"},
			"headers":            {Kind: KindMap},
			"ssl_no_cert_checks": {Kind: KindBool},
		}),
		"supported_srs":       {Kind: KindList},
		"concurrent_requests": {Kind: KindInt},
	})
}

// DecodeWMSConfig decodes and validates a WMS configuration block.  Keys
// not known to WMSConfig are ignored, so extended source types can reuse it.
func DecodeWMSConfig(conf map[string]interface{}) (WMSConfig, error) {
	var cfg WMSConfig
	if err := Decode(conf, &cfg); err != nil {
		return cfg, err
	}

	if err := Validate(cfg); err != nil {
		return cfg, err
	}

	if _, err := url.Parse(cfg.Req.URL); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// WMSConfiguration loads plain WMS sources.  The zero value is usable.
type WMSConfiguration struct {
	// Logger is the parent logger for built sources.  If unset, sources do not log.
	Logger *zerolog.Logger

	// Transport is the http.RoundTripper of built sources.  If unset, a clone of
	// http.DefaultTransport is used.
	Transport http.RoundTripper

	// Middleware decorates Transport
	Middleware roundtrip.Chain
}

var _ Loader = WMSConfiguration{}

// Load implements Loader.
func (wc WMSConfiguration) Load(ctx context.Context, name, sourceType string, conf map[string]interface{}) (Source, error) {
	return wc.LoadWMS(ctx, name, sourceType, conf)
}

// LoadWMS is like Load, but returns the concrete source so that callers
// can adjust it.
func (wc WMSConfiguration) LoadWMS(_ context.Context, name, sourceType string, conf map[string]interface{}) (*WMSSource, error) {
	cfg, err := DecodeWMSConfig(conf)
	if err != nil {
		return nil, err
	}

	var (
		logger   = zerolog.Nop()
		rtLogger *zerolog.Logger
	)

	if wc.Logger != nil {
		logger = logging.ForSource(*wc.Logger, name, sourceType)
		rtLogger = &logger
	}

	endpoint, _ := url.Parse(cfg.Req.URL)
	ws := &WMSSource{
		name:       name,
		sourceType: sourceType,
		URL:        endpoint,
		Config:     cfg,
		HTTPClient: wc.newClient(cfg.HTTP, rtLogger),
		Logger:     &logger,
	}

	if cfg.ConcurrentRequests > 0 {
		ws.limit = semaphore.NewWeighted(int64(cfg.ConcurrentRequests))
	}

	return ws, nil
}

func (wc WMSConfiguration) newClient(hc HTTPConfig, logger *zerolog.Logger) wmsretry.Client {
	base := wc.Transport
	if base == nil {
		base = roundtrip.NewTransport(hc.SSLNoCertChecks)
	}

	headers := http.Header{"User-Agent": {DefaultUserAgent}}
	for k, v := range hc.Headers {
		headers.Set(k, v)
	}

	return client.NewChain(
		client.Header(wmsretry.NewHeader(headers)),
	).Then(&http.Client{
		Transport: wc.Middleware.Append(roundtrip.Log(logger)).Then(base),
		Timeout:   hc.Timeout(),
	})
}

// MapRequest describes one GetMap call.
type MapRequest struct {
	// BBox is minx, miny, maxx, maxy in SRS units
	BBox [4]float64

	Width  int
	Height int

	// SRS defaults to DefaultSRS
	SRS string

	// Format overrides req.format
	Format string
}

// ParseBBox parses a comma separated bounding box.
func ParseBBox(v string) (bbox [4]float64, err error) {
	parts := strings.Split(v, ",")
	if len(parts) != 4 {
		return bbox, fmt.Errorf("bbox %q: expected minx,miny,maxx,maxy", v)
	}

	for i, p := range parts {
		bbox[i], err = strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return bbox, fmt.Errorf("bbox %q: %w", v, err)
		}
	}

	if bbox[0] >= bbox[2] || bbox[1] >= bbox[3] {
		return bbox, fmt.Errorf("bbox %q: empty extent", v)
	}

	return
}

// Map is a fetched map image.
type Map struct {
	ContentType string
	Data        []byte
}

// SourceError describes a fetch that could not produce a map.
type SourceError struct {
	// Source is the name of the failing source
	Source string

	// Err is the underlying error, often a *wmsretry.StatusError
	Err error
}

// Error fulfills the error interface
func (se *SourceError) Error() string {
	return fmt.Sprintf("source %s: %s", se.Source, se.Err)
}

// Unwrap produces the underlying error
func (se *SourceError) Unwrap() error {
	return se.Err
}

// StatusCode returns the upstream status code, or zero if the failure
// did not come from an HTTP status.
func (se *SourceError) StatusCode() int {
	var statusErr *wmsretry.StatusError
	if errors.As(se.Err, &statusErr) {
		return statusErr.Code
	}

	return 0
}

// WMSSource fetches maps from a WMS endpoint.  The exported fields may be
// adjusted after loading and before first use.
type WMSSource struct {
	name       string
	sourceType string

	// URL is the parsed req.url.  Its query parameters are sent with every request.
	URL *url.URL

	Config WMSConfig

	// HTTPClient issues every upstream request
	HTTPClient wmsretry.Client

	Logger *zerolog.Logger

	// limit bounds in-flight GetMap calls when concurrent_requests is set
	limit *semaphore.Weighted
}

var _ Source = (*WMSSource)(nil)

// Name returns the configured source name
func (ws *WMSSource) Name() string {
	return ws.name
}

// Type returns the source type this source was loaded as
func (ws *WMSSource) Type() string {
	return ws.sourceType
}

// MapURL builds the WMS 1.1.1 GetMap URL for a request.
func (ws *WMSSource) MapURL(mr MapRequest) (*url.URL, error) {
	if mr.Width <= 0 || mr.Height <= 0 {
		return nil, fmt.Errorf("invalid map size %dx%d", mr.Width, mr.Height)
	}

	srs := mr.SRS
	if len(srs) == 0 {
		srs = DefaultSRS
	}

	if len(ws.Config.SupportedSRS) > 0 && !contains(ws.Config.SupportedSRS, srs) {
		return nil, fmt.Errorf("srs %s is not supported by source %s", srs, ws.name)
	}

	format := mr.Format
	if len(format) == 0 {
		format = ws.Config.Req.Format
	}

	if len(format) == 0 {
		format = DefaultFormat
	}

	u := *ws.URL
	q := u.Query()
	q.Set("SERVICE", "WMS")
	q.Set("VERSION", "1.1.1")
	q.Set("REQUEST", "GetMap")
	q.Set("LAYERS", strings.Join(ws.Config.Req.Layers, ","))
	q.Set("STYLES", strings.Join(ws.Config.Req.Styles, ","))
	q.Set("SRS", srs)
	q.Set("BBOX", formatBBox(mr.BBox))
	q.Set("WIDTH", strconv.Itoa(mr.Width))
	q.Set("HEIGHT", strconv.Itoa(mr.Height))
	q.Set("FORMAT", format)
	if ws.Config.Req.Transparent {
		q.Set("TRANSPARENT", "TRUE")
	}

	u.RawQuery = q.Encode()
	return &u, nil
}

// GetMap issues a GetMap request through HTTPClient.  Any failure is
// returned as a *SourceError.  With concurrent_requests set, callers beyond
// that limit wait for a slot, or for ctx to end.
func (ws *WMSSource) GetMap(ctx context.Context, mr MapRequest) (*Map, error) {
	u, err := ws.MapURL(mr)
	if err != nil {
		return nil, &SourceError{Source: ws.name, Err: err}
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &SourceError{Source: ws.name, Err: err}
	}

	if ws.limit != nil {
		if err := ws.limit.Acquire(ctx, 1); err != nil {
			return nil, &SourceError{Source: ws.name, Err: err}
		}

		defer ws.limit.Release(1)
	}

	ws.logger().Debug().Str("url", u.Redacted()).Msg("GetMap")
	response, err := ws.HTTPClient.Do(request)
	if err != nil {
		return nil, &SourceError{Source: ws.name, Err: err}
	}

	if response == nil {
		return nil, &SourceError{Source: ws.name, Err: errors.New("no response")}
	}

	defer wmsretry.Cleanup(response)
	if wmsretry.Failed(response) {
		body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBody))
		return nil, &SourceError{
			Source: ws.name,
			Err: &wmsretry.StatusError{
				URL:    u.Redacted(),
				Code:   response.StatusCode,
				Header: response.Header,
				Body:   body,
			},
		}
	}

	var data []byte
	if response.Body != nil {
		data, err = io.ReadAll(response.Body)
		if err != nil {
			return nil, &SourceError{Source: ws.name, Err: err}
		}
	}

	contentType := response.Header.Get("Content-Type")
	if isServiceException(contentType, data) {
		return nil, &SourceError{
			Source: ws.name,
			Err:    fmt.Errorf("service exception: %s", bytes.TrimSpace(truncate(data))),
		}
	}

	return &Map{
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (ws *WMSSource) logger() *zerolog.Logger {
	if ws.Logger != nil {
		return ws.Logger
	}

	nop := zerolog.Nop()
	return &nop
}

// isServiceException detects the XML error documents WMS servers return
// with a 200 status
func isServiceException(contentType string, data []byte) bool {
	ct := strings.ToLower(contentType)
	if !strings.Contains(ct, "xml") {
		return false
	}

	return bytes.Contains(data, []byte("ServiceException"))
}

func truncate(data []byte) []byte {
	if len(data) > maxErrorBody {
		return data[:maxErrorBody]
	}

	return data
}

func formatBBox(bbox [4]float64) string {
	parts := make([]string, len(bbox))
	for i, v := range bbox {
		parts[i] = strconv.FormatFloat(v, 'f', -1, 64)
	}

	return strings.Join(parts, ",")
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if strings.EqualFold(candidate, v) {
			return true
		}
	}

	return false
}
