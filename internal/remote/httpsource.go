// Package remote implements the ranged-stream abstraction: a single
// HTTP range fetch (HTTPRangeSource), one remote object modeled as a
// seekable stream (RemoteFile), and N such streams concatenated into
// one logical stream (MultiFile).
package remote

import (
	"context"
	"io"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/i64/remote-archive/internal/archiveerrs"
	"github.com/i64/remote-archive/internal/httprange"
	"github.com/i64/remote-archive/internal/logging"
)

// HTTPRangeSource issues single byte-range GETs against a URL and
// probes a URL for range support. It has exactly one capability:
// "fetch bytes [a,b)". Proxy config and retries are configured on the
// *http.Client it wraps; extra request headers such as auth go in
// Header.
type HTTPRangeSource struct {
	Client *http.Client
	// Header carries any extra headers (e.g. auth) applied to every
	// request this source issues, before the Range header is set.
	Header http.Header
	log    *logrus.Entry
}

// NewHTTPRangeSource wraps an *http.Client. A nil client uses
// http.DefaultClient.
func NewHTTPRangeSource(client *http.Client) *HTTPRangeSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPRangeSource{Client: client, log: logging.Log.WithField("component", "http_range_source")}
}

// Fetch issues one GET for the closed-open range r against url, with
// size used only to render the correct inclusive wire form. The
// caller owns the returned response body and must close it.
func (s *HTTPRangeSource) Fetch(ctx context.Context, url string, r httprange.Range, size int64) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(archiveerrs.NetworkError, "build request for %s: %v", url, err)
	}
	req.Header = httprange.ApplyToHeader(r, size, s.Header)

	s.log.Debugf("fetch %s range=%s", url, req.Header.Get("Range"))
	resp, err := s.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrapf(archiveerrs.Aborted, "fetch %s: %v", url, ctx.Err())
		}
		return nil, errors.Wrapf(archiveerrs.NetworkError, "fetch %s: %v", url, err)
	}
	if resp.StatusCode != http.StatusPartialContent && resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, errors.Wrapf(archiveerrs.NetworkError, "fetch %s: unexpected status %s", url, resp.Status)
	}
	return resp, nil
}

// Probe issues fetch(url, [0,1)) and reports the resource's total
// size together with whether it supports range requests. A non-206
// response, or a 206 with a malformed Content-Range, is fatal for
// that URL (RangeUnsupported / ProtocolError).
func (s *HTTPRangeSource) Probe(ctx context.Context, url string) (size int64, supportsRange bool, err error) {
	resp, err := s.Fetch(ctx, url, httprange.Range{Start: 0, Length: 1}, 1)
	if err != nil {
		return 0, false, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusPartialContent {
		return 0, false, errors.Wrapf(archiveerrs.RangeUnsupported, "probe %s: got status %s", url, resp.Status)
	}

	cr := resp.Header.Get("Content-Range")
	if cr == "" {
		return 0, false, errors.Wrapf(archiveerrs.ProtocolError, "probe %s: 206 response missing Content-Range", url)
	}
	_, _, total, err := httprange.ParseContentRange(cr)
	if err != nil {
		return 0, false, errors.Wrapf(err, "probe %s", url)
	}
	return total, true, nil
}
