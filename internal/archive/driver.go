// Package archive wires together the remote byte-range stack and the
// zip format parser behind one entry point: Driver.
package archive

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/i64/remote-archive/internal/archive/zip"
	"github.com/i64/remote-archive/internal/logging"
	"github.com/i64/remote-archive/internal/reader"
	"github.com/i64/remote-archive/internal/remote"
)

// Entry is one decoded archive member, re-exported from the zip
// package so callers of Driver never import internal/archive/zip
// directly.
type Entry = zip.Entry

// Driver opens one or more part URLs as one logical archive and
// exposes its member list. One Driver serves one archive; build a new
// Driver per archive.
type Driver struct {
	mf     *remote.MultiFile
	er     *reader.ExactReader
	parser *zip.Parser
	log    *logrus.Entry
}

// NewDriver probes each URL in order (they are concatenated in the
// order given, matching a split-archive's part ordering), and binds a
// zip.Parser over the resulting logical stream. At least one URL is
// required.
func NewDriver(ctx context.Context, client *http.Client, urls []string) (*Driver, error) {
	if len(urls) == 0 {
		return nil, errors.New("archive: at least one url is required")
	}

	source := remote.NewHTTPRangeSource(client)
	parts := make([]remote.Part, 0, len(urls))
	for _, u := range urls {
		rf, err := remote.OpenRemoteFile(ctx, source, u)
		if err != nil {
			return nil, errors.Wrapf(err, "archive: open part %q", u)
		}
		parts = append(parts, rf)
	}

	mf, err := remote.NewMultiFile(parts)
	if err != nil {
		return nil, errors.Wrap(err, "archive: build multi-file")
	}

	er := reader.New(mf)
	return &Driver{
		mf:     mf,
		er:     er,
		parser: zip.Open(er),
		log:    logging.Log.WithField("component", "archive_driver"),
	}, nil
}

// SetEncodingPolicy forwards to the underlying zip.Parser. Must be
// called before the first List/Entries call to take effect.
func (d *Driver) SetEncodingPolicy(policy zip.EncodingPolicy) {
	d.parser.SetEncodingPolicy(policy)
}

// Size is the total logical size of the concatenated parts.
func (d *Driver) Size() int64 { return d.mf.Size() }

// List walks the full Central Directory and returns every entry. It
// is restartable: calling List twice re-reads the directory from the
// cached EOCD location, performing no redundant EOCD resolution.
func (d *Driver) List(ctx context.Context) ([]Entry, error) {
	it, err := d.parser.Entries(ctx)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for {
		entry, ok, err := it.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		entries = append(entries, entry)
	}
	d.log.Debugf("listed %d entries across %d bytes", len(entries), d.Size())
	return entries, nil
}
