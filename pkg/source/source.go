// Package source reads input documents from files, standard input or
// HTTP(S) URLs.
//
// Locations are interpreted as follows:
//
//	-                           standard input
//	file:///data/records.json   local file
//	./records.json              local file
//	https://api.example.com/x   HTTP GET via [httputil.Client]
//
// Every location is capped at Options.MaxBytes.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"strings"

	errs "github.com/codeWuws/th-governance-web-sub002/pkg/errors"
	"github.com/codeWuws/th-governance-web-sub002/pkg/httputil"
)

// Stdin is the location that selects standard input.
const Stdin = "-"

// Options configures Read.
type Options struct {
	// MaxBytes caps the document size. Zero uses httputil.DefaultMaxBytes.
	MaxBytes int64

	// Client fetches URLs. Nil uses a default client without a cache.
	Client *httputil.Client

	// Stdin replaces os.Stdin for the "-" location.
	Stdin io.Reader
}

func (o Options) maxBytes() int64 {
	if o.MaxBytes > 0 {
		return o.MaxBytes
	}
	return httputil.DefaultMaxBytes
}

// Kind classifies a location as "stdin", "file" or "http".
func Kind(location string) string {
	switch {
	case location == Stdin || location == "":
		return "stdin"
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		return "http"
	default:
		return "file"
	}
}

// Read returns the bytes at location.
func Read(ctx context.Context, location string, opts Options) ([]byte, error) {
	switch Kind(location) {
	case "stdin":
		r := opts.Stdin
		if r == nil {
			r = os.Stdin
		}
		return readLimited(r, opts.maxBytes(), "stdin")
	case "http":
		return readURL(ctx, location, opts)
	default:
		return readFile(location, opts.maxBytes())
	}
}

func readFile(location string, limit int64) ([]byte, error) {
	path := location
	if strings.HasPrefix(location, "file://") {
		u, err := url.Parse(location)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidInput, err, "invalid file url %q", location)
		}
		path = u.Path
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.Wrap(errs.ErrCodeFileNotFound, err, "input %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()
	return readLimited(f, limit, path)
}

func readURL(ctx context.Context, location string, opts Options) ([]byte, error) {
	if err := errs.ValidateURL(location); err != nil {
		return nil, err
	}
	c := opts.Client
	if c == nil {
		c = &httputil.Client{}
	}
	if c.MaxBytes == 0 {
		cc := *c
		cc.MaxBytes = opts.maxBytes()
		c = &cc
	}

	data, err := c.Get(ctx, location)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, httputil.ErrTooLarge):
		return nil, errs.Wrap(errs.ErrCodeTooLarge, err, "fetch %s", location)
	case errors.Is(err, context.DeadlineExceeded):
		return nil, errs.Wrap(errs.ErrCodeTimeout, err, "fetch %s", location)
	case errors.Is(err, context.Canceled):
		return nil, err
	}
	var se *httputil.StatusError
	if errors.As(err, &se) && se.StatusCode == 404 {
		return nil, errs.Wrap(errs.ErrCodeNotFound, err, "fetch %s", location)
	}
	return nil, errs.Wrap(errs.ErrCodeNetwork, err, "fetch %s", location)
}

func readLimited(r io.Reader, limit int64, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if int64(len(data)) > limit {
		return nil, errs.New(errs.ErrCodeTooLarge, "%s exceeds %d bytes", name, limit)
	}
	return data, nil
}
