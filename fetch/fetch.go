// Package fetch downloads a URL to a local path unless that path already
// exists.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/schollz/progressbar/v2"

	std "github.com/jlrickert/testtools/pkg"
)

// Outcome tells whether Fetch transferred anything.
type Outcome int

const (
	Skipped Outcome = iota
	Downloaded
)

func (o Outcome) String() string {
	switch o {
	case Skipped:
		return "skipped"
	case Downloaded:
		return "downloaded"
	default:
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
}

// Result describes a completed Fetch.
type Result struct {
	Outcome Outcome
	Bytes   int64
}

// Option configures Fetch.
type Option func(c *config)

type config struct {
	client   *http.Client
	notice   io.Writer
	progress io.Writer
}

// WithClient sets the HTTP client. The default is http.DefaultClient.
func WithClient(c *http.Client) Option {
	return func(cfg *config) { cfg.client = c }
}

// WithNotice sets where the "Fetching ..." line is printed. The default is
// the stdout of the context stream.
func WithNotice(w io.Writer) Option {
	return func(cfg *config) { cfg.notice = w }
}

// WithProgress draws a progress bar on w while the body is transferred.
func WithProgress(w io.Writer) Option {
	return func(cfg *config) { cfg.progress = w }
}

// Fetch downloads url to dest when dest does not exist yet. An existing dest
// is left alone and no request is made.
//
// The body is streamed into a temporary file beside dest and renamed into
// place once complete, so a failed transfer never leaves a partial dest. A
// non-2xx response is returned as an *HTTPError.
func Fetch(ctx context.Context, url, dest string, opts ...Option) (*Result, error) {
	cfg := &config{
		client: http.DefaultClient,
		notice: std.StreamFromContext(ctx).Out,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	lg := std.PackageLogger(ctx, "fetch").With(
		slog.String("url", url),
		slog.String("dest", dest),
	)

	exists, err := std.Exists(dest)
	if err != nil {
		return nil, fmt.Errorf("stat %q: %w", dest, err)
	}
	if exists {
		lg.Debug("destination exists, skipping")
		return &Result{Outcome: Skipped}, nil
	}

	fmt.Fprintf(cfg.notice, "Fetching %s...\n", url)
	elapsed := std.Stopwatch(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	resp, err := cfg.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body io.Reader = resp.Body
	var bar progress
	if cfg.progress != nil {
		bar = newBar(cfg.progress, resp.ContentLength)
		body = &progressReader{r: resp.Body, bar: bar}
	}

	n, err := std.AtomicWriteStream(dest, body, 0o644)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(cfg.progress)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}

	lg.Info("fetched",
		slog.Int64("bytes", n),
		slog.Duration("duration", elapsed()),
	)
	return &Result{Outcome: Downloaded, Bytes: n}, nil
}

// progress receives the size of every chunk read from the body.
type progress interface {
	Add(n int) error
	Finish() error
}

// newBar draws a percentage bar when the response announces its size. An
// unknown size only gets a byte count once the transfer ends.
func newBar(w io.Writer, size int64) progress {
	if size < 0 {
		return &byteCount{w: w}
	}
	return progressbar.NewOptions(int(size),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetBytes(int(size)),
	)
}

type byteCount struct {
	w io.Writer
	n int64
}

func (c *byteCount) Add(n int) error {
	c.n += int64(n)
	return nil
}

func (c *byteCount) Finish() error {
	_, err := fmt.Fprintf(c.w, "%d bytes", c.n)
	return err
}

// progressReader advances bar by every chunk read from r.
type progressReader struct {
	r   io.Reader
	bar progress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		_ = p.bar.Add(n)
	}
	return n, err
}
