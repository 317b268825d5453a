package flow

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/oauth2"
)

// TerminalFlow drives the authorization-code exchange through an operator
// console: it prints the authorization URL and reads one line holding the
// code or the full redirect URL.
type TerminalFlow struct {
	in      *bufio.Reader
	out     io.Writer
	lines   chan line
	mux     sync.Mutex
	reading bool
}

type line struct {
	text string
	err  error
}

func (s *TerminalFlow) Token(ctx context.Context, config *oauth2.Config, options ...Option) (*oauth2.Token, error) {
	opts := NewOptions(options)
	cfg := exchangeConfig(config, opts)
	URL := buildAuthCodeURL(cfg, opts)

	fmt.Fprintln(s.out, "Authorization required.")
	fmt.Fprintln(s.out, "Open the following URL in a browser and approve access:")
	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "  %v\n", URL)
	fmt.Fprintln(s.out)
	fmt.Fprint(s.out, "Paste the authorization code (or the redirect URL): ")

	line, err := s.readLine(ctx)
	if err != nil {
		return nil, err
	}
	code, err := parseCode(line, opts.State())
	if err != nil {
		return nil, err
	}
	return exchange(ctx, cfg, code, opts)
}

// readLine waits for the next operator line. At most one read is pending on
// the input; a line read for a prompt abandoned on cancellation is handed to
// the following prompt.
func (s *TerminalFlow) readLine(ctx context.Context) (string, error) {
	s.mux.Lock()
	if !s.reading {
		s.reading = true
		go s.read()
	}
	s.mux.Unlock()
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case next := <-s.lines:
		s.mux.Lock()
		s.reading = false
		s.mux.Unlock()
		if next.err == io.EOF {
			return "", ErrEmptyAuthorizationCode
		}
		if next.err != nil {
			return "", fmt.Errorf("failed to read authorization code: %w", next.err)
		}
		return next.text, nil
	}
}

func (s *TerminalFlow) read() {
	text, err := s.in.ReadString('\n')
	if err == io.EOF && text != "" {
		err = nil
	}
	s.lines <- line{text: text, err: err}
}

// NewTerminalFlow creates a flow reading from in and prompting on out; nil
// values default to stdin and stdout.
func NewTerminalFlow(in io.Reader, out io.Writer) *TerminalFlow {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &TerminalFlow{in: bufio.NewReader(in), out: out, lines: make(chan line)}
}
