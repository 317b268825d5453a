package mock

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Operator stands in for a person completing the authorization in a browser.
// It captures what a terminal flow prints and, when the flow reads its answer,
// replies with the redirect URL issued by the authorize endpoint.
type Operator struct {
	// Answer computes the reply line for an authorization URL.
	Answer func(authURL string) (string, error)

	mux     sync.Mutex
	printed bytes.Buffer
	reply   *strings.Reader
	authURL string
	prompts int
}

func (o *Operator) Write(p []byte) (int, error) {
	o.mux.Lock()
	defer o.mux.Unlock()
	return o.printed.Write(p)
}

func (o *Operator) Read(p []byte) (int, error) {
	o.mux.Lock()
	defer o.mux.Unlock()
	if o.reply == nil || o.reply.Len() == 0 {
		authURL := lastURL(o.printed.String())
		o.printed.Reset()
		if authURL == "" {
			return 0, io.EOF
		}
		o.authURL = authURL
		o.prompts++
		answer, err := o.Answer(authURL)
		if err != nil {
			return 0, err
		}
		o.reply = strings.NewReader(answer + "\n")
	}
	return o.reply.Read(p)
}

// Prompts returns how many authorization prompts were answered.
func (o *Operator) Prompts() int {
	o.mux.Lock()
	defer o.mux.Unlock()
	return o.prompts
}

// AuthURL returns the last authorization URL presented to the operator.
func (o *Operator) AuthURL() string {
	o.mux.Lock()
	defer o.mux.Unlock()
	return o.authURL
}

// Approve visits authURL without following the redirect and returns the redirect location.
func Approve(authURL string) (string, error) {
	client := &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(authURL)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusFound {
		return "", fmt.Errorf("authorize: unexpected status %v", resp.StatusCode)
	}
	return resp.Header.Get("Location"), nil
}

// NewOperator creates an operator that approves every authorization request.
func NewOperator() *Operator {
	return &Operator{Answer: Approve}
}

func lastURL(text string) string {
	var ret string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 4096), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			ret = line
		}
	}
	return ret
}
