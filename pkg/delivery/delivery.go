package delivery

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sw33tLie/rumscope/pkg/report"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...interface{}) {}
func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}

var ErrNoEndpoint = errors.New("no collection endpoint configured")

// Config holds everything a Channel needs.
type Config struct {
	Endpoint string
	// Retries is the maximum number of extra attempts per report. Zero
	// means exactly one request.
	Retries int
	// Timeout bounds a single attempt; zero leaves the client default.
	Timeout time.Duration
	Log     Logger // optional; nil = no logging
}

// envelope is the request body.
type envelope struct {
	Metric report.Report `json:"metric"`
}

// Channel sends reports to the collection endpoint without blocking the
// caller. Each report is one detached request; failures are logged and
// dropped.
type Channel struct {
	endpoint string
	client   *retryablehttp.Client
	log      Logger
	wg       sync.WaitGroup
}

func New(cfg Config) (*Channel, error) {
	if cfg.Endpoint == "" {
		return nil, ErrNoEndpoint
	}
	l := cfg.Log
	if l == nil {
		l = nopLogger{}
	}

	client := retryablehttp.NewClient()
	client.Logger = log.New(io.Discard, "", 0)
	client.RetryMax = max(cfg.Retries, 0)
	client.RetryWaitMin = 200 * time.Millisecond
	client.RetryWaitMax = 2 * time.Second
	if cfg.Timeout > 0 {
		client.HTTPClient.Timeout = cfg.Timeout
	}
	// A non-2xx answer is reported as a failure, not returned.
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler

	return &Channel{
		endpoint: cfg.Endpoint,
		client:   client,
		log:      l,
	}, nil
}

// Deliver serializes r immediately and sends it in the background. It
// never blocks on the network and never fails from the caller's view.
func (c *Channel) Deliver(r report.Report) {
	body, err := json.Marshal(envelope{Metric: r})
	if err != nil {
		c.log.Errorf("Could not encode %s report: %v", r.MetricName(), err)
		return
	}
	c.log.Debugf("Sending %s report: %s", r.MetricName(), body)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		if err := c.send(context.Background(), body); err != nil {
			c.log.Warnf("Delivery of %s report failed: %v", r.MetricName(), err)
		}
	}()
}

// Wait blocks until every delivery started so far has finished.
func (c *Channel) Wait() {
	c.wg.Wait()
}

func (c *Channel) send(ctx context.Context, body []byte) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPut, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("endpoint answered %s", resp.Status)
	}
	return nil
}
