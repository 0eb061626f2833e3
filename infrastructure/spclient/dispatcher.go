package spclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/api"
	"golang.org/x/time/rate"

	"spws/logging"
)

// Dispatcher sends a complete SOAP envelope for an operation and returns the
// response body. A rejected call is reported as an error, typically *FaultError.
type Dispatcher interface {
	Dispatch(ctx context.Context, action string, envelope []byte) ([]byte, error)
}

// FileFetcher downloads raw file content from an absolute URL.
type FileFetcher interface {
	Fetch(ctx context.Context, fileURL string) ([]byte, error)
}

// GosipDispatcher posts envelopes to the site's Lists.asmx through an
// authenticated gosip client.
type GosipDispatcher struct {
	client   *gosip.SPClient
	endpoint string
	limiter  *rate.Limiter
	logger   *logging.Logger
}

// NewGosipDispatcher creates a dispatcher for siteURL. requestsPerSecond <= 0
// disables client-side throttling.
func NewGosipDispatcher(client *gosip.SPClient, siteURL string, requestsPerSecond float64) *GosipDispatcher {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &GosipDispatcher{
		client:   client,
		endpoint: joinURL(siteURL, ListsServicePath),
		limiter:  limiter,
		logger:   logging.Default().WithComponent("soap_dispatcher"),
	}
}

// Endpoint returns the Lists service URL requests are posted to.
func (d *GosipDispatcher) Endpoint() string {
	return d.endpoint
}

// Dispatch posts the envelope with the operation's SOAPAction header.
// Non-2xx responses and 2xx responses carrying a SOAP Fault become *FaultError.
func (d *GosipDispatcher) Dispatch(ctx context.Context, action string, envelope []byte) ([]byte, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint, bytes.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", action, err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `"`+ListsNamespace+action+`"`)

	start := time.Now()
	resp, err := d.client.Execute(req)
	if resp == nil {
		if err == nil {
			err = fmt.Errorf("no response")
		}
		return nil, fmt.Errorf("dispatch %s: %w", action, err)
	}
	if resp.Body == nil {
		// Auth and digest failures come back as a bare status without a body.
		d.logger.Warn("SOAP call failed before sending",
			"action", action,
			"status", resp.StatusCode,
			"error", err)
		return nil, &FaultError{StatusCode: resp.StatusCode, Message: resp.Status, Err: err}
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode < 200 || resp.StatusCode > 299 {
		fault, ok := parseFault(body)
		if !ok {
			fault = &FaultError{Message: resp.Status}
		}
		fault.StatusCode = resp.StatusCode
		fault.Err = err
		d.logger.Warn("SOAP call rejected",
			"action", action,
			"status", resp.StatusCode,
			"fault_code", fault.Code,
			"error_code", fault.ErrorCode)
		return nil, fault
	}
	if readErr != nil {
		return nil, fmt.Errorf("read %s response: %w", action, readErr)
	}
	if fault, ok := parseFault(body); ok {
		fault.StatusCode = resp.StatusCode
		return nil, fault
	}

	d.logger.Performance("soap_"+action, time.Since(start))
	return body, nil
}

// GosipFileFetcher downloads files with the gosip HTTP client.
type GosipFileFetcher struct {
	client *gosip.SPClient
}

// NewGosipFileFetcher creates a file fetcher sharing the dispatcher's auth.
func NewGosipFileFetcher(client *gosip.SPClient) *GosipFileFetcher {
	return &GosipFileFetcher{client: client}
}

func (f *GosipFileFetcher) Fetch(ctx context.Context, fileURL string) ([]byte, error) {
	spClient := api.NewHTTPClient(f.client)
	data, err := spClient.Get(fileURL, &api.RequestConfig{
		Context: ctx,
		Headers: map[string]string{"Accept": "*/*"},
	})
	if err != nil {
		return nil, fmt.Errorf("get file %s: %w", fileURL, err)
	}
	return data, nil
}
