package detector

import (
	"net/http"
	"time"
)

const defaultHTTPTimeout = 2 * time.Second

// HTTPDetector probes an HTTP endpoint; any 2xx/3xx response means alive.
// Connection errors mean "not running" rather than a failed check, since an
// unreachable local port is the normal signature of a stopped service.
type HTTPDetector struct {
	URL     string
	Timeout time.Duration
}

func (d HTTPDetector) Alive() (bool, error) {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	client := &http.Client{Timeout: timeout}
	resp, err := client.Get(d.URL)
	if err != nil {
		return false, nil
	}
	defer func() { _ = resp.Body.Close() }()
	return resp.StatusCode >= 200 && resp.StatusCode < 400, nil
}

func (d HTTPDetector) Describe() string { return "http:" + d.URL }
