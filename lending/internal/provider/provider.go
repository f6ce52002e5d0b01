// Package provider holds the HTTP clients of the account and pricing services.
package provider

import (
	"io"
	"net/http"
	"time"

	"github.com/Astemirdum/library-lending/pkg/circuit_breaker"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	cbRecordLength     = 20
	cbTimeout          = 10 * time.Second
	cbPercentile       = 0.5
	cbRecoveryRequests = 3
)

func newCB() circuit_breaker.CircuitBreaker {
	return circuit_breaker.New(cbRecordLength, cbTimeout, cbPercentile, cbRecoveryRequests)
}

// doJSON sends req and decodes a 200 response into v. A 404 reports found=false
// without an error so it does not count against the breaker.
func doJSON(client *http.Client, req *http.Request, v any) (found bool, err error) {
	resp, err := client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, nil
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, errors.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, body)
	}
	if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
		return false, errors.Wrap(err, "decode response")
	}
	return true, nil
}
