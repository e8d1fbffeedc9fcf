package health

import (
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/firefly-engineering/projrouter/internal/config"
	"github.com/firefly-engineering/projrouter/internal/logging"
)

// Prober checks ports and HTTP endpoints.
type Prober interface {
	PortOpen(host string, port int, timeout time.Duration) bool
	HTTPOK(url string, timeout time.Duration, allowInsecureTLS bool) bool
}

// NetProber implements Prober with real network calls.
type NetProber struct{}

// NewProber returns the default network prober.
func NewProber() *NetProber {
	return &NetProber{}
}

func (NetProber) PortOpen(host string, port int, timeout time.Duration) bool {
	return PortOpen(host, port, timeout)
}

func (NetProber) HTTPOK(url string, timeout time.Duration, allowInsecureTLS bool) bool {
	return HTTPOK(url, timeout, allowInsecureTLS)
}

// PortOpen reports whether host:port accepts a TCP connection within timeout.
func PortOpen(host string, port int, timeout time.Duration) bool {
	conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, strconv.Itoa(port)), timeout)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// HTTPOK reports whether a GET on url returns a 2xx status within timeout.
func HTTPOK(url string, timeout time.Duration, allowInsecureTLS bool) bool {
	transport := &http.Transport{
		Proxy:             nil,
		DisableKeepAlives: true,
	}
	if allowInsecureTLS {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // external dev probes only
	}
	client := &http.Client{Timeout: timeout, Transport: transport}
	defer client.CloseIdleConnections()

	resp, err := client.Get(url)
	if err != nil {
		logging.Debug("health probe failed", "url", url, "error", err)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok {
		logging.Debug("health probe returned non-2xx", "url", url, "status", resp.StatusCode)
	}
	return ok
}

// LocalHealthURL is the backend's own /health endpoint.
func LocalHealthURL(port int) string {
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(config.LocalHost, strconv.Itoa(port)), config.HealthPath)
}

// ExternalHealthURL is the project's /health endpoint reached through the proxy.
func ExternalHealthURL(domain string, httpsPort int, project string) string {
	return fmt.Sprintf("https://%s/%s%s", net.JoinHostPort(domain, strconv.Itoa(httpsPort)), project, config.HealthPath)
}
