package imageloader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/SayaAndy/vault-gallery/internal/vault"
	"github.com/valyala/fasthttp"
)

// VaultFetcher reads images served under the vault URL prefix.
type VaultFetcher struct {
	vault vault.Vault
}

func NewVaultFetcher(v vault.Vault) *VaultFetcher {
	return &VaultFetcher{vault: v}
}

func (f *VaultFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	p, ok := vault.PathFromURL(url)
	if !ok {
		return nil, fmt.Errorf("not a vault url: %s", url)
	}
	return f.vault.ReadFile(ctx, p)
}

// HTTPFetcher downloads externally hosted images.
type HTTPFetcher struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func NewHTTPFetcher(timeout time.Duration, maxBytes int) *HTTPFetcher {
	return &HTTPFetcher{
		client: &fasthttp.Client{
			Name:                "vault-gallery",
			MaxResponseBodySize: maxBytes,
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
		},
		timeout: timeout,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline := time.Now().Add(f.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := f.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request %s: %w", url, err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("request %s: unexpected status %d", url, resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

// MultiFetcher sends vault URLs to the vault and http(s) URLs to the web.
type MultiFetcher struct {
	Vault Fetcher
	HTTP  Fetcher
}

func (f *MultiFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	switch {
	case strings.HasPrefix(url, vault.URLPrefix):
		return f.Vault.Fetch(ctx, url)
	case strings.HasPrefix(strings.ToLower(url), "http://"), strings.HasPrefix(strings.ToLower(url), "https://"):
		if f.HTTP == nil {
			return nil, fmt.Errorf("remote images are disabled: %s", url)
		}
		return f.HTTP.Fetch(ctx, url)
	}
	return nil, fmt.Errorf("unsupported image url: %s", url)
}
