package widget

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"
	"net"
	"net/netip"
	"net/url"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	_ "golang.org/x/image/webp"

	"beforeafter/models"
	"beforeafter/storage"
)

// maxProbeBody bounds how much of an image is downloaded to read its header
const maxProbeBody = 32 << 20

// ImageProber measures images by fetching them and decoding only their
// header. Natural sizes are cached by URL; rendered sizes are scaled down
// to MaxWidth when it is set.
//
// Image sources come from host events, so only http(s) URLs are fetched and
// hosts resolving to loopback, private or link-local addresses are refused
// at dial time unless AllowPrivate is set.
type ImageProber struct {
	client   *fasthttp.Client
	cache    *storage.Cache[models.Size]
	timeout  time.Duration
	maxWidth int

	// AllowedHosts, when not empty, limits probing to these hosts and their subdomains
	AllowedHosts []string
	// AllowPrivate disables the private address check
	AllowPrivate bool
}

// NewImageProber creates a prober. cache may be nil.
func NewImageProber(cache *storage.Cache[models.Size], timeout time.Duration, maxWidth int) *ImageProber {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	p := &ImageProber{
		cache:    cache,
		timeout:  timeout,
		maxWidth: maxWidth,
	}
	p.client = &fasthttp.Client{
		Name:                "beforeafter-prober",
		MaxResponseBodySize: maxProbeBody,
		ReadTimeout:         timeout,
		Dial:                p.dial,
	}
	return p
}

// Measure returns the rendered size of the image at src
func (p *ImageProber) Measure(ctx context.Context, src string) (models.Size, error) {
	if strings.TrimSpace(src) == "" {
		return models.Size{}, ErrNoImage
	}
	if err := p.checkURL(src); err != nil {
		return models.Size{}, err
	}

	natural, ok := p.cached(src)
	if !ok {
		var err error
		natural, err = p.fetch(ctx, src)
		if err != nil {
			return models.Size{}, err
		}
		if p.cache != nil {
			p.cache.Set(src, natural)
		}
	}
	return ScaleToWidth(natural, p.maxWidth), nil
}

func (p *ImageProber) cached(src string) (models.Size, bool) {
	if p.cache == nil {
		return models.Size{}, false
	}
	return p.cache.Get(src)
}

func (p *ImageProber) fetch(ctx context.Context, src string) (models.Size, error) {
	if err := ctx.Err(); err != nil {
		return models.Size{}, err
	}

	timeout := p.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(src)
	req.Header.SetMethod(fasthttp.MethodGet)

	if err := p.client.DoTimeout(req, resp, timeout); err != nil {
		return models.Size{}, fmt.Errorf("fetch %s: %w", src, err)
	}
	if code := resp.StatusCode(); code < 200 || code >= 300 {
		return models.Size{}, fmt.Errorf("fetch %s: status %d", src, code)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(resp.Body()))
	if err != nil {
		return models.Size{}, fmt.Errorf("decode %s: %w", src, err)
	}
	if err := ctx.Err(); err != nil {
		return models.Size{}, err
	}
	size := models.Size{Width: cfg.Width, Height: cfg.Height}
	if size.Width <= 0 || size.Height <= 0 {
		return models.Size{}, fmt.Errorf("decode %s: empty %s image", src, format)
	}
	return size, nil
}

// checkURL rejects sources that must not be fetched before any network use
func (p *ImageProber) checkURL(src string) error {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnsafeImageURL, err)
	}
	if scheme := strings.ToLower(u.Scheme); scheme != "http" && scheme != "https" {
		return ErrUnsafeImageURL
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ErrUnsafeImageURL
	}
	if len(p.AllowedHosts) > 0 && !hostAllowed(host, p.AllowedHosts) {
		return fmt.Errorf("%w: %s", ErrHostNotAllowed, host)
	}
	if ip, err := netip.ParseAddr(host); err == nil && !p.AllowPrivate && isPrivateAddr(ip) {
		return fmt.Errorf("%w: %s", ErrPrivateAddress, host)
	}
	return nil
}

// dial resolves addr itself so the address that was checked is the one dialed
func (p *ImageProber) dial(addr string) (net.Conn, error) {
	if p.AllowPrivate {
		return fasthttp.DialTimeout(addr, p.timeout)
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	ips, err := net.DefaultResolver.LookupNetIP(ctx, "ip", host)
	if err != nil {
		return nil, err
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("no address for %s", host)
	}
	for _, ip := range ips {
		if isPrivateAddr(ip) {
			return nil, fmt.Errorf("%w: %s resolves to %s", ErrPrivateAddress, host, ip)
		}
	}
	return fasthttp.DialTimeout(net.JoinHostPort(ips[0].Unmap().String(), port), p.timeout)
}

func hostAllowed(host string, allowed []string) bool {
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(a), "."))
		if a != "" && (host == a || strings.HasSuffix(host, "."+a)) {
			return true
		}
	}
	return false
}

func isPrivateAddr(ip netip.Addr) bool {
	ip = ip.Unmap()
	return ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast()
}

// ScaleToWidth shrinks size to maxWidth, keeping its aspect ratio. A
// non-positive maxWidth or a narrower image leaves size unchanged.
func ScaleToWidth(size models.Size, maxWidth int) models.Size {
	if maxWidth <= 0 || size.Width <= maxWidth || size.Width == 0 {
		return size
	}
	h := int(math.Round(float64(size.Height) * float64(maxWidth) / float64(size.Width)))
	return models.Size{Width: maxWidth, Height: h}
}
