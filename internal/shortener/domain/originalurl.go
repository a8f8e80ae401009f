package domain

import (
	"errors"
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const MaxURLLength = 2048

// Mode is the execution mode the service runs in.
type Mode string

const (
	ModeDevelopment Mode = "development"
	ModeProduction  Mode = "production"
)

// ParseMode maps an APP_ENV style value to a Mode. Anything other than
// "production" is development.
func ParseMode(s string) Mode {
	if strings.EqualFold(strings.TrimSpace(s), string(ModeProduction)) {
		return ModeProduction
	}
	return ModeDevelopment
}

func (m Mode) IsProduction() bool {
	return m == ModeProduction
}

var blockedPrefixes = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/32"),
	netip.MustParsePrefix("127.0.0.0/8"),
	netip.MustParsePrefix("10.0.0.0/8"),
	netip.MustParsePrefix("172.16.0.0/12"),
	netip.MustParsePrefix("192.168.0.0/16"),
	netip.MustParsePrefix("169.254.0.0/16"),
	netip.MustParsePrefix("::/128"),
	netip.MustParsePrefix("::1/128"),
	netip.MustParsePrefix("fc00::/7"),
	netip.MustParsePrefix("fe80::/10"),
}

// ValidateOriginalURL checks that raw is an absolute http(s) URL of acceptable
// length. In production it also refuses loopback and private network hosts.
func ValidateOriginalURL(raw string, mode Mode) error {
	err := validation.Validate(raw,
		validation.Required.Error("url is required"),
		validation.RuneLength(0, MaxURLLength).
			Error(fmt.Sprintf("url is too long (maximum %d characters)", MaxURLLength)),
		validation.By(absoluteHTTPURL),
		validation.By(func(value interface{}) error {
			if !mode.IsProduction() {
				return nil
			}
			return publicHost(value)
		}),
	)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidURL, err.Error())
	}
	return nil
}

func absoluteHTTPURL(value interface{}) error {
	raw, _ := value.(string)

	parsed, err := url.Parse(raw)
	if err != nil || !parsed.IsAbs() || parsed.Host == "" || parsed.Hostname() == "" {
		return errors.New("url must be valid (include http:// or https://)")
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return errors.New("only http and https urls are allowed")
	}

	return nil
}

func publicHost(value interface{}) error {
	raw, _ := value.(string)

	parsed, err := url.Parse(raw)
	if err != nil {
		return errors.New("url must be valid (include http:// or https://)")
	}

	if isBlockedHost(parsed.Hostname()) {
		return errors.New("url cannot point to localhost or a private ip in production")
	}
	return nil
}

func isBlockedHost(hostname string) bool {
	host := strings.TrimSuffix(strings.ToLower(hostname), ".")
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return true
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return false
	}
	addr = addr.WithZone("").Unmap()

	for _, prefix := range blockedPrefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}
