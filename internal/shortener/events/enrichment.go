package events

import (
	"net"
	"net/url"
	"strings"

	ua "github.com/mileusna/useragent"
	geoip2 "github.com/oschwald/geoip2-golang"
	"github.com/samber/lo"
)

const unknown = "Unknown"

// Traffic sources reported for a click.
const (
	SourceDirect   = "Direct"
	SourceSearch   = "Search"
	SourceSocial   = "Social"
	SourceAI       = "AI"
	SourceReferral = "Referral"
)

var (
	searchEngines = []string{"google.com", "bing.com", "yahoo.com", "duckduckgo.com", "baidu.com", "yandex.ru", "ecosia.org"}
	socialMedia   = []string{
		"facebook.com", "twitter.com", "x.com", "t.co", "instagram.com", "linkedin.com", "pinterest.com",
		"reddit.com", "tiktok.com", "youtube.com", "threads.net", "mastodon.social", "whatsapp.com", "wa.me",
	}
	aiPlatforms = []string{"chatgpt.com", "claude.ai", "gemini.google.com", "perplexity.ai", "copilot.microsoft.com"}
)

// CountryResolver maps an IP address to an ISO country code.
type CountryResolver interface {
	ResolveCountry(ip string) string
}

// ClickDetails is what the enricher derives from a single visit.
type ClickDetails struct {
	Device  string
	Browser string
	OS      string
	Source  string
	Country string
}

// Enricher derives device, traffic source and country from raw visit data.
type Enricher struct {
	countries CountryResolver // may be nil
}

// NewEnricher creates an enricher. countries may be nil, in which case every
// click reports an unknown country.
func NewEnricher(countries CountryResolver) *Enricher {
	return &Enricher{countries: countries}
}

// Enrich classifies a visit.
func (e *Enricher) Enrich(userAgent, referer, clientIP string) ClickDetails {
	details := ClickDetails{
		Device:  DetectDevice(userAgent),
		Browser: unknown,
		OS:      unknown,
		Source:  ClassifySource(referer),
		Country: unknown,
	}

	if userAgent != "" {
		parsed := ua.Parse(userAgent)
		if parsed.Name != "" {
			details.Browser = parsed.Name
		}
		if parsed.OS != "" {
			details.OS = parsed.OS
		}
	}

	if e.countries != nil && clientIP != "" {
		details.Country = e.countries.ResolveCountry(clientIP)
	}

	return details
}

// DetectDevice returns "Desktop", "Mobile", "Tablet", "Bot", or "Unknown".
func DetectDevice(userAgent string) string {
	if userAgent == "" {
		return unknown
	}

	parsed := ua.Parse(userAgent)
	switch {
	case parsed.Bot:
		return "Bot"
	case parsed.Tablet:
		return "Tablet"
	case parsed.Mobile:
		return "Mobile"
	case parsed.Desktop:
		return "Desktop"
	default:
		return unknown
	}
}

// ClassifySource classifies the traffic source from a referer URL.
func ClassifySource(referer string) string {
	if referer == "" {
		return SourceDirect
	}

	parsed, err := url.Parse(referer)
	if err != nil || parsed.Hostname() == "" {
		return SourceDirect
	}

	hostname := strings.TrimPrefix(strings.ToLower(parsed.Hostname()), "www.")
	matches := func(domain string) bool {
		return hostname == domain || strings.HasSuffix(hostname, "."+domain)
	}

	// AI platforms first: gemini.google.com would otherwise count as search.
	switch {
	case lo.ContainsBy(aiPlatforms, matches):
		return SourceAI
	case lo.ContainsBy(searchEngines, matches):
		return SourceSearch
	case lo.ContainsBy(socialMedia, matches):
		return SourceSocial
	default:
		return SourceReferral
	}
}

// GeoIPResolver resolves IP addresses to country codes using a GeoIP2 database.
type GeoIPResolver struct {
	db *geoip2.Reader
}

var _ CountryResolver = (*GeoIPResolver)(nil)

// NewGeoIPResolver opens a GeoIP2 or GeoLite2 country database.
func NewGeoIPResolver(dbPath string) (*GeoIPResolver, error) {
	db, err := geoip2.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &GeoIPResolver{db: db}, nil
}

// Close closes the GeoIP database reader.
func (g *GeoIPResolver) Close() error {
	return g.db.Close()
}

// ResolveCountry returns the ISO country code for ip, or "Unknown".
func (g *GeoIPResolver) ResolveCountry(ipStr string) string {
	ip := net.ParseIP(ipStr)
	if ip == nil || ip.IsPrivate() || ip.IsLoopback() {
		return unknown
	}

	record, err := g.db.Country(ip)
	if err != nil || record.Country.IsoCode == "" {
		return unknown
	}
	return record.Country.IsoCode
}
