package service

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/idna"

	"github.com/Atlantic-Sunrise/smartbiz-qualifier-sub000/internal/entity"
)

var (
	emailPattern = regexp.MustCompile(`^[a-z0-9._%+\-']+@[a-z0-9.-]+\.[a-z]{2,}$`)
	idnaProfile  = idna.Lookup

	// sharedAddressSpace is the carrier-grade NAT range (RFC 6598).
	sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

	errNonPublicAddress = errors.New("address is not publicly routable")
)

const (
	trackingPrefix  = "utm_"
	mxLookupTimeout = 3 * time.Second
	maxFieldLength  = 2000
)

// DNSResolver abstracts DNS lookups to simplify testing.
type DNSResolver interface {
	LookupMX(ctx context.Context, domain string) ([]*net.MX, error)
}

// NormalizeLead trims every field, requires a company name and canonicalises the
// website. The returned lead is what gets analyzed and stored.
func NormalizeLead(lead entity.LeadSubmission) (entity.LeadSubmission, error) {
	out := entity.LeadSubmission{
		CompanyName:   strings.TrimSpace(lead.CompanyName),
		Industry:      strings.TrimSpace(lead.Industry),
		EmployeeCount: strings.TrimSpace(lead.EmployeeCount),
		AnnualRevenue: strings.TrimSpace(lead.AnnualRevenue),
		Challenges:    strings.TrimSpace(lead.Challenges),
	}
	if out.CompanyName == "" {
		return entity.LeadSubmission{}, fmt.Errorf("%w: company_name is required", ErrInvalidInput)
	}
	if err := checkLengths(out.CompanyName, out.Industry, out.EmployeeCount, out.AnnualRevenue, out.Challenges); err != nil {
		return entity.LeadSubmission{}, err
	}
	if raw := strings.TrimSpace(lead.Website); raw != "" {
		u, err := sanitizeURL(raw)
		if err != nil {
			return entity.LeadSubmission{}, fmt.Errorf("%w: website: %v", ErrInvalidInput, err)
		}
		stripTracking(u)
		out.Website = u.String()
	}
	return out, nil
}

// NormalizeProfile trims the profile and requires a company name and services.
func NormalizeProfile(profile entity.BusinessProfile) (entity.BusinessProfile, error) {
	profile.CompanyName = strings.TrimSpace(profile.CompanyName)
	profile.Industry = strings.TrimSpace(profile.Industry)
	profile.EmployeeCount = strings.TrimSpace(profile.EmployeeCount)
	profile.AnnualRevenue = strings.TrimSpace(profile.AnnualRevenue)
	profile.Services = strings.TrimSpace(profile.Services)

	if profile.CompanyName == "" {
		return entity.BusinessProfile{}, fmt.Errorf("%w: company_name is required", ErrInvalidInput)
	}
	if profile.Services == "" {
		return entity.BusinessProfile{}, fmt.Errorf("%w: services is required", ErrInvalidInput)
	}
	if err := checkLengths(profile.CompanyName, profile.Industry, profile.EmployeeCount, profile.AnnualRevenue, profile.Services); err != nil {
		return entity.BusinessProfile{}, err
	}
	if profile.GenerationAPIKey != nil {
		key := strings.TrimSpace(*profile.GenerationAPIKey)
		if key == "" {
			profile.GenerationAPIKey = nil
		} else {
			profile.GenerationAPIKey = &key
		}
	}
	return profile, nil
}

// RecipientValidator checks report destination addresses.
type RecipientValidator struct {
	resolver DNSResolver
}

// NewRecipientValidator builds a validator. With a nil resolver only the syntax and
// domain shape are checked.
func NewRecipientValidator(resolver DNSResolver) *RecipientValidator {
	return &RecipientValidator{resolver: resolver}
}

// SystemDNSResolver resolves MX records through the host resolver.
func SystemDNSResolver() DNSResolver {
	return systemDNSResolver{}
}

// Normalize lowercases the address and rejects it when it is malformed or, with a
// resolver, when its domain has no MX record.
func (v *RecipientValidator) Normalize(ctx context.Context, raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" || !emailPattern.MatchString(email) {
		return "", fmt.Errorf("%w: malformed email", ErrInvalidInput)
	}
	domain := strings.SplitN(email, "@", 2)[1]
	if !isDomainValid(domain) {
		return "", fmt.Errorf("%w: invalid email domain", ErrInvalidInput)
	}
	asciiDomain, err := idnaProfile.ToASCII(domain)
	if err != nil || asciiDomain == "" {
		return "", fmt.Errorf("%w: invalid email domain", ErrInvalidInput)
	}
	if v.resolver != nil && !v.hasMXRecord(ctx, asciiDomain) {
		return "", fmt.Errorf("%w: email domain does not accept mail", ErrInvalidInput)
	}
	return email, nil
}

func (v *RecipientValidator) hasMXRecord(ctx context.Context, domain string) bool {
	ctx, cancel := context.WithTimeout(ctx, mxLookupTimeout)
	defer cancel()
	records, err := v.resolver.LookupMX(ctx, domain)
	return err == nil && len(records) > 0
}

func checkLengths(values ...string) error {
	for _, value := range values {
		if len([]rune(value)) > maxFieldLength {
			return fmt.Errorf("%w: fields must not exceed %d characters", ErrInvalidInput, maxFieldLength)
		}
	}
	return nil
}

func sanitizeURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("empty url")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil, errors.New("invalid url")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if ip := net.ParseIP(u.Hostname()); ip != nil {
		if !isPublicIP(ip) {
			return nil, errNonPublicAddress
		}
	} else if !isDomainValid(strings.ToLower(u.Hostname())) {
		return nil, errors.New("invalid host")
	}
	return u, nil
}

// isPublicIP reports whether ip is routable on the public internet.
func isPublicIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() || ip.IsMulticast() {
		return false
	}
	return !sharedAddressSpace.Contains(ip)
}

func stripTracking(u *url.URL) {
	if u == nil {
		return
	}
	query := u.Query()
	changed := false
	for key := range query {
		if strings.HasPrefix(strings.ToLower(key), trackingPrefix) {
			query.Del(key)
			changed = true
		}
	}
	if changed {
		u.RawQuery = query.Encode()
	}
}

func isDomainValid(domain string) bool {
	if strings.Count(domain, ".") == 0 {
		return false
	}
	parts := strings.Split(domain, ".")
	for _, part := range parts {
		if part == "" || strings.HasPrefix(part, "-") || strings.HasSuffix(part, "-") {
			return false
		}
	}
	return true
}

type systemDNSResolver struct{}

func (systemDNSResolver) LookupMX(ctx context.Context, domain string) ([]*net.MX, error) {
	return net.DefaultResolver.LookupMX(ctx, domain)
}
