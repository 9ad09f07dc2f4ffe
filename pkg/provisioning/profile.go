package provisioning

import (
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/mitchellh/go-homedir"
	"go.mozilla.org/pkcs7"
	"howett.net/plist"
)

// DefaultLocation is where Xcode installs provisioning profiles.
const DefaultLocation = "~/Library/MobileDevice/Provisioning Profiles"

// Profile is a parsed .mobileprovision file.
type Profile struct {
	Name                        string                 `plist:"Name"`
	TeamName                    string                 `plist:"TeamName"`
	TeamIdentifier              []string               `plist:"TeamIdentifier"`
	AppIDName                   string                 `plist:"AppIDName"`
	ApplicationIdentifierPrefix []string               `plist:"ApplicationIdentifierPrefix"`
	Entitlements                map[string]interface{} `plist:"Entitlements"`
	DeveloperCertificates       [][]byte               `plist:"DeveloperCertificates"`
	ProvisionedDevices          []string               `plist:"ProvisionedDevices,omitempty"`
	ProvisionsAllDevices        bool                   `plist:"ProvisionsAllDevices,omitempty"`
	IsXcodeManaged              bool                   `plist:"IsXcodeManaged"`
	CreationDate                time.Time              `plist:"CreationDate"`
	ExpirationDate              time.Time              `plist:"ExpirationDate"`
	UUID                        string                 `plist:"UUID"`
	Platform                    []string               `plist:"Platform"`

	// Path is the file the profile was read from, if any.
	Path string `plist:"-"`
}

// Parse reads the plist payload out of the CMS (PKCS#7) signed container.
func Parse(data []byte) (*Profile, error) {
	p7, err := pkcs7.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse PKCS#7 container: %w", err)
	}

	var profile Profile
	_, err = plist.Unmarshal(p7.Content, &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to parse provisioning profile plist: %w", err)
	}
	return &profile, nil
}

func ParseFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	profile, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	profile.Path = path
	return profile, nil
}

// DefaultPaths lists the profiles installed in DefaultLocation.
func DefaultPaths() ([]string, error) {
	return Paths(DefaultLocation)
}

// Paths lists the .mobileprovision files directly inside directory.
func Paths(directory string) ([]string, error) {
	location, err := homedir.Expand(directory)
	if err != nil {
		return nil, err
	}
	names, err := doublestar.Glob(os.DirFS(location), "*.mobileprovision")
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(names))
	for _, name := range names {
		paths = append(paths, filepath.Join(location, filepath.FromSlash(name)))
	}
	return paths, nil
}

func (p *Profile) TeamId() string {
	if len(p.TeamIdentifier) > 0 {
		return p.TeamIdentifier[0]
	}
	if len(p.ApplicationIdentifierPrefix) > 0 {
		return p.ApplicationIdentifierPrefix[0]
	}
	return ""
}

func (p *Profile) ApplicationIdentifier() string {
	if appId, ok := p.Entitlements["application-identifier"].(string); ok {
		return appId
	}
	return ""
}

// BundleId is the application identifier without the team prefix. It may be
// a wildcard such as "com.example.*" or "*".
func (p *Profile) BundleId() string {
	appId := p.ApplicationIdentifier()
	for _, prefix := range append([]string{p.TeamId()}, p.ApplicationIdentifierPrefix...) {
		if prefix != "" && strings.HasPrefix(appId, prefix+".") {
			return strings.TrimPrefix(appId, prefix+".")
		}
	}
	return appId
}

func (p *Profile) IsExpired(now time.Time) bool {
	return now.After(p.ExpirationDate)
}

func (p *Profile) IsDeviceAllowed(udid string) bool {
	if p.ProvisionsAllDevices {
		return true
	}
	for _, device := range p.ProvisionedDevices {
		if device == udid {
			return true
		}
	}
	return false
}

func (p *Profile) Certificates() ([]*x509.Certificate, error) {
	var certificates []*x509.Certificate
	for i, data := range p.DeveloperCertificates {
		certificate, err := x509.ParseCertificate(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse certificate %d: %w", i, err)
		}
		certificates = append(certificates, certificate)
	}
	return certificates, nil
}

// UsableCertificates returns those of 'available' that the profile was issued
// for, in the order they appear in 'available'.
func (p *Profile) UsableCertificates(available []*x509.Certificate) []*x509.Certificate {
	var result []*x509.Certificate
	for _, certificate := range available {
		for _, data := range p.DeveloperCertificates {
			profileCertificate, err := x509.ParseCertificate(data)
			if err != nil {
				continue
			}
			if certificate.Equal(profileCertificate) {
				result = append(result, certificate)
				break
			}
		}
	}
	return result
}

/*
Serialize renders the profile for the signing script:

	{"certificate_common_name": "Apple Development: Jane (ABC)",
	 "name": "...", "team_id": "...", "team_name": "...",
	 "bundle_id": "com.example.app", "specifier": "<UUID>",
	 "xcode_managed": false}
*/
func (p *Profile) Serialize(certificateCommonName string) map[string]interface{} {
	return map[string]interface{}{
		"certificate_common_name": certificateCommonName,
		"name":                    p.Name,
		"team_id":                 p.TeamId(),
		"team_name":               p.TeamName,
		"bundle_id":               p.BundleId(),
		"specifier":               p.UUID,
		"xcode_managed":           p.IsXcodeManaged,
	}
}

// MostCommonName returns the subject common name shared by most certificates.
// Ties go to the name seen first; no certificates give "".
func MostCommonName(certificates []*x509.Certificate) string {
	counts := make(map[string]int)
	var best string
	for _, certificate := range certificates {
		name := certificate.Subject.CommonName
		counts[name]++
		if counts[name] > counts[best] || best == "" {
			best = name
		}
	}
	return best
}
