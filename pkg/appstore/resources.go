package appstore

import (
	"crypto/x509"
	"encoding/base64"
	"fmt"

	"github.com/signkit/cli/pkg/jsonapi"
)

// Dates are kept as the API sends them ("2020-04-21T11:31:02.000+0000"),
// which is not RFC 3339.

type BundleIdAttributes struct {
	Identifier string           `json:"identifier"`
	Name       string           `json:"name"`
	Platform   BundleIdPlatform `json:"platform"`
	SeedId     string           `json:"seedId"`
}

type BundleId struct {
	jsonapi.Resource
	Attributes BundleIdAttributes
}

func NewBundleId(resource jsonapi.Resource) (BundleId, error) {
	result := BundleId{Resource: resource}
	err := mapAttributes(resource, BundleIdsType, &result.Attributes)
	return result, err
}

type CapabilityOption struct {
	Key              string `json:"key"`
	Name             string `json:"name,omitempty"`
	Description      string `json:"description,omitempty"`
	Enabled          bool   `json:"enabled,omitempty"`
	EnabledByDefault bool   `json:"enabledByDefault,omitempty"`
	SupportsWildcard bool   `json:"supportsWildcard,omitempty"`
}

type CapabilitySetting struct {
	Key              string             `json:"key"`
	Name             string             `json:"name,omitempty"`
	Description      string             `json:"description,omitempty"`
	AllowedInstances string             `json:"allowedInstances,omitempty"`
	EnabledByDefault bool               `json:"enabledByDefault,omitempty"`
	Visible          bool               `json:"visible,omitempty"`
	MinInstances     int                `json:"minInstances,omitempty"`
	Options          []CapabilityOption `json:"options,omitempty"`
}

type BundleIdCapabilityAttributes struct {
	CapabilityType CapabilityType      `json:"capabilityType"`
	Settings       []CapabilitySetting `json:"settings"`
}

type BundleIdCapability struct {
	jsonapi.Resource
	Attributes BundleIdCapabilityAttributes
}

func NewBundleIdCapability(resource jsonapi.Resource) (BundleIdCapability, error) {
	result := BundleIdCapability{Resource: resource}
	err := mapAttributes(resource, BundleIdCapabilitiesType, &result.Attributes)
	return result, err
}

type CertificateAttributes struct {
	CertificateContent string          `json:"certificateContent"`
	CertificateType    CertificateType `json:"certificateType"`
	DisplayName        string          `json:"displayName"`
	ExpirationDate     string          `json:"expirationDate"`
	Name               string          `json:"name"`
	Platform           string          `json:"platform"`
	SerialNumber       string          `json:"serialNumber"`
}

type Certificate struct {
	jsonapi.Resource
	Attributes CertificateAttributes
}

func NewCertificate(resource jsonapi.Resource) (Certificate, error) {
	result := Certificate{Resource: resource}
	err := mapAttributes(resource, CertificatesType, &result.Attributes)
	return result, err
}

// DER decodes the certificate content.
func (c Certificate) DER() ([]byte, error) {
	if c.Attributes.CertificateContent == "" {
		return nil, fmt.Errorf("certificate %s has no content", c.Id())
	}
	return base64.StdEncoding.DecodeString(c.Attributes.CertificateContent)
}

func (c Certificate) X509() (*x509.Certificate, error) {
	der, err := c.DER()
	if err != nil {
		return nil, err
	}
	return x509.ParseCertificate(der)
}

type DeviceAttributes struct {
	AddedDate   string       `json:"addedDate"`
	DeviceClass string       `json:"deviceClass"`
	Model       string       `json:"model"`
	Name        string       `json:"name"`
	Platform    string       `json:"platform"`
	Status      DeviceStatus `json:"status"`
	Udid        string       `json:"udid"`
}

type Device struct {
	jsonapi.Resource
	Attributes DeviceAttributes
}

func NewDevice(resource jsonapi.Resource) (Device, error) {
	result := Device{Resource: resource}
	err := mapAttributes(resource, DevicesType, &result.Attributes)
	return result, err
}

type ProfileAttributes struct {
	CreatedDate    string       `json:"createdDate"`
	ExpirationDate string       `json:"expirationDate"`
	Name           string       `json:"name"`
	Platform       string       `json:"platform"`
	ProfileContent string       `json:"profileContent"`
	ProfileState   ProfileState `json:"profileState"`
	ProfileType    ProfileType  `json:"profileType"`
	Uuid           string       `json:"uuid"`
}

type Profile struct {
	jsonapi.Resource
	Attributes ProfileAttributes
}

func NewProfile(resource jsonapi.Resource) (Profile, error) {
	result := Profile{Resource: resource}
	err := mapAttributes(resource, ProfilesType, &result.Attributes)
	return result, err
}

// Content decodes the signed .mobileprovision file.
func (p Profile) Content() ([]byte, error) {
	if p.Attributes.ProfileContent == "" {
		return nil, fmt.Errorf("profile %s has no content", p.Id())
	}
	return base64.StdEncoding.DecodeString(p.Attributes.ProfileContent)
}

func mapAttributes(resource jsonapi.Resource, resourceType string, result interface{}) error {
	if resource.Type() != resourceType {
		return fmt.Errorf(
			"expected resource of type '%s', got '%s'", resourceType, resource.Type(),
		)
	}
	return resource.MapAttributes(result)
}
