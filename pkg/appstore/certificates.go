package appstore

import (
	"context"

	"github.com/signkit/cli/pkg/jsonapi"
)

// Certificates manages https://developer.apple.com/documentation/appstoreconnectapi/certificates
type Certificates struct {
	client *Client
}

type ListCertificatesOptions struct {
	CertificateType CertificateType
	DisplayName     string
	SerialNumber    string
	Ordering        CertificateOrdering
	Reverse         bool
}

func (o ListCertificatesOptions) query() jsonapi.Query {
	filters := make(map[string]string)
	if o.CertificateType != "" {
		filters["certificateType"] = string(o.CertificateType)
	}
	if o.DisplayName != "" {
		filters["displayName"] = o.DisplayName
	}
	if o.SerialNumber != "" {
		filters["serialNumber"] = o.SerialNumber
	}
	return jsonapi.Query{
		Filters: filters,
		Sort:    ordering(o.Ordering, CertificateOrderingDisplayName, o.Reverse),
	}
}

// Create signs a certificate signing request (PEM) into a new certificate.
func (m Certificates) Create(
	ctx context.Context, certificateType CertificateType, csrContent string,
) (Certificate, error) {
	resource, err := m.client.API.Create(ctx, CertificatesType,
		map[string]interface{}{
			"certificateType": string(certificateType),
			"csrContent":      csrContent,
		}, nil)
	if err != nil {
		return Certificate{}, err
	}
	return NewCertificate(resource)
}

func (m Certificates) List(
	ctx context.Context, options ListCertificatesOptions,
) ([]Certificate, error) {
	resources, err := m.client.list(ctx, "/"+CertificatesType, options.query())
	if err != nil {
		return nil, err
	}
	return convertAll(resources, NewCertificate)
}

func (m Certificates) Read(
	ctx context.Context, certificate jsonapi.Identifiable,
) (Certificate, error) {
	resource, err := m.client.API.Get(ctx, CertificatesType, certificate)
	if err != nil {
		return Certificate{}, err
	}
	return NewCertificate(resource)
}

func (m Certificates) Revoke(
	ctx context.Context, certificate jsonapi.Identifiable,
) error {
	return m.client.API.Delete(ctx, CertificatesType, certificate)
}
