package signlib

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	"github.com/signkit/cli/pkg/appstore"
	"github.com/signkit/cli/pkg/cliapp"
	"github.com/signkit/cli/pkg/jsonapi"
	"software.sslmate.com/src/go-pkcs12"
)

const (
	certificateExtension = ".cer"
	p12Extension         = ".p12"
	csrCommonName        = "signkit"
)

var certificateHeaders = []string{"ID", "Display name", "Type", "Serial number", "Expires"}

func certificateRow(certificate appstore.Certificate) []string {
	return []string{
		string(certificate.Id()),
		certificate.Attributes.DisplayName,
		string(certificate.Attributes.CertificateType),
		certificate.Attributes.SerialNumber,
		certificate.Attributes.ExpirationDate,
	}
}

// parsePrivateKey accepts PKCS#1, PKCS#8 and SEC 1 PEM encoded keys.
func parsePrivateKey(text string) (crypto.Signer, error) {
	block, _ := pem.Decode([]byte(text))
	if block == nil {
		return nil, errors.New("private key is not PEM encoded")
	}
	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		signer, ok := key.(crypto.Signer)
		if !ok {
			return nil, fmt.Errorf("unsupported private key type %T", key)
		}
		return signer, nil
	}
	if key, err := x509.ParsePKCS1PrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(block.Bytes); err == nil {
		return key, nil
	}
	return nil, errors.New("unsupported private key format")
}

func matchesKey(certificate *x509.Certificate, key crypto.Signer) bool {
	switch public := certificate.PublicKey.(type) {
	case *rsa.PublicKey:
		return public.Equal(key.Public())
	case *ecdsa.PublicKey:
		return public.Equal(key.Public())
	}
	return false
}

// saveCertificate writes the DER certificate and, if key belongs to it, a
// PKCS#12 container protected with password.
func saveCertificate(
	ctx *cliapp.Context,
	directory string,
	certificate appstore.Certificate,
	key crypto.Signer,
	password string,
) ([]string, error) {
	der, err := certificate.DER()
	if err != nil {
		return nil, err
	}
	name := certificate.Attributes.DisplayName
	path, err := saveFile(directory, der, certificateExtension, name, string(certificate.Id()))
	if err != nil {
		return nil, fmt.Errorf("cannot save certificate %s: %w", certificate.Id(), err)
	}
	ctx.Logger.Info(fmt.Sprintf("Saved certificate %q to %s", name, path))
	paths := []string{path}
	if key == nil {
		return paths, nil
	}

	parsed, err := x509.ParseCertificate(der)
	if err != nil {
		return paths, fmt.Errorf("cannot parse certificate %s: %w", certificate.Id(), err)
	}
	if !matchesKey(parsed, key) {
		ctx.Logger.Warn(fmt.Sprintf(
			"Certificate %s does not match the private key, skipping PKCS#12", certificate.Id(),
		))
		return paths, nil
	}
	p12, err := pkcs12.Modern.Encode(key, parsed, nil, password)
	if err != nil {
		return paths, fmt.Errorf("cannot create PKCS#12 for %s: %w", certificate.Id(), err)
	}
	path, err = saveFile(directory, p12, p12Extension, name, string(certificate.Id()))
	if err != nil {
		return paths, fmt.Errorf("cannot save PKCS#12 for %s: %w", certificate.Id(), err)
	}
	ctx.Logger.Info(fmt.Sprintf("Saved PKCS#12 container to %s", path))
	return append(paths, path), nil
}

type ListCertificatesRequest struct {
	Auth
	Output
	Options   appstore.ListCertificatesOptions
	Save      bool
	Directory string
	Key       crypto.Signer
	Password  string
}

func bindCertificateKey(values cliapp.Values) (crypto.Signer, error) {
	text := values.String(CertificateKey.Key)
	if text == "" {
		return nil, nil
	}
	key, err := parsePrivateKey(text)
	if err != nil {
		return nil, &cliapp.ArgumentError{Flag: CertificateKey.Flags[0], Message: err.Error()}
	}
	return key, nil
}

func listCertificatesAction() *cliapp.Action {
	return cliapp.NewAction[ListCertificatesRequest]("list-certificates").
		Describe("List Signing Certificates from Apple Developer portal matching given constraints").
		Optional(CertificateType, CertificateDisplayName, CertificateOrdering, Reverse,
			Save, CertificatesDirectory, CertificateKey, P12Password).
		Bind(func(values cliapp.Values) (ListCertificatesRequest, error) {
			key, err := bindCertificateKey(values)
			if err != nil {
				return ListCertificatesRequest{}, err
			}
			return ListCertificatesRequest{
				Auth:   bindAuth(values),
				Output: bindOutput(values),
				Options: appstore.ListCertificatesOptions{
					CertificateType: appstore.CertificateType(values.String(CertificateType.Key)),
					DisplayName:     values.String(CertificateDisplayName.Key),
					Ordering:        appstore.CertificateOrdering(values.String(CertificateOrdering.Key)),
					Reverse:         values.Bool(Reverse.Key),
				},
				Save:      values.Bool(Save.Key),
				Directory: values.String(CertificatesDirectory.Key),
				Key:       key,
				Password:  values.String(P12Password.Key),
			}, nil
		}).
		Run(withClient(ListCertificatesCommand)).
		MustBuild()
}

func ListCertificatesCommand(
	ctx *cliapp.Context, client *appstore.Client, request ListCertificatesRequest,
) error {
	certificates, err := client.Certificates().List(ctx, request.Options)
	if err != nil {
		return fmt.Errorf("cannot list certificates: %w", err)
	}
	ctx.Logger.Info(fmt.Sprintf("Found %d certificates", len(certificates)))
	if request.Save {
		for _, certificate := range certificates {
			_, err := saveCertificate(ctx, request.Directory, certificate,
				request.Key, request.Password)
			if err != nil {
				return err
			}
		}
	}
	return showResources(ctx.Stdout, request.Output, certificates,
		certificateHeaders, certificateRow)
}

type CreateCertificateRequest struct {
	Auth
	Output
	CertificateType appstore.CertificateType
	Csr             string
	Key             crypto.Signer
	Save            bool
	Directory       string
	Password        string
}

func createCertificateAction() *cliapp.Action {
	certificateType := CertificateType
	certificateType.Default = []string{"IOS_DEVELOPMENT"}
	return cliapp.NewAction[CreateCertificateRequest]("create-certificate").
		Describe("Create a Signing Certificate from a certificate signing request " +
			"or a private key").
		Optional(certificateType, CsrPath, CertificateKey, Save, CertificatesDirectory,
			P12Password).
		Bind(func(values cliapp.Values) (CreateCertificateRequest, error) {
			request := CreateCertificateRequest{
				Auth:            bindAuth(values),
				Output:          bindOutput(values),
				CertificateType: appstore.CertificateType(values.String(CertificateType.Key)),
				Save:            values.Bool(Save.Key),
				Directory:       values.String(CertificatesDirectory.Key),
				Password:        values.String(P12Password.Key),
			}
			key, err := bindCertificateKey(values)
			if err != nil {
				return request, err
			}
			request.Key = key
			if path := values.String(CsrPath.Key); path != "" {
				content, err := os.ReadFile(path)
				if err != nil {
					return request, &cliapp.ArgumentError{
						Flag: CsrPath.Flags[0], Message: err.Error(),
					}
				}
				request.Csr = string(content)
			}
			if request.Csr == "" && request.Key == nil {
				return request, &cliapp.ArgumentError{Message: fmt.Sprintf(
					"Either %s or %s is required", CsrPath.Flags[0], CertificateKey.Flags[0],
				)}
			}
			return request, nil
		}).
		Run(withClient(CreateCertificateCommand)).
		MustBuild()
}

// newCertificateSigningRequest returns a PEM encoded request signed by key.
func newCertificateSigningRequest(key crypto.Signer) (string, error) {
	template := &x509.CertificateRequest{
		Subject: pkix.Name{CommonName: csrCommonName},
	}
	der, err := x509.CreateCertificateRequest(rand.Reader, template, key)
	if err != nil {
		return "", err
	}
	return string(pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE REQUEST", Bytes: der})), nil
}

func CreateCertificateCommand(
	ctx *cliapp.Context, client *appstore.Client, request CreateCertificateRequest,
) error {
	csr := request.Csr
	if csr == "" {
		var err error
		csr, err = newCertificateSigningRequest(request.Key)
		if err != nil {
			return fmt.Errorf("cannot create certificate signing request: %w", err)
		}
	}

	progress := startProgress(ctx, fmt.Sprintf("Creating %s certificate", request.CertificateType))
	certificate, err := client.Certificates().Create(ctx, request.CertificateType, csr)
	if err != nil {
		progress.Fail("Certificate creation failed")
		return fmt.Errorf("cannot create %s certificate: %w", request.CertificateType, err)
	}
	progress.Success(fmt.Sprintf("Created certificate %s", certificate.Id()))

	if request.Save {
		_, err = saveCertificate(ctx, request.Directory, certificate, request.Key, request.Password)
		if err != nil {
			return err
		}
	}
	return showResource(ctx.Stdout, request.Output, certificate,
		certificateHeaders, certificateRow)
}

type RevokeCertificateRequest struct {
	Auth
	Certificate jsonapi.ResourceId
	Yes         bool
}

func revokeCertificateAction() *cliapp.Action {
	return cliapp.NewAction[RevokeCertificateRequest]("revoke-certificate").
		Describe("Revoke specified Signing Certificate in Apple Developer portal").
		Required(CertificateResourceId).
		Optional(Yes).
		Bind(func(values cliapp.Values) (RevokeCertificateRequest, error) {
			return RevokeCertificateRequest{
				Auth:        bindAuth(values),
				Certificate: jsonapi.ResourceId(values.String(CertificateResourceId.Key)),
				Yes:         values.Bool(Yes.Key),
			}, nil
		}).
		Run(withClient(RevokeCertificateCommand)).
		MustBuild()
}

func RevokeCertificateCommand(
	ctx *cliapp.Context, client *appstore.Client, request RevokeCertificateRequest,
) error {
	if !request.Yes && !confirm(fmt.Sprintf("Revoke certificate %s", request.Certificate)) {
		ctx.Logger.Warn("Revoke cancelled")
		return nil
	}
	err := client.Certificates().Revoke(ctx, request.Certificate)
	if err != nil {
		return fmt.Errorf("cannot revoke certificate %s: %w", request.Certificate, err)
	}
	ctx.Logger.Info(fmt.Sprintf("Revoked certificate %s", request.Certificate))
	return nil
}
