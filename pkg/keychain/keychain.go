// Package keychain reads and imports code signing certificates through the
// macOS `security` command line tool.
package keychain

import (
	"context"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/signkit/cli/pkg/cliapp"
	"software.sslmate.com/src/go-pkcs12"
)

// QueryTimeout bounds keychain queries.
const QueryTimeout = 60 * time.Second

// DefaultAllowedApplications may use imported private keys without prompting.
var DefaultAllowedApplications = []string{"/usr/bin/codesign", "/usr/bin/productsign"}

// Keychain operates on the keychain at Path, or on the default search list
// when Path is empty.
type Keychain struct {
	Path     string
	Executor *cliapp.Executor
}

func New(path string, executor *cliapp.Executor) *Keychain {
	return &Keychain{Path: path, Executor: executor}
}

// ListCertificates returns every certificate in the keychain.
func (k *Keychain) ListCertificates(ctx context.Context) ([]*x509.Certificate, error) {
	args := []string{"security", "find-certificate", "-a", "-p"}
	if k.Path != "" {
		args = append(args, k.Path)
	}
	process, err := k.Executor.Run(ctx, cliapp.Command{Args: args, Timeout: QueryTimeout})
	if err != nil {
		return nil, err
	}
	if process.ReturnCode != 0 {
		return nil, cliapp.NewAppError("Unable to list certificates from keychain", process)
	}
	return ParseCertificates([]byte(process.Stdout))
}

// ListCodeSigningCertificates returns the certificates that can sign code.
func (k *Keychain) ListCodeSigningCertificates(ctx context.Context) ([]*x509.Certificate, error) {
	certificates, err := k.ListCertificates(ctx)
	if err != nil {
		return nil, err
	}
	var result []*x509.Certificate
	for _, certificate := range certificates {
		if IsCodeSigning(certificate) {
			result = append(result, certificate)
		}
	}
	return result, nil
}

// ParseCertificates decodes every CERTIFICATE block of PEM data. Blocks that
// fail to parse are skipped.
func ParseCertificates(data []byte) ([]*x509.Certificate, error) {
	var certificates []*x509.Certificate
	var block *pem.Block
	skipped := 0
	for {
		block, data = pem.Decode(data)
		if block == nil {
			break
		}
		if block.Type != "CERTIFICATE" {
			continue
		}
		certificate, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			skipped++
			continue
		}
		certificates = append(certificates, certificate)
	}
	if len(certificates) == 0 && skipped > 0 {
		return nil, fmt.Errorf("none of %d certificates could be parsed", skipped)
	}
	return certificates, nil
}

func IsCodeSigning(certificate *x509.Certificate) bool {
	for _, usage := range certificate.ExtKeyUsage {
		if usage == x509.ExtKeyUsageCodeSigning {
			return true
		}
	}
	return false
}

// TeamId is the organizational unit Apple stores the team identifier in.
func TeamId(certificate *x509.Certificate) string {
	if len(certificate.Subject.OrganizationalUnit) > 0 {
		return certificate.Subject.OrganizationalUnit[0]
	}
	return ""
}

// Identity is a decoded PKCS#12 bundle.
type Identity struct {
	Certificate *x509.Certificate
	PrivateKey  interface{}
	Chain       []*x509.Certificate
}

func LoadPKCS12(path, password string) (*Identity, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	privateKey, certificate, chain, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return &Identity{Certificate: certificate, PrivateKey: privateKey, Chain: chain}, nil
}

// AddCertificate imports a PKCS#12 file. The password is checked locally
// first so a wrong password never reaches `security`.
func (k *Keychain) AddCertificate(
	ctx context.Context, path, password string, allowedApplications []string,
) (*Identity, error) {
	identity, err := LoadPKCS12(path, password)
	if err != nil {
		return nil, cliapp.NewAppError(fmt.Sprintf("Invalid PKCS#12 file %s: %s", path, err), nil)
	}

	args := []string{"security", "import", path, "-f", "pkcs12"}
	if k.Path != "" {
		args = append(args, "-k", k.Path)
	}
	args = append(args, "-P", password)
	if len(allowedApplications) == 0 {
		allowedApplications = DefaultAllowedApplications
	}
	for _, application := range allowedApplications {
		args = append(args, "-T", application)
	}

	var patterns []cliapp.ObfuscationPattern
	if password != "" {
		patterns = append(patterns, cliapp.Exact(password))
	}
	process, err := k.Executor.Run(ctx, cliapp.Command{
		Args:      args,
		Obfuscate: patterns,
		Timeout:   QueryTimeout,
	})
	if err != nil {
		return nil, err
	}
	if process.ReturnCode != 0 {
		message := strings.TrimSpace(process.Stderr)
		if message == "" {
			message = "Unable to import certificate to keychain"
		}
		return nil, cliapp.NewAppError(message, process)
	}
	return identity, nil
}
