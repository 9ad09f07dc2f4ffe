package signlib

import (
	"crypto/x509"
	"fmt"
	"time"

	"github.com/signkit/cli/pkg/cliapp"
	"github.com/signkit/cli/pkg/keychain"
)

var AllCertificates = cliapp.Argument{
	Key:         "all_certificates",
	Flags:       []string{"--all"},
	Description: "List every certificate, not only the ones that can sign code",
	Switch:      true,
}

// KeychainTool inspects keychain certificates and imports signing identities.
func KeychainTool() *cliapp.Tool {
	tool := cliapp.NewTool("keychain",
		"Utility to manage macOS keychains and the code signing certificates in them").
		WithArguments(KeychainPath)
	tool.MustRegister(
		listKeychainCertificatesAction(),
		addCertificatesAction(),
	)
	return tool
}

// KeychainCertificate is the listed form of a keychain certificate.
type KeychainCertificate struct {
	CommonName   string    `json:"common_name"`
	TeamId       string    `json:"team_id"`
	SerialNumber string    `json:"serial_number"`
	NotAfter     time.Time `json:"expires"`
	CodeSigning  bool      `json:"code_signing"`
}

func newKeychainCertificate(certificate *x509.Certificate) KeychainCertificate {
	return KeychainCertificate{
		CommonName:   certificate.Subject.CommonName,
		TeamId:       keychain.TeamId(certificate),
		SerialNumber: certificate.SerialNumber.Text(16),
		NotAfter:     certificate.NotAfter,
		CodeSigning:  keychain.IsCodeSigning(certificate),
	}
}

var keychainCertificateHeaders = []string{"Common name", "Team ID", "Serial number", "Expires"}

func keychainCertificateRow(certificate KeychainCertificate) []string {
	return []string{
		certificate.CommonName,
		certificate.TeamId,
		certificate.SerialNumber,
		certificate.NotAfter.Format(time.RFC3339),
	}
}

type ListKeychainCertificatesRequest struct {
	Output
	Keychain string
	All      bool
}

func listKeychainCertificatesAction() *cliapp.Action {
	return cliapp.NewAction[ListKeychainCertificatesRequest]("list-certificates").
		Describe("List code signing certificates in the keychain").
		Optional(AllCertificates, JsonOutput).
		Bind(func(values cliapp.Values) (ListKeychainCertificatesRequest, error) {
			return ListKeychainCertificatesRequest{
				Output:   bindOutput(values),
				Keychain: values.String(KeychainPath.Key),
				All:      values.Bool(AllCertificates.Key),
			}, nil
		}).
		Run(ListKeychainCertificatesCommand).
		MustBuild()
}

func ListKeychainCertificatesCommand(
	ctx *cliapp.Context, request ListKeychainCertificatesRequest,
) error {
	chain := keychain.New(request.Keychain, ctx.Executor)
	var certificates []*x509.Certificate
	var err error
	if request.All {
		certificates, err = chain.ListCertificates(ctx)
	} else {
		certificates, err = chain.ListCodeSigningCertificates(ctx)
	}
	if err != nil {
		return err
	}
	listed := make([]KeychainCertificate, 0, len(certificates))
	for _, certificate := range certificates {
		listed = append(listed, newKeychainCertificate(certificate))
	}
	ctx.Logger.Info(fmt.Sprintf("Found %d certificates", len(listed)))
	return showResources(ctx.Stdout, request.Output, listed,
		keychainCertificateHeaders, keychainCertificateRow)
}

type AddCertificatesRequest struct {
	Keychain            string
	Paths               []string
	Password            string
	AllowedApplications []string
}

func addCertificatesAction() *cliapp.Action {
	return cliapp.NewAction[AddCertificatesRequest]("add-certificates").
		Describe("Add PKCS#12 certificates with their private keys to the keychain").
		Required(CertificatePaths).
		Optional(CertificatePassword, AllowedApplications).
		Bind(func(values cliapp.Values) (AddCertificatesRequest, error) {
			return AddCertificatesRequest{
				Keychain:            values.String(KeychainPath.Key),
				Paths:               values.Strings(CertificatePaths.Key),
				Password:            values.String(CertificatePassword.Key),
				AllowedApplications: values.Strings(AllowedApplications.Key),
			}, nil
		}).
		Run(AddCertificatesCommand).
		MustBuild()
}

func AddCertificatesCommand(ctx *cliapp.Context, request AddCertificatesRequest) error {
	chain := keychain.New(request.Keychain, ctx.Executor)
	for _, path := range request.Paths {
		identity, err := chain.AddCertificate(
			ctx, path, request.Password, request.AllowedApplications,
		)
		if err != nil {
			return err
		}
		ctx.Logger.Info(fmt.Sprintf(
			"Added certificate %q from %s", identity.Certificate.Subject.CommonName, path,
		))
	}
	return nil
}
