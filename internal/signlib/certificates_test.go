package signlib

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/signkit/cli/pkg/appstore"
	"github.com/signkit/cli/pkg/cliapp"
	"github.com/signkit/cli/pkg/jsonapi"
	"github.com/signkit/cli/pkg/provisioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"software.sslmate.com/src/go-pkcs12"
)

func TestParsePrivateKey(t *testing.T) {
	_, rsaKey, err := provisioning.NewTestCertificate("RSA")
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	ecDer, err := x509.MarshalECPrivateKey(ecKey)
	require.NoError(t, err)
	pkcs8Der, err := x509.MarshalPKCS8PrivateKey(ecKey)
	require.NoError(t, err)

	for name, block := range map[string]*pem.Block{
		"pkcs1": {Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(rsaKey)},
		"sec1":  {Type: "EC PRIVATE KEY", Bytes: ecDer},
		"pkcs8": {Type: "PRIVATE KEY", Bytes: pkcs8Der},
	} {
		t.Run(name, func(t *testing.T) {
			key, err := parsePrivateKey(string(pem.EncodeToMemory(block)))
			require.NoError(t, err)
			assert.NotNil(t, key.Public())
		})
	}

	_, err = parsePrivateKey("not a key")
	assert.Error(t, err)
}

func TestBindCreateCertificateRequiresCsrOrKey(t *testing.T) {
	action := createCertificateAction()
	ctx, _, _ := getTestContext()

	err := action.Invoke(ctx, cliapp.Values{CertificateType.Key: "IOS_DEVELOPMENT"})

	var argumentError *cliapp.ArgumentError
	require.True(t, errors.As(err, &argumentError))
	assert.Contains(t, argumentError.Message, "--csr")
}

func TestCreateCertificateCommandSavesP12(t *testing.T) {
	certificate, key, err := provisioning.NewTestCertificate("Apple Development: Jane")
	require.NoError(t, err)
	content := base64.StdEncoding.EncodeToString(certificate.Raw)
	mockData := jsonapi.MockData{
		"/certificates": jsonapi.GetMockTextResponse(`{"data": ` +
			certificateJSON("C1", "Jane", content) + `}`),
	}
	ctx, _, _ := getTestContext()
	directory := t.TempDir()

	err = CreateCertificateCommand(ctx, getTestClient(mockData), CreateCertificateRequest{
		CertificateType: "IOS_DEVELOPMENT",
		Key:             key,
		Save:            true,
		Directory:       directory,
		Password:        "secret",
	})

	require.NoError(t, err)
	var payload struct {
		Data struct {
			Attributes map[string]string `json:"attributes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(
		mockData["/certificates"].Requests[0].Request.Payload, &payload))
	assert.True(t, strings.HasPrefix(payload.Data.Attributes["csrContent"],
		"-----BEGIN CERTIFICATE REQUEST-----"))
	assert.Equal(t, "IOS_DEVELOPMENT", payload.Data.Attributes["certificateType"])

	cer, err := filepath.Glob(filepath.Join(directory, "*"+certificateExtension))
	require.NoError(t, err)
	require.Len(t, cer, 1)
	der, err := os.ReadFile(cer[0])
	require.NoError(t, err)
	assert.Equal(t, certificate.Raw, der)

	p12, err := filepath.Glob(filepath.Join(directory, "*"+p12Extension))
	require.NoError(t, err)
	require.Len(t, p12, 1)
	data, err := os.ReadFile(p12[0])
	require.NoError(t, err)
	_, decoded, err := pkcs12.Decode(data, "secret")
	require.NoError(t, err)
	assert.True(t, decoded.Equal(certificate))
}

func TestCreateCertificateCommandSkipsP12ForOtherKey(t *testing.T) {
	certificate, _, err := provisioning.NewTestCertificate("Apple Development: Jane")
	require.NoError(t, err)
	_, otherKey, err := provisioning.NewTestCertificate("Other")
	require.NoError(t, err)
	mockData := jsonapi.MockData{
		"/certificates": jsonapi.GetMockTextResponse(`{"data": ` +
			certificateJSON("C1", "Jane",
				base64.StdEncoding.EncodeToString(certificate.Raw)) + `}`),
	}
	ctx, _, logs := getTestContext()
	directory := t.TempDir()

	err = CreateCertificateCommand(ctx, getTestClient(mockData), CreateCertificateRequest{
		CertificateType: "IOS_DEVELOPMENT",
		Csr:             "-----BEGIN CERTIFICATE REQUEST-----",
		Key:             otherKey,
		Save:            true,
		Directory:       directory,
	})

	require.NoError(t, err)
	p12, err := filepath.Glob(filepath.Join(directory, "*"+p12Extension))
	require.NoError(t, err)
	assert.Empty(t, p12)
	assert.Contains(t, logs.String(), "does not match")
}

func TestListCertificatesCommand(t *testing.T) {
	url := "/certificates?filter%5BcertificateType%5D=IOS_DEVELOPMENT&limit=100&sort=displayName"
	mockData := jsonapi.MockData{
		url: jsonapi.GetMockTextResponse(`{"data": [` +
			certificateJSON("C1", "Jane", "") + `]}`),
	}
	ctx, stdout, _ := getTestContext()

	err := ListCertificatesCommand(ctx, getTestClient(mockData), ListCertificatesRequest{
		Options: appstore.ListCertificatesOptions{CertificateType: "IOS_DEVELOPMENT"},
	})

	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "1A2B")
}

func TestRevokeCertificateCommand(t *testing.T) {
	answerConfirm(t, true)
	mockData := jsonapi.MockData{
		"/certificates/C1": jsonapi.GetMockTextResponse(""),
	}
	ctx, _, _ := getTestContext()

	err := RevokeCertificateCommand(ctx, getTestClient(mockData), RevokeCertificateRequest{
		Certificate: "C1",
	})

	require.NoError(t, err)
	assert.Equal(t, "DELETE", mockData["/certificates/C1"].Requests[0].Request.Method)
}
