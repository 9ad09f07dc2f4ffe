package provisioning

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"time"

	"go.mozilla.org/pkcs7"
	"howett.net/plist"
)

// NewTestCertificate creates a self-signed code signing certificate.
func NewTestCertificate(commonName string) (*x509.Certificate, *rsa.PrivateKey, error) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, nil, err
	}
	serial, err := rand.Int(rand.Reader, big.NewInt(1<<62))
	if err != nil {
		return nil, nil, err
	}
	template := x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName:         commonName,
			OrganizationalUnit: []string{"TEAMID1234"},
		},
		NotBefore:   time.Now().Add(-time.Hour),
		NotAfter:    time.Now().Add(365 * 24 * time.Hour),
		KeyUsage:    x509.KeyUsageDigitalSignature,
		ExtKeyUsage: []x509.ExtKeyUsage{x509.ExtKeyUsageCodeSigning},
	}
	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, nil, err
	}
	certificate, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, nil, err
	}
	return certificate, key, nil
}

// NewTestProfileData encodes and signs a profile the way Apple ships them.
func NewTestProfileData(profile Profile) ([]byte, error) {
	content, err := plist.Marshal(profile, plist.XMLFormat)
	if err != nil {
		return nil, err
	}
	signer, key, err := NewTestCertificate("Apple iPhone OS Provisioning Profile Signing")
	if err != nil {
		return nil, err
	}
	signedData, err := pkcs7.NewSignedData(content)
	if err != nil {
		return nil, err
	}
	err = signedData.AddSigner(signer, key, pkcs7.SignerInfoConfig{})
	if err != nil {
		return nil, err
	}
	return signedData.Finish()
}
