package signlib

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/signkit/cli/internal/signlib/config"
	"github.com/signkit/cli/pkg/appstore"
	"github.com/signkit/cli/pkg/cliapp"
)

func GetClient(cacert string, timeout time.Duration) (http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	if cacert != "" {
		file, err := os.Open(cacert)
		if err != nil {
			return http.Client{}, err
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return http.Client{}, err
		}
		certPool := x509.NewCertPool()
		if !certPool.AppendCertsFromPEM(data) {
			return http.Client{}, fmt.Errorf(
				"could not load certificates from file '%s'",
				cacert,
			)
		}

		transport.TLSClientConfig = &tls.Config{RootCAs: certPool}
	}

	return http.Client{Transport: transport, Timeout: timeout}, nil
}

// Auth holds the App Store Connect arguments shared by every action of the
// app-store-connect tool.
type Auth struct {
	IssuerId      string
	KeyIdentifier string
	PrivateKey    string
	Team          string
	ApiUrl        string
}

func (a Auth) auth() Auth { return a }

type authenticated interface {
	auth() Auth
}

func bindAuth(values cliapp.Values) Auth {
	return Auth{
		IssuerId:      values.String(IssuerId.Key),
		KeyIdentifier: values.String(KeyIdentifier.Key),
		PrivateKey:    values.String(PrivateKey.Key),
		Team:          values.String(Team.Key),
		ApiUrl:        values.String(ApiUrl.Key),
	}
}

// loadConfig reads the file named by --config, if any.
func loadConfig(ctx *cliapp.Context) (*config.Config, error) {
	return config.Load(ctx.GlobalString(ConfigFlag))
}

// Connect completes the credentials with the configuration file and returns
// an authenticated client.
func Connect(ctx *cliapp.Context, auth Auth) (*appstore.Client, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	credentials, err := cfg.Complete(config.Credentials{
		IssuerId:   auth.IssuerId,
		KeyId:      auth.KeyIdentifier,
		PrivateKey: auth.PrivateKey,
		ApiUrl:     auth.ApiUrl,
	}, auth.Team)
	if err != nil {
		return nil, &cliapp.ArgumentError{Flag: Team.Flags[0], Message: err.Error()}
	}
	if missing := credentials.Missing(); len(missing) > 0 {
		return nil, &cliapp.ArgumentError{Message: fmt.Sprintf(
			"Missing App Store Connect %s. Provide them with %s, %s and %s, "+
				"their environment variables or a team in the configuration file",
			strings.Join(missing, ", "),
			IssuerId.Flags[0], KeyIdentifier.Flags[0], PrivateKey.Flags[0],
		)}
	}

	tokens, err := appstore.NewKeyTokenSource(
		credentials.IssuerId, credentials.KeyId, credentials.PrivateKey,
	)
	if err != nil {
		return nil, &cliapp.ArgumentError{Flag: PrivateKey.Flags[0], Message: err.Error()}
	}
	timeout := ctx.GlobalDuration(ApiTimeoutFlag)
	httpClient, err := GetClient(ctx.GlobalString(CACertFlag), timeout)
	if err != nil {
		return nil, err
	}
	client := appstore.NewClient(credentials.ApiUrl, tokens, timeout)
	client.API.Client = httpClient
	ctx.Logger.Debug("Connecting to App Store Connect",
		ctx.Logger.Args("host", client.API.Host, "issuer", credentials.IssuerId))
	return client, nil
}

// withClient connects before handing the request to command.
func withClient[T authenticated](
	command func(*cliapp.Context, *appstore.Client, T) error,
) func(*cliapp.Context, T) error {
	return func(ctx *cliapp.Context, request T) error {
		client, err := Connect(ctx, request.auth())
		if err != nil {
			return err
		}
		return command(ctx, client, request)
	}
}
