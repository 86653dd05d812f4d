// Package tlsprovision obtains a TLS certificate from an ACME provider
// (Let's Encrypt by default) for hosts that terminate TLS directly instead
// of sitting behind a reverse proxy, and loads the result into a
// crypto/tls.Config the core/server package can serve with.
package tlsprovision

import (
	"context"
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-acme/lego/v4/certcrypto"
	"github.com/go-acme/lego/v4/certificate"
	"github.com/go-acme/lego/v4/challenge"
	"github.com/go-acme/lego/v4/challenge/http01"
	"github.com/go-acme/lego/v4/lego"
	"github.com/go-acme/lego/v4/registration"
)

// Option configures a Provisioner.
type Option func(*config) error

// WithCADirectoryURL overrides the ACME directory URL (defaults to Let's
// Encrypt production).
func WithCADirectoryURL(url string) Option {
	return func(cfg *config) error {
		cfg.caDirURL = strings.TrimSpace(url)
		return nil
	}
}

// WithHTTP01Address selects the bind address for the HTTP-01 challenge
// server (host:port). Empty falls back to all interfaces on port 80.
func WithHTTP01Address(addr string) Option {
	return func(cfg *config) error {
		cfg.http01Address = strings.TrimSpace(addr)
		return nil
	}
}

// Provisioner issues a certificate via ACME and writes it to outputDir.
type Provisioner struct {
	cfg             config
	clientFactory   clientFactory
	accountKeyMaker func() (crypto.PrivateKey, error)
}

type config struct {
	domains       []string
	email         string
	outputDir     string
	caDirURL      string
	keyType       certcrypto.KeyType
	http01Address string
	http01Host    string
	http01Port    string
}

const (
	defaultDirectoryURL = lego.LEDirectoryProduction
	defaultHTTPPort     = "80"
)

// New constructs a Provisioner for domains, registered to email, writing
// artifacts under outputDir.
func New(domains []string, email, outputDir string, opts ...Option) (*Provisioner, error) {
	cfg := config{
		domains:   append([]string(nil), domains...),
		email:     strings.TrimSpace(email),
		outputDir: strings.TrimSpace(outputDir),
		caDirURL:  defaultDirectoryURL,
		keyType:   certcrypto.RSA2048,
	}

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}

	return &Provisioner{
		cfg:           cfg,
		clientFactory: defaultClientFactory,
		accountKeyMaker: func() (crypto.PrivateKey, error) {
			return ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
		},
	}, nil
}

// Result captures the generated artifacts' paths.
type Result struct {
	CertificatePath       string
	PrivateKeyPath        string
	IssuerCertificatePath string
}

// Obtain requests a fresh certificate and writes it and its private key to
// disk, returning their paths.
func (p *Provisioner) Obtain(ctx context.Context) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accountKey, err := p.accountKeyMaker()
	if err != nil {
		return nil, fmt.Errorf("generate account key: %w", err)
	}

	user := &acmeUser{email: p.cfg.email, key: accountKey}

	legoCfg := lego.NewConfig(user)
	legoCfg.CADirURL = p.cfg.caDirURL
	legoCfg.Certificate.KeyType = p.cfg.keyType

	client, err := p.clientFactory(legoCfg)
	if err != nil {
		return nil, fmt.Errorf("create acme client: %w", err)
	}

	provider := http01.NewProviderServer(p.cfg.http01Host, p.cfg.http01Port)
	if err := client.SetHTTP01Provider(provider); err != nil {
		return nil, fmt.Errorf("configure http-01 provider: %w", err)
	}

	reg, err := client.Register(registration.RegisterOptions{TermsOfServiceAgreed: true})
	if err != nil {
		return nil, fmt.Errorf("register account: %w", err)
	}
	user.registration = reg

	certRes, err := client.Obtain(certificate.ObtainRequest{
		Domains:        p.cfg.domains,
		Bundle:         true,
		EmailAddresses: []string{p.cfg.email},
	})
	if err != nil {
		return nil, fmt.Errorf("obtain certificate: %w", err)
	}

	return p.writeArtifacts(certRes)
}

// LoadTLSConfig is a convenience wrapper around Obtain that returns a
// ready-to-use *tls.Config (for core/server.WithTLS) instead of file
// paths.
func (p *Provisioner) LoadTLSConfig(ctx context.Context) (*tls.Config, error) {
	res, err := p.Obtain(ctx)
	if err != nil {
		return nil, err
	}
	cert, err := tls.LoadX509KeyPair(res.CertificatePath, res.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load issued certificate: %w", err)
	}
	return &tls.Config{Certificates: []tls.Certificate{cert}}, nil
}

func (p *Provisioner) writeArtifacts(certRes *certificate.Resource) (*Result, error) {
	if certRes == nil {
		return nil, errors.New("certificate resource is nil")
	}
	if err := os.MkdirAll(p.cfg.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure output directory: %w", err)
	}

	base := safeFileSegment(p.cfg.domains[0])
	certPath := filepath.Join(p.cfg.outputDir, base+".crt")
	keyPath := filepath.Join(p.cfg.outputDir, base+".key")
	issuerPath := filepath.Join(p.cfg.outputDir, base+"-issuer.crt")

	if len(certRes.PrivateKey) == 0 {
		return nil, errors.New("empty private key from ACME server")
	}
	if err := os.WriteFile(keyPath, certRes.PrivateKey, 0o600); err != nil {
		return nil, fmt.Errorf("write private key: %w", err)
	}

	if len(certRes.Certificate) == 0 {
		return nil, errors.New("empty certificate from ACME server")
	}
	if err := os.WriteFile(certPath, certRes.Certificate, 0o644); err != nil {
		return nil, fmt.Errorf("write certificate: %w", err)
	}

	result := &Result{CertificatePath: certPath, PrivateKeyPath: keyPath}
	if len(certRes.IssuerCertificate) > 0 {
		if err := os.WriteFile(issuerPath, certRes.IssuerCertificate, 0o644); err != nil {
			return nil, fmt.Errorf("write issuer certificate: %w", err)
		}
		result.IssuerCertificatePath = issuerPath
	}
	return result, nil
}

func (cfg *config) applyDefaults() error {
	if len(cfg.domains) == 0 {
		return errors.New("at least one domain is required")
	}
	for i := range cfg.domains {
		cfg.domains[i] = strings.TrimSpace(cfg.domains[i])
		if cfg.domains[i] == "" {
			return errors.New("domain entries cannot be empty")
		}
	}
	if cfg.email == "" {
		return errors.New("email is required")
	}
	if cfg.outputDir == "" {
		return errors.New("output directory is required")
	}
	if cfg.caDirURL == "" {
		cfg.caDirURL = defaultDirectoryURL
	}

	host, port, err := parseHTTPAddress(cfg.http01Address)
	if err != nil {
		return err
	}
	if port == "" {
		port = defaultHTTPPort
	}
	cfg.http01Host = host
	cfg.http01Port = port

	if cfg.keyType == "" {
		cfg.keyType = certcrypto.RSA2048
	}
	return nil
}

func parseHTTPAddress(addr string) (string, string, error) {
	if strings.TrimSpace(addr) == "" {
		return "", "", nil
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "", "", fmt.Errorf("invalid http-01 address %q: %w", addr, err)
	}
	return host, port, nil
}

func safeFileSegment(value string) string {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" {
		return "certificate"
	}
	var b strings.Builder
	b.Grow(len(value))
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	sanitized := strings.Trim(b.String(), "._-")
	if sanitized == "" {
		return "certificate"
	}
	return sanitized
}

type clientFactory func(*lego.Config) (acmeClient, error)

type acmeClient interface {
	Register(options registration.RegisterOptions) (*registration.Resource, error)
	SetHTTP01Provider(provider challenge.Provider) error
	Obtain(request certificate.ObtainRequest) (*certificate.Resource, error)
}

func defaultClientFactory(cfg *lego.Config) (acmeClient, error) {
	client, err := lego.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &legoClientAdapter{client: client}, nil
}

type legoClientAdapter struct {
	client *lego.Client
}

func (l *legoClientAdapter) Register(options registration.RegisterOptions) (*registration.Resource, error) {
	return l.client.Registration.Register(options)
}

func (l *legoClientAdapter) SetHTTP01Provider(provider challenge.Provider) error {
	return l.client.Challenge.SetHTTP01Provider(provider)
}

func (l *legoClientAdapter) Obtain(request certificate.ObtainRequest) (*certificate.Resource, error) {
	return l.client.Certificate.Obtain(request)
}

type acmeUser struct {
	email        string
	registration *registration.Resource
	key          crypto.PrivateKey
}

func (u *acmeUser) GetEmail() string                        { return u.email }
func (u *acmeUser) GetRegistration() *registration.Resource { return u.registration }
func (u *acmeUser) GetPrivateKey() crypto.PrivateKey        { return u.key }
