package routes

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/trigate/trigate/internal/biometric"
	"github.com/trigate/trigate/internal/config"
	"github.com/trigate/trigate/internal/delivery"
	"github.com/trigate/trigate/internal/directory"
	"github.com/trigate/trigate/internal/metrics"
	"github.com/trigate/trigate/internal/mfa"
	"github.com/trigate/trigate/internal/otp"
	"github.com/trigate/trigate/internal/security"
	"github.com/trigate/trigate/internal/steptoken"
)

const (
	janitorInterval = time.Minute
	smtpTimeout     = 10 * time.Second
)

// Services are the long lived components built from Deps.
type Services struct {
	Auth    *mfa.Service
	Tokens  *steptoken.Authority
	Janitor *otp.Janitor
	Metrics *metrics.Recorder
}

// NewServices builds the authentication stack. Postgres backs the directory
// and, by default, the OTP store; in-memory variants are used when no
// database is configured.
func NewServices(d Deps) (*Services, error) {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	recorder := d.Metrics
	if recorder == nil {
		recorder = metrics.New()
	}

	repo := d.Directory
	if repo == nil {
		if d.DB != nil {
			repo = directory.NewPostgresRepository(d.DB)
		} else {
			repo = directory.NewMemoryRepository()
		}
	}
	dir := directory.NewService(repo, security.NewHasher(d.Cfg.BcryptCost))

	store, err := otpStore(d)
	if err != nil {
		return nil, err
	}
	challenges, err := otp.NewManager(store, security.NewHasher(d.Cfg.OTPHashCost), d.Cfg.OTPLength, d.Cfg.OTPTTL)
	if err != nil {
		return nil, err
	}

	tokens, err := steptoken.NewAuthority(d.Cfg.JWTSecret, d.Cfg.JWTIssuer, d.Cfg.AccessTokenTTL)
	if err != nil {
		return nil, err
	}

	extractor := d.Extractor
	if extractor == nil {
		if d.Cfg.BiometricSimulation {
			d.Logger.Warn("biometric simulation enabled, every decodable image yields a zero vector")
			extractor = biometric.SimulatedExtractor{}
		} else {
			extractor = biometric.NewHTTPExtractor(d.Cfg.FaceExtractorURL)
		}
	}

	sender := d.Sender
	if sender == nil {
		sender = newRouter(d)
	}

	svc := mfa.NewService(mfa.Deps{
		Directory:      dir,
		Matcher:        biometric.NewMatcher(extractor, d.Cfg.FaceTolerance),
		Challenges:     challenges,
		Tokens:         tokens,
		Sender:         sender,
		Metrics:        recorder,
		Logger:         d.Logger,
		EmailBootstrap: d.Cfg.EmailBootstrapEnabled,
	})

	return &Services{
		Auth:    svc,
		Tokens:  tokens,
		Janitor: otp.NewJanitor(store, janitorInterval, d.Cfg.OTPRetention, d.Logger),
		Metrics: recorder,
	}, nil
}

func otpStore(d Deps) (otp.Store, error) {
	switch d.Cfg.OTPStore {
	case config.OTPStorePostgres:
		if d.DB == nil {
			return nil, fmt.Errorf("otp store %q requires a database", d.Cfg.OTPStore)
		}
		return otp.NewPostgresStore(d.DB), nil
	case config.OTPStoreRedis:
		if d.Cache == nil {
			return nil, fmt.Errorf("otp store %q requires redis", d.Cfg.OTPStore)
		}
		return otp.NewRedisStore(d.Cache, d.Cfg.OTPRetention), nil
	case config.OTPStoreMemory, "":
		return otp.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown otp store %q", d.Cfg.OTPStore)
	}
}

func newRouter(d Deps) *delivery.Router {
	router := &delivery.Router{}
	if d.Cfg.MSG91AuthKey != "" {
		router.SMS = delivery.NewSMSClient(d.Cfg.MSG91AuthKey, d.Cfg.MSG91TemplateID, d.Cfg.MSG91SenderID, d.Cfg.MSG91BaseURL)
	}
	mailer := &delivery.SMTPMailer{
		Host:     d.Cfg.SMTPHost,
		Port:     d.Cfg.SMTPPort,
		Username: d.Cfg.SMTPUser,
		Password: d.Cfg.SMTPPassword,
		From:     d.Cfg.FromEmail,
		FromName: d.Cfg.FromName,
		Timeout:  smtpTimeout,
	}
	if mailer.Configured() {
		router.Email = mailer
	}
	if d.Cfg.DeliveryDevMode {
		router.Dev = delivery.NewLoggerSender(d.Logger)
	}
	return router
}
