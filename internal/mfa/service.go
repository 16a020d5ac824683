// Package mfa runs the three factor authentication flow. Each operation
// checks the step token for exactly its predecessor state, performs one
// factor and mints the token for the next state.
package mfa

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/trigate/trigate/internal/biometric"
	"github.com/trigate/trigate/internal/delivery"
	"github.com/trigate/trigate/internal/directory"
	"github.com/trigate/trigate/internal/otp"
	"github.com/trigate/trigate/internal/steptoken"
)

// Transition names used for metrics and logs.
const (
	TransitionLogin          = "login"
	TransitionVerifyFace     = "verify_face"
	TransitionSendOTP        = "send_otp"
	TransitionVerifyOTP      = "verify_otp"
	TransitionInitOTPByEmail = "init_otp_by_email"

	outcomeSuccess = "success"
)

// TokenTypeBearer is reported alongside access credentials.
const TokenTypeBearer = "bearer"

// Recorder receives flow metrics.
type Recorder interface {
	Transition(transition, outcome string)
	FaceDistance(d float64)
}

type nopRecorder struct{}

func (nopRecorder) Transition(string, string) {}
func (nopRecorder) FaceDistance(float64)      {}

// Deps are the collaborators of a Service, built once at startup.
type Deps struct {
	Directory  *directory.Service
	Matcher    *biometric.Matcher
	Challenges *otp.Manager
	Tokens     *steptoken.Authority
	Sender     delivery.Sender
	Metrics    Recorder
	Logger     *slog.Logger

	// EmailBootstrap enables InitOTPByEmail.
	EmailBootstrap bool
}

// Service is the authentication state machine.
type Service struct {
	dir            *directory.Service
	matcher        *biometric.Matcher
	challenges     *otp.Manager
	tokens         *steptoken.Authority
	sender         delivery.Sender
	metrics        Recorder
	logger         *slog.Logger
	emailBootstrap bool
}

// NewService wires a Service from deps.
func NewService(deps Deps) *Service {
	metrics := deps.Metrics
	if metrics == nil {
		metrics = nopRecorder{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		dir:            deps.Directory,
		matcher:        deps.Matcher,
		challenges:     deps.Challenges,
		tokens:         deps.Tokens,
		sender:         deps.Sender,
		metrics:        metrics,
		logger:         logger,
		emailBootstrap: deps.EmailBootstrap,
	}
}

// OTPLength is the number of digits VerifyOTP expects.
func (s *Service) OTPLength() int {
	return s.challenges.Length()
}

// EmailBootstrapEnabled reports whether InitOTPByEmail is served.
func (s *Service) EmailBootstrapEnabled() bool {
	return s.emailBootstrap
}

// Login checks the password factor.
func (s *Service) Login(ctx context.Context, req LoginRequest) (res LoginResult, err error) {
	defer s.observe(TransitionLogin, &err)
	if err := req.Validate(); err != nil {
		return LoginResult{}, err
	}

	identity, err := s.dir.Authenticate(ctx, req.Email, req.Password)
	if errors.Is(err, directory.ErrInvalidCredentials) {
		return LoginResult{}, errInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, internal(err)
	}

	tok, err := s.tokens.IssueStep(identity.ID, steptoken.StepPasswordVerified)
	if err != nil {
		return LoginResult{}, internal(err)
	}
	return LoginResult{
		SessionToken: tok.Value,
		ExpiresIn:    seconds(steptoken.StepTTL),
		User: MaskedIdentity{
			Name:       identity.Name,
			Email:      MaskContact(identity.Email),
			NationalID: maskNationalID(identity.NationalID),
		},
		NextStep: NextFaceVerification,
	}, nil
}

// VerifyFace checks the biometric factor for a password_verified session.
// The held token is not consumed on failure.
func (s *Service) VerifyFace(ctx context.Context, req FaceRequest) (res FaceResult, err error) {
	defer s.observe(TransitionVerifyFace, &err)
	if err := req.Validate(); err != nil {
		return FaceResult{}, err
	}

	identity, err := s.sessionIdentity(ctx, req.SessionToken, steptoken.StepPasswordVerified)
	if err != nil {
		return FaceResult{}, err
	}
	if !identity.HasTemplate() {
		return FaceResult{}, templateMissing()
	}

	result, err := s.matcher.Verify(ctx, biometric.Vector(identity.Template), req.FaceImage)
	switch {
	case errors.Is(err, biometric.ErrNoFaceDetected):
		return FaceResult{}, noFace(err)
	case errors.Is(err, biometric.ErrInvalidTemplate):
		return FaceResult{}, templateMissing()
	case err != nil:
		return FaceResult{}, internal(err)
	}
	s.metrics.FaceDistance(result.Distance)
	if result.MultipleFaces {
		s.logger.WarnContext(ctx, "multiple faces detected, using first", "subject", identity.ID)
	}
	if !result.Match {
		return FaceResult{}, errFaceMismatch
	}

	tok, err := s.tokens.IssueStep(identity.ID, steptoken.StepFaceVerified)
	if err != nil {
		return FaceResult{}, internal(err)
	}

	masked := ""
	contact, err := s.dir.ResolveContact(ctx, identity)
	switch {
	case err == nil:
		masked = MaskContact(contact)
	case !errors.Is(err, directory.ErrNoContact):
		return FaceResult{}, internal(err)
	}

	return FaceResult{
		SessionToken:  tok.Value,
		ExpiresIn:     seconds(steptoken.StepTTL),
		MaskedContact: masked,
		MultipleFaces: result.MultipleFaces,
		Distance:      result.Distance,
		NextStep:      NextOTPVerification,
	}, nil
}

// SendOTP issues a code for a face_verified session and delivers it to the
// resolved contact. Each call supersedes the previous code.
func (s *Service) SendOTP(ctx context.Context, req SendOTPRequest) (res SendOTPResult, err error) {
	defer s.observe(TransitionSendOTP, &err)
	if err := req.Validate(); err != nil {
		return SendOTPResult{}, err
	}

	identity, err := s.sessionIdentity(ctx, req.SessionToken, steptoken.StepFaceVerified)
	if err != nil {
		return SendOTPResult{}, err
	}
	return s.dispatch(ctx, identity)
}

// VerifyOTP checks the code factor and mints the access credential.
func (s *Service) VerifyOTP(ctx context.Context, req VerifyOTPRequest) (res VerifyOTPResult, err error) {
	defer s.observe(TransitionVerifyOTP, &err)
	if strings.TrimSpace(req.SessionToken) == "" {
		return VerifyOTPResult{}, validationError("session_token is required")
	}

	subject, err := s.tokens.VerifyStep(req.SessionToken, steptoken.StepFaceVerified)
	if err != nil {
		return VerifyOTPResult{}, errInvalidSession
	}
	if err := req.Validate(s.challenges.Length()); err != nil {
		return VerifyOTPResult{}, err
	}

	outcome, err := s.challenges.Verify(ctx, subject, req.OTP)
	if err != nil {
		return VerifyOTPResult{}, internal(err)
	}
	switch outcome {
	case otp.NoActiveChallenge:
		return VerifyOTPResult{}, errNoActive
	case otp.Expired:
		return VerifyOTPResult{}, errOTPExpired
	case otp.Mismatch:
		return VerifyOTPResult{}, errOTPMismatch
	}

	identity, err := s.dir.Get(ctx, subject)
	if errors.Is(err, directory.ErrNotFound) {
		return VerifyOTPResult{}, errInvalidSession
	}
	if err != nil {
		return VerifyOTPResult{}, internal(err)
	}

	access, err := s.tokens.IssueAccess(identity.ID, identity.Email)
	if err != nil {
		return VerifyOTPResult{}, internal(err)
	}
	s.logger.InfoContext(ctx, "authentication complete", "subject", identity.ID)
	return VerifyOTPResult{
		AccessToken: access.Value,
		TokenType:   TokenTypeBearer,
		ExpiresIn:   seconds(s.tokens.AccessTTL()),
	}, nil
}

// InitOTPByEmail is the alternative entry point: a directory lookup by email
// stands in for the password and face factors, then the same OTP dispatch
// runs and a face_verified token is returned.
func (s *Service) InitOTPByEmail(ctx context.Context, req InitOTPByEmailRequest) (res SendOTPResult, err error) {
	defer s.observe(TransitionInitOTPByEmail, &err)
	if !s.emailBootstrap {
		return SendOTPResult{}, errUnknownEmail
	}
	if err := req.Validate(); err != nil {
		return SendOTPResult{}, err
	}

	identity, err := s.dir.Lookup(ctx, req.Email)
	if errors.Is(err, directory.ErrNotFound) {
		return SendOTPResult{}, errUnknownEmail
	}
	if err != nil {
		return SendOTPResult{}, internal(err)
	}

	res, err = s.dispatch(ctx, identity)
	if err != nil {
		return SendOTPResult{}, err
	}
	tok, err := s.tokens.IssueStep(identity.ID, steptoken.StepFaceVerified)
	if err != nil {
		return SendOTPResult{}, internal(err)
	}
	res.SessionToken = tok.Value
	return res, nil
}

// dispatch resolves the contact, replaces the subject's challenge and hands
// the code to the sender. A delivery failure leaves the new challenge in
// place; the next request supersedes it.
func (s *Service) dispatch(ctx context.Context, identity directory.Identity) (SendOTPResult, error) {
	contact, err := s.dir.ResolveContact(ctx, identity)
	if errors.Is(err, directory.ErrNoContact) {
		return SendOTPResult{}, noContact(err)
	}
	if err != nil {
		return SendOTPResult{}, internal(err)
	}

	issued, err := s.challenges.Issue(ctx, identity.ID)
	if err != nil {
		return SendOTPResult{}, internal(err)
	}

	err = s.sender.Send(ctx, delivery.Message{
		Kind:        delivery.KindOTP,
		Destination: contact,
		Recipient:   identity.Name,
		Code:        issued.Code,
		ExpiresIn:   s.challenges.TTL(),
	})
	if err != nil {
		return SendOTPResult{}, deliveryFailed(err)
	}

	return SendOTPResult{
		ExpiresIn:     seconds(s.challenges.TTL()),
		MaskedContact: MaskContact(contact),
	}, nil
}

// sessionIdentity verifies token for step and loads its subject. Every
// failure is reported as an invalid session.
func (s *Service) sessionIdentity(ctx context.Context, token string, step steptoken.Step) (directory.Identity, error) {
	subject, err := s.tokens.VerifyStep(token, step)
	if err != nil {
		return directory.Identity{}, errInvalidSession
	}
	identity, err := s.dir.Get(ctx, subject)
	if errors.Is(err, directory.ErrNotFound) {
		return directory.Identity{}, errInvalidSession
	}
	if err != nil {
		return directory.Identity{}, internal(err)
	}
	return identity, nil
}

func (s *Service) observe(transition string, errp *error) {
	if *errp == nil {
		s.metrics.Transition(transition, outcomeSuccess)
		return
	}
	e := AsError(*errp)
	*errp = e
	s.metrics.Transition(transition, e.Code)
	if e.Kind == KindInternal || e.Kind == KindUpstreamDelivery {
		s.logger.Error("authentication step failed", "transition", transition, "code", e.Code, "error", e)
	}
}

func seconds(d time.Duration) int {
	return int(math.Round(d.Seconds()))
}

// Profile returns the masked identity behind a verified access credential.
func (s *Service) Profile(ctx context.Context, subject string) (ProfileResult, error) {
	identity, err := s.dir.Get(ctx, subject)
	if errors.Is(err, directory.ErrNotFound) {
		return ProfileResult{}, errInvalidSession
	}
	if err != nil {
		return ProfileResult{}, internal(err)
	}
	return ProfileResult{
		SubjectID: identity.ID,
		User: MaskedIdentity{
			Name:       identity.Name,
			Email:      MaskContact(identity.Email),
			NationalID: maskNationalID(identity.NationalID),
		},
	}, nil
}
