package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/careconnect/careconnect/server/internal/provider"
	"github.com/careconnect/careconnect/server/internal/session"
	"github.com/careconnect/careconnect/server/pkg/logger"
	"github.com/careconnect/careconnect/server/pkg/metrics"
)

// Service orchestrates login, signup, logout, password-recovery and
// email-verification flows against the identity provider and the local
// session codec.
type Service struct {
	identity provider.Identity
	codec    *session.Codec
	appURL   string
}

// NewService wires the orchestrator. appURL is the public base URL
// used to build verification and recovery links.
func NewService(identity provider.Identity, codec *session.Codec, appURL string) *Service {
	return &Service{identity: identity, codec: codec, appURL: appURL}
}

// Codec exposes the session codec for handlers that only read sessions.
func (s *Service) Codec() *session.Codec { return s.codec }

func track(op string, r Result) Result {
	outcome := "failure"
	if r.Success {
		outcome = "success"
	}
	metrics.AuthAttempts.WithLabelValues(op, outcome).Inc()
	return r
}

// RoleOf resolves the role stored in the provider preference bag for
// the given subject. Any lookup failure yields no role: callers must
// treat that as "not authorized", never as admin.
func (s *Service) RoleOf(ctx context.Context, userID string) (session.Role, bool) {
	acct, err := s.identity.GetAccount(ctx, userID)
	if err != nil {
		logger.Debugf("role lookup failed for %s: %v", userID, err)
		return "", false
	}
	raw, _ := acct.Prefs["role"].(string)
	return session.ParseRole(raw)
}

// Signup creates a patient account, stores its role and phone in the
// provider preference bag, triggers the verification email and logs
// the new patient in.
func (s *Service) Signup(c *gin.Context, name, email, password, phone string) Result {
	ctx := c.Request.Context()

	acct, err := s.identity.CreateAccount(ctx, email, password, name)
	if err != nil {
		if provider.IsConflict(err) {
			return track("signup", fail(msgAccountExists))
		}
		logger.Errorf("signup: account create failed: %v", err)
		return track("signup", fail(msgSignupFailed))
	}

	prefs := map[string]any{
		"role":               string(session.RolePatient),
		"phone":              phone,
		"emailVerified":      false,
		"onboardingComplete": false,
	}
	if err := s.identity.UpdatePrefs(ctx, acct.ID, prefs); err != nil {
		logger.Errorf("signup: prefs update failed for %s: %v", acct.ID, err)
		return track("signup", fail(msgSignupFailed))
	}

	if err := s.identity.CreateVerification(ctx, acct.ID, s.appURL+"/auth/verify-email"); err != nil {
		logger.Errorf("signup: verification email failed for %s: %v", acct.ID, err)
		return track("signup", fail(msgSignupFailed))
	}

	sess, err := s.identity.CreateEmailSession(ctx, email, password)
	if err != nil {
		logger.Errorf("signup: session create failed for %s: %v", acct.ID, err)
		return track("signup", fail(msgSignupFailed))
	}
	if _, err := s.codec.Issue(c, acct.ID, sess.ID, email, session.RolePatient); err != nil {
		logger.Errorf("signup: cookie issue failed for %s: %v", acct.ID, err)
		return track("signup", fail(msgSignupFailed))
	}
	return track("signup", ok(acct.ID))
}

// Login authenticates against the provider and verifies the stored
// role matches the requested one. A role mismatch tears down the
// just-created provider session and fails with the same generic
// message as bad credentials.
func (s *Service) Login(c *gin.Context, email, password string, role session.Role) Result {
	ctx := c.Request.Context()

	sess, err := s.identity.CreateEmailSession(ctx, email, password)
	if err != nil {
		logger.Debugf("login: session create failed: %v", err)
		return track("login", fail(msgInvalidCredentials))
	}

	stored, okRole := s.RoleOf(ctx, sess.UserID)
	if !okRole || stored != role {
		if err := s.identity.DeleteSession(ctx, sess.ID); err != nil {
			logger.Warnf("login: cleanup of session %s failed: %v", sess.ID, err)
		}
		return track("login", fail(msgInvalidCredentials))
	}

	if _, err := s.codec.Issue(c, sess.UserID, sess.ID, email, role); err != nil {
		logger.Errorf("login: cookie issue failed for %s: %v", sess.UserID, err)
		return track("login", fail(msgInvalidCredentials))
	}
	return track("login", ok(sess.UserID))
}

// Logout revokes the local session and best-effort invalidates the
// provider session. It never fails the caller-visible flow.
func (s *Service) Logout(c *gin.Context) Result {
	s.codec.Revoke(c, s.identity)
	return track("logout", Result{Success: true})
}

// SendPasswordReset asks the provider to email a recovery link.
func (s *Service) SendPasswordReset(ctx context.Context, email string) Result {
	if err := s.identity.CreateRecovery(ctx, email, s.appURL+"/auth/reset-password"); err != nil {
		logger.Debugf("password reset request failed: %v", err)
		return track("password_reset_request", fail(msgResetSendFailed))
	}
	return track("password_reset_request", Result{Success: true})
}

// ResetPassword consumes a recovery secret and sets the new password.
// Invalid and expired secrets are indistinguishable from other failures.
func (s *Service) ResetPassword(ctx context.Context, userID, secret, password string) Result {
	if err := s.identity.ConfirmRecovery(ctx, userID, secret, password); err != nil {
		logger.Debugf("password reset failed for %s: %v", userID, err)
		return track("password_reset", fail(msgResetInvalid))
	}
	return track("password_reset", ok(userID))
}

// VerifyEmail consumes a verification secret and marks the account's
// emailVerified preference.
func (s *Service) VerifyEmail(ctx context.Context, userID, secret string) Result {
	if err := s.identity.ConfirmVerification(ctx, userID, secret); err != nil {
		logger.Debugf("email verification failed for %s: %v", userID, err)
		return track("verify_email", fail(msgVerifyInvalid))
	}
	if err := s.identity.UpdatePrefs(ctx, userID, map[string]any{"emailVerified": true}); err != nil {
		logger.Errorf("verify: prefs update failed for %s: %v", userID, err)
		return track("verify_email", fail(msgVerifyInvalid))
	}
	return track("verify_email", ok(userID))
}

// ResendVerification re-triggers the verification email for the
// currently authenticated account.
func (s *Service) ResendVerification(ctx context.Context, userID string) Result {
	if err := s.identity.CreateVerification(ctx, userID, s.appURL+"/auth/verify-email"); err != nil {
		logger.Debugf("resend verification failed for %s: %v", userID, err)
		return track("resend_verification", fail(msgResendFailed))
	}
	return track("resend_verification", ok(userID))
}
