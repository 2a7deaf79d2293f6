package auth

// Result is the uniform outcome of every auth operation. Provider
// errors never escape past the orchestrator; they are collapsed into
// these user-facing messages. Credential failures deliberately share
// one generic message so that account existence and role cannot be
// probed through error-text side channels.
type Result struct {
	Success bool   `json:"success"`
	UserID  string `json:"userId,omitempty"`
	Error   string `json:"error,omitempty"`
}

const (
	msgAccountExists      = "An account with this email already exists."
	msgSignupFailed       = "Failed to create account. Please try again."
	msgInvalidCredentials = "Invalid email or password. Please try again."
	msgResetSendFailed    = "Failed to send reset email. Please try again."
	msgResetInvalid       = "Invalid or expired reset link. Please request a new one."
	msgVerifyInvalid      = "Invalid verification link. Please try again."
	msgResendFailed       = "Failed to resend verification email. Please try again."
)

func ok(userID string) Result {
	return Result{Success: true, UserID: userID}
}

func fail(msg string) Result {
	return Result{Success: false, Error: msg}
}
