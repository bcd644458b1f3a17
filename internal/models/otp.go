package models

// OTPState is the pending or verified email OTP of one session.
type OTPState struct {
	Email    string `json:"email"`
	Code     string `json:"code"`
	Verified bool   `json:"verified"`
}
