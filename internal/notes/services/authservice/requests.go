package authservice

type SignUpRequest struct {
	Email           string
	Username        string
	Name            string
	Password        string
	ConfirmPassword string
	CaptchaToken    string
	RemoteIP        string
}

type ChangePasswordRequest struct {
	UserID          string
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}
