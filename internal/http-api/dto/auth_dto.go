package dto

// Data Transfer Objects for the signup / signin / token exchange flow

// SignUpRequest: payload for account registration. The confirm code is
// delivered by email, never in the response.
type SignUpRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// SignInRequest: payload for re-requesting a confirm code.
type SignInRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email,max=254"`
}

// TokenRequest: payload for exchanging a confirm code for an access token.
type TokenRequest struct {
	Username    string `json:"username" binding:"required,max=150"`
	ConfirmCode string `json:"confirm_code" binding:"required,max=254"`
}

// IdentityResponse: identity echo after signup/signin.
type IdentityResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TokenResponse: the issued bearer token.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
