package handler

import (
	"net/http"

	"github.com/sumquiz/entitlements/pkg/referral"
)

type signUpRequest struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	DisplayName  string `json:"displayName"`
	ReferralCode string `json:"referralCode,omitempty"`
}

type signUpResponse struct {
	Success bool   `json:"success"`
	UID     string `json:"uid"`
	Email   string `json:"email"`
}

func (h *handlers) signUp(w http.ResponseWriter, r *http.Request) {
	var req signUpRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(r.Context(), w, h.deps.Log, err)
		return
	}

	res, err := h.deps.Signup.SignUp(r.Context(), referral.SignUpInput{
		Email:        req.Email,
		Password:     req.Password,
		DisplayName:  req.DisplayName,
		ReferralCode: req.ReferralCode,
	})
	if err != nil {
		writeError(r.Context(), w, h.deps.Log, toAPIError(err))
		return
	}

	writeJSON(w, http.StatusOK, signUpResponse{Success: true, UID: res.UID, Email: res.Email})
}

type referralCodeResponse struct {
	Code string `json:"code"`
}

// referralCode returns the caller's share code, generating one on first use.
func (h *handlers) referralCode(w http.ResponseWriter, r *http.Request) {
	uid := UIDFromContext(r.Context())

	code, err := h.deps.Codes.Generate(r.Context(), uid)
	if err != nil {
		writeError(r.Context(), w, h.deps.Log, toAPIError(err))
		return
	}
	writeJSON(w, http.StatusOK, referralCodeResponse{Code: code})
}
