package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/ray-remotestate/fastfood/middlewares"
	"github.com/ray-remotestate/fastfood/models"
	"github.com/ray-remotestate/fastfood/utils"
	"github.com/sirupsen/logrus"
)

type registerRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	PhoneNumber string `json:"phoneNumber"`
	Role        string `json:"role"`
}

// Register creates a customer account. A requested role is ignored.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.RespondError(w, err)
		return
	}

	exists, err := h.Accounts.IsUserExists(r.Context(), req.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if exists {
		utils.RespondError(w, utils.DuplicateKey("Duplicate field value entered"))
		return
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	user := &models.User{
		Name:        strings.TrimSpace(req.Name),
		Email:       strings.ToLower(strings.TrimSpace(req.Email)),
		Password:    hashedPassword,
		Role:        models.RoleCustomer,
		PhoneNumber: req.PhoneNumber,
	}
	if err := h.Accounts.CreateUser(r.Context(), user); err != nil {
		utils.RespondError(w, err)
		return
	}
	if req.Role != "" && models.Role(req.Role) != models.RoleCustomer {
		logrus.WithFields(logrus.Fields{"user_id": user.ID, "requested_role": req.Role}).Warn("ignored role on registration")
	}

	h.sendToken(w, user, http.StatusCreated)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.RespondError(w, err)
		return
	}

	user, err := h.Accounts.GetUserByEmail(r.Context(), req.Email)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if user == nil || !utils.CheckPassword(user.Password, req.Password) {
		utils.RespondError(w, utils.Unauthorized("Invalid credentials"))
		return
	}

	h.sendToken(w, user, http.StatusOK)
}

// sendToken issues a session token and returns it both in the body and as
// the token cookie.
func (h *Handler) sendToken(w http.ResponseWriter, user *models.User, status int) {
	token, err := h.Tokens.Issue(user.ID, user.Role)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.TokenCookie,
		Value:    token,
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		Expires:  time.Now().Add(h.Config.CookieExpire),
	})
	utils.RespondJSON(w, status, map[string]any{
		"success": true,
		"token":   token,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middlewares.TokenCookie,
		Value:    "none",
		HttpOnly: true,
		Secure:   h.Config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
	})
	utils.RespondData(w, http.StatusOK, map[string]any{})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Accounts.GetUserByID(r.Context(), caller(r).ID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, user)
}

type detailsRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber"`
}

func (h *Handler) UpdateDetails(w http.ResponseWriter, r *http.Request) {
	current, err := h.Accounts.GetUserByID(r.Context(), caller(r).ID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}

	req := detailsRequest{Name: current.Name, Email: current.Email, PhoneNumber: current.PhoneNumber}
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.RespondError(w, err)
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := h.Accounts.UpdateUserDetails(r.Context(), current.ID, strings.TrimSpace(req.Name), email, req.PhoneNumber); err != nil {
		utils.RespondError(w, err)
		return
	}
	current.Name, current.Email, current.PhoneNumber = strings.TrimSpace(req.Name), email, req.PhoneNumber
	utils.RespondData(w, http.StatusOK, current)
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

func (h *Handler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := utils.Validate(req); err != nil {
		utils.RespondError(w, err)
		return
	}

	user, err := h.Accounts.GetUserByID(r.Context(), caller(r).ID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if !utils.CheckPassword(user.Password, req.CurrentPassword) {
		utils.RespondError(w, utils.Unauthorized("Password is incorrect"))
		return
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Accounts.UpdatePassword(r.Context(), user.ID, hashedPassword); err != nil {
		utils.RespondError(w, err)
		return
	}
	h.sendToken(w, user, http.StatusOK)
}

func (h *Handler) AddAddress(w http.ResponseWriter, r *http.Request) {
	var addr models.Address
	if err := utils.DecodeJSON(r, &addr); err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := utils.Validate(addr); err != nil {
		utils.RespondError(w, err)
		return
	}

	userID := caller(r).ID
	if err := h.Accounts.AddAddress(r.Context(), userID, &addr); err != nil {
		utils.RespondError(w, err)
		return
	}
	user, err := h.Accounts.GetUserByID(r.Context(), userID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondData(w, http.StatusOK, user)
}
