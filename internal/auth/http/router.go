package http

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"authgate/internal/auth/service"
	"authgate/internal/auth/session"
	"authgate/internal/common/config"
	"authgate/internal/common/constants"
	commonerrors "authgate/internal/common/errors"
	commonhttp "authgate/internal/common/http"
	"authgate/internal/common/logger"
)

// Password carries no `required` tag: an empty password is a provided,
// too-short password, and the length check owns that rejection.
type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password"`
}

type Handler struct {
	auth     *service.AuthService
	sessions *session.Manager
	validate *validator.Validate
	log      *logger.Logger
}

func NewHandler(
	auth *service.AuthService,
	sessions *session.Manager,
	cfg config.AuthConfig,
	log *logger.Logger,
) http.Handler {
	h := &Handler{
		auth:     auth,
		sessions: sessions,
		validate: validator.New(),
		log:      log,
	}

	requireSession := RequireSession(sessions)

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = constants.DefaultRequestTimeout
	}
	withTimeout := commonhttp.WithTimeout(timeout)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", commonhttp.HealthHandler(log))
	mux.HandleFunc("/api/auth/register", commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.register)))
	mux.HandleFunc("/api/auth/login", commonhttp.RequireMethod(http.MethodPost)(withTimeout(h.login)))
	mux.HandleFunc("/api/auth/logout", commonhttp.RequireMethod(http.MethodGet)(withTimeout(h.logout)))
	mux.HandleFunc("/api/users", commonhttp.RequireMethod(http.MethodGet)(withTimeout(requireSession(h.listUsers))))
	return mux
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := h.decode(r, &req); err != nil {
		h.log.Warnf("register failed: %v", err)
		commonhttp.WriteMessage(w, http.StatusBadRequest, "username and password required")
		return
	}

	result, err := h.auth.Register(r.Context(), service.RegisterInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := h.decode(r, &req); err != nil {
		h.log.Warnf("login failed: %v", err)
		commonhttp.WriteMessage(w, http.StatusBadRequest, "username and password required")
		return
	}

	result, err := h.auth.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	setSessionCookie(w, r, result.Session.ID)
	commonhttp.WriteMessage(w, http.StatusOK, result.Message)
}

// logout always answers 200; only the message reflects what happened to the
// session server-side.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(constants.SessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	outcome := h.auth.Logout(r.Context(), sessionID)
	clearSessionCookie(w, r)

	switch outcome {
	case session.DestroyedClean:
		commonhttp.WriteMessage(w, http.StatusOK, "logged out")
	case session.DestroyDegraded:
		commonhttp.WriteMessage(w, http.StatusOK, "you wanted to leave, why are you still here?")
	default:
		commonhttp.WriteMessage(w, http.StatusOK, "no session")
	}
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.auth.ListUsers(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	commonhttp.WriteJSON(w, http.StatusOK, users)
}

func (h *Handler) decode(r *http.Request, v any) error {
	if err := commonhttp.DecodeJSON(r, v); err != nil {
		return err
	}
	return h.validate.Struct(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if de, ok := commonerrors.AsDomainError(err); ok {
		if de.HTTPStatus() < http.StatusInternalServerError {
			commonhttp.WriteMessage(w, de.HTTPStatus(), de.Message())
			return
		}
	}

	h.log.WithFields(r.Context(), logger.Fields{
		"path": r.URL.Path,
	}).Errorf("request failed: %v", err)
	commonhttp.WriteMessage(w, http.StatusInternalServerError, "internal error")
}
