package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Astemirdum/bookshelf/gateway/config"
	"github.com/Astemirdum/bookshelf/gateway/internal/errs"
	"github.com/Astemirdum/bookshelf/gateway/internal/model"
	"github.com/Astemirdum/bookshelf/pkg/auth0"
	"github.com/Astemirdum/bookshelf/pkg/circuit_breaker"
)

// Service talks to the identity provider. It never stores credentials; callers pass the
// tokens they hold.
type Service struct {
	log      *zap.Logger
	client   *http.Client
	baseURL  string
	verifier *auth0.Verifier
	cb       circuit_breaker.CircuitBreaker
}

func NewService(log *zap.Logger, cfg config.IdentityAPI, verifier *auth0.Verifier) *Service {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Service{
		log:      log.Named("identity"),
		client:   &http.Client{Timeout: timeout},
		baseURL:  strings.TrimSuffix(cfg.URL, "/") + "/api/v1",
		verifier: verifier,
		cb: circuit_breaker.New(100, time.Second, 0.2, 2,
			circuit_breaker.WithIgnore(func(err error) bool {
				var te *errs.TransientError
				return !errors.As(err, &te) || (te.Code != 0 && te.Code < http.StatusInternalServerError)
			}),
		),
	}
}

func (s *Service) CB() circuit_breaker.CircuitBreaker {
	return s.cb
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
}

type codeRequest struct {
	Email       string `json:"email,omitempty"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword,omitempty"`
}

type passwordChangeRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type emailChangeRequest struct {
	Email string `json:"email"`
}

func (s *Service) Login(ctx context.Context, email, password string) (model.Tokens, error) {
	var tokens model.Tokens
	err := s.post(ctx, "login", http.MethodPost, "/authorize", "", credentialsRequest{Email: email, Password: password}, &tokens)
	if err != nil {
		return model.Tokens{}, err
	}
	if tokens.AccessToken == "" && tokens.IDToken == "" {
		return model.Tokens{}, errs.Transient("login", 0, errors.New("provider returned no tokens"))
	}
	return tokens, nil
}

// Logout revokes the refresh token on the provider's side.
func (s *Service) Logout(ctx context.Context, tokens model.Tokens) error {
	return s.post(ctx, "logout", http.MethodPost, "/logout", tokens.AccessToken, nil, nil)
}

func (s *Service) Signup(ctx context.Context, email, password, name string) error {
	return s.post(ctx, "signup", http.MethodPost, "/register", "", credentialsRequest{Email: email, Password: password, Name: name}, nil)
}

func (s *Service) ConfirmSignup(ctx context.Context, email, code string) error {
	return s.post(ctx, "confirm signup", http.MethodPost, "/register/confirm", "", codeRequest{Email: email, Code: code}, nil)
}

func (s *Service) ChangePassword(ctx context.Context, accessToken, oldPassword, newPassword string) error {
	return s.post(ctx, "change password", http.MethodPut, "/password", accessToken,
		passwordChangeRequest{OldPassword: oldPassword, NewPassword: newPassword}, nil)
}

// ChangeEmail asks the provider to send a one-time code to the new address; the change
// takes effect after ConfirmEmailChange.
func (s *Service) ChangeEmail(ctx context.Context, accessToken, newEmail string) error {
	return s.post(ctx, "change email", http.MethodPut, "/email", accessToken, emailChangeRequest{Email: newEmail}, nil)
}

func (s *Service) ConfirmEmailChange(ctx context.Context, accessToken, code string) error {
	return s.post(ctx, "confirm email", http.MethodPost, "/email/confirm", accessToken, codeRequest{Code: code}, nil)
}

func (s *Service) RequestPasswordReset(ctx context.Context, email string) error {
	return s.post(ctx, "reset password", http.MethodPost, "/password/reset", "", emailChangeRequest{Email: email}, nil)
}

func (s *Service) ConfirmPasswordReset(ctx context.Context, email, code, newPassword string) error {
	return s.post(ctx, "confirm password reset", http.MethodPost, "/password/reset/confirm", "",
		codeRequest{Email: email, Code: code, NewPassword: newPassword}, nil)
}

// CurrentUser builds the user from the token claims. Groups are the union of the access
// and id token groups; membership in the admin group makes the user an admin.
func (s *Service) CurrentUser(ctx context.Context, tokens model.Tokens) (model.User, error) {
	if tokens.IDToken == "" && tokens.AccessToken == "" {
		return model.User{}, errs.ErrUnauthenticated
	}
	var (
		user   model.User
		groups []string
		seen   = map[string]struct{}{}
	)
	for _, raw := range []string{tokens.AccessToken, tokens.IDToken} {
		if raw == "" {
			continue
		}
		claims, err := s.verifier.Claims(ctx, raw)
		if err != nil {
			s.log.Debug("token rejected", zap.Error(err))
			return model.User{}, errors.Wrap(errs.ErrUnauthenticated, err.Error())
		}
		if user.ID == "" {
			user.ID = claims.Subject
		}
		if claims.Email != "" {
			user.Email = claims.Email
		}
		if claims.Name != "" {
			user.Name = claims.Name
		} else if user.Name == "" {
			user.Name = claims.Username
		}
		for _, g := range claims.Groups {
			if _, ok := seen[g]; !ok {
				seen[g] = struct{}{}
				groups = append(groups, g)
			}
		}
	}
	user.Groups = groups
	user.Role = model.RoleUser
	if _, ok := seen[auth0.AdminGroup]; ok {
		user.Role = model.RoleAdmin
	}
	return user, nil
}

func (s *Service) post(ctx context.Context, op, method, path, token string, in, out any) error {
	err := s.cb.Call(func() error {
		return s.roundTrip(ctx, op, method, path, token, in, out)
	})
	if errors.Is(err, circuit_breaker.ErrOpenCB) {
		return errs.Transient(op, http.StatusServiceUnavailable, err)
	}
	return err
}

func (s *Service) roundTrip(ctx context.Context, op, method, path, token string, in, out any) error {
	var body io.Reader = http.NoBody
	if in != nil {
		b := bytes.NewBuffer(nil)
		if err := json.NewEncoder(b).Encode(in); err != nil {
			return errs.Transient(op, 0, err)
		}
		body = b
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return errs.Transient(op, 0, err)
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSONCharsetUTF8)
	if token != "" {
		req.Header.Set(auth0.AuthorizationHeader, auth0.Bearer+token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return errs.Transient(op, 0, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return errors.Wrap(errs.ErrUnauthenticated, op)
	case resp.StatusCode == http.StatusNotFound:
		return errors.Wrap(errs.ErrNotFound, op)
	case resp.StatusCode == http.StatusBadRequest, resp.StatusCode == http.StatusConflict:
		// the provider's verdict on the input, e.g. a wrong code or a weak password
		return errs.Invalid("", providerMessage(resp.Body))
	case resp.StatusCode >= http.StatusBadRequest:
		return errs.Transient(op, resp.StatusCode, errors.New(providerMessage(resp.Body)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Transient(op, resp.StatusCode, errors.Wrap(err, "decode response"))
	}
	return nil
}

func providerMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	raw, _ := io.ReadAll(io.LimitReader(r, 4<<10)) //nolint:errcheck
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		return body.Message
	}
	if msg := strings.TrimSpace(string(raw)); msg != "" {
		return msg
	}
	return "request rejected"
}
