package auth

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"buildhub-state/internal/dto"
	"buildhub-state/internal/entity"
	"buildhub-state/internal/pkg/validation"
	"buildhub-state/pkg/store"

	"github.com/google/uuid"
)

const (
	MsgCredentialsRequired = "Email and password are required"
	MsgInvalidCredentials  = "Invalid credentials"
	MsgInvalidEmail        = "Invalid email address"
	MsgRegisterRequired    = "Name, email and password are required"
	MsgSessionExpired      = "Session expired"
	MsgInvalidRefreshToken = "Invalid refresh token"
)

type Options struct {
	Storage store.Storage
	Tokens  *TokenIssuer
	Logger  store.Logger

	// FailureEmail always fails login. Empty disables the check.
	FailureEmail string
	SessionTTL   time.Duration
	RefreshTTL   time.Duration
	Now          func() time.Time
}

// Thunks are the async auth operations.
type Thunks struct {
	Login    *store.AsyncThunk[dto.LoginRequest, dto.AuthResponse]
	Register *store.AsyncThunk[dto.RegisterRequest, dto.AuthResponse]
	Logout   *store.AsyncThunk[struct{}, struct{}]
	Refresh  *store.AsyncThunk[dto.RefreshRequest, dto.AuthResponse]

	opts Options
}

func NewThunks(opts Options) *Thunks {
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = time.Hour
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = 7 * 24 * time.Hour
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Tokens == nil {
		opts.Tokens = NewTokenIssuer("")
	}

	t := &Thunks{opts: opts}
	t.Login = store.NewAsyncThunk(TypeLogin, t.login)
	t.Register = store.NewAsyncThunk(TypeRegister, t.register)
	t.Logout = store.NewAsyncThunk(TypeLogout, t.logout)
	t.Refresh = store.NewAsyncThunk(TypeRefresh, t.refresh)
	return t
}

func (t *Thunks) login(ctx context.Context, req dto.LoginRequest, _ store.ThunkAPI) (dto.AuthResponse, error) {
	if err := validation.Validator().Struct(req); err != nil {
		return dto.AuthResponse{}, store.RejectWithValue(MsgCredentialsRequired)
	}
	if t.opts.FailureEmail != "" && strings.EqualFold(req.Email, t.opts.FailureEmail) {
		return dto.AuthResponse{}, store.RejectWithValue(MsgInvalidCredentials)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user := &entity.User{
		Id:    uuid.NewSHA1(uuid.NameSpaceURL, []byte("buildhub:user:"+email)),
		Name:  displayNameFromEmail(email),
		Email: email,
		Role:  entity.UserRoleClient,
	}
	return t.startSession(ctx, user, req.RememberMe)
}

func (t *Thunks) register(ctx context.Context, req dto.RegisterRequest, _ store.ThunkAPI) (dto.AuthResponse, error) {
	if err := validation.Validator().Struct(req); err != nil {
		if validation.HasTag(err, "required") {
			return dto.AuthResponse{}, store.RejectWithValue(MsgRegisterRequired)
		}
		return dto.AuthResponse{}, store.RejectWithValue(registerMessage(err))
	}

	role := req.Role
	if role == "" {
		role = entity.UserRoleClient
	}
	user := &entity.User{
		Id:      uuid.New(),
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Role:    role,
		Company: req.Company,
	}
	return t.startSession(ctx, user, false)
}

func (t *Thunks) logout(ctx context.Context, _ struct{}, _ store.ThunkAPI) (struct{}, error) {
	if err := t.opts.Storage.RemoveItem(ctx, StorageKeys...); err != nil {
		return struct{}{}, fmt.Errorf("clear session storage: %w", err)
	}
	t.log("User logged out", nil)
	return struct{}{}, nil
}

func (t *Thunks) refresh(ctx context.Context, req dto.RefreshRequest, _ store.ThunkAPI) (dto.AuthResponse, error) {
	// A wrong token must not end the session it failed to extend.
	if req.Presented == "" || req.RefreshToken == "" ||
		subtle.ConstantTimeCompare([]byte(req.Presented), []byte(req.RefreshToken)) != 1 {
		return dto.AuthResponse{}, store.RejectWithValue(MsgInvalidRefreshToken)
	}

	now := t.opts.Now()
	if req.User == nil || now.UnixMilli() >= req.RefreshExpiry {
		if err := t.opts.Storage.RemoveItem(ctx, StorageKeys...); err != nil {
			t.warn("Failed to clear expired session", map[string]interface{}{"error": err.Error()})
		}
		return dto.AuthResponse{}, store.RejectWithValue(MsgSessionExpired)
	}

	token, err := t.opts.Tokens.Issue(req.User, now, t.opts.SessionTTL)
	if err != nil {
		return dto.AuthResponse{}, err
	}
	sessionExpiry := now.Add(t.opts.SessionTTL).UnixMilli()
	if err := t.persist(ctx, map[string]string{
		KeyToken:         token,
		KeySessionExpiry: strconv.FormatInt(sessionExpiry, 10),
	}); err != nil {
		return dto.AuthResponse{}, err
	}

	return dto.AuthResponse{
		User:          req.User,
		Token:         token,
		RefreshToken:  req.RefreshToken,
		SessionExpiry: sessionExpiry,
		RefreshExpiry: req.RefreshExpiry,
	}, nil
}

// startSession issues tokens for user and writes them to durable storage.
func (t *Thunks) startSession(ctx context.Context, user *entity.User, rememberMe bool) (dto.AuthResponse, error) {
	now := t.opts.Now()
	token, err := t.opts.Tokens.Issue(user, now, t.opts.SessionTTL)
	if err != nil {
		return dto.AuthResponse{}, err
	}

	resp := dto.AuthResponse{
		User:          user,
		Token:         token,
		RefreshToken:  uuid.NewString(),
		SessionExpiry: now.Add(t.opts.SessionTTL).UnixMilli(),
		RefreshExpiry: now.Add(t.opts.RefreshTTL).UnixMilli(),
		RememberMe:    rememberMe,
	}

	userData, err := json.Marshal(user)
	if err != nil {
		return dto.AuthResponse{}, fmt.Errorf("encode user: %w", err)
	}
	items := map[string]string{
		KeyToken:         resp.Token,
		KeyRefreshToken:  resp.RefreshToken,
		KeySessionExpiry: strconv.FormatInt(resp.SessionExpiry, 10),
		KeyUserData:      string(userData),
	}
	if rememberMe {
		items[KeyRememberMe] = "true"
	} else if err := t.opts.Storage.RemoveItem(ctx, KeyRememberMe); err != nil {
		return dto.AuthResponse{}, fmt.Errorf("clear %s: %w", KeyRememberMe, err)
	}
	if err := t.persist(ctx, items); err != nil {
		return dto.AuthResponse{}, err
	}

	t.log("Session started", map[string]interface{}{"user_id": user.Id.String(), "remember_me": rememberMe})
	return resp, nil
}

func (t *Thunks) persist(ctx context.Context, items map[string]string) error {
	for key, value := range items {
		if err := t.opts.Storage.SetItem(ctx, key, value); err != nil {
			return fmt.Errorf("store %s: %w", key, err)
		}
	}
	return nil
}

func (t *Thunks) log(msg string, details map[string]interface{}) {
	if t.opts.Logger != nil {
		t.opts.Logger.Info("Auth", msg, details)
	}
}

func (t *Thunks) warn(msg string, details map[string]interface{}) {
	if t.opts.Logger != nil {
		t.opts.Logger.Warn("Auth", msg, details)
	}
}

func registerMessage(err error) string {
	for _, fe := range validation.FieldErrors(err) {
		switch {
		case fe.Field == "email":
			return MsgInvalidEmail
		case fe.Field == "password" && fe.Tag == "min":
			return "Password must be at least " + fe.Param + " characters"
		case fe.Field == "name" && fe.Tag == "min":
			return "Name must be at least " + fe.Param + " characters"
		case fe.Field == "role":
			return "Invalid role"
		}
	}
	return err.Error()
}

func displayNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	parts := strings.FieldsFunc(local, func(r rune) bool { return r == '.' || r == '_' || r == '-' })
	for i, p := range parts {
		r, size := utf8.DecodeRuneInString(p)
		parts[i] = string(unicode.ToUpper(r)) + p[size:]
	}
	if len(parts) == 0 {
		return email
	}
	return strings.Join(parts, " ")
}
