package api

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/DOFONSON/beliy-client/session"
	"github.com/pkg/errors"
)

// RegisterRequest carries the fields of the registration form. FirstName
// and LastName are optional.
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// authResponse is the shape shared by the login and register endpoints.
type authResponse struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    *session.User `json:"user"`
}

// Login authenticates with username and password. On success the session
// store holds the new token pair and profile, and every subsequent call is
// decorated with the new credential.
func (c *Client) Login(ctx context.Context, username, password string) (*session.User, error) {
	if err := ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	var resp authResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.postJSON(ctx, "/auth/login/", body, &resp); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] postJSON")
	}

	if resp.Access == "" || resp.User == nil {
		return nil, errors.Wrap(ErrInvalidResponse, "login response missing access token or user")
	}

	if err := c.store.SetSession(resp.Access, resp.Refresh, resp.User); err != nil {
		return nil, errors.Wrap(err, "[Client.Login] store.SetSession")
	}
	return resp.User, nil
}

// Register creates an account. The response shape matches login, so a
// successful registration leaves the user logged in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*session.User, error) {
	if err := ValidateRegistration(req); err != nil {
		return nil, err
	}

	var resp authResponse
	if err := c.postJSON(ctx, "/auth/register/", req, &resp); err != nil {
		return nil, errors.Wrap(err, "[Client.Register] postJSON")
	}

	if resp.Access == "" || resp.User == nil {
		return nil, errors.Wrap(ErrInvalidResponse, "register response missing access token or user")
	}

	if err := c.store.SetSession(resp.Access, resp.Refresh, resp.User); err != nil {
		return nil, errors.Wrap(err, "[Client.Register] store.SetSession")
	}
	return resp.User, nil
}

// Logout clears the session locally. The API has no logout endpoint; the
// access token simply ages out server-side.
func (c *Client) Logout() error {
	if err := c.store.Clear(); err != nil {
		return errors.Wrap(err, "[Client.Logout] store.Clear")
	}
	return nil
}

// CheckSession verifies the stored credential against the who-am-I endpoint
// and refreshes the cached profile. Any failure clears the session: an
// optimistically hydrated token that fails verification must not linger.
func (c *Client) CheckSession(ctx context.Context) (*session.User, error) {
	var resp struct {
		User *session.User `json:"user"`
	}
	if err := c.getJSON(ctx, "/auth/check/", &resp); err != nil {
		if clearErr := c.store.Clear(); clearErr != nil {
			c.log.Warn().Err(clearErr).Msg("failed to clear session")
		}
		return nil, errors.Wrap(err, "[Client.CheckSession] getJSON")
	}
	if resp.User == nil {
		if clearErr := c.store.Clear(); clearErr != nil {
			c.log.Warn().Err(clearErr).Msg("failed to clear session")
		}
		return nil, errors.Wrap(ErrInvalidResponse, "session check returned no user")
	}

	if err := c.store.SetUser(resp.User); err != nil {
		return nil, errors.Wrap(err, "[Client.CheckSession] store.SetUser")
	}
	return resp.User, nil
}

// Profile fetches the full profile of the authenticated user.
func (c *Client) Profile(ctx context.Context) (*session.User, error) {
	var user session.User
	if err := c.getJSON(ctx, "/auth/profile/", &user); err != nil {
		return nil, errors.Wrap(err, "[Client.Profile] getJSON")
	}
	return &user, nil
}

// ProfileUpdate holds the editable profile fields. Nil fields are left
// unchanged server-side. Avatar, when set, is uploaded as a file part named
// after AvatarName.
type ProfileUpdate struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Bio        *string
	AvatarName string
	Avatar     io.Reader
}

// UpdateProfile PATCHes the profile as a multipart form (the avatar is a
// file upload) and refreshes the cached user on success.
func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*session.User, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]*string{
		"first_name": update.FirstName,
		"last_name":  update.LastName,
		"email":      update.Email,
		"bio":        update.Bio,
	}
	for name, value := range fields {
		if value == nil {
			continue
		}
		if err := form.WriteField(name, *value); err != nil {
			return nil, errors.Wrapf(err, "[Client.UpdateProfile] write field %s", name)
		}
	}

	if update.Avatar != nil {
		name := update.AvatarName
		if name == "" {
			name = "avatar"
		}
		part, err := form.CreateFormFile("avatar", name)
		if err != nil {
			return nil, errors.Wrap(err, "[Client.UpdateProfile] create avatar part")
		}
		if _, err := io.Copy(part, update.Avatar); err != nil {
			return nil, errors.Wrap(err, "[Client.UpdateProfile] copy avatar")
		}
	}

	if err := form.Close(); err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateProfile] close form")
	}

	var user session.User
	if err := c.do(ctx, http.MethodPatch, "/auth/profile/", buf.Bytes(), form.FormDataContentType(), &user); err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateProfile] do")
	}

	if err := c.store.SetUser(&user); err != nil {
		return nil, errors.Wrap(err, "[Client.UpdateProfile] store.SetUser")
	}
	return &user, nil
}
