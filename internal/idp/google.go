// Package idp verifies federated identity tokens against the external
// provider. Only Google is supported.
package idp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	autherror "github.com/Dev-May/socialMediaApp/internal/errors"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

// Profile is the identity extracted from a verified ID token.
type Profile struct {
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

//go:generate mockgen -destination=../mocks/mock_verifier.go -package=mocks github.com/Dev-May/socialMediaApp/internal/idp Verifier

type Verifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*Profile, error)
}

// GoogleVerifier validates ID tokens against Google's tokeninfo endpoint and
// checks the audience against the configured client id.
type GoogleVerifier struct {
	clientID     string
	tokenInfoURL string
	httpClient   *http.Client
}

func NewGoogleVerifier(clientID string) *GoogleVerifier {
	return &GoogleVerifier{
		clientID:     clientID,
		tokenInfoURL: defaultTokenInfoURL,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// WithEndpoint overrides the tokeninfo URL. Test hook.
func (v *GoogleVerifier) WithEndpoint(u string) *GoogleVerifier {
	v.tokenInfoURL = u
	return v
}

type tokenInfoResponse struct {
	Aud           string `json:"aud"`
	Email         string `json:"email"`
	EmailVerified string `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

func (v *GoogleVerifier) VerifyIDToken(ctx context.Context, idToken string) (*Profile, error) {
	endpoint := v.tokenInfoURL + "?id_token=" + url.QueryEscape(idToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return nil, autherror.ErrInvalidExternalToken
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, autherror.ErrInvalidExternalToken
	}

	var info tokenInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, autherror.ErrInvalidExternalToken
	}

	// A token minted for another application must never authenticate here.
	if info.Aud != v.clientID || info.Email == "" {
		return nil, autherror.ErrInvalidExternalToken
	}

	return &Profile{
		Email:         info.Email,
		EmailVerified: info.EmailVerified == "true",
		Name:          info.Name,
		Picture:       info.Picture,
	}, nil
}
