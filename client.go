package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

const defaultAPITimeout = 10 * time.Second

// loginRequest and friends mirror the wire contract.
type loginRequest struct {
	Identifier string `json:"identifier"`
	Secret     string `json:"secret"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type profileResponse struct {
	User Profile `json:"user"`
}

type apiError struct {
	Message string `json:"message"`
}

// APIClient implements Client over the HTTP/JSON wire contract. A rejected
// request becomes a rich error carrying the server message; a network or
// decode failure becomes a transport error, which the Controller treats
// like an invalid token during verification.
type APIClient struct {
	baseURL string
	http    *http.Client
	logger  Logger
}

var _ Client = (*APIClient)(nil)

// NewAPIClient targets the issuer at baseURL. The underlying http.Client
// carries a default timeout so an undecorated context cannot hang a
// verification forever.
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultAPITimeout},
		logger:  defLogger{},
	}
}

func (c *APIClient) WithHTTPClient(client *http.Client) *APIClient {
	if client != nil {
		c.http = client
	}
	return c
}

func (c *APIClient) WithLogger(logger Logger) *APIClient {
	if logger != nil {
		c.logger = logger
	}
	return c
}

// Login exchanges credentials for a bearer token.
func (c *APIClient) Login(ctx context.Context, identifier, secret string) (string, error) {
	body, err := json.Marshal(loginRequest{Identifier: identifier, Secret: secret})
	if err != nil {
		return "", WrapTransport(err, "failed to encode login request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", bytes.NewReader(body))
	if err != nil {
		return "", WrapTransport(err, "failed to build login request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return "", WrapTransport(err, "login request failed")
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", c.rejectionError(res, TextCodeInvalidCredentials, "invalid credentials")
	}

	var payload loginResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return "", WrapTransport(err, "failed to decode login response")
	}

	if payload.Token == "" {
		return "", WrapTransport(fmt.Errorf("empty token in login response"), "malformed login response")
	}

	return payload.Token, nil
}

// Register submits a new-user payload. Registration never yields a token;
// the caller logs in afterwards.
func (c *APIClient) Register(ctx context.Context, msg RegisterUserMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return WrapTransport(err, "failed to encode register request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/register", bytes.NewReader(body))
	if err != nil {
		return WrapTransport(err, "failed to build register request")
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return WrapTransport(err, "register request failed")
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		code := TextCodeInvalidInput
		if res.StatusCode == http.StatusConflict {
			code = TextCodeDuplicateIdentifier
		}
		return c.rejectionError(res, code, "registration rejected")
	}

	return nil
}

// FetchIdentity resolves a bearer token into the identity it is bound to.
func (c *APIClient) FetchIdentity(ctx context.Context, token string) (Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user/me", nil)
	if err != nil {
		return nil, WrapTransport(err, "failed to build identity request")
	}
	req.Header.Set("Authorization", "Bearer "+token)

	res, err := c.http.Do(req)
	if err != nil {
		return nil, WrapTransport(err, "identity request failed")
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusUnauthorized {
		return nil, ErrInvalidToken
	}

	if res.StatusCode != http.StatusOK {
		return nil, c.rejectionError(res, TextCodeInvalidToken, "identity request rejected")
	}

	var payload profileResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return nil, WrapTransport(err, "failed to decode identity response")
	}

	return payload.User, nil
}

// rejectionError turns a non-2xx response into a rich error carrying the
// server supplied message when one is present.
func (c *APIClient) rejectionError(res *http.Response, textCode, fallback string) error {
	message := fallback

	data, err := io.ReadAll(io.LimitReader(res.Body, 4096))
	if err == nil && len(data) > 0 {
		var payload apiError
		if err := json.Unmarshal(data, &payload); err == nil && payload.Message != "" {
			message = payload.Message
		}
	}

	category := goerrors.CategoryAuth
	switch textCode {
	case TextCodeDuplicateIdentifier:
		category = goerrors.CategoryConflict
	case TextCodeInvalidInput:
		category = goerrors.CategoryValidation
	}

	c.logger.Debug("request rejected", "status", res.StatusCode, "message", message)

	return goerrors.New(message, category).WithTextCode(textCode)
}

// IssuerClient adapts an in-process Issuer into the Client interface, for
// single-binary deployments and tests that skip the wire.
type IssuerClient struct {
	issuer *Issuer
}

var _ Client = (*IssuerClient)(nil)

func NewIssuerClient(issuer *Issuer) *IssuerClient {
	return &IssuerClient{issuer: issuer}
}

func (c *IssuerClient) Login(ctx context.Context, identifier, secret string) (string, error) {
	return c.issuer.Login(ctx, identifier, secret)
}

func (c *IssuerClient) Register(ctx context.Context, msg RegisterUserMessage) error {
	return c.issuer.Register(ctx, msg)
}

func (c *IssuerClient) FetchIdentity(ctx context.Context, token string) (Identity, error) {
	identity, err := c.issuer.ResolveIdentity(ctx, token)
	if err != nil {
		return nil, err
	}
	// hand back the projection, not the store-backed record
	return NewProfile(identity), nil
}
