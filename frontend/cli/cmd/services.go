package cmd

import (
	"context"
	"errors"

	api "github.com/deepagents/control/api/go/client"
	"github.com/deepagents/control/backend/secret"
	"github.com/deepagents/control/shared"
	"github.com/spf13/afero"
)

type ContextKey string

const (
	ContextKeyAPIClient      ContextKey = "api_client"
	ContextKeyClientFactory  ContextKey = "client_factory"
	ContextKeyFileSystem     ContextKey = "filesystem"
	ContextKeyOutputRenderer ContextKey = "output_renderer"
	ContextKeyUserInfo       ContextKey = "user_info"
	ContextKeyTokenStore     ContextKey = "token_store"
	ContextKeyGlobalOptions  ContextKey = "global_options"
)

// ClientFactory creates an API client for an endpoint context.
type ClientFactory func(endpointContext api.EndpointContext, token string) *api.Client

// TokenStore keeps the access token of each endpoint context.
type TokenStore interface {
	Get(contextName string) (string, error)
	Set(contextName, token string) error
	Delete(contextName string) error
}

type keyringTokenStore struct{}

func (keyringTokenStore) Get(contextName string) (string, error) {
	token, err := secret.GetSecret[string](secret.APIToken(contextName))
	if err != nil {
		return "", err
	}
	return *token, nil
}

func (keyringTokenStore) Set(contextName, token string) error {
	return secret.SetSecret(secret.APIToken(contextName), &token)
}

func (keyringTokenStore) Delete(contextName string) error {
	err := secret.DeleteSecret(secret.APIToken(contextName))
	if errors.Is(err, secret.ErrSecretNotFound) {
		return nil
	}
	return err
}

func getAPIClient(ctx context.Context) *api.Client {
	apiClient := ctx.Value(ContextKeyAPIClient)
	if apiClient != nil {
		return apiClient.(*api.Client)
	}

	return nil
}

func getClientFactory(ctx context.Context) ClientFactory {
	if factory, ok := ctx.Value(ContextKeyClientFactory).(ClientFactory); ok {
		return factory
	}

	return newDefaultClient
}

func getFileSystem(ctx context.Context) *afero.Afero {
	fs := ctx.Value(ContextKeyFileSystem)
	if fs != nil {
		return fs.(*afero.Afero)
	}

	return &afero.Afero{Fs: afero.NewOsFs()}
}

func getUserInfo(ctx context.Context) shared.UserInfo {
	userInfo := ctx.Value(ContextKeyUserInfo)
	if userInfo != nil {
		return userInfo.(shared.UserInfo)
	}

	return shared.NewDefaultUserInfo(getFileSystem(ctx))
}

func getTokenStore(ctx context.Context) TokenStore {
	if store, ok := ctx.Value(ContextKeyTokenStore).(TokenStore); ok {
		return store
	}

	return keyringTokenStore{}
}

func getRenderer(ctx context.Context) OutputRenderer {
	printer := ctx.Value(ContextKeyOutputRenderer)
	if printer != nil {
		return printer.(OutputRenderer)
	}

	return &DefaultRenderer{}
}

func setGlobalOptions(ctx context.Context, options *globalOptions) context.Context {
	return context.WithValue(ctx, ContextKeyGlobalOptions, options)
}

func getGlobalOptions(ctx context.Context) *globalOptions {
	if opts, ok := ctx.Value(ContextKeyGlobalOptions).(*globalOptions); ok {
		return opts
	}
	return &globalOptions{}
}
