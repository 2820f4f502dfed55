package shared

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	api "github.com/deepagents/control/api/go/client"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

const contextFile = "context.yaml"

// ContextManager persists the endpoint contexts of the CLI in the user's
// config directory.
type ContextManager struct {
	fs       *afero.Afero
	userInfo UserInfo
}

func NewContextManager(fs *afero.Afero, userInfo UserInfo) *ContextManager {
	return &ContextManager{fs: fs, userInfo: userInfo}
}

func (m *ContextManager) LoadContext() (*api.EndpointContexts, error) {
	configDir, err := m.userInfo.DeepagentsConfigDir()
	if err != nil {
		return nil, err
	}

	endpointContextsFile := filepath.Join(configDir, contextFile)
	exists, err := m.fs.Exists(endpointContextsFile)
	if err != nil {
		return nil, err
	}

	endpointContexts := api.EndpointContexts{}
	if exists {
		content, err := m.fs.ReadFile(endpointContextsFile)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(content, &endpointContexts); err != nil {
			return nil, fmt.Errorf("parse %s: %w", endpointContextsFile, err)
		}
	}
	if endpointContexts.Contexts == nil {
		endpointContexts.Contexts = make(map[string]api.EndpointContext)
	}

	return &endpointContexts, nil
}

// UpsertContext stores context under contextName and reports whether it
// replaced an existing one.
func (m *ContextManager) UpsertContext(contextName string, context api.EndpointContext, setCurrent bool) (bool, error) {
	endpointContexts, err := m.LoadContext()
	if err != nil {
		return false, err
	}

	if err := context.Validate(); err != nil {
		return false, err
	}

	_, exists := endpointContexts.Contexts[contextName]
	endpointContexts.Contexts[contextName] = context

	if setCurrent {
		if err := endpointContexts.SetCurrent(contextName); err != nil {
			return false, err
		}
	}

	return exists, m.saveContext(endpointContexts)
}

func (m *ContextManager) SetCurrentContext(contextName string) error {
	endpointContexts, err := m.LoadContext()
	if err != nil {
		return err
	}

	if err := endpointContexts.SetCurrent(contextName); err != nil {
		return err
	}

	return m.saveContext(endpointContexts)
}

func (m *ContextManager) saveContext(endpointContexts *api.EndpointContexts) error {
	configDir, err := m.userInfo.DeepagentsConfigDir()
	if err != nil {
		return err
	}

	content, err := yaml.Marshal(endpointContexts)
	if err != nil {
		return err
	}

	return m.fs.WriteFile(filepath.Join(configDir, contextFile), content, 0o600)
}

//go:generate mockgen -destination=mocks/user_info_mock.go -package=mocks . UserInfo
type UserInfo interface {
	HomeDir() (string, error)
	DeepagentsConfigDir() (string, error)
	DeepagentsDataDir() (string, error)
}

type DefaultUserInfo struct {
	fs *afero.Afero
}

func NewDefaultUserInfo(fs *afero.Afero) *DefaultUserInfo {
	return &DefaultUserInfo{fs: fs}
}

func (u *DefaultUserInfo) HomeDir() (string, error) {
	return os.UserHomeDir()
}

func (u *DefaultUserInfo) DeepagentsConfigDir() (string, error) {
	configDir := filepath.Join(xdg.ConfigHome, "deepagents")
	if err := u.fs.MkdirAll(configDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return configDir, nil
}

func (u *DefaultUserInfo) DeepagentsDataDir() (string, error) {
	dataDir := filepath.Join(xdg.DataHome, "deepagents")
	if err := u.fs.MkdirAll(dataDir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create data directory: %w", err)
	}
	return dataDir, nil
}

var _ UserInfo = (*DefaultUserInfo)(nil)
