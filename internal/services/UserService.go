package services

import (
	"context"
	"errors"
	"fmt"
	"journald/internal/models"
	"journald/internal/providers"
	"journald/internal/store"
	"strings"
	"time"
)

type Registration struct {
	Username string
	Password string
	Email    string
	Timezone string
}

type RegisterResult struct {
	User           models.RosterUser
	StoredRemotely bool
}

type UserServiceInterface interface {
	Register(ctx context.Context, reg Registration) (*RegisterResult, error)
	UpdateTimezone(ctx context.Context, username, timezone string) error
}

type UserService struct {
	store   store.EntryStoreInterface
	local   *LocalUserStore
	builtin *BuiltinSource
	logger  providers.Logger
	now     func() time.Time
}

// Register records a new account remotely and in the local store. A remote
// rejection fails the registration; an unreachable remote does not, since
// the local store can authenticate the user on its own.
func (u *UserService) Register(ctx context.Context, reg Registration) (*RegisterResult, error) {
	reg.Username = strings.TrimSpace(reg.Username)
	reg.Email = strings.TrimSpace(reg.Email)

	if u.builtin.Knows(reg.Username) {
		return nil, models.ErrUserExists
	}
	if _, ok := u.local.Get(reg.Username); ok {
		return nil, models.ErrUserExists
	}
	if err := ValidateTimezone(reg.Timezone); err != nil {
		return nil, err
	}

	user := models.RegisteredUser{
		Username:         reg.Username,
		Passcode:         reg.Password,
		Email:            reg.Email,
		Timezone:         reg.Timezone,
		RegistrationDate: u.now().UTC(),
	}

	remote := true
	if err := u.store.Register(ctx, user); err != nil {
		if errors.Is(err, store.ErrRejected) {
			return nil, err
		}
		remote = false
		u.logger.Warnf(providers.TypePost, "Registered %s locally only, entry store unavailable: %s", user.Username, err)
	}

	if err := u.local.Add(user); err != nil {
		return nil, err
	}
	u.logger.Infof(providers.TypePost, "Registered user %s (%s)", user.Username, user.Timezone)

	return &RegisterResult{User: user.Roster(), StoredRemotely: remote}, nil
}

func (u *UserService) UpdateTimezone(ctx context.Context, username, timezone string) error {
	if err := ValidateTimezone(timezone); err != nil {
		return err
	}

	local := u.local.SetTimezone(username, timezone)
	if err := u.store.UpdateTimezone(ctx, username, timezone, u.now().UTC()); err != nil {
		if !local {
			return err
		}
		u.logger.Warnf(providers.TypePost, "Timezone of %s updated locally only: %s", username, err)
	}
	return nil
}

// ValidateTimezone accepts IANA zone names known to the tz database.
func ValidateTimezone(name string) error {
	if strings.TrimSpace(name) == "" || name == "Local" {
		return fmt.Errorf("%w: %q", models.ErrInvalidTimezone, name)
	}
	if _, err := time.LoadLocation(name); err != nil {
		return fmt.Errorf("%w: %q", models.ErrInvalidTimezone, name)
	}
	return nil
}

func NewUserService(entryStore store.EntryStoreInterface, local *LocalUserStore, builtin *BuiltinSource, logger providers.Logger) UserServiceInterface {
	return &UserService{
		store:   entryStore,
		local:   local,
		builtin: builtin,
		logger:  logger,
		now:     time.Now,
	}
}
