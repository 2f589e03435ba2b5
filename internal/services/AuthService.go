package services

import (
	"context"
	"errors"
	"journald/internal/models"
	"journald/internal/providers"
	"journald/internal/store"
)

// CredentialSource is one place a username may be known. Verify reports
// known=false when the source has no record of the user, letting the next
// source answer. A known user with a wrong passcode is final.
type CredentialSource interface {
	Name() string
	Verify(ctx context.Context, username, passcode string) (user *models.RosterUser, known bool, err error)
}

// builtinUsers are the accounts compiled into the frontend's login form.
var builtinUsers = map[string]string{
	"user1":  "7hdxq2ma",
	"user2":  "n9q1zw2s",
	"user3":  "fmp38tkv",
	"user4":  "8y2aclm4",
	"user5":  "jd2k09qh",
	"user6":  "v1mw8xg0",
	"user7":  "43sn9vmc",
	"user8":  "e71r2wpq",
	"user9":  "wvjxy1zn",
	"user10": "zhc28qrx",
	"user11": "9kafj4mc",
	"user12": "u8cx92rw",
	"user13": "rm1txe57",
	"user14": "b5gwzm41",
	"user15": "70qnayhc",
	"user16": "hxv9e30b",
	"user17": "1vfx8qrk",
	"user18": "dz48mwy1",
	"user19": "4seu7bxp",
	"user20": "tcgw9e3m",
}

type BuiltinSource struct {
	users map[string]string
}

func NewBuiltinSource() *BuiltinSource {
	return &BuiltinSource{users: builtinUsers}
}

func (b *BuiltinSource) Name() string { return "builtin" }

func (b *BuiltinSource) Knows(username string) bool {
	_, ok := b.users[username]
	return ok
}

func (b *BuiltinSource) Verify(_ context.Context, username, passcode string) (*models.RosterUser, bool, error) {
	want, ok := b.users[username]
	if !ok {
		return nil, false, nil
	}
	if want != passcode {
		return nil, true, models.ErrInvalidCredentials
	}
	return &models.RosterUser{Username: username}, true, nil
}

type LocalSource struct {
	users *LocalUserStore
}

func (l *LocalSource) Name() string { return "local" }

func (l *LocalSource) Verify(_ context.Context, username, passcode string) (*models.RosterUser, bool, error) {
	u, ok := l.users.Get(username)
	if !ok {
		return nil, false, nil
	}
	if u.Passcode != passcode {
		return nil, true, models.ErrInvalidCredentials
	}
	roster := u.Roster()
	return &roster, true, nil
}

// RemoteSource asks the spreadsheet backend, which compares the passcode
// itself and cannot tell an unknown user from a wrong passcode.
type RemoteSource struct {
	store store.EntryStoreInterface
}

func (r *RemoteSource) Name() string { return "remote" }

func (r *RemoteSource) Verify(ctx context.Context, username, passcode string) (*models.RosterUser, bool, error) {
	u, err := r.store.CheckUser(ctx, username, passcode)
	if errors.Is(err, models.ErrInvalidCredentials) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

type AuthServiceInterface interface {
	CheckUser(ctx context.Context, username, passcode string) (*models.RosterUser, error)
}

type AuthService struct {
	sources []CredentialSource
	logger  providers.Logger
}

// CheckUser asks each source in order; the first that knows the user decides.
func (a *AuthService) CheckUser(ctx context.Context, username, passcode string) (*models.RosterUser, error) {
	for _, src := range a.sources {
		user, known, err := src.Verify(ctx, username, passcode)
		if !known && err != nil {
			return nil, err
		}
		if !known {
			continue
		}
		if err != nil {
			a.logger.Debugf(providers.TypePost, "Login rejected for %s by %s source", username, src.Name())
			return nil, err
		}
		a.logger.Debugf(providers.TypePost, "Login accepted for %s by %s source", username, src.Name())
		return user, nil
	}
	return nil, models.ErrInvalidCredentials
}

func NewAuthService(logger providers.Logger, sources ...CredentialSource) *AuthService {
	return &AuthService{sources: sources, logger: logger}
}

// NewDefaultAuthService checks the compiled table, then local registrations,
// then the spreadsheet backend.
func NewDefaultAuthService(builtin *BuiltinSource, local *LocalUserStore, entryStore store.EntryStoreInterface, logger providers.Logger) AuthServiceInterface {
	return NewAuthService(logger,
		builtin,
		&LocalSource{users: local},
		&RemoteSource{store: entryStore},
	)
}
