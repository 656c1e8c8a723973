package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/password"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// RegisterInput is a registration request. Roles lists requested role
// names; names that do not exist are ignored.
type RegisterInput struct {
	Name     string   `json:"name" validate:"required,notblank"`
	Email    string   `json:"email" validate:"required,notblank"`
	Password string   `json:"password" validate:"required,notblank"`
	Roles    []string `json:"roles"`
}

type Authenticator struct {
	store    CredentialStore
	hashers  *password.Set
	log      logging.Logger
	validate *validator.Validate

	// dummyHash and dummySalt are a primary-scheme credential used to spend
	// the verification work when no stored credential applies.
	dummyHash []byte
	dummySalt []byte
}

func NewAuthenticator(store CredentialStore, hashers *password.Set, log logging.Logger) (*Authenticator, error) {
	if log == nil {
		log = logging.Nop{}
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		return nil, err
	}

	plaintext, err := common.MakeRandHexString(16)
	if err != nil {
		return nil, fmt.Errorf("dummy credential: %w", err)
	}
	dummyHash, dummySalt, err := hashers.Primary().Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("dummy credential: %w", err)
	}

	return &Authenticator{
		store:     store,
		hashers:   hashers,
		log:       log.With("module", "authenticator"),
		validate:  v,
		dummyHash: dummyHash,
		dummySalt: dummySalt,
	}, nil
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return f.Name
	}
	return name
}

func (a *Authenticator) validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	fields := make([]common.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := "is invalid"
		switch fe.Tag() {
		case "required", "notblank":
			msg = "is required"
		}
		fields = append(fields, common.FieldError{Field: fe.Field(), Message: msg})
	}
	return &common.ValidationError{Fields: fields}
}

// Register creates a user and links the requested roles in one
// transaction. It returns the new identity with the roles actually
// assigned.
func (a *Authenticator) Register(ctx context.Context, in RegisterInput) (*models.Identity, error) {
	if err := a.validate.StructCtx(ctx, in); err != nil {
		return nil, a.validationError(err)
	}

	hasher := a.hashers.Primary()
	hash, salt, err := hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	user := &models.User{
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   hash,
		PasswordSalt:   salt,
		PasswordScheme: hasher.Scheme(),
	}

	assigned := make([]string, 0, len(in.Roles))

	err = a.store.WithinTx(ctx, func(ctx context.Context, s CredentialStore) error {
		id, err := s.InsertUser(ctx, user)
		if err != nil {
			return err
		}
		user.ID = id

		seen := make(map[string]struct{}, len(in.Roles))
		for _, name := range in.Roles {
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}

			role, err := s.FindRoleByName(ctx, name)
			if errors.Is(err, common.ErrorNotFound) {
				a.log.Debug(ctx, "skipping unknown role", "role", name)
				continue
			}
			if err != nil {
				return err
			}

			if err := s.InsertUserRole(ctx, id, role.ID); err != nil {
				return err
			}
			assigned = append(assigned, role.Name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	sort.Strings(assigned)
	a.log.Info(ctx, "user registered", "user_id", user.ID, "roles", assigned)

	return models.NewIdentity(user, assigned), nil
}

// Login verifies identifier (name or email) and password. Unknown users and
// wrong passwords both yield common.ErrorUnauthorized.
func (a *Authenticator) Login(ctx context.Context, identifier, plaintext string) (*models.Identity, error) {
	primary := a.hashers.Primary()

	user, err := a.store.FindUserByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			primary.Verify(plaintext, a.dummyHash, a.dummySalt)
			a.log.Info(ctx, "login failed")
			return nil, common.ErrorUnauthorized
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	hasher, err := a.hashers.Lookup(user.PasswordScheme)
	if err != nil {
		a.log.Error(ctx, "stored credential has unknown scheme", "user_id", user.ID, "scheme", user.PasswordScheme)
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	// Credentials under another scheme also pay for one primary
	// verification, so they never cost less than an unknown identifier.
	if hasher.Scheme() != primary.Scheme() {
		primary.Verify(plaintext, a.dummyHash, a.dummySalt)
	}

	if !hasher.Verify(plaintext, user.PasswordHash, user.PasswordSalt) {
		a.log.Info(ctx, "login failed")
		return nil, common.ErrorUnauthorized
	}

	roles, err := a.store.ListUserRoleNames(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	a.log.Info(ctx, "login succeeded", "user_id", user.ID)
	return models.NewIdentity(user, roles), nil
}

// IdentityByID returns the current identity of a user, roles included.
func (a *Authenticator) IdentityByID(ctx context.Context, id int64) (*models.Identity, error) {
	user, err := a.store.FindUserByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	roles, err := a.store.ListUserRoleNames(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	return models.NewIdentity(user, roles), nil
}

// AssignableRoles lists the role names a registration may request.
func (a *Authenticator) AssignableRoles(ctx context.Context) ([]string, error) {
	names, err := a.store.ListAssignableRoleNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return names, nil
}
