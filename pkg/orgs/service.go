// Package orgs implements the organization lifecycle: creating an
// organization with its admin and tenant collection, reading it, renaming
// it, deleting it, and authenticating its admin.
package orgs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tendant/simple-orgs/pkg/auth"
	"github.com/tendant/simple-orgs/pkg/domain"
)

// MaxNameLength is the longest organization name accepted, in characters.
const MaxNameLength = 100

// OrganizationStore persists organization records.
type OrganizationStore interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	Update(ctx context.Context, id uuid.UUID, update domain.OrganizationUpdate) (*domain.Organization, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// AdminStore persists admin accounts.
type AdminStore interface {
	Create(ctx context.Context, admin *domain.Admin) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error)
	GetByEmail(ctx context.Context, email string) (*domain.Admin, error)
	Update(ctx context.Context, id uuid.UUID, update domain.AdminUpdate) (*domain.Admin, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CollectionStore manages tenant data collections.
type CollectionStore interface {
	Create(ctx context.Context, name string) error
	Copy(ctx context.Context, from, to string) error
	Drop(ctx context.Context, name string) error
	Exists(ctx context.Context, name string) (bool, error)
}

// Notifier sends optional notices to an organization's admin.
type Notifier interface {
	SendOrganizationCreated(to string, org *domain.Organization) error
	SendOrganizationRenamed(to string, org *domain.Organization, previousName string) error
}

// Config holds the dependencies of a Service.
type Config struct {
	Organizations OrganizationStore
	Admins        AdminStore
	Collections   CollectionStore
	Tokens        *auth.TokenService

	// PasswordPolicy defaults to a minimum length of 6 characters.
	PasswordPolicy *auth.PasswordPolicy

	StrictEmailValidation bool
	BlockDisposableEmail  bool

	// Notifier is optional.
	Notifier Notifier

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Service coordinates the organization, admin, and collection stores.
type Service struct {
	orgs            OrganizationStore
	admins          AdminStore
	collections     CollectionStore
	tokens          *auth.TokenService
	passwordPolicy  *auth.PasswordPolicy
	strictEmail     bool
	blockDisposable bool
	notifier        Notifier
	logger          *slog.Logger
	now             func() time.Time
}

// NewService creates a new organization service.
func NewService(cfg Config) *Service {
	policy := cfg.PasswordPolicy
	if policy == nil {
		policy = &auth.PasswordPolicy{MinLength: 6}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		orgs:            cfg.Organizations,
		admins:          cfg.Admins,
		collections:     cfg.Collections,
		tokens:          cfg.Tokens,
		passwordPolicy:  policy,
		strictEmail:     cfg.StrictEmailValidation,
		blockDisposable: cfg.BlockDisposableEmail,
		notifier:        cfg.Notifier,
		logger:          logger,
		now:             func() time.Time { return time.Now().UTC() },
	}
}

// CreateInput is the input to Create.
type CreateInput struct {
	Name     string
	Email    string
	Password string
}

// Create provisions an organization, its admin, and its tenant collection.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Organization, error) {
	name, slug, err := normalizeName(in.Name)
	if err != nil {
		return nil, err
	}
	email, err := s.normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := s.passwordPolicy.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	if err := s.checkSlugAvailable(ctx, slug, uuid.Nil); err != nil {
		return nil, err
	}
	if err := s.checkEmailAvailable(ctx, email, uuid.Nil); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	collection := domain.CollectionNameFor(slug)
	if err := s.collections.Create(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create collection %s: %w", collection, err)
	}

	now := s.now()
	org := &domain.Organization{
		ID:             uuid.New(),
		Name:           name,
		Slug:           slug,
		CollectionName: collection,
		AdminID:        uuid.New(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	admin := &domain.Admin{
		ID:             org.AdminID,
		Email:          email,
		PasswordHash:   hash,
		OrganizationID: org.ID,
		CreatedAt:      now,
	}

	if err := s.admins.Create(ctx, admin); err != nil {
		s.dropCollection(ctx, collection)
		return nil, err
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		s.deleteAdmin(ctx, admin.ID)
		s.dropCollection(ctx, collection)
		return nil, err
	}

	s.logger.Info("organization created", "org_id", org.ID, "slug", org.Slug, "collection", org.CollectionName)

	if s.notifier != nil {
		if err := s.notifier.SendOrganizationCreated(email, org); err != nil {
			s.logger.Warn("failed to send organization created notice", "org_id", org.ID, "error", err)
		}
	}

	return org, nil
}

// Get returns the organization whose name slugifies to the same slug as name.
func (s *Service) Get(ctx context.Context, name string) (*domain.Organization, error) {
	slug := domain.Slugify(auth.CleanName(name))
	if slug == "" {
		return nil, domain.Errorf(domain.ErrInvalidOrganizationName, "organization name is required")
	}
	return s.orgs.GetBySlug(ctx, slug)
}

// LoginResult is a freshly issued access token.
type LoginResult struct {
	AccessToken string
	TokenType   string
	ExpiresIn   int64
	ExpiresAt   time.Time
}

// Login authenticates an admin and issues an access token bound to the
// admin's organization.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	admin, err := s.admins.GetByEmail(ctx, auth.NormalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if !auth.VerifyPassword(password, admin.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	org, err := s.orgs.GetByID(ctx, admin.OrganizationID)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("admin has no organization", "admin_id", admin.ID, "org_id", admin.OrganizationID)
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.tokens.IssueAccessToken(admin.ID, org.ID, org.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   auth.TokenType,
		ExpiresIn:   int64(s.tokens.AccessTokenTTL().Seconds()),
		ExpiresAt:   expiresAt,
	}, nil
}

// UpdateInput holds the fields to change. Nil or empty fields are left
// untouched.
type UpdateInput struct {
	Name     *string
	Email    *string
	Password *string
}

// Update renames the caller's organization and/or changes its admin's
// credentials. All supplied fields are validated and checked for conflicts
// before anything is changed.
func (s *Service) Update(ctx context.Context, identity *auth.Identity, in UpdateInput) (*domain.Organization, error) {
	org, err := s.orgs.GetByID(ctx, identity.OrgID)
	if err != nil {
		return nil, err
	}

	var rename *domain.OrganizationUpdate
	if supplied(in.Name) {
		name, slug, err := normalizeName(*in.Name)
		if err != nil {
			return nil, err
		}
		if name != org.Name {
			update := domain.OrganizationUpdate{Name: &name}
			if slug != org.Slug {
				if err := s.checkSlugAvailable(ctx, slug, org.ID); err != nil {
					return nil, err
				}
				collection := domain.CollectionNameFor(slug)
				exists, err := s.collections.Exists(ctx, collection)
				if err != nil {
					return nil, err
				}
				if exists {
					return nil, domain.ErrCollectionExists
				}
				update.Slug = &slug
				update.CollectionName = &collection
			}
			rename = &update
		}
	}

	var adminUpdate domain.AdminUpdate
	if supplied(in.Email) {
		email, err := s.normalizeEmail(*in.Email)
		if err != nil {
			return nil, err
		}
		if err := s.checkEmailAvailable(ctx, email, org.AdminID); err != nil {
			return nil, err
		}
		adminUpdate.Email = &email
	}
	if supplied(in.Password) {
		if err := s.passwordPolicy.ValidatePassword(*in.Password); err != nil {
			return nil, err
		}
		hash, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		adminUpdate.PasswordHash = &hash
	}

	if rename == nil && adminUpdate.IsEmpty() {
		return org, nil
	}

	updated := org
	if rename != nil {
		updated, err = s.rename(ctx, org, *rename)
		if err != nil {
			return nil, err
		}
	}

	if !adminUpdate.IsEmpty() {
		if _, err := s.admins.Update(ctx, org.AdminID, adminUpdate); err != nil {
			return nil, err
		}
		if rename == nil {
			// Refresh updated_at on the organization.
			updated, err = s.orgs.Update(ctx, org.ID, domain.OrganizationUpdate{})
			if err != nil {
				return nil, err
			}
		}
	}

	if rename != nil {
		s.notifyRenamed(ctx, updated, org.Name, adminUpdate.Email)
	}

	return updated, nil
}

// rename persists a name change, moving the tenant collection first when
// the slug changes. The old collection is dropped only after the record
// points at the new one.
func (s *Service) rename(ctx context.Context, org *domain.Organization, update domain.OrganizationUpdate) (*domain.Organization, error) {
	if update.CollectionName == nil {
		return s.orgs.Update(ctx, org.ID, update)
	}

	from, to := org.CollectionName, *update.CollectionName
	if err := s.collections.Copy(ctx, from, to); err != nil {
		s.logger.Error("failed to copy collection", "org_id", org.ID, "from", from, "to", to, "error", err)
		return nil, fmt.Errorf("failed to copy collection %s to %s: %v", from, to, err)
	}

	updated, err := s.orgs.Update(ctx, org.ID, update)
	if err != nil {
		s.dropCollection(ctx, to)
		return nil, err
	}

	s.dropCollection(ctx, from)
	s.logger.Info("organization renamed", "org_id", org.ID, "from", from, "to", to)
	return updated, nil
}

// Delete removes the caller's organization. name must match the stored
// organization name exactly.
func (s *Service) Delete(ctx context.Context, identity *auth.Identity, name string) error {
	org, err := s.orgs.GetByID(ctx, identity.OrgID)
	if err != nil {
		return err
	}
	if name != org.Name {
		return domain.ErrOrganizationNameMismatch
	}

	if err := s.orgs.Delete(ctx, org.ID); err != nil {
		return fmt.Errorf("failed to delete organization %s: %v", org.ID, err)
	}
	s.deleteAdmin(ctx, org.AdminID)
	s.dropCollection(ctx, org.CollectionName)

	s.logger.Info("organization deleted", "org_id", org.ID, "slug", org.Slug)
	return nil
}

func normalizeName(raw string) (name, slug string, err error) {
	name = auth.CleanName(raw)
	if name == "" {
		return "", "", domain.Errorf(domain.ErrInvalidOrganizationName, "organization name is required")
	}
	if err := auth.ValidateStringLength("organization name", name, 1, MaxNameLength); err != nil {
		return "", "", err
	}
	slug = domain.Slugify(name)
	if slug == "" {
		return "", "", domain.Errorf(domain.ErrInvalidOrganizationName, "organization name must contain at least one letter or digit")
	}
	if len(domain.CollectionNameFor(slug)) > domain.MaxCollectionNameLength {
		return "", "", domain.Errorf(domain.ErrInvalidOrganizationName, "organization name is too long")
	}
	return name, slug, nil
}

func (s *Service) normalizeEmail(raw string) (string, error) {
	if err := auth.ValidateEmail(raw, s.strictEmail, s.blockDisposable); err != nil {
		return "", err
	}
	return auth.NormalizeEmail(raw), nil
}

// checkSlugAvailable returns domain.ErrOrganizationExists if an organization
// other than self already uses slug.
func (s *Service) checkSlugAvailable(ctx context.Context, slug string, self uuid.UUID) error {
	existing, err := s.orgs.GetBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return domain.ErrOrganizationExists
	}
	return nil
}

// checkEmailAvailable returns domain.ErrAdminEmailExists if an admin other
// than self already uses email.
func (s *Service) checkEmailAvailable(ctx context.Context, email string, self uuid.UUID) error {
	existing, err := s.admins.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return domain.ErrAdminEmailExists
	}
	return nil
}

func (s *Service) notifyRenamed(ctx context.Context, org *domain.Organization, previousName string, newEmail *string) {
	if s.notifier == nil {
		return
	}
	to := ""
	if newEmail != nil {
		to = *newEmail
	} else {
		admin, err := s.admins.GetByID(ctx, org.AdminID)
		if err != nil {
			s.logger.Warn("failed to load admin for rename notice", "org_id", org.ID, "error", err)
			return
		}
		to = admin.Email
	}
	if err := s.notifier.SendOrganizationRenamed(to, org, previousName); err != nil {
		s.logger.Warn("failed to send organization renamed notice", "org_id", org.ID, "error", err)
	}
}

func (s *Service) dropCollection(ctx context.Context, name string) {
	if err := s.collections.Drop(ctx, name); err != nil {
		s.logger.Warn("failed to drop collection", "collection", name, "error", err)
	}
}

func (s *Service) deleteAdmin(ctx context.Context, id uuid.UUID) {
	if err := s.admins.Delete(ctx, id); err != nil {
		s.logger.Warn("failed to delete admin", "admin_id", id, "error", err)
	}
}

func supplied(v *string) bool {
	return v != nil && *v != ""
}
