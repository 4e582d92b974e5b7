package orgs

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/tendant/simple-orgs/pkg/auth"
	"github.com/tendant/simple-orgs/pkg/domain"
	"github.com/tendant/simple-orgs/pkg/repository/memory"
)

type testEnv struct {
	service     *Service
	orgs        *memory.OrganizationStore
	admins      *memory.AdminStore
	collections *memory.CollectionStore
	tokens      *auth.TokenService
	notifier    *recordingNotifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		orgs:        memory.NewOrganizationStore(),
		admins:      memory.NewAdminStore(),
		collections: memory.NewCollectionStore(),
		tokens:      auth.NewTokenService(auth.TokenConfig{Secret: []byte("test-secret-key-at-least-32-characters")}),
		notifier:    &recordingNotifier{},
	}
	env.service = NewService(Config{
		Organizations: env.orgs,
		Admins:        env.admins,
		Collections:   env.collections,
		Tokens:        env.tokens,
		Notifier:      env.notifier,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return env
}

func (env *testEnv) create(t *testing.T, name, email string) *domain.Organization {
	t.Helper()
	org, err := env.service.Create(context.Background(), CreateInput{Name: name, Email: email, Password: "secret123"})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", name, err)
	}
	return org
}

func (env *testEnv) identity(t *testing.T, email string) *auth.Identity {
	t.Helper()
	result, err := env.service.Login(context.Background(), email, "secret123")
	if err != nil {
		t.Fatalf("Login(%q) failed: %v", email, err)
	}
	identity, err := env.tokens.Verify(result.AccessToken)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	return identity
}

type recordingNotifier struct {
	created []string
	renamed []string
}

func (n *recordingNotifier) SendOrganizationCreated(to string, org *domain.Organization) error {
	n.created = append(n.created, to+" "+org.Name)
	return nil
}

func (n *recordingNotifier) SendOrganizationRenamed(to string, org *domain.Organization, previousName string) error {
	n.renamed = append(n.renamed, to+" "+previousName+" -> "+org.Name)
	return nil
}

func strPtr(s string) *string {
	return &s
}

func TestService_CreateThenGet(t *testing.T) {
	tests := []struct {
		name     string
		orgName  string
		lookup   string
		wantName string
		wantSlug string
	}{
		{name: "simple", orgName: "Acme", lookup: "Acme", wantName: "Acme", wantSlug: "acme"},
		{name: "spaces and case", orgName: "  Acme Corp  ", lookup: "acme corp", wantName: "Acme Corp", wantSlug: "acme_corp"},
		{name: "punctuation runs", orgName: "Foo -- Bar!!", lookup: "foo bar", wantName: "Foo -- Bar!!", wantSlug: "foo_bar"},
		{name: "unicode letters collapse", orgName: "Café Über", lookup: "Café Über", wantName: "Café Über", wantSlug: "caf_ber"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			created := env.create(t, tt.orgName, "admin@example.com")

			got, err := env.service.Get(context.Background(), tt.lookup)
			if err != nil {
				t.Fatalf("Get(%q) failed: %v", tt.lookup, err)
			}
			if got.ID != created.ID {
				t.Errorf("ID = %v, want %v", got.ID, created.ID)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Slug != tt.wantSlug {
				t.Errorf("Slug = %q, want %q", got.Slug, tt.wantSlug)
			}
			if got.CollectionName != "org_"+domain.Slugify(tt.orgName) {
				t.Errorf("CollectionName = %q, want %q", got.CollectionName, "org_"+domain.Slugify(tt.orgName))
			}

			exists, err := env.collections.Exists(context.Background(), got.CollectionName)
			if err != nil || !exists {
				t.Errorf("collection %q should exist (err=%v)", got.CollectionName, err)
			}
			docs, err := env.collections.Documents(context.Background(), got.CollectionName)
			if err != nil || len(docs) != 0 {
				t.Errorf("new collection should be empty, got %d docs (err=%v)", len(docs), err)
			}
		})
	}
}

func TestService_CreateStoresNormalizedAdmin(t *testing.T) {
	env := newTestEnv(t)
	org := env.create(t, "Acme", "  Admin@Example.COM ")

	admin, err := env.admins.GetByEmail(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("admin not stored under normalized email: %v", err)
	}
	if admin.ID != org.AdminID {
		t.Errorf("admin ID = %v, want %v", admin.ID, org.AdminID)
	}
	if admin.OrganizationID != org.ID {
		t.Errorf("admin OrganizationID = %v, want %v", admin.OrganizationID, org.ID)
	}
	if admin.PasswordHash == "secret123" || !auth.VerifyPassword("secret123", admin.PasswordHash) {
		t.Error("password should be stored hashed and verifiable")
	}
	if len(env.notifier.created) != 1 {
		t.Errorf("expected one created notice, got %v", env.notifier.created)
	}
}

func TestService_CreateDuplicateName(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Acme Corp", "first@example.com")

	for _, name := range []string{"Acme Corp", "acme-corp", " ACME  CORP "} {
		t.Run(name, func(t *testing.T) {
			_, err := env.service.Create(context.Background(), CreateInput{Name: name, Email: "second@example.com", Password: "secret123"})
			if !errors.Is(err, domain.ErrConflict) {
				t.Fatalf("Create(%q) error = %v, want conflict", name, err)
			}
			if _, err := env.admins.GetByEmail(context.Background(), "second@example.com"); !errors.Is(err, domain.ErrAdminNotFound) {
				t.Errorf("rejected create should not leave an admin behind, got %v", err)
			}
		})
	}
}

func TestService_CreateDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.create(t, "Acme", "admin@example.com")

	_, err := env.service.Create(context.Background(), CreateInput{Name: "Other", Email: "ADMIN@example.com", Password: "secret123"})
	if !errors.Is(err, domain.ErrAdminEmailExists) {
		t.Fatalf("Create error = %v, want ErrAdminEmailExists", err)
	}
	if exists, _ := env.collections.Exists(context.Background(), "org_other"); exists {
		t.Error("rejected create should not leave a collection behind")
	}
	if _, err := env.service.Get(context.Background(), "Other"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("rejected create should not leave an organization behind, got %v", err)
	}
}

func TestService_CreateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input CreateInput
	}{
		{name: "empty name", input: CreateInput{Name: "   ", Email: "a@example.com", Password: "secret123"}},
		{name: "name without letters or digits", input: CreateInput{Name: "!!!", Email: "a@example.com", Password: "secret123"}},
		{name: "name too long", input: CreateInput{Name: longName(MaxNameLength + 1), Email: "a@example.com", Password: "secret123"}},
		{name: "collection name too long", input: CreateInput{Name: longName(61), Email: "a@example.com", Password: "secret123"}},
		{name: "invalid email", input: CreateInput{Name: "Acme", Email: "not-an-email", Password: "secret123"}},
		{name: "short password", input: CreateInput{Name: "Acme", Email: "a@example.com", Password: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.service.Create(context.Background(), tt.input)
			if !errors.Is(err, domain.ErrValidation) {
				t.Errorf("Create() error = %v, want validation error", err)
			}
		})
	}
}

func longName(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = 'x'
	}
	return string(b)
}

type failingOrganizationStore struct {
	*memory.OrganizationStore
}

func (s failingOrganizationStore) Create(ctx context.Context, org *domain.Organization) error {
	return errors.New("insert failed")
}

func TestService_CreateCompensatesOnInsertFailure(t *testing.T) {
	env := newTestEnv(t)
	env.service.orgs = failingOrganizationStore{env.orgs}

	_, err := env.service.Create(context.Background(), CreateInput{Name: "Acme", Email: "admin@example.com", Password: "secret123"})
	if err == nil {
		t.Fatal("Create should fail when the organization insert fails")
	}
	if !errors.Is(domain.Kind(err), domain.ErrInternal) {
		t.Errorf("Kind() = %v, want internal", domain.Kind(err))
	}
	if _, err := env.admins.GetByEmail(context.Background(), "admin@example.com"); !errors.Is(err, domain.ErrAdminNotFound) {
		t.Errorf("admin should be removed after failed create, got %v", err)
	}
	if exists, _ := env.collections.Exists(context.Background(), "org_acme"); exists {
		t.Error("collection should be dropped after failed create")
	}
}

func TestService_Login(t *testing.T) {
	env := newTestEnv(t)
	org := env.create(t, "Acme Corp", "admin@example.com")

	t.Run("correct credentials", func(t *testing.T) {
		result, err := env.service.Login(context.Background(), " Admin@Example.com", "secret123")
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if result.TokenType != "bearer" {
			t.Errorf("TokenType = %q, want bearer", result.TokenType)
		}
		if result.ExpiresIn != int64(auth.DefaultAccessTokenTTL.Seconds()) {
			t.Errorf("ExpiresIn = %d, want %d", result.ExpiresIn, int64(auth.DefaultAccessTokenTTL.Seconds()))
		}

		identity, err := env.tokens.Verify(result.AccessToken)
		if err != nil {
			t.Fatalf("Verify failed: %v", err)
		}
		if identity.OrgID != org.ID {
			t.Errorf("OrgID = %v, want %v", identity.OrgID, org.ID)
		}
		if identity.OrgName != org.Name {
			t.Errorf("OrgName = %q, want %q", identity.OrgName, org.Name)
		}
		if identity.AdminID != org.AdminID {
			t.Errorf("AdminID = %v, want %v", identity.AdminID, org.AdminID)
		}
	})

	failures := []struct {
		name     string
		email    string
		password string
	}{
		{name: "wrong password", email: "admin@example.com", password: "wrong"},
		{name: "unknown email", email: "nobody@example.com", password: "secret123"},
		{name: "empty password", email: "admin@example.com", password: ""},
	}
	for _, tt := range failures {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, domain.ErrInvalidCredentials) {
				t.Errorf("Login() error = %v, want ErrInvalidCredentials", err)
			}
			if !errors.Is(err, domain.ErrUnauthorized) {
				t.Errorf("Login() error = %v, want unauthorized kind", err)
			}
		})
	}

	t.Run("organization missing", func(t *testing.T) {
		if err := env.orgs.Delete(context.Background(), org.ID); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		_, err := env.service.Login(context.Background(), "admin@example.com", "secret123")
		if !errors.Is(err, domain.ErrUnauthorized) {
			t.Errorf("Login() error = %v, want unauthorized", err)
		}
	})
}

func TestService_UpdateRenameMovesCollection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	org := env.create(t, "Acme Corp", "admin@example.com")
	identity := env.identity(t, "admin@example.com")

	payloads := []string{`{"sku":"a"}`, `{"sku":"b"}`, `{"nested":{"k":[1,2,3]}}`}
	for _, p := range payloads {
		if _, err := env.collections.Insert(ctx, org.CollectionName, json.RawMessage(p)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}
	before, err := env.collections.Documents(ctx, org.CollectionName)
	if err != nil {
		t.Fatalf("Documents failed: %v", err)
	}

	updated, err := env.service.Update(ctx, identity, UpdateInput{Name: strPtr("Globex Inc")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Globex Inc" || updated.Slug != "globex_inc" || updated.CollectionName != "org_globex_inc" {
		t.Errorf("unexpected updated org: %+v", updated)
	}
	if updated.ID != org.ID {
		t.Errorf("ID changed on rename: %v != %v", updated.ID, org.ID)
	}
	if updated.UpdatedAt.Before(org.UpdatedAt) {
		t.Error("UpdatedAt went backwards")
	}

	if _, err := env.service.Get(ctx, "Globex Inc"); err != nil {
		t.Errorf("Get(new name) failed: %v", err)
	}
	if _, err := env.service.Get(ctx, "Acme Corp"); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("Get(old name) error = %v, want not found", err)
	}

	after, err := env.collections.Documents(ctx, "org_globex_inc")
	if err != nil {
		t.Fatalf("Documents(new) failed: %v", err)
	}
	if len(after) != len(before) {
		t.Fatalf("got %d documents after rename, want %d", len(after), len(before))
	}
	for i := range before {
		if after[i].ID != before[i].ID || string(after[i].Data) != string(before[i].Data) {
			t.Errorf("document %d differs after rename: %+v vs %+v", i, after[i], before[i])
		}
	}
	if exists, _ := env.collections.Exists(ctx, "org_acme_corp"); exists {
		t.Error("old collection should be dropped after rename")
	}
	if len(env.notifier.renamed) != 1 || env.notifier.renamed[0] != "admin@example.com Acme Corp -> Globex Inc" {
		t.Errorf("unexpected rename notices: %v", env.notifier.renamed)
	}
}

func TestService_UpdateSameSlugKeepsCollection(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	org := env.create(t, "acme corp", "admin@example.com")
	identity := env.identity(t, "admin@example.com")

	updated, err := env.service.Update(ctx, identity, UpdateInput{Name: strPtr("Acme Corp")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != "Acme Corp" {
		t.Errorf("Name = %q, want %q", updated.Name, "Acme Corp")
	}
	if updated.CollectionName != org.CollectionName {
		t.Errorf("CollectionName = %q, want %q", updated.CollectionName, org.CollectionName)
	}
	if exists, _ := env.collections.Exists(ctx, org.CollectionName); !exists {
		t.Error("collection should remain when slug is unchanged")
	}
}

func TestService_UpdateCredentials(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	org := env.create(t, "Acme", "admin@example.com")
	identity := env.identity(t, "admin@example.com")

	updated, err := env.service.Update(ctx, identity, UpdateInput{Email: strPtr("New@Example.com"), Password: strPtr("newsecret")})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.Name != org.Name || updated.CollectionName != org.CollectionName {
		t.Errorf("organization should be unchanged apart from updated_at: %+v", updated)
	}
	if updated.UpdatedAt.Before(org.UpdatedAt) {
		t.Error("UpdatedAt went backwards")
	}

	if _, err := env.service.Login(ctx, "admin@example.com", "secret123"); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("old credentials should fail, got %v", err)
	}
	if _, err := env.service.Login(ctx, "new@example.com", "newsecret"); err != nil {
		t.Errorf("new credentials should work: %v", err)
	}
	if len(env.notifier.renamed) != 0 {
		t.Errorf("credential change should not send a rename notice: %v", env.notifier.renamed)
	}
}

func TestService_UpdateEmpty(t *testing.T) {
	env := newTestEnv(t)
	org := env.create(t, "Acme", "admin@example.com")
	identity := env.identity(t, "admin@example.com")

	got, err := env.service.Update(context.Background(), identity, UpdateInput{})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if *got != *org {
		t.Errorf("empty update changed the organization: %+v vs %+v", got, org)
	}
}

func TestService_CreateCleansName(t *testing.T) {
	env := newTestEnv(t)
	org := env.create(t, "  Acme\n\tCorp  ", "admin@example.com")

	if org.Name != "Acme Corp" || org.Slug != "acme_corp" {
		t.Errorf("Create stored name %q slug %q, want %q %q", org.Name, org.Slug, "Acme Corp", "acme_corp")
	}
	got, err := env.service.Get(context.Background(), "acme   corp")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != org.ID {
		t.Errorf("Get returned %v, want %v", got.ID, org.ID)
	}
}

func TestService_UpdateEmptyFieldsAreIgnored(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	org := env.create(t, "Acme", "admin@example.com")
	identity := env.identity(t, "admin@example.com")

	got, err := env.service.Update(ctx, identity, UpdateInput{
		Name:     strPtr(""),
		Email:    strPtr("new@example.com"),
		Password: strPtr(""),
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if got.Name != org.Name || got.CollectionName != org.CollectionName {
		t.Errorf("empty name should keep the organization as is, got %+v", got)
	}

	// The password is unchanged and the email moved.
	if _, err := env.service.Login(ctx, "new@example.com", "secret123"); err != nil {
		t.Errorf("Login with new email and old password failed: %v", err)
	}
	if _, err := env.service.Login(ctx, "admin@example.com", "secret123"); err == nil {
		t.Error("Login with the old email should fail")
	}
}

func TestService_UpdateConflictsChangeNothing(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.create(t, "Globex", "globex@example.com")
	org := env.create(t, "Acme", "admin@example.com")
	identity := env.identity(t, "admin@example.com")

	tests := []struct {
		name  string
		input UpdateInput
		want  error
	}{
		{name: "name taken", input: UpdateInput{Name: strPtr("GLOBEX"), Password: strPtr("changed123")}, want: domain.ErrOrganizationExists},
		{name: "email taken", input: UpdateInput{Name: strPtr("Initech"), Email: strPtr("globex@example.com")}, want: domain.ErrAdminEmailExists},
		{name: "invalid email", input: UpdateInput{Name: strPtr("Initech"), Email: strPtr("bad")}, want: domain.ErrValidation},
		{name: "weak password", input: UpdateInput{Name: strPtr("Initech"), Password: strPtr("x")}, want: domain.ErrWeakPassword},
		{name: "blank name", input: UpdateInput{Name: strPtr("  ")}, want: domain.ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.service.Update(ctx, identity, tt.input)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Update() error = %v, want %v", err, tt.want)
			}

			got, err := env.orgs.GetByID(ctx, org.ID)
			if err != nil {
				t.Fatalf("GetByID failed: %v", err)
			}
			if *got != *org {
				t.Errorf("organization changed after rejected update: %+v", got)
			}
			if exists, _ := env.collections.Exists(ctx, "org_initech"); exists {
				t.Error("rejected update should not create a collection")
			}
			if _, err := env.service.Login(ctx, "admin@example.com", "secret123"); err != nil {
				t.Errorf("credentials changed after rejected update: %v", err)
			}
		})
	}
}

type failingCollectionStore struct {
	*memory.CollectionStore
}

func (s failingCollectionStore) Copy(ctx context.Context, from, to string) error {
	return domain.ErrCollectionNotFound
}

func TestService_UpdateCopyFailureIsInternal(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	org := env.create(t, "Acme", "admin@example.com")
	identity := env.identity(t, "admin@example.com")
	env.service.collections = failingCollectionStore{env.collections}

	_, err := env.service.Update(ctx, identity, UpdateInput{Name: strPtr("Globex")})
	if err == nil {
		t.Fatal("Update should fail when the collection copy fails")
	}
	if domain.Kind(err) != domain.ErrInternal {
		t.Errorf("Kind() = %v, want internal", domain.Kind(err))
	}

	got, err := env.orgs.GetByID(ctx, org.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Name != "Acme" || got.CollectionName != "org_acme" {
		t.Errorf("organization changed after failed copy: %+v", got)
	}
	if exists, _ := env.collections.Exists(ctx, "org_acme"); !exists {
		t.Error("old collection should survive a failed copy")
	}
}

func TestService_UpdateMissingOrganization(t *testing.T) {
	env := newTestEnv(t)
	identity := &auth.Identity{AdminID: uuid.New(), OrgID: uuid.New()}

	_, err := env.service.Update(context.Background(), identity, UpdateInput{Name: strPtr("Acme")})
	if !errors.Is(err, domain.ErrOrganizationNotFound) {
		t.Errorf("Update() error = %v, want ErrOrganizationNotFound", err)
	}
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("mismatched name is forbidden and changes nothing", func(t *testing.T) {
		env := newTestEnv(t)
		org := env.create(t, "Acme Corp", "admin@example.com")
		identity := env.identity(t, "admin@example.com")

		for _, name := range []string{"Globex", "acme corp", "Acme Corp ", ""} {
			err := env.service.Delete(ctx, identity, name)
			if !errors.Is(err, domain.ErrForbidden) {
				t.Errorf("Delete(%q) error = %v, want forbidden", name, err)
			}
		}

		if _, err := env.orgs.GetByID(ctx, org.ID); err != nil {
			t.Errorf("organization should remain: %v", err)
		}
		if _, err := env.admins.GetByID(ctx, org.AdminID); err != nil {
			t.Errorf("admin should remain: %v", err)
		}
		if exists, _ := env.collections.Exists(ctx, org.CollectionName); !exists {
			t.Error("collection should remain")
		}
	})

	t.Run("token for another organization is forbidden", func(t *testing.T) {
		env := newTestEnv(t)
		env.create(t, "Acme", "acme@example.com")
		globex := env.create(t, "Globex", "globex@example.com")
		identity := env.identity(t, "acme@example.com")

		if err := env.service.Delete(ctx, identity, "Globex"); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Delete() error = %v, want forbidden", err)
		}
		if _, err := env.orgs.GetByID(ctx, globex.ID); err != nil {
			t.Errorf("other organization should remain: %v", err)
		}
	})

	t.Run("matching name removes everything", func(t *testing.T) {
		env := newTestEnv(t)
		org := env.create(t, "Acme Corp", "admin@example.com")
		identity := env.identity(t, "admin@example.com")

		if err := env.service.Delete(ctx, identity, "Acme Corp"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := env.service.Get(ctx, "Acme Corp"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("Get after delete error = %v, want not found", err)
		}
		if _, err := env.admins.GetByID(ctx, org.AdminID); !errors.Is(err, domain.ErrAdminNotFound) {
			t.Errorf("admin should be removed, got %v", err)
		}
		if exists, _ := env.collections.Exists(ctx, org.CollectionName); exists {
			t.Error("collection should be dropped")
		}

		if err := env.service.Delete(ctx, identity, "Acme Corp"); !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("second Delete error = %v, want not found", err)
		}

		// The name can be reused once deleted.
		env.create(t, "Acme Corp", "admin@example.com")
	})
}

func TestService_GetValidation(t *testing.T) {
	env := newTestEnv(t)
	if _, err := env.service.Get(context.Background(), "  "); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("Get(blank) error = %v, want validation error", err)
	}
	if _, err := env.service.Get(context.Background(), "Missing"); !errors.Is(err, domain.ErrOrganizationNotFound) {
		t.Errorf("Get(missing) error = %v, want not found", err)
	}
}

func TestService_ExpiredTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	org := env.create(t, "Acme", "admin@example.com")

	token, _, err := env.tokens.Issue(org.AdminID, org.ID, org.Name, 0)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if _, err := env.tokens.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Errorf("Verify() error = %v, want unauthorized", err)
	}
}

func TestService_DropTwiceIsNotAnError(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	org := env.create(t, "Acme", "admin@example.com")

	if err := env.collections.Drop(ctx, org.CollectionName); err != nil {
		t.Fatalf("first Drop failed: %v", err)
	}
	if err := env.collections.Drop(ctx, org.CollectionName); err != nil {
		t.Errorf("second Drop failed: %v", err)
	}
}
