package application_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/smartmeeting/internal/application"
	"github.com/example/smartmeeting/internal/testfixtures"
)

func newUserServiceForTest(t *testing.T) (*application.UserService, *testfixtures.MemoryStore) {
	t.Helper()
	store := testfixtures.NewMemoryStore()
	ids := testfixtures.NewIDGenerator("user")
	clock := testfixtures.NewClock(time.Time{})
	return application.NewUserService(store, ids.NextFunc(), clock.NowFunc()), store
}

func TestCreateUserHashesPasswordAndDefaultsRole(t *testing.T) {
	t.Parallel()

	service, store := newUserServiceForTest(t)

	user, err := service.CreateUser(context.Background(), application.UserInput{
		Name:     "Alice Example",
		Email:    "alice@example.com",
		Password: "a long password",
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.Role != application.RoleEmployee {
		t.Fatalf("expected default Employee role, got %q", user.Role)
	}

	creds, err := store.GetUserByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("user not persisted: %v", err)
	}
	if creds.PasswordHash == "a long password" {
		t.Fatal("password stored in plain text")
	}
	if err := application.VerifyPassword(creds.PasswordHash, "a long password"); err != nil {
		t.Fatalf("stored hash does not verify: %v", err)
	}
}

func TestCreateUserValidation(t *testing.T) {
	t.Parallel()

	service, _ := newUserServiceForTest(t)

	cases := []struct {
		name  string
		input application.UserInput
		field string
	}{
		{"missing name", application.UserInput{Email: "a@example.com", Password: "longenough"}, "name"},
		{"missing email", application.UserInput{Name: "A", Password: "longenough"}, "email"},
		{"invalid email", application.UserInput{Name: "A", Email: "not-an-email", Password: "longenough"}, "email"},
		{"short password", application.UserInput{Name: "A", Email: "a@example.com", Password: "short"}, "password"},
		{"unknown role", application.UserInput{Name: "A", Email: "a@example.com", Password: "longenough", Role: "Overlord"}, "role"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := service.CreateUser(context.Background(), tc.input)
			var vErr *application.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := vErr.FieldErrors[tc.field]; !ok {
				t.Fatalf("expected error on field %q, got %v", tc.field, vErr.FieldErrors)
			}
		})
	}
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	t.Parallel()

	service, _ := newUserServiceForTest(t)

	input := application.UserInput{Name: "Bob", Email: "bob@example.com", Password: "longenough"}
	if _, err := service.CreateUser(context.Background(), input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := service.CreateUser(context.Background(), input)
	var vErr *application.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError for duplicate email, got %v", err)
	}
	if _, ok := vErr.FieldErrors["email"]; !ok {
		t.Fatalf("expected email field error, got %v", vErr.FieldErrors)
	}
}

func TestUpdateUserAppliesPartialChanges(t *testing.T) {
	t.Parallel()

	service, store := newUserServiceForTest(t)
	existing := testfixtures.NewUserFixture()
	store.SeedUser(existing.Application(), existing.PasswordHash)

	updated, err := service.UpdateUser(context.Background(), existing.ID, application.UserInput{
		Name: "Renamed",
		Role: "admin",
	})
	if err != nil {
		t.Fatalf("UpdateUser returned error: %v", err)
	}
	if updated.Name != "Renamed" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
	if updated.Role != application.RoleAdmin {
		t.Fatalf("role not canonicalised: %q", updated.Role)
	}
	if updated.Email != existing.Email {
		t.Fatalf("email changed unexpectedly: %q", updated.Email)
	}
}

func TestUserLookupsMissing(t *testing.T) {
	t.Parallel()

	service, _ := newUserServiceForTest(t)

	if _, err := service.GetUser(context.Background(), "missing"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := service.DeleteUser(context.Background(), "missing"); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := service.UpdateUser(context.Background(), "missing", application.UserInput{Name: "X"}); !errors.Is(err, application.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
