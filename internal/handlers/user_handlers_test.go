package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bchaput/rest-shop/internal/hash"
)

func TestCreateUserOmitsDigest(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/users", map[string]any{
		"username": "alice", "password": "secret", "email": "alice@example.com",
	})
	require.NoError(t, env.U.Create(c))
	requireStatus(t, rec, http.StatusCreated)

	body := decode[map[string]any](t, rec)
	require.Equal(t, "alice", body["username"])
	require.Equal(t, "alice@example.com", body["email"])
	require.NotContains(t, body, "password")
	require.NotContains(t, body, "passwordHash")

	// the digest is stored, and it is not the plaintext
	stored, err := env.Store.UserByID(context.Background(), body["id"].(string))
	require.NoError(t, err)
	require.Equal(t, hash.Digest("secret"), stored.PasswordHash)
	require.NotEqual(t, "secret", stored.PasswordHash)
}

func TestCreateUserValidation(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/users", map[string]any{
		"username": "alice", "password": "secret", "email": "not-an-email",
	})
	require.NoError(t, env.U.Create(c))
	requireStatus(t, rec, http.StatusBadRequest)
	require.Contains(t, fieldsOf(t, rec), "email")
}

func TestPatchUserEmailOnly(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")

	rec, c := env.doJSONRequest(http.MethodPatch, "/users/"+u.ID, map[string]any{
		"email": "new@example.com",
	})
	c.SetParamNames("id")
	c.SetParamValues(u.ID)
	require.NoError(t, env.U.Patch(c))
	requireStatus(t, rec, http.StatusOK)

	stored, err := env.Store.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", stored.Email)
	require.Equal(t, "alice", stored.Username)
	require.Equal(t, hash.Digest("secret"), stored.PasswordHash)
}

func TestPatchUserNewPassword(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")

	rec, c := env.doJSONRequest(http.MethodPatch, "/users/"+u.ID, map[string]any{
		"password": "changed",
	})
	c.SetParamNames("id")
	c.SetParamValues(u.ID)
	require.NoError(t, env.U.Patch(c))
	requireStatus(t, rec, http.StatusOK)

	stored, err := env.Store.UserByID(context.Background(), u.ID)
	require.NoError(t, err)
	require.Equal(t, hash.Digest("changed"), stored.PasswordHash)
}

func TestPutUserRequiresAllFields(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")

	rec, c := env.doJSONRequest(http.MethodPut, "/users/"+u.ID, map[string]any{
		"email": "new@example.com",
	})
	c.SetParamNames("id")
	c.SetParamValues(u.ID)
	require.NoError(t, env.U.Put(c))
	requireStatus(t, rec, http.StatusBadRequest)

	fields := fieldsOf(t, rec)
	require.Contains(t, fields, "username")
	require.Contains(t, fields, "password")
}

func TestPatchUserNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPatch, "/users/missing", map[string]any{
		"email": "new@example.com",
	})
	c.SetParamNames("id")
	c.SetParamValues("missing")
	require.NoError(t, env.U.Patch(c))
	requireStatus(t, rec, http.StatusNotFound)
}

func TestListUsersSansPasswords(t *testing.T) {
	env := newTestEnv(t)
	env.seedUser("alice", hash.Digest("secret"), "alice@example.com")
	env.seedUser("bob", hash.Digest("hunter2"), "bob@example.com")

	rec, c := env.doJSONRequest(http.MethodGet, "/users", nil)
	require.NoError(t, env.U.List(c))
	requireStatus(t, rec, http.StatusOK)

	items := decode[[]map[string]any](t, rec)
	require.Len(t, items, 2)
	for _, item := range items {
		require.NotContains(t, item, "password")
		require.NotContains(t, item, "passwordHash")
	}
}

func TestDeleteUser(t *testing.T) {
	env := newTestEnv(t)
	u := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")

	rec, c := env.doJSONRequest(http.MethodDelete, "/users/"+u.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(u.ID)
	require.NoError(t, env.U.Delete(c))
	requireStatus(t, rec, http.StatusOK)

	_, err := env.Store.UserByID(context.Background(), u.ID)
	require.Error(t, err)
}
