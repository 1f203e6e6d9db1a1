package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bchaput/rest-shop/internal/hash"
	"github.com/bchaput/rest-shop/internal/transport"
)

func TestCreateOrderComputesTotal(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")
	a := env.seedProduct("A", "first", 10)
	b := env.seedProduct("B", "second", 20)

	// the client-supplied total must be ignored
	rec, c := env.doJSONRequest(http.MethodPost, "/orders", map[string]any{
		"userId":     user.ID,
		"productIds": []string{a.ID, b.ID},
		"total":      9000,
	})
	require.NoError(t, env.O.Create(c))
	requireStatus(t, rec, http.StatusCreated)

	got := decode[transport.OrderView](t, rec)
	require.NotEmpty(t, got.ID)
	require.Equal(t, 36.0, got.Total) // (10+20) * 1.2
	require.False(t, got.Payment)
	require.False(t, got.CreatedAt.IsZero())

	// expanded user carries no credentials
	require.NotNil(t, got.User)
	require.Equal(t, "alice", got.User.Username)
	require.Equal(t, "alice@example.com", got.User.Email)

	require.Len(t, got.Products, 2)
}

func TestCreateOrderUnknownRefs(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")
	p := env.seedProduct("A", "first", 10)

	t.Run("unknown user", func(t *testing.T) {
		rec, c := env.doJSONRequest(http.MethodPost, "/orders", map[string]any{
			"userId":     "missing",
			"productIds": []string{p.ID},
		})
		require.NoError(t, env.O.Create(c))
		requireStatus(t, rec, http.StatusBadRequest)
		require.Contains(t, fieldsOf(t, rec), "userId")
	})

	t.Run("unknown product", func(t *testing.T) {
		rec, c := env.doJSONRequest(http.MethodPost, "/orders", map[string]any{
			"userId":     user.ID,
			"productIds": []string{p.ID, "missing"},
		})
		require.NoError(t, env.O.Create(c))
		requireStatus(t, rec, http.StatusBadRequest)
		require.Contains(t, fieldsOf(t, rec), "productIds")
	})

	t.Run("empty productIds", func(t *testing.T) {
		rec, c := env.doJSONRequest(http.MethodPost, "/orders", map[string]any{
			"userId":     user.ID,
			"productIds": []string{},
		})
		require.NoError(t, env.O.Create(c))
		requireStatus(t, rec, http.StatusBadRequest)
	})
}

func createOrder(t *testing.T, env *testEnv, userID string, productIDs []string) transport.OrderView {
	t.Helper()
	rec, c := env.doJSONRequest(http.MethodPost, "/orders", map[string]any{
		"userId":     userID,
		"productIds": productIDs,
	})
	require.NoError(t, env.O.Create(c))
	requireStatus(t, rec, http.StatusCreated)
	return decode[transport.OrderView](t, rec)
}

func TestPutOrderRecomputesFromCurrentPrices(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")
	a := env.seedProduct("A", "first", 10)
	b := env.seedProduct("B", "second", 20)
	order := createOrder(t, env, user.ID, []string{a.ID})

	// price changes between create and update
	_, err := env.Store.UpdateProduct(context.Background(), a.ID, map[string]any{"price": 15.0})
	require.NoError(t, err)

	rec, c := env.doJSONRequest(http.MethodPut, "/orders/"+order.ID, map[string]any{
		"userId":     user.ID,
		"productIds": []string{a.ID, b.ID},
		"payment":    true,
		"total":      1,
	})
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	require.NoError(t, env.O.Put(c))
	requireStatus(t, rec, http.StatusOK)

	got := decode[transport.OrderView](t, rec)
	require.Equal(t, 42.0, got.Total) // (15+20) * 1.2
	require.True(t, got.Payment)
}

func TestPatchOrderPaymentOnly(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")
	a := env.seedProduct("A", "first", 10)
	order := createOrder(t, env, user.ID, []string{a.ID})

	rec, c := env.doJSONRequest(http.MethodPatch, "/orders/"+order.ID, map[string]any{
		"payment": true,
	})
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	require.NoError(t, env.O.Patch(c))
	requireStatus(t, rec, http.StatusOK)

	got := decode[transport.OrderView](t, rec)
	require.True(t, got.Payment)
	require.Equal(t, order.ProductIDs, got.ProductIDs)
	require.Equal(t, 12.0, got.Total)
}

func TestGetOrderExpands(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")
	a := env.seedProduct("A", "first", 10)
	order := createOrder(t, env, user.ID, []string{a.ID})

	rec, c := env.doJSONRequest(http.MethodGet, "/orders/"+order.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	require.NoError(t, env.O.Get(c))
	requireStatus(t, rec, http.StatusOK)

	got := decode[transport.OrderView](t, rec)
	require.NotNil(t, got.User)
	require.Equal(t, user.ID, got.User.ID)
	require.Len(t, got.Products, 1)
	require.Equal(t, "A", got.Products[0].Name)
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")
	a := env.seedProduct("A", "first", 10)
	createOrder(t, env, user.ID, []string{a.ID})
	createOrder(t, env, user.ID, []string{a.ID})

	rec, c := env.doJSONRequest(http.MethodGet, "/orders", nil)
	require.NoError(t, env.O.List(c))
	requireStatus(t, rec, http.StatusOK)
	require.Len(t, decode[[]transport.OrderView](t, rec), 2)
}

func TestDeleteOrder(t *testing.T) {
	env := newTestEnv(t)
	user := env.seedUser("alice", hash.Digest("secret"), "alice@example.com")
	a := env.seedProduct("A", "first", 10)
	order := createOrder(t, env, user.ID, []string{a.ID})

	rec, c := env.doJSONRequest(http.MethodDelete, "/orders/"+order.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	require.NoError(t, env.O.Delete(c))
	requireStatus(t, rec, http.StatusOK)

	rec, c = env.doJSONRequest(http.MethodGet, "/orders/"+order.ID, nil)
	c.SetParamNames("id")
	c.SetParamValues(order.ID)
	require.NoError(t, env.O.Get(c))
	requireStatus(t, rec, http.StatusNotFound)
}
