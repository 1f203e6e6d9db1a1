package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bchaput/rest-shop/internal/events"
	"github.com/bchaput/rest-shop/internal/models"
	"github.com/bchaput/rest-shop/internal/store/gormstore"
	"github.com/bchaput/rest-shop/internal/validation"
)

type captureSink struct {
	ch chan events.Event
}

func (s *captureSink) Name() string { return "capture" }

func (s *captureSink) Deliver(ctx context.Context, ev events.Event) error {
	s.ch <- ev
	return nil
}

type testEnv struct {
	T     *testing.T
	E     *echo.Echo
	Store *gormstore.Store
	Sink  *captureSink

	P *ProductHandler
	U *UserHandler
	O *OrderHandler
	C *CategoryHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	st, err := gormstore.New(db)
	require.NoError(t, err)

	sink := &captureSink{ch: make(chan events.Event, 16)}
	broadcaster := events.NewBroadcaster(slog.Default(), sink)
	t.Cleanup(broadcaster.Close)

	e := echo.New()
	e.Validator = validation.New()

	return &testEnv{
		T:     t,
		E:     e,
		Store: st,
		Sink:  sink,
		P:     &ProductHandler{Store: st, Events: broadcaster},
		U:     &UserHandler{Store: st},
		O:     &OrderHandler{Store: st},
		C:     &CategoryHandler{Store: st},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body any) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

func (env *testEnv) waitEvent() events.Event {
	env.T.Helper()
	select {
	case ev := <-env.Sink.ch:
		return ev
	case <-time.After(2 * time.Second):
		env.T.Fatal("no event published")
		return events.Event{}
	}
}

func (env *testEnv) requireNoEvent() {
	env.T.Helper()
	select {
	case ev := <-env.Sink.ch:
		env.T.Fatalf("unexpected event: %s %s", ev.Op, ev.Resource)
	case <-time.After(100 * time.Millisecond):
	}
}

func (env *testEnv) seedProduct(name, about string, price float64) models.Product {
	env.T.Helper()
	p := models.Product{Name: name, About: about, Price: price}
	require.NoError(env.T, env.Store.CreateProduct(context.Background(), &p))
	return p
}

func (env *testEnv) seedUser(username, digest, email string) models.User {
	env.T.Helper()
	u := models.User{Username: username, PasswordHash: digest, Email: email}
	require.NoError(env.T, env.Store.CreateUser(context.Background(), &u))
	return u
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func fieldsOf(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "validation failed", resp.Error)
	return resp.Fields
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	require.Equal(t, want, rec.Code, "body: %s", rec.Body.String())
}
