package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"orgstack/internal/db"
	"orgstack/internal/domain"
	"orgstack/internal/session"
)

func TestSessionBinderBindsPerMethod(t *testing.T) {
	writeDB, readDB := db.OpenTestSQLite(t)
	writeProp := session.NewPropagator(writeDB, slog.Default())
	readProp := session.NewPropagator(readDB, slog.Default())

	h := SessionBinder(writeProp, readProp)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := session.FromContext(r.Context())
		require.NoError(t, err)
		assert.Equal(t, "user-1", sess.Identity().ID)

		// The binding is queryable from inside the handler.
		var id string
		err = sess.QueryRowContext(r.Context(), `SELECT identity_id FROM session_identity`).Scan(&id)
		require.NoError(t, err)
		assert.Equal(t, "user-1", id)
		w.WriteHeader(http.StatusOK)
	}))

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		req := httptest.NewRequest(method, "/clusters", nil)
		req = req.WithContext(domain.WithIdentity(req.Context(), domain.Identity{ID: "user-1"}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, method)
	}
}

func TestSessionBinderRequiresIdentity(t *testing.T) {
	writeDB, readDB := db.OpenTestSQLite(t)
	writeProp := session.NewPropagator(writeDB, slog.Default())
	readProp := session.NewPropagator(readDB, slog.Default())

	h := SessionBinder(writeProp, readProp)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without identity")
	}))

	req := httptest.NewRequest(http.MethodGet, "/clusters", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
