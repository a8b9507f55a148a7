package sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/boxfinder/pkg/boxfinder/clock"
	"github.com/mikepea/boxfinder/pkg/boxfinder/models"
	"github.com/mikepea/boxfinder/pkg/boxfinder/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type emptyDirectory struct{}

func (emptyDirectory) FindBoxesByKeyword(context.Context, string) ([]models.Box, error) {
	return nil, nil
}

func (emptyDirectory) CreateBox(_ context.Context, b *models.Box) (*models.Box, error) {
	return b, nil
}

func (emptyDirectory) CreateMember(_ context.Context, m *models.Member) (*models.Member, error) {
	return m, nil
}

func setupManager(t *testing.T) (*Manager, *clock.Fake) {
	clk := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	tokens, err := NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	m, err := NewManager(Config{
		Factory: func(string) (*workflow.Workflow, error) {
			return workflow.New(workflow.Options{Directory: emptyDirectory{}, Clock: clk})
		},
		Tokens:      tokens,
		Clock:       clk,
		IdleTimeout: 10 * time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(m.Close)
	return m, clk
}

func TestTokenRoundTrip(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour)
	require.NoError(t, err)

	token, err := tokens.Generate("session-1")
	require.NoError(t, err)

	claims, err := tokens.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, issuer, claims.Issuer)
}

func TestTokenRejectsOtherSecret(t *testing.T) {
	a, _ := NewTokens("secret-a", time.Hour)
	b, _ := NewTokens("secret-b", time.Hour)

	token, err := a.Generate("session-1")
	require.NoError(t, err)

	_, err = b.Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = a.Validate(token + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenExpiry(t *testing.T) {
	tokens, _ := NewTokens("secret", time.Minute)
	token, err := tokens.Generate("session-1")
	require.NoError(t, err)

	tokens.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = tokens.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestManagerLifecycle(t *testing.T) {
	m, _ := setupManager(t)

	id, token, err := m.Create()
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, 1, m.Len())

	wf, err := m.Get(id)
	require.NoError(t, err)
	assert.Equal(t, workflow.StepSearch, wf.Step())

	gotID, gotWF, err := m.Authenticate(token)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Same(t, wf, gotWF)

	assert.True(t, m.Delete(id))
	assert.True(t, wf.Disposed())
	assert.False(t, m.Delete(id))

	_, err = m.Get(id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	m, clk := setupManager(t)

	idle, _, err := m.Create()
	require.NoError(t, err)
	clk.Advance(6 * time.Minute)
	active, _, err := m.Create()
	require.NoError(t, err)

	clk.Advance(5 * time.Minute)
	_, err = m.Get(active)
	require.NoError(t, err)

	assert.Equal(t, 1, m.Sweep())
	_, err = m.Get(idle)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = m.Get(active)
	assert.NoError(t, err)
}

func TestRunStopsWithContext(t *testing.T) {
	m, _ := setupManager(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx, time.Millisecond)
		close(done)
	}()
	cancel()
	<-done
}

func TestCloseDisposesAll(t *testing.T) {
	m, _ := setupManager(t)
	id, _, err := m.Create()
	require.NoError(t, err)
	wf, _ := m.Get(id)

	m.Close()
	assert.True(t, wf.Disposed())
	assert.Equal(t, 0, m.Len())

	_, _, err = m.Create()
	assert.ErrorIs(t, err, ErrClosed)
}

type countGauge struct{ value float64 }

func (g *countGauge) Set(v float64) { g.value = v }

func TestActiveGauge(t *testing.T) {
	m, _ := setupManager(t)
	g := &countGauge{}
	m.cfg.Active = g

	id, _, _ := m.Create()
	assert.Equal(t, float64(1), g.value)
	m.Delete(id)
	assert.Equal(t, float64(0), g.value)
}

func setupTestRouter(m *Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/state", Middleware(m), func(c *gin.Context) {
		wf, ok := GetWorkflow(c)
		id, _ := GetSessionID(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.JSON(http.StatusOK, gin.H{"step": wf.Step(), "session_id": id})
	})
	return r
}

func TestMiddleware(t *testing.T) {
	m, _ := setupManager(t)
	router := setupTestRouter(m)
	id, token, err := m.Create()
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"bad format", "Token " + token, http.StatusUnauthorized},
		{"bad token", "Bearer nope", http.StatusUnauthorized},
		{"valid", "Bearer " + token, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest("GET", "/state", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			assert.Equal(t, tt.want, resp.Code, resp.Body.String())
		})
	}

	m.Delete(id)
	req, _ := http.NewRequest("GET", "/state", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
