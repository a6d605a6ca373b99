package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aiuniverse/universe/internal/entity"
	"github.com/aiuniverse/universe/internal/entity/web"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const portal = "http://portal.test"

func ok(data any) httpmock.Responder {
	return httpmock.NewJsonResponderOrPanic(http.StatusOK, map[string]any{
		"success": true,
		"data":    data,
	})
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func setup(t *testing.T) {
	t.Setenv("AIU_PORTAL_URL", portal)
	t.Setenv("AIU_STATE_PATH", filepath.Join(t.TempDir(), "state.json"))
	t.Setenv("AIU_THEME", "")
	t.Setenv("COLORFGBG", "")

	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func TestLoginThenListOwnWorlds(t *testing.T) {
	setup(t)

	user := &web.User{ID: "u1", Email: "me@example.com", Plan: entity.PlanFree}
	httpmock.RegisterResponder(http.MethodPost, portal+"/api/v1/auth/signin", func(req *http.Request) (*http.Response, error) {
		var cred web.PasswordCredential
		if err := json.NewDecoder(req.Body).Decode(&cred); err != nil {
			return nil, err
		}
		assert.Equal(t, "secret", cred.Password)
		return ok(web.SessionData{LoggedIn: true, AccessToken: "tok", User: user})(req)
	})
	httpmock.RegisterResponder(http.MethodGet, portal+"/api/v1/auth/session", func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "Bearer tok", req.Header.Get("Authorization"))
		return ok(web.SessionData{LoggedIn: true, User: user})(req)
	})
	httpmock.RegisterResponderWithQuery(http.MethodGet, portal+"/api/v1/worlds", "mine=true",
		ok([]web.World{{ID: "w1", Slug: "galaxy", Title: "Galaxy", Public: true}}))

	out, err := run(t, "secret\n", "login", "-e", "me@example.com", "--password-stdin")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as me@example.com")

	out, err = run(t, "", "worlds", "list", "--mine")
	require.NoError(t, err)
	assert.Contains(t, out, "galaxy")
	assert.Contains(t, out, "Galaxy")
}

func TestCommandsNeedingUserFailWithoutSession(t *testing.T) {
	setup(t)

	_, err := run(t, "", "worlds", "create", "--title", "Nope")
	assert.ErrorContains(t, err, "not signed in")
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestEventsCreateRejectsBadTimes(t *testing.T) {
	setup(t)

	user := &web.User{ID: "u1"}
	httpmock.RegisterResponder(http.MethodPost, portal+"/api/v1/auth/signin",
		ok(web.SessionData{LoggedIn: true, AccessToken: "tok", User: user}))
	httpmock.RegisterResponder(http.MethodGet, portal+"/api/v1/auth/session",
		ok(web.SessionData{LoggedIn: true, User: user}))

	_, err := run(t, "", "login", "-e", "me@example.com", "-p", "secret")
	require.NoError(t, err)

	_, err = run(t, "", "events", "create", "-w", "w1", "-t", "Jam", "--start", "tomorrow")
	assert.ErrorContains(t, err, "RFC 3339")
}

func TestTheme(t *testing.T) {
	setup(t)

	out, err := run(t, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "system (light)\n", out)

	out, err = run(t, "", "theme", "dark")
	require.NoError(t, err)
	assert.Equal(t, "dark (dark)\n", out)

	out, err = run(t, "", "theme")
	require.NoError(t, err)
	assert.Equal(t, "dark (dark)\n", out)

	_, err = run(t, "", "theme", "sepia")
	assert.Error(t, err)
}
