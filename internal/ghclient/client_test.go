package ghclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/spiffcs/prsweep/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestClient returns a Client talking to a test server that serves mux
// under the GitHub Enterprise /api/v3/ prefix.
func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()

	root := http.NewServeMux()
	root.Handle("/api/v3/", http.StripPrefix("/api/v3", mux))
	srv := httptest.NewServer(root)
	t.Cleanup(srv.Close)

	c, err := NewClient(context.Background(), "test-token", WithBaseURL(srv.URL+"/"), WithTimeout(5*time.Second))
	require.NoError(t, err)
	return c
}

func TestNewClientRequiresToken(t *testing.T) {
	_, err := NewClient(context.Background(), "")
	assert.Error(t, err)
}

func TestReposPaginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/acme/repos", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "all", r.URL.Query().Get("type"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		switch r.URL.Query().Get("page") {
		case "", "1":
			w.Header().Set("Link", fmt.Sprintf(`<http://%s/api/v3/orgs/acme/repos?type=all&page=2>; rel="next"`, r.Host))
			fmt.Fprint(w, `[{"name":"widgets","owner":{"login":"acme"}},{"name":"gadgets"}]`)
		case "2":
			fmt.Fprint(w, `[{"name":"api","owner":{"login":"acme"}}]`)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	})
	c := newTestClient(t, mux)

	var names []string
	for repo, err := range c.Repos(context.Background(), "acme") {
		require.NoError(t, err)
		assert.Equal(t, "acme", repo.Owner)
		names = append(names, repo.Name)
	}

	assert.Equal(t, []string{"widgets", "gadgets", "api"}, names)
}

func TestReposYieldsError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/ghost/repos", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	})
	c := newTestClient(t, mux)

	var errs int
	for _, err := range c.Repos(context.Background(), "ghost") {
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list repositories for ghost")
		errs++
	}
	assert.Equal(t, 1, errs)
}

func TestOpenPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		fmt.Fprint(w, `[
			{"number":12,"title":"Fix bug","html_url":"https://github.com/acme/widgets/pull/12","state":"open",
			 "created_at":"2024-06-12T08:30:00Z","user":{"login":"alice","type":"User"}},
			{"number":13,"title":"Bump deps","html_url":"https://github.com/acme/widgets/pull/13","state":"open",
			 "created_at":"2024-06-01T00:00:00+02:00","user":{"login":"dependabot[bot]","type":"Bot"}},
			{"number":14,"title":"Orphan","state":"open","created_at":"2024-06-02T00:00:00Z"}
		]`)
	})
	c := newTestClient(t, mux)

	repo := model.Repository{Owner: "acme", Name: "widgets"}
	var prs []model.PullRequest
	for pr, err := range c.OpenPullRequests(context.Background(), repo) {
		require.NoError(t, err)
		prs = append(prs, pr)
	}

	require.Len(t, prs, 3)

	assert.Equal(t, 12, prs[0].Number)
	assert.Equal(t, "Fix bug", prs[0].Title)
	assert.Equal(t, repo, prs[0].Repo)
	require.NotNil(t, prs[0].Author)
	assert.Equal(t, "alice", prs[0].Author.Login)
	assert.False(t, prs[0].Author.IsBot())
	assert.Equal(t, time.Date(2024, 6, 12, 8, 30, 0, 0, time.UTC), prs[0].CreatedAt)

	assert.True(t, prs[1].Author.IsBot())
	assert.Equal(t, time.UTC, prs[1].CreatedAt.Location())
	assert.Equal(t, time.Date(2024, 5, 31, 22, 0, 0, 0, time.UTC), prs[1].CreatedAt)

	assert.Nil(t, prs[2].Author)
}

func TestCommits(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/13/commits", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `[
			{"sha":"a1","author":{"login":"bob","type":"User"}},
			{"sha":"a2","author":null},
			{"sha":"a3","author":{"login":"dependabot[bot]","type":"Bot"}}
		]`)
	})
	c := newTestClient(t, mux)

	commits, err := c.Commits(context.Background(), model.Repository{Owner: "acme", Name: "widgets"}, 13)
	require.NoError(t, err)
	require.Len(t, commits, 3)

	assert.Equal(t, "bob", commits[0].Author.Login)
	assert.Nil(t, commits[1].Author)
	assert.True(t, commits[2].Author.IsBot())
}

func TestCreateCommentAndClose(t *testing.T) {
	var gotComment, gotState string

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/issues/12/comments", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body struct {
			Body string `json:"body"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotComment = body.Body
		w.WriteHeader(http.StatusCreated)
		fmt.Fprint(w, `{"id":1}`)
	})
	mux.HandleFunc("/repos/acme/widgets/pulls/12", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body struct {
			State string `json:"state"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotState = body.State
		fmt.Fprint(w, `{"number":12,"state":"closed"}`)
	})
	c := newTestClient(t, mux)

	repo := model.Repository{Owner: "acme", Name: "widgets"}
	require.NoError(t, c.CreateComment(context.Background(), repo, 12, "closing @alice"))
	require.NoError(t, c.ClosePullRequest(context.Background(), repo, 12))

	assert.Equal(t, "closing @alice", gotComment)
	assert.Equal(t, "closed", gotState)
}

func TestClosePullRequestError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/acme/widgets/pulls/12", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"Resource not accessible by integration"}`, http.StatusForbidden)
	})
	c := newTestClient(t, mux)

	err := c.ClosePullRequest(context.Background(), model.Repository{Owner: "acme", Name: "widgets"}, 12)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to close acme/widgets#12")
}
