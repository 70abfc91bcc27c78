package bangumi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "api.bgm.tv" {
		t.Fatalf("default url = %q, want https://api.bgm.tv", u.String())
	}

	u, err = parseBaseURL("http://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}

	u, err = parseBaseURL("example.com")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, context.Context) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c, err := NewClient(ClientOptions{BaseURL: server.URL, AccessToken: "tok", UserID: 7})
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return c, ctx
}

func TestClient_CollectionSendsTokenAndQuery(t *testing.T) {
	t.Parallel()

	var gotAuth, gotPath string
	var gotQuery url.Values
	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode([]CollectionEntry{{
			SubjectID: 42,
			EpStatus:  5,
			Subject:   Subject{ID: 42, Type: SubjectAnime, Name: "Bebop", EpsCount: 26},
		}})
	})

	entries, err := c.Collection(ctx)
	if err != nil {
		t.Fatalf("Collection returned error: %v", err)
	}
	if len(entries) != 1 || entries[0].Subject.ID != 42 || entries[0].EpStatus != 5 {
		t.Fatalf("entries = %#v, want one entry for subject 42", entries)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q, want Bearer tok", gotAuth)
	}
	if gotPath != "/user/7/collection" {
		t.Fatalf("path = %q, want /user/7/collection", gotPath)
	}
	if gotQuery.Get("cat") != "watching" {
		t.Fatalf("cat = %q, want watching", gotQuery.Get("cat"))
	}
}

func TestClient_CollectionEmptyBody(t *testing.T) {
	t.Parallel()

	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("null"))
	})
	entries, err := c.Collection(ctx)
	if err != nil {
		t.Fatalf("Collection returned error: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %#v, want empty", entries)
	}
}

func TestClient_CollectionDetailNotCollected(t *testing.T) {
	t.Parallel()

	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"request":"/collection/9","code":400,"error":"Nothing found with that ID"}`))
	})
	detail, err := c.CollectionDetail(ctx, 9)
	if err != nil {
		t.Fatalf("CollectionDetail returned error: %v", err)
	}
	if detail != nil {
		t.Fatalf("detail = %#v, want nil", detail)
	}
}

func TestClient_CollectionDetail(t *testing.T) {
	t.Parallel()

	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/collection/9" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"status":{"id":3,"type":"do","name":"在看"},"rating":7,"comment":"nice","tag":["a","b"]}`))
	})
	detail, err := c.CollectionDetail(ctx, 9)
	if err != nil {
		t.Fatalf("CollectionDetail returned error: %v", err)
	}
	if detail == nil || detail.Status.Type != StatusDo || detail.Rating != 7 || len(detail.Tag) != 2 {
		t.Fatalf("detail = %#v, want status do rating 7", detail)
	}
}

func TestClient_UpdateCollectionDetailPostsForm(t *testing.T) {
	t.Parallel()

	var gotForm url.Values
	var gotMethod, gotPath string
	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_ = r.ParseForm()
		gotForm = r.PostForm
		_, _ = w.Write([]byte(`{"status":{"type":"collect"},"rating":10}`))
	})

	detail := &CollectionDetail{Rating: 10, Comment: "神作", Tag: []string{"sf", "jazz"}}
	resp, err := c.UpdateCollectionDetail(ctx, 42, StatusCollect, detail)
	if err != nil {
		t.Fatalf("UpdateCollectionDetail returned error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/collection/42/update" {
		t.Fatalf("request = %s %s, want POST /collection/42/update", gotMethod, gotPath)
	}
	if gotForm.Get("status") != "collect" || gotForm.Get("rating") != "10" || gotForm.Get("comment") != "神作" {
		t.Fatalf("form = %v", gotForm)
	}
	if gotForm.Get("tags") != "sf jazz" {
		t.Fatalf("tags = %q, want space separated", gotForm.Get("tags"))
	}
	if resp.Status.Type != StatusCollect || resp.Rating != 10 {
		t.Fatalf("resp = %#v", resp)
	}
}

func TestClient_UpdateProgress(t *testing.T) {
	t.Parallel()

	var gotForm url.Values
	var gotPath string
	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = r.ParseForm()
		gotForm = r.PostForm
		_, _ = w.Write([]byte(`{"request":"x","code":202,"error":"Accepted"}`))
	})

	ep := 6
	entry := CollectionEntry{Subject: Subject{ID: 42}}
	if err := c.UpdateProgress(ctx, entry, &ep, nil); err != nil {
		t.Fatalf("UpdateProgress returned error: %v", err)
	}
	if gotPath != "/subject/42/update/watched_eps" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotForm.Get("watched_eps") != "6" || gotForm.Has("watched_vols") {
		t.Fatalf("form = %v, want watched_eps=6 only", gotForm)
	}
}

func TestClient_SearchEscapesKeywords(t *testing.T) {
	t.Parallel()

	var gotPath string
	var gotQuery url.Values
	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		_ = json.NewEncoder(w).Encode(SearchResult{Count: 31, List: []Subject{{ID: 1, Name: "攻殻機動隊"}}})
	})

	res, err := c.Search(ctx, "攻殻 機動隊", 10, 20)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if gotPath != "/search/subject/攻殻 機動隊" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotQuery.Get("start") != "20" || gotQuery.Get("max_results") != "10" {
		t.Fatalf("query = %v", gotQuery)
	}
	if res.Count != 31 || len(res.List) != 1 {
		t.Fatalf("result = %#v", res)
	}
}

func TestClient_SearchNoResults(t *testing.T) {
	t.Parallel()

	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":404,"error":"Not Found"}`))
	})
	res, err := c.Search(ctx, "nothing", 10, 0)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if res.Count != 0 || len(res.List) != 0 {
		t.Fatalf("result = %#v, want empty", res)
	}
}

func TestClient_ReturnsAPIError(t *testing.T) {
	t.Parallel()

	c, ctx := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":401,"error":"Unauthorized"}`))
	})
	_, err := c.Subject(ctx, 1)
	if err == nil {
		t.Fatal("Subject returned nil error, want 401")
	}
	if IsNotFound(err) {
		t.Fatalf("401 should not be treated as not found: %v", err)
	}
	apiErr, ok := err.(*APIError)
	if !ok || apiErr.Status != http.StatusUnauthorized || apiErr.Message != "Unauthorized" {
		t.Fatalf("err = %#v, want APIError 401", err)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.Collection(context.Background()); err == nil {
		t.Fatal("expected error from nil client")
	}
}
