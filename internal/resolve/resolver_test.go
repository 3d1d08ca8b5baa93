package resolve

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/autopatch/internal/fetch"
	"github.com/jonathan/autopatch/internal/types"
)

func newClient() *fetch.Client {
	return fetch.NewClient(nil)
}

func TestResolve_FragmentButtonFollowsFormAction(t *testing.T) {
	// The variant page's button is a same-page fragment; the real next hop is
	// the form action. The confirmation page then carries the .apk link.
	mux := http.NewServeMux()
	mux.HandleFunc("/variant/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<a class="downloadButton" href="#download">Download APK</a>
<form action="/confirm" method="get"></form>
</body></html>`)
	})
	mux.HandleFunc("/confirm", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<p>Your download is ready.</p>
<a href="/files/app-arm64.apk?key=abc123">click here</a>
</body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolved := Resolve(context.Background(), newClient(), server.URL+"/variant/")
	require.NotNil(t, resolved)
	assert.Equal(t, server.URL+"/files/app-arm64.apk?key=abc123", resolved.URL)
	assert.Equal(t, types.ContentBinaryPackage, resolved.Kind)
}

func TestResolve_DirectBinaryHop(t *testing.T) {
	// The confirmation hop responds with binary content directly; resolution
	// stops there without parsing.
	mux := http.NewServeMux()
	mux.HandleFunc("/variant/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<a class="downloadButton" href="/direct">Download APK</a>
</body></html>`)
	})
	mux.HandleFunc("/direct", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.android.package-archive")
		w.Write([]byte("binary"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolved := Resolve(context.Background(), newClient(), server.URL+"/variant/")
	require.NotNil(t, resolved)
	assert.Equal(t, server.URL+"/direct", resolved.URL)
	assert.Equal(t, types.ContentBinaryPackage, resolved.Kind)
}

func TestResolve_MetaRefreshFallback(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/variant/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<a class="downloadButton" href="/wait">Download APK</a>
</body></html>`)
	})
	mux.HandleFunc("/wait", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head>
<meta http-equiv="refresh" content="3;url=/files/app2.bin">
</head><body>Starting download...</body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolved := Resolve(context.Background(), newClient(), server.URL+"/variant/")
	require.NotNil(t, resolved)
	assert.Equal(t, server.URL+"/files/app2.bin", resolved.URL)
	assert.Equal(t, types.ContentUnknown, resolved.Kind)
}

func TestResolve_DownloadPHPLink(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/variant/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<a class="downloadButton" href="/confirm">Download APK</a>
</body></html>`)
	})
	mux.HandleFunc("/confirm", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
<a href="/download.php?id=7">start</a>
</body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	resolved := Resolve(context.Background(), newClient(), server.URL+"/variant/")
	require.NotNil(t, resolved)
	assert.Equal(t, server.URL+"/download.php?id=7", resolved.URL)
	assert.Equal(t, types.ContentUnknown, resolved.Kind)
}

func TestResolve_NoActionReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><p>Nothing to see.</p></body></html>`)
	}))
	defer server.Close()

	assert.Nil(t, Resolve(context.Background(), newClient(), server.URL+"/variant/"))
}

func TestResolve_FetchFailureReturnsNil(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	assert.Nil(t, Resolve(context.Background(), newClient(), server.URL+"/variant/"))
}

func TestFindActionNode_Priority(t *testing.T) {
	html := `<html><body>
<a class="btn btn-primary" href="/fallback">Get it</a>
<a class="downloadButton" href="/preferred">Download APK</a>
</body></html>`
	doc, err := fetch.ParseDocument(html, "https://apkcatalog.example/")
	require.NoError(t, err)

	node := findActionNode(doc)
	require.NotNil(t, node)
	href, _ := node.Attr("href")
	assert.Equal(t, "/preferred", href)
}

func TestIsBinaryResponse(t *testing.T) {
	cases := []struct {
		name   string
		result fetch.Result
		binary bool
	}{
		{"package archive", fetch.Result{ContentType: "application/vnd.android.package-archive"}, true},
		{"octet stream", fetch.Result{ContentType: "application/octet-stream"}, true},
		{"disposition", fetch.Result{ContentType: "text/html", ContentDisposition: `attachment; filename="app.apk"`}, true},
		{"url suffix", fetch.Result{ContentType: "text/html", FinalURL: "https://cdn.example/app.apk"}, true},
		{"plain page", fetch.Result{ContentType: "text/html"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.binary, isBinaryResponse(&tc.result))
		})
	}
}
