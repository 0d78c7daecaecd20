package handlers_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"artisanhub/internal/blob"
	"artisanhub/internal/config"
	"artisanhub/internal/http/handlers"
	"artisanhub/internal/repos"
	"artisanhub/internal/sessions"
)

const testStory = "Potters have shaped this form for centuries."

type staticStory string

func (s staticStory) Generate(context.Context, string) string { return string(s) }

type testEnv struct {
	app       *fiber.App
	stores    *repos.Stores
	blobs     blob.Store
	uploadDir string
}

func testConfig() config.Config {
	cfg := config.Default()
	cfg.TemplatesDir = "../../web/templates"
	cfg.StaticDir = "../../web/static"
	cfg.RateLimit = 1000
	cfg.LoginRateLimit = 3
	return cfg
}

func newEnv(t *testing.T, mutate func(*config.Config)) *testEnv {
	t.Helper()
	dir := t.TempDir()
	disk, err := blob.NewDiskStore(dir)
	require.NoError(t, err)
	env := newEnvWithBlobs(t, disk, mutate)
	env.uploadDir = dir
	return env
}

func newEnvWithBlobs(t *testing.T, blobs blob.Store, mutate func(*config.Config)) *testEnv {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(&cfg)
	}
	st := repos.NewMemoryStores()
	sess := sessions.NewManager(time.Hour, false, nil)
	app := handlers.NewApp(cfg, handlers.NewDeps(st, blobs, staticStory(testStory), sess))
	return &testEnv{app: app, stores: st, blobs: blobs}
}

// client is a tiny cookie-keeping browser over app.Test.
type client struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

func (e *testEnv) client(t *testing.T) *client {
	return &client{t: t, app: e.app, cookies: map[string]string{}}
}

func (cl *client) do(req *http.Request) *http.Response {
	cl.t.Helper()
	resp, err := cl.try(req)
	require.NoError(cl.t, err)
	return resp
}

// try sends req and returns transport errors instead of failing the test.
func (cl *client) try(req *http.Request) (*http.Response, error) {
	for k, v := range cl.cookies {
		req.AddCookie(&http.Cookie{Name: k, Value: v})
	}
	resp, err := cl.app.Test(req, -1)
	if err != nil {
		return nil, err
	}
	for _, c := range resp.Cookies() {
		if c.Value == "" || c.MaxAge < 0 || (!c.Expires.IsZero() && c.Expires.Before(time.Now())) {
			delete(cl.cookies, c.Name)
			continue
		}
		cl.cookies[c.Name] = c.Value
	}
	return resp, nil
}

func (cl *client) get(path string) *http.Response {
	cl.t.Helper()
	return cl.do(httptest.NewRequest(http.MethodGet, path, nil))
}

// token fetches a page first when no CSRF cookie has been issued yet.
func (cl *client) token() string {
	cl.t.Helper()
	if cl.cookies["csrf_"] == "" {
		cl.get("/login")
	}
	tok := cl.cookies["csrf_"]
	require.NotEmpty(cl.t, tok, "csrf cookie missing")
	return tok
}

func (cl *client) postForm(path string, vals url.Values) *http.Response {
	cl.t.Helper()
	if vals == nil {
		vals = url.Values{}
	}
	vals.Set("csrf", cl.token())
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return cl.do(req)
}

type part struct {
	name string
	body []byte
}

func (cl *client) postMultipart(path string, fields map[string]string, files map[string]part) *http.Response {
	cl.t.Helper()
	return cl.do(cl.multipartRequest(path, fields, files))
}

func (cl *client) multipartRequest(path string, fields map[string]string, files map[string]part) *http.Request {
	cl.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(cl.t, w.WriteField("csrf", cl.token()))
	for k, v := range fields {
		require.NoError(cl.t, w.WriteField(k, v))
	}
	for field, p := range files {
		fw, err := w.CreateFormFile(field, p.name)
		require.NoError(cl.t, err)
		_, err = fw.Write(p.body)
		require.NoError(cl.t, err)
	}
	require.NoError(cl.t, w.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func body(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func (cl *client) signupArtisan(email string) *http.Response {
	cl.t.Helper()
	return cl.postMultipart("/artisan_signup", map[string]string{
		"name":    "Asha",
		"phone":   "+91 98765 43210",
		"email":   email,
		"address": "12 Potter Lane, Jaipur",
		"skills":  "pottery",
	}, map[string]part{"profile_pic": {"asha.png", []byte("not really a png")}})
}

func (cl *client) signupUser(email, password string) *http.Response {
	cl.t.Helper()
	return cl.postMultipart("/user_signup", map[string]string{
		"name":     "Ben",
		"email":    email,
		"password": password,
	}, map[string]part{"profile_pic": {"ben.jpg", []byte("jpeg-ish")}})
}

func (cl *client) uploadProduct(name string, extra map[string]string, files map[string]part) *http.Response {
	cl.t.Helper()
	fields := map[string]string{"product_name": name, "price": "25"}
	for k, v := range extra {
		fields[k] = v
	}
	if files == nil {
		files = map[string]part{"product_img": {"vase.png", []byte("img")}}
	}
	return cl.postMultipart("/upload_product", fields, files)
}
