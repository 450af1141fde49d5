package routes_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/floracart/floracart/app/models"
	"github.com/floracart/floracart/app/repositories"
	"github.com/floracart/floracart/app/routes"
	"github.com/floracart/floracart/app/services"
	"github.com/floracart/floracart/pkg/crypt"
	"github.com/floracart/floracart/pkg/router"
	"github.com/floracart/floracart/pkg/session"
)

// fakeUserStore is an in-memory services.UserStore enforcing the unique
// email and username indexes.
type fakeUserStore struct {
	mu    sync.Mutex
	users map[string]models.User // keyed by email
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]models.User)}
}

func (s *fakeUserStore) FindByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[email]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Email == user.Email || existing.Username == user.Username {
			return repositories.ErrDuplicateKey
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.Email] = *user
	return nil
}

func (s *fakeUserStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// fakeOrderStore is an in-memory services.OrderStore.
type fakeOrderStore struct {
	mu     sync.Mutex
	orders []models.Order
}

func (s *fakeOrderStore) all() []models.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Order(nil), s.orders...)
}

func (s *fakeOrderStore) Create(_ context.Context, order *models.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	s.orders = append(s.orders, *order)
	return nil
}

func (s *fakeOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.ID == id {
			return order, nil
		}
	}
	return models.Order{}, repositories.ErrNotFound
}

func (s *fakeOrderStore) FindByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Order
	for _, order := range s.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}

// newTestApp builds the full route surface over in-memory stores.
func newTestApp(t *testing.T) (*httptest.Server, *fakeUserStore, *fakeOrderStore) {
	t.Helper()

	users := newFakeUserStore()
	orders := &fakeOrderStore{}

	sealer, err := crypt.NewSealer("test-secret")
	require.NoError(t, err)

	sessions := session.NewManager(session.NewMemoryStore(), sealer, session.DefaultOptions(time.Hour))

	r := router.New()
	r.Use(sessions.Middleware())
	routes.RegisterWeb(r, sessions, services.NewAuthService(users), services.NewOrderService(orders))

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, users, orders
}

// newClient returns an HTTP client that carries cookies but does not
// follow redirects, so tests can assert on Location headers.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, target string, form url.Values) *http.Response {
	t.Helper()
	resp, err := client.Post(target, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	require.NoError(t, err)
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func signup(t *testing.T, client *http.Client, base, email, password string) {
	t.Helper()
	resp := postForm(t, client, base+"/signup", url.Values{"email": {email}, "password": {password}})
	readBody(t, resp)
	require.Equal(t, http.StatusFound, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func TestSignupIssuesSessionAndRedirectsHome(t *testing.T) {
	srv, _, _ := newTestApp(t)
	client := newClient(t)

	signup(t, client, srv.URL, "rose@example.com", "longenough")

	// The session cookie lets the client reach a protected page.
	resp, err := client.Get(srv.URL + "/order-history")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "haven't placed any orders")
}

func TestSignupDuplicateEmail(t *testing.T) {
	srv, _, _ := newTestApp(t)
	signup(t, newClient(t), srv.URL, "rose@example.com", "longenough")

	resp := postForm(t, newClient(t), srv.URL+"/signup",
		url.Values{"email": {"rose@example.com"}, "password": {"different-pass"}})
	body := readBody(t, resp)
	assert.Contains(t, body, "User with this email already exists.")
}

func TestSignupShortPasswordRejected(t *testing.T) {
	srv, users, _ := newTestApp(t)

	resp := postForm(t, newClient(t), srv.URL+"/signup",
		url.Values{"email": {"rose@example.com"}, "password": {"short"}})
	body := readBody(t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "at least 8 characters")
	assert.Zero(t, users.count())
}

func TestLoginWrongPassword(t *testing.T) {
	srv, _, _ := newTestApp(t)
	signup(t, newClient(t), srv.URL, "rose@example.com", "longenough")

	resp := postForm(t, newClient(t), srv.URL+"/login",
		url.Values{"email": {"rose@example.com"}, "password": {"not-the-password"}})
	body := readBody(t, resp)
	assert.Contains(t, body, "Invalid email or password.")
}

func TestLoginUnknownEmailSameMessage(t *testing.T) {
	srv, _, _ := newTestApp(t)

	resp := postForm(t, newClient(t), srv.URL+"/login",
		url.Values{"email": {"nobody@example.com"}, "password": {"whatever"}})
	body := readBody(t, resp)
	assert.Contains(t, body, "Invalid email or password.")
}

func TestProtectedRoutesRedirectAnonymous(t *testing.T) {
	srv, _, _ := newTestApp(t)
	client := newClient(t)

	for _, path := range []string{"/order-history", "/order-success/abc123"} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		readBody(t, resp)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/login", resp.Header.Get("Location"), path)
	}
}

func TestSubmitOrderFlow(t *testing.T) {
	srv, _, store := newTestApp(t)
	client := newClient(t)
	signup(t, client, srv.URL, "rose@example.com", "longenough")

	payload := `{
		"productName": "Dozen Red Roses",
		"productPrice": "24.99",
		"size": "large",
		"deliveryDate": "2026-09-05",
		"deliveryAddress": "1 Petal Lane",
		"cardMessage": "Happy birthday!"
	}`
	resp, err := client.Post(srv.URL+"/submit-order", "application/json", strings.NewReader(payload))
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	var out struct {
		Success     bool   `json:"success"`
		RedirectURL string `json:"redirectUrl"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	assert.True(t, out.Success)

	stored := store.all()
	require.Len(t, stored, 1)
	placed := stored[0]
	assert.Equal(t, 24.99, placed.TotalPrice)
	assert.Equal(t, "Dozen Red Roses", placed.ProductName)
	assert.Contains(t, out.RedirectURL, placed.ID.Hex())

	// The confirmation page is reachable at the returned URL.
	resp, err = client.Get(srv.URL + out.RedirectURL)
	require.NoError(t, err)
	page := readBody(t, resp)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, page, "Dozen Red Roses")
	assert.Contains(t, page, "$24.99")
	assert.Contains(t, page, "Happy birthday!")
}

func TestSubmitOrderValidation(t *testing.T) {
	srv, _, store := newTestApp(t)
	client := newClient(t)
	signup(t, client, srv.URL, "rose@example.com", "longenough")

	resp, err := client.Post(srv.URL+"/submit-order", "application/json",
		strings.NewReader(`{"productPrice": "not-a-number"}`))
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	assert.Contains(t, body, "productName")
	assert.Empty(t, store.all())
}

func TestOrderPageHiddenFromOtherUsers(t *testing.T) {
	srv, _, store := newTestApp(t)

	owner := newClient(t)
	signup(t, owner, srv.URL, "rose@example.com", "longenough")
	resp, err := owner.Post(srv.URL+"/submit-order", "application/json", strings.NewReader(`{
		"productName": "Tulip Bundle",
		"productPrice": "12.50",
		"size": "small",
		"deliveryDate": "2026-09-05",
		"deliveryAddress": "1 Petal Lane"
	}`))
	require.NoError(t, err)
	readBody(t, resp)
	placed := store.all()
	require.Len(t, placed, 1)
	orderID := placed[0].ID.Hex()

	other := newClient(t)
	signup(t, other, srv.URL, "daisy@example.com", "longenough")
	resp, err = other.Get(srv.URL + "/order-success/" + orderID)
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, body, "Order not found.")
}

func TestOrderHistoryNewestFirst(t *testing.T) {
	srv, _, store := newTestApp(t)
	client := newClient(t)
	signup(t, client, srv.URL, "rose@example.com", "longenough")

	for _, name := range []string{"First", "Second", "Third"} {
		resp, err := client.Post(srv.URL+"/submit-order", "application/json", strings.NewReader(`{
			"productName": "`+name+`",
			"productPrice": "10",
			"size": "medium",
			"deliveryDate": "2026-09-05",
			"deliveryAddress": "1 Petal Lane"
		}`))
		require.NoError(t, err)
		readBody(t, resp)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		time.Sleep(2 * time.Millisecond) // distinct OrderDate stamps
	}
	require.Len(t, store.all(), 3)

	resp, err := client.Get(srv.URL + "/order-history")
	require.NoError(t, err)
	body := readBody(t, resp)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	first := strings.Index(body, "Third")
	last := strings.Index(body, "First")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, last)
	assert.Less(t, first, last, "newest order should render first")
}

func TestLogoutEndsSession(t *testing.T) {
	srv, _, _ := newTestApp(t)
	client := newClient(t)
	signup(t, client, srv.URL, "rose@example.com", "longenough")

	resp, err := client.Get(srv.URL + "/logout")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))

	resp, err = client.Get(srv.URL + "/order-history")
	require.NoError(t, err)
	readBody(t, resp)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/login", resp.Header.Get("Location"))
}

func TestLoginPageRedirectsWhenLoggedIn(t *testing.T) {
	srv, _, _ := newTestApp(t)
	client := newClient(t)
	signup(t, client, srv.URL, "rose@example.com", "longenough")

	for _, path := range []string{"/login", "/signup"} {
		resp, err := client.Get(srv.URL + path)
		require.NoError(t, err)
		readBody(t, resp)
		assert.Equal(t, http.StatusFound, resp.StatusCode, path)
		assert.Equal(t, "/", resp.Header.Get("Location"), path)
	}
}

func TestHomePageGreetsUser(t *testing.T) {
	srv, _, _ := newTestApp(t)
	client := newClient(t)

	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, "Log in")

	signup(t, client, srv.URL, "rose@example.com", "longenough")
	resp, err = client.Get(srv.URL + "/")
	require.NoError(t, err)
	body = readBody(t, resp)
	assert.Contains(t, body, "Welcome back, rose.")
}
