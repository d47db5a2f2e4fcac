package echoapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/startupsl/backend/core"
	"github.com/startupsl/backend/core/company"
	"github.com/startupsl/backend/core/interest"
	"github.com/startupsl/backend/core/investor"
	"github.com/startupsl/backend/core/notification"
	"github.com/startupsl/backend/core/permission"
	"github.com/startupsl/backend/core/round"
	"github.com/startupsl/backend/core/stats"
	emailsvc "github.com/startupsl/backend/services/email"
	"github.com/startupsl/backend/storage/cache"
	"github.com/startupsl/backend/storage/database/dummy"
	"github.com/startupsl/backend/testutil"
)

var (
	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}

	admin     = permission.Subject{Role: permission.RoleAdmin, UserID: "admin-1", Email: "admin@startup.sl", Name: "Admin"}
	owner     = permission.Subject{Role: permission.RoleCompany, UserID: "owner-1", Email: "owner-1@startup.sl", Name: "Owner"}
	stranger  = permission.Subject{Role: permission.RoleCompany, UserID: "owner-2", Email: "owner-2@startup.sl", Name: "Stranger"}
	investing = permission.Subject{Role: permission.RoleInvestor, UserID: "inv-1", Email: "inv-1@investor.sl", Name: "Jane Doe"}
)

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

type testEnv struct {
	conf      *core.Config
	srv       *Server
	redis     *miniredis.Miniredis
	compRepo  company.Repository
	invRepo   investor.Repository
	rndRepo   round.Repository
	intRepo   interest.Repository
	notifRepo notification.Repository
}

func setup(t *testing.T) *testEnv {
	conf := core.NewTestConfig()
	logger := testutil.NewLogger(conf)
	emailsvc.ResetSentMessages()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	env := &testEnv{
		conf:      conf,
		redis:     mr,
		compRepo:  dummydb.NewCompanyRepository(db),
		invRepo:   dummydb.NewInvestorRepository(db),
		rndRepo:   dummydb.NewRoundRepository(db),
		intRepo:   dummydb.NewInterestRepository(db),
		notifRepo: dummydb.NewNotificationRepository(db),
	}

	mailSvc := emailsvc.NewConsoleServiceMock(conf, logger)
	notifSvc := notification.NewService(env.notifRepo, mailSvc)
	compSvc := company.NewService(env.compRepo)
	invSvc := investor.NewService(env.invRepo, notifSvc, logger)
	rndSvc := round.NewService(env.rndRepo)
	intSvc := interest.NewService(env.intRepo, invSvc, rndSvc, compSvc, notifSvc, logger)

	env.srv = NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logger,
		MailSvc:         mailSvc,
		CompanySvc:      compSvc,
		InvestorSvc:     invSvc,
		RoundSvc:        rndSvc,
		InterestSvc:     intSvc,
		NotificationSvc: notifSvc,
		StatsSvc:        stats.NewService(compSvc, rndSvc, intSvc, cache.NewRedis(rdb, "test:"), time.Minute, logger),
	})
	return env
}

func (env *testEnv) token(t *testing.T, sub permission.Subject) string {
	token, err := GenerateToken(env.conf, NewClaims(env.conf, sub, time.Hour))
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
}

func (env *testEnv) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	env.srv.ServeHTTP(rec, req)
	return rec
}

func (env *testEnv) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantData != nil {
				assert.JSONEq(t, string(tt.wantData), rec.Body.String())
			}
		})
	}
}

func marshal(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshal() failed: %v", err)
	}
	return data
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode() failed: %v: %s", err, rec.Body.String())
	}
}

// decodePage decodes a paginated response, its results into dst, and returns the total count.
func decodePage(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) int {
	var page struct {
		Count   int             `json:"count"`
		Results json.RawMessage `json:"results"`
	}
	decode(t, rec, &page)
	if err := json.Unmarshal(page.Results, dst); err != nil {
		t.Fatalf("decodePage() failed: %v", err)
	}
	return page.Count
}

func TestServer_home(t *testing.T) {
	env := setup(t)
	rec := env.do(http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Welcome to StartUp-SL API!", rec.Body.String())
}

func TestServer_auth(t *testing.T) {
	env := setup(t)

	expired, err := GenerateToken(env.conf, NewClaims(env.conf, owner, -time.Minute))
	require.NoError(t, err)
	badRole, err := GenerateToken(env.conf, NewClaims(env.conf, permission.Subject{Role: "guest", UserID: "u1"}, time.Hour))
	require.NoError(t, err)
	otherConf := core.NewTestConfig()
	otherConf.Auth.Secret = "another-secret"
	forged, err := GenerateToken(otherConf, NewClaims(otherConf, admin, time.Hour))
	require.NoError(t, err)

	env.run(t, []httpTest{
		{
			name:     "missing token",
			method:   http.MethodGet,
			path:     "/v1/companies",
			wantCode: http.StatusUnauthorized,
			wantData: marshal(t, errMissingToken),
		},
		{
			name:     "expired token",
			method:   http.MethodGet,
			path:     "/v1/companies",
			token:    expired,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "wrong secret",
			method:   http.MethodGet,
			path:     "/v1/companies",
			token:    forged,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "unknown role",
			method:   http.MethodGet,
			path:     "/v1/companies",
			token:    badRole,
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "valid token",
			method:   http.MethodGet,
			path:     "/v1/companies",
			token:    env.token(t, investing),
			wantCode: http.StatusOK,
		},
	})
}

func TestServer_issuerAndAudience(t *testing.T) {
	env := setup(t)
	env.conf.Auth.Issuer = "https://id.startup.sl"
	env.conf.Auth.Audience = "startupsl-api"

	good := env.token(t, owner)

	otherConf := *env.conf
	otherConf.Auth.Audience = "someone-else"
	wrongAudience, err := GenerateToken(&otherConf, NewClaims(&otherConf, owner, time.Hour))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/v1/companies", good).Code)
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/v1/companies", wrongAudience).Code)
}
