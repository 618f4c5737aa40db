package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/tnp/internal/portal/blob"
	"github.com/aussiebroadwan/tnp/internal/portal/service"
	"github.com/aussiebroadwan/tnp/internal/portal/store"
	"github.com/aussiebroadwan/tnp/pkg/httpx"
	"github.com/aussiebroadwan/tnp/pkg/jwtx"
	"github.com/aussiebroadwan/tnp/pkg/portalsdk"
	"github.com/aussiebroadwan/tnp/pkg/slogx"

	_ "github.com/aussiebroadwan/tnp/api/portal" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:generate swag init --generalInfo router.go --dir ./,../../../pkg/portalsdk --output ../../../api/portal --outputTypes go

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	blobs blob.Store

	AuthService         *service.AuthService
	ProvisioningService *service.ProvisioningService
	ProfileService      *service.ProfileService
	MediaService        *service.MediaService

	// AdminToken guards bulk provisioning. Empty disables the route.
	AdminToken string
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	blobs blob.Store,
	logger *slog.Logger,
	cors httpx.CORSConfig,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		blobs:        blobs,
		logger:       logger,
	}

	// Set default middleware chain, outermost first
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recover(),
		httpx.CORS(cors),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerAdmin()
	r.registerStudent()
	r.registerMedia()
	r.registerSystem()

	r.Mux.Handle("/swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			TnP Placement Portal API
//	@version		0.1.0
//	@description	Backend for the Training and Placement portal: student accounts, bulk provisioning,
//	@description	placement profiles and their uploaded documents.
//	@description
//	@description				Access tokens are HS256 signed JWTs issued by /v1/login.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/tnp
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT access token. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	login := &LoginHandler{AuthService: r.AuthService}
	changePassword := httpx.Chain(&ChangePasswordHandler{AuthService: r.AuthService},
		httpx.AuthnMiddleware(r.verifier),
	)

	r.Mux.Handle("POST /v1/login", login)
	r.Mux.Handle("POST /v1/change-password", changePassword)
	r.Mux.Handle("POST /v1/register", &RegisterHandler{AuthService: r.AuthService})

	// Unversioned paths kept for existing frontends
	r.Mux.Handle("POST /login", login)
	r.Mux.Handle("POST /change-password", changePassword)
}

func (r *Router) registerAdmin() {
	// Answers 404 while no admin token is configured
	secured := httpx.Chain(&ProvisionHandler{ProvisioningService: r.ProvisioningService},
		httpx.RequireToken(portalsdk.AdminTokenHeader, r.AdminToken),
	)
	r.Mux.Handle("POST /v1/admin/provision", secured)
}

func (r *Router) registerStudent() {
	upload := &UploadPhotoHandler{MediaService: r.MediaService}
	h := &ProfileHandler{
		ProfileService: r.ProfileService,
		MediaService:   r.MediaService,
	}

	authn := httpx.AuthnMiddleware(r.verifier)

	r.Mux.Handle("POST /v1/student/upload", httpx.Chain(upload, authn))
	r.Mux.Handle("POST /v1/student/profile", httpx.Chain(http.HandlerFunc(h.HandleCreate), authn))
	r.Mux.Handle("GET /v1/student/profile", httpx.Chain(http.HandlerFunc(h.HandleGet), authn))
	r.Mux.Handle("PUT /v1/student/profile", httpx.Chain(http.HandlerFunc(h.HandleUpdate), authn))
}

func (r *Router) registerMedia() {
	// GET also matches HEAD
	r.Mux.Handle("GET /media/{kind}/{filename}", &MediaHandler{MediaService: r.MediaService})
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.Mux.Handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store, r.blobs))
	r.Mux.Handle("GET /v1/hello", HelloHandler())
}
