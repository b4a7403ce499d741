package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/diulnf/lostfound-api/api"
	"github.com/diulnf/lostfound-api/config"
	"github.com/diulnf/lostfound-api/databases"
	"github.com/diulnf/lostfound-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router   *mux.Router
	Config   config.Config
	Hub      *Hub
	dbHelper databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	api.SetupGoGuardian()
	m := api.MiddlewareDB{ADB: databases.NewAdminDatabase(a.dbHelper)}

	r := mux.NewRouter()

	if a.Hub == nil {
		a.Hub = NewHub()
	}

	lost := LostReport{
		DB:  databases.NewLostReportDatabase(a.dbHelper),
		UDB: databases.NewUserDatabase(a.dbHelper),
		CDB: databases.NewCounterDatabase(a.dbHelper),
	}
	found := FoundReport{
		DB:  databases.NewFoundReportDatabase(a.dbHelper),
		UDB: databases.NewUserDatabase(a.dbHelper),
		CDB: databases.NewCounterDatabase(a.dbHelper),
		Hub: a.Hub,
	}
	dash := Dashboard{
		FDB: databases.NewFoundReportDatabase(a.dbHelper),
		LDB: databases.NewLostReportDatabase(a.dbHelper),
	}
	admin := Admin{ADB: databases.NewAdminDatabase(a.dbHelper)}
	user := User{DB: databases.NewUserDatabase(a.dbHelper)}
	upload := Upload{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()
	apiCreate.Use(api.TimeoutMiddleware(30 * time.Second))

	// public reads
	apiCreate.Handle("/lost-reports/open", http.HandlerFunc(lost.OpenLostReportsHandler)).Methods("GET")
	apiCreate.Handle("/found-reports/reported", found.FoundReportsByStatusHandler(models.FoundStatusReported)).Methods("GET")

	// user routes (external identity bearer token)
	apiCreate.Handle("/lost-reports", api.Middleware(http.HandlerFunc(lost.CreateLostReportHandler))).Methods("POST")
	apiCreate.Handle("/found-reports", api.Middleware(http.HandlerFunc(found.CreateFoundReportHandler))).Methods("POST")
	apiCreate.Handle("/found-reports/{report_id}/claim", api.Middleware(http.HandlerFunc(found.ClaimFoundReportHandler))).Methods("PATCH")
	apiCreate.Handle("/found-reports/stored-for-users", api.Middleware(http.HandlerFunc(found.StoredForUsersHandler))).Methods("GET")
	apiCreate.Handle("/found-reports/search", api.Middleware(http.HandlerFunc(found.SearchFoundReportsHandler))).Methods("GET")
	apiCreate.Handle("/users/me", api.Middleware(http.HandlerFunc(user.MeHandler))).Methods("GET")
	apiCreate.Handle("/users/profile", api.Middleware(http.HandlerFunc(user.UpdateProfileHandler))).Methods("PUT")
	apiCreate.Handle("/uploads/image", api.Middleware(http.HandlerFunc(upload.ImageHandler))).Methods("POST")
	apiCreate.Handle("/uploads/signature", api.Middleware(http.HandlerFunc(upload.SignatureHandler))).Methods("POST")

	// admin routes (roster JWT)
	apiCreate.Handle("/admin/login", http.HandlerFunc(admin.AdminLoginHandler)).Methods("POST")
	apiCreate.Handle("/found-reports/{report_id}/store", m.AdminMiddleware(http.HandlerFunc(found.StoreFoundReportHandler))).Methods("PATCH")
	apiCreate.Handle("/found-reports/{report_id}/handover", m.AdminMiddleware(http.HandlerFunc(found.HandoverFoundReportHandler))).Methods("PATCH")
	apiCreate.Handle("/found-reports/manual-entry", m.AdminMiddleware(http.HandlerFunc(found.ManualEntryHandler))).Methods("POST")
	apiCreate.Handle("/found-reports/stored", m.AdminMiddleware(found.FoundReportsByStatusHandler(models.FoundStatusStored))).Methods("GET")
	apiCreate.Handle("/found-reports/resolved", m.AdminMiddleware(found.FoundReportsByStatusHandler(models.FoundStatusResolved))).Methods("GET")
	apiCreate.Handle("/found-reports/claimed", m.AdminMiddleware(http.HandlerFunc(found.ClaimedFoundReportsHandler))).Methods("GET")
	apiCreate.Handle("/found-reports/details/{id}", m.AdminMiddleware(http.HandlerFunc(found.FoundReportDetailsHandler))).Methods("GET")
	apiCreate.Handle("/admin/dashboard/stats", m.AdminMiddleware(http.HandlerFunc(dash.StatsHandler))).Methods("GET")
	apiCreate.Handle("/admin/dashboard/activity-log", m.AdminMiddleware(http.HandlerFunc(dash.ActivityLogHandler))).Methods("GET")
	apiCreate.Handle("/admin/dashboard/leaderboard", m.AdminMiddleware(http.HandlerFunc(dash.LeaderboardHandler))).Methods("GET")
	apiCreate.Handle("/admin/dashboard/live", m.AdminMiddleware(http.HandlerFunc(a.Hub.ServeWS))).Methods("GET")

	apiCreate.Handle("/admins", m.AdminMiddleware(http.HandlerFunc(admin.CreateAdminHandler))).Methods("POST")
	apiCreate.Handle("/admins", m.AdminMiddleware(http.HandlerFunc(admin.ListAdminsHandler))).Methods("GET")
	apiCreate.Handle("/admins/{email}", m.AdminMiddleware(http.HandlerFunc(admin.AdminByEmailHandler))).Methods("GET")
	apiCreate.Handle("/admins/{email}", m.AdminMiddleware(http.HandlerFunc(admin.UpdateAdminHandler))).Methods("PUT")
	apiCreate.Handle("/admins/{email}", m.AdminMiddleware(http.HandlerFunc(admin.DeleteAdminHandler))).Methods("DELETE")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("lostfound-api has connected to the database")

	if err := databases.EnsureHeadAdmin(a.dbHelper); err != nil {
		zap.S().With(err).Error("failed to bootstrap head admin")
		return err
	}

	// initialize api router
	a.initializeRoutes()
	return nil

}

// DB exposes the database helper for wiring auxiliary services in main
func (a *App) DB() databases.DatabaseHelper {
	return a.dbHelper
}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
