package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gymledger/gymledger/internal/auth"
	"github.com/gymledger/gymledger/internal/handler"
	"github.com/gymledger/gymledger/internal/middleware"
	"github.com/gymledger/gymledger/internal/store"
	ws "github.com/gymledger/gymledger/internal/websocket"
)

type Server struct {
	db          *sql.DB
	hub         *ws.Hub
	tokens      *auth.TokenManager
	authH       *handler.AuthHandler
	memberH     *handler.MemberHandler
	attendanceH *handler.AttendanceHandler
	rewardH     *handler.RewardHandler
	voucherH    *handler.VoucherHandler
	membershipH *handler.MembershipHandler
	paymentH    *handler.PaymentHandler
	equipmentH  *handler.EquipmentHandler
	sessionH    *handler.ClassSessionHandler
	accessLogH  *handler.AccessLogHandler
	rateLimiter *middleware.RateLimiter
	logger      *slog.Logger
}

func New(db *sql.DB, tokens *auth.TokenManager, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	memberStore := store.NewMemberStore(db)
	attendanceStore := store.NewAttendanceStore(db)
	rewardStore := store.NewRewardStore(db)
	voucherStore := store.NewVoucherStore(db)
	membershipStore := store.NewMembershipStore(db)
	paymentStore := store.NewPaymentStore(db)
	equipmentStore := store.NewEquipmentStore(db)
	sessionStore := store.NewClassSessionStore(db)
	accessLogStore := store.NewAccessLogStore(db)

	return &Server{
		db:          db,
		hub:         hub,
		tokens:      tokens,
		authH:       handler.NewAuthHandler(memberStore, tokens, logger.With("component", "auth")),
		memberH:     handler.NewMemberHandler(memberStore, logger.With("component", "member")),
		attendanceH: handler.NewAttendanceHandler(attendanceStore, accessLogStore, hub, logger.With("component", "attendance")),
		rewardH:     handler.NewRewardHandler(rewardStore, accessLogStore, hub, logger.With("component", "reward")),
		voucherH:    handler.NewVoucherHandler(voucherStore, accessLogStore, hub, logger.With("component", "voucher")),
		membershipH: handler.NewMembershipHandler(membershipStore, logger.With("component", "membership")),
		paymentH:    handler.NewPaymentHandler(paymentStore, logger.With("component", "payment")),
		equipmentH:  handler.NewEquipmentHandler(equipmentStore, logger.With("component", "equipment")),
		sessionH:    handler.NewClassSessionHandler(sessionStore, logger.With("component", "class_session")),
		accessLogH:  handler.NewAccessLogHandler(accessLogStore, logger.With("component", "access_log")),
		rateLimiter: middleware.NewRateLimiter(),
		logger:      logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes (no auth required)
	outerMux.HandleFunc("POST /auth/register", s.rateLimitedHandler(s.authH.Register))
	outerMux.HandleFunc("POST /auth/login", s.rateLimitedHandler(s.authH.Login))
	outerMux.HandleFunc("GET /health", s.healthHandler)

	// Protected routes — wrapped with RequireAuth middleware
	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)

	authMiddleware := middleware.RequireAuth(s.tokens)
	outerMux.Handle("/", authMiddleware(protectedMux))

	// Apply request logging middleware
	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	// Attendance
	mux.HandleFunc("POST /attendance/checkin", s.attendanceH.CheckIn)
	mux.HandleFunc("PUT /attendance/checkout", s.attendanceH.CheckOut)
	mux.HandleFunc("GET /attendance", s.attendanceH.List)

	// Reward points
	mux.HandleFunc("GET /rewards/load", s.rewardH.Load)
	mux.HandleFunc("POST /rewards/convert-attendance", s.rewardH.ConvertAttendance)
	mux.HandleFunc("POST /rewards/redeem-voucher", s.rewardH.RedeemVoucher)

	// Voucher usage (any member)
	mux.HandleFunc("PUT /vouchers/use", s.voucherH.Use)

	// Member self-service
	mux.HandleFunc("GET /memberships/mine", s.membershipH.Mine)
	mux.HandleFunc("GET /payments/mine", s.paymentH.Mine)

	// Admin-only management routes
	admin := func(h http.HandlerFunc) http.Handler {
		return middleware.RequireAdmin(h)
	}

	mux.Handle("GET /members", admin(s.memberH.List))
	mux.Handle("GET /members/{id}", admin(s.memberH.Get))
	mux.Handle("PUT /members/{id}", admin(s.memberH.Update))
	mux.Handle("DELETE /members/{id}", admin(s.memberH.Deactivate))

	mux.Handle("POST /vouchers", admin(s.voucherH.Create))
	mux.Handle("GET /vouchers", admin(s.voucherH.List))
	mux.Handle("PUT /vouchers/{id}", admin(s.voucherH.Update))
	mux.Handle("DELETE /vouchers/{id}", admin(s.voucherH.Deactivate))
	mux.Handle("POST /vouchers/reset-use", admin(s.voucherH.ResetUse))

	mux.Handle("POST /memberships", admin(s.membershipH.Create))
	mux.Handle("GET /memberships", admin(s.membershipH.List))
	mux.Handle("PUT /memberships/{id}", admin(s.membershipH.Update))

	mux.Handle("POST /payments", admin(s.paymentH.Create))
	mux.Handle("GET /payments", admin(s.paymentH.List))

	mux.Handle("POST /equipment", admin(s.equipmentH.Create))
	mux.HandleFunc("GET /equipment", s.equipmentH.List)
	mux.Handle("PUT /equipment/{id}", admin(s.equipmentH.Update))
	mux.Handle("DELETE /equipment/{id}", admin(s.equipmentH.Delete))

	mux.Handle("POST /sessions", admin(s.sessionH.Create))
	mux.HandleFunc("GET /sessions", s.sessionH.List)
	mux.Handle("PUT /sessions/{id}", admin(s.sessionH.Update))
	mux.Handle("DELETE /sessions/{id}", admin(s.sessionH.Delete))

	mux.Handle("GET /access-logs", admin(s.accessLogH.List))

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub))
}
