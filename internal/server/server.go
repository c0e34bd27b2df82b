package server

import (
	"context"
	"net/http"
	"time"

	auditdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/audit/domain"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/config"
	feedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/fee/domain"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/metrics"
	paymentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/payment/domain"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/providers/pdf"
	pricingdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/pricing/domain"
	studentdomain "github.com/ADILZAMAL/al-sufiaan-school/internal/student/domain"
	timelinedomain "github.com/ADILZAMAL/al-sufiaan-school/internal/timeline/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(RequestLogger(log))
	r.Use(metrics.GinMiddleware(m))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))

	return r
}

func registerGin(log *zap.Logger, m *metrics.Metrics) *gin.Engine {
	return NewEngine(log, m)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	genID       *snowflake.Node
	studentSvc  studentdomain.Service
	pricingSvc  pricingdomain.Service
	feeSvc      feedomain.Service
	paymentSvc  paymentdomain.Service
	timelineSvc timelinedomain.Service
	auditSvc    auditdomain.Service
	pdfProvider pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	GenID       *snowflake.Node
	StudentSvc  studentdomain.Service
	PricingSvc  pricingdomain.Service
	FeeSvc      feedomain.Service
	PaymentSvc  paymentdomain.Service
	TimelineSvc timelinedomain.Service
	AuditSvc    auditdomain.Service
	PDFProvider pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		genID:       p.GenID,
		studentSvc:  p.StudentSvc,
		pricingSvc:  p.PricingSvc,
		feeSvc:      p.FeeSvc,
		paymentSvc:  p.PaymentSvc,
		timelineSvc: p.TimelineSvc,
		auditSvc:    p.AuditSvc,
		pdfProvider: p.PDFProvider,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api/v1")

	// -------- Students --------
	api.POST("/students", s.CreateStudent)
	api.GET("/students", s.ListStudents)
	api.GET("/students/:id", s.GetStudentByID)
	api.GET("/students/:id/fees", s.ListStudentFees)
	api.GET("/students/:id/fee-timeline", s.GetStudentFeeTimeline)

	// -------- Pricing --------
	api.POST("/pricing/class", s.SetClassPrice)
	api.POST("/pricing/transport", s.SetTransportPrice)
	api.GET("/pricing", s.ListPrices)

	// -------- Fees --------
	api.POST("/fees/generate", s.GenerateFee)
	api.GET("/fees/:id", s.GetFeeByID)

	// -------- Payments --------
	api.POST("/payments/collect", s.CollectPayment)
	api.GET("/payments/:id", s.GetPaymentByID)
	api.GET("/payments/:id/receipt", s.GetPaymentReceipt)

	// -------- Audit --------
	api.GET("/audit-logs", s.ListAuditLogs)
}
