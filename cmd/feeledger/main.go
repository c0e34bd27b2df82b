package main

import (
	"github.com/ADILZAMAL/al-sufiaan-school/internal/audit"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/clock"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/config"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/fee"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/logger"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/metrics"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/migration"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/payment"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/pricing"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/providers/pdf"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/server"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/student"
	"github.com/ADILZAMAL/al-sufiaan-school/internal/timeline"
	"github.com/ADILZAMAL/al-sufiaan-school/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		metrics.Module,
		migration.Module,

		// Functional domains
		audit.Module,
		student.Module,
		pricing.Module,
		fee.Module,
		payment.Module,
		timeline.Module,
		pdf.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
