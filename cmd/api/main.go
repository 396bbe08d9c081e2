package main

import (
	"context"
	"os"
	"time"

	"storefront/internal/config"
	"storefront/internal/infra/db"
	"storefront/internal/logging"
	"storefront/internal/server"

	gfshutdown "github.com/gelmium/graceful-shutdown"
)

const shutdownTimeout = 30 * time.Second

func main() {
	//設定
	cfg, err := config.Load(".env", "../.env")
	if err != nil {
		panic(err)
	}
	log := logging.New(cfg.LogLevel, cfg.LogFormat)

	//DB接続
	gormDB, err := db.Connect(cfg, log)
	if err != nil {
		log.WithError(err).Fatal("connect database")
	}
	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("migrate database")
	}

	app, err := server.Build(cfg, gormDB, log)
	if err != nil {
		log.WithError(err).Fatal("build app")
	}

	//管理者（設定があるときだけ）
	if _, err := app.Auth.EnsureAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		log.WithError(err).Fatal("ensure admin user")
	}

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}
	go func() {
		log.WithField("addr", addr).Info("server started")
		if err := server.Start(app.Echo, addr); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		shutdownTimeout,
		map[string]gfshutdown.Operation{
			"http": func(ctx context.Context) error {
				//リクエストを捌き切ってからDBを閉じる
				if err := server.Shutdown(ctx, app.Echo, shutdownTimeout); err != nil {
					return err
				}
				sqlDB, err := gormDB.DB()
				if err != nil {
					return err
				}
				return sqlDB.Close()
			},
		},
	)

	exitCode := <-wait
	log.WithField("exit_code", exitCode).Info("server exited")
	os.Exit(exitCode)
}
