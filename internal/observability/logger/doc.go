// Package logger provides the process-wide Zap logger used by every layer of
// socialsync, plus request-scoped loggers carried through context.Context.
//
//   - Singleton: una sola instancia inicializada con Init() en main.
//   - Context scoping: los middlewares HTTP inyectan un logger con request_id,
//     method y path; services y stores lo recuperan con From(ctx).
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//
// Nunca loguear access tokens, refresh tokens, client secrets ni codes de
// autorización. Para el state OAuth usar StateSuffix.
//
// Uso:
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, ServiceName: "socialsync"})
//	defer logger.Sync()
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("connect.callback"))
//	log.Info("connection saved", logger.Platform("twitter"), logger.UserID(uid))
package logger
