package database

import (
	"context"

	"gorm.io/gorm"
)

// Chave para o contexto que indica se o timezone já foi configurado
type timezoneKey struct{}

// SetTimezoneMiddleware fixa America/Sao_Paulo na sessão antes das consultas,
// para que created_at dos snapshots volte no fuso usado pelos filtros.
func SetTimezoneMiddleware() func(db *gorm.DB) {
	return func(db *gorm.DB) {
		ctx := db.Statement.Context
		if ctx == nil {
			ctx = context.Background()
		}
		// Evita recursão infinita
		if _, ok := ctx.Value(timezoneKey{}).(bool); ok {
			return
		}
		db.Session(&gorm.Session{NewDB: true, Context: context.WithValue(ctx, timezoneKey{}, true)}).
			Exec("SET timezone = 'America/Sao_Paulo'")
	}
}

// RegisterMiddlewares registra os callbacks específicos do postgres.
func RegisterMiddlewares(db *gorm.DB) {
	if db.Dialector.Name() != "postgres" {
		return
	}
	_ = db.Callback().Query().Before("gorm:query").Register("set_timezone_before_query", SetTimezoneMiddleware())
}
