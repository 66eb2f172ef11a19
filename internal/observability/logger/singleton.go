package logger

import (
	"sync"

	"go.uber.org/zap"
)

var defaultConfig = Config{Env: "dev", Level: "info"}

var (
	once     sync.Once
	mu       sync.RWMutex
	instance *zap.Logger
)

// Init inicializa el singleton. Solo la primera llamada tiene efecto.
func Init(cfg Config) {
	once.Do(func() {
		l := build(cfg)
		mu.Lock()
		instance = l
		mu.Unlock()
	})
}

// L retorna el logger singleton. Nunca retorna nil: si no hay instancia
// (Init no fue llamado, o un restore volvió a nil) crea una por defecto (dev, info).
func L() *zap.Logger {
	mu.RLock()
	l := instance
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(defaultConfig)
	mu.Lock()
	defer mu.Unlock()
	if instance == nil {
		instance = build(defaultConfig)
	}
	return instance
}

// Replace reemplaza el singleton y devuelve una función que restaura el anterior.
// Pensado para tests que observan logs (zaptest/observer).
func Replace(l *zap.Logger) (restore func()) {
	once.Do(func() {})
	mu.Lock()
	prev := instance
	instance = l
	mu.Unlock()
	return func() {
		mu.Lock()
		instance = prev
		mu.Unlock()
	}
}

// With retorna un logger con campos adicionales.
func With(fields ...zap.Field) *zap.Logger {
	return L().With(fields...)
}

// Sync flushea buffers pendientes. Llamar con defer en main.
func Sync() error {
	mu.RLock()
	defer mu.RUnlock()
	if instance != nil {
		return instance.Sync()
	}
	return nil
}
