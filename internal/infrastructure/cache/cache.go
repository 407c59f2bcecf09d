// Package cache mantém em memória os leads já ingeridos, com expiração por item.
package cache

import (
	"sync"
	"time"
)

// DefaultJanitorInterval é a frequência da limpeza de itens expirados.
const DefaultJanitorInterval = time.Minute

// Item guarda o valor e o instante de expiração (UnixNano). Expiration zero nunca expira.
type Item[V any] struct {
	Value      V
	Expiration int64
}

func (i Item[V]) expired(now int64) bool {
	return i.Expiration > 0 && now > i.Expiration
}

// Cache é um cache tipado com TTL e limpeza em background.
// Stop deve ser chamado no desligamento para encerrar a goroutine de limpeza.
type Cache[V any] struct {
	items map[string]Item[V]
	mu    sync.RWMutex
	ttl   time.Duration
	clock func() time.Time

	stop      chan struct{}
	stopOnce  sync.Once
	janitorOn bool
}

// Option configura o cache.
type Option func(*options)

type options struct {
	interval time.Duration
	clock    func() time.Time
}

// WithJanitorInterval altera a frequência da limpeza. Zero ou negativo desativa a goroutine.
func WithJanitorInterval(d time.Duration) Option {
	return func(o *options) { o.interval = d }
}

// WithClock injeta o relógio usado para expiração.
func WithClock(clock func() time.Time) Option {
	return func(o *options) { o.clock = clock }
}

// New cria o cache. ttl é a duração padrão de Set; zero significa sem expiração.
func New[V any](ttl time.Duration, opts ...Option) *Cache[V] {
	o := options{interval: DefaultJanitorInterval, clock: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Cache[V]{
		items: make(map[string]Item[V]),
		ttl:   ttl,
		clock: o.clock,
		stop:  make(chan struct{}),
	}

	if o.interval > 0 {
		c.janitorOn = true
		go c.janitor(o.interval)
	}
	return c
}

// HasJanitor informa se a limpeza em background foi iniciada.
func (c *Cache[V]) HasJanitor() bool {
	return c.janitorOn
}

func (c *Cache[V]) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.DeleteExpired()
		case <-c.stop:
			return
		}
	}
}

// Stop encerra a limpeza em background. Pode ser chamado mais de uma vez.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stop) })
}

// Set grava o valor com o TTL padrão.
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.ttl)
}

// SetWithTTL grava o valor com a duração informada.
func (c *Cache[V]) SetWithTTL(key string, value V, ttl time.Duration) {
	var expiration int64
	if ttl > 0 {
		expiration = c.clock().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = Item[V]{Value: value, Expiration: expiration}
}

// Get devolve o valor e se ele foi encontrado e ainda é válido.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, found := c.items[key]
	if !found || item.expired(c.clock().UnixNano()) {
		var zero V
		return zero, false
	}
	return item.Value, true
}

// Invalidate remove a chave.
func (c *Cache[V]) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.items, key)
}

// DeleteExpired remove todos os itens expirados.
func (c *Cache[V]) DeleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock().UnixNano()
	for k, v := range c.items {
		if v.expired(now) {
			delete(c.items, k)
		}
	}
}

// Clear remove todos os itens.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = make(map[string]Item[V])
}

// Len conta os itens armazenados, incluindo os expirados ainda não limpos.
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
