package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/marvingbh/clinica-sub005/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// limiter is a sliding-window request counter keyed by caller identity
// (client IP or clinic). Windows reset lazily on access; a background
// goroutine evicts keys whose window has expired.
type limiter struct {
	limite int
	janela time.Duration
	// agora is injectable for tests; defaults to time.Now.
	agora func() time.Time

	mu       sync.Mutex
	entradas map[string]*janelaContagem
}

type janelaContagem struct {
	contagem int
	fim      time.Time
}

const purgeInterval = 5 * time.Minute

func newLimiter(limite int, janela time.Duration) *limiter {
	l := &limiter{
		limite:   limite,
		janela:   janela,
		agora:    time.Now,
		entradas: make(map[string]*janelaContagem),
	}
	go l.purgar()
	return l
}

// permitir counts one request against chave and reports whether it is within
// quota, along with the instant the current window closes.
func (l *limiter) permitir(chave string) (bool, time.Time) {
	agora := l.agora()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entradas[chave]
	if !ok || agora.After(e.fim) {
		e = &janelaContagem{fim: agora.Add(l.janela)}
		l.entradas[chave] = e
	}
	e.contagem++
	return e.contagem <= l.limite, e.fim
}

func (l *limiter) purgar() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		agora := l.agora()

		l.mu.Lock()
		removidas := 0
		for chave, e := range l.entradas {
			if agora.After(e.fim) {
				delete(l.entradas, chave)
				removidas++
			}
		}
		restantes := len(l.entradas)
		l.mu.Unlock()

		if removidas > 0 {
			log.Debug().
				Int("entradas_removidas", removidas).
				Int("entradas_restantes", restantes).
				Msg("janelas expiradas do rate limiter removidas")
		}
	}
}

// chaveCliente identifies the caller for quota purposes. Authenticated
// requests share their clinic's budget so one tenant cannot starve another
// behind the same proxy IP; anonymous requests fall back to the client IP.
func chaveCliente(c *gin.Context) string {
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*JWTClaims); ok && claims.ClinicaID != "" {
			return "clinica:" + claims.ClinicaID
		}
	}
	return "ip:" + c.ClientIP()
}

// LoginRateLimiter limits login attempts to 20 per minute per client IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newLimiter(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := l.permitir("ip:" + c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Muitas tentativas de login. Tente novamente em 1 minuto."))
			return
		}
		c.Next()
	}
}

// RateLimiter applies a sliding-window quota per clinic (per IP when
// unauthenticated). Mount it after JWTAuth so the tenant claim is available.
func RateLimiter(limite int, janela time.Duration) gin.HandlerFunc {
	l := newLimiter(limite, janela)
	return func(c *gin.Context) {
		ok, fim := l.permitir(chaveCliente(c))
		if !ok {
			c.Header("Retry-After", fim.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Muitas requisições. Tente novamente em instantes."))
			return
		}
		c.Next()
	}
}
