package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestLimiterJanelaDeslizante(t *testing.T) {
	agora := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	l := &limiter{
		limite:   2,
		janela:   time.Minute,
		agora:    func() time.Time { return agora },
		entradas: make(map[string]*janelaContagem),
	}

	ok, _ := l.permitir("ip:1.2.3.4")
	assert.True(t, ok)
	ok, _ = l.permitir("ip:1.2.3.4")
	assert.True(t, ok)
	ok, fim := l.permitir("ip:1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, agora.Add(time.Minute), fim)

	// Another key has its own budget.
	ok, _ = l.permitir("ip:5.6.7.8")
	assert.True(t, ok)

	// Past the window, the counter resets.
	agora = agora.Add(61 * time.Second)
	ok, _ = l.permitir("ip:1.2.3.4")
	assert.True(t, ok)
}

func TestChaveClienteUsaClinicaQuandoAutenticado(t *testing.T) {
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/v1/faturas", nil)
	assert.Equal(t, "ip:"+c.ClientIP(), chaveCliente(c))

	c.Set(ClaimsKey, &JWTClaims{ClinicaID: "11111111-1111-1111-1111-111111111111"})
	assert.Equal(t, "clinica:11111111-1111-1111-1111-111111111111", chaveCliente(c))
}
