package handlers

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/gretellmoreno/bellagenda-api/internal/tenant"
)

func newWebTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.SetHTMLTemplate(template.Must(template.New("base").Parse(`{{ .Page }}`)))

	h := NewWebHandler(nil, tenant.NewResolver("localhost", "bellagenda.com.br"))
	r.GET("/", h.Home)
	return r
}

// "app.<host>" tem página própria e não passa pela resolução de
// tenant — não pode cair na landing genérica.
func TestHomeAppDomainRendersAppPage(t *testing.T) {
	r := newWebTestRouter()

	for _, host := range []string{"app.localhost:3000", "app.bellagenda.com.br"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Host = host
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, host)
		assert.Equal(t, "app", w.Body.String(), host)
	}
}

func TestHomeMainDomainRendersLanding(t *testing.T) {
	r := newWebTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Host = "localhost:8080"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "landing", w.Body.String())
}
